package vm

import "github.com/nxlang/nx/internal/ast"

// compileFunctionLiteral compiles fn's body into its own ObjFunction and
// emits CLOSURE followed by one (is_local, index) pair per upvalue the
// resolver recorded on it.
func (c *compiler) compileFunctionLiteral(fn *ast.FunctionLiteral, isMethod bool) *ObjFunction {
	inner := newCompiler(c.vm, c, fn.Name)
	inner.class = c.class
	inner.fn.Arity = len(fn.Params)
	for _, p := range fn.Params {
		if p.Rest {
			inner.fn.IsVariadic = true
		}
	}
	for _, stmt := range fn.Body {
		inner.compileStatement(stmt)
	}
	inner.emit(OpNil, fn.Token)
	inner.emit(OpReturn, fn.Token)
	inner.fn.UpvalueCnt = len(fn.Upvalues)
	c.errs = append(c.errs, inner.errs...)

	idx := c.fn.Chunk.AddConstant(Obj(inner.fn))
	c.emit(OpClosure, fn.Token)
	c.emitWord(uint16(idx), fn.Token)
	for _, uv := range fn.Upvalues {
		isLocal := uint16(0)
		if uv.IsLocal {
			isLocal = 1
		}
		c.emitWord(isLocal, fn.Token)
		c.emitWord(uint16(uv.Index), fn.Token)
	}
	return inner.fn
}

func (c *compiler) compileFunctionDeclaration(s *ast.FunctionDeclaration) {
	c.compileFunctionLiteral(s.Fn, false)
	c.defineBinding(s.Name, s.Token)
}

// compileClassDeclaration emits CLASS, an optional INHERIT, each method's
// closure + METHOD, and finally FINALIZE, per the compiler's class-body
// emission sequence.
func (c *compiler) compileClassDeclaration(s *ast.ClassDeclaration) {
	nameIdx := c.fn.Chunk.AddConstant(Obj(c.vm.InternString(s.Name.Value)))
	c.emit(OpClass, s.Token)
	c.emitWord(uint16(nameIdx), s.Token)
	c.defineBinding(s.Name, s.Token)

	c.loadVariable(s.Name)
	if s.Base != nil {
		c.loadVariable(s.Base)
		c.emit(OpInherit, s.Token)
	}

	prevClass := c.class
	c.class = &classCompileState{enclosing: prevClass, hasBase: s.Base != nil}

	for _, m := range s.Methods {
		c.compileFunctionLiteral(m.Fn, true)
		nIdx := c.fn.Chunk.AddConstant(Obj(c.vm.InternString(m.Name)))
		c.emit(OpMethod, s.Token)
		c.emitWord(uint16(nIdx), s.Token)
		c.emitWord(uint16(m.Kind), s.Token)
	}

	c.emit(OpFinalize, s.Token)
	c.emit(OpPop, s.Token) // drop the class value pushed for INHERIT/METHOD/FINALIZE's receiver
	c.class = prevClass
}
