package resolver

import "github.com/nxlang/nx/internal/ast"

func (r *Resolver) resolveStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VariableDeclaration:
		r.resolveVariableDeclaration(s)
	case *ast.FunctionDeclaration:
		r.resolveFunctionDeclaration(s)
	case *ast.ClassDeclaration:
		r.resolveClassDeclaration(s)
	case *ast.BlockStatement:
		r.pushScope()
		for _, inner := range s.Statements {
			r.resolveStatement(inner)
		}
		r.popScope()
	case *ast.IfStatement:
		r.resolveExpression(s.Condition)
		r.resolveStatement(s.Then)
		if s.Else != nil {
			r.resolveStatement(s.Else)
		}
	case *ast.WhileStatement:
		r.resolveExpression(s.Condition)
		r.fn.loopDepth++
		r.resolveStatement(s.Body)
		r.fn.loopDepth--
	case *ast.ForStatement:
		r.pushScope()
		r.fn.loopDepth++
		if s.Init != nil {
			r.resolveStatement(s.Init)
		}
		if s.Condition != nil {
			r.resolveExpression(s.Condition)
		}
		if s.Post != nil {
			r.resolveStatement(s.Post)
		}
		r.resolveStatement(s.Body)
		r.fn.loopDepth--
		r.popScope()
	case *ast.ReturnStatement:
		if r.fn.isCtor && s.Value != nil {
			r.errorf(s.Token, "cannot return a value from a constructor")
		}
		if s.Value != nil {
			r.resolveExpression(s.Value)
		}
	case *ast.PrintStatement:
		r.resolveExpression(s.Value)
	case *ast.ExpressionStatement:
		r.resolveExpression(s.Expression)
	case *ast.BreakStatement:
		if r.fn.loopDepth == 0 {
			r.errorf(s.Token, "cannot break outside of a loop")
		}
	case *ast.SkipStatement:
		if r.fn.loopDepth == 0 {
			r.errorf(s.Token, "cannot skip outside of a loop")
		}
	case *ast.ThrowStatement:
		r.resolveExpression(s.Value)
	case *ast.TryStatement:
		r.pushScope()
		for _, inner := range s.Try.Statements {
			r.resolveStatement(inner)
		}
		r.popScope()
		s.ErrorSlot = -1
		if s.Catch != nil {
			r.pushScope()
			s.ErrorSlot = r.fn.localCount
			r.injectSynthetic("error", r.fn.localCount)
			r.fn.localCount++
			for _, inner := range s.Catch.Statements {
				r.resolveStatement(inner)
			}
			r.popScope()
		}
	case *ast.ImportStatement:
		r.resolveImportStatement(s)
	default:
		// Unreachable for a well-formed AST; nothing further to resolve.
	}
}

func (r *Resolver) resolveImportStatement(s *ast.ImportStatement) {
	switch {
	case s.Name != nil:
		sym := r.declareVariable(s.Name, false)
		r.defineVariable(sym)
	default:
		// The compiler leaves the imported module object resting in its own
		// slot (mirroring a destructuring pattern's container) before reading
		// each requested field out of it; reserve that slot here too so later
		// declarations' indices line up with the compiler's pushes.
		s.ContainerSlot = r.reserveContainerSlotNamed("$module")
		for _, name := range s.Names {
			sym := r.declareVariable(name, false)
			r.defineVariable(sym)
		}
		if s.Rest != nil {
			if r.inGlobalScope() {
				sym := r.declareVariable(s.Rest, false)
				r.defineVariable(sym)
			} else {
				// `...rest` binds the whole module: alias the container's
				// own slot rather than reserving a fresh, never-written one.
				sym := r.injectSynthetic(s.Rest.Value, s.ContainerSlot)
				s.Rest.Ref = sym
			}
		}
	}
}

func (r *Resolver) resolveVariableDeclaration(s *ast.VariableDeclaration) {
	if s.Pattern != nil {
		r.declarePattern(s.Pattern, s.Const)
	} else {
		r.declareVariable(s.Name, s.Const)
	}

	if s.Value != nil {
		r.resolveExpression(s.Value)
	}

	if s.Pattern != nil {
		r.definePattern(s.Pattern)
	} else {
		r.defineVariable(s.Name.Ref)
	}
}

func (r *Resolver) resolveFunctionDeclaration(s *ast.FunctionDeclaration) {
	sym := r.declareVariable(s.Name, false)
	r.defineVariable(sym)
	r.resolveFunctionLiteral(s.Fn, false, false, false)
}

// resolveFunctionLiteral resolves a function body in its own scope and
// funcState, recording the resulting upvalue list and local count back onto
// the node for the compiler.
func (r *Resolver) resolveFunctionLiteral(fn *ast.FunctionLiteral, isMethod, isStatic, isCtor bool) {
	enclosingFn := r.fn
	r.fn = newFuncState(enclosingFn)
	r.fn.isMethod, r.fn.isStatic, r.fn.isCtor = isMethod, isStatic, isCtor
	r.pushScope()

	if isMethod && !isStatic {
		r.injectSynthetic("this", 0)
	}

	for _, param := range fn.Params {
		sym := r.declareVariable(param.Name, false)
		sym.Param = true
		if param.Default != nil {
			r.resolveExpression(param.Default)
		}
		r.defineVariable(sym)
	}

	for _, stmt := range fn.Body {
		r.resolveStatement(stmt)
	}

	fn.LocalCount = r.fn.localCount
	fn.Upvalues = r.fn.upvalues

	r.popScope()
	r.fn = enclosingFn
}

func (r *Resolver) resolveClassDeclaration(s *ast.ClassDeclaration) {
	if r.class != nil {
		r.errorf(s.Token, "classes cannot be nested")
	}

	sym := r.declareVariable(s.Name, false)
	r.defineVariable(sym)
	if s.Base != nil {
		r.resolveIdentifier(s.Base)
	}

	r.class = &classState{enclosing: r.class, hasBase: s.Base != nil}
	r.pushScope()
	r.injectSynthetic("this", 0)
	if s.Base != nil {
		r.injectSynthetic("base", -1)
	}

	for _, method := range s.Methods {
		switch method.Kind {
		case ast.MethodCtor:
			r.resolveFunctionLiteral(method.Fn, true, false, true)
		case ast.MethodStatic:
			r.resolveFunctionLiteral(method.Fn, true, true, false)
		default:
			r.resolveFunctionLiteral(method.Fn, true, false, false)
		}
	}

	r.popScope()
	r.class = r.class.enclosing
}
