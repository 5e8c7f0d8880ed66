package vm

import (
	"github.com/nxlang/nx/internal/ast"
	"github.com/nxlang/nx/internal/token"
)

func (c *compiler) compileStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VariableDeclaration:
		c.compileVariableDeclaration(s)
	case *ast.FunctionDeclaration:
		c.compileFunctionDeclaration(s)
	case *ast.ClassDeclaration:
		c.compileClassDeclaration(s)
	case *ast.BlockStatement:
		c.compileBlock(s.Statements)
	case *ast.IfStatement:
		c.compileExpression(s.Condition)
		elseJump := c.emitJump(OpJumpIfFalse, s.Token)
		c.emit(OpPop, s.Token)
		c.compileBlock(s.Then.Statements)
		endJump := c.emitJump(OpJump, s.Token)
		c.patchJump(elseJump)
		c.emit(OpPop, s.Token)
		if s.Else != nil {
			c.compileStatement(s.Else)
		}
		c.patchJump(endJump)
	case *ast.WhileStatement:
		c.compileWhile(s)
	case *ast.ForStatement:
		c.compileFor(s)
	case *ast.ReturnStatement:
		if s.Value != nil {
			c.compileExpression(s.Value)
		} else {
			c.emit(OpNil, s.Token)
		}
		c.emit(OpReturn, s.Token)
	case *ast.PrintStatement:
		c.compileExpression(s.Value)
		c.emit(OpPrint, s.Token)
	case *ast.ExpressionStatement:
		c.compileExpression(s.Expression)
		c.emit(OpPop, s.Token)
	case *ast.BreakStatement:
		if c.loop != nil {
			jump := c.emitJump(OpJump, s.Token)
			c.loop.breakJumps = append(c.loop.breakJumps, jump)
		}
	case *ast.SkipStatement:
		if c.loop != nil {
			c.emitLoop(c.loop.loopStart, s.Token)
		}
	case *ast.ThrowStatement:
		c.compileExpression(s.Value)
		c.emit(OpThrow, s.Token)
	case *ast.TryStatement:
		c.compileTry(s)
	case *ast.ImportStatement:
		c.compileImport(s)
	}
}

func (c *compiler) compileBlock(stmts []ast.Statement) {
	for _, s := range stmts {
		c.compileStatement(s)
	}
}

// compileVariableDeclaration evaluates the initializer (or NIL) once. For a
// simple binding the value lands directly in its resolved slot/global; for
// a destructuring pattern it's held on the stack while each binding reads
// out its piece via indexed or named access.
func (c *compiler) compileVariableDeclaration(s *ast.VariableDeclaration) {
	if s.Value != nil {
		c.compileExpression(s.Value)
	} else {
		c.emit(OpNil, s.Token)
	}

	if s.Pattern != nil {
		c.compilePatternBind(s.Pattern)
		return
	}

	c.defineBinding(s.Name, s.Token)
}

// defineBinding stores the value currently on top of the stack into the
// slot/global the resolver assigned to id, per its Symbol.Kind. A local
// binding needs no instruction: its initializer's push already sits at
// exactly the local's resolved slot, since slots are assigned to
// declarations in the order they're compiled.
func (c *compiler) defineBinding(id *ast.Identifier, pos token.Token) {
	switch id.Ref.Kind {
	case ast.SymGlobal:
		idx := c.fn.Chunk.AddConstant(Obj(c.vm.InternString(id.Value)))
		c.emit(OpDefineGlobal, pos)
		c.emitWord(uint16(idx), pos)
	case ast.SymLocal:
		// value already resting at its slot; nothing to emit
	}
}
