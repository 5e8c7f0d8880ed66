package vm

import (
	"github.com/nxlang/nx/internal/ast"
	"github.com/nxlang/nx/internal/token"
)

func (c *compiler) compileExpression(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		if e.IsFloat {
			c.emitConstant(Float(e.Float), e.Token)
		} else {
			c.emitConstant(Int(e.Int), e.Token)
		}
	case *ast.StringLiteral:
		c.compileStringLiteral(e)
	case *ast.BoolLiteral:
		if e.Value {
			c.emit(OpTrue, e.Token)
		} else {
			c.emit(OpFalse, e.Token)
		}
	case *ast.NilLiteral:
		c.emit(OpNil, e.Token)
	case *ast.Identifier:
		c.loadVariable(e)
	case *ast.SeqLiteral:
		for _, el := range e.Elements {
			c.compileExpression(el)
		}
		c.emit(OpSeqLiteral, e.Token)
		c.emitWord(uint16(len(e.Elements)), e.Token)
	case *ast.TupleLiteral:
		for _, el := range e.Elements {
			c.compileExpression(el)
		}
		c.emit(OpTupleLiteral, e.Token)
		c.emitWord(uint16(len(e.Elements)), e.Token)
	case *ast.ObjLiteral:
		for _, entry := range e.Entries {
			c.emitConstant(Obj(c.vm.InternString(entry.Key.Value)), e.Token)
			c.compileExpression(entry.Value)
		}
		c.emit(OpObjectLiteral, e.Token)
		c.emitWord(uint16(len(e.Entries)), e.Token)
	case *ast.GroupingExpression:
		c.compileExpression(e.Inner)
	case *ast.UnaryExpression:
		c.compileExpression(e.Right)
		switch e.Operator {
		case token.MINUS:
			c.emit(OpNegate, e.Token)
		case token.BANG:
			c.emit(OpNot, e.Token)
		}
	case *ast.PostfixExpression:
		c.compilePostfix(e)
	case *ast.BinaryExpression:
		c.compileExpression(e.Left)
		c.compileExpression(e.Right)
		c.emit(binaryOp(e.Operator), e.Token)
	case *ast.AndExpression:
		c.compileExpression(e.Left)
		jump := c.emitJump(OpJumpIfFalse, e.Token)
		c.emit(OpPop, e.Token)
		c.compileExpression(e.Right)
		c.patchJump(jump)
	case *ast.OrExpression:
		c.compileExpression(e.Left)
		elseJump := c.emitJump(OpJumpIfFalse, e.Token)
		endJump := c.emitJump(OpJump, e.Token)
		c.patchJump(elseJump)
		c.emit(OpPop, e.Token)
		c.compileExpression(e.Right)
		c.patchJump(endJump)
	case *ast.TernaryExpression:
		c.compileExpression(e.Condition)
		elseJump := c.emitJump(OpJumpIfFalse, e.Token)
		c.emit(OpPop, e.Token)
		c.compileExpression(e.Then)
		endJump := c.emitJump(OpJump, e.Token)
		c.patchJump(elseJump)
		c.emit(OpPop, e.Token)
		c.compileExpression(e.Else)
		c.patchJump(endJump)
	case *ast.AssignExpression:
		c.compileAssign(e)
	case *ast.CallExpression:
		c.compileCall(e)
	case *ast.DotExpression:
		idx := c.fn.Chunk.AddConstant(Obj(c.vm.InternString(e.Name)))
		if _, isBase := e.Receiver.(*ast.BaseExpression); isBase {
			c.emit(OpGetLocal, e.Token)
			c.emitWord(0, e.Token)
			c.emit(OpGetBaseMethod, e.Token)
			c.emitWord(uint16(idx), e.Token)
			return
		}
		c.compileExpression(e.Receiver)
		c.emit(OpGetProperty, e.Token)
		c.emitWord(uint16(idx), e.Token)
	case *ast.SubscriptExpression:
		c.compileExpression(e.Receiver)
		c.compileExpression(e.Index)
		c.emit(OpGetSubscript, e.Token)
	case *ast.SliceExpression:
		c.compileExpression(e.Receiver)
		if e.From != nil {
			c.compileExpression(e.From)
		} else {
			c.emit(OpNil, e.Token)
		}
		if e.To != nil {
			c.compileExpression(e.To)
		} else {
			c.emit(OpNil, e.Token)
		}
		c.emit(OpGetSlice, e.Token)
	case *ast.ThisExpression:
		c.emit(OpGetLocal, e.Token)
		c.emitWord(0, e.Token)
	case *ast.BaseExpression:
		c.emit(OpGetLocal, e.Token)
		c.emitWord(0, e.Token)
	case *ast.LambdaExpression:
		c.compileFunctionLiteral(e.Fn, false)
	case *ast.IsExpression:
		c.compileExpression(e.Left)
		c.loadVariable(e.Class)
		c.emit(OpIs, e.Token)
	case *ast.InExpression:
		c.compileExpression(e.Value)
		c.compileExpression(e.Collection)
		c.emit(OpIn, e.Token)
	case *ast.TryExpression:
		tryJump := c.emitJump(OpTry, e.Token)
		c.compileExpression(e.Inner)
		endJump := c.emitJump(OpJump, e.Token)
		c.patchJump(tryJump)
		c.emit(OpNil, e.Token)
		c.patchJump(endJump)
	}
}

func (c *compiler) compileStringLiteral(s *ast.StringLiteral) {
	if s.Parts == nil {
		c.emitConstant(Obj(c.vm.InternString(s.Value)), s.Token)
		return
	}
	for i, part := range s.Parts {
		c.compileExpression(part)
		if i > 0 {
			c.emit(OpAdd, s.Token)
		}
	}
}

func binaryOp(op token.Type) Opcode {
	switch op {
	case token.PLUS:
		return OpAdd
	case token.MINUS:
		return OpSub
	case token.STAR:
		return OpMul
	case token.SLASH:
		return OpDiv
	case token.PERCENT:
		return OpMod
	case token.EQ:
		return OpEq
	case token.NEQ:
		return OpNeq
	case token.LT:
		return OpLt
	case token.GT:
		return OpGt
	case token.LTEQ:
		return OpLtEq
	case token.GTEQ:
		return OpGtEq
	default:
		return OpNop
	}
}

// loadVariable emits the load sequence for a resolved identifier reference.
func (c *compiler) loadVariable(id *ast.Identifier) {
	switch id.Ref.Kind {
	case ast.SymLocal:
		c.emit(OpGetLocal, id.Token)
		c.emitWord(uint16(id.Ref.Index), id.Token)
	case ast.SymUpvalue:
		c.emit(OpGetUpvalue, id.Token)
		c.emitWord(uint16(id.Ref.Index), id.Token)
	case ast.SymGlobal:
		idx := c.fn.Chunk.AddConstant(Obj(c.vm.InternString(id.Value)))
		c.emit(OpGetGlobal, id.Token)
		c.emitWord(uint16(idx), id.Token)
	case ast.SymNative:
		idx := c.fn.Chunk.AddConstant(Obj(c.vm.InternString(id.Value)))
		c.emit(OpGetGlobal, id.Token) // natives are pre-seeded into globals at VM startup
		c.emitWord(uint16(idx), id.Token)
	}
}

func (c *compiler) compilePostfix(e *ast.PostfixExpression) {
	c.compileExpression(e.Left)  // pre-increment value, left on stack as the expression's result
	c.compileAssignTargetLoad(e.Left)
	c.emitConstant(Int(1), e.Token)
	if e.Operator == token.INCR {
		c.emit(OpAdd, e.Token)
	} else {
		c.emit(OpSub, e.Token)
	}
	c.storeTarget(e.Left, e.Token)
	c.emit(OpPop, e.Token) // discard the store's echoed value; the pre-increment copy remains
}

// compileAssignTargetLoad re-reads a simple target for a compound op's RHS
// prelude (identifiers only; dot/subscript targets are handled inline by
// compileAssign, which doesn't reuse this helper for receivers with side
// effects).
func (c *compiler) compileAssignTargetLoad(target ast.Expression) {
	if id, ok := target.(*ast.Identifier); ok {
		c.loadVariable(id)
	}
}

func (c *compiler) compileAssign(e *ast.AssignExpression) {
	switch t := e.Target.(type) {
	case *ast.Identifier:
		if e.Operator == token.ASSIGN {
			c.compileExpression(e.Value)
		} else {
			c.loadVariable(t)
			c.compileExpression(e.Value)
			c.emit(compoundOp(e.Operator), e.Token)
		}
		c.storeIdentifier(t, e.Token)
	case *ast.DotExpression:
		c.compileExpression(t.Receiver)
		nameIdx := c.fn.Chunk.AddConstant(Obj(c.vm.InternString(t.Name)))
		if e.Operator != token.ASSIGN {
			c.emit(OpDupe, e.Token)
			c.emitWord(0, e.Token)
			c.emit(OpGetProperty, e.Token)
			c.emitWord(uint16(nameIdx), e.Token)
			c.compileExpression(e.Value)
			c.emit(compoundOp(e.Operator), e.Token)
		} else {
			c.compileExpression(e.Value)
		}
		c.emit(OpSetProperty, e.Token)
		c.emitWord(uint16(nameIdx), e.Token)
	case *ast.SubscriptExpression:
		c.compileExpression(t.Receiver)
		c.compileExpression(t.Index)
		if e.Operator != token.ASSIGN {
			c.emit(OpDupe, e.Token)
			c.emitWord(1, e.Token)
			c.emit(OpDupe, e.Token)
			c.emitWord(1, e.Token)
			c.emit(OpGetSubscript, e.Token)
			c.compileExpression(e.Value)
			c.emit(compoundOp(e.Operator), e.Token)
		} else {
			c.compileExpression(e.Value)
		}
		c.emit(OpSetSubscript, e.Token)
	}
}

func (c *compiler) storeIdentifier(id *ast.Identifier, tok token.Token) {
	switch id.Ref.Kind {
	case ast.SymLocal:
		c.emit(OpSetLocal, tok)
		c.emitWord(uint16(id.Ref.Index), tok)
	case ast.SymUpvalue:
		c.emit(OpSetUpvalue, tok)
		c.emitWord(uint16(id.Ref.Index), tok)
	case ast.SymGlobal:
		idx := c.fn.Chunk.AddConstant(Obj(c.vm.InternString(id.Value)))
		c.emit(OpSetGlobal, tok)
		c.emitWord(uint16(idx), tok)
	}
}

func (c *compiler) storeTarget(target ast.Expression, tok token.Token) {
	if id, ok := target.(*ast.Identifier); ok {
		c.storeIdentifier(id, tok)
	}
}

func compoundOp(op token.Type) Opcode {
	switch op {
	case token.PLUS_ASSIGN:
		return OpAdd
	case token.MINUS_ASSIGN:
		return OpSub
	case token.STAR_ASSIGN:
		return OpMul
	case token.SLASH_ASSIGN:
		return OpDiv
	case token.PERCENT_ASSIGN:
		return OpMod
	default:
		return OpNop
	}
}

func (c *compiler) compileCall(e *ast.CallExpression) {
	if dot, ok := e.Callee.(*ast.DotExpression); ok {
		nameIdx := c.fn.Chunk.AddConstant(Obj(c.vm.InternString(dot.Name)))
		if _, isBase := dot.Receiver.(*ast.BaseExpression); isBase {
			c.emit(OpGetLocal, e.Token)
			c.emitWord(0, e.Token) // the receiver, still 'this' even when dispatching through base
			for _, arg := range e.Arguments {
				c.compileExpression(arg)
			}
			c.emit(OpBaseInvoke, e.Token)
			c.emitWord(uint16(nameIdx), e.Token)
			c.emitWord(uint16(len(e.Arguments)), e.Token)
			return
		}
		c.compileExpression(dot.Receiver)
		for _, arg := range e.Arguments {
			c.compileExpression(arg)
		}
		c.emit(OpInvoke, e.Token)
		c.emitWord(uint16(nameIdx), e.Token)
		c.emitWord(uint16(len(e.Arguments)), e.Token)
		return
	}
	c.compileExpression(e.Callee)
	for _, arg := range e.Arguments {
		c.compileExpression(arg)
	}
	c.emit(OpCall, e.Token)
	c.emitWord(uint16(len(e.Arguments)), e.Token)
}
