package vm

import (
	"github.com/nxlang/nx/internal/ast"
)

func (c *compiler) compileWhile(s *ast.WhileStatement) {
	loopStart := len(c.fn.Chunk.Code)
	c.loop = &loopContext{enclosing: c.loop, loopStart: loopStart}

	c.compileExpression(s.Condition)
	exitJump := c.emitJump(OpJumpIfFalse, s.Token)
	c.emit(OpPop, s.Token)
	c.compileBlock(s.Body.Statements)
	c.emitLoop(loopStart, s.Token)

	c.patchJump(exitJump)
	c.emit(OpPop, s.Token)
	for _, j := range c.loop.breakJumps {
		c.patchJump(j)
	}
	c.loop = c.loop.enclosing
}

func (c *compiler) compileFor(s *ast.ForStatement) {
	if s.Init != nil {
		c.compileStatement(s.Init)
	}

	loopStart := len(c.fn.Chunk.Code)
	c.loop = &loopContext{enclosing: c.loop, loopStart: loopStart}

	var exitJump int
	hasExit := s.Condition != nil
	if hasExit {
		c.compileExpression(s.Condition)
		exitJump = c.emitJump(OpJumpIfFalse, s.Token)
		c.emit(OpPop, s.Token)
	}

	// skip re-targets the post-clause, not the loop header, when one exists:
	// the post-clause is emitted ahead of the body and jumped over on entry.
	if s.Post != nil {
		bodyJump := c.emitJump(OpJump, s.Token)
		postStart := len(c.fn.Chunk.Code)
		c.compileStatement(s.Post)
		c.emitLoop(loopStart, s.Token)
		c.loop.loopStart = postStart
		c.patchJump(bodyJump)
	}

	c.compileBlock(s.Body.Statements)
	c.emitLoop(c.loop.loopStart, s.Token)

	if hasExit {
		c.patchJump(exitJump)
		c.emit(OpPop, s.Token)
	}
	for _, j := range c.loop.breakJumps {
		c.patchJump(j)
	}
	c.loop = c.loop.enclosing
}

func (c *compiler) compileTry(s *ast.TryStatement) {
	tryJump := c.emitJump(OpTry, s.Token)
	c.compileBlock(s.Try.Statements)
	c.emit(OpPop, s.Token) // discard the now-unused handler value on the normal path
	endJump := c.emitJump(OpJump, s.Token)

	c.patchJump(tryJump)
	if s.Catch != nil {
		c.emit(OpGetError, s.Token)
		c.emit(OpSetLocal, s.Token)
		c.emitWord(uint16(s.ErrorSlot), s.Token)
		c.emit(OpPop, s.Token)
		c.compileBlock(s.Catch.Statements)
	}
	c.patchJump(endJump)
}

func (c *compiler) compileImport(s *ast.ImportStatement) {
	if s.Name != nil {
		nameIdx := c.fn.Chunk.AddConstant(Obj(c.vm.InternString(s.Name.Value)))
		if s.Path != "" {
			pathIdx := c.fn.Chunk.AddConstant(Obj(c.vm.InternString(s.Path)))
			c.emit(OpImportFrom, s.Token)
			c.emitWord(uint16(nameIdx), s.Token)
			c.emitWord(uint16(pathIdx), s.Token)
		} else {
			c.emit(OpImport, s.Token)
			c.emitWord(uint16(nameIdx), s.Token)
		}
		c.defineBinding(s.Name, s.Token)
		return
	}

	pathConst := ""
	if s.Path != "" {
		pathConst = s.Path
	}
	// A destructured import has no single bound name: resolve it under a
	// synthetic module-local name, then bind each requested field off it.
	nameIdx := c.fn.Chunk.AddConstant(Obj(c.vm.InternString("$module")))
	if pathConst != "" {
		pathIdx := c.fn.Chunk.AddConstant(Obj(c.vm.InternString(pathConst)))
		c.emit(OpImportFrom, s.Token)
		c.emitWord(uint16(nameIdx), s.Token)
		c.emitWord(uint16(pathIdx), s.Token)
	} else {
		c.emit(OpImport, s.Token)
		c.emitWord(uint16(nameIdx), s.Token)
	}

	for _, name := range s.Names {
		c.dupeContainer(s.ContainerSlot, s.Token)
		pIdx := c.fn.Chunk.AddConstant(Obj(c.vm.InternString(name.Value)))
		c.emit(OpGetProperty, s.Token)
		c.emitWord(uint16(pIdx), s.Token)
		c.defineBinding(name, s.Token)
	}
	if s.Rest != nil {
		c.defineBinding(s.Rest, s.Token)
	} else if s.ContainerSlot < 0 {
		c.emit(OpPop, s.Token)
	}
}
