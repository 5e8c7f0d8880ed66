package vm

import (
	"github.com/nxlang/nx/internal/ast"
	"github.com/nxlang/nx/internal/diagnostics"
	"github.com/nxlang/nx/internal/lexer"
	"github.com/nxlang/nx/internal/parser"
	"github.com/nxlang/nx/internal/pipeline"
	"github.com/nxlang/nx/internal/resolver"
	"github.com/nxlang/nx/internal/token"
)

// loopContext tracks the innermost loop being compiled, so break/skip know
// where to jump. Grounded on the teacher compiler's loop-patch-list
// approach (compiler_loops.go): break jumps are collected and patched once
// the loop's end address is known.
type loopContext struct {
	enclosing  *loopContext
	loopStart  int
	breakJumps []int
	scopeDepth int // local count at loop entry, for break's POP count
}

// compiler compiles one function body (or the top-level module) into a
// Chunk. One instance exists per nested function, linked to its enclosing
// compiler the way the resolver links funcStates, so CLOSURE upvalue
// descriptors are emitted directly from the resolver's output.
type compiler struct {
	vm        *VM
	enclosing *compiler
	fn        *ObjFunction
	loop      *loopContext
	class     *classCompileState
	errs      []*diagnostics.Error
}

type classCompileState struct {
	enclosing *classCompileState
	hasBase   bool
}

func newCompiler(vm *VM, enclosing *compiler, name string) *compiler {
	return &compiler{vm: vm, enclosing: enclosing, fn: &ObjFunction{Name: name, Chunk: NewChunk()}}
}

func (c *compiler) errorf(tok token.Token, format string, args ...interface{}) {
	c.errs = append(c.errs, diagnostics.New(diagnostics.StageCompile, tok, format, args...))
}

func (c *compiler) emit(op Opcode, pos token.Token) int { return c.fn.Chunk.WriteOp(op, pos) }
func (c *compiler) emitWord(w uint16, pos token.Token) int { return c.fn.Chunk.Write(w, pos) }

func (c *compiler) emitConstant(v Value, pos token.Token) {
	idx := c.fn.Chunk.AddConstant(v)
	c.emit(OpConstant, pos)
	c.emitWord(uint16(idx), pos)
}

func (c *compiler) emitJump(op Opcode, pos token.Token) int {
	c.emit(op, pos)
	return c.emitWord(0xFFFF, pos)
}

func (c *compiler) patchJump(at int) {
	target := len(c.fn.Chunk.Code)
	c.fn.Chunk.PatchJump(at, target)
}

func (c *compiler) emitLoop(start int, pos token.Token) {
	c.emit(OpLoop, pos)
	c.emitWord(uint16(start), pos)
}

// CompileProgram compiles a parsed+resolved Program into its module
// ObjFunction, the implicit top-level function every source file runs as.
func CompileProgram(vm *VM, prog *ast.Program) (*ObjFunction, []*diagnostics.Error) {
	c := newCompiler(vm, nil, "")
	c.fn.Arity = 0
	for _, stmt := range prog.Statements {
		c.compileStatement(stmt)
	}
	c.emit(OpNil, token.Token{})
	c.emit(OpReturn, token.Token{})
	c.fn.UpvalueCnt = len(prog.Upvalues)
	return c.fn, c.errs
}

// CompileSource runs the full lex -> parse -> resolve -> compile pipeline
// over one source file, used both by the CLI entry point and by module
// imports loading a dependency for the first time.
func CompileSource(vm *VM, src, filePath string) (*ObjFunction, []*diagnostics.Error) {
	ctx := pipeline.NewPipelineContext(src)
	ctx.FilePath = filePath
	l := lexer.New(src)
	ctx.Tokens = l.Tokens()

	p := parser.New(ctx.Tokens, ctx)
	prog := p.ParseProgram()
	if len(ctx.Errors) != 0 {
		return nil, ctx.Errors
	}

	errs := resolver.New().Resolve(prog)
	if len(errs) != 0 {
		return nil, errs
	}

	fn, cerrs := CompileProgram(vm, prog)
	if len(cerrs) != 0 {
		return nil, cerrs
	}
	return fn, nil
}
