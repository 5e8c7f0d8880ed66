package parser

import (
	"github.com/nxlang/nx/internal/lexer"
	"github.com/nxlang/nx/internal/pipeline"
)

// Processor implements pipeline.Processor, turning ctx.Tokens (filled in by
// the lexer stage) into ctx.AstRoot.
type Processor struct{}

func NewProcessor() *Processor { return &Processor{} }

func (pr *Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Tokens == nil {
		l := lexer.New(ctx.Source)
		ctx.Tokens = l.Tokens()
		ctx.Errors = append(ctx.Errors, l.Errors...)
	}

	p := New(ctx.Tokens, ctx)
	program := p.ParseProgram()
	program.File = ctx.FilePath
	ctx.AstRoot = program

	for _, e := range ctx.Errors {
		if e.File == "" {
			e.File = ctx.FilePath
		}
	}
	return ctx
}
