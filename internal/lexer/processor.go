package lexer

import (
	"github.com/nxlang/nx/internal/pipeline"
)

// LexerProcessor is the pipeline stage that scans ctx.Source into tokens.
type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	l := New(ctx.Source)
	ctx.Tokens = l.Tokens()
	for _, e := range l.Errors {
		e.File = ctx.FilePath
		ctx.Errors = append(ctx.Errors, e)
	}
	return ctx
}
