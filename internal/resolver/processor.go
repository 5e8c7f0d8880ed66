package resolver

import (
	"github.com/nxlang/nx/internal/ast"
	"github.com/nxlang/nx/internal/pipeline"
)

// Processor implements pipeline.Processor, resolving ctx.AstRoot in place.
type Processor struct{}

func NewProcessor() *Processor { return &Processor{} }

func (pr *Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	prog, ok := ctx.AstRoot.(*ast.Program)
	if !ok || prog == nil {
		return ctx
	}
	r := New()
	errs := r.Resolve(prog)
	for _, e := range errs {
		e.File = ctx.FilePath
	}
	ctx.Errors = append(ctx.Errors, errs...)
	return ctx
}
