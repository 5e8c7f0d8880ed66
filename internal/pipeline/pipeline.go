// Package pipeline threads a compilation unit through lex/parse/resolve
// stages, accumulating diagnostics from every stage instead of stopping
// at the first one that fails.
package pipeline

import (
	"github.com/nxlang/nx/internal/diagnostics"
	"github.com/nxlang/nx/internal/token"
)

// PipelineContext carries a compilation unit's state as it flows through
// the processors.
type PipelineContext struct {
	FilePath string
	Source   string

	Tokens []token.Token // filled in by the lexer stage
	// AstRoot holds the parsed program. Typed as interface{} to avoid a
	// pipeline -> ast import cycle (ast does not depend on pipeline).
	AstRoot interface{}

	Errors []*diagnostics.Error
}

// NewPipelineContext creates a fresh context for the given source text.
func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{Source: source}
}

// Processor is one pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes every stage in order, continuing past stage errors so later
// stages (and their own diagnostics) still get a chance to run.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
