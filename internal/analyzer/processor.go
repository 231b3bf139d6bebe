package analyzer

import (
	"github.com/extinctpotato/catala/internal/pipeline"
)

type PurityProcessor struct{}

func (pp *PurityProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Program == nil {
		return ctx
	}

	res, err := AnalyzeProgram(ctx.Program)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}

	ctx.PurityMap = res.Exprs // Export annotations to context
	ctx.DeclPurity = res.Decls
	ctx.Tracef("purity: %d nodes annotated", len(res.Exprs))
	return ctx
}

// ResultFrom rebuilds the analysis result exported by PurityProcessor.
func ResultFrom(ctx *pipeline.PipelineContext) *Result {
	return &Result{Exprs: ctx.PurityMap, Decls: ctx.DeclPurity}
}
