package noexcept

import (
	"context"

	"github.com/extinctpotato/catala/internal/analyzer"
	"github.com/extinctpotato/catala/internal/pipeline"
)

type TranslateProcessor struct{}

func (tp *TranslateProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Program == nil || ctx.PurityMap == nil {
		return ctx
	}

	pass := &Pass{Options: ctx.Options, Tracef: ctx.Tracef}
	out, err := pass.TranslateProgram(context.Background(), ctx.Program, analyzer.ResultFrom(ctx))
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Output = out
	ctx.Tracef("translated %d declarations", len(out.Decls))
	return ctx
}
