package irload

import (
	"github.com/extinctpotato/catala/internal/pipeline"
)

// LoadProcessor reads ctx.FilePath into ctx.Program when no program was
// supplied.
type LoadProcessor struct{}

func (lp *LoadProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Program != nil || ctx.FilePath == "" {
		return ctx
	}

	prog, err := Load(ctx.FilePath)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Program = prog
	ctx.UnitName = prog.Name
	ctx.Tracef("loaded %s: %d declarations", ctx.FilePath, len(prog.Decls))
	return ctx
}
