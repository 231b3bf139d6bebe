package pipeline

import (
	"log"

	"github.com/google/uuid"

	"github.com/extinctpotato/catala/internal/ast"
	"github.com/extinctpotato/catala/internal/config"
)

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries one compilation unit through the stages.
type PipelineContext struct {
	UnitName string
	// UnitID correlates the trace lines of one run.
	UnitID   uuid.UUID
	FilePath string
	Options  *config.Options

	// Program is the source program, with default constructs.
	Program *ast.Program
	// PurityMap and DeclPurity are filled by the purity analysis.
	PurityMap  ast.PurityMap
	DeclPurity map[*ast.Var]ast.Purity
	// Output is the translated, default-free program.
	Output *ast.Program

	Errors []error
}

func NewPipelineContext(program *ast.Program, opts *config.Options) *PipelineContext {
	if opts == nil {
		opts = config.DefaultOptions()
	}
	name := config.DefaultUnitName
	if program != nil && program.Name != "" {
		name = program.Name
	}
	return &PipelineContext{
		UnitName: name,
		UnitID:   uuid.New(),
		Options:  opts,
		Program:  program,
	}
}

func (ctx *PipelineContext) Failed() bool {
	return len(ctx.Errors) > 0
}

// Tracef logs a line tagged with the unit when tracing is enabled.
func (ctx *PipelineContext) Tracef(format string, args ...any) {
	if ctx.Options == nil || !ctx.Options.Trace {
		return
	}
	log.Printf("[%s %s] "+format, append([]any{ctx.UnitName, ctx.UnitID}, args...)...)
}
