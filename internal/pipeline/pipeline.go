package pipeline

// Pipeline runs the stages of one compilation unit in order.
type Pipeline struct {
	stages []Processor
}

func New(stages ...Processor) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run executes the stages and stops after the first one that reports an
// error, since each stage consumes what the previous one produced.
func (p *Pipeline) Run(ctx *PipelineContext) *PipelineContext {
	for _, stage := range p.stages {
		before := len(ctx.Errors)
		ctx = stage.Process(ctx)
		if len(ctx.Errors) > before {
			ctx.Tracef("stopped after %T: %d error(s)", stage, len(ctx.Errors)-before)
			break
		}
	}
	return ctx
}
