package pipeline

import (
	"context"
	"log/slog"

	"github.com/Risho92/rufus/internal/model"
)

// Step is one stage of a crawl session. Steps run in sequence, each
// filling in its part of the shared session.
type Step interface {
	// Do executes the step against the session. A returned error fails
	// the step; recoverable conditions should be handled inside the step.
	Do(ctx context.Context, session *model.CrawlSession) error

	// Name returns the step's name for logging.
	Name() string
}

// Pipeline executes an ordered list of steps against one session.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger

	// continueOnError keeps later steps running after one fails. The
	// default stops at the first failure because later steps depend on
	// earlier output.
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithContinueOnError keeps executing steps after a failure. The error is
// still recorded on the session.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a Pipeline. Steps are added with AddSteps.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:  make([]Step, 0),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps in order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs the steps in order. Cancellation is checked between steps;
// steps own their in-flight timeouts. Failures are recorded on the
// session, and the first failure stops the pipeline unless
// WithContinueOnError was set.
func (p *Pipeline) Execute(ctx context.Context, session *model.CrawlSession) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			session.ErrorMessage = ctx.Err().Error()
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"startURL", session.StartURL,
		)

		if err := step.Do(ctx, session); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"startURL", session.StartURL,
				"error", err,
			)
			session.ErrorMessage = err.Error()

			if !p.continueOnError {
				session.PerformedSteps = append(session.PerformedSteps, step.Name())
				return err
			}
		}

		session.PerformedSteps = append(session.PerformedSteps, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
