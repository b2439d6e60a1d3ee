package service

import (
	"context"
	"log/slog"

	"basegraph.app/membership/common/logger"
)

// sagaStep is one side-effecting step. compensate undoes a completed run and
// may be nil when there is nothing to undo.
type sagaStep struct {
	name       string
	run        func(ctx context.Context) error
	compensate func(ctx context.Context) error
}

// saga runs steps in order. When a step fails, the compensations of the
// steps that already completed run once each, newest first, and the
// failing step's error is returned unchanged.
type saga struct {
	name  string
	steps []sagaStep
}

func newSaga(name string, steps ...sagaStep) *saga {
	return &saga{name: name, steps: steps}
}

func (s *saga) Run(ctx context.Context) error {
	completed := make([]sagaStep, 0, len(s.steps))

	for _, step := range s.steps {
		sc := logger.StartSpan(ctx, s.name+"."+step.name)
		err := step.run(sc.Context())
		sc.RecordError(err)
		sc.End()

		if err != nil {
			slog.WarnContext(ctx, "saga step failed",
				"saga", s.name,
				"step", step.name,
				"error", err)
			s.compensate(ctx, completed, step.name)
			return err
		}
		completed = append(completed, step)
	}

	return nil
}

func (s *saga) compensate(ctx context.Context, completed []sagaStep, failedStep string) {
	// compensations must run even if the request was cancelled
	ctx = context.WithoutCancel(ctx)

	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		if step.compensate == nil {
			continue
		}

		sc := logger.StartSpan(ctx, s.name+"."+step.name+".compensate")
		err := step.compensate(sc.Context())
		sc.RecordError(err)
		sc.End()

		if err != nil {
			slog.ErrorContext(ctx, "compensation failed",
				"saga", s.name,
				"step", step.name,
				"failed_step", failedStep,
				"error", err)
			continue
		}
		slog.InfoContext(ctx, "compensation applied",
			"saga", s.name,
			"step", step.name,
			"failed_step", failedStep)
	}
}
