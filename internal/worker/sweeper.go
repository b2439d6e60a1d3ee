package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"basegraph.app/membership/common/logger"
	"basegraph.app/membership/internal/queue"
)

// Sweeper periodically flags every seat-billed workspace for
// reconciliation. It catches drift that no request ever reported, such as
// a compensation task that was lost with its Redis write.
type Sweeper struct {
	source   SweepSource
	tasks    Enqueuer
	interval time.Duration

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewSweeper(source SweepSource, tasks Enqueuer, interval time.Duration) *Sweeper {
	return &Sweeper{
		source:    source,
		tasks:     tasks,
		interval:  interval,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (s *Sweeper) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "membership.worker.sweeper",
	})

	defer close(s.stoppedCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "sweeper started", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			slog.InfoContext(ctx, "sweeper stopping")
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "sweep cycle error", "error", err)
			}
		}
	}
}

func (s *Sweeper) Stop() {
	close(s.stopCh)
	<-s.stoppedCh
}

// SweepOnce enqueues one reconcile task per target and returns how many
// were enqueued. A failed enqueue does not stop the rest.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	targets, err := s.source.SweepTargets(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing sweep targets: %w", err)
	}

	enqueued := 0
	for _, ws := range targets {
		if err := s.tasks.Enqueue(ctx, queue.Task{
			TaskType:          queue.TaskTypeSeatReconcile,
			WorkspacePublicID: ws,
			Reason:            queue.ReasonSweep,
		}); err != nil {
			slog.WarnContext(ctx, "failed to enqueue sweep task",
				"error", err,
				"workspace_public_id", ws)
			continue
		}
		enqueued++
	}

	if len(targets) > 0 {
		slog.InfoContext(ctx, "sweep enqueued reconcile tasks",
			"targets", len(targets),
			"enqueued", enqueued)
	}
	return enqueued, nil
}
