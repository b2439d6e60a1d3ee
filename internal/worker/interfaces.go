package worker

import (
	"context"

	"basegraph.app/membership/internal/queue"
	"basegraph.app/membership/internal/service"
)

// Consumer abstracts the message queue for testability.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

// Reconciler abstracts seat reconciliation for testability.
type Reconciler interface {
	Reconcile(ctx context.Context, workspacePublicID string) (*service.ReconcileResult, error)
}

// SweepSource lists the workspaces the periodic sweep should flag.
type SweepSource interface {
	SweepTargets(ctx context.Context) ([]string, error)
}

// Enqueuer mirrors service.TaskEnqueuer.
type Enqueuer interface {
	Enqueue(ctx context.Context, task queue.Task) error
}
