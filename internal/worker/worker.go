package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"basegraph.app/membership/common/logger"
	"basegraph.app/membership/internal/queue"
	"basegraph.app/membership/internal/service"
)

type Config struct {
	MaxAttempts int
	// ErrorBackoff is how long Run pauses after a failed read.
	ErrorBackoff time.Duration
}

type Worker struct {
	consumer   Consumer
	reconciler Reconciler
	cfg        Config

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer Consumer, reconciler Reconciler, cfg Config) *Worker {
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = time.Second
	}
	return &Worker{
		consumer:   consumer,
		reconciler: reconciler,
		cfg:        cfg,
		stopCh:     make(chan struct{}),
		stoppedCh:  make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	defer close(w.stoppedCh)

	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "membership.worker"})
	slog.InfoContext(ctx, "worker started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				slog.ErrorContext(ctx, "batch processing error", "error", err)
				select {
				case <-time.After(w.cfg.ErrorBackoff):
				case <-ctx.Done():
				case <-w.stopCh:
				}
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		if err := w.processMessageSafe(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "message processing failed",
				"error", err,
				"message_id", msg.ID,
				"workspace_public_id", msg.WorkspacePublicID)
			w.handleFailedMessage(ctx, msg, err)
		}
	}

	return nil
}

func (w *Worker) processMessageSafe(ctx context.Context, msg queue.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in message processing",
				"panic", r,
				"message_id", msg.ID,
				"workspace_public_id", msg.WorkspacePublicID)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.ProcessMessage(ctx, msg)
}

// ProcessMessage handles one task and acks it on success. Exported so the
// reclaimer can reuse it.
func (w *Worker) ProcessMessage(ctx context.Context, msg queue.Message) error {
	taskType := string(msg.TaskType)
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		MessageID:   &msg.ID,
		WorkspaceID: &msg.WorkspacePublicID,
		TaskType:    &taskType,
	})

	sc := logger.StartSpanFromTraceID(ctx, msg.TraceID, "worker."+taskType)
	defer sc.End()
	ctx = sc.Context()

	slog.InfoContext(ctx, "processing message",
		"reason", msg.Reason,
		"attempt", msg.Attempt)

	var err error
	switch msg.TaskType {
	case queue.TaskTypeSeatReconcile:
		err = w.reconcile(ctx, msg)
	default:
		// ParseMessage rejects unknown types, so this only guards future additions
		slog.WarnContext(ctx, "dropping message with unhandled task type")
	}
	if err != nil {
		sc.RecordError(err)
		return err
	}

	if err := w.consumer.Ack(ctx, msg); err != nil {
		// the reclaimer will redeliver it; reconciling twice is harmless
		slog.WarnContext(ctx, "failed to ACK message",
			"error", err,
			"message_id", msg.ID)
	}
	return nil
}

func (w *Worker) reconcile(ctx context.Context, msg queue.Message) error {
	result, err := w.reconciler.Reconcile(ctx, msg.WorkspacePublicID)
	if err != nil {
		if service.KindOf(err) == service.KindNotFound {
			slog.WarnContext(ctx, "workspace gone, dropping reconcile task", "error", err)
			return nil
		}
		return fmt.Errorf("reconciling seats: %w", err)
	}

	slog.InfoContext(ctx, "seat reconcile finished",
		"changed", result.Changed,
		"skipped", result.Skipped,
		"previous", result.Previous,
		"desired", result.Desired)
	return nil
}

func (w *Worker) handleFailedMessage(ctx context.Context, msg queue.Message, err error) {
	if msg.Attempt >= w.cfg.MaxAttempts {
		slog.ErrorContext(ctx, "max attempts reached, sending to DLQ",
			"message_id", msg.ID,
			"workspace_public_id", msg.WorkspacePublicID,
			"attempts", msg.Attempt)
		if dlqErr := w.consumer.SendDLQ(ctx, msg, err.Error()); dlqErr != nil {
			slog.ErrorContext(ctx, "failed to send to DLQ", "error", dlqErr)
		}
		return
	}

	slog.WarnContext(ctx, "requeuing failed message",
		"message_id", msg.ID,
		"workspace_public_id", msg.WorkspacePublicID,
		"attempt", msg.Attempt)
	if requeueErr := w.consumer.Requeue(ctx, msg, err.Error()); requeueErr != nil {
		slog.ErrorContext(ctx, "failed to requeue message", "error", requeueErr)
	}
}
