package queue

type TaskType string

const (
	TaskTypeSeatReconcile TaskType = "seat_reconcile"
)

// ReconcileReason records why a workspace was flagged for seat reconciliation.
type ReconcileReason string

const (
	ReasonInviteRolledBack  ReconcileReason = "invite_rolled_back"
	ReasonSeatDecrementFail ReconcileReason = "seat_decrement_failed"
	ReasonSweep             ReconcileReason = "sweep"
)

type Task struct {
	TaskType          TaskType
	WorkspacePublicID string
	Reason            ReconcileReason
	TraceID           *string
	Attempt           int
}
