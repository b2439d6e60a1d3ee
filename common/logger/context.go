package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields are attached to every log line written with a context that carries them.
// Set them once at the edge (handler, worker) and every service log picks them up.
type LogFields struct {
	WorkspaceID    *string // Workspace public ID
	MemberID       *string // Member public ID
	SubscriptionID *int64  // Local subscription row ID
	RequesterID    *int64  // Authenticated user performing the operation
	MessageID      *string // Redis stream message ID
	TaskType       *string // Queue task type (e.g. "seat_reconcile")
	Component      string  // OTel-style component name, e.g. "membership.service.workflow"
}

// WithLogFields enriches context with structured log fields.
// Newer non-nil/non-empty values win over existing ones.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.WorkspaceID != nil {
		result.WorkspaceID = next.WorkspaceID
	}
	if next.MemberID != nil {
		result.MemberID = next.MemberID
	}
	if next.SubscriptionID != nil {
		result.SubscriptionID = next.SubscriptionID
	}
	if next.RequesterID != nil {
		result.RequesterID = next.RequesterID
	}
	if next.MessageID != nil {
		result.MessageID = next.MessageID
	}
	if next.TaskType != nil {
		result.TaskType = next.TaskType
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// logger.WithLogFields(ctx, logger.LogFields{MemberID: logger.Ptr(publicID)})
func Ptr[T any](v T) *T {
	return &v
}

// MaskEmail keeps the first character of the local part and the domain.
// Used where an email has to be logged at info level.
func MaskEmail(email string) string {
	at := -1
	for i := 0; i < len(email); i++ {
		if email[i] == '@' {
			at = i
			break
		}
	}
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
