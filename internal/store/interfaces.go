package store

import (
	"context"
	"errors"
	"time"

	"basegraph.app/membership/internal/model"
)

var (
	// ErrNotFound is returned when a requested entity does not exist
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates a uniqueness constraint
	ErrConflict = errors.New("conflict")
)

// MemberStore defines the contract for workspace membership data access.
// Reads exclude soft-deleted rows unless stated otherwise.
type MemberStore interface {
	Create(ctx context.Context, member *model.Member) error
	GetByID(ctx context.Context, id int64) (*model.Member, error) // includes soft-deleted rows
	GetByPublicID(ctx context.Context, publicID string) (*model.Member, error)
	GetByEmailInWorkspace(ctx context.Context, workspaceID int64, email string) (*model.Member, error)
	GetByUserInWorkspace(ctx context.Context, workspaceID, userID int64) (*model.Member, error)
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Member, error)
	CountActive(ctx context.Context, workspaceID int64) (int64, error)
	// SoftDelete is idempotent: an already-deleted member is returned as is.
	SoftDelete(ctx context.Context, id, deletedBy int64, deletedAt time.Time) (*model.Member, error)
	Activate(ctx context.Context, id, userID int64) (*model.Member, error)
}

// SubscriptionStore defines the contract for subscription data access
type SubscriptionStore interface {
	// ListByWorkspace returns every subscription for the workspace, newest first.
	ListByWorkspace(ctx context.Context, workspacePublicID string) ([]model.Subscription, error)
	ListActiveByPlan(ctx context.Context, plan model.SubscriptionPlan) ([]model.Subscription, error)
	GetByExternalID(ctx context.Context, externalID string) (*model.Subscription, error)
	UpdateFromProvider(ctx context.Context, sub *model.Subscription) error
}

// WorkspaceStore defines the contract for workspace data access
type WorkspaceStore interface {
	GetByID(ctx context.Context, id int64) (*model.Workspace, error)
	GetByPublicID(ctx context.Context, publicID string) (*model.Workspace, error)
}

// UserStore defines the contract for user data access
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Upsert(ctx context.Context, user *model.User) error
}

// SessionStore defines the contract for session data access
type SessionStore interface {
	Create(ctx context.Context, session *model.Session) error
	GetValid(ctx context.Context, id int64) (*model.Session, error) // checks expiry
	Delete(ctx context.Context, id int64) error
	DeleteExpired(ctx context.Context) error
}
