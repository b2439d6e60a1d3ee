package billing

import (
	"context"
	"errors"
	"time"

	"basegraph.app/membership/internal/model"
)

var (
	ErrNoSubscriptionItem = errors.New("billing subscription has no items")
	ErrInvalidSignature   = errors.New("invalid webhook signature")
)

// SeatQuantity is the seat item of a provider subscription.
type SeatQuantity struct {
	ItemID   string
	Quantity int64
}

// ProviderSubscription is the provider's view of a subscription, used to
// mirror state into the local row.
type ProviderSubscription struct {
	ExternalID        string
	Status            model.SubscriptionStatus
	Quantity          *int64
	PeriodStart       *time.Time
	PeriodEnd         *time.Time
	CancelAtPeriodEnd bool
}

// Provider is the external billing system.
type Provider interface {
	RetrieveSubscriptionSeats(ctx context.Context, externalID string) (SeatQuantity, error)
	// UpdateSubscriptionSeats sets the item quantity. invoiceNow settles
	// proration immediately instead of at the next billing cycle.
	UpdateSubscriptionSeats(ctx context.Context, externalID, itemID string, quantity int64, invoiceNow bool) (*ProviderSubscription, error)
}

// EventType is the subset of provider webhook events the service handles.
type EventType string

const (
	EventSubscriptionCreated EventType = "customer.subscription.created"
	EventSubscriptionUpdated EventType = "customer.subscription.updated"
	EventSubscriptionDeleted EventType = "customer.subscription.deleted"
)

type Event struct {
	ID           string
	Type         EventType
	Subscription *ProviderSubscription
}

// WebhookVerifier authenticates and decodes provider webhook payloads.
// Events the service does not handle come back with a nil Subscription.
type WebhookVerifier interface {
	ParseEvent(payload []byte, signature string) (*Event, error)
}
