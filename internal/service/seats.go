package service

import (
	"context"
	"fmt"
	"log/slog"

	"basegraph.app/membership/internal/billing"
	"basegraph.app/membership/internal/model"
)

// SeatAdjustment describes the outcome of AdjustSeats. Applied is false when
// the call was a no-op and the provider was never contacted.
type SeatAdjustment struct {
	Subscription *model.Subscription
	Previous     int64
	Quantity     int64
	Applied      bool
}

// SeatAccountant turns a membership count change into at most one provider
// seat quantity change. It only reports failures; whether a failure is fatal
// is decided by the caller.
type SeatAccountant interface {
	AdjustSeats(ctx context.Context, sub *model.Subscription, subs []model.Subscription, delta int64) (*SeatAdjustment, error)
}

type seatAccountant struct {
	provider billing.Provider
	mode     billing.Mode
}

func NewSeatAccountant(provider billing.Provider, mode billing.Mode) SeatAccountant {
	return &seatAccountant{provider: provider, mode: mode}
}

func (a *seatAccountant) AdjustSeats(ctx context.Context, sub *model.Subscription, subs []model.Subscription, delta int64) (*SeatAdjustment, error) {
	if sub == nil || sub.ExternalSubscriptionID == nil || *sub.ExternalSubscriptionID == "" ||
		billing.HasUnlimitedSeats(subs) || !a.mode.Enforced() || delta == 0 {
		return &SeatAdjustment{Subscription: sub}, nil
	}
	externalID := *sub.ExternalSubscriptionID

	current, err := a.provider.RetrieveSubscriptionSeats(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("retrieving seats: %w", err)
	}

	next := current.Quantity + delta
	if next < 1 {
		return nil, newError(KindInvalidSeatCount,
			fmt.Sprintf("seat count cannot drop below one (current %d, delta %d)", current.Quantity, delta), nil)
	}

	updated, err := a.provider.UpdateSubscriptionSeats(ctx, externalID, current.ItemID, next, true)
	if err != nil {
		return nil, fmt.Errorf("updating seats to %d: %w", next, err)
	}

	quantity := next
	if updated != nil && updated.Quantity != nil {
		quantity = *updated.Quantity
	}

	adjusted := *sub
	seats := int32(quantity)
	adjusted.Seats = &seats

	slog.InfoContext(ctx, "subscription seats adjusted",
		"subscription_id", sub.ID,
		"external_subscription_id", externalID,
		"previous", current.Quantity,
		"quantity", quantity,
		"delta", delta)

	return &SeatAdjustment{
		Subscription: &adjusted,
		Previous:     current.Quantity,
		Quantity:     quantity,
		Applied:      true,
	}, nil
}
