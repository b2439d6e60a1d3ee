package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"basegraph.app/membership/common/logger"
	"basegraph.app/membership/internal/billing"
	"basegraph.app/membership/internal/store"
)

// SubscriptionSyncService mirrors provider-side subscription changes into
// the local rows the workflow reads.
type SubscriptionSyncService interface {
	SyncFromProvider(ctx context.Context, ps *billing.ProviderSubscription) error
}

type subscriptionSyncService struct {
	subscriptions store.SubscriptionStore
}

func NewSubscriptionSyncService(subscriptions store.SubscriptionStore) SubscriptionSyncService {
	return &subscriptionSyncService{subscriptions: subscriptions}
}

func (s *subscriptionSyncService) SyncFromProvider(ctx context.Context, ps *billing.ProviderSubscription) error {
	if ps == nil || ps.ExternalID == "" {
		return nil
	}

	sub, err := s.subscriptions.GetByExternalID(ctx, ps.ExternalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// rows are created by checkout; nothing to mirror yet
			slog.InfoContext(ctx, "ignoring update for unknown subscription",
				"external_subscription_id", ps.ExternalID)
			return nil
		}
		return fmt.Errorf("loading subscription: %w", err)
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{SubscriptionID: &sub.ID})

	sub.Status = ps.Status
	sub.PeriodStart = ps.PeriodStart
	sub.PeriodEnd = ps.PeriodEnd
	cancel := ps.CancelAtPeriodEnd
	sub.CancelAtPeriodEnd = &cancel
	if ps.Quantity != nil && !sub.UnlimitedSeats {
		seats := int32(*ps.Quantity)
		sub.Seats = &seats
	}

	if err := s.subscriptions.UpdateFromProvider(ctx, sub); err != nil {
		return fmt.Errorf("updating subscription: %w", err)
	}

	attrs := []any{"status", sub.Status}
	if sub.Seats != nil {
		attrs = append(attrs, "seats", *sub.Seats)
	}
	slog.InfoContext(ctx, "subscription synced", attrs...)
	return nil
}
