package store

import (
	"context"

	"basegraph.app/membership/core/db/sqlc"
	"basegraph.app/membership/internal/model"
)

type subscriptionStore struct {
	queries *sqlc.Queries
}

func newSubscriptionStore(queries *sqlc.Queries) SubscriptionStore {
	return &subscriptionStore{queries: queries}
}

func (s *subscriptionStore) ListByWorkspace(ctx context.Context, workspacePublicID string) ([]model.Subscription, error) {
	rows, err := s.queries.ListSubscriptionsByReferenceID(ctx, workspacePublicID)
	if err != nil {
		return nil, err
	}
	return toSubscriptionModels(rows), nil
}

func (s *subscriptionStore) ListActiveByPlan(ctx context.Context, plan model.SubscriptionPlan) ([]model.Subscription, error) {
	rows, err := s.queries.ListActiveSubscriptionsByPlan(ctx, string(plan))
	if err != nil {
		return nil, err
	}
	return toSubscriptionModels(rows), nil
}

func (s *subscriptionStore) GetByExternalID(ctx context.Context, externalID string) (*model.Subscription, error) {
	row, err := s.queries.GetSubscriptionByStripeSubscriptionID(ctx, &externalID)
	if err != nil {
		return nil, mapError(err)
	}
	return toSubscriptionModel(row), nil
}

// UpdateFromProvider writes the provider-owned fields of sub, matched by its
// external subscription id, and refreshes sub from the stored row.
func (s *subscriptionStore) UpdateFromProvider(ctx context.Context, sub *model.Subscription) error {
	row, err := s.queries.UpdateSubscriptionByStripeSubscriptionID(ctx, sqlc.UpdateSubscriptionByStripeSubscriptionIDParams{
		StripeSubscriptionID: sub.ExternalSubscriptionID,
		Status:               string(sub.Status),
		Seats:                sub.Seats,
		PeriodStart:          timestamptz(sub.PeriodStart),
		PeriodEnd:            timestamptz(sub.PeriodEnd),
		CancelAtPeriodEnd:    sub.CancelAtPeriodEnd,
	})
	if err != nil {
		return mapError(err)
	}
	*sub = *toSubscriptionModel(row)
	return nil
}

func toSubscriptionModel(row sqlc.Subscription) *model.Subscription {
	return &model.Subscription{
		ID:                     row.ID,
		Plan:                   model.SubscriptionPlan(row.Plan),
		Status:                 model.SubscriptionStatus(row.Status),
		Seats:                  row.Seats,
		UnlimitedSeats:         row.UnlimitedSeats,
		PeriodStart:            timePtr(row.PeriodStart),
		PeriodEnd:              timePtr(row.PeriodEnd),
		CancelAtPeriodEnd:      row.CancelAtPeriodEnd,
		ReferenceID:            row.ReferenceID,
		ExternalSubscriptionID: row.StripeSubscriptionID,
		ExternalCustomerID:     row.StripeCustomerID,
		CreatedAt:              row.CreatedAt.Time,
		UpdatedAt:              row.UpdatedAt.Time,
	}
}

func toSubscriptionModels(rows []sqlc.Subscription) []model.Subscription {
	result := make([]model.Subscription, len(rows))
	for i, row := range rows {
		result[i] = *toSubscriptionModel(row)
	}
	return result
}
