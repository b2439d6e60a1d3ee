package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"basegraph.app/membership/internal/billing"
	"basegraph.app/membership/internal/model"
	"basegraph.app/membership/internal/store"
)

type ReconcileResult struct {
	WorkspacePublicID string
	Desired           int64
	Previous          int64
	Changed           bool
	Skipped           bool
}

// ReconcileService realigns provider seat quantities with the local member
// count. It is the only place seat drift gets corrected; the workflow never
// retries a failed billing call.
type ReconcileService interface {
	Reconcile(ctx context.Context, workspacePublicID string) (*ReconcileResult, error)
	// SweepTargets lists workspaces whose seats are billed per member.
	SweepTargets(ctx context.Context) ([]string, error)
}

type reconcileService struct {
	workspaces    store.WorkspaceStore
	members       store.MemberStore
	subscriptions store.SubscriptionStore
	provider      billing.Provider
	mode          billing.Mode
}

func NewReconcileService(
	workspaces store.WorkspaceStore,
	members store.MemberStore,
	subscriptions store.SubscriptionStore,
	provider billing.Provider,
	mode billing.Mode,
) ReconcileService {
	return &reconcileService{
		workspaces:    workspaces,
		members:       members,
		subscriptions: subscriptions,
		provider:      provider,
		mode:          mode,
	}
}

func (s *reconcileService) Reconcile(ctx context.Context, workspacePublicID string) (*ReconcileResult, error) {
	result := &ReconcileResult{WorkspacePublicID: workspacePublicID}
	if !s.mode.Enforced() {
		result.Skipped = true
		return result, nil
	}

	ws, err := s.workspaces.GetByPublicID(ctx, workspacePublicID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(KindNotFound, ErrWorkspaceNotFound.Error(), ErrWorkspaceNotFound)
		}
		return nil, fmt.Errorf("loading workspace: %w", err)
	}

	subs, err := s.subscriptions.ListByWorkspace(ctx, ws.PublicID)
	if err != nil {
		return nil, fmt.Errorf("loading subscriptions: %w", err)
	}
	team := billing.ActiveSubscription(subs, model.PlanTeam)
	if team == nil || billing.HasUnlimitedSeats(subs) || team.ExternalSubscriptionID == nil {
		result.Skipped = true
		return result, nil
	}

	count, err := s.members.CountActive(ctx, ws.ID)
	if err != nil {
		return nil, fmt.Errorf("counting members: %w", err)
	}
	result.Desired = max(1, count)

	current, err := s.provider.RetrieveSubscriptionSeats(ctx, *team.ExternalSubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("retrieving seats: %w", err)
	}
	result.Previous = current.Quantity

	if current.Quantity == result.Desired {
		slog.DebugContext(ctx, "seats already in sync", "quantity", current.Quantity)
		return result, nil
	}

	// drift corrections are settled at the next invoice, not charged now
	if _, err := s.provider.UpdateSubscriptionSeats(ctx, *team.ExternalSubscriptionID, current.ItemID, result.Desired, false); err != nil {
		return nil, fmt.Errorf("updating seats to %d: %w", result.Desired, err)
	}
	result.Changed = true

	slog.InfoContext(ctx, "seats reconciled",
		"subscription_id", team.ID,
		"previous", current.Quantity,
		"quantity", result.Desired)

	return result, nil
}

func (s *reconcileService) SweepTargets(ctx context.Context) ([]string, error) {
	if !s.mode.Enforced() {
		return nil, nil
	}

	subs, err := s.subscriptions.ListActiveByPlan(ctx, model.PlanTeam)
	if err != nil {
		return nil, fmt.Errorf("listing team subscriptions: %w", err)
	}

	seen := make(map[string]struct{}, len(subs))
	var targets []string
	for _, sub := range subs {
		if sub.UnlimitedSeats || sub.ExternalSubscriptionID == nil {
			continue
		}
		if _, ok := seen[sub.ReferenceID]; ok {
			continue
		}
		seen[sub.ReferenceID] = struct{}{}
		targets = append(targets, sub.ReferenceID)
	}
	return targets, nil
}
