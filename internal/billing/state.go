package billing

import "basegraph.app/membership/internal/model"

// ActiveSubscription returns the active or trialing subscription on plan.
// When several match, the most recently created wins and equal creation
// times fall back to the higher id, so the result never depends on input
// order.
func ActiveSubscription(subs []model.Subscription, plan model.SubscriptionPlan) *model.Subscription {
	var best *model.Subscription
	for i := range subs {
		s := &subs[i]
		if s.Plan != plan || !s.IsActive() {
			continue
		}
		if best == nil || newer(s, best) {
			best = s
		}
	}
	return best
}

// ActivePaidPlan returns the active team subscription if present, else the
// active pro subscription.
func ActivePaidPlan(subs []model.Subscription) *model.Subscription {
	if s := ActiveSubscription(subs, model.PlanTeam); s != nil {
		return s
	}
	return ActiveSubscription(subs, model.PlanPro)
}

// HasUnlimitedSeats is true iff any active or trialing subscription carries
// the unlimited seats flag.
func HasUnlimitedSeats(subs []model.Subscription) bool {
	for i := range subs {
		if subs[i].IsActive() && subs[i].UnlimitedSeats {
			return true
		}
	}
	return false
}

func newer(a, b *model.Subscription) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
