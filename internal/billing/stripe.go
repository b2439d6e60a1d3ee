package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"basegraph.app/membership/internal/model"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
	"github.com/stripe/stripe-go/v80/webhook"
)

const (
	prorationAlwaysInvoice    = "always_invoice"
	prorationCreateProrations = "create_prorations"
)

type StripeProvider struct {
	sc            *client.API
	webhookSecret string
}

// NewStripeProvider returns a Provider and WebhookVerifier backed by the
// Stripe API.
func NewStripeProvider(secretKey, webhookSecret string) *StripeProvider {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &StripeProvider{sc: sc, webhookSecret: webhookSecret}
}

func (p *StripeProvider) RetrieveSubscriptionSeats(ctx context.Context, externalID string) (SeatQuantity, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	params.AddExpand("items")

	sub, err := p.sc.Subscriptions.Get(externalID, params)
	if err != nil {
		return SeatQuantity{}, fmt.Errorf("retrieving stripe subscription %s: %w", externalID, err)
	}
	if sub.Items == nil || len(sub.Items.Data) == 0 {
		return SeatQuantity{}, ErrNoSubscriptionItem
	}

	item := sub.Items.Data[0]
	quantity := item.Quantity
	if quantity == 0 {
		quantity = 1
	}
	return SeatQuantity{ItemID: item.ID, Quantity: quantity}, nil
}

func (p *StripeProvider) UpdateSubscriptionSeats(ctx context.Context, externalID, itemID string, quantity int64, invoiceNow bool) (*ProviderSubscription, error) {
	proration := prorationCreateProrations
	if invoiceNow {
		proration = prorationAlwaysInvoice
	}

	params := &stripe.SubscriptionParams{
		Items: []*stripe.SubscriptionItemsParams{
			{
				ID:       stripe.String(itemID),
				Quantity: stripe.Int64(quantity),
			},
		},
		ProrationBehavior: stripe.String(proration),
	}
	params.Context = ctx

	sub, err := p.sc.Subscriptions.Update(externalID, params)
	if err != nil {
		return nil, fmt.Errorf("updating stripe subscription %s: %w", externalID, err)
	}
	return fromStripeSubscription(sub), nil
}

// ParseEvent verifies the Stripe-Signature header. API version mismatches are
// tolerated since only subscription fields stable across versions are read.
func (p *StripeProvider) ParseEvent(payload []byte, signature string) (*Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &Event{ID: event.ID, Type: EventType(event.Type)}
	switch out.Type {
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
	default:
		return out, nil
	}

	if event.Data == nil {
		return nil, fmt.Errorf("stripe event %s has no data", event.ID)
	}
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return nil, fmt.Errorf("decoding subscription from event %s: %w", event.ID, err)
	}
	out.Subscription = fromStripeSubscription(&sub)
	return out, nil
}

func fromStripeSubscription(sub *stripe.Subscription) *ProviderSubscription {
	ps := &ProviderSubscription{
		ExternalID:        sub.ID,
		Status:            model.SubscriptionStatus(sub.Status),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		PeriodStart:       unixPtr(sub.CurrentPeriodStart),
		PeriodEnd:         unixPtr(sub.CurrentPeriodEnd),
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		q := sub.Items.Data[0].Quantity
		ps.Quantity = &q
	}
	return ps
}

func unixPtr(sec int64) *time.Time {
	if sec == 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}

var (
	_ Provider        = (*StripeProvider)(nil)
	_ WebhookVerifier = (*StripeProvider)(nil)
)
