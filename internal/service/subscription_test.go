package service_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/membership/internal/billing"
	"basegraph.app/membership/internal/model"
	"basegraph.app/membership/internal/service"
)

var _ = Describe("SubscriptionSyncService", func() {
	var (
		ctx  context.Context
		subs *memorySubscriptionStore
		svc  service.SubscriptionSyncService
	)

	BeforeEach(func() {
		ctx = context.Background()
		ext := "sub_1"
		seats := int32(3)
		subs = &memorySubscriptionStore{rows: []model.Subscription{{
			ID:                     1,
			Plan:                   model.PlanTeam,
			Status:                 model.SubscriptionStatusActive,
			Seats:                  &seats,
			ReferenceID:            "ws-1",
			ExternalSubscriptionID: &ext,
		}}}
		svc = service.NewSubscriptionSyncService(subs)
	})

	It("mirrors status, period and quantity", func() {
		start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0)
		q := int64(5)

		err := svc.SyncFromProvider(ctx, &billing.ProviderSubscription{
			ExternalID:        "sub_1",
			Status:            model.SubscriptionStatusPastDue,
			Quantity:          &q,
			PeriodStart:       &start,
			PeriodEnd:         &end,
			CancelAtPeriodEnd: true,
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(subs.updated).To(HaveLen(1))
		got := subs.rows[0]
		Expect(got.Status).To(Equal(model.SubscriptionStatusPastDue))
		Expect(*got.Seats).To(Equal(int32(5)))
		Expect(*got.PeriodEnd).To(Equal(end))
		Expect(*got.CancelAtPeriodEnd).To(BeTrue())
	})

	It("keeps seats untouched under an unlimited plan", func() {
		subs.rows[0].UnlimitedSeats = true
		subs.rows[0].Seats = nil
		q := int64(1)

		Expect(svc.SyncFromProvider(ctx, &billing.ProviderSubscription{
			ExternalID: "sub_1",
			Status:     model.SubscriptionStatusActive,
			Quantity:   &q,
		})).To(Succeed())

		Expect(subs.rows[0].Seats).To(BeNil())
	})

	It("ignores subscriptions it does not know", func() {
		Expect(svc.SyncFromProvider(ctx, &billing.ProviderSubscription{
			ExternalID: "sub_unknown",
			Status:     model.SubscriptionStatusCanceled,
		})).To(Succeed())

		Expect(subs.updated).To(BeEmpty())
	})

	It("ignores empty events", func() {
		Expect(svc.SyncFromProvider(ctx, nil)).To(Succeed())
		Expect(subs.updated).To(BeEmpty())
	})
})
