package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/membership/internal/billing"
	"basegraph.app/membership/internal/model"
	"basegraph.app/membership/internal/service"
)

var _ = Describe("SeatAccountant", func() {
	var (
		ctx      context.Context
		provider *fakeProvider
		sub      *model.Subscription
		subs     []model.Subscription
	)

	BeforeEach(func() {
		ctx = context.Background()
		provider = newFakeProvider()
		provider.seats["sub_1"] = 3
		ext := "sub_1"
		seats := int32(3)
		subs = []model.Subscription{{
			ID:                     1,
			Plan:                   model.PlanTeam,
			Status:                 model.SubscriptionStatusActive,
			Seats:                  &seats,
			ExternalSubscriptionID: &ext,
		}}
		sub = &subs[0]
	})

	It("increments the provider quantity and invoices immediately", func() {
		adj, err := service.NewSeatAccountant(provider, billing.ModeEnforced).AdjustSeats(ctx, sub, subs, 1)

		Expect(err).NotTo(HaveOccurred())
		Expect(adj.Applied).To(BeTrue())
		Expect(adj.Previous).To(Equal(int64(3)))
		Expect(adj.Quantity).To(Equal(int64(4)))
		Expect(*adj.Subscription.Seats).To(Equal(int32(4)))
		Expect(*sub.Seats).To(Equal(int32(3)), "input subscription is not mutated")
		Expect(provider.seats["sub_1"]).To(Equal(int64(4)))
		Expect(provider.invoiceNow).To(Equal([]bool{true}))
	})

	It("decrements the provider quantity", func() {
		adj, err := service.NewSeatAccountant(provider, billing.ModeEnforced).AdjustSeats(ctx, sub, subs, -1)

		Expect(err).NotTo(HaveOccurred())
		Expect(adj.Quantity).To(Equal(int64(2)))
	})

	It("refuses to drop below one seat without calling update", func() {
		provider.seats["sub_1"] = 1

		_, err := service.NewSeatAccountant(provider, billing.ModeEnforced).AdjustSeats(ctx, sub, subs, -1)

		Expect(err).To(MatchError(service.ErrInvalidSeatCount))
		Expect(provider.updateCalls).To(BeZero())
		Expect(provider.seats["sub_1"]).To(Equal(int64(1)))
	})

	DescribeTable("is a no-op without contacting the provider",
		func(mutate func(), mode billing.Mode, delta int64) {
			if mutate != nil {
				mutate()
			}
			adj, err := service.NewSeatAccountant(provider, mode).AdjustSeats(ctx, sub, subs, delta)

			Expect(err).NotTo(HaveOccurred())
			Expect(adj.Applied).To(BeFalse())
			Expect(provider.calls()).To(BeZero())
		},
		Entry("billing disabled", nil, billing.ModeDisabled, int64(1)),
		Entry("zero delta", nil, billing.ModeEnforced, int64(0)),
		Entry("unlimited seats on increment", func() { subs[0].UnlimitedSeats = true }, billing.ModeEnforced, int64(1)),
		Entry("unlimited seats on decrement", func() { subs[0].UnlimitedSeats = true }, billing.ModeEnforced, int64(-1)),
		Entry("unlimited seats on another plan", func() {
			subs = append(subs, model.Subscription{ID: 2, Plan: model.PlanPro, Status: model.SubscriptionStatusActive, UnlimitedSeats: true})
			sub = &subs[0]
		}, billing.ModeEnforced, int64(1)),
		Entry("missing external id", func() { subs[0].ExternalSubscriptionID = nil }, billing.ModeEnforced, int64(1)),
	)

	It("is a no-op for a nil subscription", func() {
		adj, err := service.NewSeatAccountant(provider, billing.ModeEnforced).AdjustSeats(ctx, nil, nil, 1)

		Expect(err).NotTo(HaveOccurred())
		Expect(adj.Applied).To(BeFalse())
		Expect(provider.calls()).To(BeZero())
	})

	It("does not need a provider when billing is disabled", func() {
		adj, err := service.NewSeatAccountant(nil, billing.ModeDisabled).AdjustSeats(ctx, sub, subs, 1)

		Expect(err).NotTo(HaveOccurred())
		Expect(adj.Applied).To(BeFalse())
	})

	It("reports provider failures", func() {
		provider.retrieveErr = errors.New("timeout")

		_, err := service.NewSeatAccountant(provider, billing.ModeEnforced).AdjustSeats(ctx, sub, subs, 1)

		Expect(err).To(HaveOccurred())
		Expect(provider.updateCalls).To(BeZero())
	})
})
