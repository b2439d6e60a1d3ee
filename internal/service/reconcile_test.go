package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/membership/internal/billing"
	"basegraph.app/membership/internal/model"
	"basegraph.app/membership/internal/service"
)

var _ = Describe("ReconcileService", func() {
	var (
		ctx        context.Context
		ws         *model.Workspace
		members    *memoryMemberStore
		workspaces *memoryWorkspaceStore
		subs       *memorySubscriptionStore
		provider   *fakeProvider
	)

	newService := func(mode billing.Mode) service.ReconcileService {
		return service.NewReconcileService(workspaces, members, subs, provider, mode)
	}

	addTeam := func(id int64, reference string, unlimited bool) {
		ext := "sub_" + reference
		subs.rows = append(subs.rows, model.Subscription{
			ID:                     id,
			Plan:                   model.PlanTeam,
			Status:                 model.SubscriptionStatusActive,
			UnlimitedSeats:         unlimited,
			ReferenceID:            reference,
			ExternalSubscriptionID: &ext,
			CreatedAt:              time.Now(),
		})
	}

	BeforeEach(func() {
		ctx = context.Background()
		ws = &model.Workspace{ID: 1, PublicID: "ws-1"}
		members = newMemoryMemberStore()
		workspaces = &memoryWorkspaceStore{rows: map[string]*model.Workspace{ws.PublicID: ws}}
		subs = &memorySubscriptionStore{}
		provider = newFakeProvider()

		for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
			members.seed(model.Member{WorkspaceID: ws.ID, Email: email, Role: model.MemberRoleMember, Status: model.MemberStatusActive})
		}
		addTeam(1, ws.PublicID, false)
	})

	Describe("Reconcile", func() {
		It("sets the provider quantity to the member count without invoicing", func() {
			provider.seats["sub_ws-1"] = 5

			result, err := newService(billing.ModeEnforced).Reconcile(ctx, ws.PublicID)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Changed).To(BeTrue())
			Expect(result.Previous).To(Equal(int64(5)))
			Expect(result.Desired).To(Equal(int64(3)))
			Expect(provider.seats["sub_ws-1"]).To(Equal(int64(3)))
			Expect(provider.invoiceNow).To(Equal([]bool{false}))
		})

		It("leaves an aligned quantity alone", func() {
			provider.seats["sub_ws-1"] = 3

			result, err := newService(billing.ModeEnforced).Reconcile(ctx, ws.PublicID)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Changed).To(BeFalse())
			Expect(provider.updateCalls).To(BeZero())
		})

		It("never goes below one seat", func() {
			members = newMemoryMemberStore()
			provider.seats["sub_ws-1"] = 4

			result, err := newService(billing.ModeEnforced).Reconcile(ctx, ws.PublicID)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Desired).To(Equal(int64(1)))
			Expect(provider.seats["sub_ws-1"]).To(Equal(int64(1)))
		})

		It("ignores soft-deleted members", func() {
			removed := members.seed(model.Member{WorkspaceID: ws.ID, Email: "d@x.com", Role: model.MemberRoleMember, Status: model.MemberStatusActive})
			_, err := members.SoftDelete(ctx, removed.ID, 1, time.Now())
			Expect(err).NotTo(HaveOccurred())
			provider.seats["sub_ws-1"] = 4

			result, err := newService(billing.ModeEnforced).Reconcile(ctx, ws.PublicID)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Desired).To(Equal(int64(3)))
		})

		It("skips workspaces with unlimited seats", func() {
			subs.rows[0].UnlimitedSeats = true

			result, err := newService(billing.ModeEnforced).Reconcile(ctx, ws.PublicID)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Skipped).To(BeTrue())
			Expect(provider.calls()).To(BeZero())
		})

		It("skips when billing is disabled", func() {
			result, err := newService(billing.ModeDisabled).Reconcile(ctx, ws.PublicID)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Skipped).To(BeTrue())
			Expect(provider.calls()).To(BeZero())
		})

		It("returns NotFound for an unknown workspace", func() {
			_, err := newService(billing.ModeEnforced).Reconcile(ctx, "ws-missing")
			Expect(err).To(MatchError(service.ErrNotFound))
		})

		It("surfaces provider errors so the task is retried", func() {
			provider.updateErr = errors.New("stripe unavailable")
			provider.seats["sub_ws-1"] = 9

			_, err := newService(billing.ModeEnforced).Reconcile(ctx, ws.PublicID)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("SweepTargets", func() {
		It("lists each billed workspace once", func() {
			addTeam(2, ws.PublicID, false)
			addTeam(3, "ws-2", false)
			addTeam(4, "ws-3", true)
			subs.rows = append(subs.rows, model.Subscription{ID: 5, Plan: model.PlanTeam, Status: model.SubscriptionStatusActive, ReferenceID: "ws-4"})

			targets, err := newService(billing.ModeEnforced).SweepTargets(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(targets).To(ConsistOf("ws-1", "ws-2"))
		})

		It("returns nothing when billing is disabled", func() {
			targets, err := newService(billing.ModeDisabled).SweepTargets(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(targets).To(BeEmpty())
		})
	})
})
