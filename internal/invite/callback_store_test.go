package invite_test

import (
	"context"
	"time"

	"github.com/alicebob/miniredis/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"basegraph.app/membership/internal/invite"
)

var _ = Describe("Redis callback store", func() {
	var (
		ctx       context.Context
		server    *miniredis.Miniredis
		client    *redis.Client
		callbacks invite.CallbackStore
		inA, inB  invite.Callback
	)

	BeforeEach(func() {
		ctx = context.Background()
		server = miniredis.RunT(GinkgoT())
		client = redis.NewClient(&redis.Options{Addr: server.Addr()})
		DeferCleanup(client.Close)
		callbacks = invite.NewRedisCallbackStore(client)

		inA = invite.Callback{MemberPublicID: "0190a000-0000-7000-8000-00000000000a", WorkspacePublicID: "ws-a"}
		inB = invite.Callback{MemberPublicID: "0190b000-0000-7000-8000-00000000000b", WorkspacePublicID: "ws-b"}
	})

	It("keeps one pending invite per workspace for the same email", func() {
		Expect(callbacks.Put(ctx, "a@x.com", inA, time.Hour)).To(Succeed())
		Expect(callbacks.Put(ctx, "A@x.com ", inB, time.Hour)).To(Succeed())

		popped, err := callbacks.Pop(ctx, "a@x.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(popped).To(Equal([]invite.Callback{inA, inB}))

		again, err := callbacks.Pop(ctx, "a@x.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(again).To(BeEmpty())
	})

	It("expires the pending invites with the ttl", func() {
		Expect(callbacks.Put(ctx, "a@x.com", inA, time.Hour)).To(Succeed())

		Expect(server.TTL("invite:callback:a@x.com")).To(Equal(time.Hour))

		server.FastForward(2 * time.Hour)
		popped, err := callbacks.Pop(ctx, "a@x.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(popped).To(BeEmpty())
	})

	It("drops only the named member's invite", func() {
		Expect(callbacks.Put(ctx, "a@x.com", inA, time.Hour)).To(Succeed())
		Expect(callbacks.Put(ctx, "a@x.com", inB, time.Hour)).To(Succeed())

		Expect(callbacks.Drop(ctx, "a@x.com", inB.MemberPublicID)).To(Succeed())

		popped, err := callbacks.Pop(ctx, "a@x.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(popped).To(Equal([]invite.Callback{inA}))
	})

	It("returns nothing for an email without invites", func() {
		popped, err := callbacks.Pop(ctx, "nobody@x.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(popped).To(BeEmpty())
	})
})
