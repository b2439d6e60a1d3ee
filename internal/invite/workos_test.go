package invite_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/workos/workos-go/v6/pkg/usermanagement"

	"basegraph.app/membership/internal/invite"
)

type memoryCallbackStore struct {
	entries map[string]map[string]invite.Callback
	ttls    map[string]time.Duration
	putErr  error
	drops   int
}

func newMemoryCallbackStore() *memoryCallbackStore {
	return &memoryCallbackStore{
		entries: map[string]map[string]invite.Callback{},
		ttls:    map[string]time.Duration{},
	}
}

func (m *memoryCallbackStore) Put(_ context.Context, email string, cb invite.Callback, ttl time.Duration) error {
	if m.putErr != nil {
		return m.putErr
	}
	if m.entries[email] == nil {
		m.entries[email] = map[string]invite.Callback{}
	}
	m.entries[email][cb.MemberPublicID] = cb
	m.ttls[email] = ttl
	return nil
}

func (m *memoryCallbackStore) Pop(_ context.Context, email string) ([]invite.Callback, error) {
	var out []invite.Callback
	for _, cb := range m.entries[email] {
		out = append(out, cb)
	}
	delete(m.entries, email)
	return out, nil
}

func (m *memoryCallbackStore) Drop(_ context.Context, email, memberPublicID string) error {
	m.drops++
	delete(m.entries[email], memberPublicID)
	return nil
}

var _ = Describe("Callback", func() {
	It("renders the dashboard invite path", func() {
		cb := invite.Callback{MemberPublicID: "0190-abc", WorkspacePublicID: "ws-1"}
		Expect(cb.Path()).To(Equal("/boards?type=invite&memberPublicId=0190-abc"))
	})
})

var _ = Describe("WorkOS channel", func() {
	var (
		ctx       context.Context
		callbacks *memoryCallbackStore
		sentTo    []string
		sendErr   error
		channel   invite.Channel
		cb        invite.Callback
	)

	BeforeEach(func() {
		ctx = context.Background()
		callbacks = newMemoryCallbackStore()
		sentTo = nil
		sendErr = nil
		cb = invite.Callback{MemberPublicID: "mem-1", WorkspacePublicID: "ws-1"}
		channel = invite.NewWorkOSChannel(callbacks, func(_ context.Context, email string) error {
			sentTo = append(sentTo, email)
			return sendErr
		}, time.Hour)
	})

	It("stashes the callback and sends the code", func() {
		delivered, err := channel.SendInviteLink(ctx, "a@x.com", cb)

		Expect(err).NotTo(HaveOccurred())
		Expect(delivered).To(BeTrue())
		Expect(sentTo).To(Equal([]string{"a@x.com"}))
		Expect(callbacks.ttls["a@x.com"]).To(Equal(time.Hour))

		popped, err := callbacks.Pop(ctx, "a@x.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(popped).To(ConsistOf(cb))
	})

	It("reports undelivered and drops the stash when sending fails", func() {
		sendErr = errors.New("workos unavailable")

		delivered, err := channel.SendInviteLink(ctx, "a@x.com", cb)

		Expect(err).To(HaveOccurred())
		Expect(delivered).To(BeFalse())
		Expect(callbacks.drops).To(Equal(1))
		Expect(callbacks.entries["a@x.com"]).To(BeEmpty())
	})

	It("keeps invites from other workspaces when a later send fails", func() {
		first := invite.Callback{MemberPublicID: "mem-a", WorkspacePublicID: "ws-a"}
		_, err := channel.SendInviteLink(ctx, "a@x.com", first)
		Expect(err).NotTo(HaveOccurred())

		sendErr = errors.New("workos unavailable")
		_, err = channel.SendInviteLink(ctx, "a@x.com", invite.Callback{MemberPublicID: "mem-b", WorkspacePublicID: "ws-b"})
		Expect(err).To(HaveOccurred())

		popped, err := callbacks.Pop(ctx, "a@x.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(popped).To(ConsistOf(first))
	})

	It("does not send when the stash cannot be written", func() {
		callbacks.putErr = errors.New("redis down")

		delivered, err := channel.SendInviteLink(ctx, "a@x.com", cb)

		Expect(err).To(HaveOccurred())
		Expect(delivered).To(BeFalse())
		Expect(sentTo).To(BeEmpty())
	})
})

var _ = Describe("WorkOS magic auth sender", func() {
	It("authenticates with the client's own API key", func() {
		var (
			gotPath  string
			gotAuth  string
			gotEmail string
		)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			var body usermanagement.CreateMagicAuthOpts
			_ = json.NewDecoder(r.Body).Decode(&body)
			gotEmail = body.Email
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"magic_auth_01","email":"a@x.com"}`))
		}))
		DeferCleanup(server.Close)

		client := usermanagement.NewClient("sk_invites")
		client.Endpoint = server.URL

		err := invite.NewWorkOSMagicAuth(client)(context.Background(), "a@x.com")

		Expect(err).NotTo(HaveOccurred())
		Expect(gotPath).To(Equal("/user_management/magic_auth"))
		Expect(gotAuth).To(Equal("Bearer sk_invites"))
		Expect(gotEmail).To(Equal("a@x.com"))
	})
})
