package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/workos/workos-go/v6/pkg/usermanagement"

	"basegraph.app/membership/core/config"
	"basegraph.app/membership/internal/billing"
	"basegraph.app/membership/internal/invite"
	"basegraph.app/membership/internal/model"
	"basegraph.app/membership/internal/service"
	"basegraph.app/membership/internal/store"
)

var _ = Describe("AuthService", func() {
	var (
		f        *membershipFixture
		sessions *mockSessionStore
		pending  *mockPendingCallbacks
		authUser usermanagement.User
		authErr  error
		svc      service.AuthService
	)

	BeforeEach(func() {
		f = newMembershipFixture(billing.ModeDisabled)
		sessions = &mockSessionStore{}
		pending = &mockPendingCallbacks{}
		authUser = usermanagement.User{ID: "user_01", Email: "A@x.com", FirstName: "Ada", LastName: "Lovelace"}
		authErr = nil

		authenticate := func(_ context.Context, _ string) (usermanagement.User, error) {
			return authUser, authErr
		}
		svc = service.NewAuthService(f.users, sessions, pending, f.svc,
			config.WorkOSConfig{APIKey: "sk_test", ClientID: "client_test", RedirectURI: "http://localhost/auth/callback"},
			authenticate)
	})

	Describe("HandleCallback", func() {
		It("upserts the user and opens a session", func() {
			var created *model.Session
			sessions.createFn = func(_ context.Context, s *model.Session) error {
				created = s
				return nil
			}

			result, err := svc.HandleCallback(f.ctx, "code")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.User.Email).To(Equal("a@x.com"))
			Expect(result.User.Name).To(Equal("Ada Lovelace"))
			Expect(*result.User.WorkOSID).To(Equal("user_01"))
			Expect(created).NotTo(BeNil())
			Expect(created.UserID).To(Equal(result.User.ID))
			Expect(created.ExpiresAt).To(BeTemporally(">", time.Now()))
			Expect(result.RedirectPath).To(BeEmpty())
		})

		It("rejects a bad code", func() {
			authErr = errors.New("invalid_grant")

			_, err := svc.HandleCallback(f.ctx, "bad")
			Expect(err).To(MatchError(service.ErrInvalidCode))
		})

		It("accepts the pending invite for the signed-in email", func() {
			member, err := f.svc.InviteMember(f.ctx, adminUserID, f.ws.PublicID, "a@x.com")
			Expect(err).NotTo(HaveOccurred())
			pending.popFn = func(_ context.Context, email string) ([]invite.Callback, error) {
				Expect(email).To(Equal("a@x.com"))
				return []invite.Callback{{MemberPublicID: member.PublicID, WorkspacePublicID: f.ws.PublicID}}, nil
			}

			result, err := svc.HandleCallback(f.ctx, "code")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.RedirectPath).To(Equal("/boards?type=invite&memberPublicId=" + member.PublicID))
			accepted, err := f.members.GetByPublicID(f.ctx, member.PublicID)
			Expect(err).NotTo(HaveOccurred())
			Expect(accepted.Status).To(Equal(model.MemberStatusActive))
			Expect(*accepted.UserID).To(Equal(result.User.ID))
		})

		It("still signs in when the pending invite was rolled back", func() {
			pending.popFn = func(context.Context, string) ([]invite.Callback, error) {
				return []invite.Callback{{MemberPublicID: "mem-gone"}}, nil
			}

			result, err := svc.HandleCallback(f.ctx, "code")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.RedirectPath).To(BeEmpty())
		})

		It("accepts pending invites from every workspace that invited the email", func() {
			other := &model.Workspace{ID: 2, PublicID: "ws-public-0002", Name: "Globex", Slug: "globex"}
			f.workspaces.rows[other.PublicID] = other
			admin := adminUserID
			f.members.seed(model.Member{
				PublicID:    "mem-admin-2",
				WorkspaceID: other.ID,
				Email:       "admin@x.com",
				UserID:      &admin,
				Role:        model.MemberRoleAdmin,
				Status:      model.MemberStatusActive,
			})

			first, err := f.svc.InviteMember(f.ctx, adminUserID, f.ws.PublicID, "a@x.com")
			Expect(err).NotTo(HaveOccurred())
			second, err := f.svc.InviteMember(f.ctx, adminUserID, other.PublicID, "a@x.com")
			Expect(err).NotTo(HaveOccurred())

			pending.popFn = func(context.Context, string) ([]invite.Callback, error) {
				return []invite.Callback{
					{MemberPublicID: first.PublicID, WorkspacePublicID: f.ws.PublicID},
					{MemberPublicID: "mem-gone"},
					{MemberPublicID: second.PublicID, WorkspacePublicID: other.PublicID},
				}, nil
			}

			result, err := svc.HandleCallback(f.ctx, "code")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.RedirectPath).To(Equal("/boards?type=invite&memberPublicId=" + second.PublicID))
			for _, publicID := range []string{first.PublicID, second.PublicID} {
				accepted, err := f.members.GetByPublicID(f.ctx, publicID)
				Expect(err).NotTo(HaveOccurred())
				Expect(accepted.Status).To(Equal(model.MemberStatusActive))
				Expect(*accepted.UserID).To(Equal(result.User.ID))
			}
		})

		It("fails when the user cannot be stored", func() {
			f.users.upsertErr = errors.New("db down")

			_, err := svc.HandleCallback(f.ctx, "code")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ValidateSession", func() {
		It("returns the session's user", func() {
			f.users.rows["a@x.com"] = &model.User{ID: 7, Email: "a@x.com"}
			sessions.getValidFn = func(context.Context, int64) (*model.Session, error) {
				return &model.Session{ID: 1, UserID: 7, ExpiresAt: time.Now().Add(time.Hour)}, nil
			}

			user, err := svc.ValidateSession(f.ctx, 1)

			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).To(Equal(int64(7)))
		})

		It("reports expired sessions", func() {
			sessions.getValidFn = func(context.Context, int64) (*model.Session, error) {
				return nil, store.ErrNotFound
			}

			_, err := svc.ValidateSession(f.ctx, 1)
			Expect(err).To(MatchError(service.ErrSessionExpired))
		})

		It("reports sessions whose user is gone", func() {
			sessions.getValidFn = func(context.Context, int64) (*model.Session, error) {
				return &model.Session{ID: 1, UserID: 99}, nil
			}

			_, err := svc.ValidateSession(f.ctx, 1)
			Expect(err).To(MatchError(service.ErrUserNotFound))
		})
	})

	It("deletes the session on logout", func() {
		Expect(svc.Logout(f.ctx, 5)).To(Succeed())
		Expect(sessions.deleted).To(ConsistOf(int64(5)))
	})
})
