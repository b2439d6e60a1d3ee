package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/membership/internal/model"
	"basegraph.app/membership/internal/service"
)

var _ = Describe("Authorizer", func() {
	var (
		ctx     context.Context
		members *memoryMemberStore
		authz   service.Authorizer
	)

	seedMember := func(userID int64, role model.MemberRole, status model.MemberStatus) {
		uid := userID
		members.seed(model.Member{WorkspaceID: 1, Email: "u@x.com", UserID: &uid, Role: role, Status: status})
	}

	BeforeEach(func() {
		ctx = context.Background()
		members = newMemoryMemberStore()
		authz = service.NewAuthorizer(members)
	})

	It("rejects a zero user id as unauthenticated", func() {
		Expect(authz.AssertRole(ctx, 0, 1, model.MemberRoleMember)).To(MatchError(service.ErrUnauthenticated))
	})

	It("lets admins through any role check", func() {
		seedMember(1, model.MemberRoleAdmin, model.MemberStatusActive)

		Expect(authz.AssertRole(ctx, 1, 1, model.MemberRoleAdmin)).To(Succeed())
		Expect(authz.AssertRole(ctx, 1, 1, model.MemberRoleMember)).To(Succeed())
	})

	It("forbids plain members from admin operations", func() {
		seedMember(2, model.MemberRoleMember, model.MemberStatusActive)

		err := authz.AssertRole(ctx, 2, 1, model.MemberRoleAdmin)
		Expect(err).To(MatchError(service.ErrForbidden))
		Expect(errors.Is(err, service.ErrNotAdmin)).To(BeTrue())
	})

	It("forbids invited members who have not accepted", func() {
		seedMember(3, model.MemberRoleAdmin, model.MemberStatusInvited)

		err := authz.AssertRole(ctx, 3, 1, model.MemberRoleMember)
		Expect(errors.Is(err, service.ErrNotWorkspaceMember)).To(BeTrue())
	})

	It("forbids users of another workspace", func() {
		seedMember(4, model.MemberRoleAdmin, model.MemberStatusActive)

		Expect(authz.AssertRole(ctx, 4, 2, model.MemberRoleMember)).To(MatchError(service.ErrForbidden))
	})
})
