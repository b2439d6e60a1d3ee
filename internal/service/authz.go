package service

import (
	"context"
	"errors"

	"basegraph.app/membership/internal/model"
	"basegraph.app/membership/internal/store"
)

// Authorizer gates workflow operations on the requester's role.
type Authorizer interface {
	AssertRole(ctx context.Context, userID, workspaceID int64, minRole model.MemberRole) error
}

type memberAuthorizer struct {
	members store.MemberStore
}

// NewAuthorizer checks roles against live, accepted membership rows.
func NewAuthorizer(members store.MemberStore) Authorizer {
	return &memberAuthorizer{members: members}
}

func (a *memberAuthorizer) AssertRole(ctx context.Context, userID, workspaceID int64, minRole model.MemberRole) error {
	if userID == 0 {
		return newError(KindUnauthenticated, "user not authenticated", nil)
	}

	member, err := a.members.GetByUserInWorkspace(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return newError(KindForbidden, ErrNotWorkspaceMember.Error(), ErrNotWorkspaceMember)
		}
		return newError(KindInternal, "failed to check workspace role", err)
	}

	if member.Status != model.MemberStatusActive {
		return newError(KindForbidden, ErrNotWorkspaceMember.Error(), ErrNotWorkspaceMember)
	}
	if !member.Role.AtLeast(minRole) {
		return newError(KindForbidden, ErrNotAdmin.Error(), ErrNotAdmin)
	}
	return nil
}
