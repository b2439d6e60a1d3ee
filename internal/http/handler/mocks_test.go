package handler_test

import (
	"context"

	"basegraph.app/membership/internal/model"
	"basegraph.app/membership/internal/service"
)

type mockMembershipService struct {
	inviteFn func(ctx context.Context, requesterID int64, workspacePublicID, email string) (*model.Member, error)
	removeFn func(ctx context.Context, requesterID int64, workspacePublicID, memberPublicID string) (service.RemoveResult, error)
	listFn   func(ctx context.Context, requesterID int64, workspacePublicID string) ([]model.Member, error)
	acceptFn func(ctx context.Context, user *model.User, memberPublicID string) (*model.Member, error)
}

func (m *mockMembershipService) InviteMember(ctx context.Context, requesterID int64, workspacePublicID, email string) (*model.Member, error) {
	if m.inviteFn != nil {
		return m.inviteFn(ctx, requesterID, workspacePublicID, email)
	}
	return nil, nil
}

func (m *mockMembershipService) RemoveMember(ctx context.Context, requesterID int64, workspacePublicID, memberPublicID string) (service.RemoveResult, error) {
	if m.removeFn != nil {
		return m.removeFn(ctx, requesterID, workspacePublicID, memberPublicID)
	}
	return service.RemoveResult{}, nil
}

func (m *mockMembershipService) ListMembers(ctx context.Context, requesterID int64, workspacePublicID string) ([]model.Member, error) {
	if m.listFn != nil {
		return m.listFn(ctx, requesterID, workspacePublicID)
	}
	return nil, nil
}

func (m *mockMembershipService) AcceptInvite(ctx context.Context, user *model.User, memberPublicID string) (*model.Member, error) {
	if m.acceptFn != nil {
		return m.acceptFn(ctx, user, memberPublicID)
	}
	return nil, nil
}

type mockAuthService struct {
	getAuthURLFn      func(state string) (string, error)
	handleCallbackFn  func(ctx context.Context, code string) (*service.CallbackResult, error)
	validateSessionFn func(ctx context.Context, sessionID int64) (*model.User, error)
	loggedOut         []int64
}

func (m *mockAuthService) GetAuthorizationURL(state string) (string, error) {
	if m.getAuthURLFn != nil {
		return m.getAuthURLFn(state)
	}
	return "https://auth.example.com/authorize?state=" + state, nil
}

func (m *mockAuthService) HandleCallback(ctx context.Context, code string) (*service.CallbackResult, error) {
	if m.handleCallbackFn != nil {
		return m.handleCallbackFn(ctx, code)
	}
	return nil, nil
}

func (m *mockAuthService) ValidateSession(ctx context.Context, sessionID int64) (*model.User, error) {
	if m.validateSessionFn != nil {
		return m.validateSessionFn(ctx, sessionID)
	}
	return nil, service.ErrSessionExpired
}

func (m *mockAuthService) Logout(_ context.Context, sessionID int64) error {
	m.loggedOut = append(m.loggedOut, sessionID)
	return nil
}
