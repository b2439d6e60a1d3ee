package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"basegraph.app/membership/common/id"
	"basegraph.app/membership/common/logger"
	"basegraph.app/membership/core/config"
	"basegraph.app/membership/internal/invite"
	"basegraph.app/membership/internal/model"
	"basegraph.app/membership/internal/store"
	"github.com/workos/workos-go/v6/pkg/usermanagement"
)

const sessionTTL = 7 * 24 * time.Hour

var (
	ErrInvalidCode    = errors.New("invalid authorization code")
	ErrUserNotFound   = errors.New("user not found")
	ErrSessionExpired = errors.New("session expired")
)

// CallbackResult is a completed sign-in. RedirectPath is set when the user
// arrived through an invite link.
type CallbackResult struct {
	User         *model.User
	Session      *model.Session
	RedirectPath string
}

type AuthService interface {
	GetAuthorizationURL(state string) (string, error)
	HandleCallback(ctx context.Context, code string) (*CallbackResult, error)
	ValidateSession(ctx context.Context, sessionID int64) (*model.User, error)
	Logout(ctx context.Context, sessionID int64) error
}

// CodeAuthenticator exchanges an AuthKit authorization code for a user.
type CodeAuthenticator func(ctx context.Context, code string) (usermanagement.User, error)

type authService struct {
	userStore    store.UserStore
	sessionStore store.SessionStore
	pending      invite.PendingCallbacks
	membership   MembershipService
	authenticate CodeAuthenticator
	workos       *usermanagement.Client
	cfg          config.WorkOSConfig
}

func NewAuthService(
	userStore store.UserStore,
	sessionStore store.SessionStore,
	pending invite.PendingCallbacks,
	membership MembershipService,
	cfg config.WorkOSConfig,
	authenticate CodeAuthenticator,
) AuthService {
	client := usermanagement.NewClient(cfg.APIKey)
	if authenticate == nil {
		authenticate = workOSCodeAuthenticator(client, cfg.ClientID)
	}
	return &authService{
		userStore:    userStore,
		sessionStore: sessionStore,
		pending:      pending,
		membership:   membership,
		authenticate: authenticate,
		workos:       client,
		cfg:          cfg,
	}
}

func workOSCodeAuthenticator(client *usermanagement.Client, clientID string) CodeAuthenticator {
	return func(ctx context.Context, code string) (usermanagement.User, error) {
		resp, err := client.AuthenticateWithCode(ctx, usermanagement.AuthenticateWithCodeOpts{
			ClientID: clientID,
			Code:     code,
		})
		if err != nil {
			return usermanagement.User{}, err
		}
		return resp.User, nil
	}
}

func (s *authService) GetAuthorizationURL(state string) (string, error) {
	url, err := s.workos.GetAuthorizationURL(usermanagement.GetAuthorizationURLOpts{
		ClientID:    s.cfg.ClientID,
		RedirectURI: s.cfg.RedirectURI,
		State:       state,
		Provider:    "authkit",
	})
	if err != nil {
		return "", fmt.Errorf("generating authorization URL: %w", err)
	}
	return url.String(), nil
}

func (s *authService) HandleCallback(ctx context.Context, code string) (*CallbackResult, error) {
	workosUser, err := s.authenticate(ctx, code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to authenticate with code", "error", err)
		return nil, ErrInvalidCode
	}

	var avatarURL *string
	if workosUser.ProfilePictureURL != "" {
		avatarURL = &workosUser.ProfilePictureURL
	}

	user := &model.User{
		ID:        id.New(),
		Name:      buildUserName(workosUser),
		Email:     strings.ToLower(workosUser.Email),
		AvatarURL: avatarURL,
		WorkOSID:  &workosUser.ID,
	}

	if err := s.userStore.Upsert(ctx, user); err != nil {
		slog.ErrorContext(ctx, "failed to upsert user",
			"error", err,
			"email", logger.MaskEmail(user.Email),
			"workos_id", workosUser.ID,
		)
		return nil, fmt.Errorf("upserting user: %w", err)
	}

	session := &model.Session{
		ID:        id.New(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(sessionTTL),
	}

	if err := s.sessionStore.Create(ctx, session); err != nil {
		slog.ErrorContext(ctx, "failed to create session",
			"error", err,
			"user_id", user.ID,
		)
		return nil, fmt.Errorf("creating session: %w", err)
	}

	slog.InfoContext(ctx, "user authenticated",
		"user_id", user.ID,
		"session_id", session.ID,
	)

	return &CallbackResult{
		User:         user,
		Session:      session,
		RedirectPath: s.resolvePendingInvite(ctx, user),
	}, nil
}

// resolvePendingInvite accepts every invite stashed for the user's email and
// redirects to the newest one accepted. Failures only cost the redirect; the
// sign-in itself still succeeds.
func (s *authService) resolvePendingInvite(ctx context.Context, user *model.User) string {
	if s.pending == nil {
		return ""
	}

	callbacks, err := s.pending.Pop(ctx, user.Email)
	if err != nil {
		slog.WarnContext(ctx, "failed to resolve pending invites", "error", err, "user_id", user.ID)
		return ""
	}

	var redirect string
	for _, cb := range callbacks {
		if _, err := s.membership.AcceptInvite(ctx, user, cb.MemberPublicID); err != nil {
			slog.WarnContext(ctx, "failed to accept pending invite",
				"error", err,
				"user_id", user.ID,
				"member_public_id", cb.MemberPublicID)
			continue
		}
		redirect = cb.Path()
	}
	return redirect
}

func (s *authService) ValidateSession(ctx context.Context, sessionID int64) (*model.User, error) {
	session, err := s.sessionStore.GetValid(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("getting session: %w", err)
	}

	user, err := s.userStore.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}

	return user, nil
}

func (s *authService) Logout(ctx context.Context, sessionID int64) error {
	if err := s.sessionStore.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func buildUserName(user usermanagement.User) string {
	if user.FirstName != "" && user.LastName != "" {
		return user.FirstName + " " + user.LastName
	}
	if user.FirstName != "" {
		return user.FirstName
	}
	if user.LastName != "" {
		return user.LastName
	}
	return user.Email
}
