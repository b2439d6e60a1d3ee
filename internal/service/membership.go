package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"basegraph.app/membership/common/id"
	"basegraph.app/membership/common/logger"
	"basegraph.app/membership/internal/billing"
	"basegraph.app/membership/internal/invite"
	"basegraph.app/membership/internal/model"
	"basegraph.app/membership/internal/queue"
	"basegraph.app/membership/internal/store"
)

var validate = validator.New()

type RemoveResult struct {
	Success bool `json:"success"`
}

type MembershipService interface {
	InviteMember(ctx context.Context, requesterID int64, workspacePublicID, email string) (*model.Member, error)
	RemoveMember(ctx context.Context, requesterID int64, workspacePublicID, memberPublicID string) (RemoveResult, error)
	ListMembers(ctx context.Context, requesterID int64, workspacePublicID string) ([]model.Member, error)
	AcceptInvite(ctx context.Context, user *model.User, memberPublicID string) (*model.Member, error)
}

// TaskEnqueuer flags work for the reconcile worker.
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, task queue.Task) error
}

type MembershipDeps struct {
	Workspaces    store.WorkspaceStore
	Members       store.MemberStore
	Subscriptions store.SubscriptionStore
	Users         store.UserStore
	Authorizer    Authorizer
	Seats         SeatAccountant
	Channel       invite.Channel
	Tasks         TaskEnqueuer
	TxRunner      TxRunner
	Mode          billing.Mode
	Now           func() time.Time
}

type membershipService struct {
	workspaces    store.WorkspaceStore
	members       store.MemberStore
	subscriptions store.SubscriptionStore
	users         store.UserStore
	authz         Authorizer
	seats         SeatAccountant
	channel       invite.Channel
	tasks         TaskEnqueuer
	txRunner      TxRunner
	mode          billing.Mode
	now           func() time.Time
}

func NewMembershipService(deps MembershipDeps) MembershipService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &membershipService{
		workspaces:    deps.Workspaces,
		members:       deps.Members,
		subscriptions: deps.Subscriptions,
		users:         deps.Users,
		authz:         deps.Authorizer,
		seats:         deps.Seats,
		channel:       deps.Channel,
		tasks:         deps.Tasks,
		txRunner:      deps.TxRunner,
		mode:          deps.Mode,
		now:           now,
	}
}

func (s *membershipService) InviteMember(ctx context.Context, requesterID int64, workspacePublicID, email string) (*model.Member, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		WorkspaceID: &workspacePublicID,
		RequesterID: &requesterID,
		Component:   "membership.service.invite",
	})

	if requesterID == 0 {
		return nil, newError(KindUnauthenticated, "user not authenticated", nil)
	}

	ws, err := s.authorizeAdmin(ctx, requesterID, workspacePublicID)
	if err != nil {
		return nil, err
	}

	email, err = normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	var seatSub *model.Subscription
	var subs []model.Subscription
	if s.mode.Enforced() {
		subs, err = s.subscriptions.ListByWorkspace(ctx, ws.PublicID)
		if err != nil {
			return nil, newError(KindInternal, "failed to load subscriptions", err)
		}
		if billing.ActivePaidPlan(subs) == nil {
			return nil, newError(KindNotFound, ErrNoActivePlan.Error(), ErrNoActivePlan)
		}
		if team := billing.ActiveSubscription(subs, model.PlanTeam); team != nil && !billing.HasUnlimitedSeats(subs) {
			seatSub = team
		}
	}

	if _, err := s.members.GetByEmailInWorkspace(ctx, ws.ID, email); err == nil {
		return nil, newError(KindConflict, ErrAlreadyMember.Error(), ErrAlreadyMember)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, newError(KindInternal, "failed to check existing membership", err)
	}

	var linkedUserID *int64
	if user, err := s.users.GetByEmail(ctx, email); err == nil {
		linkedUserID = &user.ID
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, newError(KindInternal, "failed to look up invitee", err)
	}

	member := &model.Member{
		ID:          id.New(),
		PublicID:    id.NewPublicID(),
		WorkspaceID: ws.ID,
		Email:       email,
		UserID:      linkedUserID,
		Role:        model.MemberRoleMember,
		Status:      model.MemberStatusInvited,
		CreatedBy:   requesterID,
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{MemberID: &member.PublicID})

	var steps []sagaStep
	if seatSub != nil {
		steps = append(steps, s.reserveSeatStep(ws, seatSub, subs))
	}
	steps = append(steps,
		s.createMemberStep(member, requesterID),
		s.sendInviteStep(ws, member),
	)

	if err := newSaga("invite_member", steps...).Run(ctx); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "member invited",
		"email", logger.MaskEmail(email),
		"linked_user", linkedUserID != nil,
		"seat_reserved", seatSub != nil)

	return member, nil
}

// reserveSeatStep adds a billable seat before any row is written. A seat that
// was charged is not refunded on rollback; the workspace is flagged for
// reconciliation instead.
func (s *membershipService) reserveSeatStep(ws *model.Workspace, sub *model.Subscription, subs []model.Subscription) sagaStep {
	var adjustment *SeatAdjustment
	return sagaStep{
		name: "reserve_seat",
		run: func(ctx context.Context) error {
			adj, err := s.seats.AdjustSeats(ctx, sub, subs, 1)
			if err != nil {
				slog.ErrorContext(ctx, "failed to add seat for new member",
					"error", err,
					"subscription_id", sub.ID)
				return newError(KindInternal, "failed to secure a seat for the new member", err)
			}
			adjustment = adj
			return nil
		},
		compensate: func(ctx context.Context) error {
			if adjustment == nil || !adjustment.Applied {
				return nil
			}
			return s.tasks.Enqueue(ctx, queue.Task{
				TaskType:          queue.TaskTypeSeatReconcile,
				WorkspacePublicID: ws.PublicID,
				Reason:            queue.ReasonInviteRolledBack,
			})
		},
	}
}

func (s *membershipService) createMemberStep(member *model.Member, requesterID int64) sagaStep {
	return sagaStep{
		name: "create_member",
		run: func(ctx context.Context) error {
			if err := s.members.Create(ctx, member); err != nil {
				if errors.Is(err, store.ErrConflict) {
					return newError(KindConflict, ErrAlreadyMember.Error(), ErrAlreadyMember)
				}
				return newError(KindInternal, "failed to create member", err)
			}
			return nil
		},
		compensate: func(ctx context.Context) error {
			_, err := s.members.SoftDelete(ctx, member.ID, requesterID, s.now())
			if err != nil {
				return fmt.Errorf("soft-deleting member %s: %w", member.PublicID, err)
			}
			return nil
		},
	}
}

func (s *membershipService) sendInviteStep(ws *model.Workspace, member *model.Member) sagaStep {
	return sagaStep{
		name: "send_invite",
		run: func(ctx context.Context) error {
			delivered, err := s.channel.SendInviteLink(ctx, member.Email, invite.Callback{
				MemberPublicID:    member.PublicID,
				WorkspacePublicID: ws.PublicID,
			})
			if err != nil {
				return newError(KindInternal, "failed to send invitation", err)
			}
			if !delivered {
				return newError(KindInternal, "failed to send invitation", nil)
			}
			return nil
		},
	}
}

func (s *membershipService) RemoveMember(ctx context.Context, requesterID int64, workspacePublicID, memberPublicID string) (RemoveResult, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		WorkspaceID: &workspacePublicID,
		MemberID:    &memberPublicID,
		RequesterID: &requesterID,
		Component:   "membership.service.remove",
	})

	if requesterID == 0 {
		return RemoveResult{}, newError(KindUnauthenticated, "user not authenticated", nil)
	}

	ws, err := s.authorizeAdmin(ctx, requesterID, workspacePublicID)
	if err != nil {
		return RemoveResult{}, err
	}

	member, err := s.members.GetByPublicID(ctx, memberPublicID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return RemoveResult{}, newError(KindNotFound, ErrMemberNotFound.Error(), ErrMemberNotFound)
		}
		return RemoveResult{}, newError(KindInternal, "failed to load member", err)
	}
	if member.WorkspaceID != ws.ID {
		return RemoveResult{}, newError(KindNotFound, ErrMemberNotFound.Error(), ErrMemberNotFound)
	}

	if _, err := s.members.SoftDelete(ctx, member.ID, requesterID, s.now()); err != nil {
		return RemoveResult{}, newError(KindInternal, "failed to remove member", err)
	}

	slog.InfoContext(ctx, "member removed", "email", logger.MaskEmail(member.Email))

	if s.mode.Enforced() {
		s.releaseSeat(ctx, ws)
	}

	return RemoveResult{Success: true}, nil
}

// releaseSeat never fails the removal. Anything that goes wrong is logged and
// the workspace is flagged for reconciliation.
func (s *membershipService) releaseSeat(ctx context.Context, ws *model.Workspace) {
	subs, err := s.subscriptions.ListByWorkspace(ctx, ws.PublicID)
	if err != nil {
		slog.WarnContext(ctx, "failed to load subscriptions for seat decrement", "error", err)
		s.flagForReconcile(ctx, ws, queue.ReasonSeatDecrementFail)
		return
	}

	team := billing.ActiveSubscription(subs, model.PlanTeam)
	if team == nil || billing.HasUnlimitedSeats(subs) {
		return
	}

	if _, err := s.seats.AdjustSeats(ctx, team, subs, -1); err != nil {
		slog.WarnContext(ctx, "failed to decrease subscription seats",
			"error", err,
			"subscription_id", team.ID)
		s.flagForReconcile(ctx, ws, queue.ReasonSeatDecrementFail)
	}
}

func (s *membershipService) flagForReconcile(ctx context.Context, ws *model.Workspace, reason queue.ReconcileReason) {
	if err := s.tasks.Enqueue(ctx, queue.Task{
		TaskType:          queue.TaskTypeSeatReconcile,
		WorkspacePublicID: ws.PublicID,
		Reason:            reason,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to flag workspace for seat reconciliation",
			"error", err,
			"reason", reason)
	}
}

func (s *membershipService) ListMembers(ctx context.Context, requesterID int64, workspacePublicID string) ([]model.Member, error) {
	if requesterID == 0 {
		return nil, newError(KindUnauthenticated, "user not authenticated", nil)
	}

	ws, err := s.getWorkspace(ctx, workspacePublicID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.AssertRole(ctx, requesterID, ws.ID, model.MemberRoleMember); err != nil {
		return nil, err
	}

	members, err := s.members.ListByWorkspace(ctx, ws.ID)
	if err != nil {
		return nil, newError(KindInternal, "failed to list members", err)
	}
	return members, nil
}

// AcceptInvite links the signed-in user to an invited membership and
// activates it. Accepting twice as the same user returns the active member.
func (s *membershipService) AcceptInvite(ctx context.Context, user *model.User, memberPublicID string) (*model.Member, error) {
	if user == nil {
		return nil, newError(KindUnauthenticated, "user not authenticated", nil)
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		MemberID:    &memberPublicID,
		RequesterID: &user.ID,
		Component:   "membership.service.accept",
	})

	var accepted *model.Member
	err := s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		member, err := sp.Members().GetByPublicID(ctx, memberPublicID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return newError(KindNotFound, ErrMemberNotFound.Error(), ErrMemberNotFound)
			}
			return newError(KindInternal, "failed to load member", err)
		}

		if !strings.EqualFold(member.Email, user.Email) {
			return newError(KindForbidden, ErrInviteEmailMismatch.Error(), ErrInviteEmailMismatch)
		}

		if member.Status == model.MemberStatusActive {
			if member.UserID != nil && *member.UserID == user.ID {
				accepted = member
				return nil
			}
			return newError(KindConflict, ErrAlreadyMember.Error(), ErrAlreadyMember)
		}

		activated, err := sp.Members().Activate(ctx, member.ID, user.ID)
		if err != nil {
			return newError(KindInternal, "failed to activate member", err)
		}
		accepted = activated
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "invitation accepted", "workspace_id", accepted.WorkspaceID)
	return accepted, nil
}

func (s *membershipService) getWorkspace(ctx context.Context, workspacePublicID string) (*model.Workspace, error) {
	ws, err := s.workspaces.GetByPublicID(ctx, workspacePublicID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(KindNotFound, ErrWorkspaceNotFound.Error(), ErrWorkspaceNotFound)
		}
		return nil, newError(KindInternal, "failed to load workspace", err)
	}
	return ws, nil
}

func (s *membershipService) authorizeAdmin(ctx context.Context, requesterID int64, workspacePublicID string) (*model.Workspace, error) {
	ws, err := s.getWorkspace(ctx, workspacePublicID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.AssertRole(ctx, requesterID, ws.ID, model.MemberRoleAdmin); err != nil {
		return nil, err
	}
	return ws, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validate.Var(email, "required,email"); err != nil {
		return "", newError(KindInvalidArgument, "invalid email address", err)
	}
	return email, nil
}
