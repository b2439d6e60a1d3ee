package service

import (
	"basegraph.app/membership/core/config"
	"basegraph.app/membership/internal/billing"
	"basegraph.app/membership/internal/invite"
	"basegraph.app/membership/internal/store"
)

type Services struct {
	stores    *store.Stores
	txRunner  TxRunner
	provider  billing.Provider
	channel   invite.Channel
	pending   invite.PendingCallbacks
	tasks     TaskEnqueuer
	mode      billing.Mode
	workOSCfg config.WorkOSConfig
}

type ServicesConfig struct {
	Stores   *store.Stores
	TxRunner TxRunner
	Provider billing.Provider
	Channel  invite.Channel
	Pending  invite.PendingCallbacks
	Tasks    TaskEnqueuer
	Mode     billing.Mode
	WorkOS   config.WorkOSConfig
}

func NewServices(cfg ServicesConfig) *Services {
	return &Services{
		stores:    cfg.Stores,
		txRunner:  cfg.TxRunner,
		provider:  cfg.Provider,
		channel:   cfg.Channel,
		pending:   cfg.Pending,
		tasks:     cfg.Tasks,
		mode:      cfg.Mode,
		workOSCfg: cfg.WorkOS,
	}
}

func (s *Services) Membership() MembershipService {
	return NewMembershipService(MembershipDeps{
		Workspaces:    s.stores.Workspaces(),
		Members:       s.stores.Members(),
		Subscriptions: s.stores.Subscriptions(),
		Users:         s.stores.Users(),
		Authorizer:    NewAuthorizer(s.stores.Members()),
		Seats:         NewSeatAccountant(s.provider, s.mode),
		Channel:       s.channel,
		Tasks:         s.tasks,
		TxRunner:      s.txRunner,
		Mode:          s.mode,
	})
}

func (s *Services) Auth() AuthService {
	return NewAuthService(
		s.stores.Users(),
		s.stores.Sessions(),
		s.pending,
		s.Membership(),
		s.workOSCfg,
		nil,
	)
}

func (s *Services) Reconcile() ReconcileService {
	return NewReconcileService(
		s.stores.Workspaces(),
		s.stores.Members(),
		s.stores.Subscriptions(),
		s.provider,
		s.mode,
	)
}

func (s *Services) SubscriptionSync() SubscriptionSyncService {
	return NewSubscriptionSyncService(s.stores.Subscriptions())
}
