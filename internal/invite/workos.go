package invite

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"basegraph.app/membership/common/logger"
	"github.com/redis/go-redis/v9"
	"github.com/workos/workos-go/v6/pkg/usermanagement"
)

const callbackKeyPrefix = "invite:callback:"

// CallbackStore keeps the pending callbacks for an email, one per invited
// member, so invites from several workspaces resolve together.
type CallbackStore interface {
	Put(ctx context.Context, email string, cb Callback, ttl time.Duration) error
	Pop(ctx context.Context, email string) ([]Callback, error)
	Drop(ctx context.Context, email, memberPublicID string) error
}

// MagicAuthSender asks the identity provider to email a one-time code.
type MagicAuthSender func(ctx context.Context, email string) error

// NewWorkOSMagicAuth sends codes through client, which carries its own API key.
func NewWorkOSMagicAuth(client *usermanagement.Client) MagicAuthSender {
	return func(ctx context.Context, email string) error {
		_, err := client.CreateMagicAuth(ctx, usermanagement.CreateMagicAuthOpts{
			Email: email,
		})
		return err
	}
}

type workOSChannel struct {
	callbacks CallbackStore
	send      MagicAuthSender
	ttl       time.Duration
}

// NewWorkOSChannel stashes the callback before sending so the auth callback
// can resolve it, and drops it again if the send fails.
func NewWorkOSChannel(callbacks CallbackStore, send MagicAuthSender, ttl time.Duration) Channel {
	return &workOSChannel{callbacks: callbacks, send: send, ttl: ttl}
}

func (c *workOSChannel) SendInviteLink(ctx context.Context, email string, cb Callback) (bool, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		MemberID:  &cb.MemberPublicID,
		Component: "membership.invite.workos",
	})

	if err := c.callbacks.Put(ctx, email, cb, c.ttl); err != nil {
		return false, fmt.Errorf("stashing invite callback: %w", err)
	}

	if err := c.send(ctx, email); err != nil {
		slog.ErrorContext(ctx, "failed to send magic auth invitation",
			"error", err,
			"email", logger.MaskEmail(email),
			"callback", cb.Path())
		if dropErr := c.callbacks.Drop(ctx, email, cb.MemberPublicID); dropErr != nil {
			slog.WarnContext(ctx, "failed to drop invite callback", "error", dropErr)
		}
		return false, fmt.Errorf("sending magic auth: %w", err)
	}

	slog.InfoContext(ctx, "invitation sent", "email", logger.MaskEmail(email))
	return true, nil
}

type redisCallbackStore struct {
	client *redis.Client
}

func NewRedisCallbackStore(client *redis.Client) CallbackStore {
	return &redisCallbackStore{client: client}
}

func callbackKey(email string) string {
	return callbackKeyPrefix + strings.ToLower(strings.TrimSpace(email))
}

// Put stores cb in the email's hash under the member public id. The TTL
// applies to the whole hash and is refreshed by every new invite.
func (s *redisCallbackStore) Put(ctx context.Context, email string, cb Callback, ttl time.Duration) error {
	payload, err := json.Marshal(cb)
	if err != nil {
		return fmt.Errorf("encoding callback: %w", err)
	}

	key := callbackKey(email)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, cb.MemberPublicID, payload)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// Pop removes and returns every callback pending for email, oldest member
// first (public ids are time ordered). Empty when nothing is pending.
func (s *redisCallbackStore) Pop(ctx context.Context, email string) ([]Callback, error) {
	key := callbackKey(email)

	var entries *redis.MapStringStringCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		entries = pipe.HGetAll(ctx, key)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pop %s: %w", key, err)
	}

	callbacks := make([]Callback, 0, len(entries.Val()))
	for _, raw := range entries.Val() {
		var cb Callback
		if err := json.Unmarshal([]byte(raw), &cb); err != nil {
			return nil, fmt.Errorf("decoding callback: %w", err)
		}
		callbacks = append(callbacks, cb)
	}
	sort.Slice(callbacks, func(i, j int) bool {
		return callbacks[i].MemberPublicID < callbacks[j].MemberPublicID
	})
	return callbacks, nil
}

// Drop removes only the callback for memberPublicID.
func (s *redisCallbackStore) Drop(ctx context.Context, email, memberPublicID string) error {
	return s.client.HDel(ctx, callbackKey(email), memberPublicID).Err()
}
