package invite

import (
	"context"
	"net/url"
)

// Callback is the context an invite link carries back to the dashboard
// after the invitee signs in.
type Callback struct {
	MemberPublicID    string `json:"member_public_id"`
	WorkspacePublicID string `json:"workspace_public_id"`
}

// Path is the dashboard redirect for a pending invite.
func (c Callback) Path() string {
	return "/boards?type=invite&memberPublicId=" + url.QueryEscape(c.MemberPublicID)
}

// Channel issues one-time sign-in links. delivered=false and a non-nil
// error both mean the invitation did not go out.
type Channel interface {
	SendInviteLink(ctx context.Context, email string, cb Callback) (delivered bool, err error)
}

// PendingCallbacks resolves the callbacks stashed for an email when its
// owner completes sign-in.
type PendingCallbacks interface {
	Pop(ctx context.Context, email string) ([]Callback, error)
}
