package model

import "time"

type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)

// rank orders roles so that a higher role satisfies any lower requirement.
func (r MemberRole) rank() int {
	switch r {
	case MemberRoleAdmin:
		return 2
	case MemberRoleMember:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r grants everything min grants.
func (r MemberRole) AtLeast(min MemberRole) bool {
	return r.rank() > 0 && r.rank() >= min.rank()
}

type MemberStatus string

const (
	MemberStatusInvited MemberStatus = "invited"
	MemberStatusActive  MemberStatus = "active"
)

type Member struct {
	ID          int64        `json:"id"`
	PublicID    string       `json:"public_id"`
	WorkspaceID int64        `json:"workspace_id"`
	Email       string       `json:"email"`
	UserID      *int64       `json:"user_id,omitempty"`
	Role        MemberRole   `json:"role"`
	Status      MemberStatus `json:"status"`
	CreatedBy   int64        `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	DeletedAt   *time.Time   `json:"deleted_at,omitempty"`
	DeletedBy   *int64       `json:"deleted_by,omitempty"`
}

func (m *Member) IsDeleted() bool {
	return m.DeletedAt != nil
}
