package dto

import (
	"time"

	"basegraph.app/membership/internal/model"
)

type InviteMemberRequest struct {
	Email string `json:"email" binding:"required,max=255"`
}

// MemberResponse identifies members by public id only.
type MemberResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	UserID    *int64    `json:"user_id,omitempty,string"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func ToMemberResponse(m *model.Member) MemberResponse {
	return MemberResponse{
		ID:        m.PublicID,
		Email:     m.Email,
		UserID:    m.UserID,
		Role:      string(m.Role),
		Status:    string(m.Status),
		CreatedAt: m.CreatedAt,
	}
}

type ListMembersResponse struct {
	Members []MemberResponse `json:"members"`
}

func ToListMembersResponse(members []model.Member) ListMembersResponse {
	resp := ListMembersResponse{Members: make([]MemberResponse, len(members))}
	for i := range members {
		resp.Members[i] = ToMemberResponse(&members[i])
	}
	return resp
}

type RemoveMemberResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
