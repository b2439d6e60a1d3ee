package router

import (
	"github.com/gin-gonic/gin"

	"basegraph.app/membership/internal/http/handler"
)

// MemberRouter expects rg to already require authentication. Invites are
// rate limited per requester since each one may charge a seat.
func MemberRouter(rg *gin.RouterGroup, h *handler.MemberHandler, inviteLimit gin.HandlerFunc) {
	members := rg.Group("/workspaces/:workspace_id/members")
	{
		members.GET("", h.List)
		members.POST("/invite", inviteLimit, h.Invite)
		members.DELETE("/:member_id", h.Remove)
	}

	rg.POST("/members/:member_id/accept", h.Accept)
}
