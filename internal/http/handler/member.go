package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"basegraph.app/membership/internal/http/dto"
	"basegraph.app/membership/internal/http/middleware"
	"basegraph.app/membership/internal/service"
)

type MemberHandler struct {
	membership service.MembershipService
}

func NewMemberHandler(membership service.MembershipService) *MemberHandler {
	return &MemberHandler{membership: membership}
}

// Invite handles POST /workspaces/:workspace_id/members/invite.
func (h *MemberHandler) Invite(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.InviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request: email is required", Code: string(service.KindInvalidArgument)})
		return
	}

	member, err := h.membership.InviteMember(ctx, middleware.GetUserID(ctx), c.Param("workspace_id"), req.Email)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMemberResponse(member))
}

// Remove handles DELETE /workspaces/:workspace_id/members/:member_id.
func (h *MemberHandler) Remove(c *gin.Context) {
	ctx := c.Request.Context()

	result, err := h.membership.RemoveMember(ctx, middleware.GetUserID(ctx), c.Param("workspace_id"), c.Param("member_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RemoveMemberResponse{Success: result.Success})
}

func (h *MemberHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	members, err := h.membership.ListMembers(ctx, middleware.GetUserID(ctx), c.Param("workspace_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListMembersResponse(members))
}

// Accept handles POST /members/:member_id/accept for a signed-in invitee.
func (h *MemberHandler) Accept(c *gin.Context) {
	ctx := c.Request.Context()

	member, err := h.membership.AcceptInvite(ctx, middleware.GetUser(ctx), c.Param("member_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberResponse(member))
}
