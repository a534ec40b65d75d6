package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tijani-web/flowpitch-backend/internal/mailer"
	"github.com/tijani-web/flowpitch-backend/internal/model"
	"github.com/tijani-web/flowpitch-backend/internal/repository"
	"github.com/tijani-web/flowpitch-backend/internal/response"
)

type MemberHandler struct {
	members     *repository.MemberRepository
	invites     *repository.InviteRepository
	users       repository.UserRepositoryInterface
	activity    *repository.ActivityRepository
	guard       *ProjectGuard
	mail        mailer.Mailer
	frontendURL string
	log         *zap.Logger
}

func NewMemberHandler(
	members *repository.MemberRepository,
	invites *repository.InviteRepository,
	users repository.UserRepositoryInterface,
	activity *repository.ActivityRepository,
	guard *ProjectGuard,
	mail mailer.Mailer,
	frontendURL string,
	log *zap.Logger,
) *MemberHandler {
	return &MemberHandler{
		members:     members,
		invites:     invites,
		users:       users,
		activity:    activity,
		guard:       guard,
		mail:        mail,
		frontendURL: frontendURL,
		log:         log,
	}
}

type inviteRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"omitempty,oneof=admin editor member viewer"`
}

// Invite godoc
// @Summary Invite someone to a project by email
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project id"
// @Param body body inviteRequest true "Invitation payload"
// @Success 201 {object} response.Envelope
// @Router /api/projects/{id}/invites [post]
func (h *MemberHandler) Invite(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, http.StatusBadRequest, "Invalid input")
		return
	}
	req.Email = strings.ToLower(req.Email)

	project := h.guard.visibleProject(c, projectID, userID)
	if project == nil {
		return
	}
	role, ok := h.guard.roleOnProject(c, project, userID)
	if !ok {
		return
	}
	if !model.CanInvite(role) {
		response.Err(c, http.StatusForbidden, "Insufficient permissions to invite members")
		return
	}

	existing, err := h.members.FindByProjectAndEmail(c.Request.Context(), project.ID, req.Email)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	if existing != nil || strings.EqualFold(project.Owner.Email, req.Email) {
		response.Err(c, http.StatusConflict, "User is already a member of this project")
		return
	}

	inviteRole := req.Role
	if inviteRole == "" {
		inviteRole = model.RoleMember
	}

	token, err := repository.GenerateToken()
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	invite := &model.ProjectInvite{
		Token:     token,
		Email:     req.Email,
		Role:      inviteRole,
		ProjectID: project.ID,
		InvitedBy: userID,
		ExpiresAt: time.Now().Add(model.InviteTTL),
	}
	if err := h.invites.Create(c.Request.Context(), invite); err != nil {
		response.HandleError(c, h.log, err)
		return
	}

	inviter, err := h.users.GetByID(c.Request.Context(), userID)
	inviterName := "A project admin"
	if err == nil && inviter != nil {
		inviterName = inviter.Name
	}
	link := h.frontendURL + "/invites/" + token
	if err := h.mail.SendInvitation(c.Request.Context(), req.Email, link, project.Title, inviterName); err != nil {
		h.log.Warn("invitation email failed", zap.String("email", req.Email), zap.Error(err))
	}

	response.OK(c, http.StatusCreated, "Invitation sent", gin.H{
		"email":     invite.Email,
		"role":      invite.Role,
		"expiresAt": invite.ExpiresAt,
	})
}

// Accept godoc
// @Summary Accept an invitation token
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param token path string true "Invite token"
// @Success 200 {object} response.Envelope
// @Router /api/invites/{token}/accept [post]
func (h *MemberHandler) Accept(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	token := c.Param("token")

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil || user == nil {
		response.HandleError(c, h.log, err)
		return
	}

	member, err := h.invites.Accept(c.Request.Context(), token, user)
	if err != nil {
		if errors.Is(err, repository.ErrInviteInvalid) {
			response.Err(c, http.StatusBadRequest, "Invalid or expired invitation")
			return
		}
		response.HandleError(c, h.log, err)
		return
	}

	invite, err := h.invites.FindByToken(c.Request.Context(), token)
	if err == nil && invite != nil {
		if err := h.mail.SendWelcome(c.Request.Context(), user.Email, invite.Project.Title, invite.Project.Owner.Name); err != nil {
			h.log.Warn("welcome email failed", zap.Error(err))
		}
		err = h.activity.Log(c.Request.Context(), model.ActionMemberJoined, userID, invite.ProjectID, map[string]any{
			"role": member.Role,
		})
		if err != nil {
			h.log.Warn("activity log failed", zap.Error(err))
		}
	}

	response.OK(c, http.StatusOK, "Invitation accepted", member)
}

// List returns a project's membership roster.
func (h *MemberHandler) List(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	project := h.guard.visibleProject(c, projectID, optionalUserID(c))
	if project == nil {
		return
	}
	members, err := h.members.List(c.Request.Context(), project.ID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "", members)
}

type updateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin editor member viewer"`
}

func (h *MemberHandler) UpdateRole(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "memberId")
	if !ok {
		return
	}
	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, http.StatusBadRequest, "Invalid input")
		return
	}

	project := h.guard.visibleProject(c, projectID, userID)
	if project == nil {
		return
	}
	role, ok := h.guard.roleOnProject(c, project, userID)
	if !ok {
		return
	}
	if !model.CanManageMembers(role) {
		response.Err(c, http.StatusForbidden, "Insufficient permissions to manage members")
		return
	}

	member, err := h.members.GetByID(c.Request.Context(), memberID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	if member == nil || member.ProjectID != project.ID {
		response.Err(c, http.StatusNotFound, "Member not found")
		return
	}

	if err := h.members.UpdateRole(c.Request.Context(), member.ID, req.Role); err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	err = h.activity.Log(c.Request.Context(), model.ActionMemberRoleUpdated, userID, project.ID, map[string]any{
		"memberId": member.ID.String(),
		"role":     req.Role,
	})
	if err != nil {
		h.log.Warn("activity log failed", zap.Error(err))
	}

	member.Role = req.Role
	response.OK(c, http.StatusOK, "Member role updated", member)
}

// Remove drops a membership row. Removing your own membership is rejected so a
// project can never orphan itself mid-request.
func (h *MemberHandler) Remove(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "memberId")
	if !ok {
		return
	}

	project := h.guard.visibleProject(c, projectID, userID)
	if project == nil {
		return
	}
	role, ok := h.guard.roleOnProject(c, project, userID)
	if !ok {
		return
	}
	if !model.CanManageMembers(role) {
		response.Err(c, http.StatusForbidden, "Insufficient permissions to manage members")
		return
	}

	member, err := h.members.GetByID(c.Request.Context(), memberID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	if member == nil || member.ProjectID != project.ID {
		response.Err(c, http.StatusNotFound, "Member not found")
		return
	}
	if member.UserID == userID {
		response.Err(c, http.StatusBadRequest, "Cannot remove yourself from project")
		return
	}

	if err := h.members.Remove(c.Request.Context(), member.ID); err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	err = h.activity.Log(c.Request.Context(), model.ActionMemberRemoved, userID, project.ID, map[string]any{
		"memberId": member.ID.String(),
	})
	if err != nil {
		h.log.Warn("activity log failed", zap.Error(err))
	}
	response.OK(c, http.StatusOK, "Member removed", nil)
}
