package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tijani-web/flowpitch-backend/internal/repository"
	"github.com/tijani-web/flowpitch-backend/internal/response"
)

type UserHandler struct {
	users repository.UserRepositoryInterface
	log   *zap.Logger
}

func NewUserHandler(users repository.UserRepositoryInterface, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// GetByUsername godoc
// @Summary Public profile lookup
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} response.Envelope
// @Router /api/users/{username} [get]
func (h *UserHandler) GetByUsername(c *gin.Context) {
	username := strings.ToLower(c.Param("username"))
	user, err := h.users.FindByUsername(c.Request.Context(), username)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	if user == nil {
		response.Err(c, http.StatusNotFound, "User not found")
		return
	}
	response.OK(c, http.StatusOK, "", user.Public())
}

type updateProfileRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=2"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatarUrl"`
}

// UpdateMe godoc
// @Summary Update the caller's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /api/users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	if user == nil {
		response.Err(c, http.StatusNotFound, "User not found")
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if err := h.users.Update(c.Request.Context(), user); err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "Profile updated", user)
}
