package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tijani-web/flowpitch-backend/internal/repository"
	"github.com/tijani-web/flowpitch-backend/internal/response"
)

type VoteHandler struct {
	votes    *repository.VoteRepository
	features *repository.FeatureRepository
	guard    *ProjectGuard
	log      *zap.Logger
}

func NewVoteHandler(votes *repository.VoteRepository, features *repository.FeatureRepository, guard *ProjectGuard, log *zap.Logger) *VoteHandler {
	return &VoteHandler{votes: votes, features: features, guard: guard, log: log}
}

type castVoteRequest struct {
	Value int `json:"value" binding:"required,oneof=-1 1"`
}

// Cast godoc
// @Summary Cast or change a vote on a feature
// @Tags votes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Feature id"
// @Param body body castVoteRequest true "Vote value, 1 or -1"
// @Success 200 {object} response.Envelope
// @Router /api/features/{id}/vote [post]
func (h *VoteHandler) Cast(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	featureID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req castVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, http.StatusBadRequest, "Vote value must be 1 or -1")
		return
	}

	feature, err := h.features.GetByID(c.Request.Context(), featureID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	if feature == nil {
		response.Err(c, http.StatusNotFound, "Feature not found")
		return
	}
	if h.guard.visibleProject(c, feature.ProjectID, userID) == nil {
		return
	}

	if _, err := h.votes.Set(c.Request.Context(), userID, feature.ID, req.Value); err != nil {
		response.HandleError(c, h.log, err)
		return
	}

	updated, err := h.features.GetByID(c.Request.Context(), feature.ID)
	if err != nil || updated == nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "Vote recorded", gin.H{"voteCount": updated.VoteCount})
}

// Remove godoc
// @Summary Withdraw a vote
// @Tags votes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Feature id"
// @Success 200 {object} response.Envelope
// @Router /api/features/{id}/vote [delete]
func (h *VoteHandler) Remove(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	featureID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	feature, err := h.features.GetByID(c.Request.Context(), featureID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	if feature == nil {
		response.Err(c, http.StatusNotFound, "Feature not found")
		return
	}

	if err := h.votes.Remove(c.Request.Context(), userID, feature.ID); err != nil {
		if errors.Is(err, repository.ErrVoteNotFound) {
			response.Err(c, http.StatusNotFound, "Vote not found")
			return
		}
		response.HandleError(c, h.log, err)
		return
	}

	updated, err := h.features.GetByID(c.Request.Context(), feature.ID)
	if err != nil || updated == nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "Vote removed", gin.H{"voteCount": updated.VoteCount})
}

// ListMine returns every vote the caller has cast.
func (h *VoteHandler) ListMine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	votes, err := h.votes.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "", votes)
}
