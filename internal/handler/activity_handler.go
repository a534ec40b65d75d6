package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tijani-web/flowpitch-backend/internal/repository"
	"github.com/tijani-web/flowpitch-backend/internal/response"
)

type ActivityHandler struct {
	activity *repository.ActivityRepository
	guard    *ProjectGuard
	log      *zap.Logger
}

func NewActivityHandler(activity *repository.ActivityRepository, guard *ProjectGuard, log *zap.Logger) *ActivityHandler {
	return &ActivityHandler{activity: activity, guard: guard, log: log}
}

// ListByProject godoc
// @Summary Project activity feed, newest first
// @Tags activity
// @Produce json
// @Param id path string true "Project id"
// @Param page query int false "Page, 1-based"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /api/projects/{id}/activity [get]
func (h *ActivityHandler) ListByProject(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	project := h.guard.visibleProject(c, projectID, optionalUserID(c))
	if project == nil {
		return
	}
	page, limit := pageParams(c)

	entries, total, err := h.activity.ListByProject(c.Request.Context(), project.ID, page, limit)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "", gin.H{
		"activity":   entries,
		"pagination": newPagination(page, limit, total),
	})
}
