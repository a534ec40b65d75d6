package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tijani-web/flowpitch-backend/internal/repository"
	"github.com/tijani-web/flowpitch-backend/internal/response"
)

type DashboardHandler struct {
	dashboards *repository.DashboardRepository
	guard      *ProjectGuard
	log        *zap.Logger
}

func NewDashboardHandler(dashboards *repository.DashboardRepository, guard *ProjectGuard, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, guard: guard, log: log}
}

// User godoc
// @Summary Caller's cross-project dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param period query string false "7d, 30d or 90d; omit for all time"
// @Success 200 {object} response.Envelope
// @Router /api/dashboard/user [get]
func (h *DashboardHandler) User(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var since time.Time
	switch c.Query("period") {
	case "7d":
		since = time.Now().AddDate(0, 0, -7)
	case "30d":
		since = time.Now().AddDate(0, 0, -30)
	case "90d":
		since = time.Now().AddDate(0, 0, -90)
	}

	dash, err := h.dashboards.ForUser(c.Request.Context(), userID, since)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "", dash)
}

// Project godoc
// @Summary Single-project dashboard
// @Tags dashboard
// @Produce json
// @Param id path string true "Project id"
// @Success 200 {object} response.Envelope
// @Router /api/dashboard/project/{id} [get]
func (h *DashboardHandler) Project(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	project := h.guard.visibleProject(c, projectID, optionalUserID(c))
	if project == nil {
		return
	}

	dash, err := h.dashboards.ForProject(c.Request.Context(), project.ID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "", dash)
}
