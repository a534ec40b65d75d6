package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tijani-web/flowpitch-backend/internal/middleware"
	"github.com/tijani-web/flowpitch-backend/internal/model"
	"github.com/tijani-web/flowpitch-backend/internal/repository"
	"github.com/tijani-web/flowpitch-backend/internal/response"
)

// Pagination is the page descriptor attached to list payloads.
type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"hasMore"`
}

func newPagination(page, limit int, total int64) Pagination {
	return Pagination{
		Page:    page,
		Limit:   limit,
		Total:   total,
		HasMore: total > int64(page*limit),
	}
}

// requireUserID pulls the authenticated caller id, writing the 401 when the
// middleware did not set one.
func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Err(c, http.StatusUnauthorized, "Not authenticated")
		return uuid.Nil, false
	}
	return id, true
}

// optionalUserID returns the caller id when present and uuid.Nil for anonymous
// requests on optional-auth routes.
func optionalUserID(c *gin.Context) uuid.UUID {
	id, _ := middleware.CurrentUserID(c)
	return id
}

// parseIDParam parses a uuid path parameter, writing the 400 on bad input.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Err(c, http.StatusBadRequest, "Invalid id format")
		return uuid.Nil, false
	}
	return id, true
}

// ProjectGuard bundles the repositories every handler needs for the uniform
// visibility rule.
type ProjectGuard struct {
	projects *repository.ProjectRepository
	members  *repository.MemberRepository
	log      *zap.Logger
}

func NewProjectGuard(projects *repository.ProjectRepository, members *repository.MemberRepository, log *zap.Logger) *ProjectGuard {
	return &ProjectGuard{projects: projects, members: members, log: log}
}

// visibleProject loads a project the caller may see. Both a missing project
// and an invisible private one answer 404 so existence is not leaked; in
// either case nil is returned with the response already written.
func (g *ProjectGuard) visibleProject(c *gin.Context, projectID, callerID uuid.UUID) *model.Project {
	project, err := g.projects.GetByID(c.Request.Context(), projectID)
	if err != nil {
		response.HandleError(c, g.log, err)
		return nil
	}
	if project == nil {
		response.Err(c, http.StatusNotFound, "Project not found")
		return nil
	}
	ok, err := g.members.CanView(c.Request.Context(), project, callerID)
	if err != nil {
		response.HandleError(c, g.log, err)
		return nil
	}
	if !ok {
		response.Err(c, http.StatusNotFound, "Project not found")
		return nil
	}
	return project
}

// roleOnProject resolves the caller's effective role, writing a 500 on store
// failure. The empty string means no relation.
func (g *ProjectGuard) roleOnProject(c *gin.Context, project *model.Project, callerID uuid.UUID) (string, bool) {
	role, err := g.members.RoleFor(c.Request.Context(), project, callerID)
	if err != nil {
		response.HandleError(c, g.log, err)
		return "", false
	}
	return role, true
}
