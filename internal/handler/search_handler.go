package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tijani-web/flowpitch-backend/internal/repository"
	"github.com/tijani-web/flowpitch-backend/internal/response"
)

type SearchHandler struct {
	search *repository.SearchRepository
	log    *zap.Logger
}

func NewSearchHandler(search *repository.SearchRepository, log *zap.Logger) *SearchHandler {
	return &SearchHandler{search: search, log: log}
}

func (h *SearchHandler) options(c *gin.Context) repository.SearchOptions {
	page, limit := pageParams(c)
	return repository.SearchOptions{
		Query:     c.Query("q"),
		Category:  c.Query("category"),
		Status:    c.Query("status"),
		Priority:  c.Query("priority"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Page:      page,
		Limit:     limit,
		CallerID:  optionalUserID(c),
	}
}

// Combined godoc
// @Summary Search projects and features in one call
// @Tags search
// @Produce json
// @Param q query string true "Search text, at least 2 characters"
// @Param type query string false "Restrict to projects or features"
// @Success 200 {object} response.Envelope
// @Router /api/search [get]
func (h *SearchHandler) Combined(c *gin.Context) {
	opts := h.options(c)
	if len(opts.Query) < 2 {
		response.Err(c, http.StatusBadRequest, "Search query must be at least 2 characters")
		return
	}

	kind := c.Query("type")
	result := gin.H{}

	if kind == "" || kind == "projects" {
		projects, total, err := h.search.Projects(c.Request.Context(), opts)
		if err != nil {
			response.HandleError(c, h.log, err)
			return
		}
		result["projects"] = gin.H{"items": projects, "total": total}
	}
	if kind == "" || kind == "features" {
		features, total, err := h.search.Features(c.Request.Context(), uuid.Nil, opts)
		if err != nil {
			response.HandleError(c, h.log, err)
			return
		}
		result["features"] = gin.H{"items": features, "total": total}
	}
	if len(result) == 0 {
		response.Err(c, http.StatusBadRequest, "Unknown search type")
		return
	}
	response.OK(c, http.StatusOK, "", result)
}

func (h *SearchHandler) Projects(c *gin.Context) {
	opts := h.options(c)
	if len(opts.Query) < 2 {
		response.Err(c, http.StatusBadRequest, "Search query must be at least 2 characters")
		return
	}
	projects, total, err := h.search.Projects(c.Request.Context(), opts)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "", gin.H{
		"projects":   projects,
		"pagination": newPagination(opts.Page, opts.Limit, total),
	})
}

func (h *SearchHandler) Features(c *gin.Context) {
	opts := h.options(c)
	if len(opts.Query) < 2 {
		response.Err(c, http.StatusBadRequest, "Search query must be at least 2 characters")
		return
	}

	projectID := uuid.Nil
	if raw := c.Query("projectId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			response.Err(c, http.StatusBadRequest, "Invalid project id")
			return
		}
		projectID = parsed
	}

	features, total, err := h.search.Features(c.Request.Context(), projectID, opts)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "", gin.H{
		"features":   features,
		"pagination": newPagination(opts.Page, opts.Limit, total),
	})
}

// PublicProjects godoc
// @Summary Browse public projects with computed aggregates
// @Tags search
// @Produce json
// @Param q query string false "Search text"
// @Param sortBy query string false "votes, followers, progress or created_at"
// @Success 200 {object} response.Envelope
// @Router /api/search/public/projects [get]
func (h *SearchHandler) PublicProjects(c *gin.Context) {
	opts := h.options(c)
	stats, total, err := h.search.PublicProjects(c.Request.Context(), opts)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "", gin.H{
		"projects":   stats,
		"pagination": newPagination(opts.Page, opts.Limit, total),
	})
}
