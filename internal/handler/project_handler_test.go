package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/tijani-web/flowpitch-backend/internal/handler"
	"github.com/tijani-web/flowpitch-backend/internal/model"
	"github.com/tijani-web/flowpitch-backend/internal/repository"
)

func projectRouter(e *testEnv, auth gin.HandlerFunc) *gin.Engine {
	projects := repository.NewProjectRepository(e.db)
	h := handler.NewProjectHandler(projects, e.guard, e.log)

	r := gin.New()
	g := r.Group("/")
	if auth != nil {
		g.Use(auth)
	}
	g.POST("/projects", h.Create)
	g.GET("/projects", h.List)
	g.GET("/projects/:id", h.Get)
	g.PUT("/projects/:id", h.Update)
	g.DELETE("/projects/:id", h.Delete)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestProjectGet_PrivateHiddenFromAnonymous(t *testing.T) {
	e := newTestEnv(t)
	owner := e.createUser(t, "owner")
	private := e.createProject(t, owner, model.VisibilityPrivate)

	router := projectRouter(e, nil)
	resp := get(router, "/projects/"+private.ID.String())

	// Invisible private projects answer exactly like missing ones.
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "Project not found")
}

func TestProjectGet_PrivateVisibleToMember(t *testing.T) {
	e := newTestEnv(t)
	owner := e.createUser(t, "owner")
	private := e.createProject(t, owner, model.VisibilityPrivate)
	member := e.createUser(t, "member")
	e.addMember(t, private, member, model.RoleViewer)

	router := projectRouter(e, asUser(member.ID))
	resp := get(router, "/projects/"+private.ID.String())

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), private.Slug)
}

func TestProjectGet_PublicVisibleToAnonymous(t *testing.T) {
	e := newTestEnv(t)
	owner := e.createUser(t, "owner")
	public := e.createProject(t, owner, model.VisibilityPublic)

	router := projectRouter(e, nil)
	resp := get(router, "/projects/"+public.ID.String())

	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestProjectCreate_DefaultStages(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t, "creator")

	router := projectRouter(e, asUser(user.ID))
	resp := postJSON(router, "/projects", gin.H{
		"title":      "My Product Roadmap",
		"visibility": "public",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Contains(t, resp.Body.String(), `"my-product-roadmap"`)

	var count int64
	e.db.Model(&model.RoadmapStage{}).Count(&count)
	assert.Equal(t, int64(4), count)
}

func TestProjectCreate_CustomStages(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t, "creator")

	router := projectRouter(e, asUser(user.ID))
	resp := postJSON(router, "/projects", gin.H{
		"title": "Custom Flow",
		"stages": []gin.H{
			{"title": "Ideas"},
			{"title": "Shipped", "color": "bg-green-500"},
		},
	})

	assert.Equal(t, http.StatusCreated, resp.Code)

	var stages []model.RoadmapStage
	e.db.Order("position ASC").Find(&stages)
	assert.Len(t, stages, 2)
	assert.Equal(t, "Ideas", stages[0].Title)
	assert.Equal(t, 1, stages[0].Position)
	assert.Equal(t, "bg-green-500", stages[1].Color)
}

func TestProjectUpdate_NonOwnerForbidden(t *testing.T) {
	e := newTestEnv(t)
	owner := e.createUser(t, "owner")
	project := e.createProject(t, owner, model.VisibilityPublic)
	editor := e.createUser(t, "editor")
	e.addMember(t, project, editor, model.RoleEditor)

	router := projectRouter(e, asUser(editor.ID))
	resp := putJSON(router, "/projects/"+project.ID.String(), gin.H{
		"description": "sneaky edit",
	})

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestProjectDelete_OwnerCascades(t *testing.T) {
	e := newTestEnv(t)
	owner := e.createUser(t, "owner")
	project := e.createProject(t, owner, model.VisibilityPublic)

	router := projectRouter(e, asUser(owner.ID))
	req, _ := http.NewRequest("DELETE", "/projects/"+project.ID.String(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var stages int64
	e.db.Model(&model.RoadmapStage{}).Where("project_id = ?", project.ID).Count(&stages)
	assert.Equal(t, int64(0), stages)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"My Product Roadmap":   "my-product-roadmap",
		"  Rocket!! Launch  ":  "rocket-launch",
		"already-a-slug":       "already-a-slug",
		"Ünïcode & Symbols 42": "n-code-symbols-42",
	}
	for in, want := range cases {
		assert.Equal(t, want, handler.Slugify(in), in)
	}
}
