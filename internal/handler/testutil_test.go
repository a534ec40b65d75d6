package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tijani-web/flowpitch-backend/internal/database"
	"github.com/tijani-web/flowpitch-backend/internal/handler"
	"github.com/tijani-web/flowpitch-backend/internal/middleware"
	"github.com/tijani-web/flowpitch-backend/internal/model"
	"github.com/tijani-web/flowpitch-backend/internal/repository"
)

// noopMailer satisfies the mailer interface without sending anything.
type noopMailer struct{}

func (noopMailer) SendInvitation(ctx context.Context, to, inviteLink, projectTitle, inviterName string) error {
	return nil
}

func (noopMailer) SendWelcome(ctx context.Context, to, projectTitle, ownerName string) error {
	return nil
}

type testEnv struct {
	db    *gorm.DB
	guard *handler.ProjectGuard
	log   *zap.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	log := zap.NewNop()
	guard := handler.NewProjectGuard(
		repository.NewProjectRepository(db),
		repository.NewMemberRepository(db),
		log,
	)
	return &testEnv{db: db, guard: guard, log: log}
}

// asUser injects an authenticated caller the way the JWT middleware would.
func asUser(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, id)
		c.Next()
	}
}

func (e *testEnv) createUser(t *testing.T, username string) *model.User {
	t.Helper()
	user := &model.User{
		Name:     "Test " + username,
		Username: username,
		Email:    username + "@example.com",
		Role:     "user",
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createProject(t *testing.T, owner *model.User, visibility string) *model.Project {
	t.Helper()
	project := &model.Project{
		Title:      "Project " + uuid.NewString()[:8],
		Slug:       "project-" + uuid.NewString()[:8],
		Visibility: visibility,
		OwnerID:    owner.ID,
	}
	require.NoError(t, e.db.Create(project).Error)

	stages := model.DefaultStages()
	for i := range stages {
		stages[i].ProjectID = project.ID
	}
	require.NoError(t, e.db.Create(&stages).Error)
	project.Stages = stages
	return project
}

func putJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	jsonBody, _ := json.Marshal(body)
	req, _ := http.NewRequest("PUT", path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func (e *testEnv) addMember(t *testing.T, project *model.Project, user *model.User, role string) *model.ProjectMember {
	t.Helper()
	member := &model.ProjectMember{
		ProjectID: project.ID,
		UserID:    user.ID,
		Role:      role,
	}
	require.NoError(t, e.db.Create(member).Error)
	return member
}
