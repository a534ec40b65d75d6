package repository_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tijani-web/flowpitch-backend/internal/database"
	"github.com/tijani-web/flowpitch-backend/internal/model"
)

// newTestDB opens an isolated in-memory sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Name:     "Test " + username,
		Username: username,
		Email:    username + "@example.com",
		Role:     "user",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedProject(t *testing.T, db *gorm.DB, owner *model.User, visibility string) *model.Project {
	t.Helper()
	project := &model.Project{
		Title:      "Project " + uuid.NewString()[:8],
		Slug:       "project-" + uuid.NewString()[:8],
		Visibility: visibility,
		OwnerID:    owner.ID,
	}
	require.NoError(t, db.Create(project).Error)

	stages := model.DefaultStages()
	for i := range stages {
		stages[i].ProjectID = project.ID
	}
	require.NoError(t, db.Create(&stages).Error)
	project.Stages = stages
	return project
}

func seedFeature(t *testing.T, db *gorm.DB, project *model.Project, author *model.User) *model.Feature {
	t.Helper()
	feature := &model.Feature{
		ProjectID: project.ID,
		StageID:   project.Stages[0].ID,
		AuthorID:  author.ID,
		Title:     "Feature " + uuid.NewString()[:8],
		Status:    model.StatusOpen,
		Priority:  model.PriorityMedium,
	}
	require.NoError(t, db.Create(feature).Error)
	return feature
}
