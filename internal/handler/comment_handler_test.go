package handler_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tijani-web/flowpitch-backend/internal/handler"
	"github.com/tijani-web/flowpitch-backend/internal/model"
	"github.com/tijani-web/flowpitch-backend/internal/repository"
)

func commentRouter(e *testEnv, auth gin.HandlerFunc) *gin.Engine {
	comments := repository.NewCommentRepository(e.db)
	features := repository.NewFeatureRepository(e.db)
	users := repository.NewUserRepository(e.db)
	activity := repository.NewActivityRepository(e.db)
	followers := repository.NewFollowerRepository(e.db)
	notifications := repository.NewNotificationRepository(e.db)
	notifier := handler.NewNotifier(followers, notifications, e.log)
	h := handler.NewCommentHandler(comments, features, users, activity, e.guard, notifier, e.log)

	r := gin.New()
	g := r.Group("/")
	if auth != nil {
		g.Use(auth)
	}
	g.POST("/features/:id/comments", h.Create)
	g.GET("/features/:id/comments", h.ListByFeature)
	g.DELETE("/comments/:id", h.Delete)
	return r
}

func (e *testEnv) createFeature(t *testing.T, project *model.Project, author *model.User) *model.Feature {
	t.Helper()
	feature := &model.Feature{
		ProjectID: project.ID,
		StageID:   project.Stages[0].ID,
		AuthorID:  author.ID,
		Title:     "Feature " + author.Username,
		Status:    model.StatusOpen,
		Priority:  model.PriorityMedium,
	}
	require.NoError(t, e.db.Create(feature).Error)
	return feature
}

func TestCommentCreate_MentionNotifiesUser(t *testing.T) {
	e := newTestEnv(t)
	owner := e.createUser(t, "owner")
	project := e.createProject(t, owner, model.VisibilityPublic)
	feature := e.createFeature(t, project, owner)
	mentioned := e.createUser(t, "designlead")

	router := commentRouter(e, asUser(owner.ID))
	resp := postJSON(router, "/features/"+feature.ID.String()+"/comments", gin.H{
		"content": "Pinging @designlead for mockups",
	})

	require.Equal(t, http.StatusCreated, resp.Code)

	var n model.Notification
	require.NoError(t, e.db.Where("user_id = ?", mentioned.ID).First(&n).Error)
	assert.Equal(t, model.NotificationMention, n.Type)

	var activityCount int64
	e.db.Model(&model.ActivityLog{}).
		Where("project_id = ? AND action = ?", project.ID, model.ActionUserMentioned).
		Count(&activityCount)
	assert.Equal(t, int64(1), activityCount)
}

func TestCommentCreate_SelfMentionIgnored(t *testing.T) {
	e := newTestEnv(t)
	owner := e.createUser(t, "owner")
	project := e.createProject(t, owner, model.VisibilityPublic)
	feature := e.createFeature(t, project, owner)

	router := commentRouter(e, asUser(owner.ID))
	resp := postJSON(router, "/features/"+feature.ID.String()+"/comments", gin.H{
		"content": "Note to self: @owner check this later",
	})

	require.Equal(t, http.StatusCreated, resp.Code)

	var count int64
	e.db.Model(&model.Notification{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCommentCreate_RecordsActivity(t *testing.T) {
	e := newTestEnv(t)
	owner := e.createUser(t, "owner")
	project := e.createProject(t, owner, model.VisibilityPublic)
	feature := e.createFeature(t, project, owner)

	router := commentRouter(e, asUser(owner.ID))
	resp := postJSON(router, "/features/"+feature.ID.String()+"/comments", gin.H{
		"content": "First!",
	})

	require.Equal(t, http.StatusCreated, resp.Code)

	var entry model.ActivityLog
	require.NoError(t, e.db.Where("project_id = ? AND action = ?", project.ID, model.ActionCommentAdded).First(&entry).Error)
	assert.Equal(t, owner.ID, entry.UserID)
}

func TestCommentCreate_ReplyToForeignCommentRejected(t *testing.T) {
	e := newTestEnv(t)
	owner := e.createUser(t, "owner")
	project := e.createProject(t, owner, model.VisibilityPublic)
	featureA := e.createFeature(t, project, owner)
	featureB := e.createFeature(t, project, e.createUser(t, "second"))

	foreign := &model.Comment{
		FeatureID: featureB.ID,
		AuthorID:  owner.ID,
		Content:   "on another feature",
	}
	require.NoError(t, e.db.Create(foreign).Error)

	router := commentRouter(e, asUser(owner.ID))
	resp := postJSON(router, "/features/"+featureA.ID.String()+"/comments", gin.H{
		"content":  "misplaced reply",
		"parentId": foreign.ID,
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCommentDelete_ProjectOwnerCanModerate(t *testing.T) {
	e := newTestEnv(t)
	owner := e.createUser(t, "owner")
	project := e.createProject(t, owner, model.VisibilityPublic)
	commenter := e.createUser(t, "commenter")
	e.addMember(t, project, commenter, model.RoleMember)
	feature := e.createFeature(t, project, owner)

	comment := &model.Comment{
		FeatureID: feature.ID,
		AuthorID:  commenter.ID,
		Content:   "spam",
	}
	require.NoError(t, e.db.Create(comment).Error)

	router := commentRouter(e, asUser(owner.ID))
	resp := doDelete(router, "/comments/"+comment.ID.String())

	require.Equal(t, http.StatusOK, resp.Code)

	var count int64
	e.db.Model(&model.Comment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
