package handler_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tijani-web/flowpitch-backend/internal/handler"
	"github.com/tijani-web/flowpitch-backend/internal/model"
	"github.com/tijani-web/flowpitch-backend/internal/repository"
)

func TestExtractMentions(t *testing.T) {
	cases := []struct {
		text string
		want []string
	}{
		{"hello @alice", []string{"alice"}},
		{"@alice and @Bob_99, thoughts?", []string{"alice", "bob_99"}},
		{"@alice @alice twice", []string{"alice"}},
		{"email me at foo@example.com", []string{"example"}},
		{"no mentions here", nil},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, handler.ExtractMentions(tc.text), tc.text)
	}
}

func TestNotifier_FeatureCreatedSkipsAuthor(t *testing.T) {
	e := newTestEnv(t)
	followers := repository.NewFollowerRepository(e.db)
	notifications := repository.NewNotificationRepository(e.db)
	notifier := handler.NewNotifier(followers, notifications, e.log)

	owner := e.createUser(t, "owner")
	project := e.createProject(t, owner, model.VisibilityPublic)
	author := e.createUser(t, "author")
	fan := e.createUser(t, "fan")

	ctx := context.Background()
	_, err := followers.Follow(ctx, author.ID, project.ID)
	require.NoError(t, err)
	_, err = followers.Follow(ctx, fan.ID, project.ID)
	require.NoError(t, err)

	feature := &model.Feature{
		ProjectID: project.ID,
		StageID:   project.Stages[0].ID,
		AuthorID:  author.ID,
		Title:     "Dark mode",
		Status:    model.StatusOpen,
		Priority:  model.PriorityMedium,
	}
	require.NoError(t, e.db.Create(feature).Error)

	notifier.FeatureCreated(ctx, project, feature)

	var all []model.Notification
	require.NoError(t, e.db.Find(&all).Error)
	require.Len(t, all, 1, "the author does not get notified about their own feature")
	assert.Equal(t, fan.ID, all[0].UserID)
	assert.Equal(t, model.NotificationNewFeature, all[0].Type)
	require.NotNil(t, all[0].ReferenceID)
	assert.Equal(t, feature.ID, *all[0].ReferenceID)
}

func TestNotifier_StatusChangeReachesAllFollowers(t *testing.T) {
	e := newTestEnv(t)
	followers := repository.NewFollowerRepository(e.db)
	notifications := repository.NewNotificationRepository(e.db)
	notifier := handler.NewNotifier(followers, notifications, e.log)

	owner := e.createUser(t, "owner")
	project := e.createProject(t, owner, model.VisibilityPublic)
	author := e.createUser(t, "author")
	fan := e.createUser(t, "fan")

	ctx := context.Background()
	_, err := followers.Follow(ctx, author.ID, project.ID)
	require.NoError(t, err)
	_, err = followers.Follow(ctx, fan.ID, project.ID)
	require.NoError(t, err)

	feature := &model.Feature{
		ProjectID: project.ID,
		StageID:   project.Stages[0].ID,
		AuthorID:  author.ID,
		Title:     "Dark mode",
		Status:    model.StatusInProgress,
		Priority:  model.PriorityMedium,
	}
	require.NoError(t, e.db.Create(feature).Error)

	notifier.FeatureStatusChanged(ctx, project, feature)

	var count int64
	require.NoError(t, e.db.Model(&model.Notification{}).
		Where("type = ?", model.NotificationStatusUpdate).
		Count(&count).Error)
	assert.Equal(t, int64(2), count, "status changes reach every follower")
}
