package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tijani-web/flowpitch-backend/internal/model"
	"github.com/tijani-web/flowpitch-backend/internal/repository"
)

func TestSearchProjects_VisibilityAndsWithText(t *testing.T) {
	db := newTestDB(t)
	search := repository.NewSearchRepository(db)

	owner := seedUser(t, db, "owner")
	pub := seedProject(t, db, owner, model.VisibilityPublic)
	priv := seedProject(t, db, owner, model.VisibilityPrivate)
	require.NoError(t, db.Model(pub).Update("title", "Rocket launcher").Error)
	require.NoError(t, db.Model(priv).Update("title", "Rocket secrets").Error)

	ctx := context.Background()

	// Anonymous callers only see the public match even though both titles hit.
	results, total, err := search.Projects(ctx, repository.SearchOptions{Query: "rocket"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, pub.ID, results[0].ID)

	// The owner sees both.
	results, total, err = search.Projects(ctx, repository.SearchOptions{Query: "rocket", CallerID: owner.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, results, 2)

	// A member of the private project sees it too.
	member := seedUser(t, db, "member")
	seedMember(t, db, priv, member, model.RoleViewer)
	results, total, err = search.Projects(ctx, repository.SearchOptions{Query: "secrets", CallerID: member.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, priv.ID, results[0].ID)
}

func TestSearchProjects_CaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	search := repository.NewSearchRepository(db)

	owner := seedUser(t, db, "owner")
	pub := seedProject(t, db, owner, model.VisibilityPublic)
	require.NoError(t, db.Model(pub).Update("title", "FlowPitch Roadmap").Error)

	results, _, err := search.Projects(context.Background(), repository.SearchOptions{Query: "ROADMAP"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, pub.ID, results[0].ID)
}

func TestSearchFeatures_FiltersAndVisibility(t *testing.T) {
	db := newTestDB(t)
	search := repository.NewSearchRepository(db)

	owner := seedUser(t, db, "owner")
	pub := seedProject(t, db, owner, model.VisibilityPublic)
	priv := seedProject(t, db, owner, model.VisibilityPrivate)

	visible := seedFeature(t, db, pub, owner)
	require.NoError(t, db.Model(visible).Updates(map[string]any{
		"title": "Dark mode", "status": model.StatusInProgress, "priority": model.PriorityHigh,
	}).Error)
	hidden := seedFeature(t, db, priv, owner)
	require.NoError(t, db.Model(hidden).Update("title", "Dark mode internals").Error)

	ctx := context.Background()

	results, total, err := search.Features(ctx, uuid.Nil, repository.SearchOptions{Query: "dark"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, visible.ID, results[0].ID)

	// Status filter drops the only visible match.
	_, total, err = search.Features(ctx, uuid.Nil, repository.SearchOptions{Query: "dark", Status: model.StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	// Priority filter keeps it.
	_, total, err = search.Features(ctx, uuid.Nil, repository.SearchOptions{Query: "dark", Priority: model.PriorityHigh})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestPublicProjects_Aggregates(t *testing.T) {
	db := newTestDB(t)
	search := repository.NewSearchRepository(db)
	votes := repository.NewVoteRepository(db)
	followers := repository.NewFollowerRepository(db)

	owner := seedUser(t, db, "owner")
	pub := seedProject(t, db, owner, model.VisibilityPublic)
	seedProject(t, db, owner, model.VisibilityPrivate)

	feature := seedFeature(t, db, pub, owner)
	done := seedFeature(t, db, pub, owner)
	require.NoError(t, db.Model(done).Update("status", model.StatusCompleted).Error)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	ctx := context.Background()
	_, err := votes.Set(ctx, alice.ID, feature.ID, 1)
	require.NoError(t, err)
	_, err = votes.Set(ctx, bob.ID, feature.ID, 1)
	require.NoError(t, err)
	_, err = followers.Follow(ctx, alice.ID, pub.ID)
	require.NoError(t, err)

	stats, total, err := search.PublicProjects(ctx, repository.SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "private projects never appear")
	require.Len(t, stats, 1)

	s := stats[0]
	assert.Equal(t, pub.ID, s.ID)
	assert.Equal(t, int64(2), s.TotalVotes)
	assert.Equal(t, int64(1), s.FollowerCount)
	assert.Equal(t, int64(2), s.FeatureCount)
	assert.Equal(t, 50, s.Completion)
}
