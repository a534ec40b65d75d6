package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tijani-web/flowpitch-backend/internal/model"
	"github.com/tijani-web/flowpitch-backend/internal/repository"
)

func seedDiscussion(t *testing.T, db *gorm.DB, project *model.Project, author *model.User) *model.Discussion {
	t.Helper()
	discussion := &model.Discussion{
		ProjectID: project.ID,
		AuthorID:  author.ID,
		Content:   "What should we build next?",
	}
	require.NoError(t, db.Create(discussion).Error)
	return discussion
}

func addReply(t *testing.T, replies *repository.ReplyRepository, discussionID uuid.UUID, author *model.User, parentID *uuid.UUID, content string) *model.DiscussionReply {
	t.Helper()
	reply := &model.DiscussionReply{
		DiscussionID: discussionID,
		AuthorID:     author.ID,
		ParentID:     parentID,
		Content:      content,
	}
	require.NoError(t, replies.Create(context.Background(), reply))
	return reply
}

func TestReplyTree_NestsUnderParent(t *testing.T) {
	db := newTestDB(t)
	replies := repository.NewReplyRepository(db)

	owner := seedUser(t, db, "owner")
	project := seedProject(t, db, owner, model.VisibilityPublic)
	discussion := seedDiscussion(t, db, project, owner)

	alice := seedUser(t, db, "alice")
	r1 := addReply(t, replies, discussion.ID, owner, nil, "top level")
	r2 := addReply(t, replies, discussion.ID, alice, &r1.ID, "nested under r1")
	r3 := addReply(t, replies, discussion.ID, owner, &r2.ID, "nested under r2")

	tree, err := replies.Tree(context.Background(), discussion.ID, uuid.Nil)
	require.NoError(t, err)

	// r2 and r3 hang off their parents instead of appearing at the top level.
	require.Len(t, tree, 1)
	assert.Equal(t, r1.ID, tree[0].ID)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, r2.ID, tree[0].Children[0].ID)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, r3.ID, tree[0].Children[0].Children[0].ID)
}

func TestReplyTree_LikeAnnotations(t *testing.T) {
	db := newTestDB(t)
	replies := repository.NewReplyRepository(db)

	owner := seedUser(t, db, "owner")
	project := seedProject(t, db, owner, model.VisibilityPublic)
	discussion := seedDiscussion(t, db, project, owner)
	alice := seedUser(t, db, "alice")

	r1 := addReply(t, replies, discussion.ID, owner, nil, "like me")

	ctx := context.Background()
	require.NoError(t, replies.Like(ctx, r1.ID, alice.ID))
	assert.ErrorIs(t, replies.Like(ctx, r1.ID, alice.ID), repository.ErrAlreadyLiked)

	tree, err := replies.Tree(ctx, discussion.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, int64(1), tree[0].LikeCount)
	assert.True(t, tree[0].UserHasLiked)

	anon, err := replies.Tree(ctx, discussion.ID, uuid.Nil)
	require.NoError(t, err)
	assert.False(t, anon[0].UserHasLiked)
}

func TestReplyDeleteSubtree(t *testing.T) {
	db := newTestDB(t)
	replies := repository.NewReplyRepository(db)

	owner := seedUser(t, db, "owner")
	project := seedProject(t, db, owner, model.VisibilityPublic)
	discussion := seedDiscussion(t, db, project, owner)
	alice := seedUser(t, db, "alice")

	r1 := addReply(t, replies, discussion.ID, owner, nil, "root")
	r2 := addReply(t, replies, discussion.ID, alice, &r1.ID, "child")
	r3 := addReply(t, replies, discussion.ID, owner, &r2.ID, "grandchild")
	other := addReply(t, replies, discussion.ID, alice, nil, "unrelated")

	ctx := context.Background()
	require.NoError(t, replies.Like(ctx, r3.ID, alice.ID))

	require.NoError(t, replies.DeleteSubtree(ctx, r1.ID))

	var remaining int64
	require.NoError(t, db.Model(&model.DiscussionReply{}).
		Where("discussion_id = ?", discussion.ID).
		Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)

	survivor, err := replies.GetByID(ctx, other.ID)
	require.NoError(t, err)
	require.NotNil(t, survivor)

	var likes int64
	require.NoError(t, db.Model(&model.DiscussionReplyLike{}).Count(&likes).Error)
	assert.Equal(t, int64(0), likes, "likes of deleted replies go with them")
}

func TestReplyUnlike_MissingLike(t *testing.T) {
	db := newTestDB(t)
	replies := repository.NewReplyRepository(db)

	owner := seedUser(t, db, "owner")
	project := seedProject(t, db, owner, model.VisibilityPublic)
	discussion := seedDiscussion(t, db, project, owner)
	r1 := addReply(t, replies, discussion.ID, owner, nil, "never liked")

	err := replies.Unlike(context.Background(), r1.ID, owner.ID)
	assert.ErrorIs(t, err, repository.ErrLikeNotFound)
}
