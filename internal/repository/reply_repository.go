package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tijani-web/flowpitch-backend/internal/model"
)

type ReplyRepository struct {
	db *gorm.DB
}

func NewReplyRepository(db *gorm.DB) *ReplyRepository {
	return &ReplyRepository{db: db}
}

func (r *ReplyRepository) Create(ctx context.Context, reply *model.DiscussionReply) error {
	if err := r.db.WithContext(ctx).Create(reply).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Preload("Author").First(reply, "id = ?", reply.ID).Error
}

func (r *ReplyRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.DiscussionReply, error) {
	var reply model.DiscussionReply
	err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&reply).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *ReplyRepository) Update(ctx context.Context, reply *model.DiscussionReply) error {
	return r.db.WithContext(ctx).Save(reply).Error
}

// Tree loads the discussion's full reply tree. All rows come back in a single
// query ordered by creation time, and the tree is assembled iteratively so an
// adversarially deep thread cannot exhaust the stack. Each node carries its
// like count and whether callerID (uuid.Nil for anonymous) has liked it.
func (r *ReplyRepository) Tree(ctx context.Context, discussionID, callerID uuid.UUID) ([]*model.DiscussionReply, error) {
	var replies []*model.DiscussionReply
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("discussion_id = ?", discussionID).
		Order("created_at ASC").
		Find(&replies).Error
	if err != nil {
		return nil, err
	}
	if len(replies) == 0 {
		return []*model.DiscussionReply{}, nil
	}

	ids := make([]uuid.UUID, len(replies))
	for i, reply := range replies {
		ids[i] = reply.ID
	}
	counts, err := r.likeCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	liked, err := r.likedByUser(ctx, callerID, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*model.DiscussionReply, len(replies))
	for _, reply := range replies {
		reply.Children = []*model.DiscussionReply{}
		reply.LikeCount = counts[reply.ID]
		reply.UserHasLiked = liked[reply.ID]
		byID[reply.ID] = reply
	}

	// Rows are ordered by created_at, so children attach in creation order
	// within each parent.
	roots := []*model.DiscussionReply{}
	for _, reply := range replies {
		if reply.ParentID == nil {
			roots = append(roots, reply)
			continue
		}
		parent, ok := byID[*reply.ParentID]
		if !ok {
			// Parent was deleted out from under the thread; surface at top level.
			roots = append(roots, reply)
			continue
		}
		parent.Children = append(parent.Children, reply)
	}
	return roots, nil
}

// DeleteSubtree removes a reply and all of its descendants. Descendant ids are
// collected with an explicit work queue, then likes and rows go in one
// transaction.
func (r *ReplyRepository) DeleteSubtree(ctx context.Context, rootID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doomed := []uuid.UUID{rootID}
		queue := []uuid.UUID{rootID}
		for len(queue) > 0 {
			batch := queue
			queue = nil
			var childIDs []uuid.UUID
			if err := tx.Model(&model.DiscussionReply{}).
				Where("parent_id IN ?", batch).
				Pluck("id", &childIDs).Error; err != nil {
				return err
			}
			doomed = append(doomed, childIDs...)
			queue = append(queue, childIDs...)
		}

		if err := tx.Where("reply_id IN ?", doomed).Delete(&model.DiscussionReplyLike{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", doomed).Delete(&model.DiscussionReply{}).Error
	})
}

// Like records a like; a duplicate is ErrAlreadyLiked.
func (r *ReplyRepository) Like(ctx context.Context, replyID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.DiscussionReplyLike
		err := tx.Where("reply_id = ? AND user_id = ?", replyID, userID).First(&existing).Error
		if err == nil {
			return ErrAlreadyLiked
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&model.DiscussionReplyLike{ReplyID: replyID, UserID: userID}).Error
	})
}

func (r *ReplyRepository) Unlike(ctx context.Context, replyID, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("reply_id = ? AND user_id = ?", replyID, userID).
		Delete(&model.DiscussionReplyLike{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrLikeNotFound
	}
	return nil
}

func (r *ReplyRepository) likeCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	type row struct {
		ReplyID uuid.UUID
		N       int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.DiscussionReplyLike{}).
		Select("reply_id, COUNT(*) AS n").
		Where("reply_id IN ?", ids).
		Group("reply_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		counts[r.ReplyID] = r.N
	}
	return counts, nil
}

func (r *ReplyRepository) likedByUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	liked := make(map[uuid.UUID]bool)
	if userID == uuid.Nil {
		return liked, nil
	}
	var likedIDs []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.DiscussionReplyLike{}).
		Where("user_id = ? AND reply_id IN ?", userID, ids).
		Pluck("reply_id", &likedIDs).Error
	if err != nil {
		return nil, err
	}
	for _, id := range likedIDs {
		liked[id] = true
	}
	return liked, nil
}
