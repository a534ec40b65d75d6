package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tijani-web/flowpitch-backend/internal/model"
)

type DiscussionRepository struct {
	db *gorm.DB
}

func NewDiscussionRepository(db *gorm.DB) *DiscussionRepository {
	return &DiscussionRepository{db: db}
}

func (r *DiscussionRepository) Create(ctx context.Context, discussion *model.Discussion) error {
	return r.db.WithContext(ctx).Create(discussion).Error
}

func (r *DiscussionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Discussion, error) {
	var discussion model.Discussion
	err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&discussion).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &discussion, nil
}

// ListByProject returns discussions newest first, annotated with like counts
// and whether the calling user (uuid.Nil for anonymous) has liked each one.
func (r *DiscussionRepository) ListByProject(ctx context.Context, projectID, callerID uuid.UUID) ([]model.Discussion, error) {
	var discussions []model.Discussion
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&discussions).Error
	if err != nil {
		return nil, err
	}
	if len(discussions) == 0 {
		return discussions, nil
	}

	ids := make([]uuid.UUID, len(discussions))
	for i := range discussions {
		ids[i] = discussions[i].ID
	}

	counts, err := r.likeCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	liked, err := r.likedByUser(ctx, callerID, ids)
	if err != nil {
		return nil, err
	}
	for i := range discussions {
		discussions[i].LikeCount = counts[discussions[i].ID]
		discussions[i].UserHasLiked = liked[discussions[i].ID]
	}
	return discussions, nil
}

// Delete removes the discussion, its likes, and its full reply tree.
func (r *DiscussionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var replyIDs []uuid.UUID
		if err := tx.Model(&model.DiscussionReply{}).Where("discussion_id = ?", id).Pluck("id", &replyIDs).Error; err != nil {
			return err
		}
		if len(replyIDs) > 0 {
			if err := tx.Where("reply_id IN ?", replyIDs).Delete(&model.DiscussionReplyLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("discussion_id = ?", id).Delete(&model.DiscussionReply{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("discussion_id = ?", id).Delete(&model.DiscussionLike{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Discussion{}).Error
	})
}

// Like records a like; a second like by the same user is ErrAlreadyLiked.
func (r *DiscussionRepository) Like(ctx context.Context, discussionID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.DiscussionLike
		err := tx.Where("discussion_id = ? AND user_id = ?", discussionID, userID).First(&existing).Error
		if err == nil {
			return ErrAlreadyLiked
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&model.DiscussionLike{DiscussionID: discussionID, UserID: userID}).Error
	})
}

func (r *DiscussionRepository) Unlike(ctx context.Context, discussionID, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("discussion_id = ? AND user_id = ?", discussionID, userID).
		Delete(&model.DiscussionLike{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrLikeNotFound
	}
	return nil
}

func (r *DiscussionRepository) likeCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	type row struct {
		DiscussionID uuid.UUID
		N            int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.DiscussionLike{}).
		Select("discussion_id, COUNT(*) AS n").
		Where("discussion_id IN ?", ids).
		Group("discussion_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		counts[r.DiscussionID] = r.N
	}
	return counts, nil
}

func (r *DiscussionRepository) likedByUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	liked := make(map[uuid.UUID]bool)
	if userID == uuid.Nil {
		return liked, nil
	}
	var likedIDs []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.DiscussionLike{}).
		Where("user_id = ? AND discussion_id IN ?", userID, ids).
		Pluck("discussion_id", &likedIDs).Error
	if err != nil {
		return nil, err
	}
	for _, id := range likedIDs {
		liked[id] = true
	}
	return liked, nil
}
