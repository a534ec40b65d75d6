package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tijani-web/flowpitch-backend/internal/model"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create stores the project together with its stages in one transaction.
func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stages := project.Stages
		project.Stages = nil
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		for i := range stages {
			stages[i].ProjectID = project.ID
		}
		if len(stages) > 0 {
			if err := tx.Create(&stages).Error; err != nil {
				return err
			}
		}
		project.Stages = stages
		return nil
	})
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Stages", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ListForUser returns projects the user owns or is a member of, newest first.
func (r *ProjectRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("owner_id = ? OR id IN (?)", userID,
			r.db.Model(&model.ProjectMember{}).Select("project_id").Where("user_id = ?", userID)).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

func (r *ProjectRepository) Update(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// Delete removes the project and everything hanging off it. Children without a
// database-level cascade are cleared explicitly in one transaction.
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var featureIDs []uuid.UUID
		if err := tx.Model(&model.Feature{}).Where("project_id = ?", id).Pluck("id", &featureIDs).Error; err != nil {
			return err
		}
		if len(featureIDs) > 0 {
			if err := tx.Where("feature_id IN ?", featureIDs).Delete(&model.Vote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("feature_id IN ?", featureIDs).Delete(&model.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", id).Delete(&model.Feature{}).Error; err != nil {
				return err
			}
		}

		var discussionIDs []uuid.UUID
		if err := tx.Model(&model.Discussion{}).Where("project_id = ?", id).Pluck("id", &discussionIDs).Error; err != nil {
			return err
		}
		if len(discussionIDs) > 0 {
			var replyIDs []uuid.UUID
			if err := tx.Model(&model.DiscussionReply{}).Where("discussion_id IN ?", discussionIDs).Pluck("id", &replyIDs).Error; err != nil {
				return err
			}
			if len(replyIDs) > 0 {
				if err := tx.Where("reply_id IN ?", replyIDs).Delete(&model.DiscussionReplyLike{}).Error; err != nil {
					return err
				}
				if err := tx.Where("discussion_id IN ?", discussionIDs).Delete(&model.DiscussionReply{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("discussion_id IN ?", discussionIDs).Delete(&model.DiscussionLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", id).Delete(&model.Discussion{}).Error; err != nil {
				return err
			}
		}

		for _, m := range []any{
			&model.RoadmapStage{}, &model.ProjectMember{}, &model.ProjectInvite{},
			&model.Follower{}, &model.ActivityLog{},
		} {
			if err := tx.Where("project_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}

		return tx.Where("id = ?", id).Delete(&model.Project{}).Error
	})
}
