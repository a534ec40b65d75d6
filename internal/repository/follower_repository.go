package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tijani-web/flowpitch-backend/internal/model"
)

type FollowerRepository struct {
	db *gorm.DB
}

func NewFollowerRepository(db *gorm.DB) *FollowerRepository {
	return &FollowerRepository{db: db}
}

// Follow creates the watch relation; following twice is ErrAlreadyFollowing.
func (r *FollowerRepository) Follow(ctx context.Context, userID, projectID uuid.UUID) (*model.Follower, error) {
	var follow model.Follower
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Follower
		err := tx.Where("user_id = ? AND project_id = ?", userID, projectID).First(&existing).Error
		if err == nil {
			return ErrAlreadyFollowing
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		follow = model.Follower{UserID: userID, ProjectID: projectID}
		return tx.Create(&follow).Error
	})
	if err != nil {
		return nil, err
	}
	return &follow, nil
}

func (r *FollowerRepository) Unfollow(ctx context.Context, userID, projectID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Delete(&model.Follower{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFollowing
	}
	return nil
}

// ListByProject returns the project's followers with their users.
func (r *FollowerRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Follower, error) {
	var followers []model.Follower
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Find(&followers).Error
	return followers, err
}

// ListByUser returns projects the user watches, newest follow first.
func (r *FollowerRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Follower, error) {
	var follows []model.Follower
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Project.Owner").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&follows).Error
	return follows, err
}

func (r *FollowerRepository) Count(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Follower{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}
