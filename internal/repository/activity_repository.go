package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tijani-web/flowpitch-backend/internal/model"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log appends an activity record.
func (r *ActivityRepository) Log(ctx context.Context, action string, userID, projectID uuid.UUID, metadata map[string]any) error {
	entry := model.ActivityLog{
		ProjectID: projectID,
		UserID:    userID,
		Action:    action,
		Metadata:  datatypes.JSONMap(metadata),
	}
	return r.db.WithContext(ctx).Create(&entry).Error
}

// ListByProject returns a page of the project's activity, newest first.
func (r *ActivityRepository) ListByProject(ctx context.Context, projectID uuid.UUID, page, limit int) ([]model.ActivityLog, int64, error) {
	if page < 1 {
		page = 1
	}
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&model.ActivityLog{}).
		Where("project_id = ?", projectID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.ActivityLog
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&entries).Error
	return entries, total, err
}
