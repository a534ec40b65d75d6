package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tijani-web/flowpitch-backend/internal/model"
)

type StageRepository struct {
	db *gorm.DB
}

func NewStageRepository(db *gorm.DB) *StageRepository {
	return &StageRepository{db: db}
}

func (r *StageRepository) Create(ctx context.Context, stage *model.RoadmapStage) error {
	return r.db.WithContext(ctx).Create(stage).Error
}

func (r *StageRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.RoadmapStage, error) {
	var stage model.RoadmapStage
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&stage).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stage, nil
}

func (r *StageRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.RoadmapStage, error) {
	var stages []model.RoadmapStage
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("position ASC").
		Find(&stages).Error
	return stages, err
}

// First returns the project's opening stage by position. New features land here.
func (r *StageRepository) First(ctx context.Context, projectID uuid.UUID) (*model.RoadmapStage, error) {
	var stage model.RoadmapStage
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("position ASC").
		First(&stage).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stage, nil
}

func (r *StageRepository) Update(ctx context.Context, stage *model.RoadmapStage) error {
	return r.db.WithContext(ctx).Save(stage).Error
}

func (r *StageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.RoadmapStage{}).Error
}
