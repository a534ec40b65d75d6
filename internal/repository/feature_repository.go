package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tijani-web/flowpitch-backend/internal/model"
)

type FeatureRepository struct {
	db *gorm.DB
}

func NewFeatureRepository(db *gorm.DB) *FeatureRepository {
	return &FeatureRepository{db: db}
}

func (r *FeatureRepository) Create(ctx context.Context, feature *model.Feature) error {
	return r.db.WithContext(ctx).Create(feature).Error
}

func (r *FeatureRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Feature, error) {
	var feature model.Feature
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Stage").
		Where("id = ?", id).
		First(&feature).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &feature, nil
}

// ListByProject returns the project's features ordered by vote count.
func (r *FeatureRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Feature, error) {
	var features []model.Feature
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Stage").
		Where("project_id = ?", projectID).
		Order("vote_count DESC").
		Find(&features).Error
	return features, err
}

func (r *FeatureRepository) Update(ctx context.Context, feature *model.Feature) error {
	return r.db.WithContext(ctx).Save(feature).Error
}

// Delete clears the feature's votes and comments with it in one transaction.
func (r *FeatureRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("feature_id = ?", id).Delete(&model.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("feature_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Feature{}).Error
	})
}
