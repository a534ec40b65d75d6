package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tijani-web/flowpitch-backend/internal/model"
)

type VoteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// Set upserts the caller's vote on a feature and recomputes the feature's
// denormalized count. The upsert and the recount share one transaction so two
// concurrent votes cannot leave the count stale.
func (r *VoteRepository) Set(ctx context.Context, userID, featureID uuid.UUID, value int) (*model.Vote, error) {
	var vote model.Vote
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND feature_id = ?", userID, featureID).First(&vote).Error
		switch {
		case err == nil:
			vote.Value = value
			if err := tx.Save(&vote).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote = model.Vote{UserID: userID, FeatureID: featureID, Value: value}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
		default:
			return err
		}
		return recountVotes(tx, featureID)
	})
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// Remove deletes the caller's vote and recomputes the count. A missing vote is
// ErrVoteNotFound.
func (r *VoteRepository) Remove(ctx context.Context, userID, featureID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vote model.Vote
		err := tx.Where("user_id = ? AND feature_id = ?", userID, featureID).First(&vote).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVoteNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Delete(&vote).Error; err != nil {
			return err
		}
		return recountVotes(tx, featureID)
	})
}

// ListByUser returns all votes the user has cast.
func (r *VoteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Vote, error) {
	var votes []model.Vote
	err := r.db.WithContext(ctx).
		Preload("Feature").
		Where("user_id = ?", userID).
		Find(&votes).Error
	return votes, err
}

// recountVotes replaces the feature's vote_count with SUM(value) over its
// current votes. A full recompute, not an increment, so the cache cannot drift.
func recountVotes(tx *gorm.DB, featureID uuid.UUID) error {
	var sum int64
	err := tx.Model(&model.Vote{}).
		Where("feature_id = ?", featureID).
		Select("COALESCE(SUM(value), 0)").
		Scan(&sum).Error
	if err != nil {
		return err
	}
	return tx.Model(&model.Feature{}).
		Where("id = ?", featureID).
		Update("vote_count", sum).Error
}
