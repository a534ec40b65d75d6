package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tijani-web/flowpitch-backend/internal/model"
)

type InviteRepository struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

// GenerateToken returns a high-entropy invite token.
func GenerateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (r *InviteRepository) Create(ctx context.Context, invite *model.ProjectInvite) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

func (r *InviteRepository) FindByToken(ctx context.Context, token string) (*model.ProjectInvite, error) {
	var invite model.ProjectInvite
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Project.Owner").
		Where("token = ?", token).
		First(&invite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// Accept consumes an invite for the given user. Membership creation and the
// accepted flip happen in one transaction so a concurrent duplicate accept
// cannot slip between the check and the write. Every unacceptable state
// surfaces as ErrInviteInvalid without distinguishing the cause.
func (r *InviteRepository) Accept(ctx context.Context, token string, user *model.User) (*model.ProjectMember, error) {
	var member *model.ProjectMember
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invite model.ProjectInvite
		err := tx.Where("token = ?", token).First(&invite).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInviteInvalid
		}
		if err != nil {
			return err
		}

		now := time.Now()
		if invite.Accepted || invite.Expired(now) || invite.Email != user.Email {
			return ErrInviteInvalid
		}

		member = &model.ProjectMember{
			ProjectID: invite.ProjectID,
			UserID:    user.ID,
			Role:      invite.Role,
		}
		if err := tx.Create(member).Error; err != nil {
			return err
		}

		return tx.Model(&model.ProjectInvite{}).
			Where("id = ?", invite.ID).
			Updates(map[string]any{"accepted": true, "accepted_at": now}).Error
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// ListByProject returns invites for a project, pending first.
func (r *InviteRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.ProjectInvite, error) {
	var invites []model.ProjectInvite
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("accepted ASC, created_at DESC").
		Find(&invites).Error
	return invites, err
}
