package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tijani-web/flowpitch-backend/internal/model"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Add(ctx context.Context, member *model.ProjectMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *MemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ProjectMember, error) {
	var member model.ProjectMember
	err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *MemberRepository) FindByProjectAndUser(ctx context.Context, projectID, userID uuid.UUID) (*model.ProjectMember, error) {
	var member model.ProjectMember
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByProjectAndEmail resolves membership through the user's email, used to
// reject invitations to addresses that already hold a seat.
func (r *MemberRepository) FindByProjectAndEmail(ctx context.Context, projectID uuid.UUID, email string) (*model.ProjectMember, error) {
	var member model.ProjectMember
	err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = project_members.user_id").
		Where("project_members.project_id = ? AND users.email = ?", projectID, email).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// List returns the project's members with their users, oldest first.
func (r *MemberRepository) List(ctx context.Context, projectID uuid.UUID) ([]model.ProjectMember, error) {
	var members []model.ProjectMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}

func (r *MemberRepository) UpdateRole(ctx context.Context, memberID uuid.UUID, role string) error {
	return r.db.WithContext(ctx).
		Model(&model.ProjectMember{}).
		Where("id = ?", memberID).
		Update("role", role).Error
}

func (r *MemberRepository) Remove(ctx context.Context, memberID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", memberID).Delete(&model.ProjectMember{}).Error
}

// RoleFor returns the caller's effective role on a project: RoleOwner when the
// project belongs to them, the membership row's role when one exists, and ""
// for no relation at all.
func (r *MemberRepository) RoleFor(ctx context.Context, project *model.Project, userID uuid.UUID) (string, error) {
	if userID == uuid.Nil {
		return "", nil
	}
	if project.OwnerID == userID {
		return model.RoleOwner, nil
	}
	member, err := r.FindByProjectAndUser(ctx, project.ID, userID)
	if err != nil {
		return "", err
	}
	if member == nil {
		return "", nil
	}
	return member.Role, nil
}

// CanView applies the uniform visibility rule: public project, owner, or any
// membership row.
func (r *MemberRepository) CanView(ctx context.Context, project *model.Project, userID uuid.UUID) (bool, error) {
	if project.IsPublic() {
		return true, nil
	}
	role, err := r.RoleFor(ctx, project, userID)
	if err != nil {
		return false, err
	}
	return role != "", nil
}
