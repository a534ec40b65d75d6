package model

import (
	"github.com/google/uuid"
)

// Membership roles on a project. The owner is implied by Project.OwnerID even
// without a membership row; rows model additional collaborators.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleMember = "member"
	RoleViewer = "viewer"
)

type ProjectMember struct {
	BaseModel
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_members_project_user;index" json:"project_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_members_project_user;index" json:"user_id"`
	Role      string    `gorm:"not null;default:member" json:"role"`

	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
}

// CanManageMembers reports whether the role may change or remove other members.
func CanManageMembers(role string) bool {
	return role == RoleOwner || role == RoleAdmin
}

// CanManageStages reports whether the role may create or update stages.
func CanManageStages(role string) bool {
	return role == RoleOwner || role == RoleAdmin || role == RoleEditor
}

// CanInvite reports whether the role may invite new members.
func CanInvite(role string) bool {
	switch role {
	case RoleOwner, RoleAdmin, RoleMember, RoleEditor:
		return true
	}
	return false
}

// ValidRole reports whether s is an assignable membership role.
func ValidRole(s string) bool {
	switch s {
	case RoleOwner, RoleAdmin, RoleEditor, RoleMember, RoleViewer:
		return true
	}
	return false
}
