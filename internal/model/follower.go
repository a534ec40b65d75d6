package model

import (
	"github.com/google/uuid"
)

// Follower is a watch relation: the user receives project notifications
// without holding membership rights.
type Follower struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_followers_user_project" json:"user_id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_followers_user_project;index" json:"project_id"`

	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
}
