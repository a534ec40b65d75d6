package model

import (
	"github.com/google/uuid"
)

// Project visibility values.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

type Project struct {
	BaseModel
	Title       string    `gorm:"not null" json:"title"`
	Slug        string    `gorm:"index;not null" json:"slug"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	LogoURL     string    `json:"logo_url"`
	Visibility  string    `gorm:"not null;default:public;check:visibility IN ('public','private')" json:"visibility"`
	Progress    int       `gorm:"not null;default:0" json:"progress"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`

	Owner  User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Stages []RoadmapStage `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"stages,omitempty"`
}

// IsPublic reports whether the project is visible without membership.
func (p *Project) IsPublic() bool {
	return p.Visibility == VisibilityPublic
}
