package model

import (
	"github.com/google/uuid"
)

// Notification types.
const (
	NotificationNewFeature   = "new_feature"
	NotificationStatusUpdate = "status_update"
	NotificationMention      = "mention"
)

type Notification struct {
	BaseModel
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        string     `gorm:"not null" json:"type"`
	Message     string     `gorm:"not null" json:"message"`
	ReferenceID *uuid.UUID `gorm:"type:uuid" json:"reference_id,omitempty"`
	Read        bool       `gorm:"not null;default:false" json:"read"`
}
