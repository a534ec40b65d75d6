package model

import (
	"github.com/google/uuid"
)

// Comment is threaded one level deep: replies reference a top-level comment
// through ParentID.
type Comment struct {
	BaseModel
	FeatureID uuid.UUID  `gorm:"type:uuid;not null;index" json:"feature_id"`
	AuthorID  uuid.UUID  `gorm:"type:uuid;not null" json:"author_id"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Content   string     `gorm:"not null" json:"content"`

	Author  User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Replies []Comment `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
}
