package model

import (
	"github.com/google/uuid"
)

// Vote is a single user's +1/-1 on a feature. One row per (user, feature);
// a repeated vote overwrites the value.
type Vote struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_votes_user_feature" json:"user_id"`
	FeatureID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_votes_user_feature;index" json:"feature_id"`
	Value     int       `gorm:"not null;check:value IN (-1,1)" json:"value"`

	Feature Feature `gorm:"foreignKey:FeatureID" json:"feature,omitempty"`
}
