package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Feature status values.
const (
	StatusOpen        = "open"
	StatusUnderReview = "under_review"
	StatusInProgress  = "in_progress"
	StatusCompleted   = "completed"
	StatusRejected    = "rejected"
)

// Feature priority values.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Feature struct {
	BaseModel
	ProjectID   uuid.UUID                  `gorm:"type:uuid;not null;index" json:"project_id"`
	StageID     uuid.UUID                  `gorm:"type:uuid;not null;index" json:"stage_id"`
	AuthorID    uuid.UUID                  `gorm:"type:uuid;not null;index" json:"author_id"`
	Title       string                     `gorm:"not null" json:"title"`
	Description string                     `json:"description"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	Status      string                     `gorm:"not null;default:open" json:"status"`
	Priority    string                     `gorm:"not null;default:medium" json:"priority"`
	Progress    int                        `gorm:"not null;default:0" json:"progress"`
	VoteCount   int                        `gorm:"not null;default:0" json:"vote_count"`
	StartDate   *time.Time                 `json:"start_date,omitempty"`
	TargetDate  *time.Time                 `json:"target_date,omitempty"`

	Author User         `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Stage  RoadmapStage `gorm:"foreignKey:StageID" json:"stage,omitempty"`
}
