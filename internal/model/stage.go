package model

import (
	"github.com/google/uuid"
)

type RoadmapStage struct {
	BaseModel
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	Title     string    `gorm:"not null" json:"title"`
	Position  int       `gorm:"not null" json:"position"`
	Color     string    `gorm:"not null" json:"color"`
}

// DefaultStages is the stage set created with a project when the caller
// supplies none.
func DefaultStages() []RoadmapStage {
	return []RoadmapStage{
		{Title: "Backlog", Position: 1, Color: "bg-gray-500"},
		{Title: "Planned", Position: 2, Color: "bg-blue-500"},
		{Title: "In Progress", Position: 3, Color: "bg-yellow-500"},
		{Title: "Completed", Position: 4, Color: "bg-green-500"},
	}
}
