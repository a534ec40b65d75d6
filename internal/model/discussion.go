package model

import (
	"github.com/google/uuid"
)

type Discussion struct {
	BaseModel
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Content   string    `gorm:"not null" json:"content"`

	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	// Populated by the repository for the requesting caller.
	LikeCount    int64 `gorm:"-" json:"like_count"`
	UserHasLiked bool  `gorm:"-" json:"userHasLiked"`
}

type DiscussionLike struct {
	BaseModel
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_discussion_likes" json:"user_id"`
	DiscussionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_discussion_likes;index" json:"discussion_id"`
}
