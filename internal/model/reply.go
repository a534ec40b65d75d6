package model

import (
	"github.com/google/uuid"
)

// DiscussionReply nests without a depth limit via ParentID.
type DiscussionReply struct {
	BaseModel
	DiscussionID uuid.UUID  `gorm:"type:uuid;not null;index" json:"discussion_id"`
	AuthorID     uuid.UUID  `gorm:"type:uuid;not null" json:"author_id"`
	ParentID     *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Content      string     `gorm:"not null" json:"content"`

	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	// Populated by the repository when building the tree for a caller.
	Children     []*DiscussionReply `gorm:"-" json:"replies"`
	LikeCount    int64              `gorm:"-" json:"like_count"`
	UserHasLiked bool               `gorm:"-" json:"userHasLiked"`
}

type DiscussionReplyLike struct {
	BaseModel
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_reply_likes" json:"user_id"`
	ReplyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_reply_likes;index" json:"reply_id"`
}
