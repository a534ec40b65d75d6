package model

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Activity actions.
const (
	ActionMemberJoined      = "MEMBER_JOINED"
	ActionMemberRoleUpdated = "MEMBER_ROLE_UPDATED"
	ActionMemberRemoved     = "MEMBER_REMOVED"
	ActionProjectFollowed   = "PROJECT_FOLLOWED"
	ActionProjectUnfollowed = "PROJECT_UNFOLLOWED"
	ActionDiscussionCreated = "DISCUSSION_CREATED"
	ActionCommentAdded      = "COMMENT_ADDED"
	ActionUserMentioned     = "USER_MENTIONED"
)

// ActivityLog is an append-only event record scoped to a project.
type ActivityLog struct {
	BaseModel
	ProjectID uuid.UUID         `gorm:"type:uuid;not null;index" json:"project_id"`
	UserID    uuid.UUID         `gorm:"type:uuid;not null" json:"user_id"`
	Action    string            `gorm:"not null" json:"action"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
