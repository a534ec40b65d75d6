package model

import (
	"time"

	"github.com/google/uuid"
)

// InviteTTL is how long an invitation stays acceptable.
const InviteTTL = 7 * 24 * time.Hour

// ProjectInvite grants one email the right to join a project at a given role.
// It is consumed exactly once by acceptance or lapses at ExpiresAt.
type ProjectInvite struct {
	BaseModel
	Token      string     `gorm:"uniqueIndex;not null" json:"-"`
	Email      string     `gorm:"not null;index" json:"email"`
	Role       string     `gorm:"not null;default:member" json:"role"`
	ProjectID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	InvitedBy  uuid.UUID  `gorm:"type:uuid;not null" json:"invited_by"`
	ExpiresAt  time.Time  `gorm:"not null" json:"expires_at"`
	Accepted   bool       `gorm:"not null;default:false" json:"accepted"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`

	Project Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
}

// Expired reports whether the invite can no longer be accepted.
func (i *ProjectInvite) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}
