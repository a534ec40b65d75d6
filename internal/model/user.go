package model

import "time"

type User struct {
	BaseModel
	Name         string  `gorm:"not null" json:"name"`
	Username     string  `gorm:"uniqueIndex;not null" json:"username"`
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string  `json:"-"`
	GoogleID     *string `gorm:"uniqueIndex" json:"-"`
	GithubID     *string `gorm:"uniqueIndex" json:"-"`
	Role         string  `gorm:"not null;default:user" json:"role"`
	Bio          string  `json:"bio"`
	AvatarURL    string  `json:"avatar_url"`

	ResetToken        *string    `gorm:"index" json:"-"`
	ResetTokenExpires *time.Time `json:"-"`
}

// PublicProfile strips fields that should never leave the server.
type PublicProfile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:        u.ID.String(),
		Name:      u.Name,
		Username:  u.Username,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
	}
}
