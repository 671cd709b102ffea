package models

import "gorm.io/gorm"

// Role values for User.Role.
const (
	RoleUser    = "user"
	RoleCreator = "creator"
)

// User represents a user in the system. Creators publish to the public
// catalog and can be followed; regular users cannot.
type User struct {
	gorm.Model
	Username     string `gorm:"size:255;unique;not null"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	FullName     string `gorm:"size:255"`
	AvatarURL    string `gorm:"size:512"`
	Role         string `gorm:"size:50;not null;default:'user';index"`
}

// UserSummary is the slim profile attached to relationship views. It is what
// the user directory hands out.
type UserSummary struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
	Role      string `json:"role"`
}

// Summary converts a full user row to its public summary.
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		Role:      u.Role,
	}
}
