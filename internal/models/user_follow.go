package models

import "time"

// UserFollow is a one-directional follow edge from a user to a creator.
// Existence means "is following"; there is no status. The composite unique
// index keeps the edge unique per ordered pair.
type UserFollow struct {
	ID         uint `gorm:"primaryKey"`
	FollowerID uint `gorm:"not null;index;uniqueIndex:idx_user_follows_pair"`
	FollowedID uint `gorm:"not null;index;uniqueIndex:idx_user_follows_pair"`
	CreatedAt  time.Time

	Follower User `gorm:"foreignKey:FollowerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Followed User `gorm:"foreignKey:FollowedID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
