package models

import "time"

// NotificationType classifies what a notification is about.
type NotificationType string

const (
	NotificationFriendRequest         NotificationType = "friend_request"
	NotificationFriendRequestResponse NotificationType = "friend_request_response"
	NotificationFollow                NotificationType = "follow"
)

// Notification is an informational row written as a side effect of a
// relationship transition. It is never a source of truth: pending requests
// and friend status are always derived from the edges themselves, so a lost
// notification only loses a feed entry.
type Notification struct {
	ID        uint             `gorm:"primaryKey"`
	UserID    uint             `gorm:"not null;index"`
	Type      NotificationType `gorm:"type:varchar(40);not null"`
	Title     string           `gorm:"size:255;not null"`
	Message   string           `gorm:"not null"`
	RelatedID uint             `gorm:"index"`
	IsRead    bool             `gorm:"not null;default:false"`
	CreatedAt time.Time
}
