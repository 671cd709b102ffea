package models

import (
	"time"

	"gorm.io/gorm"
)

// FriendRequestStatus defines the state of a friend-request edge.
type FriendRequestStatus string

const (
	// StatusPending means the request has been sent but not yet answered.
	StatusPending FriendRequestStatus = "pending"

	// StatusAccepted means the request was accepted; the users are friends.
	StatusAccepted FriendRequestStatus = "accepted"

	// StatusRejected means the request was declined, or an accepted edge was
	// dissolved by an unfriend. A rejected edge does not block a new request
	// between the same pair; a fresh send replaces it.
	StatusRejected FriendRequestStatus = "rejected"
)

// FriendRequest is the single edge connecting two users in the friendship
// graph. PairMinID/PairMaxID hold the two user ids in sorted order; the
// partial unique index over them is what guarantees at most one non-rejected
// edge per unordered pair, whichever side sent first. A plain existence check
// before insert cannot close that race.
type FriendRequest struct {
	ID         uint                `gorm:"primaryKey"`
	SenderID   uint                `gorm:"not null;index"`
	ReceiverID uint                `gorm:"not null;index"`
	PairMinID  uint                `gorm:"not null;uniqueIndex:idx_friend_requests_active_pair,where:status <> 'rejected'"`
	PairMaxID  uint                `gorm:"not null;uniqueIndex:idx_friend_requests_active_pair,where:status <> 'rejected'"`
	Status     FriendRequestStatus `gorm:"type:varchar(20);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Sender   User `gorm:"foreignKey:SenderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Receiver User `gorm:"foreignKey:ReceiverID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// BeforeSave keeps the canonical pair columns in sync with the edge.
func (r *FriendRequest) BeforeSave(tx *gorm.DB) error {
	r.PairMinID, r.PairMaxID = PairKey(r.SenderID, r.ReceiverID)
	return nil
}

// PairKey returns the canonical (sorted) representation of a user pair.
func PairKey(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

// IsActive reports whether the edge counts against pair uniqueness.
func (r *FriendRequest) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusAccepted
}

// OtherUserID returns the counterpart of userID on this edge.
func (r *FriendRequest) OtherUserID(userID uint) uint {
	if r.SenderID == userID {
		return r.ReceiverID
	}
	return r.SenderID
}
