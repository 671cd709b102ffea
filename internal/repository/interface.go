// Package repository holds the persistence contracts for the relationship
// graph and their Postgres and in-memory implementations. Services depend on
// the interfaces only, so the state machine can be exercised against the
// memory store.
package repository

import (
	"context"

	"tunelink/backend/internal/models"
)

// FriendRequestStore persists friend-request edges.
//
// Create must fail with apperr.ErrDuplicatePair when a non-rejected edge for
// the same unordered pair already exists, regardless of which side sent it.
// That constraint lives in the store (partial unique index over the canonical
// pair key) because it is the only way to make concurrent opposite-direction
// sends resolve to exactly one winner.
type FriendRequestStore interface {
	CreateRequest(ctx context.Context, req *models.FriendRequest) error
	GetRequest(ctx context.Context, id uint) (*models.FriendRequest, error)
	// GetActiveByPair returns the single pending or accepted edge between the
	// two users in either direction, or apperr.ErrNotFound.
	GetActiveByPair(ctx context.Context, a, b uint) (*models.FriendRequest, error)
	// GetLatestByPair returns the most recently updated edge of any status
	// between the two users, or apperr.ErrNotFound.
	GetLatestByPair(ctx context.Context, a, b uint) (*models.FriendRequest, error)
	UpdateRequest(ctx context.Context, req *models.FriendRequest) error
	DeleteRequest(ctx context.Context, id uint) error
	// ListAccepted returns accepted edges where userID is either side, with
	// both user rows attached.
	ListAccepted(ctx context.Context, userID uint) ([]models.FriendRequest, error)
	// ListReceived returns edges addressed to userID, newest first, with the
	// sender row attached. pendingOnly narrows to pending edges.
	ListReceived(ctx context.Context, userID uint, pendingOnly bool) ([]models.FriendRequest, error)
	CountFriends(ctx context.Context, userID uint) (int64, error)
}

// FollowStore persists follow edges.
type FollowStore interface {
	// CreateFollow fails with apperr.ErrDuplicatePair if the edge already
	// exists.
	CreateFollow(ctx context.Context, follow *models.UserFollow) error
	// DeleteFollow removes the edge if present; deleting a missing edge is
	// not an error.
	DeleteFollow(ctx context.Context, followerID, followedID uint) error
	FollowExists(ctx context.Context, followerID, followedID uint) (bool, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
}

// NotificationStore persists the informational feed.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	// ListNotifications returns userID's notifications newest first plus the
	// total count.
	ListNotifications(ctx context.Context, userID uint, offset, limit int) ([]models.Notification, int64, error)
	GetNotification(ctx context.Context, id uint) (*models.Notification, error)
	MarkNotificationRead(ctx context.Context, id uint) error
}

// UserStore persists user accounts (identity glue for the HTTP surface).
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	// GetUserByLogin matches username or email.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}

// UserDirectory is the read-side lookup the relationship services consume:
// existence checks, role enforcement for follows, and result enrichment.
type UserDirectory interface {
	Lookup(ctx context.Context, id uint) (models.UserSummary, error)
}
