package service

import (
	"context"
	"errors"
	"time"

	"tunelink/backend/internal/apperr"
	"tunelink/backend/internal/models"
	"tunelink/backend/internal/repository"
)

// FollowService is the idempotent toggle relation for creator follows.
type FollowService struct {
	Follows   repository.FollowStore
	Directory repository.UserDirectory
	Events    EventPublisher
	Now       func() time.Time
}

// Follow creates a follow edge toward a creator. Only creator accounts can
// be followed; following anyone else reads as not found. A duplicate edge
// conflicts.
func (s *FollowService) Follow(ctx context.Context, followerID, followedID uint) error {
	if followerID == 0 || followedID == 0 {
		return apperr.Validation("missing user id")
	}
	if followerID == followedID {
		return apperr.Validation("cannot follow yourself")
	}

	target, err := s.Directory.Lookup(ctx, followedID)
	if err != nil {
		return err
	}
	if target.Role != models.RoleCreator {
		return apperr.ErrNotFound
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	follow := &models.UserFollow{
		FollowerID: followerID,
		FollowedID: followedID,
		CreatedAt:  now,
	}
	if err := s.Follows.CreateFollow(ctx, follow); err != nil {
		if errors.Is(err, apperr.ErrDuplicatePair) {
			return apperr.Conflict(apperr.ConflictAlreadyFollowing)
		}
		return err
	}

	if s.Events != nil {
		s.Events.Publish(ctx, RelationEvent{
			Type:        models.NotificationFollow,
			ActorID:     followerID,
			RecipientID: followedID,
			RelatedID:   follow.ID,
		})
	}
	return nil
}

// Unfollow removes the follow edge. Removing an edge that does not exist
// succeeds: the delete is naturally idempotent and two racing unfollows
// should both come back clean.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followedID uint) error {
	if followerID == followedID {
		return apperr.Validation("cannot unfollow yourself")
	}
	return s.Follows.DeleteFollow(ctx, followerID, followedID)
}

// IsFollowing reports whether the follow edge exists.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	return s.Follows.FollowExists(ctx, followerID, followedID)
}

// CountFollowers returns the number of users following userID.
func (s *FollowService) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return s.Follows.CountFollowers(ctx, userID)
}
