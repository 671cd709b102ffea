package service

import (
	"context"
	"errors"
	"time"

	"tunelink/backend/internal/apperr"
	"tunelink/backend/internal/models"
	"tunelink/backend/internal/repository"
)

// Respond actions.
const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

// FriendshipService enacts the legal transitions on friend-request edges:
// send, accept/reject, cancel, unfriend.
type FriendshipService struct {
	Requests  repository.FriendRequestStore
	Directory repository.UserDirectory
	Events    EventPublisher
	Now       func() time.Time
}

func (s *FriendshipService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *FriendshipService) publish(ctx context.Context, ev RelationEvent) {
	if s.Events != nil {
		s.Events.Publish(ctx, ev)
	}
}

// SendRequest creates a pending edge from sender to receiver.
//
// A pending edge between the pair (either direction) conflicts as a
// duplicate; an accepted edge conflicts as already-friends; a rejected edge
// is stale and gets replaced by the fresh request. The pre-check handles the
// common cases with precise reasons, but the store's pair constraint is the
// authority: when two opposite-direction sends race past the check, the
// loser's insert fails and is reported as a duplicate.
func (s *FriendshipService) SendRequest(ctx context.Context, senderID, receiverID uint) (*models.FriendRequest, error) {
	if senderID == 0 || receiverID == 0 {
		return nil, apperr.Validation("missing user id")
	}
	if senderID == receiverID {
		return nil, apperr.Validation("cannot send a friend request to yourself")
	}
	if _, err := s.Directory.Lookup(ctx, receiverID); err != nil {
		return nil, err
	}

	latest, err := s.Requests.GetLatestByPair(ctx, senderID, receiverID)
	switch {
	case err == nil:
		switch latest.Status {
		case models.StatusPending:
			return nil, apperr.Conflict(apperr.ConflictDuplicateRequest)
		case models.StatusAccepted:
			return nil, apperr.Conflict(apperr.ConflictAlreadyFriends)
		case models.StatusRejected:
			if err := s.Requests.DeleteRequest(ctx, latest.ID); err != nil {
				return nil, err
			}
		}
	case !errors.Is(err, apperr.ErrNotFound):
		return nil, err
	}

	now := s.now()
	req := &models.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Requests.CreateRequest(ctx, req); err != nil {
		if errors.Is(err, apperr.ErrDuplicatePair) {
			return nil, apperr.Conflict(apperr.ConflictDuplicateRequest)
		}
		return nil, err
	}

	s.publish(ctx, RelationEvent{
		Type:        models.NotificationFriendRequest,
		ActorID:     senderID,
		RecipientID: receiverID,
		RelatedID:   req.ID,
	})
	return req, nil
}

// Respond accepts or rejects a pending request. Only the receiver may
// respond; a missing or already-answered request reads as not found.
func (s *FriendshipService) Respond(ctx context.Context, requestID, actorID uint, action string) (*models.FriendRequest, error) {
	if action != ActionAccept && action != ActionReject {
		return nil, apperr.Validation("action must be %q or %q", ActionAccept, ActionReject)
	}

	req, err := s.Requests.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.StatusPending {
		return nil, apperr.ErrNotFound
	}
	if req.ReceiverID != actorID {
		return nil, apperr.ErrUnauthorized
	}

	accepted := action == ActionAccept
	if accepted {
		req.Status = models.StatusAccepted
	} else {
		req.Status = models.StatusRejected
	}
	req.UpdatedAt = s.now()
	if err := s.Requests.UpdateRequest(ctx, req); err != nil {
		return nil, err
	}

	s.publish(ctx, RelationEvent{
		Type:        models.NotificationFriendRequestResponse,
		ActorID:     actorID,
		RecipientID: req.SenderID,
		RelatedID:   req.ID,
		Accepted:    accepted,
	})
	return req, nil
}

// Cancel deletes a pending request. Only the sender may cancel, and only
// while the request is still pending. No notification is produced.
func (s *FriendshipService) Cancel(ctx context.Context, requestID, actorID uint) error {
	req, err := s.Requests.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req.SenderID != actorID {
		return apperr.ErrUnauthorized
	}
	if req.Status != models.StatusPending {
		return apperr.Validation("request is no longer pending")
	}
	return s.Requests.DeleteRequest(ctx, requestID)
}

// Unfriend dissolves an accepted edge by marking it rejected. The soft
// removal keeps the pair's history in place so a later SendRequest follows
// the replace-stale-edge path. No notification is produced.
func (s *FriendshipService) Unfriend(ctx context.Context, userID, otherID uint) error {
	if userID == otherID {
		return apperr.Validation("cannot unfriend yourself")
	}

	req, err := s.Requests.GetActiveByPair(ctx, userID, otherID)
	if err != nil {
		return err
	}
	if req.Status != models.StatusAccepted {
		return apperr.ErrNotFound
	}

	req.Status = models.StatusRejected
	req.UpdatedAt = s.now()
	return s.Requests.UpdateRequest(ctx, req)
}
