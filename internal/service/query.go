package service

import (
	"context"
	"errors"
	"time"

	"tunelink/backend/internal/apperr"
	"tunelink/backend/internal/models"
	"tunelink/backend/internal/repository"
)

// RelationStatus is the pairwise status seen from a viewer.
type RelationStatus string

const (
	RelationSelf            RelationStatus = "self"
	RelationNone            RelationStatus = "none"
	RelationPendingSent     RelationStatus = "pending_sent"
	RelationPendingReceived RelationStatus = "pending_received"
	RelationFriends         RelationStatus = "friends"
)

// FriendRequestView is a received request annotated with its sender.
type FriendRequestView struct {
	ID        uint                       `json:"id"`
	Status    models.FriendRequestStatus `json:"status"`
	Sender    models.UserSummary         `json:"sender"`
	CreatedAt time.Time                  `json:"created_at"`
	UpdatedAt time.Time                  `json:"updated_at"`
}

// QueryService derives read views from the edges. There is no materialized
// friendship table and the notification feed is never consulted: everything
// here comes straight from friend-request and follow rows.
type QueryService struct {
	Requests repository.FriendRequestStore
}

// Status maps the most recently updated edge between viewer and target to a
// pairwise status. Rejected and absent edges both read as none.
func (s *QueryService) Status(ctx context.Context, viewerID, targetID uint) (RelationStatus, error) {
	if viewerID == targetID {
		return RelationSelf, nil
	}

	req, err := s.Requests.GetLatestByPair(ctx, viewerID, targetID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return RelationNone, nil
		}
		return "", err
	}

	switch req.Status {
	case models.StatusAccepted:
		return RelationFriends, nil
	case models.StatusPending:
		if req.SenderID == viewerID {
			return RelationPendingSent, nil
		}
		return RelationPendingReceived, nil
	default:
		return RelationNone, nil
	}
}

// ListFriends returns the counterpart of every accepted edge touching
// userID.
func (s *QueryService) ListFriends(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	edges, err := s.Requests.ListAccepted(ctx, userID)
	if err != nil {
		return nil, err
	}

	friends := make([]models.UserSummary, 0, len(edges))
	for _, edge := range edges {
		counterpart := edge.Sender
		if edge.SenderID == userID {
			counterpart = edge.Receiver
		}
		if counterpart.ID == 0 {
			continue
		}
		friends = append(friends, counterpart.Summary())
	}
	return friends, nil
}

// ListPendingReceived returns userID's unanswered requests, newest first.
func (s *QueryService) ListPendingReceived(ctx context.Context, userID uint) ([]FriendRequestView, error) {
	return s.listReceived(ctx, userID, true)
}

// ListAllReceived returns every request ever addressed to userID, any
// status, newest first.
func (s *QueryService) ListAllReceived(ctx context.Context, userID uint) ([]FriendRequestView, error) {
	return s.listReceived(ctx, userID, false)
}

func (s *QueryService) listReceived(ctx context.Context, userID uint, pendingOnly bool) ([]FriendRequestView, error) {
	edges, err := s.Requests.ListReceived(ctx, userID, pendingOnly)
	if err != nil {
		return nil, err
	}

	views := make([]FriendRequestView, 0, len(edges))
	for _, edge := range edges {
		views = append(views, FriendRequestView{
			ID:        edge.ID,
			Status:    edge.Status,
			Sender:    edge.Sender.Summary(),
			CreatedAt: edge.CreatedAt,
			UpdatedAt: edge.UpdatedAt,
		})
	}
	return views, nil
}
