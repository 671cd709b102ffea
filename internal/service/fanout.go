package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"tunelink/backend/internal/models"
	"tunelink/backend/internal/repository"
)

// NotificationFanout turns relation events into persisted notifications
// addressed to the affected counterpart.
//
// The contract is at-most-once and best-effort: a failed directory lookup
// degrades the message, a failed write is logged and swallowed, and neither
// ever reaches the caller. Relationship state is always derived from the
// edges themselves, so a lost notification only loses a feed entry.
type NotificationFanout struct {
	Notifications repository.NotificationStore
	Directory     repository.UserDirectory
	Logger        *zap.Logger
	Now           func() time.Time
}

// Publish implements EventPublisher.
func (f *NotificationFanout) Publish(ctx context.Context, ev RelationEvent) {
	logger := f.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	actorName := "Someone"
	if f.Directory != nil {
		summary, err := f.Directory.Lookup(ctx, ev.ActorID)
		if err != nil {
			logger.Warn("fanout: actor lookup failed",
				zap.Uint("actor_id", ev.ActorID),
				zap.Error(err))
		} else {
			actorName = summary.Username
		}
	}

	title, message := f.render(ev, actorName)
	if title == "" {
		logger.Warn("fanout: unknown event type", zap.String("type", string(ev.Type)))
		return
	}

	now := time.Now()
	if f.Now != nil {
		now = f.Now()
	}

	n := &models.Notification{
		UserID:    ev.RecipientID,
		Type:      ev.Type,
		Title:     title,
		Message:   message,
		RelatedID: ev.RelatedID,
		CreatedAt: now,
	}
	if err := f.Notifications.CreateNotification(ctx, n); err != nil {
		logger.Warn("fanout: notification write failed",
			zap.Uint("recipient_id", ev.RecipientID),
			zap.String("type", string(ev.Type)),
			zap.Error(err))
	}
}

func (f *NotificationFanout) render(ev RelationEvent, actorName string) (title, message string) {
	switch ev.Type {
	case models.NotificationFriendRequest:
		return "New friend request", fmt.Sprintf("%s sent you a friend request", actorName)
	case models.NotificationFriendRequestResponse:
		if ev.Accepted {
			return "Friend request accepted", fmt.Sprintf("%s accepted your friend request", actorName)
		}
		return "Friend request declined", fmt.Sprintf("%s declined your friend request", actorName)
	case models.NotificationFollow:
		return "New follower", fmt.Sprintf("%s started following you", actorName)
	default:
		return "", ""
	}
}
