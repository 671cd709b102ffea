package service

import (
	"context"

	"tunelink/backend/internal/apperr"
	"tunelink/backend/internal/models"
	"tunelink/backend/internal/repository"
)

// NotificationService is the pull side of the feed: callers poll their
// notifications and mark them read. Nothing here is ever deleted.
type NotificationService struct {
	Notifications repository.NotificationStore
}

// List returns userID's notifications newest first along with the total.
func (s *NotificationService) List(ctx context.Context, userID uint, page, limit int) ([]models.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit
	return s.Notifications.ListNotifications(ctx, userID, offset, limit)
}

// MarkRead flags one of userID's notifications as read. Touching someone
// else's notification is an authorization error, not a not-found.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	n, err := s.Notifications.GetNotification(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return apperr.ErrUnauthorized
	}
	return s.Notifications.MarkNotificationRead(ctx, notificationID)
}
