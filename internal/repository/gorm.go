package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tunelink/backend/internal/apperr"
	"tunelink/backend/internal/models"
)

// GormRepository implements every store contract on top of a single GORM
// connection. Requires TranslateError so unique-index violations surface as
// gorm.ErrDuplicatedKey.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository wraps an open GORM handle.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.ErrDuplicatePair
	default:
		return fmt.Errorf("storage: %w", err)
	}
}

// --- FriendRequestStore ---

func (r *GormRepository) CreateRequest(ctx context.Context, req *models.FriendRequest) error {
	return translate(r.db.WithContext(ctx).Create(req).Error)
}

func (r *GormRepository) GetRequest(ctx context.Context, id uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

func (r *GormRepository) GetActiveByPair(ctx context.Context, a, b uint) (*models.FriendRequest, error) {
	lo, hi := models.PairKey(a, b)
	var req models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("pair_min_id = ? AND pair_max_id = ? AND status <> ?", lo, hi, models.StatusRejected).
		First(&req).Error
	if err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

func (r *GormRepository) GetLatestByPair(ctx context.Context, a, b uint) (*models.FriendRequest, error) {
	lo, hi := models.PairKey(a, b)
	var req models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("pair_min_id = ? AND pair_max_id = ?", lo, hi).
		Order("updated_at DESC").
		First(&req).Error
	if err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

func (r *GormRepository) UpdateRequest(ctx context.Context, req *models.FriendRequest) error {
	return translate(r.db.WithContext(ctx).Save(req).Error)
}

func (r *GormRepository) DeleteRequest(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Delete(&models.FriendRequest{}, id).Error)
}

func (r *GormRepository) ListAccepted(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? OR receiver_id = ?) AND status = ?", userID, userID, models.StatusAccepted).
		Preload("Sender").
		Preload("Receiver").
		Find(&reqs).Error
	if err != nil {
		return nil, translate(err)
	}
	return reqs, nil
}

func (r *GormRepository) ListReceived(ctx context.Context, userID uint, pendingOnly bool) ([]models.FriendRequest, error) {
	query := r.db.WithContext(ctx).Where("receiver_id = ?", userID)
	if pendingOnly {
		query = query.Where("status = ?", models.StatusPending)
	}
	var reqs []models.FriendRequest
	if err := query.Order("created_at DESC").Preload("Sender").Find(&reqs).Error; err != nil {
		return nil, translate(err)
	}
	return reqs, nil
}

func (r *GormRepository) CountFriends(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.FriendRequest{}).
		Where("(sender_id = ? OR receiver_id = ?) AND status = ?", userID, userID, models.StatusAccepted).
		Count(&count).Error
	return count, translate(err)
}

// --- FollowStore ---

func (r *GormRepository) CreateFollow(ctx context.Context, follow *models.UserFollow) error {
	return translate(r.db.WithContext(ctx).Create(follow).Error)
}

func (r *GormRepository) DeleteFollow(ctx context.Context, followerID, followedID uint) error {
	return translate(r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.UserFollow{}).Error)
}

func (r *GormRepository) FollowExists(ctx context.Context, followerID, followedID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserFollow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, translate(err)
}

func (r *GormRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserFollow{}).
		Where("followed_id = ?", userID).
		Count(&count).Error
	return count, translate(err)
}

func (r *GormRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserFollow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	return count, translate(err)
}

// --- NotificationStore ---

func (r *GormRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	return translate(r.db.WithContext(ctx).Create(n).Error)
}

func (r *GormRepository) ListNotifications(ctx context.Context, userID uint, offset, limit int) ([]models.Notification, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var list []models.Notification
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return list, total, nil
}

func (r *GormRepository) GetNotification(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, translate(err)
	}
	return &n, nil
}

func (r *GormRepository) MarkNotificationRead(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error)
}

// --- UserStore / UserDirectory ---

func (r *GormRepository) CreateUser(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *GormRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *GormRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", login, login).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *GormRepository) Lookup(ctx context.Context, id uint) (models.UserSummary, error) {
	u, err := r.GetUserByID(ctx, id)
	if err != nil {
		return models.UserSummary{}, err
	}
	return u.Summary(), nil
}
