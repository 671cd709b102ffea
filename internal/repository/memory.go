package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"tunelink/backend/internal/apperr"
	"tunelink/backend/internal/models"
)

// MemoryRepository is an in-memory implementation of every store contract.
// It backs the service tests and local runs without Postgres, and enforces
// the same active-pair and follow-pair uniqueness the partial indexes do,
// under a single mutex so concurrent sends race exactly like they would
// against the database constraint.
type MemoryRepository struct {
	mu sync.Mutex

	users         map[uint]*models.User
	requests      map[uint]*models.FriendRequest
	follows       map[uint]*models.UserFollow
	notifications map[uint]*models.Notification

	nextUserID         uint
	nextRequestID      uint
	nextFollowID       uint
	nextNotificationID uint
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:         make(map[uint]*models.User),
		requests:      make(map[uint]*models.FriendRequest),
		follows:       make(map[uint]*models.UserFollow),
		notifications: make(map[uint]*models.Notification),
	}
}

// --- FriendRequestStore ---

func (m *MemoryRepository) CreateRequest(ctx context.Context, req *models.FriendRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lo, hi := models.PairKey(req.SenderID, req.ReceiverID)
	for _, existing := range m.requests {
		if existing.PairMinID == lo && existing.PairMaxID == hi && existing.IsActive() {
			return apperr.ErrDuplicatePair
		}
	}

	m.nextRequestID++
	req.ID = m.nextRequestID
	req.PairMinID, req.PairMaxID = lo, hi
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	if req.UpdatedAt.IsZero() {
		req.UpdatedAt = req.CreatedAt
	}
	cp := *req
	m.requests[req.ID] = &cp
	return nil
}

func (m *MemoryRepository) GetRequest(ctx context.Context, id uint) (*models.FriendRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	req, ok := m.requests[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *req
	return &cp, nil
}

func (m *MemoryRepository) GetActiveByPair(ctx context.Context, a, b uint) (*models.FriendRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lo, hi := models.PairKey(a, b)
	for _, req := range m.requests {
		if req.PairMinID == lo && req.PairMaxID == hi && req.IsActive() {
			cp := *req
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (m *MemoryRepository) GetLatestByPair(ctx context.Context, a, b uint) (*models.FriendRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lo, hi := models.PairKey(a, b)
	var latest *models.FriendRequest
	for _, req := range m.requests {
		if req.PairMinID != lo || req.PairMaxID != hi {
			continue
		}
		if latest == nil || req.UpdatedAt.After(latest.UpdatedAt) {
			latest = req
		}
	}
	if latest == nil {
		return nil, apperr.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *MemoryRepository) UpdateRequest(ctx context.Context, req *models.FriendRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.requests[req.ID]; !ok {
		return apperr.ErrNotFound
	}
	req.PairMinID, req.PairMaxID = models.PairKey(req.SenderID, req.ReceiverID)
	cp := *req
	m.requests[req.ID] = &cp
	return nil
}

func (m *MemoryRepository) DeleteRequest(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.requests, id)
	return nil
}

func (m *MemoryRepository) ListAccepted(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.FriendRequest
	for _, req := range m.requests {
		if req.Status != models.StatusAccepted {
			continue
		}
		if req.SenderID != userID && req.ReceiverID != userID {
			continue
		}
		cp := *req
		m.attachUsers(&cp)
		out = append(out, cp)
	}
	return out, nil
}

func (m *MemoryRepository) ListReceived(ctx context.Context, userID uint, pendingOnly bool) ([]models.FriendRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.FriendRequest
	for _, req := range m.requests {
		if req.ReceiverID != userID {
			continue
		}
		if pendingOnly && req.Status != models.StatusPending {
			continue
		}
		cp := *req
		m.attachUsers(&cp)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryRepository) CountFriends(ctx context.Context, userID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, req := range m.requests {
		if req.Status == models.StatusAccepted && (req.SenderID == userID || req.ReceiverID == userID) {
			count++
		}
	}
	return count, nil
}

func (m *MemoryRepository) attachUsers(req *models.FriendRequest) {
	if u, ok := m.users[req.SenderID]; ok {
		req.Sender = *u
	}
	if u, ok := m.users[req.ReceiverID]; ok {
		req.Receiver = *u
	}
}

// --- FollowStore ---

func (m *MemoryRepository) CreateFollow(ctx context.Context, follow *models.UserFollow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.follows {
		if existing.FollowerID == follow.FollowerID && existing.FollowedID == follow.FollowedID {
			return apperr.ErrDuplicatePair
		}
	}

	m.nextFollowID++
	follow.ID = m.nextFollowID
	if follow.CreatedAt.IsZero() {
		follow.CreatedAt = time.Now()
	}
	cp := *follow
	m.follows[follow.ID] = &cp
	return nil
}

func (m *MemoryRepository) DeleteFollow(ctx context.Context, followerID, followedID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, existing := range m.follows {
		if existing.FollowerID == followerID && existing.FollowedID == followedID {
			delete(m.follows, id)
			return nil
		}
	}
	return nil
}

func (m *MemoryRepository) FollowExists(ctx context.Context, followerID, followedID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.follows {
		if existing.FollowerID == followerID && existing.FollowedID == followedID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, existing := range m.follows {
		if existing.FollowedID == userID {
			count++
		}
	}
	return count, nil
}

func (m *MemoryRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, existing := range m.follows {
		if existing.FollowerID == userID {
			count++
		}
	}
	return count, nil
}

// --- NotificationStore ---

func (m *MemoryRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextNotificationID++
	n.ID = m.nextNotificationID
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	cp := *n
	m.notifications[n.ID] = &cp
	return nil
}

func (m *MemoryRepository) ListNotifications(ctx context.Context, userID uint, offset, limit int) ([]models.Notification, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []models.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			all = append(all, *n)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *MemoryRepository) GetNotification(ctx context.Context, id uint) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.notifications[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (m *MemoryRepository) MarkNotificationRead(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.notifications[id]
	if !ok {
		return apperr.ErrNotFound
	}
	n.IsRead = true
	return nil
}

// --- UserStore / UserDirectory ---

func (m *MemoryRepository) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return apperr.ErrDuplicatePair
		}
	}

	m.nextUserID++
	u.ID = m.nextUserID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *MemoryRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == login || u.Email == login {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (m *MemoryRepository) Lookup(ctx context.Context, id uint) (models.UserSummary, error) {
	u, err := m.GetUserByID(ctx, id)
	if err != nil {
		return models.UserSummary{}, err
	}
	return u.Summary(), nil
}
