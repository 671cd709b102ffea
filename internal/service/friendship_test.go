package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tunelink/backend/internal/apperr"
	"tunelink/backend/internal/models"
	"tunelink/backend/internal/repository"
)

// capturePublisher records published events.
type capturePublisher struct {
	mu     sync.Mutex
	events []RelationEvent
}

func (p *capturePublisher) Publish(_ context.Context, ev RelationEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *capturePublisher) all() []RelationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]RelationEvent(nil), p.events...)
}

// failingNotificationStore simulates a notification-store outage.
type failingNotificationStore struct{}

func (failingNotificationStore) CreateNotification(context.Context, *models.Notification) error {
	return errors.New("notification store unavailable")
}

func (failingNotificationStore) ListNotifications(context.Context, uint, int, int) ([]models.Notification, int64, error) {
	return nil, 0, errors.New("notification store unavailable")
}

func (failingNotificationStore) GetNotification(context.Context, uint) (*models.Notification, error) {
	return nil, errors.New("notification store unavailable")
}

func (failingNotificationStore) MarkNotificationRead(context.Context, uint) error {
	return errors.New("notification store unavailable")
}

func seedUser(t *testing.T, repo *repository.MemoryRepository, username, role string) uint {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, repo.CreateUser(context.Background(), u))
	return u.ID
}

// testClock hands out strictly increasing timestamps.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func newFriendshipFixture(t *testing.T) (*FriendshipService, *repository.MemoryRepository, *capturePublisher) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	events := &capturePublisher{}
	svc := &FriendshipService{
		Requests:  repo,
		Directory: repo,
		Events:    events,
		Now:       newTestClock().Now,
	}
	return svc, repo, events
}

func TestSendRequestToSelf(t *testing.T) {
	svc, repo, _ := newFriendshipFixture(t)
	alice := seedUser(t, repo, "alice", models.RoleUser)

	_, err := svc.SendRequest(context.Background(), alice, alice)
	assert.True(t, apperr.IsValidation(err), "expected validation error, got %v", err)
}

func TestSendRequestUnknownReceiver(t *testing.T) {
	svc, repo, _ := newFriendshipFixture(t)
	alice := seedUser(t, repo, "alice", models.RoleUser)

	_, err := svc.SendRequest(context.Background(), alice, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSendRequestCreatesPendingAndNotifies(t *testing.T) {
	svc, repo, events := newFriendshipFixture(t)
	alice := seedUser(t, repo, "alice", models.RoleUser)
	bob := seedUser(t, repo, "bob", models.RoleUser)

	req, err := svc.SendRequest(context.Background(), alice, bob)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, req.Status)
	assert.Equal(t, alice, req.SenderID)
	assert.Equal(t, bob, req.ReceiverID)

	published := events.all()
	require.Len(t, published, 1)
	assert.Equal(t, models.NotificationFriendRequest, published[0].Type)
	assert.Equal(t, bob, published[0].RecipientID)
	assert.Equal(t, req.ID, published[0].RelatedID)
}

func TestSendRequestDuplicateEitherDirection(t *testing.T) {
	svc, repo, _ := newFriendshipFixture(t)
	alice := seedUser(t, repo, "alice", models.RoleUser)
	bob := seedUser(t, repo, "bob", models.RoleUser)

	_, err := svc.SendRequest(context.Background(), alice, bob)
	require.NoError(t, err)

	// Same direction
	_, err = svc.SendRequest(context.Background(), alice, bob)
	reason, ok := apperr.IsConflict(err)
	require.True(t, ok, "expected conflict, got %v", err)
	assert.Equal(t, apperr.ConflictDuplicateRequest, reason)

	// Opposite direction
	_, err = svc.SendRequest(context.Background(), bob, alice)
	reason, ok = apperr.IsConflict(err)
	require.True(t, ok, "expected conflict, got %v", err)
	assert.Equal(t, apperr.ConflictDuplicateRequest, reason)
}

func TestSendRequestAlreadyFriends(t *testing.T) {
	svc, repo, _ := newFriendshipFixture(t)
	alice := seedUser(t, repo, "alice", models.RoleUser)
	bob := seedUser(t, repo, "bob", models.RoleUser)

	req, err := svc.SendRequest(context.Background(), alice, bob)
	require.NoError(t, err)
	_, err = svc.Respond(context.Background(), req.ID, bob, ActionAccept)
	require.NoError(t, err)

	_, err = svc.SendRequest(context.Background(), bob, alice)
	reason, ok := apperr.IsConflict(err)
	require.True(t, ok, "expected conflict, got %v", err)
	assert.Equal(t, apperr.ConflictAlreadyFriends, reason)
}

func TestSendRequestReplacesRejectedEdge(t *testing.T) {
	svc, repo, _ := newFriendshipFixture(t)
	alice := seedUser(t, repo, "alice", models.RoleUser)
	bob := seedUser(t, repo, "bob", models.RoleUser)

	first, err := svc.SendRequest(context.Background(), alice, bob)
	require.NoError(t, err)
	_, err = svc.Respond(context.Background(), first.ID, bob, ActionReject)
	require.NoError(t, err)

	second, err := svc.SendRequest(context.Background(), alice, bob)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, second.Status)
	assert.NotEqual(t, first.ID, second.ID)

	// The stale rejected edge is gone.
	_, err = repo.GetRequest(context.Background(), first.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestConcurrentOppositeSendsOneWinner(t *testing.T) {
	svc, repo, _ := newFriendshipFixture(t)
	alice := seedUser(t, repo, "alice", models.RoleUser)
	bob := seedUser(t, repo, "bob", models.RoleUser)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = svc.SendRequest(context.Background(), alice, bob)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = svc.SendRequest(context.Background(), bob, alice)
	}()
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		reason, ok := apperr.IsConflict(err)
		require.True(t, ok, "unexpected error: %v", err)
		assert.Equal(t, apperr.ConflictDuplicateRequest, reason)
		conflicted++
	}
	assert.Equal(t, 1, succeeded, "exactly one send must win")
	assert.Equal(t, 1, conflicted, "exactly one send must lose")

	// Exactly one pending edge remains between the pair.
	req, err := repo.GetActiveByPair(context.Background(), alice, bob)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, req.Status)
}

func TestRespondValidation(t *testing.T) {
	svc, repo, _ := newFriendshipFixture(t)
	alice := seedUser(t, repo, "alice", models.RoleUser)
	bob := seedUser(t, repo, "bob", models.RoleUser)

	req, err := svc.SendRequest(context.Background(), alice, bob)
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), req.ID, bob, "maybe")
	assert.True(t, apperr.IsValidation(err), "expected validation error, got %v", err)

	_, err = svc.Respond(context.Background(), 999, bob, ActionAccept)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// Only the receiver may respond.
	_, err = svc.Respond(context.Background(), req.ID, alice, ActionAccept)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestRespondAcceptNotifiesSender(t *testing.T) {
	svc, repo, events := newFriendshipFixture(t)
	alice := seedUser(t, repo, "alice", models.RoleUser)
	bob := seedUser(t, repo, "bob", models.RoleUser)

	req, err := svc.SendRequest(context.Background(), alice, bob)
	require.NoError(t, err)

	updated, err := svc.Respond(context.Background(), req.ID, bob, ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, updated.Status)
	assert.True(t, updated.UpdatedAt.After(req.CreatedAt))

	published := events.all()
	require.Len(t, published, 2)
	response := published[1]
	assert.Equal(t, models.NotificationFriendRequestResponse, response.Type)
	assert.Equal(t, alice, response.RecipientID)
	assert.True(t, response.Accepted)
}

func TestRespondTwice(t *testing.T) {
	svc, repo, _ := newFriendshipFixture(t)
	alice := seedUser(t, repo, "alice", models.RoleUser)
	bob := seedUser(t, repo, "bob", models.RoleUser)

	req, err := svc.SendRequest(context.Background(), alice, bob)
	require.NoError(t, err)
	_, err = svc.Respond(context.Background(), req.ID, bob, ActionAccept)
	require.NoError(t, err)

	// The pending edge the second respond addresses no longer exists.
	_, err = svc.Respond(context.Background(), req.ID, bob, ActionReject)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCancelOnlyBySenderWhilePending(t *testing.T) {
	svc, repo, _ := newFriendshipFixture(t)
	alice := seedUser(t, repo, "alice", models.RoleUser)
	bob := seedUser(t, repo, "bob", models.RoleUser)

	req, err := svc.SendRequest(context.Background(), alice, bob)
	require.NoError(t, err)

	// The receiver cannot cancel.
	err = svc.Cancel(context.Background(), req.ID, bob)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	// The sender can, and the edge is gone.
	require.NoError(t, svc.Cancel(context.Background(), req.ID, alice))
	_, err = repo.GetLatestByPair(context.Background(), alice, bob)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCancelNonPending(t *testing.T) {
	svc, repo, _ := newFriendshipFixture(t)
	alice := seedUser(t, repo, "alice", models.RoleUser)
	bob := seedUser(t, repo, "bob", models.RoleUser)

	req, err := svc.SendRequest(context.Background(), alice, bob)
	require.NoError(t, err)
	_, err = svc.Respond(context.Background(), req.ID, bob, ActionAccept)
	require.NoError(t, err)

	err = svc.Cancel(context.Background(), req.ID, alice)
	assert.True(t, apperr.IsValidation(err), "expected validation error, got %v", err)
}

func TestUnfriendAllowsResend(t *testing.T) {
	svc, repo, _ := newFriendshipFixture(t)
	alice := seedUser(t, repo, "alice", models.RoleUser)
	bob := seedUser(t, repo, "bob", models.RoleUser)

	req, err := svc.SendRequest(context.Background(), alice, bob)
	require.NoError(t, err)
	_, err = svc.Respond(context.Background(), req.ID, bob, ActionAccept)
	require.NoError(t, err)

	require.NoError(t, svc.Unfriend(context.Background(), alice, bob))

	latest, err := repo.GetLatestByPair(context.Background(), alice, bob)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, latest.Status)

	// The pair is free to reconnect.
	_, err = svc.SendRequest(context.Background(), bob, alice)
	require.NoError(t, err)
}

func TestUnfriendWithoutFriendship(t *testing.T) {
	svc, repo, _ := newFriendshipFixture(t)
	alice := seedUser(t, repo, "alice", models.RoleUser)
	bob := seedUser(t, repo, "bob", models.RoleUser)

	err := svc.Unfriend(context.Background(), alice, bob)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// Pending is not enough either.
	_, err = svc.SendRequest(context.Background(), alice, bob)
	require.NoError(t, err)
	err = svc.Unfriend(context.Background(), alice, bob)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAcceptSurvivesNotificationOutage(t *testing.T) {
	repo := repository.NewMemoryRepository()
	alice := seedUser(t, repo, "alice", models.RoleUser)
	bob := seedUser(t, repo, "bob", models.RoleUser)

	fanout := &NotificationFanout{
		Notifications: failingNotificationStore{},
		Directory:     repo,
		Logger:        zap.NewNop(),
	}
	svc := &FriendshipService{
		Requests:  repo,
		Directory: repo,
		Events:    fanout,
	}

	req, err := svc.SendRequest(context.Background(), alice, bob)
	require.NoError(t, err)

	updated, err := svc.Respond(context.Background(), req.ID, bob, ActionAccept)
	require.NoError(t, err, "transition must not depend on notification delivery")
	assert.Equal(t, models.StatusAccepted, updated.Status)

	persisted, err := repo.GetRequest(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, persisted.Status)
}
