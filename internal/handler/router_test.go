package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tunelink/backend/internal/repository"
	"tunelink/backend/internal/service"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*gin.Engine, *repository.MemoryRepository) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	logger := zap.NewNop()

	fanout := &service.NotificationFanout{
		Notifications: repo,
		Directory:     repo,
		Logger:        logger,
	}
	friendships := &service.FriendshipService{
		Requests:  repo,
		Directory: repo,
		Events:    fanout,
	}
	follows := &service.FollowService{
		Follows:   repo,
		Directory: repo,
		Events:    fanout,
	}
	query := &service.QueryService{Requests: repo}
	notifications := &service.NotificationService{Notifications: repo}

	router := NewRouter(RouterConfig{
		Users: &UserHandler{
			Users:     repo,
			Requests:  repo,
			Follows:   repo,
			Query:     query,
			JWTSecret: testSecret,
			Logger:    logger,
		},
		Relations:     &RelationHandler{Friends: friendships, Query: query, Logger: logger},
		Follows:       &FollowHandler{Follows: follows, Logger: logger},
		Notifications: &NotificationHandler{Notifications: notifications, Logger: logger},
		JWTSecret:     testSecret,
		Logger:        logger,
	})
	return router, repo
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// registerUser creates an account over HTTP and returns its token and id.
func registerUser(t *testing.T, router *gin.Engine, username string, creator bool) (token string, id uint) {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
		"creator":  creator,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token = decode(t, w)["token"].(string)

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	id = uint(decode(t, w)["id"].(float64))
	return token, id
}

func TestAuthRequired(t *testing.T) {
	router, _ := newTestServer(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/friends", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/friends", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFriendshipFlow(t *testing.T) {
	router, _ := newTestServer(t)
	aliceToken, aliceID := registerUser(t, router, "alice", false)
	bobToken, bobID := registerUser(t, router, "bob", false)

	// alice sends a request to bob
	w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/request", bobID), aliceToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	requestID := uint(decode(t, w)["id"].(float64))

	// bob sees it in his pending list
	w = doJSON(t, router, http.MethodGet, "/api/v1/requests/pending", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pending []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "alice", pending[0]["sender"].(map[string]any)["username"])

	// bob accepts
	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/requests/%d/respond", requestID), bobToken, gin.H{"action": "accept"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "accepted", decode(t, w)["status"])

	// both friends lists include the other
	for _, tc := range []struct {
		token    string
		expected string
	}{
		{aliceToken, "bob"},
		{bobToken, "alice"},
	} {
		w = doJSON(t, router, http.MethodGet, "/api/v1/friends", tc.token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var friends []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &friends))
		require.Len(t, friends, 1)
		assert.Equal(t, tc.expected, friends[0]["username"])
	}

	// status reads friends from either side
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/users/%d/status", bobID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "friends", decode(t, w)["status"])

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/users/%d/status", aliceID), bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "friends", decode(t, w)["status"])

	// bob got a friend_request notification; mark it read
	w = doJSON(t, router, http.MethodGet, "/api/v1/notifications", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	feed := decode(t, w)
	items := feed["data"].([]any)
	require.NotEmpty(t, items)
	first := items[0].(map[string]any)
	assert.Equal(t, "friend_request", first["Type"])

	notificationID := uint(first["ID"].(float64))
	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/notifications/%d/read", notificationID), bobToken, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// alice cannot mark bob's notification
	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/notifications/%d/read", notificationID), aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFriendshipConflicts(t *testing.T) {
	router, _ := newTestServer(t)
	aliceToken, aliceID := registerUser(t, router, "alice", false)
	_, bobID := registerUser(t, router, "bob", false)

	// self request
	w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/request", aliceID), aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// duplicate request
	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/request", bobID), aliceToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/request", bobID), aliceToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// unknown receiver
	w = doJSON(t, router, http.MethodPost, "/api/v1/users/999/request", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFollowFlow(t *testing.T) {
	router, _ := newTestServer(t)
	carolToken, carolID := registerUser(t, router, "carol", true)
	daveToken, _ := registerUser(t, router, "dave", false)

	// dave follows carol
	w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/creators/%d/follow", carolID), daveToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// duplicate follow conflicts
	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/creators/%d/follow", carolID), daveToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/creators/%d/followers/count", carolID), daveToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["followers"])

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/creators/%d/following", carolID), daveToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["following"])

	// carol got a follow notification
	w = doJSON(t, router, http.MethodGet, "/api/v1/notifications", carolToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w)["data"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "follow", items[0].(map[string]any)["Type"])

	// unfollow drops the count to zero
	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/creators/%d/unfollow", carolID), daveToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/creators/%d/followers/count", carolID), daveToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["followers"])

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/creators/%d/following", carolID), daveToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["following"])
}

func TestFollowNonCreator(t *testing.T) {
	router, _ := newTestServer(t)
	aliceToken, _ := registerUser(t, router, "alice", false)
	_, bobID := registerUser(t, router, "bob", false)

	w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/creators/%d/follow", bobID), aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
