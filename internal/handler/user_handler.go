package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"tunelink/backend/internal/apperr"
	"tunelink/backend/internal/models"
	"tunelink/backend/internal/repository"
	"tunelink/backend/internal/service"
	"tunelink/backend/pkg/jwt"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Username string `json:"username" binding:"required" example:"testuser"`
	Email    string `json:"email" binding:"required,email" example:"test@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"password123"`
	FullName string `json:"full_name" example:"Test User"`
	Creator  bool   `json:"creator" example:"false"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Login    string `json:"login" binding:"required" example:"testuser"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// PublicUserResponse defines the structure for a user's public profile.
type PublicUserResponse struct {
	ID             uint                   `json:"id" example:"1"`
	Username       string                 `json:"username" example:"testuser"`
	FullName       string                 `json:"full_name" example:"Test User"`
	AvatarURL      string                 `json:"avatar_url"`
	Role           string                 `json:"role" example:"user"`
	FriendsCount   int64                  `json:"friends_count"`
	FollowersCount int64                  `json:"followers_count"`
	FollowingCount int64                  `json:"following_count"`
	Relation       service.RelationStatus `json:"relation,omitempty"`
}

// PrivateUserResponse defines the structure for the authenticated user's own profile.
type PrivateUserResponse struct {
	ID             uint   `json:"id" example:"1"`
	Username       string `json:"username" example:"testuser"`
	Email          string `json:"email" example:"test@example.com"`
	FullName       string `json:"full_name" example:"Test User"`
	AvatarURL      string `json:"avatar_url"`
	Role           string `json:"role" example:"user"`
	FriendsCount   int64  `json:"friends_count"`
	FollowersCount int64  `json:"followers_count"`
	FollowingCount int64  `json:"following_count"`
}

// endregion

// UserHandler serves registration, login and profiles.
type UserHandler struct {
	Users     repository.UserStore
	Requests  repository.FriendRequestStore
	Follows   repository.FollowStore
	Query     *service.QueryService
	JWTSecret string
	Logger    *zap.Logger
}

// region --- Auth Handlers ---

// Register godoc
// @Summary      Register a new user
// @Description  Creates a new user (optionally a creator account) and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	role := models.RoleUser
	if input.Creator {
		role = models.RoleCreator
	}

	user := models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		FullName:     input.FullName,
		Role:         role,
	}
	if err := h.Users.CreateUser(c.Request.Context(), &user); err != nil {
		if errors.Is(err, apperr.ErrDuplicatePair) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
			return
		}
		respondError(c, h.Logger, err)
		return
	}

	token, err := jwt.GenerateToken(user.ID, h.JWTSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token})
}

// Login godoc
// @Summary      Log in a user
// @Description  Authenticates a user with username/email and password, and returns a new token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      404  {object}  ErrorResponse "User not found"
// @Failure      500  {object}  ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Users.GetUserByLogin(c.Request.Context(), input.Login)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		respondError(c, h.Logger, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := jwt.GenerateToken(user.ID, h.JWTSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// endregion

// region --- Profile Handlers ---

// GetMe godoc
// @Summary      Get current user's info
// @Description  Retrieves the private profile for the currently authenticated user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PrivateUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	viewerID := currentUserID(c)

	user, err := h.Users.GetUserByID(c.Request.Context(), viewerID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	friends, followers, following := h.counts(c, user.ID)
	c.JSON(http.StatusOK, PrivateUserResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		FullName:       user.FullName,
		AvatarURL:      user.AvatarURL,
		Role:           user.Role,
		FriendsCount:   friends,
		FollowersCount: followers,
		FollowingCount: following,
	})
}

// GetUserByID godoc
// @Summary      Get user by ID
// @Description  Retrieves the public profile for a specific user, including the viewer's relationship to them.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  PublicUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) GetUserByID(c *gin.Context) {
	viewerID := currentUserID(c)
	targetID, ok := paramID(c, "id")
	if !ok {
		return
	}

	user, err := h.Users.GetUserByID(c.Request.Context(), targetID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	relation, err := h.Query.Status(c.Request.Context(), viewerID, targetID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	friends, followers, following := h.counts(c, user.ID)
	c.JSON(http.StatusOK, PublicUserResponse{
		ID:             user.ID,
		Username:       user.Username,
		FullName:       user.FullName,
		AvatarURL:      user.AvatarURL,
		Role:           user.Role,
		FriendsCount:   friends,
		FollowersCount: followers,
		FollowingCount: following,
		Relation:       relation,
	})
}

// counts gathers the profile counters; count failures read as zero rather
// than failing the profile.
func (h *UserHandler) counts(c *gin.Context, userID uint) (friends, followers, following int64) {
	ctx := c.Request.Context()
	friends, _ = h.Requests.CountFriends(ctx, userID)
	followers, _ = h.Follows.CountFollowers(ctx, userID)
	following, _ = h.Follows.CountFollowing(ctx, userID)
	return friends, followers, following
}

// endregion
