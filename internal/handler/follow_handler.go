package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tunelink/backend/internal/service"
)

// FollowHandler serves the creator-follow surface.
type FollowHandler struct {
	Follows *service.FollowService
	Logger  *zap.Logger
}

// Follow godoc
// @Summary      Follow a creator
// @Description  Starts following a creator account. Only creators can be followed.
// @Tags         follows
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Creator User ID"
// @Success      201  {object}  map[string]string "{"message": "Now following"}"
// @Failure      400  {object}  ErrorResponse "Cannot follow yourself"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Not a creator"
// @Failure      409  {object}  ErrorResponse "Already following"
// @Failure      500  {object}  ErrorResponse
// @Router       /creators/{id}/follow [post]
func (h *FollowHandler) Follow(c *gin.Context) {
	creatorID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.Follows.Follow(c.Request.Context(), currentUserID(c), creatorID); err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Now following"})
}

// Unfollow godoc
// @Summary      Unfollow a creator
// @Description  Stops following a creator. Unfollowing someone you do not follow succeeds.
// @Tags         follows
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Creator User ID"
// @Success      200  {object}  map[string]string "{"message": "Unfollowed"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /creators/{id}/unfollow [post]
func (h *FollowHandler) Unfollow(c *gin.Context) {
	creatorID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.Follows.Unfollow(c.Request.Context(), currentUserID(c), creatorID); err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed"})
}

// IsFollowing godoc
// @Summary      Check follow status
// @Description  Reports whether the caller follows the creator.
// @Tags         follows
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Creator User ID"
// @Success      200  {object}  map[string]bool "{"following": true}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /creators/{id}/following [get]
func (h *FollowHandler) IsFollowing(c *gin.Context) {
	creatorID, ok := paramID(c, "id")
	if !ok {
		return
	}

	following, err := h.Follows.IsFollowing(c.Request.Context(), currentUserID(c), creatorID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": following})
}

// CountFollowers godoc
// @Summary      Count a creator's followers
// @Tags         follows
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Creator User ID"
// @Success      200  {object}  map[string]int64 "{"followers": 42}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /creators/{id}/followers/count [get]
func (h *FollowHandler) CountFollowers(c *gin.Context) {
	creatorID, ok := paramID(c, "id")
	if !ok {
		return
	}

	count, err := h.Follows.CountFollowers(c.Request.Context(), creatorID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"followers": count})
}
