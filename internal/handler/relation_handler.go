package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tunelink/backend/internal/models"
	"tunelink/backend/internal/service"
)

// RespondInput defines the structure for answering a friend request.
type RespondInput struct {
	Action string `json:"action" binding:"required" example:"accept"`
}

// FriendRequestResponse is the wire form of a friend-request edge.
type FriendRequestResponse struct {
	ID         uint                       `json:"id" example:"1"`
	SenderID   uint                       `json:"sender_id" example:"1"`
	ReceiverID uint                       `json:"receiver_id" example:"2"`
	Status     models.FriendRequestStatus `json:"status" example:"pending"`
	CreatedAt  time.Time                  `json:"created_at"`
	UpdatedAt  time.Time                  `json:"updated_at"`
}

func newFriendRequestResponse(req *models.FriendRequest) FriendRequestResponse {
	return FriendRequestResponse{
		ID:         req.ID,
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
		Status:     req.Status,
		CreatedAt:  req.CreatedAt,
		UpdatedAt:  req.UpdatedAt,
	}
}

// RelationHandler serves the friendship surface.
type RelationHandler struct {
	Friends *service.FriendshipService
	Query   *service.QueryService
	Logger  *zap.Logger
}

// SendRequest godoc
// @Summary      Send friend request
// @Description  Sends a friend request to another user. A rejected edge between the pair is replaced by the new request.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Receiver User ID"
// @Success      201  {object}  FriendRequestResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Receiver not found"
// @Failure      409  {object}  ErrorResponse "Duplicate request or already friends"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id}/request [post]
func (h *RelationHandler) SendRequest(c *gin.Context) {
	receiverID, ok := paramID(c, "id")
	if !ok {
		return
	}

	req, err := h.Friends.SendRequest(c.Request.Context(), currentUserID(c), receiverID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusCreated, newFriendRequestResponse(req))
}

// RespondRequest godoc
// @Summary      Respond to a friend request
// @Description  Accepts or rejects a pending friend request. Only the receiver may respond.
// @Tags         friendship
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      int           true  "Request ID"
// @Param        input  body      RespondInput  true  "accept or reject"
// @Success      200    {object}  FriendRequestResponse
// @Failure      400    {object}  ErrorResponse
// @Failure      401    {object}  ErrorResponse
// @Failure      403    {object}  ErrorResponse "Actor is not the receiver"
// @Failure      404    {object}  ErrorResponse "No pending request"
// @Failure      500    {object}  ErrorResponse
// @Router       /requests/{id}/respond [post]
func (h *RelationHandler) RespondRequest(c *gin.Context) {
	requestID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input RespondInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.Friends.Respond(c.Request.Context(), requestID, currentUserID(c), input.Action)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, newFriendRequestResponse(req))
}

// CancelRequest godoc
// @Summary      Cancel a sent friend request
// @Description  Deletes a pending request. Only the sender may cancel.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Request ID"
// @Success      200  {object}  map[string]string "{"message": "Request cancelled"}"
// @Failure      400  {object}  ErrorResponse "Request is no longer pending"
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Actor is not the sender"
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /requests/{id}/cancel [post]
func (h *RelationHandler) CancelRequest(c *gin.Context) {
	requestID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.Friends.Cancel(c.Request.Context(), requestID, currentUserID(c)); err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request cancelled"})
}

// Unfriend godoc
// @Summary      Remove a friend
// @Description  Dissolves an accepted friendship with the target user.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      200  {object}  map[string]string "{"message": "Friend removed"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "No accepted friendship"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id}/unfriend [post]
func (h *RelationHandler) Unfriend(c *gin.Context) {
	targetID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.Friends.Unfriend(c.Request.Context(), currentUserID(c), targetID); err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friend removed"})
}

// GetStatus godoc
// @Summary      Get pairwise relationship status
// @Description  Returns the viewer's relationship to the target user: self, none, pending_sent, pending_received or friends.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      200  {object}  map[string]string "{"status": "friends"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id}/status [get]
func (h *RelationHandler) GetStatus(c *gin.Context) {
	targetID, ok := paramID(c, "id")
	if !ok {
		return
	}

	status, err := h.Query.Status(c.Request.Context(), currentUserID(c), targetID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": string(status)})
}

// ListFriends godoc
// @Summary      List friends
// @Description  Returns the users connected to the caller by an accepted edge, whichever side sent the request.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.UserSummary
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /friends [get]
func (h *RelationHandler) ListFriends(c *gin.Context) {
	friends, err := h.Query.ListFriends(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, friends)
}

// ListPendingRequests godoc
// @Summary      List pending received requests
// @Description  Returns the caller's unanswered friend requests, newest first, with sender profiles.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   service.FriendRequestView
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /requests/pending [get]
func (h *RelationHandler) ListPendingRequests(c *gin.Context) {
	views, err := h.Query.ListPendingReceived(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// ListAllRequests godoc
// @Summary      List all received requests
// @Description  Returns every friend request ever addressed to the caller, any status, newest first.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   service.FriendRequestView
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /requests [get]
func (h *RelationHandler) ListAllRequests(c *gin.Context) {
	views, err := h.Query.ListAllReceived(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, views)
}
