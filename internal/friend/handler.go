package friend

import (
	"net/http"
	"strconv"

	"socialhub/internal/apperr"
	"socialhub/internal/constants"
	"socialhub/internal/middleware"
	"socialhub/internal/pagination"
	"socialhub/internal/response"

	"github.com/gin-gonic/gin"
)

// Handler 好友相关的 HTTP 接口
type Handler struct {
	requests *RequestService
	graph    *Graph
}

func NewHandler(requests *RequestService, graph *Graph) *Handler {
	return &Handler{requests: requests, graph: graph}
}

// SendRequest POST /api/friends/request
func (h *Handler) SendRequest(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, apperr.Unauthenticated(constants.ErrUnauthorized))
		return
	}

	var body SendRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperr.InvalidArgument(constants.ErrInvalidRequest))
		return
	}

	req, err := h.requests.SendRequest(c.Request.Context(), userID, body.ReceiverID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Friend request sent",
		"request_id": req.ID,
	})
}

// ListIncoming GET /api/friends/requests
func (h *Handler) ListIncoming(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, apperr.Unauthenticated(constants.ErrUnauthorized))
		return
	}

	requests, err := h.requests.ListIncoming(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// ListOutgoing GET /api/friends/requests/sent
func (h *Handler) ListOutgoing(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, apperr.Unauthenticated(constants.ErrUnauthorized))
		return
	}

	requests, err := h.requests.ListOutgoing(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// Respond POST /api/friends/respond
func (h *Handler) Respond(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, apperr.Unauthenticated(constants.ErrUnauthorized))
		return
	}

	var body RespondBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperr.InvalidArgument(constants.ErrInvalidRequest))
		return
	}

	if _, err := h.requests.Respond(c.Request.Context(), userID, body.RequestID, body.Action); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request " + body.Action + "ed"})
}

// ListFriends GET /api/friends?page&limit
func (h *Handler) ListFriends(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, apperr.Unauthenticated(constants.ErrUnauthorized))
		return
	}

	page := pagination.Parse(c.Query("page"), c.Query("limit"), constants.DefaultFriendsPerPage, constants.MaxPerPage)
	friends, err := h.graph.ListFriends(c.Request.Context(), userID, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, friends)
}

// Unfriend DELETE /api/friends/:friend_id
func (h *Handler) Unfriend(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, apperr.Unauthenticated(constants.ErrUnauthorized))
		return
	}

	friendID, err := strconv.ParseUint(c.Param("friend_id"), 10, 64)
	if err != nil || friendID == 0 {
		response.Error(c, apperr.NotFound(constants.ErrFriendshipNotFound))
		return
	}

	if err := h.graph.Unfriend(c.Request.Context(), userID, uint(friendID)); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unfriended successfully"})
}

// Status GET /api/friends/status/:friend_id
func (h *Handler) Status(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, apperr.Unauthenticated(constants.ErrUnauthorized))
		return
	}

	friendID, err := strconv.ParseUint(c.Param("friend_id"), 10, 64)
	if err != nil || friendID == 0 {
		response.Error(c, apperr.InvalidArgument(constants.ErrInvalidRequest))
		return
	}

	friends, err := h.graph.AreFriends(c.Request.Context(), userID, uint(friendID))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, FriendStatus{FriendID: uint(friendID), AreFriends: friends})
}
