package handler

import (
	"errors"
	"net/http"
	"strconv"

	"animehub/internal/api/dto"
	"animehub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type FriendHandler struct {
	friendService service.FriendService
}

func NewFriendHandler(friendService service.FriendService) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

func (h *FriendHandler) RegisterRoutes(router *gin.RouterGroup) {
	friends := router.Group("/friends")
	{
		friends.GET("", h.ListFriends)
		friends.DELETE("/:friend_id", h.Unfriend)
		friends.POST("/requests", h.SendRequest)
		friends.GET("/requests", h.ListPending)
		friends.POST("/requests/:request_id/accept", h.Accept)
		friends.POST("/requests/:request_id/reject", h.Reject)
	}

	router.GET("/users/search", h.SearchUsers)
}

// SendRequest creates a pending friend request
// POST /api/friends/requests
func (h *FriendHandler) SendRequest(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req dto.SendFriendRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.friendService.SendRequest(c.Request.Context(), userID.(string), req.ReceiverID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfFriendRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrFriendshipExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, request)
}

// Accept accepts a pending friend request addressed to the caller
// POST /api/friends/requests/:request_id/accept
func (h *FriendHandler) Accept(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	requestID, err := strconv.ParseInt(c.Param("request_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	if err := h.friendService.Accept(c.Request.Context(), userID.(string), requestID); err != nil {
		h.answerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friend request accepted"})
}

// Reject declines a pending friend request addressed to the caller
// POST /api/friends/requests/:request_id/reject
func (h *FriendHandler) Reject(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	requestID, err := strconv.ParseInt(c.Param("request_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	if err := h.friendService.Reject(c.Request.Context(), userID.(string), requestID); err != nil {
		h.answerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friend request rejected"})
}

func (h *FriendHandler) answerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFriendshipNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotRequestReceiver):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRequestNotPending):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Unfriend removes an accepted friendship
// DELETE /api/friends/:friend_id
func (h *FriendHandler) Unfriend(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	friendID := c.Param("friend_id")

	if err := h.friendService.Unfriend(c.Request.Context(), userID.(string), friendID); err != nil {
		if errors.Is(err, service.ErrFriendshipNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friend removed"})
}

// ListFriends returns the caller's accepted friends
// GET /api/friends
func (h *FriendHandler) ListFriends(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	friends, err := h.friendService.ListFriends(c.Request.Context(), userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, friends)
}

// ListPending returns incoming pending requests
// GET /api/friends/requests
func (h *FriendHandler) ListPending(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	requests, err := h.friendService.ListPending(c.Request.Context(), userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, requests)
}

// SearchUsers finds users by username fragment
// GET /api/users/search?q=ken
func (h *FriendHandler) SearchUsers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'q' is required"})
		return
	}

	users, err := h.friendService.SearchUsers(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}
