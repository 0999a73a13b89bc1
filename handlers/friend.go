package handlers

import (
	"database/sql"
	"errors"

	"github.com/gin-gonic/gin"

	"fitlink/database"
	"fitlink/directory"
	"fitlink/middleware"
	"fitlink/utils"
	"fitlink/websocket"
)

type SendFriendRequestBody struct {
	ReceiverID string `json:"receiver_id" binding:"required"`
}

func sessionFrom(c *gin.Context) *directory.Session {
	return &directory.Session{UserID: middleware.GetUserID(c)}
}

func respondDirectoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, directory.ErrUnauthenticated):
		utils.Unauthorized(c, err.Error())
	case directory.IsConflict(err):
		utils.Conflict(c, err.Error())
	case errors.Is(err, directory.ErrRequestNotFound), errors.Is(err, directory.ErrUserNotFound):
		utils.NotFound(c, err.Error())
	default:
		utils.InternalError(c, err.Error())
	}
}

func SearchUsers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		utils.BadRequest(c, "search query is required")
		return
	}

	users, err := dir.SearchUsers(c.Request.Context(), sessionFrom(c), query)
	if err != nil {
		respondDirectoryError(c, err)
		return
	}

	utils.Success(c, users)
}

func GetFriends(c *gin.Context) {
	friends, err := dir.Friends(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondDirectoryError(c, err)
		return
	}

	utils.Success(c, friends)
}

func GetFriendRequests(c *gin.Context) {
	requests, err := dir.PendingFriendRequests(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondDirectoryError(c, err)
		return
	}

	utils.Success(c, requests)
}

func SendFriendRequest(c *gin.Context) {
	var req SendFriendRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	sess := sessionFrom(c)
	if err := dir.SendFriendRequest(c.Request.Context(), sess, req.ReceiverID); err != nil {
		respondDirectoryError(c, err)
		return
	}

	websocket.NotifyUser(req.ReceiverID, "friend.request", gin.H{"sender_id": sess.UserID})
	utils.Success(c, gin.H{"message": "friend request sent"})
}

func AcceptFriendRequest(c *gin.Context) {
	requestID := c.Param("id")
	sess := sessionFrom(c)

	// Looked up before the accept so the sender can be notified after it.
	var senderID string
	err := database.DB.QueryRow(
		"SELECT sender_id FROM friend_requests WHERE id = ?", requestID,
	).Scan(&senderID)
	if err != nil && err != sql.ErrNoRows {
		utils.InternalError(c, "database error")
		return
	}

	if err := dir.AcceptFriendRequest(c.Request.Context(), sess, requestID); err != nil {
		respondDirectoryError(c, err)
		return
	}

	if senderID != "" {
		websocket.NotifyUser(senderID, "friend.accepted", gin.H{"user_id": sess.UserID})
	}
	utils.Success(c, gin.H{"message": "friend request accepted"})
}

func DeclineFriendRequest(c *gin.Context) {
	requestID := c.Param("id")

	if err := dir.DeclineFriendRequest(c.Request.Context(), sessionFrom(c), requestID); err != nil {
		respondDirectoryError(c, err)
		return
	}

	utils.Success(c, gin.H{"message": "friend request declined"})
}

func RemoveFriend(c *gin.Context) {
	friendID := c.Param("friend_id")
	sess := sessionFrom(c)

	if err := dir.RemoveFriend(c.Request.Context(), sess, friendID); err != nil {
		respondDirectoryError(c, err)
		return
	}

	websocket.NotifyUser(friendID, "friend.removed", gin.H{"user_id": sess.UserID})
	utils.Success(c, nil)
}

func GetFriendWorkoutHistory(c *gin.Context) {
	friendID := c.Param("friend_id")

	entries, err := dir.FriendWorkoutHistory(c.Request.Context(), sessionFrom(c), friendID)
	if err != nil {
		respondDirectoryError(c, err)
		return
	}

	utils.Success(c, entries)
}
