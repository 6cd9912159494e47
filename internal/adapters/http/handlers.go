// Package http exposes snapshot queries over the shared stores and the REST
// send path, in the `success` envelope the clients expect.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-relay/internal/app"
	"chat-relay/internal/domain"
)

type handlers struct {
	coord *app.PresenceCoordinator
}

func newHandlers(coord *app.PresenceCoordinator) *handlers {
	return &handlers{coord: coord}
}

type postMessageRequest struct {
	Username string `json:"username" binding:"required"`
	Message  string `json:"message" binding:"required"`
	Room     string `json:"room"`
}

func (h *handlers) listMessages(c *gin.Context) {
	msgs := h.coord.State().Log.All()
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"messages": msgs,
		"count":    len(msgs),
	})
}

func (h *handlers) roomMessages(c *gin.Context) {
	room := c.Param("room")
	msgs := h.coord.State().Log.ByRoom(domain.RoomName(room))
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"room":     room,
		"messages": msgs,
		"count":    len(msgs),
	})
}

func (h *handlers) postMessage(c *gin.Context) {
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Username and message are required",
		})
		return
	}

	msg, err := h.coord.PostMessage(req.Username, req.Message, req.Room)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   postErrorMessage(err),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": msg,
	})
}

func (h *handlers) listUsers(c *gin.Context) {
	users := h.coord.State().Registry.Users()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   users,
		"count":   len(users),
	})
}

func (h *handlers) listRooms(c *gin.Context) {
	rooms := h.coord.State().Rooms.ListRooms()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"rooms":   rooms,
		"count":   len(rooms),
	})
}

func postErrorMessage(err error) string {
	if errors.Is(err, domain.ErrMessageTooLong) {
		return "Message too long (max 500 characters)"
	}
	return "Username and message are required"
}
