package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/playeight/backend/internal/admin"
	"github.com/playeight/backend/internal/game"
)

// GetAdminRooms returns the full live room listing, including phase
// and age, unlike the public directory which only shows joinable info
func GetAdminRooms(sched *game.Scheduler) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply := make(chan []game.RoomSummary, 1)
		sched.Submit(game.DirectoryQuery{Reply: reply})

		select {
		case rooms := <-reply:
			c.JSON(http.StatusOK, gin.H{"rooms": rooms, "total": len(rooms)})
		case <-time.After(directoryTimeout):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "room directory unavailable"})
		}
	}
}

// AdminCloseRoom force-closes a live room. Seated players are
// notified and detached before the room is destroyed.
func AdminCloseRoom(sched *game.Scheduler, db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := strings.ToUpper(strings.TrimSpace(c.Param("code")))
		if code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "room code required"})
			return
		}

		reply := make(chan bool, 1)
		sched.Submit(game.CloseRoomQuery{Code: code, Reply: reply})

		var closed bool
		select {
		case closed = <-reply:
		case <-time.After(directoryTimeout):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scheduler unavailable"})
			return
		}

		username := c.GetString("admin_username")
		admin.LogAdminAction(db, username, c.ClientIP(), "/api/v1/admin/rooms/"+code, "force_close_room",
			map[string]interface{}{"code": code, "closed": closed}, closed)

		if !closed {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "code": code})
	}
}
