package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/playeight/backend/internal/game"
)

const directoryTimeout = 2 * time.Second

// ListRooms returns the public room directory. The scheduler owns all
// room state, so the listing goes through it as a query intent rather
// than touching rooms directly.
func ListRooms(sched *game.Scheduler) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply := make(chan []game.RoomSummary, 1)
		sched.Submit(game.DirectoryQuery{Reply: reply})

		select {
		case rooms := <-reply:
			out := make([]gin.H, 0, len(rooms))
			for _, r := range rooms {
				out = append(out, gin.H{
					"code":        r.Code,
					"playerCount": r.PlayerCount,
					"hostName":    r.HostName,
				})
			}
			c.JSON(http.StatusOK, gin.H{"rooms": out})
		case <-time.After(directoryTimeout):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "room directory unavailable"})
		}
	}
}
