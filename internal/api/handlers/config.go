package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playeight/backend/internal/game"
)

// GetConfig returns the table geometry the frontend needs to render
// the game. Values mirror the server's simulation constants so a
// client never has to hardcode them.
func GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"tableWidth":   game.TableWidth,
		"tableHeight":  game.TableHeight,
		"ballRadius":   game.BallRadius,
		"pocketRadius": game.PocketRadius,
		"maxPower":     game.MaxPower,
	})
}
