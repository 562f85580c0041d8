package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/playeight/backend/internal/models"
)

// GetAdminMatches returns paginated match history from the database
func GetAdminMatches(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := c.DefaultQuery("status", "all")
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if limit > 200 {
			limit = 200
		}

		type matchRow struct {
			ID          int     `db:"id" json:"id"`
			RoomCode    string  `db:"room_code" json:"room_code"`
			Player1Name string  `db:"player1_name" json:"player1_name"`
			Player2Name string  `db:"player2_name" json:"player2_name"`
			WinnerName  *string `db:"winner_name" json:"winner_name"`
			WinReason   *string `db:"win_reason" json:"win_reason"`
			StartedAt   string  `db:"started_at" json:"started_at"`
			CompletedAt *string `db:"completed_at" json:"completed_at"`
			ShotCount   int     `db:"shot_count" json:"shot_count"`
			TotalCount  int     `db:"total_count" json:"-"`
		}

		query := `
			SELECT m.id, m.room_code, m.player1_name, m.player2_name,
				m.winner_name, m.win_reason,
				to_char(m.started_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"') as started_at,
				to_char(m.completed_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"') as completed_at,
				(SELECT COUNT(*) FROM pool_shots s WHERE s.match_id = m.id) as shot_count,
				COUNT(*) OVER() as total_count
			FROM pool_matches m
			WHERE ($1 = 'all'
				OR ($1 = 'active' AND m.completed_at IS NULL)
				OR ($1 = 'completed' AND m.completed_at IS NOT NULL))
			ORDER BY m.started_at DESC
			LIMIT $2 OFFSET $3
		`

		var rows []matchRow
		err := db.Select(&rows, query, status, limit, offset)
		if err != nil {
			log.Printf("[ADMIN] Failed to fetch matches: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch matches"})
			return
		}

		total := 0
		if len(rows) > 0 {
			total = rows[0].TotalCount
		}

		c.JSON(http.StatusOK, gin.H{"matches": rows, "total": total, "limit": limit, "offset": offset})
	}
}

// GetAdminMatchDetail returns one match with its full shot log
func GetAdminMatchDetail(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		matchID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match id"})
			return
		}

		var match models.PoolMatch
		if err := db.Get(&match, `
			SELECT id, room_code, player1_name, player2_name, winner_name, win_reason, started_at, completed_at
			FROM pool_matches WHERE id=$1
		`, matchID); err != nil {
			log.Printf("[ADMIN] Match not found: %v", err)
			c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
			return
		}

		var shots []models.PoolShot
		if err := db.Select(&shots, `
			SELECT id, match_id, player_id, angle, power, captures, scratch, created_at
			FROM pool_shots WHERE match_id=$1 ORDER BY created_at ASC
		`, matchID); err != nil {
			log.Printf("[ADMIN] Failed to fetch shots for match %d: %v", matchID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shots"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"match": match, "shots": shots})
	}
}
