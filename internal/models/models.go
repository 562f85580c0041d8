package models

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

// PoolMatch represents one completed or in-progress pool game
type PoolMatch struct {
	ID          int            `db:"id" json:"id"`
	RoomCode    string         `db:"room_code" json:"room_code"`
	Player1Name string         `db:"player1_name" json:"player1_name"`
	Player2Name string         `db:"player2_name" json:"player2_name"`
	WinnerName  sql.NullString `db:"winner_name" json:"winner_name,omitempty"`
	WinReason   sql.NullString `db:"win_reason" json:"win_reason,omitempty"`
	StartedAt   time.Time      `db:"started_at" json:"started_at"`
	CompletedAt sql.NullTime   `db:"completed_at" json:"completed_at,omitempty"`
}

// PoolShot represents a single resolved shot within a match
type PoolShot struct {
	ID        int            `db:"id" json:"id"`
	MatchID   int            `db:"match_id" json:"match_id"`
	PlayerID  string         `db:"player_id" json:"player_id"`
	Angle     float64        `db:"angle" json:"angle"`
	Power     float64        `db:"power" json:"power"`
	Captures  types.JSONText `db:"captures" json:"captures"`
	Scratch   bool           `db:"scratch" json:"scratch"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// AdminAccount represents an operator account for the admin API
type AdminAccount struct {
	Username     string         `db:"username" json:"username"`
	DisplayName  string         `db:"display_name" json:"display_name"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Roles        pq.StringArray `db:"roles" json:"roles"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// AdminAudit represents an entry in the admin action audit log
type AdminAudit struct {
	ID            int            `db:"id" json:"id"`
	AdminUsername string         `db:"admin_username" json:"admin_username"`
	IP            string         `db:"ip" json:"ip"`
	Route         string         `db:"route" json:"route"`
	Action        string         `db:"action" json:"action"`
	Details       types.JSONText `db:"details" json:"details"`
	Success       bool           `db:"success" json:"success"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}
