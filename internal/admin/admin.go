package admin

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/playeight/backend/internal/models"
)

// GetAdminAccount retrieves an admin account by username
func GetAdminAccount(db *sqlx.DB, username string) (*models.AdminAccount, error) {
	var admin models.AdminAccount
	err := db.Get(&admin, `SELECT username, display_name, password_hash, roles, created_at, updated_at FROM admin_accounts WHERE username=$1`, username)
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// VerifyAdminPassword checks if the provided password matches the stored hash
func VerifyAdminPassword(hashedPassword, plainPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	return err == nil
}

// CreateAdminAccount creates or updates an admin account (used for seeding)
func CreateAdminAccount(db *sqlx.DB, username, displayName, plainPassword string, roles []string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO admin_accounts (username, display_name, password_hash, roles, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (username) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			password_hash = EXCLUDED.password_hash,
			roles = EXCLUDED.roles,
			updated_at = NOW()
	`, username, displayName, string(hashedPassword), pq.Array(roles))

	return err
}

// LogAdminAction records an admin action in the audit log
func LogAdminAction(db *sqlx.DB, adminUsername, ip, route, action string, details map[string]interface{}, success bool) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		log.Printf("Failed to marshal admin audit details: %v", err)
		detailsJSON = []byte("{}")
	}

	_, err = db.Exec(`
		INSERT INTO admin_audit (admin_username, ip, route, action, details, success, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`, adminUsername, ip, route, action, detailsJSON, success)

	if err != nil {
		log.Printf("Failed to log admin action: %v", err)
	}

	return err
}

// GetAdminAuditLogs retrieves recent admin audit logs with pagination
func GetAdminAuditLogs(db *sqlx.DB, limit, offset int) ([]models.AdminAudit, error) {
	var logs []models.AdminAudit
	query := `
		SELECT id, admin_username, ip, route, action, details, success, created_at
		FROM admin_audit
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	err := db.Select(&logs, query, limit, offset)
	return logs, err
}

// ValidateAdminCredentials validates a username + password combination
func ValidateAdminCredentials(db *sqlx.DB, username, password string) (*models.AdminAccount, error) {
	admin, err := GetAdminAccount(db, username)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("[ADMIN] no admin account found for username: %s", username)
			return nil, fmt.Errorf("admin account not found")
		}
		log.Printf("[ADMIN] database error: %v", err)
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !VerifyAdminPassword(admin.PasswordHash, password) {
		log.Printf("[ADMIN] password verification failed for username: %s", username)
		return nil, fmt.Errorf("invalid credentials")
	}

	return admin, nil
}
