package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/playeight/backend/internal/admin"
	"github.com/playeight/backend/internal/config"
	"github.com/playeight/backend/internal/database"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL must be set to seed an admin account")
	}

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Seed admin account
	username := os.Getenv("ADMIN_USER")
	if username == "" {
		username = "admin"
		log.Printf("Using default admin username: %s", username)
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "change-me-in-production"
		log.Printf("WARNING: Using default admin password. Set ADMIN_PASSWORD env var in production!")
	}

	displayName := os.Getenv("ADMIN_DISPLAY_NAME")
	if displayName == "" {
		displayName = "Admin"
	}
	roles := []string{"super_admin"}

	err = admin.CreateAdminAccount(db, username, displayName, password, roles)
	if err != nil {
		log.Fatalf("Failed to create admin account: %v", err)
	}

	log.Printf("Admin account created/updated successfully")
	log.Printf("  Username: %s", username)
	log.Printf("  Display Name: %s", displayName)
	log.Printf("  Roles: %v", roles)
	log.Println("You can now login via POST /api/v1/admin/login")
}
