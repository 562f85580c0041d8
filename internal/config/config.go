package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database (optional; empty disables match history and admin API)
	DatabaseURL string

	// Redis (optional; empty disables the room directory announcer)
	RedisURL string

	// Server
	Port        string
	FrontendURL string
	StaticDir   string

	// Simulation
	TickRate             int
	BroadcastRate        int
	RoomIdleGraceSeconds int

	// Security
	JWTSecret string

	// Migrations
	MigrateOnStart bool
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", ""),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		StaticDir:   getEnv("STATIC_DIR", ""),

		// Simulation
		TickRate:             getEnvInt("TICK_RATE", 60),
		BroadcastRate:        getEnvInt("BROADCAST_RATE", 20),
		RoomIdleGraceSeconds: getEnvInt("ROOM_IDLE_GRACE_SECONDS", 60),

		// Security
		JWTSecret: getEnv("JWT_SECRET", "change-me-in-production"),

		// Migrations
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", true),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
