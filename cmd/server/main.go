package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	redislib "github.com/redis/go-redis/v9"

	"github.com/playeight/backend/internal/api"
	"github.com/playeight/backend/internal/config"
	"github.com/playeight/backend/internal/database"
	"github.com/playeight/backend/internal/game"
	"github.com/playeight/backend/internal/migrations"
	"github.com/playeight/backend/internal/redis"
	"github.com/playeight/backend/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database (optional). Without it the server still runs
	// games; it just keeps no match history and serves no admin API.
	var db *sqlx.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if cfg.MigrateOnStart {
			log.Println("Running DB migrations on startup...")
			if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
		}
	} else {
		log.Println("[DB] DATABASE_URL not set, match history disabled")
	}

	// Initialize Redis (optional). Without it the room directory is
	// still served over HTTP, just not announced to other consumers.
	var rdb *redislib.Client
	if cfg.RedisURL != "" {
		var err error
		rdb, err = redis.Connect(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rdb.Close()
	} else {
		log.Println("[REDIS] REDIS_URL not set, directory announcements disabled")
	}

	// Connection hub for WebSocket clients
	hub := ws.NewHub()
	go hub.Run()

	// Match history recorder and room directory announcer. Both are
	// nil-safe: a nil receiver just drops the work.
	recorder := game.NewRecorder(db)
	recorder.Start()
	defer recorder.Stop()

	announcer := game.NewAnnouncer(rdb)
	announcer.Start()
	defer announcer.Stop()

	// The scheduler goroutine owns every room. All game state flows
	// through it; everything else talks to it via intents.
	sched := game.NewScheduler(hub, game.SchedulerConfig{
		TickRate:      cfg.TickRate,
		BroadcastRate: cfg.BroadcastRate,
		IdleGrace:     time.Duration(cfg.RoomIdleGraceSeconds) * time.Second,
	}, recorder, announcer)
	go sched.Run(context.Background())

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Initialize API handlers
	api.SetupRoutes(router, db, cfg, hub, sched)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting PlayEight server on port %s (tick=%dHz broadcast=%dHz)", port, cfg.TickRate, cfg.BroadcastRate)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
