package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/playeight/backend/internal/api/handlers"
	"github.com/playeight/backend/internal/config"
	"github.com/playeight/backend/internal/game"
	"github.com/playeight/backend/internal/middleware"
	"github.com/playeight/backend/internal/ws"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *sqlx.DB, cfg *config.Config, hub *ws.Hub, sched *game.Scheduler) {
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.WebSocketCORSCheck(cfg))

	// No-cache middleware in development so frontend iteration never
	// fights a stale browser cache
	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] Aggressive no-cache headers enabled for all routes")
	}

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)
		v1.GET("/config", handlers.GetConfig)

		// Open room directory for the lobby screen
		v1.GET("/rooms", handlers.ListRooms(sched))

		// Game WebSocket endpoint
		v1.GET("/ws", ws.ServeWS(hub, sched))

		// Admin endpoints need the database for accounts and audit
		if db != nil {
			adminGroup := v1.Group("/admin")
			{
				adminGroup.POST("/login", handlers.AdminLogin(db, cfg))

				authed := adminGroup.Group("")
				authed.Use(handlers.AdminAuthMiddleware(cfg))
				{
					authed.GET("/me", handlers.AdminMe())
					authed.GET("/rooms", handlers.GetAdminRooms(sched))
					authed.DELETE("/rooms/:code", handlers.AdminCloseRoom(sched, db))
					authed.GET("/matches", handlers.GetAdminMatches(db))
					authed.GET("/matches/:id", handlers.GetAdminMatchDetail(db))
					authed.GET("/audit", handlers.GetAdminAuditLogs(db))
				}
			}
		} else {
			log.Println("[API] admin endpoints disabled (no database configured)")
		}
	}

	// Serve the frontend bundle when a static dir is configured. The
	// NoRoute fallback keeps /api and /ws probes off the file server.
	if cfg.StaticDir != "" {
		fileServer := http.FileServer(http.Dir(cfg.StaticDir))
		router.NoRoute(func(c *gin.Context) {
			fileServer.ServeHTTP(c.Writer, c.Request)
		})
		log.Printf("[API] serving static files from %s", cfg.StaticDir)
	}
}
