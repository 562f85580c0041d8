package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/jmoiron/sqlx"

	"github.com/playeight/backend/internal/admin"
	"github.com/playeight/backend/internal/config"
)

const adminTokenTTL = 4 * time.Hour

// AdminLogin validates username/password and issues a short-lived JWT
func AdminLogin(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Username string `json:"username" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		username := strings.TrimSpace(req.Username)
		password := strings.TrimSpace(req.Password)

		adminAcc, err := admin.ValidateAdminCredentials(db, username, password)
		if err != nil {
			log.Printf("[ADMIN] login failed for username %s: %v", username, err)
			admin.LogAdminAction(db, username, c.ClientIP(), "/api/v1/admin/login", "login", map[string]interface{}{"username": username}, false)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		exp := time.Now().Add(adminTokenTTL)
		claims := jwt.MapClaims{
			"admin":    true,
			"username": adminAcc.Username,
			"exp":      exp.Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte(cfg.JWTSecret))
		if err != nil {
			log.Printf("[ADMIN] failed to sign token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		admin.LogAdminAction(db, username, c.ClientIP(), "/api/v1/admin/login", "login", map[string]interface{}{"username": username}, true)
		c.JSON(http.StatusOK, gin.H{
			"token":      signed,
			"expires_at": exp.Format(time.RFC3339),
			"admin": gin.H{
				"username":     adminAcc.Username,
				"display_name": adminAcc.DisplayName,
				"roles":        adminAcc.Roles,
			},
		})
	}
}

// AdminAuthMiddleware validates the bearer JWT and sets admin_username
// in the request context
func AdminAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		token := strings.TrimPrefix(auth, "Bearer ")

		parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !parsed.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if isAdmin, _ := claims["admin"].(bool); !isAdmin {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if username, ok := claims["username"].(string); ok {
			c.Set("admin_username", username)
		}

		c.Next()
	}
}

// AdminMe returns the authenticated admin's identity
func AdminMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.GetString("admin_username")
		c.JSON(http.StatusOK, gin.H{"username": username})
	}
}
