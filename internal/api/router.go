// Package api wires the HTTP routes and middleware for the show picker.
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/kzfr/show-picker/internal/api/handlers"
	"github.com/kzfr/show-picker/internal/config"
	"github.com/kzfr/show-picker/internal/resolver"
)

// SetupRouter configures and returns the main router with all routes and middleware.
func SetupRouter(res *resolver.Resolver, cfg *config.Config, loc *time.Location) *gin.Engine {
	h := handlers.NewHandlers(res, cfg, loc)

	// Set Gin mode based on environment
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	r := gin.Default()
	r.SetHTMLTemplate(handlers.PageTemplate())

	// Session middleware - must be first
	store := cookie.NewStore([]byte(cfg.Session.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   cfg.Environment == "production",
	})
	r.Use(sessions.Sessions(cfg.Session.CookieName, store))

	// CORS middleware
	r.Use(corsMiddleware(cfg))

	// Presenter page
	r.GET("/", h.ShowPage)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/shows", h.ListShows)
		v1.GET("/shows/times", h.ShowTimes)
		v1.GET("/shows/feed", h.ShowFeed)
		v1.GET("/resolve", h.Resolve)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "show-picker",
		})
	})

	return r
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// If no allowed origins are configured, disable CORS (secure by default)
		if cfg.Server.AllowedOrigins == "" {
			if c.Request.Method == "OPTIONS" {
				c.AbortWithStatus(204)
				return
			}
			c.Next()
			return
		}

		if isAllowedOrigin(origin, cfg.Server.AllowedOrigins) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, Cache-Control, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// isAllowedOrigin checks if the origin is in the comma-separated list of allowed origins
func isAllowedOrigin(origin string, allowedOrigins string) bool {
	if origin == "" {
		return false
	}

	for _, allowed := range strings.Split(allowedOrigins, ",") {
		if strings.TrimSpace(allowed) == origin {
			return true
		}
	}

	return false
}
