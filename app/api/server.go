package api

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/podsift/podsift/app/cfg"
)

// NewServer creates the HTTP server with all routes configured
func NewServer(handler *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	// CORS middleware, the web client runs on a different origin
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-API-Key, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler) {
	appCfg := cfg.Get()

	r.GET("/health", handler.GetHealth)

	api := r.Group("/api")
	if appCfg.APIAccessKey != "" {
		api.Use(authMiddleware(appCfg.APIAccessKey))
		slog.Info("API endpoints enabled with authentication")
	}
	{
		api.POST("/validate", handler.ValidateFeed)
		api.POST("/feeds", handler.SubscribeFeed)
		api.GET("/feeds", handler.ListFeeds)
		api.GET("/feeds/:id", handler.GetFeed)
		api.GET("/feeds/:id/episodes", handler.ListEpisodes)
		api.POST("/feeds/:id/refresh", handler.RefreshFeed)
		api.DELETE("/feeds/:id", handler.UnsubscribeFeed)
		api.POST("/refresh", handler.RefreshAll)
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service":     "podsift",
			"version":     appCfg.Version,
			"description": "Podcast feed ingestion and normalization service",
			"endpoints": gin.H{
				"validate": "/api/validate (POST)",
				"feeds":    "/api/feeds",
				"episodes": "/api/feeds/<id>/episodes",
				"refresh":  "/api/refresh (POST)",
				"health":   "/health",
			},
			"auth": gin.H{
				"required": appCfg.APIAccessKey != "",
				"header":   "X-API-Key",
			},
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}

// authMiddleware guards the API group when an access key is configured
func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader("X-API-Key")

		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey != apiAccessKey {
			c.AbortWithStatusJSON(401, gin.H{"error": "Invalid or missing API key"})
			return
		}

		c.Next()
	}
}
