package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cipherkeeper/capitol-feed/app/cfg"
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

	// The API is read-only, so CORS only ever needs to admit GET.
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

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
	r.GET("/feed", handler.GetFeed)
	r.GET("/legislative/session-info", handler.GetSessionInfo)
	r.GET("/executive/potus-schedule/", handler.GetPotusSchedule)

	r.GET("/health", handler.GetHealth)

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Capitol Feed",
			"version": cfg.GetVersion(),
			"endpoints": map[string]string{
				"feed":           "/feed?search_term=&sources=&limit=&offset=",
				"session-info":   "/legislative/session-info",
				"potus-schedule": "/executive/potus-schedule/?limit=&offset=",
				"health":         "/health",
			},
		})
	})

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}
