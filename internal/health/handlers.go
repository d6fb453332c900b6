package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wablastdev/wablast/internal/app"
)

const version = "1.0.0"

// Handlers contains HTTP handlers for health checks
type Handlers struct {
	app *app.App
}

// NewHandlers creates a new health handlers instance
func NewHandlers(app *app.App) *Handlers {
	return &Handlers{app: app}
}

// RootHandler handles the root endpoint for Docker health checks
func (h *Handlers) RootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"uptime":        time.Since(h.app.StartTime).String(),
		"session_count": h.app.Sessions.Count(),
		"version":       version,
	})
}

// HealthCheckHandler handles the health check endpoint
func (h *Handlers) HealthCheckHandler(c *gin.Context) {
	dbStatus := "ok"
	if sqlDB, err := h.app.DB.DB(); err != nil {
		dbStatus = "error"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error"
	}

	// Always return 200 OK status
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"uptime":         time.Since(h.app.StartTime).String(),
		"total_sessions": h.app.Sessions.Count(),
		"open_sessions":  h.app.Sessions.OpenCount(),
		"database":       dbStatus,
		"version":        version,
		"timestamp":      time.Now().Format(time.RFC3339),
	})
}
