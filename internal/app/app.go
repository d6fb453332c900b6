package app

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wablastdev/wablast/internal/config"
	"github.com/wablastdev/wablast/internal/session"
)

// App holds shared application state and resources
type App struct {
	Config    *config.Config
	DB        *gorm.DB
	Sessions  *session.Manager
	Logger    *zap.Logger
	StartTime time.Time // Track startup time for health checks
}

// New creates a new App instance with initialized resources
func New(cfg *config.Config, db *gorm.DB, sessions *session.Manager, logger *zap.Logger) *App {
	return &App{
		Config:    cfg,
		DB:        db,
		Sessions:  sessions,
		Logger:    logger,
		StartTime: time.Now(),
	}
}
