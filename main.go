package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wablastdev/wablast/internal/app"
	"github.com/wablastdev/wablast/internal/client"
	"github.com/wablastdev/wablast/internal/config"
	"github.com/wablastdev/wablast/internal/contact"
	"github.com/wablastdev/wablast/internal/credstore"
	"github.com/wablastdev/wablast/internal/messaging"
	"github.com/wablastdev/wablast/internal/schedule"
	"github.com/wablastdev/wablast/internal/server"
	"github.com/wablastdev/wablast/internal/session"
	"github.com/wablastdev/wablast/internal/template"
	"github.com/wablastdev/wablast/pkg/logger"
	"github.com/wablastdev/wablast/pkg/qrimg"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.SetupFallback()
		fallback.Fatal("failed to load configuration", zap.Error(err))
	}

	log, err := logger.Setup(logger.Options{
		Mode:       cfg.LogMode,
		FileEnable: cfg.LogFileEnable,
		Filename:   cfg.LogFilename,
	})
	if err != nil {
		log = logger.SetupFallback()
		log.Warn("file logging unavailable, console only", zap.Error(err))
	}
	defer log.Sync()

	if err := cfg.EnsureDataDir(); err != nil {
		log.Fatal("failed to create data directory", zap.Error(err))
	}

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	err = db.AutoMigrate(
		&contact.Contact{},
		&template.MessageTemplate{},
		&schedule.BroadcastSchedule{},
		&messaging.InboundMessage{},
	)
	if err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	creds := credstore.New(cfg.DataDir)
	manager := session.NewManager(session.Config{
		Store:            session.NewDiskCredentialStore(creds),
		Dialer:           client.NewWhatsmeowDialer(log),
		Encode:           qrimg.Encode,
		Logger:           log,
		PairingWait:      cfg.PairingWait,
		ReconnectMax:     cfg.ReconnectMax,
		ReconnectBackoff: cfg.ReconnectBackoff,
	})

	recorder := messaging.NewRecorder(db, log)
	manager.SetInboundHandler(recorder.Record)

	msgService := messaging.NewService(manager, log)
	scheduler := schedule.NewService(db, msgService, log)
	if err := scheduler.Start(); err != nil {
		log.Fatal("failed to start scheduler", zap.Error(err))
	}

	application := app.New(cfg, db, manager, log)

	srv := server.NewServer(application, cfg)
	srv.SetupRoutes(server.Services{
		Messaging: msgService,
		Recorder:  recorder,
		Contacts:  contact.NewService(db),
		Templates: template.NewService(db),
		Schedules: scheduler,
	})
	if err := srv.Start(); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}
