package server

import (
	"github.com/wablastdev/wablast/internal/auth"
	"github.com/wablastdev/wablast/internal/contact"
	"github.com/wablastdev/wablast/internal/health"
	"github.com/wablastdev/wablast/internal/messaging"
	"github.com/wablastdev/wablast/internal/schedule"
	"github.com/wablastdev/wablast/internal/session"
	"github.com/wablastdev/wablast/internal/template"
)

// Services bundles the domain services the routes dispatch to.
type Services struct {
	Messaging *messaging.Service
	Recorder  *messaging.Recorder
	Contacts  *contact.Service
	Templates *template.Service
	Schedules *schedule.Service
}

// SetupRoutes configures all the routes for the application
func (s *Server) SetupRoutes(svcs Services) {
	// Register health check handlers
	healthHandlers := health.NewHandlers(s.app)
	s.router.GET("/", healthHandlers.RootHandler)
	s.router.GET("/health", healthHandlers.HealthCheckHandler)

	// Register session handlers
	sessionHandlers := session.NewHandlers(s.app.Sessions, s.app.Logger)
	s.router.POST("/wa/add", sessionHandlers.AddSessionHandler)
	s.router.GET("/wa/sessions", sessionHandlers.ListSessionsHandler)
	s.router.GET("/wa/status", sessionHandlers.StatusHandler)
	s.router.POST("/wa/status", sessionHandlers.StatusHandler)
	s.router.POST("/wa/logout", sessionHandlers.LogoutHandler)

	// Register authentication handlers
	authHandlers := auth.NewHandlers(s.app.Sessions)
	s.router.GET("/wa/qr-image", authHandlers.QRImageHandler)

	// Register messaging handlers
	messagingHandlers := messaging.NewHandlers(svcs.Messaging, svcs.Recorder, s.app.Logger)
	s.router.POST("/send", messagingHandlers.SendMessageHandler)
	s.router.GET("/msg/inbox", messagingHandlers.InboxHandler)

	// Register contact handlers
	contactHandlers := contact.NewHandlers(svcs.Contacts)
	s.router.GET("/contact", contactHandlers.ListHandler)
	s.router.GET("/contact/find", contactHandlers.GetHandler)
	s.router.POST("/contact", contactHandlers.UpsertHandler)
	s.router.DELETE("/contact", contactHandlers.DeleteHandler)

	// Register template handlers
	templateHandlers := template.NewHandlers(svcs.Templates)
	s.router.GET("/template", templateHandlers.ListHandler)
	s.router.GET("/template/:id", templateHandlers.GetHandler)
	s.router.POST("/template", templateHandlers.CreateHandler)
	s.router.PUT("/template/:id", templateHandlers.UpdateHandler)
	s.router.DELETE("/template/:id", templateHandlers.DeleteHandler)

	// Register schedule handlers
	scheduleHandlers := schedule.NewHandlers(svcs.Schedules)
	s.router.GET("/schedule", scheduleHandlers.ListHandler)
	s.router.GET("/schedule/:id", scheduleHandlers.GetHandler)
	s.router.POST("/schedule", scheduleHandlers.CreateHandler)
	s.router.PUT("/schedule/:id", scheduleHandlers.UpdateHandler)
	s.router.DELETE("/schedule/:id", scheduleHandlers.DeleteHandler)
	s.router.POST("/schedule/:id/run", scheduleHandlers.RunHandler)
}
