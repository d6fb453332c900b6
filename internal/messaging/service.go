package messaging

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wablastdev/wablast/internal/client"
	"github.com/wablastdev/wablast/internal/session"
)

// Service handles messaging-related business logic.
type Service struct {
	manager *session.Manager
	log     *zap.Logger
}

// NewService creates a new messaging service.
func NewService(manager *session.Manager, log *zap.Logger) *Service {
	return &Service{manager: manager, log: log}
}

// SendText sends a text message through an open session.
func (s *Service) SendText(ctx context.Context, user, phoneNumber, message string) error {
	if phoneNumber == "" || message == "" {
		return fmt.Errorf("recipient and message are required")
	}
	if err := s.manager.Send(ctx, user, phoneNumber, message); err != nil {
		return err
	}
	s.log.Info("message sent",
		zap.String("session", user), zap.String("recipient", phoneNumber))
	return nil
}

// Recorder persists inbound messages. The session manager forwards messages
// here only while the originating session is open.
type Recorder struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewRecorder creates a new inbound message recorder.
func NewRecorder(db *gorm.DB, log *zap.Logger) *Recorder {
	return &Recorder{db: db, log: log}
}

// Record stores one inbound message. Failures are logged; message receipt
// must never disturb the session lifecycle.
func (r *Recorder) Record(name string, msg client.Inbound) {
	row := InboundMessage{
		Session:    name,
		Sender:     msg.Sender,
		PushName:   msg.PushName,
		Content:    msg.Content,
		ReceivedAt: msg.Timestamp,
	}
	if err := r.db.Create(&row).Error; err != nil {
		r.log.Warn("failed to record inbound message",
			zap.String("session", name), zap.Error(err))
	}
}

// Recent returns the latest recorded inbound messages for a session.
func (r *Recorder) Recent(sessionName string, limit int) ([]InboundMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []InboundMessage
	err := r.db.Where("session = ?", sessionName).
		Order("id desc").Limit(limit).Find(&rows).Error
	return rows, err
}
