package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wablastdev/wablast/internal/contact"
	"github.com/wablastdev/wablast/internal/template"
)

const sendTimeout = 60 * time.Second

// TextSender dispatches one text message through a named session.
type TextSender interface {
	SendText(ctx context.Context, user, phoneNumber, message string) error
}

// Service owns the cron runner and the schedule CRUD. Each enabled schedule
// is registered as a cron entry; a firing loads the template and audience
// fresh from the database and dispatches through the sender.
type Service struct {
	db     *gorm.DB
	sender TextSender
	log    *zap.Logger

	cron    *cron.Cron
	mu      sync.Mutex
	entries map[uint]cron.EntryID
}

// NewService creates a new broadcast schedule service.
func NewService(db *gorm.DB, sender TextSender, log *zap.Logger) *Service {
	return &Service{
		db:      db,
		sender:  sender,
		log:     log,
		cron:    cron.New(),
		entries: make(map[uint]cron.EntryID),
	}
}

// Start registers all enabled schedules and starts the cron runner.
func (s *Service) Start() error {
	var schedules []BroadcastSchedule
	if err := s.db.Where("enabled = ?", true).Find(&schedules).Error; err != nil {
		return fmt.Errorf("load schedules: %w", err)
	}
	for _, sched := range schedules {
		if err := s.register(sched.ID, sched.CronExpr); err != nil {
			s.log.Warn("skipping schedule with bad cron expression",
				zap.Uint("schedule_id", sched.ID), zap.Error(err))
		}
	}
	s.cron.Start()
	s.log.Info("broadcast scheduler started", zap.Int("schedules", len(schedules)))
	return nil
}

// Stop halts the cron runner, waiting for in-flight runs.
func (s *Service) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Service) register(id uint, expr string) error {
	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("cron expression %q: %w", expr, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.entries[id]; ok {
		s.cron.Remove(old)
	}
	entryID, err := s.cron.AddFunc(expr, func() { s.Run(id) })
	if err != nil {
		return err
	}
	s.entries[id] = entryID
	return nil
}

func (s *Service) unregister(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entryID, ok := s.entries[id]; ok {
		s.cron.Remove(entryID)
		delete(s.entries, id)
	}
}

// Run executes one schedule now: loads the template and the contact group,
// sends to each contact, and records the outcome on the schedule row.
func (s *Service) Run(id uint) {
	runID := uuid.NewString()[:8]
	log := s.log.With(zap.Uint("schedule_id", id), zap.String("run_id", runID))

	var sched BroadcastSchedule
	if err := s.db.First(&sched, id).Error; err != nil {
		log.Error("schedule vanished before run", zap.Error(err))
		return
	}

	var tmpl template.MessageTemplate
	if err := s.db.First(&tmpl, sched.TemplateID).Error; err != nil {
		log.Error("template missing for schedule", zap.Uint("template_id", sched.TemplateID), zap.Error(err))
		s.recordRun(id, "failed", "template missing")
		return
	}

	var audience []contact.Contact
	q := s.db.Model(&contact.Contact{})
	if sched.ContactGroup != "" {
		q = q.Where("group_name = ?", sched.ContactGroup)
	}
	if err := q.Find(&audience).Error; err != nil {
		log.Error("failed to load audience", zap.Error(err))
		s.recordRun(id, "failed", "audience query failed")
		return
	}

	log.Info("broadcast run starting",
		zap.String("session", sched.SessionName),
		zap.String("group", sched.ContactGroup),
		zap.Int("audience", len(audience)))

	sent, failed := 0, 0
	for _, target := range audience {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err := s.sender.SendText(ctx, sched.SessionName, target.Phone, tmpl.Body)
		cancel()
		if err != nil {
			failed++
			log.Warn("broadcast send failed",
				zap.String("recipient", target.Phone), zap.Error(err))
			continue
		}
		sent++
	}

	result := "success"
	if failed > 0 && sent == 0 {
		result = "failed"
	} else if failed > 0 {
		result = "partial"
	}
	s.recordRun(id, result, fmt.Sprintf("sent %d, failed %d of %d", sent, failed, len(audience)))
	log.Info("broadcast run finished",
		zap.Int("sent", sent), zap.Int("failed", failed), zap.String("result", result))
}

func (s *Service) recordRun(id uint, result, message string) {
	now := time.Now()
	err := s.db.Model(&BroadcastSchedule{}).Where("id = ?", id).Updates(map[string]interface{}{
		"last_run_at":  now,
		"last_result":  result,
		"last_message": message,
	}).Error
	if err != nil {
		s.log.Warn("failed to record run outcome", zap.Uint("schedule_id", id), zap.Error(err))
	}
}

// List returns all schedules.
func (s *Service) List() ([]BroadcastSchedule, error) {
	var schedules []BroadcastSchedule
	if err := s.db.Order("name").Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

// Get returns a schedule by ID, or nil when absent.
func (s *Service) Get(id uint) (*BroadcastSchedule, error) {
	var sched BroadcastSchedule
	err := s.db.First(&sched, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule %d: %w", id, err)
	}
	return &sched, nil
}

// Create validates the cron expression, stores the schedule and registers it
// when enabled.
func (s *Service) Create(sched *BroadcastSchedule) error {
	if _, err := cron.ParseStandard(sched.CronExpr); err != nil {
		return fmt.Errorf("cron expression %q: %w", sched.CronExpr, err)
	}
	if err := s.db.Create(sched).Error; err != nil {
		return fmt.Errorf("create schedule %s: %w", sched.Name, err)
	}
	if sched.Enabled {
		return s.register(sched.ID, sched.CronExpr)
	}
	return nil
}

// Update replaces a schedule's fields and re-registers its cron entry.
func (s *Service) Update(id uint, sched *BroadcastSchedule) (bool, error) {
	if _, err := cron.ParseStandard(sched.CronExpr); err != nil {
		return false, fmt.Errorf("cron expression %q: %w", sched.CronExpr, err)
	}
	res := s.db.Model(&BroadcastSchedule{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":          sched.Name,
		"session_name":  sched.SessionName,
		"template_id":   sched.TemplateID,
		"contact_group": sched.ContactGroup,
		"cron_expr":     sched.CronExpr,
		"enabled":       sched.Enabled,
	})
	if res.Error != nil {
		return false, fmt.Errorf("update schedule %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	s.unregister(id)
	if sched.Enabled {
		if err := s.register(id, sched.CronExpr); err != nil {
			return true, err
		}
	}
	return true, nil
}

// Delete removes a schedule and its cron entry.
func (s *Service) Delete(id uint) (bool, error) {
	res := s.db.Delete(&BroadcastSchedule{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete schedule %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	s.unregister(id)
	return true, nil
}
