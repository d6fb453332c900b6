package schedule

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wablastdev/wablast/internal/contact"
	"github.com/wablastdev/wablast/internal/template"
)

type fakeSender struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]error
}

func (f *fakeSender) SendText(_ context.Context, user, phoneNumber, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[phoneNumber]; ok {
		return err
	}
	f.sent = append(f.sent, phoneNumber)
	return nil
}

func (f *fakeSender) recipients() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(&BroadcastSchedule{}, &template.MessageTemplate{}, &contact.Contact{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seed(t *testing.T, db *gorm.DB) (tmplID uint) {
	t.Helper()
	tmpl := template.MessageTemplate{Name: "promo", Body: "Big sale"}
	if err := db.Create(&tmpl).Error; err != nil {
		t.Fatalf("seed template: %v", err)
	}
	contacts := []contact.Contact{
		{Name: "Alice", Phone: "628111", GroupName: "vip"},
		{Name: "Bob", Phone: "628222", GroupName: "vip"},
		{Name: "Carol", Phone: "628333", GroupName: "regular"},
	}
	if err := db.Create(&contacts).Error; err != nil {
		t.Fatalf("seed contacts: %v", err)
	}
	return tmpl.ID
}

func TestCreateRejectsBadCron(t *testing.T) {
	s := NewService(testDB(t), &fakeSender{}, zap.NewNop())
	err := s.Create(&BroadcastSchedule{
		Name:        "broken",
		SessionName: "alice",
		TemplateID:  1,
		CronExpr:    "not a cron",
	})
	if err == nil {
		t.Fatal("bad cron expression accepted")
	}
	schedules, _ := s.List()
	if len(schedules) != 0 {
		t.Errorf("bad schedule was stored: %+v", schedules)
	}
}

func TestRunSendsToGroup(t *testing.T) {
	db := testDB(t)
	tmplID := seed(t, db)
	sender := &fakeSender{}
	s := NewService(db, sender, zap.NewNop())

	sched := BroadcastSchedule{
		Name:         "vip-blast",
		SessionName:  "alice",
		TemplateID:   tmplID,
		ContactGroup: "vip",
		CronExpr:     "0 9 * * *",
	}
	if err := s.Create(&sched); err != nil {
		t.Fatalf("create: %v", err)
	}

	s.Run(sched.ID)

	got := sender.recipients()
	if len(got) != 2 {
		t.Fatalf("sent to %v, want the two vip contacts", got)
	}

	after, err := s.Get(sched.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if after.LastRunAt == nil {
		t.Error("LastRunAt not recorded")
	}
	if after.LastResult != "success" {
		t.Errorf("LastResult = %q, want success", after.LastResult)
	}
}

func TestRunEmptyGroupMeansEveryone(t *testing.T) {
	db := testDB(t)
	tmplID := seed(t, db)
	sender := &fakeSender{}
	s := NewService(db, sender, zap.NewNop())

	sched := BroadcastSchedule{
		Name:        "all-blast",
		SessionName: "alice",
		TemplateID:  tmplID,
		CronExpr:    "0 9 * * *",
	}
	if err := s.Create(&sched); err != nil {
		t.Fatalf("create: %v", err)
	}

	s.Run(sched.ID)

	if got := sender.recipients(); len(got) != 3 {
		t.Errorf("sent to %v, want all three contacts", got)
	}
}

func TestRunRecordsPartialFailure(t *testing.T) {
	db := testDB(t)
	tmplID := seed(t, db)
	sender := &fakeSender{failFor: map[string]error{"628222": errors.New("not ready")}}
	s := NewService(db, sender, zap.NewNop())

	sched := BroadcastSchedule{
		Name:         "vip-blast",
		SessionName:  "alice",
		TemplateID:   tmplID,
		ContactGroup: "vip",
		CronExpr:     "0 9 * * *",
	}
	if err := s.Create(&sched); err != nil {
		t.Fatalf("create: %v", err)
	}

	s.Run(sched.ID)

	after, _ := s.Get(sched.ID)
	if after.LastResult != "partial" {
		t.Errorf("LastResult = %q, want partial", after.LastResult)
	}
}

func TestRunMissingTemplateRecordsFailure(t *testing.T) {
	db := testDB(t)
	seed(t, db)
	s := NewService(db, &fakeSender{}, zap.NewNop())

	sched := BroadcastSchedule{
		Name:        "orphan",
		SessionName: "alice",
		TemplateID:  9999,
		CronExpr:    "0 9 * * *",
	}
	if err := s.Create(&sched); err != nil {
		t.Fatalf("create: %v", err)
	}

	s.Run(sched.ID)

	after, _ := s.Get(sched.ID)
	if after.LastResult != "failed" {
		t.Errorf("LastResult = %q, want failed", after.LastResult)
	}
}

func TestUpdateAndDeleteReportExistence(t *testing.T) {
	db := testDB(t)
	tmplID := seed(t, db)
	s := NewService(db, &fakeSender{}, zap.NewNop())

	sched := BroadcastSchedule{
		Name:        "blast",
		SessionName: "alice",
		TemplateID:  tmplID,
		CronExpr:    "0 9 * * *",
	}
	if err := s.Create(&sched); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := s.Update(sched.ID, &BroadcastSchedule{
		Name:        "blast",
		SessionName: "bob",
		TemplateID:  tmplID,
		CronExpr:    "30 8 * * 1",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated {
		t.Error("update of existing schedule reported no rows")
	}
	after, _ := s.Get(sched.ID)
	if after.SessionName != "bob" || after.CronExpr != "30 8 * * 1" {
		t.Errorf("after update = %+v", after)
	}

	updated, err = s.Update(9999, &BroadcastSchedule{CronExpr: "0 9 * * *"})
	if err != nil {
		t.Fatalf("update missing: %v", err)
	}
	if updated {
		t.Error("update of missing schedule reported rows")
	}

	removed, err := s.Delete(sched.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !removed {
		t.Error("delete of existing schedule reported nothing removed")
	}
	removed, _ = s.Delete(sched.ID)
	if removed {
		t.Error("second delete reported a removal")
	}
}
