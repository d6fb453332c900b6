package messaging

import (
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wablastdev/wablast/internal/client"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&InboundMessage{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestRecordAndRecent(t *testing.T) {
	r := NewRecorder(testDB(t), zap.NewNop())
	now := time.Now()

	r.Record("alice", client.Inbound{Sender: "628111", PushName: "Bob", Content: "first", Timestamp: now})
	r.Record("alice", client.Inbound{Sender: "628111", PushName: "Bob", Content: "second", Timestamp: now})
	r.Record("carol", client.Inbound{Sender: "628222", Content: "other session", Timestamp: now})

	rows, err := r.Recent("alice", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	// Newest first.
	if rows[0].Content != "second" || rows[1].Content != "first" {
		t.Errorf("order = %q, %q", rows[0].Content, rows[1].Content)
	}
	if rows[0].Session != "alice" || rows[0].Sender != "628111" {
		t.Errorf("row = %+v", rows[0])
	}
}

func TestRecentLimit(t *testing.T) {
	r := NewRecorder(testDB(t), zap.NewNop())
	for i := 0; i < 5; i++ {
		r.Record("alice", client.Inbound{Sender: "628111", Content: "msg", Timestamp: time.Now()})
	}

	rows, err := r.Recent("alice", 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("rows = %d, want 3", len(rows))
	}

	// Zero limit falls back to the default cap.
	rows, err = r.Recent("alice", 0)
	if err != nil {
		t.Fatalf("recent default: %v", err)
	}
	if len(rows) != 5 {
		t.Errorf("rows = %d, want 5", len(rows))
	}
}
