package template

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&MessageTemplate{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestCreateAndGet(t *testing.T) {
	s := NewService(testDB(t))

	tmpl := MessageTemplate{Name: "promo", Body: "Big sale today"}
	if err := s.Create(&tmpl); err != nil {
		t.Fatalf("create: %v", err)
	}
	if tmpl.ID == 0 {
		t.Fatal("create did not assign an ID")
	}

	got, err := s.Get(tmpl.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Body != "Big sale today" {
		t.Errorf("got = %+v", got)
	}

	missing, err := s.Get(9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("missing = %+v, want nil", missing)
	}
}

func TestUpdateReportsExistence(t *testing.T) {
	s := NewService(testDB(t))
	tmpl := MessageTemplate{Name: "promo", Body: "old"}
	if err := s.Create(&tmpl); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := s.Update(tmpl.ID, "promo", "new body")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated {
		t.Error("update of existing template reported no rows")
	}
	got, _ := s.Get(tmpl.ID)
	if got.Body != "new body" {
		t.Errorf("body = %q after update", got.Body)
	}

	updated, err = s.Update(9999, "x", "y")
	if err != nil {
		t.Fatalf("update missing: %v", err)
	}
	if updated {
		t.Error("update of missing template reported rows")
	}
}

func TestDeleteReportsExistence(t *testing.T) {
	s := NewService(testDB(t))
	tmpl := MessageTemplate{Name: "promo", Body: "x"}
	if err := s.Create(&tmpl); err != nil {
		t.Fatalf("create: %v", err)
	}

	removed, err := s.Delete(tmpl.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !removed {
		t.Error("delete of existing template reported nothing removed")
	}
	removed, err = s.Delete(tmpl.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if removed {
		t.Error("second delete reported a removal")
	}
}
