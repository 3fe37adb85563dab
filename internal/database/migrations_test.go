package database

import (
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/threadworks/comments-api/internal/storage"
	"gorm.io/gorm"
)

func TestBackfillCommentChangedRepairsZeroRows(t *testing.T) {
	db := newTestDatabase(t)

	seeded := []storage.Comment{
		{EntityID: 1, EntityType: storage.EntityTypeNode, Created: 100, Changed: 0, Status: storage.StatusActive},
		{EntityID: 1, EntityType: storage.EntityTypeNode, Created: 200, Changed: 250, Status: storage.StatusActive},
	}
	for i := range seeded {
		if err := db.Create(&seeded[i]).Error; err != nil {
			t.Fatalf("failed to seed comment: %v", err)
		}
	}

	if err := backfillCommentChanged(db); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	var repaired storage.Comment
	if err := db.First(&repaired, "cid = ?", seeded[0].CID).Error; err != nil {
		t.Fatalf("failed to reload comment: %v", err)
	}
	if repaired.Changed != 100 {
		t.Fatalf("expected changed backfilled from created, got %d", repaired.Changed)
	}

	var untouched storage.Comment
	if err := db.First(&untouched, "cid = ?", seeded[1].CID).Error; err != nil {
		t.Fatalf("failed to reload comment: %v", err)
	}
	if untouched.Changed != 250 {
		t.Fatalf("rows with a changed timestamp must not be rewritten, got %d", untouched.Changed)
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	db := newTestDatabase(t)

	if err := applyMigrations(db, nil); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if err := applyMigrations(db, nil); err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	var applied int64
	if err := db.Model(&migrationRecord{}).Count(&applied).Error; err != nil {
		t.Fatalf("failed to count migration records: %v", err)
	}
	if applied != 1 {
		t.Fatalf("expected exactly one migration record, got %d", applied)
	}
}

func newTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:database_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&storage.Comment{}, &migrationRecord{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}
