package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestFindByOwnerReturnsAscendingCIDs(t *testing.T) {
	repo, db := newTestRepository(t)
	seedComments(t, db,
		Comment{EntityID: 7, EntityType: EntityTypeNode, Created: 100, Changed: 100, Body: "first"},
		Comment{EntityID: 7, EntityType: EntityTypeNode, Created: 200, Changed: 200, Body: "second"},
		Comment{EntityID: 9, EntityType: EntityTypeNode, Created: 300, Changed: 300, Body: "other thread"},
	)

	cids, err := repo.FindByOwner(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cids) != 2 {
		t.Fatalf("expected 2 cids, got %d", len(cids))
	}
	if cids[0] >= cids[1] {
		t.Fatalf("cids not ascending: %v", cids)
	}
}

func TestFindByIDUsesListShape(t *testing.T) {
	repo, db := newTestRepository(t)
	seedComments(t, db, Comment{EntityID: 1, EntityType: EntityTypeNode, Created: 1, Changed: 1})

	cids, err := repo.FindByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cids) != 1 || cids[0] != 1 {
		t.Fatalf("unexpected cids %v", cids)
	}

	missing, err := repo.FindByID(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(missing) != 0 {
		t.Fatalf("expected empty result for missing cid, got %v", missing)
	}
}

func TestLoadManySkipsAbsentIDs(t *testing.T) {
	repo, db := newTestRepository(t)
	seedComments(t, db,
		Comment{EntityID: 1, EntityType: EntityTypeNode, Created: 1, Changed: 1, Body: "kept"},
	)

	records, err := repo.LoadMany(context.Background(), []uint64{1, 99})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[1].Body != "kept" {
		t.Fatalf("unexpected record %+v", records[1])
	}
}

func TestLoadManyEmptyInputSkipsQuery(t *testing.T) {
	repo, _ := newTestRepository(t)

	records, err := repo.LoadMany(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty map, got %v", records)
	}
}

func TestDeleteRemovesRecords(t *testing.T) {
	repo, db := newTestRepository(t)
	seedComments(t, db,
		Comment{EntityID: 1, EntityType: EntityTypeNode, Created: 1, Changed: 1},
		Comment{EntityID: 1, EntityType: EntityTypeNode, Created: 2, Changed: 2},
	)

	records, err := repo.LoadMany(context.Background(), []uint64{1, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	toDelete := make([]Comment, 0, len(records))
	for _, record := range records {
		toDelete = append(toDelete, record)
	}
	if err := repo.Delete(context.Background(), toDelete); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}

	var remaining int64
	if err := db.Model(&Comment{}).Count(&remaining).Error; err != nil {
		t.Fatalf("failed to count comments: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected all comments deleted, %d remain", remaining)
	}

	if err := repo.Delete(context.Background(), nil); err != nil {
		t.Fatalf("empty delete should be a no-op, got %v", err)
	}
}

func newTestRepository(t *testing.T) (*CommentRepository, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:comments_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Comment{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	repo, err := NewCommentRepository(db)
	if err != nil {
		t.Fatalf("failed to construct repository: %v", err)
	}
	return repo, db
}

func seedComments(t *testing.T, db *gorm.DB, records ...Comment) {
	t.Helper()
	for i := range records {
		if err := db.Create(&records[i]).Error; err != nil {
			t.Fatalf("failed to seed comment: %v", err)
		}
	}
}
