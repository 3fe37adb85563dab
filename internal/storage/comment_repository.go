package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var errMissingDatabase = errors.New("storage: database handle is required")

// CommentRepository is the query/load/save/delete surface over the comment
// store. Every batch operation issues a single round trip for the whole id
// set; callers never loop per row.
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository wraps the provided database handle.
func NewCommentRepository(db *gorm.DB) (*CommentRepository, error) {
	if db == nil {
		return nil, errMissingDatabase
	}
	return &CommentRepository{db: db}, nil
}

// FindByOwner returns the ids of all comments attached to the given owning
// entity, ascending by cid.
func (r *CommentRepository) FindByOwner(ctx context.Context, ownerID uint64) ([]uint64, error) {
	var cids []uint64
	err := r.db.WithContext(ctx).
		Model(&Comment{}).
		Where("entity_id = ? AND entity_type = ?", ownerID, EntityTypeNode).
		Order("cid ASC").
		Pluck("cid", &cids).Error
	if err != nil {
		return nil, fmt.Errorf("storage: find comments by owner %d: %w", ownerID, err)
	}
	return cids, nil
}

// FindByID returns zero or one comment id matching the given cid. The
// list-returning shape mirrors FindByOwner so callers load both the same way.
func (r *CommentRepository) FindByID(ctx context.Context, cid uint64) ([]uint64, error) {
	var cids []uint64
	err := r.db.WithContext(ctx).
		Model(&Comment{}).
		Where("cid = ?", cid).
		Pluck("cid", &cids).Error
	if err != nil {
		return nil, fmt.Errorf("storage: find comment %d: %w", cid, err)
	}
	return cids, nil
}

// LoadMany fetches all requested comment records in one query, keyed by cid.
// Ids with no backing record are simply absent from the result.
func (r *CommentRepository) LoadMany(ctx context.Context, cids []uint64) (map[uint64]Comment, error) {
	records := make(map[uint64]Comment, len(cids))
	if len(cids) == 0 {
		return records, nil
	}
	var rows []Comment
	if err := r.db.WithContext(ctx).Where("cid IN ?", cids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("storage: load %d comments: %w", len(cids), err)
	}
	for _, row := range rows {
		records[row.CID] = row
	}
	return records, nil
}

// Create persists a new comment record; the store assigns its cid.
func (r *CommentRepository) Create(ctx context.Context, record *Comment) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("storage: create comment: %w", err)
	}
	return nil
}

// Save writes the full record back to the store.
func (r *CommentRepository) Save(ctx context.Context, record *Comment) error {
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		return fmt.Errorf("storage: save comment %d: %w", record.CID, err)
	}
	return nil
}

// Delete removes the given records in one statement. An empty slice is a
// no-op.
func (r *CommentRepository) Delete(ctx context.Context, records []Comment) error {
	if len(records) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Delete(&records).Error; err != nil {
		return fmt.Errorf("storage: delete %d comments: %w", len(records), err)
	}
	return nil
}
