// Package trackers resolves raw source identifiers to the content records
// ("trackers") that anchor comment threads, and creates new trackers.
package trackers

import (
	"context"
	"errors"
	"fmt"

	"github.com/threadworks/comments-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// KindCommentTracker is the fixed content kind the resolver queries.
const KindCommentTracker = "commenttracker"

var (
	// ErrTrackerNotFound is the expected outcome for as-yet-uncommented
	// content; callers must not treat it as a failure.
	ErrTrackerNotFound = errors.New("trackers: no active tracker for source id")

	errMissingDatabase = errors.New("trackers: database handle is required")
)

// ServiceConfig describes the dependencies of the tracker service.
type ServiceConfig struct {
	Database *gorm.DB
	Logger   *zap.Logger
}

// Service looks up and creates tracker records.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService constructs the tracker service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, errMissingDatabase
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: cfg.Database, logger: logger}, nil
}

// Resolve maps a raw source identifier to the id of the active tracker it is
// attached to. When duplicate active trackers exist the lowest id wins,
// keeping the implementation-defined single match deterministic.
func (s *Service) Resolve(ctx context.Context, rawSourceID string) (uint64, error) {
	var tracker storage.Tracker
	err := s.db.WithContext(ctx).
		Where("kind = ? AND status = ? AND source_id = ?", KindCommentTracker, storage.StatusActive, rawSourceID).
		Order("id ASC").
		First(&tracker).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrTrackerNotFound
	}
	if err != nil {
		s.logger.Error("tracker lookup failed", zap.String("source_id", rawSourceID), zap.Error(err))
		return 0, fmt.Errorf("trackers: resolve source id: %w", err)
	}
	return tracker.ID, nil
}

// Create stores a new active tracker for the given raw source identifier.
func (s *Service) Create(ctx context.Context, title string, isLocked bool, rawSourceID string) (*storage.Tracker, error) {
	tracker := &storage.Tracker{
		Kind:     KindCommentTracker,
		Title:    title,
		SourceID: rawSourceID,
		IsLocked: isLocked,
		Status:   storage.StatusActive,
	}
	if err := s.db.WithContext(ctx).Create(tracker).Error; err != nil {
		s.logger.Error("tracker create failed", zap.String("source_id", rawSourceID), zap.Error(err))
		return nil, fmt.Errorf("trackers: create tracker: %w", err)
	}
	return tracker, nil
}
