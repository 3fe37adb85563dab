// Package profiles implements the enrichment join that folds user, file,
// points and badge data into the per-author profile map of a thread response.
package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/threadworks/comments-api/internal/points"
	"github.com/threadworks/comments-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	errMissingDatabase     = errors.New("profiles: database handle is required")
	errMissingBadgeService = errors.New("profiles: badge service is required")
)

const (
	opBuildProfiles = "profiles.build_profiles"
)

// ServiceError carries a stable operation.reason code alongside its cause.
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

// Code exposes the stable error code.
func (e *ServiceError) Code() string {
	return e.code
}

func newServiceError(operation, reason string, cause error) error {
	return &ServiceError{code: fmt.Sprintf("%s.%s", operation, reason), err: cause}
}

// UserProfileView is the API-facing profile shape keyed by uid in thread
// envelopes. Every field degrades to an empty/zero default when the backing
// record is partial or missing entirely.
type UserProfileView struct {
	UID        uint64  `json:"uid"`
	ProfileImg string  `json:"profile_img"`
	Points     int     `json:"points"`
	Username   string  `json:"username"`
	FullName   string  `json:"full_name"`
	Initials   string  `json:"initials"`
	AltImg     string  `json:"alt_img"`
	Badges     []int64 `json:"badges"`
}

// ServiceConfig describes the dependencies of the enrichment join.
type ServiceConfig struct {
	Database *gorm.DB
	Badges   points.Service
	// FileBaseURL prefixes stored file URIs when building avatar URLs.
	FileBaseURL string
	Logger      *zap.Logger
}

// Service batch-loads profile and file records and folds them into views.
type Service struct {
	db          *gorm.DB
	badges      points.Service
	fileBaseURL string
	logger      *zap.Logger
}

// NewService constructs the profile service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, errMissingDatabase
	}
	if cfg.Badges == nil {
		return nil, errMissingBadgeService
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:          cfg.Database,
		badges:      cfg.Badges,
		fileBaseURL: cfg.FileBaseURL,
		logger:      logger,
	}, nil
}

// BuildProfiles returns a profile view for every referenced author plus the
// requester. The requester is always present in the output even when they
// authored nothing, because the response's requester block reads from this
// map. Loads are batched: one query for profiles, one for files (skipped
// when no profile references an image).
func (s *Service) BuildProfiles(ctx context.Context, requesterUID uint64, authorUIDs []uint64) (map[uint64]UserProfileView, error) {
	uidSet := make(map[uint64]struct{}, len(authorUIDs)+1)
	for _, uid := range authorUIDs {
		uidSet[uid] = struct{}{}
	}
	uidSet[requesterUID] = struct{}{}

	uids := make([]uint64, 0, len(uidSet))
	for uid := range uidSet {
		uids = append(uids, uid)
	}
	sort.Slice(uids, func(i, j int) bool { return uids[i] < uids[j] })

	var records []storage.UserProfile
	if err := s.db.WithContext(ctx).Where("uid IN ?", uids).Find(&records).Error; err != nil {
		s.logger.Error("profile batch load failed", zap.Int("uid_count", len(uids)), zap.Error(err))
		return nil, newServiceError(opBuildProfiles, "profile_load_failed", err)
	}
	recordByUID := make(map[uint64]storage.UserProfile, len(records))
	for _, record := range records {
		recordByUID[record.UID] = record
	}

	fids := make([]uint64, 0, len(records))
	for _, record := range records {
		if record.ProfileImgFID != 0 {
			fids = append(fids, record.ProfileImgFID)
		}
	}

	fileByFID := make(map[uint64]storage.StoredFile, len(fids))
	if len(fids) > 0 {
		var files []storage.StoredFile
		if err := s.db.WithContext(ctx).Where("fid IN ?", fids).Find(&files).Error; err != nil {
			s.logger.Error("file batch load failed", zap.Int("fid_count", len(fids)), zap.Error(err))
			return nil, newServiceError(opBuildProfiles, "file_load_failed", err)
		}
		for _, file := range files {
			fileByFID[file.FID] = file
		}
	}

	views := make(map[uint64]UserProfileView, len(uids))
	for _, uid := range uids {
		views[uid] = s.composeView(uid, recordByUID[uid], fileByFID)
	}
	return views, nil
}

// composeView folds one profile record into its view. A missing record (zero
// value) still yields a complete entry with defaulted fields.
func (s *Service) composeView(uid uint64, record storage.UserProfile, files map[uint64]storage.StoredFile) UserProfileView {
	imageURL := ""
	if record.ProfileImgFID != 0 {
		if file, ok := files[record.ProfileImgFID]; ok {
			imageURL = s.fileURL(file)
		}
	}

	badges := parseBadgeIDs(record.BadgesJSON)
	badges = append(badges, s.badges.BadgeIDForPoints(record.Points))

	return UserProfileView{
		UID:        uid,
		ProfileImg: imageURL,
		Points:     record.Points,
		Username:   record.Name,
		FullName:   record.Name,
		Initials:   record.Name,
		AltImg:     `<span class="user-initials">` + record.Name + `</span>`,
		Badges:     badges,
	}
}

func (s *Service) fileURL(file storage.StoredFile) string {
	if file.URI == "" {
		return ""
	}
	base := strings.TrimSuffix(s.fileBaseURL, "/")
	return base + "/" + strings.TrimPrefix(file.URI, "/")
}

// parseBadgeIDs reads the stored JSON badge list; anything malformed degrades
// to an empty list.
func parseBadgeIDs(raw string) []int64 {
	if strings.TrimSpace(raw) == "" {
		return []int64{}
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil || ids == nil {
		return []int64{}
	}
	return ids
}
