// Package storage defines the persisted entity records and the batched
// repository used by the comment API handlers.
package storage

const (
	// EntityTypeNode is the owning entity type recorded on every comment.
	EntityTypeNode = "node"
	// StatusActive marks a record as visible to the API.
	StatusActive = 1
)

// Comment is the flat stored comment record. A PID of zero means the comment
// is a thread root.
type Comment struct {
	CID        uint64 `gorm:"column:cid;primaryKey;autoIncrement"`
	PID        uint64 `gorm:"column:pid;not null;default:0;index"`
	UID        uint64 `gorm:"column:uid;not null;default:0"`
	EntityID   uint64 `gorm:"column:entity_id;not null;index:idx_comments_entity,priority:1"`
	EntityType string `gorm:"column:entity_type;size:32;not null;default:'node';index:idx_comments_entity,priority:2"`
	Created    int64  `gorm:"column:created;not null"`
	Changed    int64  `gorm:"column:changed;not null"`
	Body       string `gorm:"column:body;type:text;not null;default:''"`
	IsPrivate  bool   `gorm:"column:is_private;not null;default:false"`
	Status     int    `gorm:"column:status;not null"`
}

// TableName provides the explicit table binding for GORM.
func (Comment) TableName() string {
	return "comments"
}

// Tracker anchors a comment thread to a raw source identifier. At most one
// active tracker is expected per (kind, source_id) pair; the resolver picks
// the first match when that assumption is violated.
type Tracker struct {
	ID       uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	Kind     string `gorm:"column:kind;size:64;not null;index:idx_trackers_lookup,priority:1"`
	Title    string `gorm:"column:title;size:512"`
	SourceID string `gorm:"column:source_id;size:2048;not null;index:idx_trackers_lookup,priority:2"`
	IsLocked bool   `gorm:"column:is_locked;not null;default:false"`
	Status   int    `gorm:"column:status;not null"`
}

// TableName provides the explicit table binding for GORM.
func (Tracker) TableName() string {
	return "trackers"
}

// UserProfile carries the per-author data joined into thread responses.
// BadgesJSON holds a JSON array of badge ids; malformed content degrades to
// an empty list during enrichment rather than failing the request.
type UserProfile struct {
	UID           uint64 `gorm:"column:uid;primaryKey"`
	Name          string `gorm:"column:name;size:320"`
	ProfileImgFID uint64 `gorm:"column:profile_img_fid;not null;default:0"`
	Points        int    `gorm:"column:points;not null;default:0"`
	BadgesJSON    string `gorm:"column:badges;type:text;not null;default:''"`
}

// TableName provides the explicit table binding for GORM.
func (UserProfile) TableName() string {
	return "user_profiles"
}

// StoredFile is a file asset referenced by a profile image field.
type StoredFile struct {
	FID uint64 `gorm:"column:fid;primaryKey;autoIncrement"`
	URI string `gorm:"column:uri;size:2048;not null"`
}

// TableName provides the explicit table binding for GORM.
func (StoredFile) TableName() string {
	return "files"
}
