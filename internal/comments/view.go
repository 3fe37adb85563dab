// Package comments normalizes stored comment records into their API-facing
// shape and assembles flat record sets into parent-nested forests.
package comments

import (
	"sort"

	"github.com/threadworks/comments-api/internal/storage"
)

// FlagPrivate is the only flag currently emitted on comment views.
const FlagPrivate = "private"

// CommentView is the stable API-facing shape of a comment. It is derived per
// request and never persisted. Children is populated only during forest
// assembly; flat views omit it from JSON entirely.
type CommentView struct {
	CID      uint64        `json:"cid"`
	PID      *uint64       `json:"pid"`
	UID      uint64        `json:"uid"`
	Created  int64         `json:"created"`
	Changed  int64         `json:"changed"`
	Private  int           `json:"private"`
	Raw      string        `json:"raw"`
	Flags    []string      `json:"flags"`
	Children []CommentView `json:"children,omitempty"`
}

// Transform normalizes one stored record into its view shape. Absent
// optionals degrade to defaults: a zero pid becomes null, a clear private
// flag yields 0 and an empty flag set.
func Transform(record storage.Comment) CommentView {
	view := CommentView{
		CID:     record.CID,
		UID:     record.UID,
		Created: record.Created,
		Changed: record.Changed,
		Raw:     record.Body,
		Flags:   []string{},
	}
	if record.PID != 0 {
		pid := record.PID
		view.PID = &pid
	}
	if record.IsPrivate {
		view.Private = 1
		view.Flags = append(view.Flags, FlagPrivate)
	}
	return view
}

// AuthorIDs returns the distinct author ids referenced by the given views,
// ascending. It must be collected from the flat list before forest assembly
// drops orphaned views.
func AuthorIDs(views []CommentView) []uint64 {
	seen := make(map[uint64]struct{}, len(views))
	for _, view := range views {
		seen[view.UID] = struct{}{}
	}
	ids := make([]uint64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
