package comments

import (
	"reflect"
	"testing"

	"github.com/threadworks/comments-api/internal/storage"
)

func TestTransformDefaults(t *testing.T) {
	view := Transform(storage.Comment{CID: 10, UID: 3})

	if view.CID != 10 || view.UID != 3 {
		t.Fatalf("identity fields not carried: %+v", view)
	}
	if view.PID != nil {
		t.Fatalf("zero pid should map to nil, got %v", *view.PID)
	}
	if view.Private != 0 {
		t.Fatalf("expected private 0, got %d", view.Private)
	}
	if view.Raw != "" {
		t.Fatalf("expected empty body, got %q", view.Raw)
	}
	if len(view.Flags) != 0 {
		t.Fatalf("expected no flags, got %v", view.Flags)
	}
	if view.Children != nil {
		t.Fatalf("flat transform must not allocate children")
	}
}

func TestTransformPrivateComment(t *testing.T) {
	view := Transform(storage.Comment{CID: 11, PID: 10, UID: 3, Created: 100, Changed: 150, Body: "hidden note", IsPrivate: true})

	if view.PID == nil || *view.PID != 10 {
		t.Fatalf("expected pid 10, got %v", view.PID)
	}
	if view.Private != 1 {
		t.Fatalf("expected private 1, got %d", view.Private)
	}
	if !reflect.DeepEqual(view.Flags, []string{FlagPrivate}) {
		t.Fatalf("expected private flag, got %v", view.Flags)
	}
	if view.Created != 100 || view.Changed != 150 {
		t.Fatalf("timestamps not carried: %+v", view)
	}
	if view.Raw != "hidden note" {
		t.Fatalf("body not carried: %q", view.Raw)
	}
}

func TestAuthorIDsDeduplicatesAndSorts(t *testing.T) {
	views := []CommentView{
		{CID: 1, UID: 9},
		{CID: 2, UID: 2},
		{CID: 3, UID: 9},
		{CID: 4, UID: 5},
	}

	ids := AuthorIDs(views)
	if !reflect.DeepEqual(ids, []uint64{2, 5, 9}) {
		t.Fatalf("unexpected author ids %v", ids)
	}
}

func TestAuthorIDsEmptyInput(t *testing.T) {
	if ids := AuthorIDs(nil); len(ids) != 0 {
		t.Fatalf("expected no ids, got %v", ids)
	}
}
