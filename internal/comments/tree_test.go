package comments

import (
	"reflect"
	"testing"
)

func pid(value uint64) *uint64 {
	return &value
}

func TestBuildForestNestsChildrenAndDropsOrphans(t *testing.T) {
	views := []CommentView{
		{CID: 1},
		{CID: 2, PID: pid(1)},
		{CID: 3, PID: pid(99)},
	}

	forest := BuildForest(views)

	if len(forest) != 1 {
		t.Fatalf("expected a single root, got %d", len(forest))
	}
	root := forest[0]
	if root.CID != 1 {
		t.Fatalf("unexpected root cid %d", root.CID)
	}
	if len(root.Children) != 1 || root.Children[0].CID != 2 {
		t.Fatalf("unexpected children %+v", root.Children)
	}
	if len(root.Children[0].Children) != 0 {
		t.Fatalf("leaf should have no children: %+v", root.Children[0])
	}
}

func TestBuildForestIsDeterministicUnderPermutation(t *testing.T) {
	base := []CommentView{
		{CID: 1},
		{CID: 2, PID: pid(1)},
		{CID: 3, PID: pid(1)},
		{CID: 4},
		{CID: 5, PID: pid(2)},
	}

	permutations := [][]int{
		{0, 1, 2, 3, 4},
		{4, 3, 2, 1, 0},
		{2, 0, 4, 1, 3},
		{3, 4, 0, 2, 1},
	}

	var reference []CommentView
	for i, order := range permutations {
		permuted := make([]CommentView, 0, len(base))
		for _, idx := range order {
			permuted = append(permuted, base[idx])
		}
		forest := BuildForest(permuted)
		if i == 0 {
			reference = forest
			continue
		}
		if !reflect.DeepEqual(forest, reference) {
			t.Fatalf("permutation %d produced a different forest:\n%+v\nwant\n%+v", i, forest, reference)
		}
	}

	if len(reference) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(reference))
	}
}

func TestBuildForestOrdersSiblingsByCID(t *testing.T) {
	views := []CommentView{
		{CID: 1},
		{CID: 7, PID: pid(1)},
		{CID: 3, PID: pid(1)},
		{CID: 5, PID: pid(1)},
	}

	forest := BuildForest(views)
	if len(forest) != 1 {
		t.Fatalf("expected one root, got %d", len(forest))
	}

	got := make([]uint64, 0, len(forest[0].Children))
	for _, child := range forest[0].Children {
		got = append(got, child.CID)
	}
	if !reflect.DeepEqual(got, []uint64{3, 5, 7}) {
		t.Fatalf("siblings out of order: %v", got)
	}
}

func TestBuildForestContainsEveryNonOrphanExactlyOnce(t *testing.T) {
	views := []CommentView{
		{CID: 1},
		{CID: 2, PID: pid(1)},
		{CID: 3, PID: pid(2)},
		{CID: 4},
		{CID: 5, PID: pid(4)},
		{CID: 6, PID: pid(40)},
		{CID: 7, PID: pid(6)},
	}

	forest := BuildForest(views)

	counts := map[uint64]int{}
	var walk func(nodes []CommentView)
	walk = func(nodes []CommentView) {
		for _, node := range nodes {
			counts[node.CID]++
			walk(node.Children)
		}
	}
	walk(forest)

	for _, want := range []uint64{1, 2, 3, 4, 5} {
		if counts[want] != 1 {
			t.Fatalf("cid %d appeared %d times", want, counts[want])
		}
	}
	// 6 is orphaned; 7 descends only from 6 and vanishes with it.
	for _, dropped := range []uint64{6, 7} {
		if counts[dropped] != 0 {
			t.Fatalf("orphaned cid %d leaked into forest", dropped)
		}
	}
}

func TestBuildForestEmptyInput(t *testing.T) {
	forest := BuildForest(nil)
	if len(forest) != 0 {
		t.Fatalf("expected empty forest, got %+v", forest)
	}
}
