package comments

import "sort"

// treeNode is one arena slot during forest assembly. Children hold arena
// indices rather than view aliases, so no node is reachable through two
// mutable paths while the forest is under construction.
type treeNode struct {
	view     CommentView
	children []int
}

// BuildForest assembles an unordered set of views for one owning entity into
// a parent-nested forest.
//
// Views are sorted by cid ascending first. Because cids are assigned
// monotonically at creation and a child is always created after its parent,
// the sort guarantees every parent is indexed before any of its children. A
// view whose pid references a cid absent from the input set is dropped from
// the output entirely; it is never promoted to root.
//
// The output is deterministic for a given input multiset: ordering is
// re-established by the sort, never inherited from input order.
func BuildForest(views []CommentView) []CommentView {
	sorted := make([]CommentView, len(views))
	copy(sorted, views)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CID < sorted[j].CID })

	arena := make([]treeNode, len(sorted))
	index := make(map[uint64]int, len(sorted))
	for i, view := range sorted {
		arena[i] = treeNode{view: view}
		index[view.CID] = i
	}

	roots := make([]int, 0, len(sorted))
	for i := range arena {
		pid := arena[i].view.PID
		if pid == nil || *pid == 0 {
			roots = append(roots, i)
			continue
		}
		parent, ok := index[*pid]
		if !ok {
			// Orphaned reference: the parent was deleted out from under
			// this comment. Dropped, not promoted.
			continue
		}
		arena[parent].children = append(arena[parent].children, i)
	}

	forest := make([]CommentView, 0, len(roots))
	for _, root := range roots {
		forest = append(forest, materialize(arena, root))
	}
	return forest
}

// materialize copies the subtree rooted at the given arena slot into a
// self-contained nested view. Siblings keep their arena scan order, which is
// ascending cid.
func materialize(arena []treeNode, slot int) CommentView {
	view := arena[slot].view
	view.Children = make([]CommentView, 0, len(arena[slot].children))
	for _, child := range arena[slot].children {
		view.Children = append(view.Children, materialize(arena, child))
	}
	return view
}
