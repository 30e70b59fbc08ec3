package priority

// Iterator produces an endless, lazy, restartable sequence of stream ids
// to serve. It has no coroutine or generator machinery: each call to
// Next works from the tree's current state (and advances the clocks of
// the schedulers it descends through). The caller
// decides when to stop calling Next; there is no cancellation to wire up.
type Iterator struct {
	tree *Tree
}

// Iterator returns a handle for pulling stream ids to serve from t.
// Concurrent mutation of t between calls to Next is fine: each Next
// observes the tree as of its own call.
func (t *Tree) Iterator() *Iterator {
	return &Iterator{tree: t}
}

// Next descends from the root along child schedulers, popping the
// highest-priority active child at each level, until it reaches a stream
// that is itself unblocked. That stream's id is returned. Every node
// popped along the way, including the yielded one, is re-added to its
// respective parent's scheduler, re-keyed to that parent's now-advanced
// local clock. This is what produces weighted round-robin at each level
// on every call.
//
// Next returns ErrDeadlock if no user stream is currently active (the
// root's scheduler is empty). Resuming iteration after unblocking
// something is always valid; Deadlock is informational, not terminal.
func (it *Iterator) Next() (uint32, error) {
	t := it.tree
	if t.root.children.isEmpty() {
		t.log().str("op", "deadlock").msg()
		return 0, newError(ErrDeadlock, 0)
	}

	var path []*node
	cursor := t.root
	for {
		child := cursor.children.popNext()
		path = append(path, child)
		if !child.blocked {
			break
		}
		// child is blocked but was active, so by invariant 4 it must
		// have at least one active descendant; descend into it.
		cursor = child
	}

	parent := t.root
	for _, n := range path {
		parent.children.add(n)
		parent = n
	}

	yielded := path[len(path)-1].id
	t.log().id(yielded).str("op", "iterator_next").msg()
	return yielded, nil
}
