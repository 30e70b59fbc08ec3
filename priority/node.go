package priority

import "math/big"

// node is a single stream in the priority forest. The tree owns every
// node in a flat id-keyed table; a node's parent link is a non-owning
// back-reference, and its children are owned by its own childScheduler.
// This avoids the ownership cycle a naive parent/child pointer pair
// would create.
type node struct {
	id      uint32
	weight  int
	parent  *node
	blocked bool
	active  bool

	// children holds this node's scheduler of active children. Every
	// node, including leaves, owns one. A leaf's scheduler is simply
	// always empty.
	children *childScheduler

	// childList holds every child of this node, active or not, in
	// attachment order. It is the structural record used by exclusive
	// reparenting, removal, and the splice rule: operations that must
	// see blocked children too, not just the ones currently competing
	// for service in children.
	childList []*node

	// lastVirtualFinish mirrors the key this node was last (re)inserted
	// into its parent's scheduler under. It is bookkeeping for
	// introspection only; the scheduler's own heap entries are the
	// source of truth used for ordering.
	lastVirtualFinish *big.Rat
}

func newNode(id uint32, weight int) *node {
	return &node{
		id:       id,
		weight:   weight,
		blocked:  true,
		children: newChildScheduler(),
	}
}

// isRoot reports whether this node is the synthetic pseudo-stream.
func (n *node) isRoot() bool {
	return n.id == 0
}

// recomputeActive derives this node's active flag from its own blocked
// flag and whether it has any active child:
//
//	active(n) = !blocked(n) || exists c in children(n): active(c)
//
// The root is a special case: it has no "blocked" concept of its own, so
// it is active iff it has any active child at all.
func (n *node) recomputeActive() bool {
	if n.isRoot() {
		return !n.children.isEmpty()
	}
	return !n.blocked || !n.children.isEmpty()
}
