// Package priority implements the HTTP/2 stream-priority scheduler
// defined by RFC 7540 §5.3: a mutable weighted-fair forest of streams,
// plus an iterator that answers "which stream transmits next?"
//
// The tree is a single-threaded, synchronous data structure (see
// Tree's doc comment). There is no wire codec, no socket I/O, and no
// internal locking. Callers supply stream ids and blocked/unblocked
// signals; the Iterator returned by Tree.Iterator hands back stream ids
// to serve.
package priority

import (
	"sort"

	"github.com/gammazero/deque"
	mapset "github.com/deckarep/golang-set/v2"
)

// Tree owns every stream node in a flat id-keyed table and enforces these
// invariants:
//
//  1. every non-root node has exactly one parent; the parent relation is
//     acyclic.
//  2. every id in the table maps to exactly one node and vice versa; id 0
//     is never user-visible.
//  3. a node appears in its parent's scheduler iff it is active.
//  4. active(n) = !blocked(n) || exists c in children(n): active(c).
//  5. weight is always in [1,256].
//  6. the root is active as long as any user stream exists and is active.
//
// Tree is not safe for concurrent use from multiple goroutines; any
// sharing across goroutines is the caller's responsibility to
// synchronize externally.
type Tree struct {
	root            *node
	streams         map[uint32]*node
	config          TreeConfig
	userStreamCount int
}

// NewTree constructs a Tree. cfg.MaximumStreams must be a positive
// integer or NewTree returns ErrBadTreeConfig. Use DefaultTreeConfig for
// a default cap of 1000.
func NewTree(cfg TreeConfig) (*Tree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	root := newNode(0, 0)
	root.blocked = false
	return &Tree{
		root:    root,
		streams: map[uint32]*node{0: root},
		config:  cfg,
	}, nil
}

func (t *Tree) log() *logEvent {
	return &logEvent{ev: t.config.logger().Debug()}
}

// InsertStream adds a new stream. It is inserted blocked by default (a
// freshly inserted stream is assumed not yet ready to transmit); callers
// who want it eligible immediately call Unblock afterward.
//
// An unknown or removed DependsOn is treated permissively as the root
// (RFC 7540 allows referring to idle/closed streams). This permissiveness
// does not extend to Reprioritize.
func (t *Tree) InsertStream(streamID uint32, opts StreamOptions) error {
	if streamID == 0 {
		return newError(ErrPseudoStream, 0)
	}
	if _, exists := t.streams[streamID]; exists {
		return newError(ErrDuplicateStream, streamID)
	}
	weight := opts.weightOrDefault()
	if weight < MinWeight || weight > MaxWeight {
		return newError(ErrBadWeight, streamID)
	}
	dependsOn := opts.dependsOnOrRoot()
	if dependsOn == streamID {
		return newError(ErrPriorityLoop, streamID)
	}
	if t.userStreamCount >= t.config.MaximumStreams {
		return newError(ErrTooManyStreams, streamID)
	}

	parent, ok := t.streams[dependsOn]
	if !ok {
		parent = t.root
	}

	n := newNode(streamID, weight)

	if opts.Exclusive {
		t.reparentExclusive(parent, n)
	}
	t.attach(parent, n)
	t.refreshActive(parent)

	t.streams[streamID] = n
	t.userStreamCount++

	t.log().id(streamID).str("op", "insert_stream").msg()
	return nil
}

// Reprioritize changes an existing stream's weight, parent, and
// exclusivity. Unlike InsertStream, DependsOn must name a live stream (or
// be absent, meaning root); an unknown DependsOn is ErrMissingStream.
//
// If DependsOn would make streamID its own ancestor, the RFC 7540 §5.3.3
// "move" procedure applies first: streamID's current children are
// spliced into streamID's current parent at streamID's position, and
// only then is streamID moved beneath the new parent.
func (t *Tree) Reprioritize(streamID uint32, opts StreamOptions) error {
	if streamID == 0 {
		return newError(ErrPseudoStream, 0)
	}
	n, ok := t.streams[streamID]
	if !ok {
		return newError(ErrMissingStream, streamID)
	}
	weight := opts.weightOrDefault()
	if weight < MinWeight || weight > MaxWeight {
		return newError(ErrBadWeight, streamID)
	}
	dependsOn := opts.dependsOnOrRoot()
	if dependsOn == streamID {
		return newError(ErrPriorityLoop, streamID)
	}
	newParent, ok := t.streams[dependsOn]
	if !ok {
		return newError(ErrMissingStream, dependsOn)
	}

	oldParent := n.parent
	if oldParent.children.has(n.id) {
		oldParent.children.remove(n)
	}

	if t.isDescendant(newParent, n) {
		t.log().id(streamID).str("op", "reprioritize_splice").msg()
		t.promoteChildren(n)
	} else {
		removeFromChildList(oldParent, n)
	}

	n.weight = weight

	if opts.Exclusive {
		t.reparentExclusive(newParent, n)
	}
	t.attach(newParent, n)

	t.refreshActive(oldParent)
	if newParent != oldParent {
		t.refreshActive(newParent)
	}

	t.log().id(streamID).str("op", "reprioritize").msg()
	return nil
}

// RemoveStream deletes a stream, reparenting its children to its own
// parent (preserving their relative order: the removed node's slot among
// its siblings is taken by the head of its child list, the rest follow).
// Not idempotent: removing the same id twice is ErrMissingStream.
func (t *Tree) RemoveStream(streamID uint32) error {
	if streamID == 0 {
		return newError(ErrPseudoStream, 0)
	}
	n, ok := t.streams[streamID]
	if !ok {
		return newError(ErrMissingStream, streamID)
	}

	parent := n.parent
	if parent.children.has(n.id) {
		parent.children.remove(n)
	}
	t.promoteChildren(n)

	delete(t.streams, streamID)
	t.userStreamCount--

	t.refreshActive(parent)
	t.log().id(streamID).str("op", "remove_stream").msg()
	return nil
}

// Block marks a stream as unable to transmit. Idempotent.
func (t *Tree) Block(streamID uint32) error {
	return t.setBlocked(streamID, true, "block")
}

// Unblock marks a stream as able to transmit. Idempotent.
func (t *Tree) Unblock(streamID uint32) error {
	return t.setBlocked(streamID, false, "unblock")
}

func (t *Tree) setBlocked(streamID uint32, blocked bool, op string) error {
	if streamID == 0 {
		return newError(ErrPseudoStream, 0)
	}
	n, ok := t.streams[streamID]
	if !ok {
		return newError(ErrMissingStream, streamID)
	}
	n.blocked = blocked
	t.refreshActive(n)
	t.log().id(streamID).str("op", op).msg()
	return nil
}

// Weight returns a live stream's current weight.
func (t *Tree) Weight(streamID uint32) (int, error) {
	n, err := t.requireUserStream(streamID)
	if err != nil {
		return 0, err
	}
	return n.weight, nil
}

// IsActive returns a live stream's current active flag.
func (t *Tree) IsActive(streamID uint32) (bool, error) {
	n, err := t.requireUserStream(streamID)
	if err != nil {
		return false, err
	}
	return n.active, nil
}

// Parent returns a live stream's current parent id. The root is reported
// as parent id 0.
func (t *Tree) Parent(streamID uint32) (uint32, error) {
	n, err := t.requireUserStream(streamID)
	if err != nil {
		return 0, err
	}
	return n.parent.id, nil
}

func (t *Tree) requireUserStream(streamID uint32) (*node, error) {
	if streamID == 0 {
		return nil, newError(ErrPseudoStream, 0)
	}
	n, ok := t.streams[streamID]
	if !ok {
		return nil, newError(ErrMissingStream, streamID)
	}
	return n, nil
}

// StreamSnapshot is a read-only view of one live stream, returned by
// Tree.Snapshot.
type StreamSnapshot struct {
	ID       uint32
	Weight   int
	ParentID uint32
	Blocked  bool
	Active   bool
}

// Snapshot dumps every live user stream, ordered by id, for callers that
// want to inspect or assert on tree shape without reaching into
// internals.
func (t *Tree) Snapshot() []StreamSnapshot {
	out := make([]StreamSnapshot, 0, len(t.streams)-1)
	for id, n := range t.streams {
		if id == 0 {
			continue
		}
		out = append(out, StreamSnapshot{
			ID:       n.id,
			Weight:   n.weight,
			ParentID: n.parent.id,
			Blocked:  n.blocked,
			Active:   n.active,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// --- internal tree surgery ---

// attach sets n's parent, appends n to the parent's child list, computes
// n's active flag from whatever children it already has (relevant for
// exclusive insertion/reprioritization, where n may have just inherited
// children), and registers n in the parent's scheduler if active.
func (t *Tree) attach(parent, n *node) {
	n.parent = parent
	parent.childList = append(parent.childList, n)
	n.active = n.recomputeActive()
	if n.active {
		parent.children.add(n)
	}
}

// refreshActive recomputes n's active flag and, only while it actually
// changes, walks upward: at each level it (de)registers the node in its
// parent's scheduler and continues to the parent, stopping as soon as a
// level's activeness is unaffected. This keeps mutation O(depth) rather
// than O(nodes).
func (t *Tree) refreshActive(n *node) {
	for {
		newActive := n.recomputeActive()
		if newActive == n.active {
			return
		}
		n.active = newActive
		if n.isRoot() {
			return
		}
		parent := n.parent
		if n.active {
			if !parent.children.has(n.id) {
				parent.children.add(n)
			}
		} else if parent.children.has(n.id) {
			parent.children.remove(n)
		}
		n = parent
	}
}

// reparentExclusive detaches all of parent's current children (preserving
// order) and reattaches them under n, preserving each child's own weight
// and active state. Must be called before n itself is attached to parent.
func (t *Tree) reparentExclusive(parent, n *node) {
	moving := parent.childList
	parent.childList = nil

	q := deque.New[*node](len(moving))
	for _, c := range moving {
		q.PushBack(c)
	}
	for q.Len() > 0 {
		c := q.PopFront()
		if parent.children.has(c.id) {
			parent.children.remove(c)
		}
		c.parent = n
		n.childList = append(n.childList, c)
		if c.active {
			n.children.add(c)
		}
	}
}

// promoteChildren moves every child of n up to become a child of n's
// current parent, preserving order, splicing them into the parent's
// child list at the slot n itself occupies. This is the shared mechanics
// behind RFC 7540 §5.3.3's "move" procedure (used by Reprioritize's
// splice case) and RemoveStream's reparenting. n is left with no
// children and is removed from its parent's child list as part of this
// call; the caller is responsible for n's own fate (reattach it
// elsewhere, or discard it).
func (t *Tree) promoteChildren(n *node) {
	parent := n.parent
	idx := indexOf(parent.childList, n)

	moving := n.childList
	n.childList = nil

	q := deque.New[*node](len(moving))
	for _, c := range moving {
		q.PushBack(c)
	}
	promoted := make([]*node, 0, q.Len())
	for q.Len() > 0 {
		c := q.PopFront()
		if n.children.has(c.id) {
			n.children.remove(c)
		}
		c.parent = parent
		if c.active {
			parent.children.add(c)
		}
		promoted = append(promoted, c)
	}

	newList := make([]*node, 0, len(parent.childList)-1+len(promoted))
	newList = append(newList, parent.childList[:idx]...)
	newList = append(newList, promoted...)
	newList = append(newList, parent.childList[idx+1:]...)
	parent.childList = newList
}

// isDescendant reports whether ancestor appears in candidate's chain of
// parents, i.e. whether candidate depends, directly or transitively, on
// ancestor. Used to detect the splice case when reprioritizing would
// otherwise make a node its own ancestor. The visited set guards against
// looping forever if a latent cycle existed.
func (t *Tree) isDescendant(candidate, ancestor *node) bool {
	visited := mapset.NewThreadUnsafeSet[uint32]()
	cur := candidate
	for {
		if cur.id == ancestor.id {
			return true
		}
		if cur.isRoot() {
			return false
		}
		if visited.Contains(cur.id) {
			return false
		}
		visited.Add(cur.id)
		cur = cur.parent
	}
}

func removeFromChildList(parent, n *node) {
	for i, c := range parent.childList {
		if c == n {
			parent.childList = append(parent.childList[:i], parent.childList[i+1:]...)
			return
		}
	}
}

func indexOf(list []*node, n *node) int {
	for i, c := range list {
		if c == n {
			return i
		}
	}
	return -1
}
