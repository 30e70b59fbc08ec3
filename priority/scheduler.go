package priority

import (
	"container/heap"
	"math/big"
)

// childScheduler is the weighted-fair queue a node keeps over its own
// active children. It orders children by virtual finish time, a
// monotonically-growing rational key, via a min-heap of
// (finish, sequence, node), giving O(log k) add/remove/pop in the number
// of active children k.
type childScheduler struct {
	clock *big.Rat
	items schedHeap
	byID  map[uint32]*schedEntry
	seq   uint64
}

type schedEntry struct {
	node   *node
	finish *big.Rat
	seq    uint64
	index  int
}

type schedHeap []*schedEntry

func (h schedHeap) Len() int { return len(h) }

func (h schedHeap) Less(i, j int) bool {
	if c := h[i].finish.Cmp(h[j].finish); c != 0 {
		return c < 0
	}
	// Tie-break by insertion order so equal-finish children behave FIFO.
	return h[i].seq < h[j].seq
}

func (h schedHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *schedHeap) Push(x any) {
	e := x.(*schedEntry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *schedHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

func newChildScheduler() *childScheduler {
	return &childScheduler{
		clock: new(big.Rat),
		byID:  make(map[uint32]*schedEntry),
	}
}

func (s *childScheduler) isEmpty() bool {
	return len(s.items) == 0
}

func (s *childScheduler) has(id uint32) bool {
	_, ok := s.byID[id]
	return ok
}

// add registers n as an active child, keyed by the scheduler's current
// local clock. Re-adding a child that was previously popped re-keys it
// against the current clock rather than any stale prior value, so a
// stream that goes active again rejoins fairly instead of jumping the
// queue or starving behind it.
func (s *childScheduler) add(n *node) {
	finish := new(big.Rat).Add(s.clock, weightShare(n.weight))
	entry := &schedEntry{node: n, finish: finish, seq: s.seq}
	s.seq++
	heap.Push(&s.items, entry)
	s.byID[n.id] = entry
	n.lastVirtualFinish = finish
}

// remove deregisters n if present; a no-op otherwise.
func (s *childScheduler) remove(n *node) {
	entry, ok := s.byID[n.id]
	if !ok {
		return
	}
	heap.Remove(&s.items, entry.index)
	delete(s.byID, n.id)
}

// popNext removes and returns the child with the least virtual finish
// time, advancing the scheduler's local clock to that finish time.
func (s *childScheduler) popNext() *node {
	entry := heap.Pop(&s.items).(*schedEntry)
	delete(s.byID, entry.node.id)
	s.clock = entry.finish
	return entry.node
}

// weightShare is the per-add increment 256/weight.
func weightShare(weight int) *big.Rat {
	return big.NewRat(256, int64(weight))
}
