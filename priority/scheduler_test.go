package priority

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChildSchedulerEmpty(t *testing.T) {
	s := newChildScheduler()
	require.True(t, s.isEmpty())
	require.False(t, s.has(1))
}

func TestChildSchedulerAddHasRemove(t *testing.T) {
	s := newChildScheduler()
	n := newNode(1, DefaultWeight)

	s.add(n)
	require.False(t, s.isEmpty())
	require.True(t, s.has(1))

	s.remove(n)
	require.True(t, s.isEmpty())
	require.False(t, s.has(1))
}

func TestChildSchedulerRemoveMissingIsNoop(t *testing.T) {
	s := newChildScheduler()
	n := newNode(1, DefaultWeight)
	require.NotPanics(t, func() { s.remove(n) })
}

// TestChildSchedulerEqualWeightIsFIFO verifies that equal-weight children
// added in order a, b, c pop out in the same order every round, since
// their virtual finish times tie and the sequence number breaks ties.
func TestChildSchedulerEqualWeightIsFIFO(t *testing.T) {
	s := newChildScheduler()
	a, b, c := newNode(1, DefaultWeight), newNode(2, DefaultWeight), newNode(3, DefaultWeight)
	s.add(a)
	s.add(b)
	s.add(c)

	for round := 0; round < 3; round++ {
		first := s.popNext()
		second := s.popNext()
		third := s.popNext()
		require.Equal(t, uint32(1), first.id)
		require.Equal(t, uint32(2), second.id)
		require.Equal(t, uint32(3), third.id)
		s.add(first)
		s.add(second)
		s.add(third)
	}
}

// TestChildSchedulerHeavierWeightServedMoreOften checks that a weight-32
// sibling is popped twice for every one time a weight-16 sibling is
// popped, once the schedule settles.
func TestChildSchedulerHeavierWeightServedMoreOften(t *testing.T) {
	s := newChildScheduler()
	heavy := newNode(1, 32)
	light := newNode(2, 16)
	s.add(heavy)
	s.add(light)

	counts := map[uint32]int{}
	for i := 0; i < 30; i++ {
		n := s.popNext()
		counts[n.id]++
		s.add(n)
	}

	require.InDelta(t, 2.0, float64(counts[1])/float64(counts[2]), 0.34)
}

func TestWeightShare(t *testing.T) {
	require.Equal(t, big.NewRat(256, 16), weightShare(16))
	require.Equal(t, big.NewRat(1, 1), weightShare(256))
}
