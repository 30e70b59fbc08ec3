package priority

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecomputeActiveLeaf(t *testing.T) {
	n := newNode(1, DefaultWeight)
	n.blocked = false
	require.True(t, n.recomputeActive(), "unblocked leaf with no children is active")

	n.blocked = true
	require.False(t, n.recomputeActive(), "blocked leaf with no children is inactive")
}

func TestRecomputeActiveBlockedWithActiveChild(t *testing.T) {
	parent := newNode(1, DefaultWeight)
	parent.blocked = true

	child := newNode(3, DefaultWeight)
	child.blocked = false
	child.parent = parent
	parent.childList = append(parent.childList, child)
	parent.children.add(child)

	require.True(t, parent.recomputeActive(), "a blocked node with an active child is still active")
}

func TestRecomputeActiveRoot(t *testing.T) {
	root := newNode(0, 0)
	root.blocked = false
	require.False(t, root.recomputeActive(), "root with no children is inactive regardless of its own blocked flag")

	child := newNode(1, DefaultWeight)
	child.blocked = false
	child.parent = root
	root.childList = append(root.childList, child)
	root.children.add(child)
	require.True(t, root.recomputeActive())
}

func TestIsRoot(t *testing.T) {
	require.True(t, newNode(0, 0).isRoot())
	require.False(t, newNode(1, DefaultWeight).isRoot())
}
