package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(f frontier) []int {
	var order []int
	for {
		nodeIndex, ok := f.pop()
		if !ok {
			return order
		}
		order = append(order, nodeIndex)
	}
}

func TestPriorityFrontier_TiesAreFIFO(t *testing.T) {
	f := newPriorityFrontier()
	for nodeIndex, priority := range []float64{2, 1, 1, 3, 1, 0.5} {
		f.push(nodeIndex, priority)
	}
	require.Equal(t, 6, f.len())
	assert.Equal(t, []int{5, 1, 2, 4, 0, 3}, drain(f))
	assert.Zero(t, f.len())
}

func TestPriorityFrontier_SequenceNeverReordersPriorities(t *testing.T) {
	f := newPriorityFrontier()
	f.push(0, 9)
	f.push(1, 8)
	f.push(2, 7)
	assert.Equal(t, []int{2, 1, 0}, drain(f))
}

func TestFIFOQueue(t *testing.T) {
	q := &fifoQueue{}
	for i := 0; i < 200; i++ {
		q.push(i, 0)
	}
	for i := 0; i < 150; i++ {
		nodeIndex, ok := q.pop()
		require.True(t, ok)
		require.Equal(t, i, nodeIndex)
	}
	q.push(200, 0)
	assert.Equal(t, 51, q.len())
	assert.Equal(t, 150, q.nodeIndices()[0])

	rest := drain(q)
	require.Len(t, rest, 51)
	assert.Equal(t, 150, rest[0])
	assert.Equal(t, 200, rest[50])
}

func TestLIFOStack(t *testing.T) {
	s := &lifoStack{}
	s.push(1, 0)
	s.push(2, 0)
	s.push(3, 0)
	assert.Equal(t, []int{1, 2, 3}, s.nodeIndices())
	assert.Equal(t, []int{3, 2, 1}, drain(s))
	_, ok := s.pop()
	assert.False(t, ok)
}

func TestNodeTree_Actions(t *testing.T) {
	var tree nodeTree[string, string]
	root := tree.addRoot("a")
	b := tree.add("b", root, "a>b", 1)
	c := tree.add("c", b, "b>c", 3)
	tree.add("d", root, "a>d", 2)

	assert.Equal(t, []string{}, tree.actions(root))
	assert.Equal(t, []string{"a>b", "b>c"}, tree.actions(c))
	assert.Equal(t, 3.0, tree.at(c).pathCost)
}
