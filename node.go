package search

import "github.com/pdrpinto/chase/internal"

const noParent = -1

// node is one record of the search tree. Parents are arena indices, so the
// tree is append-only and never holds cycles.
type node[S comparable, A any] struct {
	state    S
	parent   int
	action   A
	pathCost float64
}

// nodeTree is the arena holding every node generated by one search.
type nodeTree[S comparable, A any] struct {
	nodes []node[S, A]
}

func (tree *nodeTree[S, A]) addRoot(state S) int {
	tree.nodes = append(tree.nodes, node[S, A]{state: state, parent: noParent})
	return len(tree.nodes) - 1
}

func (tree *nodeTree[S, A]) add(state S, parent int, action A, pathCost float64) int {
	tree.nodes = append(tree.nodes, node[S, A]{
		state:    state,
		parent:   parent,
		action:   action,
		pathCost: pathCost,
	})
	return len(tree.nodes) - 1
}

func (tree *nodeTree[S, A]) at(index int) node[S, A] {
	return tree.nodes[index]
}

// actions returns the root-to-node action sequence. The root contributes no
// action, so actions(root) is empty but non-nil.
func (tree *nodeTree[S, A]) actions(index int) []A {
	return internal.ReconstructPath(
		index,
		func(i int) (int, bool) {
			parent := tree.nodes[i].parent
			return parent, parent != noParent
		},
		func(i int) A { return tree.nodes[i].action },
	)
}
