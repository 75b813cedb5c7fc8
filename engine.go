package search

import "fmt"

// engine owns the tree, frontier and explored structures of one search.
// It is built fresh per call and never shared.
type engine[S comparable, A any] struct {
	strategy      Strategy
	problem       Problem[S, A]
	heuristic     func(S) float64
	maxExpansions int

	tree     nodeTree[S, A]
	frontier frontier
	// visited is the BFS/DFS explored set: first discovery is final.
	visited map[S]struct{}
	// bestCost is the UCS/A* explored map: a state is admitted again only
	// when a strictly cheaper path to it turns up.
	bestCost map[S]float64

	expanded  int
	current   int
	goal      int
	done      bool
	truncated bool
}

func newEngine[S comparable, A any](strategy Strategy, problem Problem[S, A], maxExpansions int) *engine[S, A] {
	run := &engine[S, A]{
		strategy:      strategy,
		problem:       problem,
		heuristic:     func(S) float64 { return 0 },
		maxExpansions: maxExpansions,
		frontier:      newFrontier(strategy),
		current:       noParent,
		goal:          noParent,
	}
	if strategy == AStar {
		if estimator, ok := problem.(Heuristic[S]); ok {
			run.heuristic = estimator.Heuristic
		}
	}

	initialState := problem.InitialState()
	root := run.tree.addRoot(initialState)
	if problem.IsGoal(initialState) {
		run.finish(root)
		return run
	}

	if strategy.costOrdered() {
		run.bestCost = map[S]float64{initialState: 0}
		run.frontier.push(root, run.heuristic(initialState))
	} else {
		run.visited = map[S]struct{}{initialState: {}}
		run.frontier.push(root, 0)
	}
	return run
}

func (run *engine[S, A]) finish(goal int) {
	run.goal = goal
	run.done = true
}

// step removes one node from the frontier and counts it as expanded. Stale
// UCS/A* copies are neither goal-tested nor given successors.
func (run *engine[S, A]) step() error {
	if run.done {
		return nil
	}
	if run.maxExpansions > 0 && run.expanded >= run.maxExpansions {
		run.truncated = true
		run.done = true
		return nil
	}

	nodeIndex, ok := run.frontier.pop()
	if !ok {
		run.done = true
		return nil
	}
	run.expanded++
	run.current = nodeIndex
	current := run.tree.at(nodeIndex)
	// A cheaper copy of this state was admitted after this one was queued.
	if run.bestCost != nil && current.pathCost > run.bestCost[current.state] {
		return nil
	}

	switch run.strategy {
	case BFS:
		run.expandBreadthFirst(nodeIndex, current)
		return nil
	case DFS:
		if run.problem.IsGoal(current.state) {
			run.finish(nodeIndex)
			return nil
		}
		run.expandDepthFirst(nodeIndex, current)
		return nil
	default:
		if run.problem.IsGoal(current.state) {
			run.finish(nodeIndex)
			return nil
		}
		return run.expandCostOrdered(nodeIndex, current)
	}
}

// expandBreadthFirst tests children as they are generated, before they
// reach the queue.
func (run *engine[S, A]) expandBreadthFirst(nodeIndex int, current node[S, A]) {
	for _, successor := range run.problem.Successors(current.state) {
		if _, seen := run.visited[successor.State]; seen {
			continue
		}
		child := run.tree.add(successor.State, nodeIndex, successor.Action, current.pathCost+successor.Cost)
		if run.problem.IsGoal(successor.State) {
			run.finish(child)
			return
		}
		run.frontier.push(child, 0)
		run.visited[successor.State] = struct{}{}
	}
}

func (run *engine[S, A]) expandDepthFirst(nodeIndex int, current node[S, A]) {
	for _, successor := range run.problem.Successors(current.state) {
		if _, seen := run.visited[successor.State]; seen {
			continue
		}
		child := run.tree.add(successor.State, nodeIndex, successor.Action, current.pathCost+successor.Cost)
		run.frontier.push(child, 0)
		run.visited[successor.State] = struct{}{}
	}
}

func (run *engine[S, A]) expandCostOrdered(nodeIndex int, current node[S, A]) error {
	for _, successor := range run.problem.Successors(current.state) {
		if successor.Cost < 0 {
			return fmt.Errorf("%w: %v from state %v", ErrNegativeCost, successor.Cost, current.state)
		}
		childCost := current.pathCost + successor.Cost
		if knownCost, seen := run.bestCost[successor.State]; seen && childCost >= knownCost {
			continue
		}
		run.bestCost[successor.State] = childCost
		child := run.tree.add(successor.State, nodeIndex, successor.Action, childCost)
		run.frontier.push(child, childCost+run.heuristic(successor.State))
	}
	return nil
}

func (run *engine[S, A]) result() Result[A] {
	result := Result[A]{
		ExpandedNodes: run.expanded,
		Truncated:     run.truncated,
	}
	if run.goal != noParent {
		result.Found = true
		result.Actions = run.tree.actions(run.goal)
		result.Cost = run.tree.at(run.goal).pathCost
	}
	return result
}

// frontierStates lists the states waiting in the frontier.
func (run *engine[S, A]) frontierStates() []S {
	indices := run.frontier.nodeIndices()
	states := make([]S, 0, len(indices))
	for _, nodeIndex := range indices {
		states = append(states, run.tree.at(nodeIndex).state)
	}
	return states
}
