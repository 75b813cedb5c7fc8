package search_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	search "github.com/pdrpinto/chase"
	"github.com/pdrpinto/chase/grid"
)

// weightedGraph is a small directed graph whose cheapest route to G is not
// its shortest in edges.
//
//	S->A 1, S->B 4, A->B 2, A->C 5, A->G 10, B->C 1, C->G 3
type weightedGraph struct {
	start     string
	goal      string
	edges     map[string][]search.Successor[string, string]
	estimates map[string]float64
}

func newWeightedGraph() *weightedGraph {
	edge := func(from, to string, cost float64) search.Successor[string, string] {
		return search.Successor[string, string]{Action: from + ">" + to, State: to, Cost: cost}
	}
	return &weightedGraph{
		start: "S",
		goal:  "G",
		edges: map[string][]search.Successor[string, string]{
			"S": {edge("S", "A", 1), edge("S", "B", 4)},
			"A": {edge("A", "B", 2), edge("A", "C", 5), edge("A", "G", 10)},
			"B": {edge("B", "C", 1)},
			"C": {edge("C", "G", 3)},
		},
		estimates: map[string]float64{"S": 6, "A": 5, "B": 3, "C": 2, "G": 0},
	}
}

func (g *weightedGraph) InitialState() string       { return g.start }
func (g *weightedGraph) IsGoal(state string) bool   { return state == g.goal }
func (g *weightedGraph) Heuristic(s string) float64 { return g.estimates[s] }
func (g *weightedGraph) Successors(state string) []search.Successor[string, string] {
	return g.edges[state]
}

func openGrid(t *testing.T, rows, cols int) *grid.Maze {
	t.Helper()
	maze, err := grid.NewMaze(rows, cols)
	require.NoError(t, err)
	return maze
}

func solve[S comparable, A any](t *testing.T, strategy search.Strategy, problem search.Problem[S, A]) search.Result[A] {
	t.Helper()
	result, err := search.Solve(context.Background(), strategy, problem)
	require.NoError(t, err)
	return result
}

func TestSolve_OpenGrid(t *testing.T) {
	maze := openGrid(t, 5, 5)
	start, goal := grid.Coord{Row: 0, Col: 0}, grid.Coord{Row: 4, Col: 4}

	for _, strategy := range search.Strategies() {
		t.Run(strategy.String(), func(t *testing.T) {
			result := solve(t, strategy, grid.NewChaseProblem(maze, start, goal))
			require.True(t, result.Found)

			if strategy == search.DFS {
				assert.GreaterOrEqual(t, result.PathLength(), 8)
			} else {
				assert.Equal(t, 8, result.PathLength())
				assert.Equal(t, 8.0, result.Cost)
			}

			end, err := grid.Replay(maze, start, result.Actions)
			require.NoError(t, err)
			assert.Equal(t, goal, end)
			assert.Equal(t, float64(result.PathLength()), result.Cost)
		})
	}
}

func TestSolve_StartIsGoal(t *testing.T) {
	maze := openGrid(t, 5, 5)
	cell := grid.Coord{Row: 2, Col: 3}

	for _, strategy := range search.Strategies() {
		t.Run(strategy.String(), func(t *testing.T) {
			result := solve(t, strategy, grid.NewChaseProblem(maze, cell, cell))
			assert.True(t, result.Found)
			assert.NotNil(t, result.Actions)
			assert.Empty(t, result.Actions)
			assert.Zero(t, result.ExpandedNodes)
			assert.Zero(t, result.Cost)
		})
	}
}

func TestSolve_Unreachable(t *testing.T) {
	goal := grid.Coord{Row: 4, Col: 4}
	maze := openGrid(t, 5, 5).WithWalls(grid.Coord{Row: 3, Col: 4}, grid.Coord{Row: 4, Col: 3})
	// 25 cells, 2 walls, and the sealed goal.
	const reachable = 22

	for _, strategy := range search.Strategies() {
		t.Run(strategy.String(), func(t *testing.T) {
			result := solve(t, strategy, grid.NewChaseProblem(maze, grid.Coord{}, goal))
			assert.False(t, result.Found)
			assert.Nil(t, result.Actions)
			assert.False(t, result.Truncated)
			assert.Equal(t, reachable, result.ExpandedNodes)
		})
	}
}

// replayGraph follows actions from the start through Successors and returns
// the state reached.
func replayGraph(t *testing.T, g *weightedGraph, actions []string) string {
	t.Helper()
	state := g.InitialState()
	for _, action := range actions {
		moved := false
		for _, successor := range g.Successors(state) {
			if successor.Action == action {
				state = successor.State
				moved = true
				break
			}
		}
		require.True(t, moved, "action %s is not available from %s", action, state)
	}
	return state
}

func TestSolve_WeightedGraph(t *testing.T) {
	tests := []struct {
		strategy search.Strategy
		actions  []string
		cost     float64
		expanded int
	}{
		{search.BFS, []string{"S>A", "A>G"}, 11, 2},
		{search.DFS, []string{"S>B", "B>C", "C>G"}, 8, 4},
		// UCS pops the dearer copies of B and C after the cheaper ones.
		{search.UCS, []string{"S>A", "A>B", "B>C", "C>G"}, 7, 7},
		// A* pops the dearer copy of B before reaching G.
		{search.AStar, []string{"S>A", "A>B", "B>C", "C>G"}, 7, 6},
	}
	for _, tt := range tests {
		t.Run(tt.strategy.String(), func(t *testing.T) {
			graph := newWeightedGraph()
			result := solve[string, string](t, tt.strategy, graph)
			require.True(t, result.Found)
			assert.Equal(t, tt.actions, result.Actions)
			assert.Equal(t, tt.cost, result.Cost)
			assert.Equal(t, tt.expanded, result.ExpandedNodes)
			assert.True(t, graph.IsGoal(replayGraph(t, graph, result.Actions)))
		})
	}
}

func TestSolve_AStarExpandsNoMoreThanUCS(t *testing.T) {
	maze, err := grid.ClassicMaze(15, 21)
	require.NoError(t, err)
	problem := grid.NewChaseProblem(maze, grid.Coord{Row: 1, Col: 1}, grid.Coord{Row: 13, Col: 19})

	ucs := solve(t, search.UCS, problem)
	astar := solve(t, search.AStar, problem)

	require.True(t, ucs.Found)
	require.True(t, astar.Found)
	assert.Equal(t, ucs.Cost, astar.Cost)
	assert.Equal(t, 30, astar.PathLength())
	assert.LessOrEqual(t, astar.ExpandedNodes, ucs.ExpandedNodes)
}

func TestSolve_Idempotent(t *testing.T) {
	build := func() grid.ChaseProblem {
		maze, err := grid.RandomMaze(20, 30, 6, 120, 0.3, 7, grid.Coord{Row: 0, Col: 0}, grid.Coord{Row: 19, Col: 29})
		require.NoError(t, err)
		return grid.NewChaseProblem(maze, grid.Coord{Row: 0, Col: 0}, grid.Coord{Row: 19, Col: 29})
	}
	for _, strategy := range search.Strategies() {
		t.Run(strategy.String(), func(t *testing.T) {
			first := solve(t, strategy, build())
			second := solve(t, strategy, build())
			assert.Equal(t, first.Found, second.Found)
			assert.Equal(t, first.Actions, second.Actions)
			assert.Equal(t, first.ExpandedNodes, second.ExpandedNodes)
		})
	}
}

type negativeEdge struct{ weightedGraph }

func (n *negativeEdge) Successors(state string) []search.Successor[string, string] {
	if state == "S" {
		return []search.Successor[string, string]{{Action: "S>G", State: "G", Cost: -1}}
	}
	return nil
}

func TestSolve_NegativeCost(t *testing.T) {
	problem := &negativeEdge{*newWeightedGraph()}

	for _, strategy := range []search.Strategy{search.UCS, search.AStar} {
		_, err := search.Solve[string, string](context.Background(), strategy, problem)
		assert.True(t, errors.Is(err, search.ErrNegativeCost), "%s: %v", strategy, err)
	}

	result := solve[string, string](t, search.BFS, problem)
	assert.True(t, result.Found)
	assert.Equal(t, -1.0, result.Cost)
}

func TestSolve_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	problem := grid.NewChaseProblem(openGrid(t, 5, 5), grid.Coord{}, grid.Coord{Row: 4, Col: 4})
	_, err := search.Solve(ctx, search.AStar, problem)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolve_MaxExpansions(t *testing.T) {
	problem := grid.NewChaseProblem(openGrid(t, 5, 5), grid.Coord{}, grid.Coord{Row: 4, Col: 4})

	result, err := search.Solve(context.Background(), search.UCS, problem, search.WithMaxExpansions(3))
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.True(t, result.Truncated)
	assert.Nil(t, result.Actions)
	assert.Equal(t, 3, result.ExpandedNodes)
}

func TestSolve_UnknownStrategy(t *testing.T) {
	problem := grid.NewChaseProblem(openGrid(t, 2, 2), grid.Coord{}, grid.Coord{Row: 1, Col: 1})
	_, err := search.Solve(context.Background(), search.Strategy("greedy"), problem)
	assert.ErrorIs(t, err, search.ErrUnknownStrategy)

	_, err = search.New[grid.Coord, grid.Direction]("greedy")
	assert.ErrorIs(t, err, search.ErrUnknownStrategy)
}

func TestSolve_Instrumentation(t *testing.T) {
	problem := grid.NewChaseProblem(openGrid(t, 30, 30), grid.Coord{}, grid.Coord{Row: 29, Col: 29})

	tracked := solve(t, search.UCS, problem)
	assert.Positive(t, tracked.Elapsed)
	assert.Positive(t, tracked.PeakMemory)

	untracked, err := search.Solve(context.Background(), search.UCS, problem, search.WithMemoryTracking(false))
	require.NoError(t, err)
	assert.Zero(t, untracked.PeakMemory)
}

func TestAlgorithm_Swappable(t *testing.T) {
	problem := grid.NewChaseProblem(openGrid(t, 6, 6), grid.Coord{Row: 5, Col: 0}, grid.Coord{Row: 0, Col: 5})
	names := map[search.Strategy]string{
		search.BFS:   "BFS",
		search.DFS:   "DFS",
		search.UCS:   "UCS",
		search.AStar: "A*",
	}
	for strategy, name := range names {
		algorithm, err := search.New[grid.Coord, grid.Direction](strategy)
		require.NoError(t, err)
		assert.Equal(t, name, algorithm.Name())

		result, err := algorithm.Search(context.Background(), problem)
		require.NoError(t, err)
		assert.True(t, result.Found)
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in   string
		want search.Strategy
	}{
		{"bfs", search.BFS},
		{"DFS", search.DFS},
		{" ucs ", search.UCS},
		{"a*", search.AStar},
		{"A-Star", search.AStar},
		{"astar", search.AStar},
	}
	for _, tt := range tests {
		got, err := search.ParseStrategy(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := search.ParseStrategy("ida")
	assert.ErrorIs(t, err, search.ErrUnknownStrategy)
}
