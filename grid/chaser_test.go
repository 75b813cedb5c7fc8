package grid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	search "github.com/pdrpinto/chase"
)

func newAlgorithm(t *testing.T, strategy search.Strategy) search.Algorithm[Coord, Direction] {
	t.Helper()
	algorithm, err := search.New[Coord, Direction](strategy, search.WithMemoryTracking(false))
	require.NoError(t, err)
	return algorithm
}

func TestChaseProblem(t *testing.T) {
	maze, err := NewMaze(4, 4)
	require.NoError(t, err)
	problem := NewChaseProblem(maze, Coord{Row: 0, Col: 0}, Coord{Row: 3, Col: 2})

	assert.Equal(t, Coord{Row: 0, Col: 0}, problem.InitialState())
	assert.True(t, problem.IsGoal(Coord{Row: 3, Col: 2}))
	assert.False(t, problem.IsGoal(Coord{Row: 2, Col: 3}))
	assert.Equal(t, 5.0, problem.Heuristic(Coord{Row: 0, Col: 0}))
	assert.Zero(t, problem.Heuristic(problem.Target()))
	assert.Len(t, problem.Successors(Coord{Row: 1, Col: 1}), 4)
}

func TestReplay(t *testing.T) {
	maze, err := ParseMaze([]string{
		"..",
		"#.",
	})
	require.NoError(t, err)

	end, err := Replay(maze, Coord{}, []Direction{Right, Down})
	require.NoError(t, err)
	assert.Equal(t, Coord{Row: 1, Col: 1}, end)

	_, err = Replay(maze, Coord{}, []Direction{Down})
	assert.Error(t, err)
	_, err = Replay(maze, Coord{}, []Direction{Up})
	assert.Error(t, err)
}

func TestChaser_FollowsPlanThenReplans(t *testing.T) {
	maze, err := ClassicMaze(7, 7)
	require.NoError(t, err)

	var plans int
	chaser := NewChaser("blinky", maze, Coord{Row: 1, Col: 1}, newAlgorithm(t, search.AStar))
	chaser.OnPlan = func(algorithm string, result search.Result[Direction]) {
		plans++
		assert.Equal(t, "A*", algorithm)
	}

	target := Coord{Row: 1, Col: 5}
	for tick := 0; tick < 4; tick++ {
		moved, err := chaser.Update(context.Background(), target, nil)
		require.NoError(t, err)
		assert.True(t, moved)
	}
	assert.Equal(t, target, chaser.Position())
	assert.Equal(t, 1, plans)
	assert.Equal(t, 4, chaser.LastResult().PathLength())
	assert.Empty(t, chaser.Plan())

	// Target moves; the exhausted plan triggers a fresh search.
	target = Coord{Row: 3, Col: 5}
	moved, err := chaser.Update(context.Background(), target, nil)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, 2, plans)
	assert.Equal(t, Coord{Row: 2, Col: 5}, chaser.Position())
}

func TestChaser_BlockedByOccupant(t *testing.T) {
	maze, err := NewMaze(1, 4)
	require.NoError(t, err)
	chaser := NewChaser("pinky", maze, Coord{}, newAlgorithm(t, search.BFS))

	occupied := map[Coord]bool{{Row: 0, Col: 1}: true}
	moved, err := chaser.Update(context.Background(), Coord{Row: 0, Col: 3}, occupied)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, Coord{}, chaser.Position())
	// The blocked step was spent.
	assert.Equal(t, []Direction{Right, Right}, chaser.Plan())

	chaser.Replan()
	moved, err = chaser.Update(context.Background(), Coord{Row: 0, Col: 3}, nil)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, Coord{Row: 0, Col: 1}, chaser.Position())
}

func TestChaser_NoPath(t *testing.T) {
	maze, err := ParseMaze([]string{".#."})
	require.NoError(t, err)
	chaser := NewChaser("clyde", maze, Coord{}, newAlgorithm(t, search.UCS))

	moved, err := chaser.Update(context.Background(), Coord{Row: 0, Col: 2}, nil)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.False(t, chaser.LastResult().Found)
	assert.Equal(t, "UCS", chaser.Algorithm())
}
