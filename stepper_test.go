package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	search "github.com/pdrpinto/chase"
	"github.com/pdrpinto/chase/grid"
)

func TestStepper_MatchesSolve(t *testing.T) {
	maze, err := grid.ClassicMaze(11, 13)
	require.NoError(t, err)
	problem := grid.NewChaseProblem(maze, grid.Coord{Row: 1, Col: 1}, grid.Coord{Row: 9, Col: 11})

	for _, strategy := range search.Strategies() {
		t.Run(strategy.String(), func(t *testing.T) {
			want := solve(t, strategy, problem)

			stepper, err := search.NewStepper(strategy, problem)
			require.NoError(t, err)

			var last search.StepSnapshot[grid.Coord, grid.Direction]
			for i := 1; !stepper.Done(); i++ {
				last, err = stepper.Step()
				require.NoError(t, err)
				require.Equal(t, i, last.StepIndex)
				require.Equal(t, i, last.Expanded)
			}

			assert.True(t, last.Done)
			assert.True(t, last.Found)
			assert.Equal(t, want.Actions, last.Actions)
			assert.Equal(t, want.ExpandedNodes, last.Expanded)
			assert.Equal(t, want.Actions, stepper.Result().Actions)

			again, err := stepper.Step()
			require.NoError(t, err)
			assert.Equal(t, last.StepIndex, again.StepIndex)
		})
	}
}

func TestStepper_FirstStep(t *testing.T) {
	maze, err := grid.NewMaze(3, 3)
	require.NoError(t, err)
	problem := grid.NewChaseProblem(maze, grid.Coord{Row: 1, Col: 1}, grid.Coord{Row: 0, Col: 0})

	stepper, err := search.NewStepper(search.BFS, problem)
	require.NoError(t, err)

	snapshot, err := stepper.Step()
	require.NoError(t, err)
	assert.Equal(t, grid.Coord{Row: 1, Col: 1}, snapshot.Current)
	assert.False(t, snapshot.Done)
	assert.ElementsMatch(t, []grid.Coord{
		{Row: 0, Col: 1}, {Row: 2, Col: 1}, {Row: 1, Col: 0}, {Row: 1, Col: 2},
	}, snapshot.Frontier)
}

func TestStepper_StartIsGoal(t *testing.T) {
	maze, err := grid.NewMaze(3, 3)
	require.NoError(t, err)
	problem := grid.NewChaseProblem(maze, grid.Coord{}, grid.Coord{})

	stepper, err := search.NewStepper(search.AStar, problem)
	require.NoError(t, err)
	require.True(t, stepper.Done())

	snapshot, err := stepper.Step()
	require.NoError(t, err)
	assert.Zero(t, snapshot.StepIndex)
	assert.True(t, snapshot.Found)
	assert.Empty(t, snapshot.Actions)
	assert.Zero(t, snapshot.Expanded)
}

func TestStepper_UnknownStrategy(t *testing.T) {
	maze, err := grid.NewMaze(1, 1)
	require.NoError(t, err)
	_, err = search.NewStepper(search.Strategy("beam"), grid.NewChaseProblem(maze, grid.Coord{}, grid.Coord{}))
	assert.ErrorIs(t, err, search.ErrUnknownStrategy)
}

func TestStepper_StaleEntriesTakeAStep(t *testing.T) {
	stepper, err := search.NewStepper[string, string](search.UCS, newWeightedGraph())
	require.NoError(t, err)

	var current []string
	var last search.StepSnapshot[string, string]
	for !stepper.Done() {
		last, err = stepper.Step()
		require.NoError(t, err)
		require.Equal(t, last.StepIndex, last.Expanded)
		current = append(current, last.Current)
	}

	// B and C are each queued twice; the dearer copies still leave the frontier.
	assert.Equal(t, []string{"S", "A", "B", "B", "C", "C", "G"}, current)
	assert.Equal(t, 7, last.Expanded)
	assert.Equal(t, []string{"S>A", "A>B", "B>C", "C>G"}, last.Actions)
}
