package grid

import (
	"fmt"

	search "github.com/pdrpinto/chase"
)

// ChaseProblem is a frozen snapshot of one pursuit: the maze, where the
// chaser stands and where the target was seen. When the target moves the
// caller builds a new problem and searches again.
type ChaseProblem struct {
	maze   *Maze
	start  Coord
	target Coord
}

var (
	_ search.Problem[Coord, Direction] = ChaseProblem{}
	_ search.Heuristic[Coord]          = ChaseProblem{}
)

// NewChaseProblem returns the problem of walking from start to target.
func NewChaseProblem(maze *Maze, start, target Coord) ChaseProblem {
	return ChaseProblem{maze: maze, start: start, target: target}
}

func (p ChaseProblem) InitialState() Coord { return p.start }

func (p ChaseProblem) IsGoal(state Coord) bool { return state == p.target }

func (p ChaseProblem) Successors(state Coord) []search.Successor[Coord, Direction] {
	return p.maze.Neighbours(state)
}

// Heuristic is the Manhattan distance to the target, admissible for unit
// cost four-way moves.
func (p ChaseProblem) Heuristic(state Coord) float64 {
	return float64(Manhattan(state, p.target))
}

func (p ChaseProblem) Target() Coord { return p.target }

// Replay walks actions from start through the maze and returns the cell
// reached. It fails on the first move into a wall or off the grid.
func Replay(maze *Maze, start Coord, actions []Direction) (Coord, error) {
	position := start
	for i, action := range actions {
		next := position.Move(action)
		if maze.IsWall(next) {
			return position, fmt.Errorf("move %d (%s) from %s hits a wall", i, action, position)
		}
		position = next
	}
	return position, nil
}
