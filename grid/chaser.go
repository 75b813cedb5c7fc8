package grid

import (
	"context"

	search "github.com/pdrpinto/chase"
)

// PlanObserver is told about every search a Chaser runs.
type PlanObserver func(algorithm string, result search.Result[Direction])

// Chaser is an agent that pursues a moving target one cell per tick. It
// keeps following its current plan and only searches again, from scratch,
// once the plan runs out or Replan is called.
//
// A Chaser is not safe for concurrent use; give each goroutine its own.
type Chaser struct {
	name      string
	maze      *Maze
	position  Coord
	algorithm search.Algorithm[Coord, Direction]
	plan      []Direction
	last      search.Result[Direction]

	// OnPlan, when set, receives every search result.
	OnPlan PlanObserver
}

// NewChaser places an agent at start that plans with algorithm.
func NewChaser(name string, maze *Maze, start Coord, algorithm search.Algorithm[Coord, Direction]) *Chaser {
	return &Chaser{name: name, maze: maze, position: start, algorithm: algorithm}
}

func (c *Chaser) Name() string { return c.name }

func (c *Chaser) Position() Coord { return c.position }

// Algorithm returns the display name of the planning strategy.
func (c *Chaser) Algorithm() string { return c.algorithm.Name() }

// Plan returns a copy of the remaining actions.
func (c *Chaser) Plan() []Direction {
	return append([]Direction(nil), c.plan...)
}

// LastResult is the result of the most recent search.
func (c *Chaser) LastResult() search.Result[Direction] { return c.last }

// Replan drops the remaining plan so the next Update searches again.
func (c *Chaser) Replan() { c.plan = nil }

// Update advances the chaser by one tick toward target. occupied holds the
// cells taken by other agents. The next planned action is consumed even if
// the move is blocked; Update reports whether the chaser actually moved.
func (c *Chaser) Update(ctx context.Context, target Coord, occupied map[Coord]bool) (bool, error) {
	if len(c.plan) == 0 {
		result, err := c.algorithm.Search(ctx, NewChaseProblem(c.maze, c.position, target))
		if err != nil {
			return false, err
		}
		c.last = result
		c.plan = append([]Direction(nil), result.Actions...)
		if c.OnPlan != nil {
			c.OnPlan(c.algorithm.Name(), result)
		}
	}
	if len(c.plan) == 0 {
		return false, nil
	}

	next := c.plan[0]
	c.plan = c.plan[1:]
	destination := c.position.Move(next)
	if c.maze.IsWall(destination) || occupied[destination] {
		return false, nil
	}
	c.position = destination
	return true, nil
}
