// Package grid binds the search engine to maze navigation: a wall grid, the
// chase problem a pursuing agent solves on it, and the agent itself.
package grid

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	search "github.com/pdrpinto/chase"
)

// ErrBadMaze reports an unusable maze description.
var ErrBadMaze = errors.New("bad maze")

// MaxSide bounds both maze dimensions.
const MaxSide = 1000

const (
	wallCell  = '#'
	openCell  = '.'
	startCell = 'S'
	goalCell  = 'G'
)

// Maze is an immutable wall grid. It is safe to share between goroutines.
type Maze struct {
	rows  int
	cols  int
	walls []bool
}

// NewMaze returns an open rows x cols maze.
func NewMaze(rows, cols int) (*Maze, error) {
	if rows <= 0 || cols <= 0 || rows > MaxSide || cols > MaxSide {
		return nil, fmt.Errorf("%w: size %dx%d outside 1..%d", ErrBadMaze, rows, cols, MaxSide)
	}
	return &Maze{rows: rows, cols: cols, walls: make([]bool, rows*cols)}, nil
}

// ParseMaze reads one string per row; '#' is a wall, anything else is open.
// Every row must have the same width.
func ParseMaze(lines []string) (*Maze, error) {
	maze, _, _, err := parse(lines)
	return maze, err
}

// ParseScenario reads a maze like ParseMaze and also returns the cells
// marked 'S' (start) and 'G' (goal). Both markers are required.
func ParseScenario(lines []string) (*Maze, Coord, Coord, error) {
	maze, start, goal, err := parse(lines)
	if err != nil {
		return nil, Coord{}, Coord{}, err
	}
	if start == nil || goal == nil {
		return nil, Coord{}, Coord{}, fmt.Errorf("%w: scenario needs one %q and one %q cell", ErrBadMaze, startCell, goalCell)
	}
	return maze, *start, *goal, nil
}

func parse(lines []string) (*Maze, *Coord, *Coord, error) {
	rows := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, line)
	}
	if len(rows) == 0 {
		return nil, nil, nil, fmt.Errorf("%w: no rows", ErrBadMaze)
	}
	width := len(rows[0])
	maze, err := NewMaze(len(rows), width)
	if err != nil {
		return nil, nil, nil, err
	}
	var start, goal *Coord
	for row, line := range rows {
		if len(line) != width {
			return nil, nil, nil, fmt.Errorf("%w: row %d has width %d, want %d", ErrBadMaze, row, len(line), width)
		}
		for col := 0; col < width; col++ {
			cell := Coord{Row: row, Col: col}
			switch line[col] {
			case wallCell:
				maze.walls[maze.index(cell)] = true
			case startCell:
				if start != nil {
					return nil, nil, nil, fmt.Errorf("%w: more than one start", ErrBadMaze)
				}
				start = &cell
			case goalCell:
				if goal != nil {
					return nil, nil, nil, fmt.Errorf("%w: more than one goal", ErrBadMaze)
				}
				goal = &cell
			}
		}
	}
	return maze, start, goal, nil
}

// ClassicMaze builds the arcade layout: a wall border and a pillar on every
// interior cell whose row and column are both even.
func ClassicMaze(rows, cols int) (*Maze, error) {
	maze, err := NewMaze(rows, cols)
	if err != nil {
		return nil, err
	}
	for row := 0; row < rows; row++ {
		maze.walls[maze.index(Coord{row, 0})] = true
		maze.walls[maze.index(Coord{row, cols - 1})] = true
	}
	for col := 0; col < cols; col++ {
		maze.walls[maze.index(Coord{0, col})] = true
		maze.walls[maze.index(Coord{rows - 1, col})] = true
	}
	for row := 2; row < rows-2; row += 2 {
		for col := 2; col < cols-2; col += 2 {
			maze.walls[maze.index(Coord{row, col})] = true
		}
	}
	return maze, nil
}

// RandomMaze grows clustered walls with random walks. Cells listed in keep
// never become walls. The same seed always yields the same maze.
func RandomMaze(rows, cols, clusters, steps int, density float64, seed int64, keep ...Coord) (*Maze, error) {
	maze, err := NewMaze(rows, cols)
	if err != nil {
		return nil, err
	}
	if density < 0 || density > 1 {
		return nil, fmt.Errorf("%w: density %v outside [0,1]", ErrBadMaze, density)
	}
	kept := make(map[Coord]bool, len(keep))
	for _, cell := range keep {
		kept[cell] = true
	}

	r := rand.New(rand.NewSource(seed))
	directions := Directions()
	for c := 0; c < clusters; c++ {
		cell := Coord{Row: r.Intn(rows), Col: r.Intn(cols)}
		for s := 0; s < steps; s++ {
			if r.Float64() < density && !kept[cell] {
				maze.walls[maze.index(cell)] = true
			}
			next := cell.Move(directions[r.Intn(len(directions))])
			if maze.InBounds(next) {
				cell = next
			}
		}
	}
	return maze, nil
}

// WithWalls returns a copy of m with the given cells walled off.
// Out-of-bounds cells are ignored.
func (m *Maze) WithWalls(cells ...Coord) *Maze {
	walls := make([]bool, len(m.walls))
	copy(walls, m.walls)
	out := &Maze{rows: m.rows, cols: m.cols, walls: walls}
	for _, cell := range cells {
		if out.InBounds(cell) {
			out.walls[out.index(cell)] = true
		}
	}
	return out
}

func (m *Maze) Rows() int { return m.rows }
func (m *Maze) Cols() int { return m.cols }

func (m *Maze) index(c Coord) int { return c.Row*m.cols + c.Col }

// InBounds reports whether c lies inside the grid.
func (m *Maze) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < m.rows && c.Col >= 0 && c.Col < m.cols
}

// IsWall reports whether c is a wall. Out-of-bounds cells count as walls.
func (m *Maze) IsWall(c Coord) bool {
	if !m.InBounds(c) {
		return true
	}
	return m.walls[m.index(c)]
}

// Walls lists every wall cell in row-major order.
func (m *Maze) Walls() []Coord {
	var cells []Coord
	for i, wall := range m.walls {
		if wall {
			cells = append(cells, Coord{Row: i / m.cols, Col: i % m.cols})
		}
	}
	return cells
}

// Neighbours returns the in-bounds, non-wall cells one move from c, in
// Directions order, each at unit cost.
func (m *Maze) Neighbours(c Coord) []search.Successor[Coord, Direction] {
	neighbours := make([]search.Successor[Coord, Direction], 0, 4)
	for _, d := range Directions() {
		next := c.Move(d)
		if m.IsWall(next) {
			continue
		}
		neighbours = append(neighbours, search.Successor[Coord, Direction]{Action: d, State: next, Cost: 1})
	}
	return neighbours
}

// IsIntersection reports whether an open cell sits in the corner of two
// walls meeting at a right angle.
func (m *Maze) IsIntersection(c Coord) bool {
	if m.IsWall(c) {
		return false
	}
	wall := func(d Direction) bool {
		next := c.Move(d)
		return m.InBounds(next) && m.IsWall(next)
	}
	return (wall(Up) && wall(Left)) ||
		(wall(Up) && wall(Right)) ||
		(wall(Down) && wall(Left)) ||
		(wall(Down) && wall(Right))
}

// Intersections lists every open cell for which IsIntersection holds, in
// row-major order.
func (m *Maze) Intersections() []Coord {
	var cells []Coord
	for row := 0; row < m.rows; row++ {
		for col := 0; col < m.cols; col++ {
			if cell := (Coord{Row: row, Col: col}); m.IsIntersection(cell) {
				cells = append(cells, cell)
			}
		}
	}
	return cells
}

// String renders the maze with '#' for walls and '.' for open cells.
func (m *Maze) String() string {
	var b strings.Builder
	b.Grow((m.cols + 1) * m.rows)
	for row := 0; row < m.rows; row++ {
		for col := 0; col < m.cols; col++ {
			if m.walls[m.index(Coord{row, col})] {
				b.WriteByte(wallCell)
			} else {
				b.WriteByte(openCell)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Lines is String split into rows, the format ParseMaze reads.
func (m *Maze) Lines() []string {
	return strings.Split(strings.TrimSuffix(m.String(), "\n"), "\n")
}
