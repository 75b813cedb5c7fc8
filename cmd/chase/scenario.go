package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pdrpinto/chase/grid"
)

// parseCoord reads "row,col".
func parseCoord(text string) (grid.Coord, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return grid.Coord{}, fmt.Errorf("coordinate %q: want row,col", text)
	}
	row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return grid.Coord{}, fmt.Errorf("coordinate %q: bad row: %w", text, err)
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return grid.Coord{}, fmt.Errorf("coordinate %q: bad column: %w", text, err)
	}
	return grid.Coord{Row: row, Col: col}, nil
}

func readLayout(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read maze: %w", err)
	}
	return strings.Split(string(data), "\n"), nil
}

func openCells(maze *grid.Maze) []grid.Coord {
	var cells []grid.Coord
	for row := 0; row < maze.Rows(); row++ {
		for col := 0; col < maze.Cols(); col++ {
			cell := grid.Coord{Row: row, Col: col}
			if !maze.IsWall(cell) {
				cells = append(cells, cell)
			}
		}
	}
	return cells
}

// scenario resolves the maze and endpoints for one search. A maze file
// supplies 'S' and 'G' markers; the configured maze falls back to its first
// and last open cells. Explicit --start and --goal flags win in both cases.
func (a *app) scenario(f *scenarioFlags) (*grid.Maze, grid.Coord, grid.Coord, error) {
	var (
		maze        *grid.Maze
		start, goal grid.Coord
		err         error
	)
	if f.mazeFile != "" {
		lines, err := readLayout(f.mazeFile)
		if err != nil {
			return nil, start, goal, err
		}
		if f.start != "" && f.goal != "" {
			maze, err = grid.ParseMaze(lines)
		} else {
			maze, start, goal, err = grid.ParseScenario(lines)
		}
		if err != nil {
			return nil, start, goal, err
		}
	} else {
		maze, err = a.config.Maze.Build()
		if err != nil {
			return nil, start, goal, err
		}
		cells := openCells(maze)
		if len(cells) == 0 {
			return nil, start, goal, fmt.Errorf("%w: no open cells", grid.ErrBadMaze)
		}
		start, goal = cells[0], cells[len(cells)-1]
	}

	if f.start != "" {
		if start, err = parseCoord(f.start); err != nil {
			return nil, start, goal, err
		}
	}
	if f.goal != "" {
		if goal, err = parseCoord(f.goal); err != nil {
			return nil, start, goal, err
		}
	}
	if maze.IsWall(start) {
		return nil, start, goal, fmt.Errorf("%w: start %s is a wall or out of bounds", grid.ErrBadMaze, start)
	}
	if maze.IsWall(goal) {
		return nil, start, goal, fmt.Errorf("%w: goal %s is a wall or out of bounds", grid.ErrBadMaze, goal)
	}
	return maze, start, goal, nil
}
