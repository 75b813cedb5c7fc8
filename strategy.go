package search

import (
	"fmt"
	"strings"
)

// Strategy names one of the four search strategies.
type Strategy string

const (
	BFS   Strategy = "bfs"
	DFS   Strategy = "dfs"
	UCS   Strategy = "ucs"
	AStar Strategy = "astar"
)

// Strategies returns every supported strategy in a stable order.
func Strategies() []Strategy {
	return []Strategy{BFS, DFS, UCS, AStar}
}

// ParseStrategy accepts the canonical names case-insensitively, plus "a*"
// and "a-star" for A*.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bfs", "breadth-first":
		return BFS, nil
	case "dfs", "depth-first":
		return DFS, nil
	case "ucs", "uniform-cost":
		return UCS, nil
	case "astar", "a*", "a-star":
		return AStar, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Valid reports whether s is a supported strategy.
func (s Strategy) Valid() bool {
	switch s {
	case BFS, DFS, UCS, AStar:
		return true
	}
	return false
}

func (s Strategy) String() string { return string(s) }

// DisplayName is the label used in logs and the performance log.
func (s Strategy) DisplayName() string {
	switch s {
	case BFS:
		return "BFS"
	case DFS:
		return "DFS"
	case UCS:
		return "UCS"
	case AStar:
		return "A*"
	}
	return string(s)
}

// costOrdered reports whether the strategy keeps a best-cost map and a
// priority frontier instead of a plain visited set.
func (s Strategy) costOrdered() bool {
	return s == UCS || s == AStar
}
