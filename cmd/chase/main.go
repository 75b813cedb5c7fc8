// Command chase runs the grid search strategies from the command line and
// serves them over HTTP.
//
// Usage:
//
//	chase run --strategy astar --start 1,1 --goal 19,17
//	chase bench --maze level1.txt --level level-1
//	chase trace --strategy dfs --maze level1.txt
//	chase simulate --ticks 200
//	chase serve --config chase.yaml
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
