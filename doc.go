// Package search provides generic graph-search strategies over an abstract
// search problem.
//
// A Problem supplies an initial state, a goal test and a successor function;
// an optional Heuristic estimate guides A*. Four interchangeable strategies
// solve any Problem:
//
//   - BFS: breadth-first, FIFO frontier, goal tested when a child is generated.
//   - DFS: depth-first, LIFO frontier.
//   - UCS: uniform-cost, priority = path cost.
//   - AStar: priority = path cost + heuristic.
//
// It exposes three entry points:
//
//   - Solve: run a strategy to completion and get a Result.
//   - Stepper: iterate the search one frontier removal at a time to drive UIs or debugging tools.
//   - SearchAll: run many independent searches on a bounded worker pool.
//
// Failing to reach a goal is a normal outcome reported through Result.Found,
// never an error.
package search
