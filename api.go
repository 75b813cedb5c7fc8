package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrNegativeCost is returned by the cost-ordered strategies when a
	// successor reports a step cost below zero.
	ErrNegativeCost = errors.New("negative step cost")

	// ErrUnknownStrategy is returned when a Strategy value is not one of the
	// four supported strategies.
	ErrUnknownStrategy = errors.New("unknown search strategy")
)

var tracer = otel.Tracer("search")

// Problem is generic over state type S and action type A.
// S must be comparable so it can be used in maps.
//
// Implementations must be free of side effects: the strategies assume the
// same answer for the same state every time they ask.
type Problem[S comparable, A any] interface {
	InitialState() S
	IsGoal(state S) bool
	Successors(state S) []Successor[S, A]
}

// Heuristic is implemented by problems that can estimate the remaining cost
// from a state to the goal. A* is only optimal when the estimate never
// exceeds the true remaining cost. Problems without it get a zero estimate.
type Heuristic[S comparable] interface {
	Heuristic(state S) float64
}

// Successor represents a state reachable in one action, with its step cost.
type Successor[S comparable, A any] struct {
	Action A
	State  S
	Cost   float64
}

// Result contains the outcome of a search.
//
// Actions is nil when no goal was reached. A search whose initial state is
// already a goal returns Found with an empty, non-nil Actions.
type Result[A any] struct {
	Actions       []A
	Found         bool
	Cost          float64
	Elapsed       time.Duration
	PeakMemory    uint64
	ExpandedNodes int
	// Truncated is set when the search stopped at the MaxExpansions cap
	// rather than by exhausting the frontier.
	Truncated bool
}

// PathLength returns the number of actions in the plan, 0 when none was found.
func (result Result[A]) PathLength() int {
	return len(result.Actions)
}

// Algorithm is a search strategy bound to its options, so callers can swap
// strategies without touching call sites.
type Algorithm[S comparable, A any] interface {
	Name() string
	Search(contextObject context.Context, problem Problem[S, A]) (Result[A], error)
}

// Options defines parameters for the search.
type Options struct {
	// NumberOfWorkers bounds how many searches SearchAll runs at once.
	NumberOfWorkers int
	// MaxExpansions stops a search after that many expansions; 0 means no cap.
	MaxExpansions int
	Logger        *slog.Logger
	// TrackMemory samples runtime.MemStats around the search to fill
	// Result.PeakMemory. The figure is process-wide, so concurrent searches
	// inflate each other's numbers.
	TrackMemory bool
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithWorkers specifies how many searches SearchAll may run concurrently.
func WithWorkers(numberOfWorkers int) Option {
	return func(options *Options) { options.NumberOfWorkers = numberOfWorkers }
}

// WithMaxExpansions caps the number of expansions. A search hitting the cap
// reports a not-found Result with Truncated set.
func WithMaxExpansions(maxExpansions int) Option {
	return func(options *Options) { options.MaxExpansions = maxExpansions }
}

// WithLogger sets the logger used for per-search debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(options *Options) {
		if logger != nil {
			options.Logger = logger
		}
	}
}

// WithMemoryTracking turns Result.PeakMemory sampling on or off.
func WithMemoryTracking(enabled bool) Option {
	return func(options *Options) { options.TrackMemory = enabled }
}

func applyOptions(options []Option) Options {
	searchOptions := Options{
		NumberOfWorkers: runtime.NumCPU(),
		Logger:          slog.Default(),
		TrackMemory:     true,
	}
	for _, option := range options {
		option(&searchOptions)
	}
	if searchOptions.NumberOfWorkers < 1 {
		searchOptions.NumberOfWorkers = 1
	}
	return searchOptions
}

// Solve runs strategy on problem to completion.
//
// Exhausting the frontier without reaching a goal is not an error: the
// Result has Found == false and nil Actions. Errors are limited to context
// cancellation, an unknown strategy and negative step costs under UCS/A*.
func Solve[S comparable, A any](
	contextObject context.Context,
	strategy Strategy,
	problem Problem[S, A],
	options ...Option,
) (Result[A], error) {
	if !strategy.Valid() {
		return Result[A]{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, string(strategy))
	}
	searchOptions := applyOptions(options)

	contextObject, span := tracer.Start(contextObject, "search."+strategy.String(),
		trace.WithAttributes(attribute.String("strategy", strategy.String())),
	)
	defer span.End()

	// --- Start instrumentation ---
	var memoryBefore runtime.MemStats
	if searchOptions.TrackMemory {
		runtime.ReadMemStats(&memoryBefore)
	}
	startTime := time.Now()

	// --- Run ---
	run := newEngine(strategy, problem, searchOptions.MaxExpansions)
	for !run.done {
		if err := contextObject.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return Result[A]{ExpandedNodes: run.expanded, Elapsed: time.Since(startTime)}, err
		}
		if err := run.step(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return Result[A]{ExpandedNodes: run.expanded, Elapsed: time.Since(startTime)}, err
		}
	}

	// --- Collect ---
	result := run.result()
	result.Elapsed = time.Since(startTime)
	if searchOptions.TrackMemory {
		var memoryAfter runtime.MemStats
		runtime.ReadMemStats(&memoryAfter)
		result.PeakMemory = memoryAfter.TotalAlloc - memoryBefore.TotalAlloc
	}

	span.SetAttributes(
		attribute.Int("expanded_nodes", result.ExpandedNodes),
		attribute.Bool("found", result.Found),
		attribute.Int("path_length", result.PathLength()),
		attribute.Bool("truncated", result.Truncated),
	)
	searchOptions.Logger.Debug("search finished",
		slog.String("strategy", strategy.String()),
		slog.Bool("found", result.Found),
		slog.Int("expanded_nodes", result.ExpandedNodes),
		slog.Int("path_length", result.PathLength()),
		slog.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

type algorithm[S comparable, A any] struct {
	strategy Strategy
	options  []Option
}

// New returns strategy as an Algorithm carrying options into every Search.
func New[S comparable, A any](strategy Strategy, options ...Option) (Algorithm[S, A], error) {
	if !strategy.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, string(strategy))
	}
	return algorithm[S, A]{strategy: strategy, options: options}, nil
}

func (a algorithm[S, A]) Name() string { return a.strategy.DisplayName() }

func (a algorithm[S, A]) Search(contextObject context.Context, problem Problem[S, A]) (Result[A], error) {
	return Solve(contextObject, a.strategy, problem, a.options...)
}
