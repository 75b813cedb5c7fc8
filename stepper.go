package search

import "fmt"

// StepSnapshot exposes the per-iteration state of the search
type StepSnapshot[S comparable, A any] struct {
	StepIndex int
	// Current is the node expanded by this step; zero before the first expansion.
	Current  S
	Expanded int
	// Frontier lists the waiting states, in no particular order.
	Frontier  []S
	Done      bool
	Found     bool
	Truncated bool
	Actions   []A
}

// Stepper runs any strategy one expansion at a time. Driving it to Done
// produces the same actions and expansion count as Solve.
//
// A Stepper is not safe for concurrent use.
type Stepper[S comparable, A any] struct {
	strategy  Strategy
	run       *engine[S, A]
	stepCount int
}

// NewStepper creates a new stepper over the same engine Solve uses.
func NewStepper[S comparable, A any](
	strategy Strategy,
	problem Problem[S, A],
	options ...Option,
) (*Stepper[S, A], error) {
	if !strategy.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, string(strategy))
	}
	opts := applyOptions(options)
	return &Stepper[S, A]{
		strategy: strategy,
		run:      newEngine(strategy, problem, opts.MaxExpansions),
	}, nil
}

// Strategy returns the strategy being stepped.
func (s *Stepper[S, A]) Strategy() Strategy { return s.strategy }

// Done reports whether the search has finished.
func (s *Stepper[S, A]) Done() bool { return s.run.done }

// Step removes one node from the frontier and returns a snapshot. A stale
// UCS/A* entry still takes a Step, with Current set to its state. Calling
// Step after Done returns the final snapshot again.
func (s *Stepper[S, A]) Step() (StepSnapshot[S, A], error) {
	if !s.run.done {
		s.stepCount++
		if err := s.run.step(); err != nil {
			s.run.done = true
			return s.snapshot(), err
		}
	}
	return s.snapshot(), nil
}

// Result returns the outcome so far. Elapsed and PeakMemory are not
// measured for stepped searches.
func (s *Stepper[S, A]) Result() Result[A] {
	return s.run.result()
}

func (s *Stepper[S, A]) snapshot() StepSnapshot[S, A] {
	snapshot := StepSnapshot[S, A]{
		StepIndex: s.stepCount,
		Expanded:  s.run.expanded,
		Frontier:  s.run.frontierStates(),
		Done:      s.run.done,
		Truncated: s.run.truncated,
	}
	if s.run.current != noParent {
		snapshot.Current = s.run.tree.at(s.run.current).state
	}
	if s.run.goal != noParent {
		snapshot.Found = true
		snapshot.Actions = s.run.tree.actions(s.run.goal)
	}
	return snapshot
}
