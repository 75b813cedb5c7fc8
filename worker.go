package search

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Job is one independent search handed to SearchAll.
type Job[S comparable, A any] struct {
	Strategy Strategy
	Problem  Problem[S, A]
}

// SearchAll runs every job with at most NumberOfWorkers searches in flight.
// Results come back in job order. Each search builds its own frontier and
// explored structures; the problems must only share read-only data.
//
// The first failing job cancels the rest and its error is returned.
func SearchAll[S comparable, A any](
	contextObject context.Context,
	jobs []Job[S, A],
	options ...Option,
) ([]Result[A], error) {
	searchOptions := applyOptions(options)
	results := make([]Result[A], len(jobs))

	group, groupContext := errgroup.WithContext(contextObject)
	group.SetLimit(searchOptions.NumberOfWorkers)
	for jobIndex, job := range jobs {
		group.Go(func() error {
			result, err := Solve(groupContext, job.Strategy, job.Problem, options...)
			if err != nil {
				return fmt.Errorf("job %d (%s): %w", jobIndex, job.Strategy, err)
			}
			results[jobIndex] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
