package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/hoverrun/pkg/sequence"
)

// Concurrent runs action for each element in its own goroutine and waits for
// all of them. It returns the first error encountered.
func Concurrent[T any](i *sequence.Iterator[T], action func(T) error) error {
	var g errgroup.Group
	for value := range i.Seq() {
		g.Go(func() error {
			return action(value)
		})
	}
	return g.Wait()
}

// ParallelMap applies mapFn to every element with at most workers goroutines
// and keeps the input order. The first error cancels ctx for the remaining
// calls and is returned.
func ParallelMap[T any, R any](ctx context.Context, i *sequence.Iterator[T], workers int, mapFn func(context.Context, T) (R, error)) ([]R, error) {
	in := i.Collect()
	out := make([]R, len(in))
	if workers <= 0 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for idx, val := range in {
		g.Go(func() error {
			r, err := mapFn(ctx, val)
			if err != nil {
				return err
			}
			out[idx] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
