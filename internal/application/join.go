package application

import (
	"context"

	"github.com/OliveiraNt/offset-scout/internal/domain"
	"golang.org/x/sync/errgroup"
)

// FailFast runs fn for every index in [0, n) concurrently and returns the results in index
// order. The first failure cancels the context of the remaining calls and is returned at once
// as a *domain.AggregationError; the join does not wait for the cancelled calls to drain.
// limit bounds how many calls run at a time, 0 means unbounded.
func FailFast[T any](ctx context.Context, scope string, n, limit int, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	if n <= 0 {
		return []T{}, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	results := make([]T, n)
	errc := make(chan error, 1)
	done := make(chan struct{})
	var waitErr error

	go func() {
		defer close(done)
		for i := 0; i < n; i++ {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				v, err := fn(gctx, i)
				if err != nil {
					select {
					case errc <- &domain.AggregationError{Scope: scope, Index: i, Err: err}:
					default:
					}
					return err
				}
				results[i] = v
				return nil
			})
		}
		waitErr = g.Wait()
	}()

	select {
	case err := <-errc:
		cancel()
		return nil, err
	case <-done:
		cancel()
	}

	select {
	case err := <-errc:
		return nil, err
	default:
	}
	if waitErr != nil {
		return nil, waitErr
	}
	return results, nil
}
