package runner

// #region imports
import (
	"context"

	"golang.org/x/sync/errgroup"
)

// #endregion

// #region batch

// defaultBatchLimit bounds concurrent runs in RunAll.
const defaultBatchLimit = 4

// RunAll executes independent runs concurrently and returns results in
// request order. Runs for different project+lane pairs share nothing;
// concurrent runs for the same pair only race on the append-only history
// log, which needs no lock: reads are snapshot-at-call-time and writes are
// pure appends. The first error cancels the remaining runs.
func (r *Runner) RunAll(ctx context.Context, reqs []Request, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = defaultBatchLimit
	}

	results := make([]Result, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			res, err := r.Run(ctx, req)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// #endregion batch
