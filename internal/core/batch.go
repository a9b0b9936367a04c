package core

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// ValidateBatch validates records concurrently with at most parallelism workers
// (GOMAXPROCS when non-positive). Results are sorted by record id. When ctx is
// cancelled no further records are scheduled and the completed results are
// returned together with the context error.
func (v *Validator) ValidateBatch(ctx context.Context, records []ExperimentRecord, parallelism int) ([]ValidationResult, error) {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	results := make([]ValidationResult, len(records))
	done := make([]bool, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, record := range records {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = v.Validate(gctx, record)
			done[i] = true
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	out := make([]ValidationResult, 0, len(records))
	for i, ok := range done {
		if ok {
			out = append(out, results[i])
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].RecordID < out[b].RecordID })
	return out, err
}
