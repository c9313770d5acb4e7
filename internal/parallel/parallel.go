// Package parallel splits index ranges across a bounded set of workers.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the worker count used when a caller passes zero.
func DefaultWorkers() int { return runtime.NumCPU() }

// Chunk is a half-open index range [Start, End).
type Chunk struct {
	Start, End int
}

// Chunks divides [0, n) into at most workers contiguous ranges of at least
// minChunk indices each.
func Chunks(n, workers, minChunk int) []Chunk {
	if n <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	size := (n + workers - 1) / workers
	chunks := make([]Chunk, 0, workers)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		chunks = append(chunks, Chunk{Start: start, End: end})
	}
	return chunks
}

// For executes fn over [0, n), one goroutine per chunk. Chunks never
// overlap, so workers writing only to their own indices need no locking.
// The first error, or ctx cancellation, is returned once all workers stop.
func For(ctx context.Context, n, workers, minChunk int, fn func(ctx context.Context, start, end int) error) error {
	chunks := Chunks(n, workers, minChunk)
	if len(chunks) <= 1 {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(chunks) == 0 {
			return nil
		}
		return fn(ctx, 0, n)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range chunks {
		c := c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, c.Start, c.End)
		})
	}
	return g.Wait()
}

// Sum runs fn over [0, n) like For and adds the per-chunk partial results
// in chunk order, so the total does not depend on scheduling.
func Sum(ctx context.Context, n, workers, minChunk int, fn func(ctx context.Context, start, end int) (float64, error)) (float64, error) {
	chunks := Chunks(n, workers, minChunk)
	partials := make([]float64, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range chunks {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := fn(gctx, c.Start, c.End)
			if err != nil {
				return err
			}
			partials[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var total float64
	for _, p := range partials {
		total += p
	}
	return total, nil
}
