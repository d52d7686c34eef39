// Package estimator measures routers: how evenly keys spread over buckets
// and what fraction of keys two routers disagree on.
package estimator

import (
	"context"
	"fmt"
	"iter"
	"math"
	"runtime"
	"sync/atomic"

	"github.com/zhangyunhao116/skipmap"
	"golang.org/x/sync/errgroup"

	"chash/pkg/routeerrors"
	"chash/pkg/sharding"
	"chash/pkg/types"
)

const DefaultBatchSize = 1 << 16

type Options struct {
	// Workers bounds concurrent batches. Zero means GOMAXPROCS.
	Workers int
	// BatchSize is the number of keys handed to one worker at a time.
	BatchSize int
}

type Estimator struct {
	workers   int
	batchSize int
}

func New(opts Options) *Estimator {
	e := &Estimator{workers: opts.Workers, batchSize: opts.BatchSize}
	if e.workers <= 0 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	if e.batchSize <= 0 {
		e.batchSize = DefaultBatchSize
	}
	return e
}

// Estimation summarizes a bucket histogram.
type Estimation struct {
	Mean      float64
	Std       float64
	Histogram []int
}

func (e Estimation) String() string {
	return fmt.Sprintf("{mean=%g, std=%g}", e.Mean, e.Std)
}

type counters = skipmap.FuncMap[int, *atomic.Int64]

// Estimate routes every key and counts Route(key) mod buckets. Empty
// buckets are part of the histogram.
func (e *Estimator) Estimate(ctx context.Context, r sharding.Router, buckets int, keys iter.Seq[types.Key]) (Estimation, error) {
	if buckets < 1 {
		return Estimation{}, fmt.Errorf("%w: buckets must be >= 1, got %d", routeerrors.ErrInvalidArgument, buckets)
	}

	hist := skipmap.NewFunc[int, *atomic.Int64](func(a, b int) bool { return a < b })
	err := e.run(ctx, keys, func(batch []types.Key) {
		local := make(map[int]int64)
		for _, k := range batch {
			local[r.Route(k)%buckets]++
		}
		for bucket, n := range local {
			c, _ := hist.LoadOrStore(bucket, new(atomic.Int64))
			c.Add(n)
		}
	})
	if err != nil {
		return Estimation{}, err
	}
	return summarize(hist, buckets), nil
}

// Diff returns the fraction of keys that a and b route to different nodes.
func (e *Estimator) Diff(ctx context.Context, a, b sharding.Router, keys iter.Seq[types.Key]) (float64, error) {
	var diff, total atomic.Int64
	err := e.run(ctx, keys, func(batch []types.Key) {
		var d int64
		for _, k := range batch {
			if a.Route(k) != b.Route(k) {
				d++
			}
		}
		diff.Add(d)
		total.Add(int64(len(batch)))
	})
	if err != nil {
		return 0, err
	}
	if total.Load() == 0 {
		return 0, nil
	}
	return float64(diff.Load()) / float64(total.Load()), nil
}

// run cuts keys into batches and feeds them to at most e.workers goroutines.
func (e *Estimator) run(ctx context.Context, keys iter.Seq[types.Key], fn func([]types.Key)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	submit := func(batch []types.Key) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(batch)
			return nil
		})
	}

	batch := make([]types.Key, 0, e.batchSize)
	for k := range keys {
		batch = append(batch, k)
		if len(batch) < e.batchSize {
			continue
		}
		if gctx.Err() != nil {
			break
		}
		submit(batch)
		batch = make([]types.Key, 0, e.batchSize)
	}
	if len(batch) > 0 && gctx.Err() == nil {
		submit(batch)
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func summarize(hist *counters, buckets int) Estimation {
	h := make([]int, buckets)
	hist.Range(func(bucket int, c *atomic.Int64) bool {
		h[bucket] = int(c.Load())
		return true
	})

	var sum float64
	for _, n := range h {
		sum += float64(n)
	}
	mean := sum / float64(buckets)

	var sq float64
	for _, n := range h {
		sq += math.Pow(float64(n)-mean, 2)
	}
	return Estimation{
		Mean:      mean,
		Std:       math.Sqrt(sq / float64(buckets)),
		Histogram: h,
	}
}
