package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/wordbank/pkg/cache"
	"github.com/matzehuels/wordbank/pkg/errors"
	"github.com/matzehuels/wordbank/pkg/observability"
	"github.com/matzehuels/wordbank/pkg/wordbank"
)

// Runner computes layouts with caching. Both CLI and API use it so cache
// keys and validation stay identical.
//
// The Runner holds no per-request state; multiple goroutines can share
// one.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLLayout,
	}
}

// Layout validates req, then returns the cached result or computes and
// caches a fresh one. Cache failures are logged and never fail the call.
func (r *Runner) Layout(ctx context.Context, req Request) (*Result, error) {
	if err := req.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hash := req.Hash()
	key := r.Keyer.LayoutKey(hash, req.KeyOpts())

	if data, hit, err := r.Cache.Get(ctx, key); err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
	} else if hit {
		var cached wordbank.Result
		if err := json.Unmarshal(data, &cached); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return &Result{Result: cached, Hash: hash, Cached: true}, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, len(req.Widths))
	res, err := wordbank.Positions(req.Snapshot(), req.Params)
	observability.Layout().OnLayoutComplete(ctx, res.Lines, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("computed layout", "words", len(req.Widths), "lines", res.Lines, "duration", time.Since(start))

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return &Result{Result: res, Hash: hash}, nil
}

// LayoutBatch computes several layouts concurrently. Results are in
// request order; the first error cancels the rest.
func (r *Runner) LayoutBatch(ctx context.Context, reqs []Request) ([]*Result, error) {
	if len(reqs) > MaxBatch {
		return nil, errors.New(errors.ErrCodeInvalidInput, "too many requests in batch (max %d)", MaxBatch)
	}
	out := make([]*Result, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchWorkers)
	for i := range reqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.Layout(ctx, reqs[i])
			if err != nil {
				return errors.Wrap(errors.CodeOf(err), err, "request %d", i)
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Invalidate removes the cached result for req, if any.
func (r *Runner) Invalidate(ctx context.Context, req Request) error {
	if err := req.ValidateAndSetDefaults(); err != nil {
		return err
	}
	return r.Cache.Delete(ctx, r.Keyer.LayoutKey(req.Hash(), req.KeyOpts()))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
