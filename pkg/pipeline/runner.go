package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/OpenLiberty/open-liberty-sub391/pkg/cache"
	"github.com/OpenLiberty/open-liberty-sub391/pkg/errors"
	"github.com/OpenLiberty/open-liberty-sub391/pkg/fragment"
	fragio "github.com/OpenLiberty/open-liberty-sub391/pkg/io"
	"github.com/OpenLiberty/open-liberty-sub391/pkg/observability"
)

// Runner encapsulates ordering runs with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// Results are computed at most once per cache key while the cache backend
// holds the entry, even when many goroutines ask for the same manifest at the
// same time. The Runner itself keeps no results. Multiple goroutines can
// safely use the same Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	flight cache.Flight[outcome]
}

// record is the cached form of an ordering result.
type record struct {
	Module string           `json:"module"`
	Result *fragment.Result `json:"result"`
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
	}
}

// Order decodes the manifest described by opts and orders its fragments.
//
// Ordering failures are returned unchanged so that their error codes and
// typed causes stay reachable with errors.As.
func (r *Runner) Order(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	start := time.Now()

	data, err := loadManifest(opts)
	if err != nil {
		return nil, err
	}
	m, err := fragio.DecodeManifest(data, opts.format)
	if err != nil {
		return nil, err
	}
	in, err := m.Input()
	if err != nil {
		return nil, err
	}
	opts.apply(&in)

	hooks := observability.Ordering()
	hooks.OnOrderStart(ctx, in.Module)

	key := r.Keyer.OrderKey(cache.Hash(data), opts.OrderKeyOpts())
	rec, hit, err := r.order(ctx, key, in, opts)
	elapsed := time.Since(start)
	if err != nil {
		hooks.OnOrderComplete(ctx, in.Module, "", 0, elapsed, err)
		opts.Logger.Debug("ordering failed", "module", in.Module, "code", errors.GetCode(err))
		return nil, err
	}

	res := newResult(rec, hit, elapsed)
	hooks.OnOrderComplete(ctx, res.Module, res.Mode.String(), len(res.Ordered), elapsed, nil)
	opts.Logger.Info("ordered fragments",
		"module", res.Module,
		"mode", res.Mode,
		"ordered", len(res.Ordered),
		"excluded", len(res.Excluded),
		"cached", hit,
		"duration", elapsed)
	return res, nil
}

// outcome is what one flight of order produces.
type outcome struct {
	rec    *record
	cached bool
}

// order returns the result for key from the cache backend or by running the
// engine. Concurrent calls for the same key share one flight, and the backend
// is checked inside it, so a result the backend already holds is never
// recomputed.
func (r *Runner) order(ctx context.Context, key string, in fragment.Input, opts Options) (*record, bool, error) {
	flightKey := key
	if opts.Refresh {
		flightKey = "refresh:" + key
	}
	out, _, err := r.flight.Do(flightKey, func() (outcome, error) {
		if !opts.Refresh {
			if rec, ok := r.lookup(ctx, key, opts); ok {
				return outcome{rec: rec, cached: true}, nil
			}
		}
		res, err := fragment.Order(in)
		if err != nil {
			return outcome{}, err
		}
		rec := &record{Module: in.Module, Result: res}
		r.store(ctx, key, rec, opts)
		return outcome{rec: rec}, nil
	})
	if err != nil {
		return nil, false, err
	}
	return out.rec, out.cached, nil
}

func (r *Runner) lookup(ctx context.Context, key string, opts Options) (*record, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache read failed", "err", err)
	}
	if hit {
		var rec record
		if err := json.Unmarshal(data, &rec); err == nil && rec.Result != nil {
			observability.Cache().OnCacheHit(ctx, "order")
			return &rec, true
		}
	}
	observability.Cache().OnCacheMiss(ctx, "order")
	return nil, false
}

func (r *Runner) store(ctx context.Context, key string, rec *record, opts Options) {
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, opts.TTL); err != nil {
		opts.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "order", len(data))
}

func newResult(rec *record, hit bool, elapsed time.Duration) *Result {
	res := &Result{
		RunID:    uuid.NewString(),
		Module:   rec.Module,
		Mode:     rec.Result.Mode,
		Ordered:  rec.Result.Ordered,
		Excluded: rec.Result.Excluded,
		Graph:    rec.Result.Graph,
		CacheHit: hit,
	}
	if data, err := json.Marshal(rec); err == nil {
		res.ResultHash = cache.Hash(data)
	}
	res.Stats = Stats{
		Fragments: len(res.Ordered),
		Excluded:  len(res.Excluded),
		Duration:  elapsed,
	}
	if res.Graph != nil {
		res.Stats.Nodes = len(res.Graph.Nodes)
		res.Stats.Edges = len(res.Graph.Edges)
	}
	return res
}

func loadManifest(opts Options) ([]byte, error) {
	if len(opts.Manifest) > 0 {
		return opts.Manifest, nil
	}
	data, err := os.ReadFile(opts.ManifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", opts.ManifestPath)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", opts.ManifestPath)
	}
	return data, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
