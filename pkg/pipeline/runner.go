package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tensorcubes/pkg/cache"
	"github.com/matzehuels/tensorcubes/pkg/errors"
	"github.com/matzehuels/tensorcubes/pkg/layout"
	"github.com/matzehuels/tensorcubes/pkg/observability"
	"github.com/matzehuels/tensorcubes/pkg/scene"
)

// cacheKeyType labels layout entries in cache hooks.
const cacheKeyType = "layout"

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-request state; multiple goroutines can use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer selects the default keyer and a nil
// cache disables caching.
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs prepare and layout and reports the role plan and timings.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	parseStart := time.Now()
	in, err := r.prepare(ctx, opts)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Plan:   layout.Plan(in.Config),
		Source: in.Source,
	}
	result.Stats.Rank = in.Config.Shape.Rank()
	result.Stats.ParseTime = time.Since(parseStart)

	opts.Logger.Info("parsed input",
		"source", in.Source,
		"shape", in.Config.Shape,
		"duration", result.Stats.ParseTime)

	layoutStart := time.Now()
	s, hit, err := r.layout(ctx, opts, in)
	if err != nil {
		return nil, err
	}
	result.Scene = s
	result.CacheHit = hit
	result.Stats.Boxes = s.Count
	result.Stats.LayoutTime = time.Since(layoutStart)

	opts.Logger.Info("computed layout",
		"boxes", s.Count,
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	return result, nil
}

// LayoutWithCacheInfo computes the scene for opts and reports whether it came
// from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, opts Options) (scene.Scene, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return scene.Scene{}, false, fmt.Errorf("invalid options: %w", err)
	}
	in, err := r.prepare(ctx, opts)
	if err != nil {
		return scene.Scene{}, false, err
	}
	return r.layout(ctx, opts, in)
}

// Layout is a convenience wrapper that discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, opts Options) (scene.Scene, error) {
	s, _, err := r.LayoutWithCacheInfo(ctx, opts)
	return s, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) prepare(ctx context.Context, opts Options) (*Input, error) {
	start := time.Now()
	in, err := Prepare(opts)

	source, rank := SourceShape, 0
	if in != nil {
		source, rank = in.Source, in.Config.Shape.Rank()
	} else if opts.Tensor != "" {
		source = SourceTensor
	}
	observability.Pipeline().OnParseComplete(ctx, source, rank, time.Since(start), err)

	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	return in, nil
}

// layout checks the size limit, then serves the scene from cache or computes
// and stores it. Cache failures are logged and never fail the layout.
func (r *Runner) layout(ctx context.Context, opts Options, in *Input) (scene.Scene, bool, error) {
	cfg := in.Config
	predicted := layout.Count(cfg)
	if predicted > opts.MaxBoxes {
		return scene.Scene{}, false, errors.Wrap(errors.ErrCodeTooLarge,
			&errors.TooLargeError{Count: predicted, Limit: opts.MaxBoxes},
			"layout exceeds max boxes")
	}
	if err := ctx.Err(); err != nil {
		return scene.Scene{}, false, err
	}

	key := r.Keyer.LayoutKey(in.Hash, LayoutKeyOpts(cfg))
	if !opts.Refresh {
		if s, ok := r.cached(ctx, opts.Logger, key); ok {
			return s, true, nil
		}
	}

	mode := cfg.Mode.String()
	observability.Pipeline().OnLayoutStart(ctx, mode, predicted)
	start := time.Now()
	s := scene.New(cfg, layout.Compute(cfg))
	observability.Pipeline().OnLayoutComplete(ctx, mode, s.Count, time.Since(start), nil)

	opts.Logger.Debug("layout computed", "mode", mode, "boxes", s.Count, "duration", time.Since(start))

	data, err := scene.Marshal(s)
	if err != nil {
		opts.Logger.Warn("encode scene for cache", "err", err)
		return s, false, nil
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
		opts.Logger.Warn("cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
	}
	return s, false, nil
}

func (r *Runner) cached(ctx context.Context, logger *log.Logger, key string) (scene.Scene, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "err", err)
		return scene.Scene{}, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return scene.Scene{}, false
	}
	s, err := scene.Unmarshal(data)
	if err != nil {
		logger.Debug("discarding unreadable cached scene", "err", err)
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return scene.Scene{}, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return s, true
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
