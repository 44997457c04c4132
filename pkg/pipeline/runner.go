package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/deconflict/pkg/cache"
	apperrors "github.com/matzehuels/deconflict/pkg/errors"
	"github.com/matzehuels/deconflict/pkg/layout"
	"github.com/matzehuels/deconflict/pkg/observability"
	"github.com/matzehuels/deconflict/pkg/resolve"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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

// Execute runs the complete load → resolve → write pipeline with
// caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	// Stage 1: Load
	loadStart := time.Now()
	l, err := r.Load(opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	r.Logger.Info("loaded layout",
		"elements", len(l.Elements),
		"groups", len(l.Groups),
		"links", len(l.Links),
		"duration", time.Since(loadStart))

	// Stage 2: Resolve
	result, err := r.ResolveWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	r.Logger.Info("resolution finished",
		"status", result.Report.Status,
		"iterations", len(result.Report.Iterations),
		"shifts", result.Report.ShiftCount(),
		"cache_hit", result.CacheInfo.ResolveHit)

	// Stage 3: Write
	if opts.Output != "" {
		if err := layout.WriteLayoutFile(result.Layout, opts.Output); err != nil {
			return nil, fmt.Errorf("write: %w", err)
		}
		r.Logger.Info("wrote resolved layout", "path", opts.Output)
	}

	return result, nil
}

// Load reads the input layout: the in-memory layout when set, the input
// file otherwise.
func (r *Runner) Load(opts Options) (*layout.Layout, error) {
	if opts.Layout != nil {
		return opts.Layout, nil
	}
	l, err := layout.ReadLayoutFile(opts.Input)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "layout file %s", opts.Input)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidLayout, err, "layout file %s", opts.Input)
	}
	return l, nil
}

// ResolveWithCacheInfo runs the resolve stage with caching and returns
// cache hit info in the result.
//
// The cache key covers the layout bytes and the effective config, so a
// tuning change never serves a stale result. A hit restores both the
// resolved layout and the run report; if either entry is missing or
// corrupt the stage recomputes.
func (r *Runner) ResolveWithCacheInfo(ctx context.Context, l *layout.Layout, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	cfg, err := opts.ResolveConfig()
	if err != nil {
		return nil, err
	}

	layoutData, err := layout.MarshalLayout(l)
	if err != nil {
		return nil, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)
	configHash := configHash(cfg)

	keyer := r.Keyer
	if opts.Scope != "" {
		keyer = cache.NewScopedKeyer(keyer, opts.Scope+":")
	}
	resolveKey := keyer.ResolveKey(layoutHash, configHash)
	reportKey := keyer.ReportKey(layoutHash, configHash)

	result := &Result{LayoutHash: layoutHash}

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if cached, ok := r.cachedResult(ctx, resolveKey, reportKey); ok {
			observability.Cache().OnCacheHit(ctx, "resolve")
			cached.LayoutHash = layoutHash
			cached.CacheInfo.ResolveHit = true
			return cached, nil
		}
		observability.Cache().OnCacheMiss(ctx, "resolve")
	}

	// Resolve on a copy so the caller's layout stays pristine on error
	// paths and the cached bytes match what we return.
	work := l.Clone()
	resolver := resolve.New(cfg, opts.Logger)
	report := resolver.Run(ctx, work)

	result.Layout = work
	result.Report = report

	// Cache the result
	if resolvedData, err := layout.MarshalLayout(work); err == nil {
		if err := r.Cache.Set(ctx, resolveKey, resolvedData, cache.ResolveTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "resolve", len(resolvedData))
		}
	}
	if reportData, err := json.Marshal(report); err == nil {
		if err := r.Cache.Set(ctx, reportKey, reportData, cache.ReportTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "report", len(reportData))
		}
	}

	return result, nil
}

// Resolve is a convenience wrapper that calls ResolveWithCacheInfo and
// discards the cache info.
func (r *Runner) Resolve(ctx context.Context, l *layout.Layout, opts Options) (*layout.Layout, *resolve.Report, error) {
	result, err := r.ResolveWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, nil, err
	}
	return result.Layout, result.Report, nil
}

// cachedResult restores a resolved layout and its report from cache.
// Both entries must be present and well-formed.
func (r *Runner) cachedResult(ctx context.Context, resolveKey, reportKey string) (*Result, bool) {
	layoutData, hit, err := r.Cache.Get(ctx, resolveKey)
	if err != nil || !hit {
		return nil, false
	}
	reportData, hit, err := r.Cache.Get(ctx, reportKey)
	if err != nil || !hit {
		return nil, false
	}

	l, err := layout.UnmarshalLayout(layoutData)
	if err != nil {
		return nil, false
	}
	var report resolve.Report
	if err := json.Unmarshal(reportData, &report); err != nil {
		return nil, false
	}
	return &Result{Layout: l, Report: &report}, true
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

// configHash derives the cache key component covering the tuning.
func configHash(cfg resolve.Config) string {
	data, _ := json.Marshal(cfg)
	return cache.Hash(data)
}
