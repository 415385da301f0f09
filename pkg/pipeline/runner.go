package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/crystal/pkg/cache"
	"github.com/matzehuels/crystal/pkg/errors"
	"github.com/matzehuels/crystal/pkg/observability"
	"github.com/matzehuels/crystal/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
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

// Execute runs the complete solve → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, s *scene.Scene, opts Options) (*Result, error) {
	if s == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scene is required")
	}
	r.applyLogger(&opts)
	opts.InheritWindow(s)
	if err := opts.ValidateForSolve(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	// Stage 1: Solve
	solveStart := time.Now()
	frame, solveHit, err := r.SolveWithCacheInfo(ctx, s, opts)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	result := &Result{
		SceneHash: frame.SceneHash,
		Frame:     frame,
	}
	result.Stats.SolveTime = time.Since(solveStart)
	result.Stats.NodeCount = len(frame.Boxes)
	result.Stats.DiagnosticCount = len(frame.Diagnostics)
	result.CacheInfo.SolveHit = solveHit

	r.Logger.Info("solved layout",
		"nodes", result.Stats.NodeCount,
		"diagnostics", result.Stats.DiagnosticCount,
		"cached", solveHit,
		"duration", result.Stats.SolveTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, frame, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// SolveWithCacheInfo solves a scene with caching and returns cache hit info.
// With opts.Refresh the cached frame is ignored and replaced.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, s *scene.Scene, opts Options) (*scene.Frame, bool, error) {
	if s == nil {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "scene is required")
	}
	r.applyLogger(&opts)
	opts.InheritWindow(s)
	if err := opts.ValidateForSolve(); err != nil {
		return nil, false, err
	}

	sceneHash := scene.Hash(s)
	cacheKey := r.Keyer.FrameKey(sceneHash, opts.FrameKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if f, ok := r.cachedFrame(ctx, cacheKey); ok {
			return f, true, nil
		}
	}

	hooks := observability.Solve()
	hooks.OnSolveStart(ctx, sceneHash, s.Root.Count())
	start := time.Now()
	f, err := Solve(s, opts)
	if err != nil {
		hooks.OnSolveComplete(ctx, sceneHash, 0, time.Since(start), err)
		return nil, false, err
	}
	hooks.OnSolveComplete(ctx, sceneHash, len(f.Diagnostics), time.Since(start), nil)

	if data, err := scene.MarshalFrame(f); err == nil {
		r.store(ctx, cache.KeyTypeFrame, cacheKey, data, cache.TTLFrame)
	}
	return f, false, nil
}

// Solve is a convenience wrapper that calls SolveWithCacheInfo and discards the cache hit info.
func (r *Runner) Solve(ctx context.Context, s *scene.Scene, opts Options) (*scene.Frame, error) {
	f, _, err := r.SolveWithCacheInfo(ctx, s, opts)
	return f, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, f *scene.Frame, opts Options) (map[string][]byte, bool, error) {
	if f == nil {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "frame is required")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	frameData, err := scene.MarshalFrame(f)
	if err != nil {
		return nil, false, fmt.Errorf("serialize frame for cache key: %w", err)
	}
	frameHash := cache.Hash(frameData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		data, hit := r.lookup(ctx, cache.KeyTypeArtifact, r.Keyer.ArtifactKey(frameHash, opts.ArtifactKeyOpts(format)))
		if !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	hooks := observability.Solve()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, f, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(frameHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, cache.KeyTypeArtifact, key, data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, f *scene.Frame, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, f, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) cachedFrame(ctx context.Context, key string) (*scene.Frame, bool) {
	data, hit := r.lookup(ctx, cache.KeyTypeFrame, key)
	if !hit {
		return nil, false
	}
	f, err := scene.UnmarshalFrame(data)
	if err != nil {
		// Fall through to recompute; the fresh frame overwrites the entry.
		r.Logger.Debug("discarding corrupt cached frame", "key", key, "err", err)
		return nil, false
	}
	return f, true
}

// lookup reads key and reports the outcome to the cache hooks. Backend
// errors count as misses.
func (r *Runner) lookup(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
