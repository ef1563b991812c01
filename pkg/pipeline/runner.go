package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chanroute/pkg/cache"
	"github.com/matzehuels/chanroute/pkg/graph"
	"github.com/matzehuels/chanroute/pkg/observability"
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

// Execute runs the complete route → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Route
	routeStart := time.Now()
	routed, routeHit, err := r.RouteWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("route: %w", err)
	}
	result.Graph = routed.Graph
	result.Route = routed.Stats
	result.Stats.RouteTime = time.Since(routeStart)
	result.CacheInfo.RouteHit = routeHit
	result.GraphHash = graphHash(routed.Graph)

	r.Logger.Info("routed channel",
		"nets", routed.Stats.Nets,
		"width", routed.Stats.Width,
		"tries", routed.Stats.Tries,
		"duration", result.Stats.RouteTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, routed.Graph, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"viz", l.VizType,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, routed.Graph, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RouteWithCacheInfo routes with caching and returns cache hit info.
// Refresh skips the lookup but still stores the fresh result, and an
// attached observer always forces a real run so it sees every phase.
func (r *Runner) RouteWithCacheInfo(ctx context.Context, opts Options) (Routed, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRoute(); err != nil {
		return Routed{}, false, err
	}

	pinsData, err := json.Marshal(opts.Pins)
	if err != nil {
		return Routed{}, false, fmt.Errorf("serialize pins for cache key: %w", err)
	}
	cacheKey := r.Keyer.RouteKey(cache.Hash(pinsData), opts.RouteKeyOpts())

	if !opts.Refresh && opts.Observer == nil {
		if routed, ok := r.cachedRoute(ctx, cacheKey); ok {
			return routed, true, nil
		}
	}

	routed, err := Route(ctx, opts)
	if err != nil {
		return Routed{}, false, err
	}

	if data, err := json.Marshal(routed); err == nil {
		r.store(ctx, "route", cacheKey, data, cache.TTLRoute)
	}
	return routed, false, nil
}

func (r *Runner) cachedRoute(ctx context.Context, key string) (Routed, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "route")
		return Routed{}, false
	}
	var routed Routed
	if err := json.Unmarshal(data, &routed); err != nil || routed.Graph.Validate() != nil {
		r.Logger.Debug("discarding unreadable cached routing", "key", key)
		observability.Cache().OnCacheMiss(ctx, "route")
		return Routed{}, false
	}
	observability.Cache().OnCacheHit(ctx, "route")
	return routed, true
}

// RouteChannel is a convenience wrapper that calls RouteWithCacheInfo and
// discards the cache hit info.
func (r *Runner) RouteChannel(ctx context.Context, opts Options) (Routed, error) {
	routed, _, err := r.RouteWithCacheInfo(ctx, opts)
	return routed, err
}

// GenerateLayoutWithCacheInfo generates a layout with caching and returns cache hit info.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, g graph.Graph, opts Options) (graph.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}

	cacheKey := r.Keyer.LayoutKey(graphHash(g), opts.LayoutKeyOpts())

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		if cached, err := graph.UnmarshalLayout(data); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.VizType, len(g.Nets))
	start := time.Now()
	l, err := GenerateLayout(g, opts)
	hooks.OnLayoutComplete(ctx, opts.VizType, time.Since(start), err)
	if err != nil {
		return graph.Layout{}, false, err
	}

	if data, err := graph.MarshalLayout(l); err == nil {
		r.store(ctx, "layout", cacheKey, data, cache.TTLLayout)
	}
	return l, false, nil
}

// GenerateLayout is a convenience wrapper that calls
// GenerateLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, g graph.Graph, opts Options) (graph.Layout, error) {
	l, _, err := r.GenerateLayoutWithCacheInfo(ctx, g, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. The hit is reported only when every requested format came from the
// cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, g graph.Graph, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	opts.VizType = l.VizType
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	// The json artifact is the graph, so the graph is part of the key.
	layoutHash := cache.Hash(append(layoutData, graphHash(g)...))

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := RenderFromLayout(ctx, l, g, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, "artifact", key, data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l graph.Layout, g graph.Graph, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, g, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// store writes a cache entry. Cache failures only cost a recomputation, so
// they are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, kind, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "kind", kind, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// graphHash is the content hash of a routed graph.
func graphHash(g graph.Graph) string {
	data, err := graph.MarshalGraph(g)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
