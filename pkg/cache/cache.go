// Package cache stores routing results, layouts and rendered artifacts
// behind a small key/value interface.
//
// Three backends are provided: [FileCache] for the CLI, [RedisCache] for a
// cache shared between server instances, and [NullCache] when caching is
// disabled. Keys are built by a [Keyer] so that every input that changes an
// output also changes its key.
package cache

import (
	"context"
	"time"
)

// Time-to-live for each kind of entry. Routing is deterministic, so entries
// only expire to bound disk and memory usage.
const (
	TTLRoute    = 30 * 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); an error means the backend
// itself failed. A ttl of zero stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys for each pipeline stage.
type Keyer interface {
	// RouteKey identifies the routing of a pin set under the given options.
	RouteKey(pinsHash string, opts RouteKeyOpts) string
	// LayoutKey identifies the layout of a routed graph.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies one rendered output format of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// RouteKeyOpts are the router settings that influence a routing result.
type RouteKeyOpts struct {
	InitialWidth      int     `json:"initial_width"`
	MinJogLength      int     `json:"min_jog_length"`
	SteadyNetConstant int     `json:"steady_net_constant"`
	MaxTries          int     `json:"max_tries"`
	LengthFactor      float64 `json:"length_factor"`
	Aesthetic         bool    `json:"aesthetic"`
}

// LayoutKeyOpts are the settings that influence a layout.
type LayoutKeyOpts struct {
	VizType  string `json:"viz_type"`
	Style    string `json:"style"`
	Scale    int    `json:"scale"`
	Nets     []int  `json:"nets,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
}

// ArtifactKeyOpts are the settings that influence a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Style  string `json:"style"`
}

// DefaultKeyer hashes every key component with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RouteKey implements Keyer.
func (DefaultKeyer) RouteKey(pinsHash string, opts RouteKeyOpts) string {
	return hashKey("route", pinsHash, opts)
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
