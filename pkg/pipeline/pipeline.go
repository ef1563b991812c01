// Package pipeline provides the route → layout → render pipeline of chanroute.
//
// The CLI, the HTTP API and the stepper all go through this package, so
// defaults, validation and caching behave the same everywhere.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Route: run the channel router with retries on the pin rows
//  2. Layout: plot the routed channel as text or as a pinned Graphviz graph
//  3. Render: produce output files (txt, json, dot, svg, png, pdf)
//
// Each stage can be run independently or as part of the complete pipeline,
// and each stage's output is cached under a key derived from its inputs.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Pins:    channel.Pins{Top: []int{1, 0, 2}, Bottom: []int{2, 0, 1}},
//	    VizType: graph.VizTypeNodelink,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chanroute/pkg/cache"
	"github.com/matzehuels/chanroute/pkg/channel"
	errs "github.com/matzehuels/chanroute/pkg/errors"
	"github.com/matzehuels/chanroute/pkg/graph"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultVizType is the default visualization type.
	DefaultVizType = graph.VizTypeText

	// DefaultStyle is the default visual style.
	DefaultStyle = graph.StyleColor

	// DefaultPNGScale is the resolution multiplier for PNG output.
	DefaultPNGScale = 2.0

	// MaxColumns bounds the pin rows accepted by the pipeline.
	MaxColumns = 10000
)

// Format constants for output formats.
const (
	FormatText = graph.FormatText
	FormatJSON = graph.FormatJSON
	FormatDOT  = graph.FormatDOT
	FormatSVG  = graph.FormatSVG
	FormatPNG  = graph.FormatPNG
	FormatPDF  = graph.FormatPDF
)

// ValidFormats maps each visualization type to the formats it can produce.
// JSON is the routed graph document and works with both.
var ValidFormats = map[string][]string{
	graph.VizTypeText:     {FormatText, FormatJSON},
	graph.VizTypeNodelink: {FormatDOT, FormatSVG, FormatPNG, FormatPDF, FormatJSON},
}

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	graph.StylePlain: true,
	graph.StyleColor: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests and storage.
type Options struct {
	// Route options
	Pins              channel.Pins `json:"pins"`
	Example           string       `json:"example,omitempty"`
	InitialWidth      int          `json:"initial_width,omitempty"`
	MinJogLength      int          `json:"min_jog_length,omitempty"`
	SteadyNetConstant int          `json:"steady_net_constant,omitempty"`
	MaxTries          int          `json:"max_tries,omitempty"`
	LengthFactor      float64      `json:"length_factor,omitempty"`
	Aesthetic         bool         `json:"aesthetic,omitempty"`
	Verify            bool         `json:"verify,omitempty"`
	Refresh           bool         `json:"refresh,omitempty"`

	// Layout options
	VizType  string `json:"viz_type,omitempty"`
	Style    string `json:"style,omitempty"`
	Scale    int    `json:"scale,omitempty"`
	Nets     []int  `json:"nets,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger      `json:"-"`
	Observer channel.Observer `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the routed channel.
	Graph graph.Graph

	// GraphHash is the content hash of the routed graph.
	GraphHash string

	// Layout is the plotted channel.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Route summarizes the routing run.
	Route channel.Stats

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RouteTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RouteHit  bool // Whether the routing came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format can be produced for a visualization type.
func ValidateFormat(vizType, format string) error {
	valid, ok := ValidFormats[vizType]
	if !ok {
		return ValidateVizType(vizType)
	}
	if !slices.Contains(valid, format) {
		return errs.New(errs.ErrCodeInvalidConfig, "invalid format %q for %s (must be one of: %s)",
			format, vizType, strings.Join(valid, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid for a visualization type.
func ValidateFormats(vizType string, formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(vizType, f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return errs.New(errs.ErrCodeInvalidConfig, "invalid style %q (must be one of: plain, color)", style)
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if _, ok := ValidFormats[vizType]; !ok {
		return errs.New(errs.ErrCodeInvalidConfig, "invalid viz_type %q (must be one of: text, nodelink)", vizType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForRoute(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForRoute resolves a named example into pins and checks the router
// configuration.
func (o *Options) ValidateForRoute() error {
	if o.Example != "" {
		ex, ok := channel.LookupExample(o.Example)
		if !ok {
			return errs.New(errs.ErrCodeInvalidInput, "unknown example %q (try one of: %s)",
				o.Example, strings.Join(channel.ExampleNames(), ", "))
		}
		if o.Pins.Len() > 0 {
			return errs.New(errs.ErrCodeInvalidInput, "pins and example are mutually exclusive")
		}
		o.Pins = ex.Pins.Clone()
		if o.InitialWidth == 0 {
			o.InitialWidth = ex.Width
		}
		o.Example = ""
	}
	if o.Pins.Top == nil {
		o.Pins.Top = []int{}
	}
	if o.Pins.Bottom == nil {
		o.Pins.Bottom = []int{}
	}
	if err := o.Pins.Validate(); err != nil {
		return err
	}
	if o.Pins.Len() > MaxColumns {
		return errs.New(errs.ErrCodeInvalidInput, "channel too long: %d columns (max %d)", o.Pins.Len(), MaxColumns)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o.RouterConfig().Validate()
}

// RouterConfig returns the router configuration. Zero values are left for
// the router to default.
func (o *Options) RouterConfig() channel.Config {
	return channel.Config{
		InitialWidth:      o.InitialWidth,
		MinJogLength:      o.MinJogLength,
		SteadyNetConstant: o.SteadyNetConstant,
		MaxTries:          o.MaxTries,
		LengthFactor:      o.LengthFactor,
		Verify:            o.Verify,
		Aesthetic:         o.Aesthetic,
	}
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "scale must be positive, got %d", o.Scale)
	}
	return ValidateStyle(o.Style)
}

// SetRenderDefaults sets default values for rendering. Text layouts default
// to a text file, nodelink layouts to SVG.
func (o *Options) SetRenderDefaults() {
	o.SetLayoutDefaults()
	if len(o.Formats) == 0 {
		if o.IsNodelink() {
			o.Formats = []string{FormatSVG}
		} else {
			o.Formats = []string{FormatText}
		}
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return ValidateFormats(o.VizType, o.Formats)
}

// IsText returns true if this is a text visualization.
func (o *Options) IsText() bool {
	return o.VizType == "" || o.VizType == graph.VizTypeText
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == graph.VizTypeNodelink
}

// RouteKeyOpts returns cache key options for routing.
func (o *Options) RouteKeyOpts() cache.RouteKeyOpts {
	return cache.RouteKeyOpts{
		InitialWidth:      o.InitialWidth,
		MinJogLength:      o.MinJogLength,
		SteadyNetConstant: o.SteadyNetConstant,
		MaxTries:          o.MaxTries,
		LengthFactor:      o.LengthFactor,
		Aesthetic:         o.Aesthetic,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		VizType:  o.VizType,
		Style:    o.Style,
		Scale:    o.Scale,
		Nets:     o.Nets,
		Detailed: o.Detailed,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Style:  o.Style,
	}
}
