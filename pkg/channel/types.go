package channel

import (
	"fmt"
	"sort"

	errs "github.com/matzehuels/chanroute/pkg/errors"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultMinJogLength is the shortest vertical move the compressor and the
	// pusher will commit.
	DefaultMinJogLength = 1

	// DefaultSteadyNetConstant is the column look-ahead used by Classify.
	DefaultSteadyNetConstant = 10

	// DefaultMaxTries is the attempt budget of RouteAndRetry.
	DefaultMaxTries = 10

	// DefaultLengthFactor bounds how far past its pins a channel may grow
	// before a routing attempt is abandoned.
	DefaultLengthFactor = 1.5
)

// =============================================================================
// Pins
// =============================================================================

// Pins are the two boundary rows of a channel. Index i is column i. Zero
// marks a column without a pin; any positive value names a net.
type Pins struct {
	Top    []int `json:"top" toml:"top" bson:"top"`
	Bottom []int `json:"bottom" toml:"bottom" bson:"bottom"`
}

// Len returns the channel length in columns.
func (p Pins) Len() int { return len(p.Top) }

// Validate reports a configuration error for malformed rows.
func (p Pins) Validate() error {
	return errs.ValidatePins(p.Top, p.Bottom)
}

// Nets returns the distinct net ids in ascending order.
func (p Pins) Nets() []int {
	seen := make(map[int]bool)
	var nets []int
	for _, row := range [][]int{p.Top, p.Bottom} {
		for _, n := range row {
			if n != 0 && !seen[n] {
				seen[n] = true
				nets = append(nets, n)
			}
		}
	}
	sort.Ints(nets)
	return nets
}

// Empty reports whether no column carries a pin.
func (p Pins) Empty() bool {
	return len(p.Nets()) == 0
}

// Clone returns a deep copy.
func (p Pins) Clone() Pins {
	return Pins{
		Top:    append([]int(nil), p.Top...),
		Bottom: append([]int(nil), p.Bottom...),
	}
}

// Side selects a channel edge.
type Side int

const (
	SideAny Side = iota
	SideTop
	SideBottom
)

func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	default:
		return "any"
	}
}

// Class is the direction a net is heading to.
type Class int

const (
	Steady Class = iota
	Rising
	Falling
)

func (c Class) String() string {
	switch c {
	case Rising:
		return "rising"
	case Falling:
		return "falling"
	default:
		return "steady"
	}
}

// =============================================================================
// Geometry
// =============================================================================

// Point is a grid node. Track 0 is the bottom pin row and track width+1 the
// top pin row.
type Point struct {
	Col   int `json:"col" bson:"col"`
	Track int `json:"track" bson:"track"`
}

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.Col, p.Track) }

// Less orders points by column, then track.
func (p Point) Less(q Point) bool {
	if p.Col != q.Col {
		return p.Col < q.Col
	}
	return p.Track < q.Track
}

// Segment is an axis-aligned wire. From is never greater than To.
type Segment struct {
	From Point `json:"from" bson:"from"`
	To   Point `json:"to" bson:"to"`
}

// NewSegment normalizes the endpoint order.
func NewSegment(a, b Point) Segment {
	if b.Less(a) {
		a, b = b, a
	}
	return Segment{From: a, To: b}
}

// Vertical reports whether the segment stays in one column.
func (s Segment) Vertical() bool { return s.From.Col == s.To.Col }

// Len is the Manhattan length of the segment.
func (s Segment) Len() int {
	return (s.To.Col - s.From.Col) + (s.To.Track - s.From.Track)
}

func (s Segment) String() string { return s.From.String() + "-" + s.To.String() }

// units expands the segment into unit steps.
func (s Segment) units() []Segment {
	var out []Segment
	if s.Vertical() {
		for y := s.From.Track; y < s.To.Track; y++ {
			out = append(out, Segment{Point{s.From.Col, y}, Point{s.From.Col, y + 1}})
		}
		return out
	}
	for x := s.From.Col; x < s.To.Col; x++ {
		out = append(out, Segment{Point{x, s.From.Track}, Point{x + 1, s.From.Track}})
	}
	return out
}

// WireGraph maps each net to the wire segments laid down for it.
type WireGraph map[int][]Segment

// Nets returns the net ids in ascending order.
func (g WireGraph) Nets() []int {
	nets := make([]int, 0, len(g))
	for n := range g {
		nets = append(nets, n)
	}
	sort.Ints(nets)
	return nets
}

// SegmentCount returns the total number of segments across all nets.
func (g WireGraph) SegmentCount() int {
	n := 0
	for _, segs := range g {
		n += len(segs)
	}
	return n
}

// WireLength returns the summed Manhattan length of all segments.
func (g WireGraph) WireLength() int {
	n := 0
	for _, segs := range g {
		for _, s := range segs {
			n += s.Len()
		}
	}
	return n
}

// Clone returns a deep copy.
func (g WireGraph) Clone() WireGraph {
	out := make(WireGraph, len(g))
	for n, segs := range g {
		out[n] = append([]Segment(nil), segs...)
	}
	return out
}

// =============================================================================
// Config
// =============================================================================

// Config tunes a routing run. Zero values select the defaults.
type Config struct {
	// InitialWidth is the number of tracks to start with. Zero uses Density.
	InitialWidth int `json:"initial_width,omitempty" toml:"initial_width" bson:"initial_width,omitempty"`

	// MinJogLength is the shortest compressing or pushing jog to commit.
	MinJogLength int `json:"min_jog_length,omitempty" toml:"min_jog_length" bson:"min_jog_length,omitempty"`

	// SteadyNetConstant is the look-ahead in columns used by Classify.
	SteadyNetConstant int `json:"steady_net_constant,omitempty" toml:"steady_net_constant" bson:"steady_net_constant,omitempty"`

	// MaxTries is the attempt budget of RouteAndRetry.
	MaxTries int `json:"max_tries,omitempty" toml:"max_tries" bson:"max_tries,omitempty"`

	// LengthFactor is the safety cutoff as a multiple of the pin row length.
	LengthFactor float64 `json:"length_factor,omitempty" toml:"length_factor" bson:"length_factor,omitempty"`

	// Verify checks the no-overlap invariant after every phase.
	Verify bool `json:"verify,omitempty" toml:"verify" bson:"verify,omitempty"`

	// Aesthetic lets RouteAndRetry re-run with a shorter minimum jog
	// length once a routing succeeded.
	Aesthetic bool `json:"aesthetic,omitempty" toml:"aesthetic" bson:"aesthetic,omitempty"`
}

// Validate rejects negative or otherwise unusable values.
func (c Config) Validate() error {
	for _, f := range []struct {
		name string
		v    int
	}{
		{"initial_width", c.InitialWidth},
		{"min_jog_length", c.MinJogLength},
		{"steady_net_constant", c.SteadyNetConstant},
		{"max_tries", c.MaxTries},
	} {
		if err := errs.ValidatePositive(f.name, f.v); err != nil {
			return err
		}
	}
	if c.LengthFactor != 0 && c.LengthFactor < 1 {
		return errs.New(errs.ErrCodeInvalidConfig, "length_factor must be at least 1, got %g", c.LengthFactor)
	}
	return nil
}

// SetDefaults fills zero fields. InitialWidth is left alone since its
// default depends on the pins.
func (c *Config) SetDefaults() {
	if c.MinJogLength == 0 {
		c.MinJogLength = DefaultMinJogLength
	}
	if c.SteadyNetConstant == 0 {
		c.SteadyNetConstant = DefaultSteadyNetConstant
	}
	if c.MaxTries == 0 {
		c.MaxTries = DefaultMaxTries
	}
	if c.LengthFactor == 0 {
		c.LengthFactor = DefaultLengthFactor
	}
}
