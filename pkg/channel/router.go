package channel

import (
	"sort"
)

// Router owns the complete mutable state of one routing run. A Router is
// not safe for concurrent use; independent runs may proceed in parallel.
type Router struct {
	pins   Pins
	cfg    Config
	length int // pin row length, fixed for the run
	width  int
	col    int

	nets   []int
	tracks map[int]trackSet
	wires  WireGraph

	// unresolved pin flags for the current column
	topPending, bottomPending bool

	widenings int
	jogs      int
	observer  Observer
}

// NewRouter validates pins and cfg and returns a Router positioned at column
// zero. Invalid input yields an INVALID_INPUT or INVALID_CONFIG error and no
// Router.
func NewRouter(pins Pins, cfg Config) (*Router, error) {
	if err := pins.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if cfg.InitialWidth == 0 {
		cfg.InitialWidth = Density(pins)
	}
	return newRouter(pins, cfg), nil
}

func newRouter(pins Pins, cfg Config) *Router {
	r := &Router{
		pins:   pins.Clone(),
		cfg:    cfg,
		length: pins.Len(),
		width:  cfg.InitialWidth,
		nets:   pins.Nets(),
		tracks: make(map[int]trackSet),
		wires:  make(WireGraph),
	}
	for _, n := range r.nets {
		r.tracks[n] = make(trackSet)
	}
	return r
}

// =============================================================================
// Accessors
// =============================================================================

// Width returns the current number of tracks.
func (r *Router) Width() int { return r.width }

// Column returns the column being processed.
func (r *Router) Column() int { return r.col }

// Length returns the pin row length.
func (r *Router) Length() int { return r.length }

// Config returns the effective configuration.
func (r *Router) Config() Config { return r.cfg }

// Pins returns the pin rows of the channel.
func (r *Router) Pins() Pins { return r.pins }

// Nets returns every net id in ascending order.
func (r *Router) Nets() []int { return append([]int(nil), r.nets...) }

// Tracks returns the tracks currently held by net, ascending.
func (r *Router) Tracks(net int) []int { return r.tracks[net].sorted() }

// Wires returns a copy of the wire graph built so far.
func (r *Router) Wires() WireGraph { return r.wires.Clone() }

// Widenings returns how many tracks were inserted.
func (r *Router) Widenings() int { return r.widenings }

// SplitNets returns the nets holding more than one track, ascending.
func (r *Router) SplitNets() []int {
	var out []int
	for _, n := range r.nets {
		if len(r.tracks[n]) > 1 {
			out = append(out, n)
		}
	}
	return out
}

// =============================================================================
// Queries
// =============================================================================

// NextPin returns the first column after the current one where net has a pin
// on side. Net zero matches any net and SideAny matches either edge.
func (r *Router) NextPin(net int, side Side) (int, bool) {
	for x := r.col + 1; x < r.length; x++ {
		if side != SideBottom && r.pins.Top[x] != 0 && (net == 0 || r.pins.Top[x] == net) {
			return x, true
		}
		if side != SideTop && r.pins.Bottom[x] != 0 && (net == 0 || r.pins.Bottom[x] == net) {
			return x, true
		}
	}
	return 0, false
}

// Classify reports whether net is heading to the top edge, the bottom edge,
// or has pins coming up on both within the steady-net constant.
func (r *Router) Classify(net int) Class {
	top, okTop := r.NextPin(net, SideTop)
	bottom, okBottom := r.NextPin(net, SideBottom)
	k := r.cfg.SteadyNetConstant
	switch {
	case okTop && (!okBottom || bottom >= top+k):
		return Rising
	case okBottom && (!okTop || top >= bottom+k):
		return Falling
	default:
		return Steady
	}
}

// Density returns the channel density of pins: the largest number of nets
// crossing any column boundary, counting a net when it has a pin strictly
// left of the boundary and a pin at or right of it.
func Density(pins Pins) int {
	first := make(map[int]int)
	last := make(map[int]int)
	for x := 0; x < pins.Len(); x++ {
		for _, n := range []int{pins.Top[x], pins.Bottom[x]} {
			if n == 0 {
				continue
			}
			if _, ok := first[n]; !ok {
				first[n] = x
			}
			last[n] = x
		}
	}

	best := 0
	for alpha := 0; alpha < pins.Len(); alpha++ {
		count := 0
		for n, f := range first {
			if f < alpha && last[n] >= alpha {
				count++
			}
		}
		best = max(best, count)
	}
	return best
}

// pinsFrom reports whether any pin sits at or after column x.
func (r *Router) pinsFrom(x int) bool {
	for ; x < r.length; x++ {
		if r.pins.Top[x] != 0 || r.pins.Bottom[x] != 0 {
			return true
		}
	}
	return false
}

// finished holds once no pins remain and every net released its tracks.
func (r *Router) finished() bool {
	if r.pinsFrom(r.col) {
		return false
	}
	for _, n := range r.nets {
		if len(r.tracks[n]) > 0 {
			return false
		}
	}
	return true
}

// owner returns the net holding track, or zero.
func (r *Router) owner(track int) int {
	for _, n := range r.nets {
		if r.tracks[n].has(track) {
			return n
		}
	}
	return 0
}

// free returns the unoccupied tracks, ascending.
func (r *Router) free() []int {
	var out []int
	for t := 1; t <= r.width; t++ {
		if r.owner(t) == 0 {
			out = append(out, t)
		}
	}
	return out
}

// =============================================================================
// Wire bookkeeping
// =============================================================================

// span is a vertical wire in the current column.
type span struct {
	low, high, net int
}

func (s span) covers(track int) bool { return s.low <= track && track <= s.high }

// overlaps treats shared endpoints as overlap.
func (s span) overlaps(o span) bool { return !(s.high < o.low || o.high < s.low) }

// columnVerticals returns the vertical wires already placed in the current
// column.
func (r *Router) columnVerticals() []span {
	var out []span
	for _, n := range r.nets {
		for _, s := range r.wires[n] {
			if s.Vertical() && s.From.Col == r.col {
				out = append(out, span{s.From.Track, s.To.Track, n})
			}
		}
	}
	return out
}

func (r *Router) addVertical(net, a, b int) {
	r.wires[net] = append(r.wires[net], NewSegment(Point{r.col, a}, Point{r.col, b}))
}

func (r *Router) addHorizontal(net, track int) {
	r.wires[net] = append(r.wires[net], Segment{Point{r.col, track}, Point{r.col + 1, track}})
}

// =============================================================================
// Track sets
// =============================================================================

type trackSet map[int]struct{}

func (s trackSet) has(t int) bool {
	_, ok := s[t]
	return ok
}

func (s trackSet) add(t int)    { s[t] = struct{}{} }
func (s trackSet) remove(t int) { delete(s, t) }

func (s trackSet) sorted() []int {
	out := make([]int, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Ints(out)
	return out
}
