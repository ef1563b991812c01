package graph

import (
	"sort"

	"github.com/matzehuels/chanroute/pkg/channel"
	errs "github.com/matzehuels/chanroute/pkg/errors"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Visualization types.
const (
	VizTypeText     = "text"
	VizTypeNodelink = "nodelink"
)

// Visual styles for rendering.
const (
	StylePlain = "plain"
	StyleColor = "color"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatText = "txt"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// =============================================================================
// Graph - Routed Channel Serialization
// =============================================================================

// Graph is the canonical serialization format for a routed channel.
// Used for API responses, storage, caching, and as the input of every
// renderer.
//
// Nets are sorted by ID and their segments keep the order in which the
// router laid them down, so marshaling the same routing twice produces the
// same bytes.
type Graph struct {
	Width   int   `json:"width" bson:"width"`
	Columns int   `json:"columns" bson:"columns"`
	Top     []int `json:"top" bson:"top"`
	Bottom  []int `json:"bottom" bson:"bottom"`
	Nets    []Net `json:"nets" bson:"nets"`
}

// Net is the wiring of one net.
type Net struct {
	ID         int                 `json:"id" bson:"id"`
	Segments   []channel.Segment   `json:"segments" bson:"segments"`
	Simplified *channel.Simplified `json:"simplified,omitempty" bson:"simplified,omitempty"`
}

// Length returns the number of columns in the pin rows.
func (g Graph) Length() int { return len(g.Top) }

// Pins returns the pin rows.
func (g Graph) Pins() channel.Pins {
	return channel.Pins{Top: g.Top, Bottom: g.Bottom}.Clone()
}

// WireGraph rebuilds the per-net segment map.
func (g Graph) WireGraph() channel.WireGraph {
	out := make(channel.WireGraph, len(g.Nets))
	for _, n := range g.Nets {
		out[n.ID] = append([]channel.Segment(nil), n.Segments...)
	}
	return out
}

// Net returns the net with the given id.
func (g Graph) Net(id int) (Net, bool) {
	i := sort.Search(len(g.Nets), func(i int) bool { return g.Nets[i].ID >= id })
	if i < len(g.Nets) && g.Nets[i].ID == id {
		return g.Nets[i], true
	}
	return Net{}, false
}

// Validate checks a decoded graph: consistent pin rows, sorted nets,
// segments inside the channel and no collisions between nets.
func (g Graph) Validate() error {
	if err := errs.ValidatePins(g.Top, g.Bottom); err != nil {
		return err
	}
	if g.Width < 0 {
		return errs.New(errs.ErrCodeInvalidFormat, "negative width %d", g.Width)
	}
	for i, n := range g.Nets {
		if n.ID <= 0 {
			return errs.New(errs.ErrCodeInvalidFormat, "net id must be positive, got %d", n.ID)
		}
		if i > 0 && g.Nets[i-1].ID >= n.ID {
			return errs.New(errs.ErrCodeInvalidFormat, "nets not sorted by id at net %d", n.ID)
		}
		for _, s := range n.Segments {
			if s.From.Col != s.To.Col && s.From.Track != s.To.Track {
				return errs.New(errs.ErrCodeInvalidFormat, "net %d: segment %s is not axis aligned", n.ID, s)
			}
			for _, p := range []channel.Point{s.From, s.To} {
				if p.Track < 0 || p.Track > g.Width+1 || p.Col < 0 {
					return errs.New(errs.ErrCodeInvalidFormat, "net %d: point %s outside the channel", n.ID, p)
				}
			}
		}
	}
	return channel.Verify(g.WireGraph())
}

// =============================================================================
// Result ↔ Graph Conversion
// =============================================================================

// FromResult converts a routing result to its serialization format.
func FromResult(res *channel.Result) Graph {
	g := Graph{
		Width:   res.Width,
		Columns: res.Columns,
		Top:     append([]int(nil), res.Pins.Top...),
		Bottom:  append([]int(nil), res.Pins.Bottom...),
		Nets:    make([]Net, 0, len(res.Wires)),
	}
	for _, id := range res.Wires.Nets() {
		n := Net{
			ID:       id,
			Segments: append([]channel.Segment(nil), res.Wires[id]...),
		}
		if s, ok := res.Simplified[id]; ok {
			n.Simplified = &s
		}
		g.Nets = append(g.Nets, n)
	}
	return g
}

// FromWires builds a graph from pins and a wire graph, simplifying every
// net. Columns counts up to the rightmost column a segment starts in.
func FromWires(pins channel.Pins, width int, wires channel.WireGraph) Graph {
	res := &channel.Result{
		Pins:       pins,
		Width:      width,
		Wires:      wires,
		Simplified: channel.Simplify(wires),
	}
	for _, segs := range wires {
		for _, s := range segs {
			res.Columns = max(res.Columns, s.From.Col+1)
		}
	}
	return FromResult(res)
}

// Simplify fills in the simplified view of every net that lacks one.
func (g *Graph) Simplify() {
	simple := channel.Simplify(g.WireGraph())
	for i := range g.Nets {
		if g.Nets[i].Simplified == nil {
			s := simple[g.Nets[i].ID]
			g.Nets[i].Simplified = &s
		}
	}
}
