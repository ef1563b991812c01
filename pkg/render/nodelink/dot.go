package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/chanroute/pkg/channel"
	"github.com/matzehuels/chanroute/pkg/graph"
	"github.com/matzehuels/chanroute/pkg/render"
)

// Engine is the Graphviz layout engine used for every diagram. neato keeps
// nodes whose pos attribute ends in '!' exactly where they are.
const Engine = "neato"

// Grid spacing in inches and the points per inch Graphviz uses.
const (
	spacing = 0.5
	dpi     = 72.0
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed draws every routed segment instead of the simplified graph,
	// so pass-through nodes stay visible.
	Detailed bool
	// Plain draws every net in black.
	Plain bool
	// Nets restricts the diagram to these nets. Empty means all nets.
	Nets []int
}

var colors = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

func netColor(net int, plain bool) string {
	if plain {
		return "black"
	}
	return colors[(net-1)%len(colors)]
}

func nodeID(net int, p channel.Point) string {
	return fmt.Sprintf("n%d_%d_%d", net, p.Col, p.Track)
}

func pos(p channel.Point) string {
	return fmt.Sprintf("%.2f,%.2f!", float64(p.Col)*spacing, float64(p.Track)*spacing)
}

// ToDOT converts a routed channel to Graphviz DOT with every grid node pinned
// to its (column, track) position. Pins are drawn as labelled circles on the
// channel edges; bends and junctions as points.
func ToDOT(g graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  layout=%s;\n", Engine)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  node [shape=point, width=0.08];\n")
	buf.WriteString("  edge [penwidth=2];\n")

	cols := max(g.Columns, g.Length(), 1)
	top := channel.Point{Col: cols - 1, Track: g.Width + 1}
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "  frame_lo [style=invis, pos=%q];\n", pos(channel.Point{}))
	fmt.Fprintf(&buf, "  frame_hi [style=invis, pos=%q];\n", pos(top))

	for _, n := range g.Nets {
		if len(opts.Nets) > 0 && !slices.Contains(opts.Nets, n.ID) {
			continue
		}
		color := netColor(n.ID, opts.Plain)
		nodes, edges := shape(n, opts.Detailed)

		buf.WriteString("\n")
		for _, p := range nodes {
			attrs := fmt.Sprintf("pos=%q, color=%q", pos(p), color)
			if p.Track == 0 || p.Track == g.Width+1 {
				attrs += fmt.Sprintf(", shape=circle, width=0.3, fixedsize=true, fontsize=10, label=%q", strconv.Itoa(n.ID))
			}
			fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(n.ID, p), attrs)
		}
		for _, e := range edges {
			fmt.Fprintf(&buf, "  %s -- %s [color=%q];\n", nodeID(n.ID, e.From), nodeID(n.ID, e.To), color)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// shape returns the nodes and edges drawn for one net.
func shape(n graph.Net, detailed bool) ([]channel.Point, []channel.Segment) {
	if !detailed && n.Simplified != nil {
		edges := make([]channel.Segment, len(n.Simplified.Edges))
		for i, e := range n.Simplified.Edges {
			edges[i] = channel.Segment{From: e.From, To: e.To}
		}
		return n.Simplified.Nodes, edges
	}
	seen := make(map[channel.Point]bool)
	var nodes []channel.Point
	for _, s := range n.Segments {
		for _, p := range []channel.Point{s.From, s.To} {
			if !seen[p] {
				seen[p] = true
				nodes = append(nodes, p)
			}
		}
	}
	slices.SortFunc(nodes, func(a, b channel.Point) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	return nodes, n.Segments
}

// Export builds a nodelink layout for the graph.
func Export(g graph.Graph, opts Options) graph.Layout {
	cols := max(g.Columns, g.Length(), 1)
	style := graph.StyleColor
	if opts.Plain {
		style = graph.StylePlain
	}
	var nets []int
	for _, n := range g.Nets {
		if len(opts.Nets) == 0 || slices.Contains(opts.Nets, n.ID) {
			nets = append(nets, n.ID)
		}
	}
	return graph.Layout{
		VizType: graph.VizTypeNodelink,
		Width:   float64(cols-1) * spacing * dpi,
		Height:  float64(g.Width+1) * spacing * dpi,
		Style:   style,
		Nets:    nets,
		DOT:     ToDOT(g, opts),
		Engine:  Engine,
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz's neato engine.
// Returns the SVG bytes ready for display or further conversion with
// [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's root element so the SVG scales with
// its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
