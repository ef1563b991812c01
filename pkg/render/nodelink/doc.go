// Package nodelink draws routed channels as Graphviz node-link diagrams.
//
// # Overview
//
// Every grid node of a net becomes a Graphviz node pinned to its column and
// track with neato's pos="x,y!" syntax, so Graphviz only draws and never
// places anything. Pins on the channel edges are labelled circles, bends
// and junctions are points, and each net gets its own colour.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// By default the simplified graph of each net is drawn (endpoints, bends
// and junctions only). Options.Detailed draws the raw segments instead.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
