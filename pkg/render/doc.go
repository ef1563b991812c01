// Package render turns routed channels into pictures.
//
// # Overview
//
// Two renderers share the [graph.Graph] input:
//
//   - [text]: a box-drawing plot of the channel for terminals and logs
//   - [nodelink]: Graphviz DOT with every grid node pinned to its position,
//     rendered to SVG in process
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// A missing rsvg-convert is reported with the UNSUPPORTED error code.
//
// [graph.Graph]: github.com/matzehuels/chanroute/pkg/graph.Graph
// [text]: github.com/matzehuels/chanroute/pkg/render/text
// [nodelink]: github.com/matzehuels/chanroute/pkg/render/nodelink
package render
