// Package graph provides serialization types for routed channels and their
// rendered layouts.
//
// This package defines the canonical wire format for chanroute's data, used
// for JSON files, API responses, caching, and storage.
//
// # Architecture
//
// The package sits at the serialization boundary between the router and
// everything around it:
//
//   - [Graph], [Layout]: Serialization types (this package)
//   - pkg/channel.Result: what the router produces
//   - pkg/render: turns a Graph into a Layout and a Layout into files
//
// Use [FromResult] to convert a routing result and [Graph.WireGraph] to go
// back to the router's representation.
//
// # Graph Serialization
//
// A graph carries the pin rows, the final width and every net's segments:
//
//	{
//	  "width": 3,
//	  "columns": 7,
//	  "top": [1, 0, 2, 0, 3, 4],
//	  "bottom": [1, 0, 0, 2, 4, 3],
//	  "nets": [{"id": 1, "segments": [{"from": {"col": 0, "track": 0}, "to": {"col": 0, "track": 1}}]}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("routed.json")  // File → Graph (validated)
//	graph.WriteGraphFile(g, "output.json")      // Graph → File
//	data, _ := graph.MarshalGraph(g)            // Graph → []byte
//	parsed, _ := graph.UnmarshalGraph(data)     // []byte → Graph
//
// Decoding validates the graph, including the no-collision rule of
// [channel.Verify], so a graph read from disk can be rendered without
// further checks.
//
// # Layout Serialization
//
// Layouts are discriminated by VizType:
//
//	layout, _ := graph.UnmarshalLayout(data)
//	if layout.IsText() {
//	    fmt.Print(layout.Text)
//	} else {
//	    // Use layout.DOT for Graphviz rendering
//	}
package graph
