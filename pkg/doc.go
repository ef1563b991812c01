// Package pkg holds the libraries behind the chanroute command and HTTP API.
//
// # Overview
//
// chanroute routes a two-layer channel: two rows of pins, each pin labelled
// with a net id, are connected by horizontal tracks and vertical jogs with
// a greedy column sweep that widens the channel whenever it runs out of room.
//
//  1. [channel] - The router, its configuration, retries and wire graphs
//  2. [graph] - Serialization types for routed channels and layouts
//  3. [render] - Text plots and Graphviz node-link diagrams
//  4. [pipeline] - Orchestration (route → layout → render) with caching
//  5. [cache], [store] - Result cache and run history backends
//  6. [server] - The HTTP API
//
// # Architecture
//
//	pin rows ([io])
//	     ↓
//	[channel] RouteAndRetry
//	     ↓
//	[graph] Graph
//	     ↓
//	[render/text] or [render/nodelink]
//	     ↓
//	txt, JSON, DOT, SVG, PNG, PDF
//
// # Quick Start
//
//	pins := channel.Pins{Top: []int{1, 0, 2, 0, 3, 4}, Bottom: []int{1, 0, 0, 2, 4, 3}}
//	res, err := channel.RouteAndRetry(ctx, pins, channel.Config{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(text.Plot(graph.FromResult(res), text.Options{}))
//
// Supporting packages: [errors] for coded errors, [observability] for
// hooks, [buildinfo] for version data.
package pkg
