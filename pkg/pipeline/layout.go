package pipeline

import (
	"github.com/matzehuels/chanroute/pkg/graph"
	"github.com/matzehuels/chanroute/pkg/render/nodelink"
	"github.com/matzehuels/chanroute/pkg/render/text"
)

// GenerateLayout plots a routed channel for the requested visualization.
// Text layouts carry the finished plot; nodelink layouts carry the DOT
// source that the render stage hands to Graphviz.
func GenerateLayout(g graph.Graph, opts Options) (graph.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, err
	}
	if opts.IsNodelink() {
		return nodelink.Export(g, nodelink.Options{
			Detailed: opts.Detailed,
			Plain:    opts.Style == graph.StylePlain,
			Nets:     opts.Nets,
		}), nil
	}
	return text.Export(g, text.Options{
		Scale: opts.Scale,
		Color: opts.Style == graph.StyleColor,
		Nets:  opts.Nets,
	}), nil
}
