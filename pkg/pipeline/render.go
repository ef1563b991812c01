package pipeline

import (
	"context"
	"fmt"

	errs "github.com/matzehuels/chanroute/pkg/errors"
	"github.com/matzehuels/chanroute/pkg/graph"
	"github.com/matzehuels/chanroute/pkg/render/nodelink"
)

// RenderFromLayout renders every format in opts.Formats. The json format is
// the routed graph itself; everything else is drawn from the layout.
func RenderFromLayout(ctx context.Context, l graph.Layout, g graph.Graph, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, l, g, format)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFromLayoutData renders from a serialized layout, for layouts that
// were computed elsewhere.
func RenderFromLayoutData(ctx context.Context, layoutData []byte, g graph.Graph, opts Options) (map[string][]byte, error) {
	l, err := graph.UnmarshalLayout(layoutData)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	opts.VizType = l.VizType
	return RenderFromLayout(ctx, l, g, opts)
}

func renderFormat(ctx context.Context, l graph.Layout, g graph.Graph, format string) ([]byte, error) {
	if format == FormatJSON {
		return graph.MarshalGraph(g)
	}
	if l.IsText() {
		if format != FormatText {
			return nil, errs.New(errs.ErrCodeUnsupported, "text layouts cannot be rendered as %s", format)
		}
		return []byte(l.Text), nil
	}

	if l.DOT == "" {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "nodelink layout missing DOT source")
	}
	switch format {
	case FormatDOT:
		return []byte(l.DOT), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, l.DOT)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, l.DOT, DefaultPNGScale)
	case FormatPDF:
		return nodelink.RenderPDF(ctx, l.DOT)
	}
	return nil, errs.New(errs.ErrCodeUnsupported, "nodelink layouts cannot be rendered as %s", format)
}
