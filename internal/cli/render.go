package cli

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/chanroute/pkg/errors"
	"github.com/matzehuels/chanroute/pkg/graph"
	"github.com/matzehuels/chanroute/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	id       string // record id instead of a graph file
	output   string // output file (single format) or base path
	vizType  string // text or nodelink
	formats  string // comma-separated output formats
	style    string // plain or color
	scale    int    // characters per column (text)
	nets     string // comma-separated nets to draw
	detailed bool   // draw every routed segment (nodelink)
}

// renderCommand creates the render command. It reads a routed graph from a
// JSON file written by "route -o" or from the run history.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{style: pipeline.DefaultStyle}

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render a routed channel as text or a Graphviz diagram",
		Example: `  chanroute render graph.json -t nodelink -f svg,png
  chanroute render --id 0b6f2c8e-7d0e-4a6e-9b1a-3f4f3c1d2e5a -f txt -o -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.id, "id", "", "render a recorded run")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (several) or \"-\" for stdout")
	cmd.Flags().StringVarP(&opts.vizType, "type", "t", pipeline.DefaultVizType, "visualization type: text, nodelink")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): txt, json (text); dot, svg, png, pdf, json (nodelink)")
	cmd.Flags().StringVar(&opts.style, "style", opts.style, "visual style: color, plain")
	cmd.Flags().IntVar(&opts.scale, "scale", 0, "characters per column (text)")
	cmd.Flags().StringVar(&opts.nets, "nets", "", "draw only these nets (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "draw every routed segment (nodelink)")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, args []string, ro *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

	if (len(args) == 0) == (ro.id == "") {
		return errs.New(errs.ErrCodeInvalidInput, "give either a graph file or --id")
	}

	nets, err := parseNets(ro.nets)
	if err != nil {
		return err
	}
	opts := pipeline.Options{
		VizType:  ro.vizType,
		Style:    ro.style,
		Scale:    ro.scale,
		Nets:     nets,
		Detailed: ro.detailed,
		Formats:  parseFormats(ro.formats),
		Logger:   logger,
	}
	if err := opts.ValidateForRender(); err != nil {
		return err
	}
	if ro.output == "-" && len(opts.Formats) > 1 {
		return errs.New(errs.ErrCodeInvalidInput, "stdout takes a single format")
	}

	var (
		g     graph.Graph
		input string
	)
	if ro.id != "" {
		st, err := c.newStore(ctx)
		if err != nil {
			return err
		}
		if st == nil {
			return errs.New(errs.ErrCodeUnsupported, "run history is disabled")
		}
		defer st.Close()
		rec, err := st.Get(ctx, ro.id)
		if err != nil {
			return err
		}
		g, input = rec.Graph, "route-"+rec.ID[:8]
	} else {
		if err := errs.ValidatePath(args[0]); err != nil {
			return err
		}
		if g, err = graph.ReadGraphFile(args[0]); err != nil {
			return err
		}
		input = args[0]
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	l, err := runner.GenerateLayout(ctx, g, opts)
	if err != nil {
		return err
	}
	artifacts, err := runner.Render(ctx, l, g, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", strings.Join(opts.Formats, ", ")))

	for _, format := range opts.Formats {
		path := outputPath(ro.output, input, format, len(opts.Formats))
		if err := writeFile(out, path, artifacts[format]); err != nil {
			return err
		}
		if path != "-" {
			printFile(out, path)
		}
	}
	return nil
}

// outputPath picks the file for one format. A single format is written to
// output as given; several formats share output (or the input name) as the
// base and get their format as extension.
func outputPath(output, input, format string, count int) string {
	if output == "-" || (output != "" && count == 1) {
		return output
	}
	return basePath(output, input) + "." + format
}

// basePath strips a known format extension from output, or the extension
// of input when output is empty.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	for _, formats := range pipeline.ValidFormats {
		if slices.Contains(formats, strings.TrimPrefix(ext, ".")) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}
