package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chanroute/pkg/graph"
	"github.com/matzehuels/chanroute/pkg/pipeline"
	"github.com/matzehuels/chanroute/pkg/store"
)

// routeOpts holds the command-line flags for the route command.
type routeOpts struct {
	pins    pinInput
	router  routerFlags
	output  string // graph JSON output path
	nets    string // comma-separated nets to plot
	plain   bool   // plot without colour
	scale   int    // characters per column
	noPlot  bool
	noSave  bool
	refresh bool
}

// routeCommand creates the route command.
func (c *CLI) routeCommand() *cobra.Command {
	var opts routeOpts

	cmd := &cobra.Command{
		Use:   "route [pins-file]",
		Short: "Route a channel and plot the result",
		Long: `Route a channel and plot the result.

The pins come from a file (.json, .toml or two text rows), from "-" for text
rows on stdin, from --example or from --top and --bottom. Router settings
default to the [router] section of the config file.`,
		Example: `  chanroute route pins.txt
  chanroute route --example dense --aesthetic
  chanroute route --top "1 0 2 0 3" --bottom "3 0 1 0 2" -o graph.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRoute(cmd, args, &opts)
		},
	}

	opts.pins.register(cmd)
	opts.router.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the routed graph as JSON (\"-\" for stdout)")
	cmd.Flags().StringVar(&opts.nets, "nets", "", "plot only these nets (comma-separated)")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "plot without colour")
	cmd.Flags().IntVar(&opts.scale, "scale", 0, "characters per column in the plot (default 2)")
	cmd.Flags().BoolVar(&opts.noPlot, "no-plot", false, "do not print the plot")
	cmd.Flags().BoolVar(&opts.noSave, "no-save", false, "do not record this run in the history")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore a cached routing")

	return cmd
}

func (c *CLI) runRoute(cmd *cobra.Command, args []string, ro *routeOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

	opts := pipeline.Options{
		VizType: graph.VizTypeText,
		Style:   graph.StyleColor,
		Scale:   ro.scale,
		Refresh: ro.refresh,
		Formats: []string{pipeline.FormatText},
		Logger:  logger,
	}
	if ro.plain {
		opts.Style = graph.StylePlain
	}
	if err := ro.pins.resolve(args, cmd.InOrStdin(), &opts); err != nil {
		return err
	}
	applyRouterConfig(&opts, ro.router.config(cmd, c.Config.Router))
	nets, err := parseNets(ro.nets)
	if err != nil {
		return err
	}
	opts.Nets = nets
	if err := opts.ValidateForRoute(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Routing %d columns...", opts.Pins.Len()))
	spinner.Start()
	res, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Routed %d nets in %d tracks", res.Route.Nets, res.Route.Width))

	if !ro.noPlot {
		fmt.Fprintln(out, strings.TrimRight(string(res.Artifacts[pipeline.FormatText]), "\n"))
		fmt.Fprintln(out)
	}
	printStats(out, res.Route, res.CacheInfo.RouteHit)

	if ro.output != "" {
		data, err := graph.MarshalGraph(res.Graph)
		if err != nil {
			return err
		}
		if err := writeFile(out, ro.output, data); err != nil {
			return err
		}
		if ro.output != "-" {
			printFile(out, ro.output)
		}
	}

	if ro.noSave {
		return nil
	}
	id, err := c.saveRecord(ctx, opts, res)
	if err != nil {
		printWarning(out, "Run not recorded: %v", err)
		return nil
	}
	if id != "" {
		printNextStep(out, "Render it", "chanroute render --id "+id+" -t nodelink -f svg")
	}
	return nil
}

// saveRecord stores a completed run and returns its id, or "" when the
// store is disabled.
func (c *CLI) saveRecord(ctx context.Context, opts pipeline.Options, res *pipeline.Result) (string, error) {
	st, err := c.newStore(ctx)
	if err != nil || st == nil {
		return "", err
	}
	defer st.Close()

	rec := store.NewRecord(opts.Pins, opts.RouterConfig(), res.Graph, res.Route)
	if err := st.Save(ctx, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}
