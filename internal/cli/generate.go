package cli

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chanroute/pkg/channel"
	errs "github.com/matzehuels/chanroute/pkg/errors"
	pkgio "github.com/matzehuels/chanroute/pkg/io"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	nets    int
	pins    int
	seed    uint64
	example string
	list    bool
	output  string
	format  string
}

// generateCommand creates the generate command, which writes random or
// example pin rows for the route command.
func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{nets: 5, pins: 10, format: pkgio.FormatText}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write random or example pin rows",
		Example: `  chanroute generate --nets 8 --pins 20 --seed 7 -o pins.txt
  chanroute generate --example dense --format json
  chanroute generate --list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, &opts)
		},
	}

	cmd.Flags().IntVar(&opts.nets, "nets", opts.nets, "number of nets")
	cmd.Flags().IntVar(&opts.pins, "pins", opts.pins, "pins per row")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (default: current time)")
	cmd.Flags().StringVarP(&opts.example, "example", "e", "", "write a built-in example instead")
	cmd.Flags().BoolVar(&opts.list, "list", false, "list the built-in examples")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (format from extension)")
	cmd.Flags().StringVar(&opts.format, "format", opts.format, "stdout format: txt, json, toml")

	return cmd
}

func runGenerate(cmd *cobra.Command, g *generateOpts) error {
	out := cmd.OutOrStdout()
	logger := loggerFromContext(cmd.Context())

	if g.list {
		for _, name := range channel.ExampleNames() {
			ex, _ := channel.LookupExample(name)
			fmt.Fprintf(out, "%-18s %s\n", name, StyleDim.Render(fmt.Sprintf("%d columns, width %d", ex.Pins.Len(), ex.Width)))
		}
		return nil
	}

	var pins channel.Pins
	if g.example != "" {
		ex, ok := channel.LookupExample(g.example)
		if !ok {
			return errs.New(errs.ErrCodeNotFound, "unknown example %q", g.example)
		}
		pins = ex.Pins
	} else {
		if g.nets < 1 || g.pins < 1 {
			return errs.New(errs.ErrCodeInvalidInput, "--nets and --pins must be at least 1")
		}
		seed := g.seed
		if !cmd.Flags().Changed("seed") {
			seed = uint64(time.Now().UnixNano())
		}
		pins = channel.RandomPins(rand.New(rand.NewPCG(seed, seed)), g.nets, g.pins)
		logger.Debug("generated pins", "nets", g.nets, "pins", g.pins, "seed", seed)
	}

	if g.output == "" {
		return pkgio.WritePins(pins, out, g.format)
	}
	if err := errs.ValidatePath(g.output); err != nil {
		return err
	}
	if err := pkgio.ExportPins(pins, g.output); err != nil {
		return err
	}
	printFile(out, g.output)
	return nil
}
