package cli

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chanroute/pkg/channel"
	errs "github.com/matzehuels/chanroute/pkg/errors"
	pkgio "github.com/matzehuels/chanroute/pkg/io"
	"github.com/matzehuels/chanroute/pkg/pipeline"
)

// routerFlags holds the router settings accepted on the command line.
// Settings the user did not pass fall back to the [router] section of the
// config file.
type routerFlags struct {
	width        int
	minJog       int
	steady       int
	maxTries     int
	lengthFactor float64
	aesthetic    bool
	verify       bool
}

func (f *routerFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.width, "width", "w", 0, "initial number of tracks (default: channel density)")
	cmd.Flags().IntVar(&f.minJog, "min-jog", 0, "minimum jog length for compressing and pushing (default 1)")
	cmd.Flags().IntVar(&f.steady, "steady", 0, "steady net look-ahead in columns (default 10)")
	cmd.Flags().IntVar(&f.maxTries, "max-tries", 0, "attempt budget before giving up (default 10)")
	cmd.Flags().Float64Var(&f.lengthFactor, "length-factor", 0, "column cutoff as a multiple of the channel length (default 1.5)")
	cmd.Flags().BoolVar(&f.aesthetic, "aesthetic", false, "retry with shorter jogs after a success")
	cmd.Flags().BoolVar(&f.verify, "verify", false, "check the wire invariants after every phase")
}

// config merges the flags that were set over base.
func (f *routerFlags) config(cmd *cobra.Command, base channel.Config) channel.Config {
	cfg := base
	set := cmd.Flags().Changed
	if set("width") {
		cfg.InitialWidth = f.width
	}
	if set("min-jog") {
		cfg.MinJogLength = f.minJog
	}
	if set("steady") {
		cfg.SteadyNetConstant = f.steady
	}
	if set("max-tries") {
		cfg.MaxTries = f.maxTries
	}
	if set("length-factor") {
		cfg.LengthFactor = f.lengthFactor
	}
	if set("aesthetic") {
		cfg.Aesthetic = f.aesthetic
	}
	if set("verify") {
		cfg.Verify = f.verify
	}
	return cfg
}

// apply copies a router configuration into pipeline options.
func applyRouterConfig(opts *pipeline.Options, cfg channel.Config) {
	opts.InitialWidth = cfg.InitialWidth
	opts.MinJogLength = cfg.MinJogLength
	opts.SteadyNetConstant = cfg.SteadyNetConstant
	opts.MaxTries = cfg.MaxTries
	opts.LengthFactor = cfg.LengthFactor
	opts.Aesthetic = cfg.Aesthetic
	opts.Verify = cfg.Verify
}

// pinInput describes where the pin rows of a command come from: a file
// argument, a named example or two inline rows.
type pinInput struct {
	example string
	top     string
	bottom  string
}

func (p *pinInput) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&p.example, "example", "e", "", "route a built-in example channel")
	cmd.Flags().StringVar(&p.top, "top", "", "inline top row, e.g. \"1 0 2\" or \"1,0,2\"")
	cmd.Flags().StringVar(&p.bottom, "bottom", "", "inline bottom row")
	_ = cmd.RegisterFlagCompletionFunc("example", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return channel.ExampleNames(), cobra.ShellCompDirectiveNoFileComp
	})
}

// resolve fills opts.Pins or opts.Example. A file argument of "-" reads
// text rows from stdin.
func (p *pinInput) resolve(args []string, stdin io.Reader, opts *pipeline.Options) error {
	sources := 0
	for _, set := range []bool{len(args) > 0, p.example != "", p.top != "" || p.bottom != ""} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return errs.New(errs.ErrCodeInvalidInput, "give exactly one of a pin file, --example or --top/--bottom")
	}

	switch {
	case p.example != "":
		opts.Example = p.example
		return nil
	case len(args) > 0 && args[0] == "-":
		pins, err := pkgio.ReadPins(stdin, pkgio.FormatText)
		opts.Pins = pins
		return err
	case len(args) > 0:
		if err := errs.ValidatePath(args[0]); err != nil {
			return err
		}
		pins, err := pkgio.ImportPins(args[0])
		opts.Pins = pins
		return err
	}
	if p.top == "" || p.bottom == "" {
		return errs.New(errs.ErrCodeInvalidInput, "--top and --bottom must be given together")
	}
	rows := strings.ReplaceAll(p.top, ",", " ") + "\n" + strings.ReplaceAll(p.bottom, ",", " ") + "\n"
	pins, err := pkgio.ReadPins(strings.NewReader(rows), pkgio.FormatText)
	opts.Pins = pins
	return err
}

// parseNets parses a comma-separated list of net ids.
func parseNets(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var nets []int
	for _, f := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || n <= 0 {
			return nil, errs.New(errs.ErrCodeInvalidInput, "invalid net id %q", f)
		}
		nets = append(nets, n)
	}
	return nets, nil
}

// writeFile writes data to path, or to w when path is "-".
func writeFile(w io.Writer, path string, data []byte) error {
	if path == "-" {
		_, err := w.Write(data)
		return err
	}
	if err := errs.ValidatePath(path); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
