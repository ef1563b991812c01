package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chanroute/pkg/channel"
	errs "github.com/matzehuels/chanroute/pkg/errors"
	"github.com/matzehuels/chanroute/pkg/graph"
	"github.com/matzehuels/chanroute/pkg/pipeline"
	"github.com/matzehuels/chanroute/pkg/render/text"
)

var (
	stepHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	stepPhaseStyle  = lipgloss.NewStyle().Foreground(colorWhite)
	stepDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	stepErrStyle    = lipgloss.NewStyle().Foreground(colorRed)
	stepDoneStyle   = lipgloss.NewStyle().Foreground(colorGreen)
)

// =============================================================================
// StepModel - Interactive column-by-column routing
// =============================================================================

// phaseEvent is the router state seen by the observer after one phase.
type phaseEvent struct {
	col   int
	phase channel.Phase
	width int
	split []int
}

// phaseLog collects the events of the column being stepped. It is shared
// by pointer because bubbletea copies the model on every update.
type phaseLog struct {
	events []phaseEvent
}

// StepModel is the bubbletea model of the step command. It owns a Router
// and advances it one column per key press.
type StepModel struct {
	Router *channel.Router
	Err    error
	Text   text.Options

	log    *phaseLog
	cutoff int
}

// NewStepModel installs an observer on r and returns a model positioned at
// r's current column.
func NewStepModel(r *channel.Router, opts text.Options) StepModel {
	pl := &phaseLog{}
	r.SetObserver(channel.ObserverFunc(func(r *channel.Router, col int, p channel.Phase) {
		pl.events = append(pl.events, phaseEvent{col: col, phase: p, width: r.Width(), split: r.SplitNets()})
	}))
	return StepModel{
		Router: r,
		Text:   opts,
		log:    pl,
		cutoff: int(math.Ceil(float64(r.Length()) * r.Config().LengthFactor)),
	}
}

// Finished reports whether stepping is over, either because the channel is
// routed or because routing failed.
func (m StepModel) Finished() bool {
	return m.Err != nil || m.Router.Done()
}

// Step routes one column. Past the cutoff an unfinished channel fails the
// same way Router.Route does.
func (m StepModel) Step() StepModel {
	if m.Finished() {
		return m
	}
	m.log.events = m.log.events[:0]
	if err := m.Router.Step(); err != nil {
		m.Err = err
		return m
	}
	if !m.Router.Done() && m.Router.Column() >= m.cutoff {
		m.Err = errs.New(errs.ErrCodeUnroutable, "channel of length %d not finished after %d columns at width %d",
			m.Router.Length(), m.Router.Column(), m.Router.Width())
	}
	return m
}

func (m StepModel) Init() tea.Cmd {
	return nil
}

func (m StepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "n", " ", "enter", "right", "l":
			return m.Step(), nil
		case "r":
			for !m.Finished() {
				m = m.Step()
			}
			return m, nil
		}
	}
	return m, nil
}

func (m StepModel) View() string {
	r := m.Router
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n\n",
		stepHeaderStyle.Render(fmt.Sprintf("Column %d of %d", r.Column(), r.Length())),
		stepDimStyle.Render(fmt.Sprintf("width %d · %d widenings · split %v", r.Width(), r.Widenings(), r.SplitNets())))

	b.WriteString(text.Plot(graph.FromWires(r.Pins(), r.Width(), r.Wires()), m.Text))
	b.WriteString("\n\n")

	for _, e := range m.log.events {
		line := fmt.Sprintf("  %-9s width %d", e.phase, e.width)
		if len(e.split) > 0 {
			line += fmt.Sprintf("  split %v", e.split)
		}
		b.WriteString(stepPhaseStyle.Render(line) + "\n")
	}
	if len(m.log.events) > 0 {
		b.WriteString("\n")
	}

	switch {
	case m.Err != nil:
		b.WriteString(stepErrStyle.Render(iconError+" "+errs.UserMessage(m.Err)) + "\n")
	case r.Done():
		b.WriteString(stepDoneStyle.Render(fmt.Sprintf("%s routed in %d columns", iconSuccess, r.Column())) + "\n")
	}
	b.WriteString(stepDimStyle.Render("n/space step · r run to end · q quit") + "\n")
	return b.String()
}

// =============================================================================
// Command
// =============================================================================

// stepOpts holds the command-line flags for the step command.
type stepOpts struct {
	pins   pinInput
	router routerFlags
	plain  bool
	scale  int
}

// stepCommand creates the step command.
func (c *CLI) stepCommand() *cobra.Command {
	var opts stepOpts

	cmd := &cobra.Command{
		Use:   "step [pins-file]",
		Short: "Step through a routing column by column",
		Long: `Step through a single routing attempt column by column.

Every key press routes one column and lists the phases it went through
with the channel width after each. Unlike route, step makes one attempt at
the initial width and does not retry.`,
		Example: `  chanroute step --example split_tracks`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStep(cmd, args, &opts)
		},
	}

	opts.pins.register(cmd)
	opts.router.register(cmd)
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "plot without colour")
	cmd.Flags().IntVar(&opts.scale, "scale", 0, "characters per column (default 2)")

	return cmd
}

func (c *CLI) runStep(cmd *cobra.Command, args []string, so *stepOpts) error {
	var opts pipeline.Options
	if err := so.pins.resolve(args, cmd.InOrStdin(), &opts); err != nil {
		return err
	}
	applyRouterConfig(&opts, so.router.config(cmd, c.Config.Router))
	if err := opts.ValidateForRoute(); err != nil {
		return err
	}

	r, err := channel.NewRouter(opts.Pins, opts.RouterConfig())
	if err != nil {
		return err
	}
	m := NewStepModel(r, text.Options{Scale: so.scale, Color: !so.plain})

	p := tea.NewProgram(m,
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(StepModel); ok && fm.Err != nil {
		return fm.Err
	}
	return nil
}
