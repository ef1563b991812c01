package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/chanroute/pkg/errors"
	"github.com/matzehuels/chanroute/pkg/render/text"
	"github.com/matzehuels/chanroute/pkg/store"
)

// historyCommand creates the history command for recorded runs.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"hist"},
		Short:   "List, show and delete recorded runs",
	}

	cmd.AddCommand(c.historyListCommand())
	cmd.AddCommand(c.historyShowCommand())
	cmd.AddCommand(c.historyDeleteCommand())

	return cmd
}

// openStore opens the configured store or fails when history is disabled.
func (c *CLI) openStore(cmd *cobra.Command) (store.Store, error) {
	st, err := c.newStore(cmd.Context())
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, errs.New(errs.ErrCodeUnsupported, "run history is disabled (store backend is none)")
	}
	return st, nil
}

func (c *CLI) historyListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return errs.New(errs.ErrCodeInvalidInput, "--limit must not be negative")
			}
			st, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			recs, err := st.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(recs) == 0 {
				printInfo(out, "No recorded runs")
				return nil
			}
			fmt.Fprintln(out, historyTable(recs, time.Now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", store.DefaultListLimit, "maximum number of runs")
	return cmd
}

// historyTable renders records as a bordered table.
func historyTable(recs []store.Record, now time.Time) string {
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = []string{
			r.ID,
			formatRelativeTime(r.CreatedAt, now),
			strconv.Itoa(r.Pins.Len()),
			strconv.Itoa(r.Stats.Nets),
			strconv.Itoa(r.Stats.Width),
			strconv.Itoa(r.Stats.Tries),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Created", "Columns", "Nets", "Width", "Tries").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 { // header
				return headerStyle.Padding(0, 1)
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1)
			}
			return lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
		}).
		Render()
}

func (c *CLI) historyShowCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a recorded run and plot it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, StyleTitle.Render("Run "+rec.ID))
			printKeyValue(out, "Created", rec.CreatedAt.Local().Format(time.DateTime))
			printKeyValue(out, "Columns", strconv.Itoa(rec.Pins.Len()))
			printKeyValue(out, "Width", fmt.Sprintf("%d (started at %d)", rec.Stats.Width, rec.Stats.InitialWidth))
			printKeyValue(out, "Wire length", strconv.Itoa(rec.Stats.WireLength))
			fmt.Fprintln(out)
			fmt.Fprintln(out, text.Plot(rec.Graph, text.Options{Color: !plain}))
			fmt.Fprintln(out)
			printStats(out, rec.Stats, false)
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "plot without colour")
	return cmd
}

func (c *CLI) historyDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a recorded run",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Deleted %s", args[0])
			return nil
		},
	}
}
