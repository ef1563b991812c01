package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/chanroute/pkg/cache"
	"github.com/matzehuels/chanroute/pkg/pipeline"
	"github.com/matzehuels/chanroute/pkg/server"
)

// serveCommand creates the serve command, which runs the HTTP API until
// the process is interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

POST /v1/route routes a channel, POST /v1/render/{format} renders one and
/v1/routes lists, shows and deletes recorded runs. The cache, store and
server settings come from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg := c.Config.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}

			ch, err := c.newCache(ctx)
			if err != nil {
				return err
			}
			// API results live under their own prefix so a shared backend
			// keeps them apart from CLI runs.
			runner := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, "v1:"), c.Logger)
			defer runner.Close()

			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close()
			}

			return server.New(runner, st, c.Logger, cfg).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	return cmd
}
