package cli

import (
	"github.com/spf13/cobra"

	"github.com/chiehanchen/steiner/pkg/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags solveFlags
		addr  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solver over HTTP",
		Long: `Serve POST /v1/solve and POST /v1/plot until interrupted.

Solutions are cached in the configured backend; use --redis to share one
cache between several instances.`,
		Example: `  steiner serve --addr :8080
  steiner serve --config steiner.toml --redis localhost:6379`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			runner, err := c.newRunner(ctx, cfg, flags.explicitCache())
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := flags.options(ctx, cfg)
			srv := server.New(server.ConfigFrom(cfg), runner, opts, c.Logger)
			printInfo("Listening on %s", StyleHighlight.Render(cfg.Server.Addr))
			return srv.ListenAndServe(ctx)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")

	return cmd
}
