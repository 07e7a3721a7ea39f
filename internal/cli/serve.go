package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pathlinker/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		maxTimeout time.Duration
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve path runs over HTTP",
		Long: `Serve path runs over HTTP.

POST a run request to /pathlinker/v1/run; GET /healthz reports liveness.
Results are cached with the configured cache backend.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.settings()
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, c.Logger, server.Options{
				MaxTimeout: maxTimeout,
				Defaults:   cfg.Run.Options(),
			})
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().DurationVar(&maxTimeout, "max-timeout", 5*time.Minute, "upper bound on the timeout of a single run (0 = none)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}
