package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graphdrift/graphdrift/internal/server"
	"github.com/graphdrift/graphdrift/pkg/observability/prom"
)

// serveCommand creates the serve command for the embedded viewer.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr  string
		flags cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the embedded viewer API",
		Long: `Run the embedded viewer API.

The viewer accepts layout requests over HTTP, streams frames to browser
clients via server-sent events, and exposes Prometheus metrics on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd, flags)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			prom.Install()

			srv := server.New(runner, c.Logger)
			return srv.Serve(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":7209", "listen address")
	flags.register(cmd)

	return cmd
}
