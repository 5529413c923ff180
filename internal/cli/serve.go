package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/habitmosaic/internal/server"
)

// serveCommand runs the HTTP API until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chain and mosaic HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr != "" {
				c.Config.Server.Addr = addr
			}

			svc, closeSvc, err := c.openService(ctx)
			if err != nil {
				return err
			}
			defer closeSvc()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			printInfo("Serving on %s", StyleLink.Render(c.Config.Server.Addr))
			printDetail("store: %s · cache: %s", c.Config.Store.Backend, c.Config.Cache.Backend)

			srv := server.New(svc, runner, c.Config, c.Logger)
			if err := srv.ListenAndServe(ctx); err != nil {
				return err
			}
			printSuccess("Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
