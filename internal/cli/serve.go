package cli

import (
	"net"

	"github.com/spf13/cobra"

	"github.com/agenticinfraops/infraviz/internal/server"
	"github.com/agenticinfraops/infraviz/pkg/observability"
)

// serveCommand creates the serve command for browser previews.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview diagrams in a browser",
		Long: `Serve an HTML index of every diagram and render each one on request.

Diagrams are available at /diagrams/{name}.{png,svg,pdf,dot}; PNG previews
accept a ?dpi= query parameter. Renders share the cache used by the render
command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.config.Serve.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			counters := &observability.Counters{}
			observability.SetCacheHooks(counters)
			observability.SetHTTPHooks(counters)

			opts := c.config.PipelineOptions()
			logger := loggerFromContext(ctx)
			srv, err := server.New(runner, opts, logger)
			if err != nil {
				return err
			}

			err = srv.ListenAndServe(ctx, addr, func(a net.Addr) {
				printSuccess("Serving previews")
				printKeyValue("URL", StyleLink.Render("http://"+a.String()+"/"))
				printDetail("Press Ctrl+C to stop")
			})
			if err != nil {
				return err
			}
			logger.Info("server stopped",
				"requests", counters.Requests.Load(),
				"server_errors", counters.ServerErrs.Load(),
				"cache_hits", counters.CacheHits.Load(),
				"cache_misses", counters.CacheMisses.Load())
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: localhost:8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")

	return cmd
}
