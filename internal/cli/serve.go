package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/upgrader/internal/metrics"
	"github.com/matzehuels/upgrader/internal/server"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		ttl       time.Duration
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve dependency checks over HTTP",
		Long: `Serve starts the HTTP API. Each client opens a session that owns its own
lookup cache; idle sessions are dropped after --session-ttl.

Prometheus metrics for registry requests, resolutions and cache events are
exposed at /metrics.`,
		Example: `  upgrader serve --addr :9000
  curl -XPOST localhost:9000/v1/sessions`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			if ttl <= 0 {
				ttl = c.cfg.Server.SessionTTL
			}

			opts := []server.Option{
				server.WithLogger(c.Logger),
				server.WithSessionTTL(ttl),
				server.WithConcurrency(c.cfg.Check.Concurrency),
			}
			if !noMetrics {
				m := metrics.New()
				restore := m.Install()
				defer restore()
				opts = append(opts, server.WithMetrics(m.Handler()), server.WithSessionObserver(m))
			}

			srv := server.New(c.newCache, opts...)
			c.Logger.Info("starting server", "addr", addr, "registry", c.cfg.Registry.URL, "session_ttl", ttl)
			return srv.Run(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().DurationVar(&ttl, "session-ttl", 0, "idle session lifetime (default from config)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not expose /metrics")
	return cmd
}
