package cli

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/paiv/icfpc2023/internal/server"
	"github.com/paiv/icfpc2023/pkg/metrics"
	"github.com/paiv/icfpc2023/pkg/observability"
)

func (c *CLI) serveCommand() *cobra.Command {
	var maxTime time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solver over HTTP",
		Long: `Serve the solver over HTTP.

  POST /v1/solve   binary payload in, binary answer out (?seed=, ?time_limit=)
  POST /v1/score   {"problem": ..., "solution": ..., "problem_id": N}
  GET  /healthz
  GET  /metrics    Prometheus`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			runner := c.newRunner(ctx, false)
			defer runner.Close()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			m := metrics.New(metrics.WithPrometheusRegistry(reg))
			observability.SetSolveHooks(m)
			observability.SetCacheHooks(m)
			observability.SetHTTPHooks(m)
			defer observability.Reset()

			srv := server.New(runner,
				server.WithLogger(c.Logger.WithPrefix("http")),
				server.WithObserver(m),
				server.WithGatherer(reg),
				server.WithGridRadius(c.Config.GridRadius),
				server.WithLightningCutoff(c.Config.LightningCutoff),
				server.WithMaxGridPoints(c.Config.MaxGridPoints),
				server.WithMaxTimeLimit(maxTime),
			)
			return srv.Run(ctx, c.Config.ListenAddr)
		},
	}

	cmd.Flags().String("listen", "", "listen address (default :8080)")
	cmd.Flags().Float64("grid-radius", 0, "grid spacing radius")
	cmd.Flags().Int("max-grid", 0, "reject stages needing more grid points")
	cmd.Flags().DurationVar(&maxTime, "max-time", server.DefaultMaxTimeLimit, "cap on per-request solve time")
	return cmd
}
