package main

import (
	"context"
	"errors"
	"net/http"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/relicscan/relic/analyzer"
	"github.com/relicscan/relic/cost"
	"github.com/relicscan/relic/discovery"
	"github.com/relicscan/relic/internal/emitter"
)

func newWatchCmd(root *rootFlags) *cobra.Command {
	var (
		interval    time.Duration
		metricsAddr string
		regions     []string
		services    []string
		workers     int
		noCost      bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Scan on an interval and expose results as metrics",
		Example: `  relic watch                             # rescan every 5m, metrics on :9090
  relic watch --interval 1h
  relic watch --metrics :2112 --regions us-east-1,eu-west-1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, root, scanOverrides{
				regions: regions, services: services, workers: workers, noCost: noCost,
			})
			if err != nil {
				return err
			}

			orch, err := buildOrchestrator(cmd.Context(), cfg, log.Logger)
			if err != nil {
				return err
			}

			emit := emitter.New()
			mux := http.NewServeMux()
			mux.Handle("/metrics", emit.Handler())
			srv := &http.Server{
				Addr:              metricsAddr,
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			}

			var g run.Group
			g.Add(run.SignalHandler(cmd.Context(), syscall.SIGINT, syscall.SIGTERM))

			g.Add(func() error {
				log.Info().Str("addr", metricsAddr).Msg("starting metrics server")
				return srv.ListenAndServe()
			}, func(error) {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			})

			loopCtx, cancelLoop := context.WithCancel(cmd.Context())
			g.Add(func() error {
				return watchLoop(loopCtx, orch, emit, interval)
			}, func(error) {
				cancelLoop()
			})

			err = g.Run()
			var sig run.SignalError
			switch {
			case errors.As(err, &sig):
				log.Info().Str("signal", sig.Signal.String()).Msg("shutting down")
				return nil
			case errors.Is(err, context.Canceled), errors.Is(err, http.ErrServerClosed):
				return nil
			}
			return err
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 5*time.Minute, "time between scan cycles")
	cmd.Flags().StringVar(&metricsAddr, "metrics", ":9090", "metrics server address")
	cmd.Flags().StringSliceVar(&regions, "regions", nil, "regions to scan (default: all enabled regions)")
	cmd.Flags().StringSliceVar(&services, "services", nil, "services to scan: ec2,ebs,s3,eip,snapshots (default: all)")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel scan workers")
	cmd.Flags().BoolVar(&noCost, "no-cost", false, "skip cost estimation")
	return cmd
}

func watchLoop(ctx context.Context, orch *discovery.Orchestrator, emit *emitter.Emitter, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	cycle(ctx, orch, emit)
	for {
		select {
		case <-ticker.C:
			cycle(ctx, orch, emit)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func cycle(ctx context.Context, orch *discovery.Orchestrator, emit *emitter.Emitter) {
	start := time.Now()
	session := orch.Discover(ctx)
	if ctx.Err() != nil {
		return
	}

	emit.Record(session, cost.Aggregate(session), analyzer.Classify(session))

	log.Info().
		Int("resources", session.Count()).
		Int("failures", len(session.Failures())).
		Dur("duration", time.Since(start)).
		Msg("scan cycle complete")
}
