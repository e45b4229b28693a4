package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/relicscan/relic/internal/config"
	"github.com/relicscan/relic/report"
)

func newScanCmd(root *rootFlags) *cobra.Command {
	var (
		regions  []string
		services []string
		workers  int
		format   string
		output   string
		noCost   bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the account once and write a report",
		Example: `  relic scan                              # all regions, all services, report to stdout
  relic scan --regions us-east-1          # single region
  relic scan --services ec2,ebs           # compute and volumes only
  relic scan --format json -o report      # write report.json
  relic scan --no-cost                    # inventory without cost estimates`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, root, scanOverrides{
				regions: regions, services: services, workers: workers,
				format: format, output: output, noCost: noCost,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			orch, err := buildOrchestrator(ctx, cfg, log.Logger)
			if err != nil {
				return err
			}

			rep := runOnce(ctx, orch)
			if err := writeReport(rep, cfg); err != nil {
				return err
			}

			for _, f := range rep.Session.Failures() {
				log.Warn().Str("region", f.Region).Str("kind", string(f.Kind)).
					Err(f.Err).Msg("partial scan failure")
			}

			// an interrupted scan still produced the report above, but the
			// inventory is incomplete
			if err := ctx.Err(); err != nil {
				return context.Canceled
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&regions, "regions", nil, "regions to scan (default: all enabled regions)")
	cmd.Flags().StringSliceVar(&services, "services", nil, "services to scan: ec2,ebs,s3,eip,snapshots (default: all)")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel scan workers")
	cmd.Flags().StringVar(&format, "format", "", "report format: txt, csv, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "report file (default: stdout)")
	cmd.Flags().BoolVar(&noCost, "no-cost", false, "skip cost estimation")
	return cmd
}

type scanOverrides struct {
	regions  []string
	services []string
	workers  int
	format   string
	output   string
	noCost   bool
}

// loadConfig reads the config file and layers changed flags on top.
func loadConfig(cmd *cobra.Command, root *rootFlags, ov scanOverrides) (*config.Config, error) {
	cfg, err := config.Load(root.config)
	if err != nil {
		return nil, err
	}

	if root.profile != "" {
		cfg.Profile = root.profile
	}
	if cmd.Flags().Changed("regions") {
		cfg.Regions = expandAll(ov.regions, nil)
	}
	if cmd.Flags().Changed("services") {
		cfg.Services = expandAll(ov.services, config.Default().Services)
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = ov.workers
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = ov.format
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = ov.output
	}
	if ov.noCost {
		cfg.NoCost = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// writeReport sends the report to the configured destination: stdout when
// no output file is set, a file otherwise.
func writeReport(rep *report.Report, cfg *config.Config) error {
	if cfg.Output == "" {
		return rep.Render(cfg.Format, os.Stdout)
	}
	path, err := rep.WriteFile(cfg.Format, cfg.Output)
	if err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("report written")
	return nil
}
