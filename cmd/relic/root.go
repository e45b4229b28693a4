package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

type rootFlags struct {
	config  string
	profile string
	debug   bool
	quiet   bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "relic",
		Short:         "Inventory cloud resources and estimate what they cost",
		Long:          "Relic walks your cloud accounts region by region, prices what it finds,\nand points out resources that look like pure waste.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogging(flags.debug, flags.quiet)
		},
	}

	cmd.SetVersionTemplate(`relic {{.Version}}
`)

	cmd.PersistentFlags().StringVar(&flags.config, "config", "", "path to config file")
	cmd.PersistentFlags().StringVar(&flags.profile, "profile", "", "cloud credentials profile")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "log errors only")

	cmd.AddCommand(newScanCmd(flags))
	cmd.AddCommand(newWatchCmd(flags))
	return cmd
}

func setupLogging(debug, quiet bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	switch {
	case debug:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
