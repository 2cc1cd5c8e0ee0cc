package main

import (
	"os"

	"github.com/GlintPay/dockercluster/config"
	"github.com/GlintPay/dockercluster/logging"
	"github.com/caarlos0/env/v6"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const serviceName = "dockercluster"

var envConfig = config.Configuration{}

func main() {
	if err := env.Parse(&envConfig); err != nil {
		log.Fatal().Msgf("Configuration loading failed: %+v", err)
	}

	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var level string

	rootCmd := &cobra.Command{
		Use:   serviceName,
		Short: "Generates start, run and stop scripts for hosts of a Docker cluster",
		Long: `dockercluster reads a cluster definition (global settings plus per-host
overrides) and produces, for each host, the launcher arguments of every
application, the config files to upload and the bin/start, bin/run and
bin/stop scripts that drive bin/docker-cluster.`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(os.Stderr, level)
		},
	}

	rootCmd.PersistentFlags().StringVar(&level, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newConfigsCommand())

	return rootCmd
}
