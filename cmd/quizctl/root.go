package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	var configPath string
	cmd := &cobra.Command{
		Use:           "quizctl",
		Short:         "Operational tool for the streak quiz API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(newGenerateCmd(&configPath))
	cmd.AddCommand(newMigrateCmd(&configPath))
	return cmd
}
