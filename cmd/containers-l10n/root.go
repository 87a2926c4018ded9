package main

import (
	"github.com/goliatone/go-cms-containers/internal/runtimeconfig"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "containers-l10n",
		Short: "Container-aware localization summaries",
		Long: `containers-l10n adjusts localization summaries so that records inside a
container follow their parent container and container slots appear as columns.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (YAML)")
	flags.String("log-level", "", "log level (trace|debug|info|warn|error)")
	flags.String("log-format", "", "log format (json|console|pretty)")
	flags.String("driver", "", "storage driver (sqlite|postgres)")
	flags.String("dsn", "", "storage DSN")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newRebuildCmd())
	rootCmd.AddCommand(newColumnsCmd())

	return rootCmd
}

func loadConfig(cmd *cobra.Command) (runtimeconfig.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return runtimeconfig.Config{}, err
	}
	return runtimeconfig.Load(path, cmd.Flags())
}
