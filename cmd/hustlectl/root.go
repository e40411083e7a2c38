package main

import (
	"hustlehub/internal/config"
	"hustlehub/internal/middleware"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hustlectl",
		Short:         "Operator tooling for HustleHub",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(), newSeedCmd())
	return root
}

// loadConfig reads configuration the same way the server does.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	middleware.ConfigureLogger(cfg.IsProduction())
	return cfg, nil
}
