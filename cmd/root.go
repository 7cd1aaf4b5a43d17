package main

import (
	"context"
	"fmt"
	"os"

	"ListableAPI/internal/config"
	"ListableAPI/internal/db"
	"ListableAPI/internal/logger"
	"ListableAPI/internal/resource"

	"github.com/spf13/cobra"
)

var (
	// set during PersistentPreRunE
	cfg *config.Config

	debug        bool
	resourcesDir string
)

var rootCmd = &cobra.Command{
	Use:   "listable",
	Short: "Paginated search over configured tables",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		cfg = config.LoadConfig()
		if resourcesDir != "" {
			cfg.ResourcesDir = resourcesDir
		}
		if cmd.Name() == "serve" {
			if err := logger.Init(cfg.LogDir, cfg.LogStderr); err != nil {
				return fmt.Errorf("log init failed: %w", err)
			}
		} else {
			logger.SetOutput(os.Stderr)
		}
		logger.SetDebug(debug)
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&resourcesDir, "resources", "", "descriptor directory (default: RESOURCES_DIR)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(validateCmd)
}

func loadRegistry() (*resource.Registry, error) {
	reg, err := resource.LoadDir(cfg.ResourcesDir)
	if err != nil {
		logger.Error("registry_init_failed", map[string]any{"error": err.Error()})
		return nil, err
	}
	logger.Info("resources_loaded", map[string]any{"count": reg.Len(), "dir": cfg.ResourcesDir})
	return reg, nil
}

func openStore(ctx context.Context) (db.Store, error) {
	store, err := db.Open(ctx, cfg.DBDriver, cfg.DSN())
	if err != nil {
		logger.Error("db_init_failed", map[string]any{"driver": cfg.DBDriver, "error": err.Error()})
		return nil, err
	}
	logger.Info("db_connected", map[string]any{"driver": cfg.DBDriver})
	return store, nil
}
