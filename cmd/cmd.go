package cmd

import (
	"context"
	"log/slog"

	"github.com/gaze-network/ton20-indexer/internal/config"
	"github.com/gaze-network/ton20-indexer/pkg/logger"
	"github.com/gaze-network/ton20-indexer/pkg/logger/slogx"
	"github.com/spf13/cobra"
)

var (
	// root command
	cmd = &cobra.Command{
		Use:  "gaze",
		Long: `TON-20 token ledger indexer`,
	}

	// sub-commands
	cmds = []*cobra.Command{
		NewVersionCommand(),
		NewRunCommand(),
		NewMigrateCommand(),
		NewSnapshotCommand(),
	}
)

// Execute runs the root command.
func Execute(ctx context.Context) {
	var configFile string

	// Add global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file, E.g. `./config.yaml`")

	// Initialize configuration and logger on start command
	cobra.OnInitialize(func() {
		config := config.Parse(configFile)

		if err := logger.Init(config.Logger); err != nil {
			logger.PanicContext(ctx, "Failed to initialize logger", slogx.Error(err), slog.Any("config", config.Logger))
		}
	})

	cmd.AddCommand(cmds...)

	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.FatalContext(ctx, "Failed to execute command", slogx.Error(err))
	}
}
