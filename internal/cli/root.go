package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"academy-qabot/internal/bootstrap"
	"academy-qabot/internal/config"
	"academy-qabot/internal/logging"
)

var (
	cfgFile       string
	currentConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "qabot",
	Short:         "qabot answers academy questions from indexed notices, timetables and rules",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFile(cfgFile)
		if err != nil {
			return err
		}
		if err := logging.Init(cfg.Log.Path); err != nil {
			return err
		}
		currentConfig = cfg
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Close()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, failure("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (defaults to CONFIG_FILE or configs/config.toml)")
}

// openApp wires the full application without the queue consumer; the CLI
// only publishes.
func openApp(ctx context.Context) (*bootstrap.App, error) {
	if currentConfig == nil {
		return nil, fmt.Errorf("config is not loaded")
	}
	return bootstrap.New(ctx, currentConfig, bootstrap.WithoutWorker())
}
