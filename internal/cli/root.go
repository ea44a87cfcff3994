package cli

import (
	"fmt"
	"os"

	"planner-backend/pkg/config"
	"planner-backend/pkg/logger"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
	cfg        *config.Config
}

// NewRootCommand builds the planner command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "planner",
		Short:         "Task, note and workflow planner backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.configFile != "" {
				if err := os.Setenv("CONFIG_FILE", opts.configFile); err != nil {
					return fmt.Errorf("set config file: %w", err)
				}
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger.Init(cfg.LogLevel, cfg.LogPretty)
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "path to a YAML config file (overrides CONFIG_FILE)")

	cmd.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newRemindCommand(opts),
	)
	return cmd
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}
