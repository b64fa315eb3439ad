// Package cli provides the careerctl command-line interface.
package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/logging"
)

// Version is set at build time.
var Version = "0.1.0"

type globalOptions struct {
	configPath string
	verbose    bool
}

// NewRootCmd builds the careerctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "careerctl",
		Short: "Career skills analysis from the command line",
		Long: `careerctl runs the career skills analysis pipeline without the API server.

It analyses a role's skills from video content, renders reports from saved
analyses, lists the analyses on disk and applies database migrations.`,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			logger, _ := logging.New(logging.Options{Level: level})
			slog.SetDefault(logger)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ./config.yaml or ./config/config.yaml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newAnalyzeCmd(opts))
	root.AddCommand(newReportCmd())
	root.AddCommand(newRolesCmd(opts))
	root.AddCommand(newMigrateCmd(opts))
	return root
}

// ExecuteContext runs the root command; ctx is cancelled on interrupt.
func ExecuteContext(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
