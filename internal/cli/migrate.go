package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/config"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/store"
)

var errNoDatabase = errors.New("DATABASE_URL is required")

func newMigrateCmd(opts *globalOptions) *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply run history database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				cfg, err := config.Read(opts.configPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				databaseURL = cfg.Database.URL
			}
			if databaseURL == "" {
				return errNoDatabase
			}

			if err := store.RunMigrations(databaseURL); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), defaultTheme.success("Migrations applied."))
			return nil
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", "", "database URL (default: DATABASE_URL)")
	return cmd
}
