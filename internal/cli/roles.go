package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/config"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/roles"
)

func newRolesCmd(opts *globalOptions) *cobra.Command {
	var dir, pdfDir string

	cmd := &cobra.Command{
		Use:   "roles",
		Short: "List the saved analyses",
		Long: `List every saved analysis with its slug, role name, skills and whether a
PDF report exists. Directories default to OUTPUT_DIR and OUTPUT_PDF_DIR.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Read(opts.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if dir == "" {
				dir = cfg.Output.Dir
			}
			if pdfDir == "" {
				pdfDir = cfg.Output.PDFDir
				if cmd.Flags().Changed("dir") {
					pdfDir = dir
				}
			}

			list, err := roles.Discover(dir, pdfDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, defaultTheme.hint("No analyses found in "+dir))
				return nil
			}

			fmt.Fprintln(out, defaultTheme.header(fmt.Sprintf("%-28s %-28s %-4s %s", "SLUG", "ROLE", "PDF", "SKILLS")))
			for _, r := range list {
				hasPDF := "no"
				if r.HasPDF {
					hasPDF = "yes"
				}
				fmt.Fprintf(out, "%-28s %-28s %-4s %s\n", r.Slug, r.Name, hasPDF, strings.Join(r.Skills, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "directory holding analysis JSON files")
	cmd.Flags().StringVar(&pdfDir, "pdf-dir", "", "directory holding PDF reports")
	return cmd
}
