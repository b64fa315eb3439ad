package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/pipeline"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/report"
)

func newReportCmd() *cobra.Command {
	var (
		file   string
		pdf    bool
		pdfDir string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a saved analysis as markdown and optionally PDF",
		Long: `Print the markdown report of a saved analysis to stdout.

With --pdf the PDF companion is written next to the analysis file, or into
--pdf-dir when given.

Examples:
  careerctl report --file json_outputs/Nurse_comprehensive_analysis.json
  careerctl report --file json_outputs/Nurse_comprehensive_analysis.json --pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			analysis, err := pipeline.Load(file)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.Markdown(analysis))

			if !pdf {
				return nil
			}
			dir := pdfDir
			if dir == "" {
				dir = filepath.Dir(file)
			}
			path := filepath.Join(dir, pipeline.PDFFileName(analysis.MainRole))
			if err := report.WritePDF(analysis, path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), defaultTheme.success("PDF written to "+path))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "analysis JSON file")
	cmd.Flags().BoolVar(&pdf, "pdf", false, "also write the PDF report")
	cmd.Flags().StringVar(&pdfDir, "pdf-dir", "", "directory for the PDF (default: next to the file)")
	cmd.MarkFlagRequired("file")
	return cmd
}
