package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/app"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/config"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/pipeline"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/pkg/models"
)

func newAnalyzeCmd(opts *globalOptions) *cobra.Command {
	var (
		role    string
		skills  []string
		courses bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run a skills analysis and save the result",
		Long: `Run the full analysis for a role synchronously and print its progress.

Examples:
  careerctl analyze --role "Data Analyst" --skills SQL,Excel,Tableau
  careerctl analyze --skills Python --courses`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := models.AnalysisRequest{Role: strings.TrimSpace(role)}
			for _, s := range skills {
				if s = strings.TrimSpace(s); s != "" {
					req.Skills = append(req.Skills, s)
				}
			}
			if len(req.Skills) == 0 {
				return pipeline.ErrNoSkills
			}
			return runAnalyze(cmd, opts, req, courses)
		},
	}

	cmd.Flags().StringVarP(&role, "role", "r", "", "role name (default: title-cased first skill)")
	cmd.Flags().StringSliceVarP(&skills, "skills", "s", nil, "comma-separated skills to analyse")
	cmd.Flags().BoolVar(&courses, "courses", false, "scan course sites first and analyse the top ranked modules")
	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *globalOptions, req models.AnalysisRequest, courses bool) error {
	ctx := cmd.Context()
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	c, err := app.NewCache(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer c.Close()

	svc, err := app.Build(ctx, cfg, c, app.Options{DisableCourses: !courses})
	if err != nil {
		return err
	}
	defer svc.Close()

	out := cmd.OutOrStdout()
	file, err := svc.Workflow.Run(ctx, req, func(u pipeline.Update) {
		fmt.Fprintln(out, defaultTheme.status(fmt.Sprintf("[%3d%%] %s", u.Progress, u.Message)))
	})
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), defaultTheme.failure("Analysis failed."))
		return err
	}

	analysis, err := pipeline.Load(file)
	if err != nil {
		return fmt.Errorf("reading result: %w", err)
	}
	printSummary(out, analysis, file)
	return nil
}

func printSummary(w io.Writer, a models.ComprehensiveAnalysis, file string) {
	fmt.Fprintln(w, defaultTheme.success("Analysis complete for "+a.MainRole))
	fmt.Fprintf(w, "Skills analysed: %d\n", len(a.SkillsBreakdown))
	for _, s := range a.SkillsBreakdown {
		fmt.Fprintf(w, "  - %s: %d subskills, %d takeaways, %d videos\n",
			s.Skill, len(s.Subskills), len(s.KeyTakeaways), len(s.Videos))
	}
	fmt.Fprintf(w, "Learning path steps: %d\n", len(a.LearningPath))
	fmt.Fprintln(w, defaultTheme.hint("Saved to "+file))
}
