package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"code-analyzer/src/controller"
	"code-analyzer/src/model"
	"code-analyzer/src/util"
)

// ThresholdError reports that findings at or above the --fail-on severity
// were found
type ThresholdError struct {
	Severity model.Severity
	Count    int
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("%d issue(s) at or above %s severity", e.Count, e.Severity)
}

var (
	criticalColor = color.New(color.FgRed, color.Bold)
	highColor     = color.New(color.FgMagenta, color.Bold)
	mediumColor   = color.New(color.FgYellow)
	lowColor      = color.New(color.FgCyan)
)

func (h *Handler) analyzeCmd() *cobra.Command {
	var (
		outputDir  string
		format     string
		workers    int
		timeout    time.Duration
		noInsights bool
		failOn     string
	)

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Analyze a directory tree",
		Long:  "Discovers and analyzes every supported source file under path (default: current directory) and renders a report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}

			var threshold model.Severity
			if failOn != "" {
				threshold = model.Severity(strings.ToLower(failOn))
				if threshold.Rank() < 0 {
					return fmt.Errorf("invalid --fail-on severity %q", failOn)
				}
			}

			if workers > 0 {
				h.cfg.Concurrency.Workers = workers
			}

			util.Info("Analyzing %s (timeout: %v)", path, timeout)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			// Run analysis
			analysisCtrl := controller.NewAnalysisController(h.cfg)
			ra, err := analysisCtrl.Analyze(ctx, controller.AnalyzeRequest{
				Path:         path,
				SkipInsights: noInsights,
			})
			if err != nil {
				util.Error("Analysis failed: %v", err)
				return fmt.Errorf("analysis failed: %w", err)
			}

			reportCtrl := controller.NewReportController(h.cfg)
			if outputDir != "" {
				h.cfg.Output.OutputDir = outputDir
				if format != "" {
					h.cfg.Output.Formats = []string{format}
				}

				paths, err := reportCtrl.GenerateReports(ra)
				if err != nil {
					return fmt.Errorf("generating reports: %w", err)
				}
				for _, p := range paths {
					fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", p)
				}
			} else {
				outputFormat := format
				if outputFormat == "" {
					outputFormat = "json"
				}

				output, err := reportCtrl.GenerateToString(ra, outputFormat)
				if err != nil {
					return fmt.Errorf("generating %s report: %w", outputFormat, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), output)
			}

			printSummary(cmd.ErrOrStderr(), ra)

			if threshold != "" {
				if n := countAtOrAbove(ra, threshold); n > 0 {
					return &ThresholdError{Severity: threshold, Count: n}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: print to stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (json, markdown, sarif, table)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of concurrent file workers (default from config)")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 0, "Analysis timeout (0 for none)")
	cmd.Flags().BoolVar(&noInsights, "no-insights", false, "Skip the AI insight request")
	cmd.Flags().StringVar(&failOn, "fail-on", "", "Exit with status 2 when findings or issues reach this severity (low, medium, high, critical)")

	return cmd
}

// countAtOrAbove counts security findings and quality issues at or above sev
func countAtOrAbove(ra *model.RepositoryAnalysis, sev model.Severity) int {
	minRank := sev.Rank()
	n := 0
	for _, f := range ra.SecurityIssues {
		if f.Severity.Rank() >= minRank {
			n++
		}
	}
	for _, issue := range ra.QualityIssues {
		if issue.Severity.Rank() >= minRank {
			n++
		}
	}
	return n
}

func printSummary(w io.Writer, ra *model.RepositoryAnalysis) {
	s := ra.Summary

	fmt.Fprintf(w, "\nAnalysis complete:\n")
	if ra.Incomplete {
		fmt.Fprintf(w, "  %s\n", mediumColor.Sprint("Interrupted: results are partial"))
	}
	fmt.Fprintf(w, "  Files analyzed: %d/%d\n", s.FilesAnalyzed, s.TotalFiles)
	fmt.Fprintf(w, "  Functions: %d, classes: %d\n", s.TotalFunctions, s.TotalClasses)
	fmt.Fprintf(w, "  Security issues: %d", s.TotalSecurityIssues)
	if s.TotalSecurityIssues > 0 {
		fmt.Fprintf(w, " (%s)", coloredCounts(s.BySeverity))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Quality issues: %d\n", s.TotalQualityIssues)
	fmt.Fprintf(w, "  Debt score: %s\n", severityColor(debtSeverity(s.DebtScore)).Sprintf("%.1f/100", s.DebtScore))
	if n := len(ra.Warnings); n > 0 {
		fmt.Fprintf(w, "  Warnings: %s\n", mediumColor.Sprint(n))
	}
}

func coloredCounts(counts map[model.Severity]int) string {
	var parts []string
	for i := len(model.SeverityOrder) - 1; i >= 0; i-- {
		sev := model.SeverityOrder[i]
		if counts[sev] == 0 {
			continue
		}
		parts = append(parts, severityColor(sev).Sprintf("%s %d", sev, counts[sev]))
	}
	return strings.Join(parts, ", ")
}

func severityColor(sev model.Severity) *color.Color {
	switch sev {
	case model.SeverityCritical:
		return criticalColor
	case model.SeverityHigh:
		return highColor
	case model.SeverityMedium:
		return mediumColor
	default:
		return lowColor
	}
}

func debtSeverity(score float64) model.Severity {
	switch {
	case score >= 50:
		return model.SeverityCritical
	case score >= 20:
		return model.SeverityHigh
	case score >= 5:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}
