package detector

import (
	"context"
	"fmt"

	"code-analyzer/src/config"
	"code-analyzer/src/model"
	"code-analyzer/src/util"
)

// ComplexityDetector flags functions whose branch count exceeds the
// configured thresholds
type ComplexityDetector struct {
	BaseDetector
	cfg config.ComplexityDetectorConfig
}

// NewComplexityDetector creates a new complexity detector
func NewComplexityDetector(base BaseDetector, cfg config.ComplexityDetectorConfig) *ComplexityDetector {
	return &ComplexityDetector{
		BaseDetector: base,
		cfg:          cfg,
	}
}

// Name returns the detector name
func (d *ComplexityDetector) Name() string {
	return "complexity"
}

// IsEnabled returns whether the detector is enabled
func (d *ComplexityDetector) IsEnabled() bool {
	return d.cfg.Enabled
}

// Detect runs complexity detection
func (d *ComplexityDetector) Detect(ctx context.Context, ra *model.RepositoryAnalysis) ([]model.DebtIssue, error) {
	idx := newRepoIndex(ra)
	util.Debug("Complexity detector: analyzing %d functions", len(ra.Functions))

	var issues []model.DebtIssue
	excluded := 0

	for _, fn := range ra.Functions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if d.ShouldExclude(idx, fn.FilePath, idx.className(fn), fn.Name) {
			excluded++
			continue
		}

		if fn.Complexity > d.cfg.CyclomaticModerate {
			issues = append(issues, d.createCCIssue(fn))
		}
	}

	util.Debug("Complexity detector: %d functions excluded by filters", excluded)
	return d.FilterBySeverity(issues), nil
}

func (d *ComplexityDetector) createCCIssue(fn model.FunctionInfo) model.DebtIssue {
	cc := fn.Complexity

	var severity model.Severity
	switch {
	case cc > d.cfg.CyclomaticCritical:
		severity = model.SeverityCritical
	case cc > d.cfg.CyclomaticHigh:
		severity = model.SeverityHigh
	default:
		severity = model.SeverityMedium
	}

	endLine := fn.EndLine
	if endLine == 0 {
		endLine = fn.LineNumber
	}

	return model.DebtIssue{
		Category:    model.CategoryComplexity,
		Subcategory: "cyclomatic_complexity",
		Severity:    severity,
		FilePath:    fn.FilePath,
		StartLine:   fn.LineNumber,
		EndLine:     endLine,
		EntityName:  fn.Name,
		EntityType:  "function",
		Description: fmt.Sprintf("High cyclomatic complexity (CC=%d)", cc),
		Metrics: map[string]any{
			"cyclomatic_complexity": cc,
			"threshold":             d.cfg.CyclomaticModerate,
		},
		Suggestion: d.ccSuggestion(cc),
	}
}

func (d *ComplexityDetector) ccSuggestion(cc int) string {
	switch {
	case cc > d.cfg.CyclomaticCritical:
		return "Split into multiple smaller functions; consider strategy or state pattern"
	case cc > d.cfg.CyclomaticHigh:
		return "Extract conditional logic into separate methods"
	default:
		return "Consider simplifying conditionals or extracting helper methods"
	}
}
