package detector

import (
	"context"
	"fmt"

	"code-analyzer/src/config"
	"code-analyzer/src/model"
	"code-analyzer/src/util"
)

// SizeAndStructureDetector detects size-related issues in code entities
type SizeAndStructureDetector struct {
	BaseDetector
	cfg config.SizeDetectorConfig
}

// NewSizeAndStructureDetector creates a new size and structure detector
func NewSizeAndStructureDetector(base BaseDetector, cfg config.SizeDetectorConfig) *SizeAndStructureDetector {
	return &SizeAndStructureDetector{
		BaseDetector: base,
		cfg:          cfg,
	}
}

// Name returns the detector name
func (d *SizeAndStructureDetector) Name() string {
	return "size_structure"
}

// IsEnabled returns whether the detector is enabled
func (d *SizeAndStructureDetector) IsEnabled() bool {
	return d.cfg.Enabled
}

// Detect runs size and structure detection
func (d *SizeAndStructureDetector) Detect(ctx context.Context, ra *model.RepositoryAnalysis) ([]model.DebtIssue, error) {
	util.Debug("Size detector: starting analysis")
	idx := newRepoIndex(ra)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var issues []model.DebtIssue

	funcIssues := d.detectFunctionIssues(idx, ra.Functions)
	issues = append(issues, funcIssues...)
	util.Debug("Size detector: found %d function-level issues", len(funcIssues))

	classIssues := d.detectClassIssues(idx, ra.Classes)
	issues = append(issues, classIssues...)
	util.Debug("Size detector: found %d class-level issues", len(classIssues))

	fileIssues := d.detectFileIssues(idx, ra.Files)
	issues = append(issues, fileIssues...)
	util.Debug("Size detector: found %d file-level issues", len(fileIssues))

	return d.FilterBySeverity(issues), nil
}

// detectFunctionIssues checks length and parameter count. Heuristic
// extractors record neither, so their functions never trigger.
func (d *SizeAndStructureDetector) detectFunctionIssues(idx *repoIndex, functions []model.FunctionInfo) []model.DebtIssue {
	var issues []model.DebtIssue

	for _, fn := range functions {
		if d.ShouldExclude(idx, fn.FilePath, idx.className(fn), fn.Name) {
			continue
		}

		if fn.LineCount > d.cfg.MaxFunctionLines {
			issues = append(issues, d.createLongMethodIssue(fn))
		}

		if len(fn.Parameters) > d.cfg.MaxParameters {
			issues = append(issues, d.createLongParameterListIssue(fn))
		}
	}

	return issues
}

func (d *SizeAndStructureDetector) detectClassIssues(idx *repoIndex, classes []model.ClassInfo) []model.DebtIssue {
	var issues []model.DebtIssue

	for _, cls := range classes {
		if d.ShouldExclude(idx, cls.FilePath, cls.Name, "") {
			continue
		}

		if len(cls.Methods) > d.cfg.MaxClassMethods {
			issues = append(issues, d.createGodClassIssue(cls))
		}
	}

	return issues
}

func (d *SizeAndStructureDetector) detectFileIssues(idx *repoIndex, files []model.FileAnalysis) []model.DebtIssue {
	var issues []model.DebtIssue

	for i := range files {
		file := &files[i]
		if d.ShouldExclude(idx, file.Path, "", "") {
			continue
		}

		if file.LineCount > d.cfg.MaxFileLines {
			issues = append(issues, d.createLargeFileLineIssue(file))
		}

		if len(file.Functions) > d.cfg.MaxFileFunctions {
			issues = append(issues, d.createLargeFileFunctionIssue(file))
		}
	}

	return issues
}

func (d *SizeAndStructureDetector) createLongMethodIssue(fn model.FunctionInfo) model.DebtIssue {
	severity := model.SeverityMedium
	if fn.LineCount > d.cfg.MaxFunctionLines*2 {
		severity = model.SeverityHigh
	}

	return model.DebtIssue{
		Category:    model.CategorySize,
		Subcategory: "long_method",
		Severity:    severity,
		FilePath:    fn.FilePath,
		StartLine:   fn.LineNumber,
		EndLine:     fn.EndLine,
		EntityName:  fn.Name,
		EntityType:  "function",
		Description: fmt.Sprintf("Function is too long (%d lines, threshold: %d)", fn.LineCount, d.cfg.MaxFunctionLines),
		Metrics: map[string]any{
			"line_count": fn.LineCount,
			"threshold":  d.cfg.MaxFunctionLines,
		},
		Suggestion: "Extract smaller, single-purpose functions",
	}
}

func (d *SizeAndStructureDetector) createLongParameterListIssue(fn model.FunctionInfo) model.DebtIssue {
	count := len(fn.Parameters)
	severity := model.SeverityMedium
	if count > d.cfg.MaxParameters*2 {
		severity = model.SeverityHigh
	}

	return model.DebtIssue{
		Category:    model.CategorySize,
		Subcategory: "long_parameter_list",
		Severity:    severity,
		FilePath:    fn.FilePath,
		StartLine:   fn.LineNumber,
		EndLine:     fn.EndLine,
		EntityName:  fn.Name,
		EntityType:  "function",
		Description: fmt.Sprintf("Too many parameters (%d, threshold: %d)", count, d.cfg.MaxParameters),
		Metrics: map[string]any{
			"parameter_count": count,
			"threshold":       d.cfg.MaxParameters,
		},
		Suggestion: "Consider using a parameter object or builder pattern",
	}
}

func (d *SizeAndStructureDetector) createGodClassIssue(cls model.ClassInfo) model.DebtIssue {
	count := len(cls.Methods)
	severity := model.SeverityMedium
	if count > d.cfg.MaxClassMethods*2 {
		severity = model.SeverityHigh
	}

	endLine := cls.LineNumber
	for _, m := range cls.Methods {
		if m.EndLine > endLine {
			endLine = m.EndLine
		}
	}

	return model.DebtIssue{
		Category:    model.CategorySize,
		Subcategory: "god_class",
		Severity:    severity,
		FilePath:    cls.FilePath,
		StartLine:   cls.LineNumber,
		EndLine:     endLine,
		EntityName:  cls.Name,
		EntityType:  "class",
		Description: fmt.Sprintf("Class has too many methods (%d, threshold: %d)", count, d.cfg.MaxClassMethods),
		Metrics: map[string]any{
			"method_count": count,
			"threshold":    d.cfg.MaxClassMethods,
		},
		Suggestion: "Split into smaller, focused classes following Single Responsibility Principle",
	}
}

func (d *SizeAndStructureDetector) createLargeFileLineIssue(file *model.FileAnalysis) model.DebtIssue {
	severity := model.SeverityMedium
	if file.LineCount > d.cfg.MaxFileLines*2 {
		severity = model.SeverityHigh
	}

	return model.DebtIssue{
		Category:    model.CategorySize,
		Subcategory: "large_file",
		Severity:    severity,
		FilePath:    file.Path,
		StartLine:   1,
		EndLine:     file.LineCount,
		EntityName:  file.Path,
		EntityType:  "file",
		Description: fmt.Sprintf("File is too large (%d lines, threshold: %d)", file.LineCount, d.cfg.MaxFileLines),
		Metrics: map[string]any{
			"line_count": file.LineCount,
			"threshold":  d.cfg.MaxFileLines,
		},
		Suggestion: "Split into multiple files organized by responsibility",
	}
}

func (d *SizeAndStructureDetector) createLargeFileFunctionIssue(file *model.FileAnalysis) model.DebtIssue {
	count := len(file.Functions)
	severity := model.SeverityMedium
	if count > d.cfg.MaxFileFunctions*2 {
		severity = model.SeverityHigh
	}

	return model.DebtIssue{
		Category:    model.CategorySize,
		Subcategory: "large_file",
		Severity:    severity,
		FilePath:    file.Path,
		StartLine:   1,
		EndLine:     file.LineCount,
		EntityName:  file.Path,
		EntityType:  "file",
		Description: fmt.Sprintf("File has too many functions (%d, threshold: %d)", count, d.cfg.MaxFileFunctions),
		Metrics: map[string]any{
			"function_count": count,
			"threshold":      d.cfg.MaxFileFunctions,
		},
		Suggestion: "Split into multiple files organized by feature or domain",
	}
}
