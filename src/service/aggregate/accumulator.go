// Package aggregate folds per-file analyses into a repository analysis.
// Folding is order independent: Finalize sorts everything it emits.
package aggregate

import (
	"sort"
	"time"

	"code-analyzer/src/model"
)

const (
	// QualityHigh marks an analysis that covered at least one file
	QualityHigh = "high"
	// QualityLow marks an analysis with no analyzed files
	QualityLow = "low"
)

// Accumulator collects FileAnalysis records and warnings. It is not safe for
// concurrent use; feed it from a single collector goroutine or Merge
// per-worker accumulators.
type Accumulator struct {
	files     []model.FileAnalysis
	warnings  []model.FileWarning
	fileTypes map[string]int
}

// NewAccumulator creates an empty accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{fileTypes: make(map[string]int)}
}

// Add folds one file analysis. Files whose extraction failed are kept for
// their metrics and also recorded as warnings.
func (a *Accumulator) Add(fa *model.FileAnalysis) {
	if fa == nil {
		return
	}
	a.files = append(a.files, *fa)
	a.fileTypes[fa.Extension]++

	switch {
	case fa.SyntaxError != "":
		a.warnings = append(a.warnings, model.FileWarning{Path: fa.Path, Kind: model.WarningSyntax, Cause: fa.SyntaxError})
	case fa.ExtractionError != "":
		a.warnings = append(a.warnings, model.FileWarning{Path: fa.Path, Kind: model.WarningExtract, Cause: fa.ExtractionError})
	}
}

// AddWarning records a file that produced no analysis
func (a *Accumulator) AddWarning(w model.FileWarning) {
	a.warnings = append(a.warnings, w)
}

// Merge folds everything collected by other into a
func (a *Accumulator) Merge(other *Accumulator) {
	if other == nil {
		return
	}
	a.files = append(a.files, other.files...)
	a.warnings = append(a.warnings, other.warnings...)
	for ext, n := range other.fileTypes {
		a.fileTypes[ext] += n
	}
}

// FilesAnalyzed returns the number of analyses folded so far
func (a *Accumulator) FilesAnalyzed() int {
	return len(a.files)
}

// FinalizeOptions carries run-level facts that are not derived from files
type FinalizeOptions struct {
	RepositoryPath  string
	TotalFiles      int
	Incomplete      bool
	MostComplexTopN int
	Now             time.Time
}

// Finalize builds the RepositoryAnalysis. Every derived value is a pure
// function of the folded files and opts.
func (a *Accumulator) Finalize(opts FinalizeOptions) *model.RepositoryAnalysis {
	files := make([]model.FileAnalysis, len(a.files))
	copy(files, a.files)
	sort.SliceStable(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	warnings := make([]model.FileWarning, len(a.warnings))
	copy(warnings, a.warnings)
	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Path != warnings[j].Path {
			return warnings[i].Path < warnings[j].Path
		}
		return warnings[i].Kind < warnings[j].Kind
	})

	fileTypes := make(map[string]int, len(a.fileTypes))
	for ext, n := range a.fileTypes {
		fileTypes[ext] = n
	}

	ra := &model.RepositoryAnalysis{
		RepositoryPath: opts.RepositoryPath,
		AnalyzedAt:     opts.Now,
		TotalFiles:     opts.TotalFiles,
		FilesAnalyzed:  len(files),
		Incomplete:     opts.Incomplete,
		FileTypes:      fileTypes,
		Files:          files,
		Functions:      []model.FunctionInfo{},
		Classes:        []model.ClassInfo{},
		SecurityIssues: []model.SecurityFinding{},
		QualityIssues:  []model.DebtIssue{},
		Warnings:       warnings,
	}

	summary := model.SummaryMetrics{
		TotalFiles:    opts.TotalFiles,
		FilesAnalyzed: len(files),
		BySeverity:    make(map[model.Severity]int),
		Incomplete:    opts.Incomplete,
	}

	for i := range files {
		f := &files[i]
		ra.Functions = append(ra.Functions, f.Functions...)
		ra.Classes = append(ra.Classes, f.Classes...)
		ra.SecurityIssues = append(ra.SecurityIssues, f.SecurityIssues...)

		summary.TotalImports += len(f.Imports)
		summary.TotalLines += f.Metrics.TotalLines
		summary.CodeLines += f.Metrics.CodeLines
		summary.CommentLines += f.Metrics.CommentLines
		summary.BlankLines += f.Metrics.BlankLines
		if f.SyntaxError != "" {
			summary.SyntaxErrors++
		}
	}

	summary.TotalFunctions = len(ra.Functions)
	summary.TotalClasses = len(ra.Classes)
	summary.TotalSecurityIssues = len(ra.SecurityIssues)
	for _, finding := range ra.SecurityIssues {
		summary.BySeverity[finding.Severity]++
	}
	summary.MostCommonFileType = mostCommon(fileTypes)
	summary.AnalysisQuality = QualityLow
	if summary.FilesAnalyzed > 0 {
		summary.AnalysisQuality = QualityHigh
	}

	ra.Summary = summary
	ra.ComplexityAnalysis = complexityAnalysis(ra.Functions, opts.MostComplexTopN)
	ra.DocumentationQuality = documentationQuality(ra.Functions, ra.Classes, files)

	return ra
}

// mostCommon returns the extension with the highest count; ties go to the
// lexicographically smallest extension
func mostCommon(counts map[string]int) string {
	best, bestN := "", 0
	for ext, n := range counts {
		if n > bestN || (n == bestN && ext < best) {
			best, bestN = ext, n
		}
	}
	return best
}

// complexityAnalysis ranks functions by complexity, descending. Equal
// complexity keeps file then line order.
func complexityAnalysis(fns []model.FunctionInfo, topN int) model.ComplexityAnalysis {
	ca := model.ComplexityAnalysis{MostComplexFunctions: []model.FunctionInfo{}}
	if len(fns) == 0 {
		return ca
	}

	for _, fn := range fns {
		ca.TotalFunctionComplexity += fn.Complexity
		if fn.Complexity > ca.MaxFunctionComplexity {
			ca.MaxFunctionComplexity = fn.Complexity
		}
	}
	ca.AvgFunctionComplexity = float64(ca.TotalFunctionComplexity) / float64(len(fns))

	ranked := make([]model.FunctionInfo, len(fns))
	copy(ranked, fns)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Complexity != ranked[j].Complexity {
			return ranked[i].Complexity > ranked[j].Complexity
		}
		if ranked[i].FilePath != ranked[j].FilePath {
			return ranked[i].FilePath < ranked[j].FilePath
		}
		return ranked[i].LineNumber < ranked[j].LineNumber
	})
	if topN > 0 && topN < len(ranked) {
		ranked = ranked[:topN]
	}
	ca.MostComplexFunctions = ranked
	return ca
}

func documentationQuality(fns []model.FunctionInfo, classes []model.ClassInfo, files []model.FileAnalysis) model.DocumentationQuality {
	var dq model.DocumentationQuality
	for _, fn := range fns {
		if fn.HasDocstring {
			dq.FunctionsWithDocstring++
		}
	}
	for _, cls := range classes {
		if cls.HasDocstring {
			dq.ClassesWithDocstring++
		}
	}
	if len(fns) > 0 {
		dq.FunctionDocCoverage = float64(dq.FunctionsWithDocstring) / float64(len(fns)) * 100
	}
	if len(classes) > 0 {
		dq.ClassDocCoverage = float64(dq.ClassesWithDocstring) / float64(len(classes)) * 100
	}
	if len(files) > 0 {
		var total float64
		for i := range files {
			total += files[i].Metrics.DocumentationCoverage
		}
		dq.AvgFileDocCoverage = total / float64(len(files))
	}
	return dq
}
