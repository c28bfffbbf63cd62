package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code-analyzer/src/config"
	"code-analyzer/src/model"
)

func sampleAnalysis() *model.RepositoryAnalysis {
	fn := model.FunctionInfo{Name: "handler", Kind: "function", FilePath: "app/main.py", LineNumber: 3, Complexity: 12}
	return &model.RepositoryAnalysis{
		RepositoryPath: "/repo",
		AnalyzedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		TotalFiles:     3,
		FilesAnalyzed:  3,
		FileTypes:      map[string]int{".py": 2, ".js": 1},
		Files: []model.FileAnalysis{
			{
				SourceFile: model.SourceFile{Path: "app/main.py", Extension: ".py", Language: "python"},
				Metrics:    model.CodeMetrics{TotalLines: 20, CodeLines: 15, CommentLines: 3, BlankLines: 2},
				Strategy:   "precise",
				Functions:  []model.FunctionInfo{fn},
			},
			{
				SourceFile:  model.SourceFile{Path: "app/bad.py", Extension: ".py", Language: "python"},
				Strategy:    "precise",
				SyntaxError: "invalid syntax at line 1",
			},
			{
				SourceFile: model.SourceFile{Path: "web/app.js", Extension: ".js", Language: "javascript"},
				Strategy:   "heuristic",
			},
		},
		Functions: []model.FunctionInfo{fn},
		SecurityIssues: []model.SecurityFinding{
			{Type: model.SecurityVulnerability, Severity: model.SeverityHigh, Issue: "Use of eval()", RuleID: "python-eval", Pattern: `eval\s*\(`, FilePath: "app/main.py", Line: 7},
			{Type: model.SecurityVulnerability, Severity: model.SeverityMedium, Issue: "innerHTML assignment", RuleID: "js-inner-html", Pattern: `innerHTML\s*=`, FilePath: "web/app.js", Line: 2},
			{Type: model.SecurityVulnerability, Severity: model.SeverityLow, Issue: "setTimeout with string", RuleID: "js-string-timeout", Pattern: `setTimeout`, FilePath: "web/app.js", Line: 9},
		},
		QualityIssues: []model.DebtIssue{
			{
				Category: model.CategoryComplexity, Subcategory: "cyclomatic_complexity", Severity: model.SeverityMedium,
				FilePath: "app/main.py", StartLine: 3, EndLine: 10, EntityName: "handler", EntityType: "function",
				Description: "High cyclomatic complexity (CC=12)", Suggestion: "Extract helpers",
				Metrics: map[string]any{"threshold": 10, "cyclomatic_complexity": 12},
			},
		},
		Warnings: []model.FileWarning{{Path: "app/bad.py", Kind: model.WarningSyntax, Cause: "invalid syntax at line 1"}},
		ComplexityAnalysis: model.ComplexityAnalysis{
			TotalFunctionComplexity: 12, AvgFunctionComplexity: 12, MaxFunctionComplexity: 12,
			MostComplexFunctions: []model.FunctionInfo{fn},
		},
		Summary: model.SummaryMetrics{
			TotalFiles: 3, FilesAnalyzed: 3, TotalFunctions: 1, TotalSecurityIssues: 3, TotalQualityIssues: 1,
			BySeverity:         map[model.Severity]int{model.SeverityHigh: 1, model.SeverityMedium: 1, model.SeverityLow: 1},
			DebtScore:          0.3,
			TotalLines:         20, CodeLines: 15, CommentLines: 3, BlankLines: 2,
			SyntaxErrors:       1,
			MostCommonFileType: ".py",
			AnalysisQuality:    "high",
		},
		AIInsights: &model.AIInsights{Text: "  Consider splitting handler.  "},
	}
}

func newTestGenerator() *Generator {
	cfg := config.DefaultConfig().Output
	cfg.TopSecurityIssues = 2
	return NewGenerator(cfg)
}

func TestGenerateMarkdownSectionOrder(t *testing.T) {
	out, err := newTestGenerator().Generate(sampleAnalysis(), "markdown")
	require.NoError(t, err)

	sections := []string{
		"# Code Analysis Report",
		"## Summary",
		"## File Types",
		"## Security Issues",
		"## AI Insights",
		"## Code Quality Issues",
		"## Most Complex Functions",
		"## Warnings (1)",
	}
	last := -1
	for _, s := range sections {
		idx := strings.Index(out, s)
		require.GreaterOrEqual(t, idx, 0, "missing section %q", s)
		assert.Greater(t, idx, last, "section %q out of order", s)
		last = idx
	}

	assert.Contains(t, out, "**Files Analyzed:** 3 of 3")
	assert.Less(t, strings.Index(out, "| .js | 1 |"), strings.Index(out, "| .py | 2 |"))
	assert.Contains(t, out, "Showing 2 of 3.")
	assert.Less(t, strings.Index(out, "python-eval"), strings.Index(out, "js-inner-html"))
	assert.NotContains(t, out, "js-string-timeout")
	assert.Contains(t, out, "Consider splitting handler.\n")
	assert.Less(t, strings.Index(out, "cyclomatic_complexity: 12"), strings.Index(out, "threshold: 10"))
}

func TestGenerateMarkdownWithoutInsights(t *testing.T) {
	ra := sampleAnalysis()
	ra.AIInsights = nil
	ra.SecurityIssues = nil

	out, err := newTestGenerator().Generate(ra, "md")
	require.NoError(t, err)
	assert.NotContains(t, out, "## AI Insights")
	assert.Contains(t, out, "No security issues found.")
}

func TestGenerateMarkdownDeterministic(t *testing.T) {
	g := newTestGenerator()
	first, err := g.Generate(sampleAnalysis(), "markdown")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := g.Generate(sampleAnalysis(), "markdown")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestGenerateJSON(t *testing.T) {
	out, err := newTestGenerator().Generate(sampleAnalysis(), "json")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "/repo", decoded["repository_path"])
	assert.EqualValues(t, 3, decoded["files_analyzed"])

	insights, ok := decoded["ai_insights"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, insights["ai_insights"], "splitting")
}

func TestGenerateSARIF(t *testing.T) {
	out, err := newTestGenerator().Generate(sampleAnalysis(), "sarif")
	require.NoError(t, err)

	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID string `json:"ruleId"`
				Level  string `json:"level"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Runs, 1)
	assert.Equal(t, "2.1.0", doc.Version)
	assert.Equal(t, "code-analyzer", doc.Runs[0].Tool.Driver.Name)

	results := doc.Runs[0].Results
	require.Len(t, results, 4)
	assert.Equal(t, "python-eval", results[0].RuleID)
	assert.Equal(t, "error", results[0].Level)
	assert.Equal(t, "warning", results[1].Level)
	assert.Equal(t, "note", results[2].Level)
	assert.Equal(t, "complexity/cyclomatic_complexity", results[3].RuleID)
	assert.Len(t, doc.Runs[0].Tool.Driver.Rules, 4)
}

func TestGenerateTable(t *testing.T) {
	out, err := newTestGenerator().Generate(sampleAnalysis(), "table")
	require.NoError(t, err)

	assert.Contains(t, out, "app/main.py")
	assert.Contains(t, out, "web/app.js")
	assert.Contains(t, out, "syntax error")
	assert.Contains(t, out, "TOTAL (3/3)")
}

func TestGenerateUnsupported(t *testing.T) {
	_, err := newTestGenerator().Generate(sampleAnalysis(), "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"markdown": "md",
		"md":       "md",
		"json":     "json",
		"sarif":    "sarif",
		"table":    "txt",
	}
	for format, want := range tests {
		t.Run(format, func(t *testing.T) {
			assert.Equal(t, want, Extension(format))
		})
	}
}
