package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"code-analyzer/src/config"
	"code-analyzer/src/model"
	"code-analyzer/src/util"
)

// Formats lists the supported report formats
var Formats = []string{"json", "markdown", "sarif", "table"}

// categoryOrder fixes the order quality issues are grouped in
var categoryOrder = []model.Category{model.CategoryComplexity, model.CategorySize, model.CategoryDuplication}

// Generator generates reports in various formats
type Generator struct {
	cfg config.OutputConfig
}

// NewGenerator creates a new report generator
func NewGenerator(cfg config.OutputConfig) *Generator {
	return &Generator{cfg: cfg}
}

// Extension returns the file extension used when writing a report format
func Extension(format string) string {
	switch format {
	case "markdown", "md":
		return "md"
	case "table":
		return "txt"
	case "sarif":
		return "sarif"
	default:
		return format
	}
}

// Generate generates a report in the specified format
func (g *Generator) Generate(ra *model.RepositoryAnalysis, format string) (string, error) {
	util.Debug("Generating report in %s format (%d files, %d findings)", format, len(ra.Files), len(ra.SecurityIssues))
	switch format {
	case "json":
		return g.generateJSON(ra)
	case "markdown", "md":
		return g.generateMarkdown(ra)
	case "sarif":
		return g.generateSARIF(ra)
	case "table":
		return g.generateTable(ra)
	default:
		util.Warn("Unsupported report format requested: %s", format)
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func (g *Generator) generateJSON(ra *model.RepositoryAnalysis) (string, error) {
	data, err := json.MarshalIndent(ra, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (g *Generator) generateMarkdown(ra *model.RepositoryAnalysis) (string, error) {
	var sb strings.Builder
	s := ra.Summary

	// Header
	sb.WriteString("# Code Analysis Report\n\n")
	sb.WriteString(fmt.Sprintf("**Repository:** %s\n", ra.RepositoryPath))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n\n", ra.AnalyzedAt.UTC().Format("2006-01-02 15:04:05 UTC")))
	if ra.Incomplete {
		sb.WriteString("> Analysis was interrupted; results are partial.\n\n")
	}

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Files Analyzed:** %d of %d\n", s.FilesAnalyzed, s.TotalFiles))
	sb.WriteString(fmt.Sprintf("- **Functions:** %d\n", s.TotalFunctions))
	sb.WriteString(fmt.Sprintf("- **Classes:** %d\n", s.TotalClasses))
	sb.WriteString(fmt.Sprintf("- **Imports:** %d\n", s.TotalImports))
	sb.WriteString(fmt.Sprintf("- **Lines:** %d total, %d code, %d comment, %d blank\n", s.TotalLines, s.CodeLines, s.CommentLines, s.BlankLines))
	sb.WriteString(fmt.Sprintf("- **Security Issues:** %d\n", s.TotalSecurityIssues))
	sb.WriteString(fmt.Sprintf("- **Quality Issues:** %d\n", s.TotalQualityIssues))
	sb.WriteString(fmt.Sprintf("- **Debt Score:** %.1f/100\n", s.DebtScore))
	sb.WriteString(fmt.Sprintf("- **Syntax Errors:** %d\n", s.SyntaxErrors))
	if s.MostCommonFileType != "" {
		sb.WriteString(fmt.Sprintf("- **Most Common File Type:** %s\n", s.MostCommonFileType))
	}
	sb.WriteString(fmt.Sprintf("- **Analysis Quality:** %s\n\n", s.AnalysisQuality))

	// File types
	sb.WriteString("## File Types\n\n")
	sb.WriteString("| Extension | Files |\n")
	sb.WriteString("|-----------|-------|\n")
	for _, ext := range sortedKeys(ra.FileTypes) {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", ext, ra.FileTypes[ext]))
	}
	sb.WriteString("\n")

	// Security issues, first N in input order
	sb.WriteString("## Security Issues\n\n")
	if len(ra.SecurityIssues) == 0 {
		sb.WriteString("No security issues found.\n\n")
	} else {
		top := ra.SecurityIssues
		if g.cfg.TopSecurityIssues > 0 && len(top) > g.cfg.TopSecurityIssues {
			top = top[:g.cfg.TopSecurityIssues]
		}
		if len(top) < len(ra.SecurityIssues) {
			sb.WriteString(fmt.Sprintf("Showing %d of %d.\n\n", len(top), len(ra.SecurityIssues)))
		}
		for _, f := range top {
			sb.WriteString(fmt.Sprintf("- %s `%s:%d` %s (%s)\n", severityEmoji(f.Severity), f.FilePath, f.Line, f.Issue, f.RuleID))
		}
		sb.WriteString(fmt.Sprintf("\n_By severity:_ %s\n\n", severityCounts(s.BySeverity)))
	}

	// AI insights
	if ra.AIInsights != nil {
		sb.WriteString("## AI Insights\n\n")
		sb.WriteString(strings.TrimSpace(ra.AIInsights.Text))
		sb.WriteString("\n\n")
	}

	g.writeQualityIssues(&sb, ra.QualityIssues)

	// Most complex functions
	if fns := ra.ComplexityAnalysis.MostComplexFunctions; len(fns) > 0 {
		sb.WriteString("## Most Complex Functions\n\n")
		sb.WriteString(fmt.Sprintf("Average complexity %.2f, max %d.\n\n", ra.ComplexityAnalysis.AvgFunctionComplexity, ra.ComplexityAnalysis.MaxFunctionComplexity))
		sb.WriteString("| Function | File | Line | Complexity |\n")
		sb.WriteString("|----------|------|------|------------|\n")
		for _, fn := range fns {
			sb.WriteString(fmt.Sprintf("| `%s` | %s | %d | %d |\n", fn.Name, fn.FilePath, fn.LineNumber, fn.Complexity))
		}
		sb.WriteString("\n")
	}

	// Warnings
	if len(ra.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("## Warnings (%d)\n\n", len(ra.Warnings)))
		for _, w := range ra.Warnings {
			sb.WriteString(fmt.Sprintf("- `%s` [%s] %s\n", w.Path, w.Kind, w.Cause))
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func (g *Generator) writeQualityIssues(sb *strings.Builder, issues []model.DebtIssue) {
	if len(issues) == 0 {
		return
	}

	sb.WriteString("## Code Quality Issues\n\n")

	issuesByCategory := make(map[model.Category][]model.DebtIssue)
	for _, issue := range issues {
		issuesByCategory[issue.Category] = append(issuesByCategory[issue.Category], issue)
	}

	for _, cat := range categoryOrder {
		catIssues := issuesByCategory[cat]
		if len(catIssues) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("### %s (%d issues)\n\n", titleCase(string(cat)), len(catIssues)))

		for _, issue := range catIssues {
			sb.WriteString(fmt.Sprintf("#### %s `%s`\n\n", severityEmoji(issue.Severity), issue.EntityName))
			sb.WriteString(fmt.Sprintf("- **File:** `%s:%d-%d`\n", issue.FilePath, issue.StartLine, issue.EndLine))
			sb.WriteString(fmt.Sprintf("- **Type:** %s\n", issue.Subcategory))
			sb.WriteString(fmt.Sprintf("- **Severity:** %s\n", issue.Severity))
			sb.WriteString(fmt.Sprintf("- **Description:** %s\n", issue.Description))

			if g.cfg.IncludeSuggestions && issue.Suggestion != "" {
				sb.WriteString(fmt.Sprintf("- **Suggestion:** %s\n", issue.Suggestion))
			}

			if g.cfg.IncludeMetrics && len(issue.Metrics) > 0 {
				sb.WriteString("- **Metrics:**\n")
				for _, k := range sortedKeys(issue.Metrics) {
					sb.WriteString(fmt.Sprintf("  - %s: %v\n", k, issue.Metrics[k]))
				}
			}

			sb.WriteString("\n")
		}
	}
}

// generateTable renders one row per file plus a totals footer
func (g *Generator) generateTable(ra *model.RepositoryAnalysis) (string, error) {
	var sb strings.Builder
	table := tablewriter.NewWriter(&sb)

	headers := []string{"File", "Strategy", "Lines", "Code", "Comment", "Blank", "Functions", "Classes", "Imports", "Findings", "Status"}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i := range ra.Files {
		f := &ra.Files[i]
		data = append(data, []string{
			f.Path,
			f.Strategy,
			strconv.Itoa(f.Metrics.TotalLines),
			strconv.Itoa(f.Metrics.CodeLines),
			strconv.Itoa(f.Metrics.CommentLines),
			strconv.Itoa(f.Metrics.BlankLines),
			strconv.Itoa(len(f.Functions)),
			strconv.Itoa(len(f.Classes)),
			strconv.Itoa(len(f.Imports)),
			strconv.Itoa(len(f.SecurityIssues)),
			fileStatus(f),
		})
	}

	s := ra.Summary
	data = append(data, []string{
		fmt.Sprintf("TOTAL (%d/%d)", s.FilesAnalyzed, s.TotalFiles),
		"",
		strconv.Itoa(s.TotalLines),
		strconv.Itoa(s.CodeLines),
		strconv.Itoa(s.CommentLines),
		strconv.Itoa(s.BlankLines),
		strconv.Itoa(s.TotalFunctions),
		strconv.Itoa(s.TotalClasses),
		strconv.Itoa(s.TotalImports),
		strconv.Itoa(s.TotalSecurityIssues),
		s.AnalysisQuality,
	})

	if err := table.Bulk(data); err != nil {
		return "", err
	}
	if err := table.Render(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (g *Generator) generateSARIF(ra *model.RepositoryAnalysis) (string, error) {
	rules, results := g.buildSARIFSecurity(ra.SecurityIssues)
	qRules, qResults := g.buildSARIFQuality(ra.QualityIssues)

	sarif := map[string]any{
		"$schema": "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		"version": "2.1.0",
		"runs": []map[string]any{
			{
				"tool": map[string]any{
					"driver": map[string]any{
						"name":    "code-analyzer",
						"version": "1.0.0",
						"rules":   append(rules, qRules...),
					},
				},
				"results": append(results, qResults...),
			},
		},
	}

	data, err := json.MarshalIndent(sarif, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (g *Generator) buildSARIFSecurity(findings []model.SecurityFinding) ([]map[string]any, []map[string]any) {
	seen := make(map[string]bool)
	rules := []map[string]any{}
	results := []map[string]any{}

	for _, f := range findings {
		if !seen[f.RuleID] {
			seen[f.RuleID] = true
			rules = append(rules, map[string]any{
				"id":   f.RuleID,
				"name": f.RuleID,
				"shortDescription": map[string]any{
					"text": f.Issue,
				},
				"properties": map[string]any{
					"pattern": f.Pattern,
					"tags":    []string{"security"},
				},
				"defaultConfiguration": map[string]any{
					"level": sarifLevel(f.Severity),
				},
			})
		}

		results = append(results, map[string]any{
			"ruleId":    f.RuleID,
			"level":     sarifLevel(f.Severity),
			"message":   map[string]any{"text": f.Issue},
			"locations": sarifLocation(f.FilePath, f.Line, f.Line),
		})
	}

	return rules, results
}

func (g *Generator) buildSARIFQuality(issues []model.DebtIssue) ([]map[string]any, []map[string]any) {
	seen := make(map[string]bool)
	var rules, results []map[string]any

	for _, issue := range issues {
		ruleID := string(issue.Category) + "/" + issue.Subcategory
		if !seen[ruleID] {
			seen[ruleID] = true
			rules = append(rules, map[string]any{
				"id":   ruleID,
				"name": issue.Subcategory,
				"shortDescription": map[string]any{
					"text": issue.Description,
				},
				"defaultConfiguration": map[string]any{
					"level": sarifLevel(issue.Severity),
				},
			})
		}

		result := map[string]any{
			"ruleId":    ruleID,
			"level":     sarifLevel(issue.Severity),
			"message":   map[string]any{"text": issue.Description},
			"locations": sarifLocation(issue.FilePath, issue.StartLine, issue.EndLine),
		}

		if issue.Suggestion != "" {
			result["fixes"] = []map[string]any{
				{
					"description": map[string]any{"text": issue.Suggestion},
				},
			}
		}

		results = append(results, result)
	}

	return rules, results
}

func sarifLocation(path string, start, end int) []map[string]any {
	if end < start {
		end = start
	}
	return []map[string]any{
		{
			"physicalLocation": map[string]any{
				"artifactLocation": map[string]any{
					"uri": path,
				},
				"region": map[string]any{
					"startLine": start,
					"endLine":   end,
				},
			},
		},
	}
}

func fileStatus(f *model.FileAnalysis) string {
	switch {
	case f.SyntaxError != "":
		return "syntax error"
	case f.ExtractionError != "":
		return "extract error"
	case f.Strategy == "":
		return "metrics only"
	default:
		return "ok"
	}
}

func severityCounts(counts map[model.Severity]int) string {
	parts := make([]string, 0, len(model.SeverityOrder))
	for i := len(model.SeverityOrder) - 1; i >= 0; i-- {
		sev := model.SeverityOrder[i]
		if counts[sev] > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", sev, counts[sev]))
		}
	}
	return strings.Join(parts, ", ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func severityEmoji(s model.Severity) string {
	switch s {
	case model.SeverityCritical:
		return "[CRITICAL]"
	case model.SeverityHigh:
		return "[HIGH]"
	case model.SeverityMedium:
		return "[MEDIUM]"
	default:
		return "[LOW]"
	}
}

func sarifLevel(s model.Severity) string {
	switch s {
	case model.SeverityCritical, model.SeverityHigh:
		return "error"
	case model.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}
