package model

import "time"

// RepositoryAnalysis represents the complete analysis of a directory tree
type RepositoryAnalysis struct {
	RepositoryPath       string               `json:"repository_path"`
	AnalyzedAt           time.Time            `json:"analysis_timestamp"`
	TotalFiles           int                  `json:"total_files"`
	FilesAnalyzed        int                  `json:"files_analyzed"`
	Incomplete           bool                 `json:"incomplete"`
	FileTypes            map[string]int       `json:"file_types"`
	Files                []FileAnalysis       `json:"files"`
	Functions            []FunctionInfo       `json:"functions"`
	Classes              []ClassInfo          `json:"classes"`
	SecurityIssues       []SecurityFinding    `json:"security_issues"`
	QualityIssues        []DebtIssue          `json:"quality_issues"`
	Warnings             []FileWarning        `json:"warnings"`
	ComplexityAnalysis   ComplexityAnalysis   `json:"complexity_analysis"`
	DocumentationQuality DocumentationQuality `json:"documentation_quality"`
	Summary              SummaryMetrics       `json:"summary"`
	AIInsights           *AIInsights          `json:"ai_insights"`
}

// SummaryMetrics contains aggregated statistics
type SummaryMetrics struct {
	TotalFiles          int              `json:"total_files"`
	FilesAnalyzed       int              `json:"total_files_analyzed"`
	TotalFunctions      int              `json:"total_functions_found"`
	TotalClasses        int              `json:"total_classes_found"`
	TotalImports        int              `json:"total_imports_found"`
	TotalSecurityIssues int              `json:"total_security_issues"`
	BySeverity          map[Severity]int `json:"by_severity"`
	TotalQualityIssues  int              `json:"total_quality_issues"`
	DebtScore           float64          `json:"debt_score"`
	TotalLines          int              `json:"total_lines"`
	CodeLines           int              `json:"code_lines"`
	CommentLines        int              `json:"comment_lines"`
	BlankLines          int              `json:"blank_lines"`
	SyntaxErrors        int              `json:"syntax_errors"`
	MostCommonFileType  string           `json:"most_common_file_type"`
	AnalysisQuality     string           `json:"analysis_quality"`
	HasAIInsights       bool             `json:"has_ai_insights"`
	Incomplete          bool             `json:"incomplete"`
}

// AIInsights holds free-form text returned by the insight service
type AIInsights struct {
	Text        string    `json:"ai_insights"`
	GeneratedAt time.Time `json:"generated_at"`
}
