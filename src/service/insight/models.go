package insight

// Summary is the compact, source-free description of an analysis sent to the
// insight service
type Summary struct {
	RepositoryPath      string         `json:"repository_path"`
	TotalFiles          int            `json:"total_files"`
	FilesAnalyzed       int            `json:"files_analyzed"`
	FileTypes           map[string]int `json:"file_types"`
	TotalFunctions      int            `json:"total_functions"`
	TotalClasses        int            `json:"total_classes"`
	SecurityIssuesCount int            `json:"security_issues_count"`
	QualityIssuesCount  int            `json:"quality_issues_count"`
	DebtScore           float64        `json:"debt_score"`
	AvgComplexity       float64        `json:"avg_function_complexity"`
	FunctionDocCoverage float64        `json:"function_doc_coverage"`
}

// GenerateRequest is the body POSTed to the insight endpoint
type GenerateRequest struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	Summary Summary `json:"summary"`
}

// GenerateResponse is the insight endpoint reply
type GenerateResponse struct {
	Text string `json:"text"`
}
