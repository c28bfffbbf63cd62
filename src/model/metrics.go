package model

// CodeMetrics contains line and density metrics for a single file.
// CodeLines + CommentLines + BlankLines always equals TotalLines.
type CodeMetrics struct {
	TotalLines   int `json:"total_lines"`
	CodeLines    int `json:"code_lines"`
	CommentLines int `json:"comment_lines"`
	BlankLines   int `json:"blank_lines"`

	// ComplexityScore is the raw count of branching keywords in the text
	ComplexityScore int `json:"complexity_score"`
	// DocumentationCoverage is doc delimiters per 100 lines; it can exceed 100
	DocumentationCoverage float64 `json:"documentation_coverage"`
}

// ComplexityAnalysis aggregates function complexity across the repository
type ComplexityAnalysis struct {
	TotalFunctionComplexity int            `json:"total_function_complexity"`
	AvgFunctionComplexity   float64        `json:"avg_function_complexity"`
	MaxFunctionComplexity   int            `json:"max_function_complexity"`
	MostComplexFunctions    []FunctionInfo `json:"most_complex_functions"`
}

// DocumentationQuality aggregates docstring presence across the repository
type DocumentationQuality struct {
	FunctionsWithDocstring int     `json:"functions_with_docstring"`
	FunctionDocCoverage    float64 `json:"function_doc_coverage"`
	ClassesWithDocstring   int     `json:"classes_with_docstring"`
	ClassDocCoverage       float64 `json:"class_doc_coverage"`
	AvgFileDocCoverage     float64 `json:"avg_file_doc_coverage"`
}
