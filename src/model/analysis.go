package model

// SecurityVulnerability is the type tag carried by every security finding
const SecurityVulnerability = "security_vulnerability"

// SourceFile describes a discovered file. It is immutable once read.
type SourceFile struct {
	Path        string `json:"file_path"`
	Language    string `json:"language,omitempty"`
	Extension   string `json:"file_type"`
	SizeBytes   int    `json:"size_bytes"`
	LineCount   int    `json:"lines"`
	ContentHash string `json:"content_hash"`
}

// FunctionInfo describes a function or method declaration
type FunctionInfo struct {
	Name         string   `json:"name"`
	Kind         string   `json:"type"` // function, method
	FilePath     string   `json:"file_path,omitempty"`
	LineNumber   int      `json:"line_number"`
	EndLine      int      `json:"end_line,omitempty"`
	LineCount    int      `json:"line_count,omitempty"`
	Parameters   []string `json:"parameters,omitempty"`
	Docstring    *string  `json:"docstring,omitempty"`
	HasDocstring bool     `json:"has_docstring"`
	Complexity   int      `json:"complexity"`
	Decorators   []string `json:"decorators,omitempty"`
}

// ClassInfo describes a class, interface or similar type declaration
type ClassInfo struct {
	Name         string         `json:"name"`
	FilePath     string         `json:"file_path,omitempty"`
	LineNumber   int            `json:"line_number"`
	BaseClasses  []string       `json:"base_classes"`
	Interfaces   []string       `json:"interfaces,omitempty"`
	Docstring    *string        `json:"docstring,omitempty"`
	HasDocstring bool           `json:"has_docstring"`
	Methods      []FunctionInfo `json:"methods"`
}

// SecurityFinding is a single security pattern match within a file
type SecurityFinding struct {
	Type     string   `json:"type"`
	Severity Severity `json:"severity"`
	Issue    string   `json:"issue"`
	RuleID   string   `json:"rule_id"`
	Pattern  string   `json:"pattern"`
	FilePath string   `json:"file_path,omitempty"`
	Line     int      `json:"line"`
}

// HTMLForm describes a <form> element
type HTMLForm struct {
	InputCount int `json:"input_count"`
	LineNumber int `json:"line_number"`
}

// MarkupInfo holds facts extracted from markup and stylesheet files
type MarkupInfo struct {
	Tags       []string   `json:"tags,omitempty"`
	Forms      []HTMLForm `json:"forms,omitempty"`
	Selectors  []string   `json:"selectors,omitempty"`
	Properties []string   `json:"properties,omitempty"`
}

// FileAnalysis is the per-file analysis result
type FileAnalysis struct {
	SourceFile
	Metrics         CodeMetrics       `json:"metrics"`
	Strategy        string            `json:"strategy,omitempty"`
	Functions       []FunctionInfo    `json:"functions"`
	Classes         []ClassInfo       `json:"classes"`
	Imports         []string          `json:"imports"`
	SecurityIssues  []SecurityFinding `json:"security_issues"`
	Markup          *MarkupInfo       `json:"markup,omitempty"`
	SyntaxError     string            `json:"syntax_error,omitempty"`
	ExtractionError string            `json:"extraction_error,omitempty"`
}

// Failed reports whether structural extraction did not complete for the file
func (f *FileAnalysis) Failed() bool {
	return f.SyntaxError != "" || f.ExtractionError != ""
}

// WarningKind classifies a per-file warning
type WarningKind string

const (
	WarningRead    WarningKind = "read"
	WarningDecode  WarningKind = "decode"
	WarningSyntax  WarningKind = "syntax"
	WarningExtract WarningKind = "extract"
	WarningWalk    WarningKind = "walk"
)

// FileWarning records a recoverable per-file problem
type FileWarning struct {
	Path  string      `json:"path"`
	Kind  WarningKind `json:"kind"`
	Cause string      `json:"cause"`
}
