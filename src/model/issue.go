package model

// Severity represents the severity level of a finding or quality issue
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SeverityOrder lists severities from least to most severe
var SeverityOrder = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// Rank returns the position of s in SeverityOrder, or -1 for unknown values
func (s Severity) Rank() int {
	for i, sev := range SeverityOrder {
		if sev == s {
			return i
		}
	}
	return -1
}

// Category represents the category of a quality issue
type Category string

const (
	CategoryComplexity  Category = "complexity"
	CategorySize        Category = "size"
	CategoryDuplication Category = "duplication"
)

// DebtIssue represents a single detected code quality issue
type DebtIssue struct {
	Category    Category       `json:"category"`
	Subcategory string         `json:"subcategory"`
	Severity    Severity       `json:"severity"`
	FilePath    string         `json:"file_path"`
	StartLine   int            `json:"start_line"`
	EndLine     int            `json:"end_line"`
	EntityName  string         `json:"entity_name"`
	EntityType  string         `json:"entity_type"` // function, class, file
	Description string         `json:"description"`
	Metrics     map[string]any `json:"metrics"`
	Suggestion  string         `json:"suggestion"`
}
