package metrics

import (
	"strings"

	"code-analyzer/src/model"
)

// complexityKeywords are counted as raw substrings, so "elif" also counts
// as an "if" and identifiers such as "format" count a "for"
var complexityKeywords = []string{"if", "for", "while", "try", "except", "catch", "elif", "else"}

// docDelimiters mark documentation blocks
var docDelimiters = []string{`"""`, `'''`, "/*"}

// commentMarkers are the line-comment and block-comment openers per language
var commentMarkers = map[string][]string{
	"python":     {"#"},
	"javascript": {"//", "/*", "*"},
	"typescript": {"//", "/*", "*"},
	"java":       {"//", "/*", "*"},
	"css":        {"/*", "*"},
	"html":       {"<!--"},
}

// defaultCommentMarkers are used for languages without a registered set
var defaultCommentMarkers = []string{"#", "//", "/*", "*"}

// Calculator computes line-level metrics from raw file text.
// Classification is per line; block comments spanning lines are only
// recognized where a line starts with a marker.
type Calculator struct{}

// NewCalculator creates a new metrics calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Compute classifies every line of text and derives the complexity score and
// documentation coverage
func (c *Calculator) Compute(text, language string) model.CodeMetrics {
	lines := SplitLines(text)
	markers := CommentMarkers(language)

	m := model.CodeMetrics{TotalLines: len(lines)}
	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		switch {
		case stripped == "":
			m.BlankLines++
		case hasAnyPrefix(stripped, markers):
			m.CommentLines++
		default:
			m.CodeLines++
		}
	}

	for _, kw := range complexityKeywords {
		m.ComplexityScore += strings.Count(text, kw)
	}

	docCount := 0
	for _, delim := range docDelimiters {
		docCount += strings.Count(text, delim)
	}
	m.DocumentationCoverage = float64(docCount) / float64(max(m.TotalLines, 1)) * 100

	return m
}

// CommentMarkers returns the comment openers registered for language
func CommentMarkers(language string) []string {
	if markers, ok := commentMarkers[language]; ok {
		return markers
	}
	return defaultCommentMarkers
}

// SplitLines splits text on \n, \r\n and \r. A trailing line break does not
// produce an empty final line, and empty text has zero lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
