// Package extractor turns raw source text into language-neutral structural
// facts. Each supported language registers one Extractor; whether it parses
// precisely or matches heuristically is fixed per language.
package extractor

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"code-analyzer/src/model"
)

// Strategy names how an extractor recognizes declarations
type Strategy string

const (
	// StrategyPrecise parses a full syntax tree
	StrategyPrecise Strategy = "precise"
	// StrategyHeuristic matches declaration idioms with regular expressions
	StrategyHeuristic Strategy = "heuristic"
)

// Extractor produces structural facts for one language family
type Extractor interface {
	// Name returns the language family name
	Name() string

	// Strategy returns the extraction strategy
	Strategy() Strategy

	// Extract parses src. A syntax error is reported through
	// Result.SyntaxError, not as an error.
	Extract(ctx context.Context, src []byte) (*Result, error)
}

// Result is the structural summary of one file
type Result struct {
	Functions   []model.FunctionInfo `json:"functions"`
	Classes     []model.ClassInfo    `json:"classes"`
	Imports     []string             `json:"imports"`
	Markup      *model.MarkupInfo    `json:"markup,omitempty"`
	SyntaxError string               `json:"syntax_error,omitempty"`
}

// emptyResult returns a Result with non-nil, empty lists
func emptyResult() *Result {
	return &Result{
		Functions: []model.FunctionInfo{},
		Classes:   []model.ClassInfo{},
		Imports:   []string{},
	}
}

// lineIndex maps byte offsets to 1-based line numbers
type lineIndex []int

func newLineIndex(text string) lineIndex {
	var idx lineIndex
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			idx = append(idx, i)
		}
	}
	return idx
}

// line returns the 1-based line containing offset
func (li lineIndex) line(offset int) int {
	return sort.SearchInts(li, offset) + 1
}

// match is a regex hit used to merge several patterns in source order
type match struct {
	offset int
	value  string
}

// findGroups returns, for every match of re, the first non-empty capture
// group and its offset
func findGroups(re *regexp.Regexp, text string) []match {
	var out []match
	for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
		for g := 1; g*2 < len(loc); g++ {
			start, end := loc[g*2], loc[g*2+1]
			if start >= 0 && end > start {
				out = append(out, match{offset: start, value: text[start:end]})
				break
			}
		}
	}
	return out
}

// uniqueInOrder sorts matches by offset and keeps the first occurrence of
// each value
func uniqueInOrder(matches []match) []string {
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].offset < matches[j].offset })
	seen := make(map[string]bool, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m.value] {
			continue
		}
		seen[m.value] = true
		out = append(out, m.value)
	}
	return out
}

// uniqueSorted returns the distinct values of all first capture groups, sorted
func uniqueSorted(re *regexp.Regexp, text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if len(m) < 2 || m[1] == "" || seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		out = append(out, m[1])
	}
	sort.Strings(out)
	return out
}

// splitList splits a comma separated type list such as "A, B,C"
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// heuristicFunction builds a FunctionInfo carrying only name and line
func heuristicFunction(name, kind string, line int) model.FunctionInfo {
	return model.FunctionInfo{
		Name:       name,
		Kind:       kind,
		LineNumber: line,
		Complexity: 1,
	}
}
