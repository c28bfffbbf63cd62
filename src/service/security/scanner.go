// Package security flags dangerous constructs in source text with per-language
// regular expression rules
package security

import (
	"fmt"
	"regexp"
	"sort"

	"code-analyzer/src/model"
)

type compiledRule struct {
	Rule
	re *regexp.Regexp
}

// Scanner applies one language's rule table to file text
type Scanner struct {
	language string
	rules    []compiledRule
}

// NewScanner compiles the built-in rules for language. overrides re-grades
// rules by ID.
func NewScanner(language string, overrides map[string]model.Severity) (*Scanner, error) {
	return NewScannerWithRules(language, RulesFor(language), overrides)
}

// NewScannerWithRules compiles an explicit rule table. Patterns are matched
// case-insensitively.
func NewScannerWithRules(language string, rules []Rule, overrides map[string]model.Severity) (*Scanner, error) {
	s := &Scanner{language: language}
	for _, r := range rules {
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling rule %s: %w", r.ID, err)
		}
		if sev, ok := overrides[r.ID]; ok {
			r.Severity = sev
		}
		s.rules = append(s.rules, compiledRule{Rule: r, re: re})
	}
	return s, nil
}

// Language returns the language family the scanner was built for. Rules
// passed to NewScannerWithRules may leave their own Language empty.
func (s *Scanner) Language() string {
	return s.language
}

// Rules returns the effective rules, overrides applied
func (s *Scanner) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	for i, r := range s.rules {
		out[i] = r.Rule
	}
	return out
}

// Scan returns at most one finding per rule, in table order. Line is the
// line of the first match.
func (s *Scanner) Scan(text string) []model.SecurityFinding {
	findings := []model.SecurityFinding{}
	var newlines []int
	for _, r := range s.rules {
		loc := r.re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if newlines == nil {
			newlines = newlineOffsets(text)
		}
		findings = append(findings, model.SecurityFinding{
			Type:     model.SecurityVulnerability,
			Severity: r.Severity,
			Issue:    r.Issue,
			RuleID:   r.ID,
			Pattern:  r.Pattern,
			Line:     sort.SearchInts(newlines, loc[0]) + 1,
		})
	}
	return findings
}

func newlineOffsets(text string) []int {
	offsets := []int{}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			offsets = append(offsets, i)
		}
	}
	return offsets
}
