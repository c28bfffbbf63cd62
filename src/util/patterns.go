package util

import (
	"regexp"

	"github.com/bmatcuk/doublestar/v4"

	"code-analyzer/src/config"
)

// ExclusionMatcher matches entities against exclusion patterns
type ExclusionMatcher struct {
	filePatterns     []string
	files            map[string]bool
	languages        map[string]bool
	classPatterns    []*regexp.Regexp
	functionPatterns []*regexp.Regexp
}

// NewExclusionMatcher creates a new exclusion matcher from config.
// Invalid globs and regexes are skipped with a warning.
func NewExclusionMatcher(cfg config.ExclusionsConfig) *ExclusionMatcher {
	m := &ExclusionMatcher{
		files:     make(map[string]bool, len(cfg.Files)),
		languages: make(map[string]bool, len(cfg.Languages)),
	}

	for _, f := range cfg.Files {
		m.files[f] = true
	}
	for _, lang := range cfg.Languages {
		m.languages[lang] = true
	}

	for _, p := range cfg.FilePatterns {
		if !doublestar.ValidatePattern(p) {
			Warn("Ignoring invalid file pattern %q", p)
			continue
		}
		m.filePatterns = append(m.filePatterns, p)
	}

	for _, p := range cfg.ClassPatterns {
		if re, err := regexp.Compile(p); err == nil {
			m.classPatterns = append(m.classPatterns, re)
		} else {
			Warn("Ignoring invalid class pattern %q: %v", p, err)
		}
	}

	for _, p := range cfg.FunctionPatterns {
		if re, err := regexp.Compile(p); err == nil {
			m.functionPatterns = append(m.functionPatterns, re)
		} else {
			Warn("Ignoring invalid function pattern %q: %v", p, err)
		}
	}

	return m
}

// Matches checks if an entity should be excluded. Paths are slash separated
// and relative to the analyzed root.
func (m *ExclusionMatcher) Matches(filePath, className, funcName string) bool {
	if m.MatchesFile(filePath) {
		return true
	}

	if className != "" {
		for _, re := range m.classPatterns {
			if re.MatchString(className) {
				return true
			}
		}
	}

	if funcName != "" {
		for _, re := range m.functionPatterns {
			if re.MatchString(funcName) {
				return true
			}
		}
	}

	return false
}

// MatchesFile checks a path against the exact file list and glob patterns
func (m *ExclusionMatcher) MatchesFile(filePath string) bool {
	if m.files[filePath] {
		return true
	}
	for _, pattern := range m.filePatterns {
		if MatchGlob(pattern, filePath) {
			return true
		}
	}
	return false
}

// MatchesLanguage reports whether a language is excluded entirely
func (m *ExclusionMatcher) MatchesLanguage(language string) bool {
	return m.languages[language]
}

// MatchGlob matches a path against a glob pattern; "**" spans directories
func MatchGlob(pattern, path string) bool {
	matched, _ := doublestar.Match(pattern, path)
	return matched
}
