package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"code-analyzer/src/model"
	"code-analyzer/src/service/extractor"
	"code-analyzer/src/service/security"
)

// Language binds an extension to its extractor and security rules
type Language struct {
	Name      string
	Extractor extractor.Extractor
	Scanner   *security.Scanner
}

// Registry maps lower-case file extensions to languages. It is built once and
// read concurrently afterwards.
type Registry struct {
	byExt map[string]*Language
}

// NewRegistry builds the static extension table. overrides re-grade security
// rules by ID.
func NewRegistry(overrides map[string]model.Severity) (*Registry, error) {
	js := extractor.NewJavaScriptExtractor("javascript")
	ts := extractor.NewJavaScriptExtractor("typescript")

	table := []struct {
		ext       string
		extractor extractor.Extractor
	}{
		{".py", extractor.NewPythonExtractor()},
		{".js", js},
		{".ts", ts},
		{".java", extractor.NewJavaExtractor()},
		{".html", extractor.NewHTMLExtractor()},
		{".css", extractor.NewCSSExtractor()},
	}

	r := &Registry{byExt: make(map[string]*Language, len(table))}
	for _, entry := range table {
		name := entry.extractor.Name()
		scanner, err := security.NewScanner(name, overrides)
		if err != nil {
			return nil, fmt.Errorf("building %s scanner: %w", name, err)
		}
		r.byExt[entry.ext] = &Language{Name: name, Extractor: entry.extractor, Scanner: scanner}
	}
	return r, nil
}

// Lookup returns the language registered for ext, matched case-insensitively
func (r *Registry) Lookup(ext string) (*Language, bool) {
	lang, ok := r.byExt[strings.ToLower(ext)]
	return lang, ok
}

// Extensions returns the registered extensions, sorted
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ParseOverrides converts config severity overrides, rejecting unknown levels
func ParseOverrides(raw map[string]string) (map[string]model.Severity, error) {
	out := make(map[string]model.Severity, len(raw))
	for id, level := range raw {
		sev := model.Severity(strings.ToLower(level))
		if sev.Rank() < 0 {
			return nil, fmt.Errorf("severity override for %s: unknown severity %q", id, level)
		}
		out[id] = sev
	}
	return out, nil
}
