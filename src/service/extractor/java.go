package extractor

import (
	"context"
	"regexp"
	"strings"

	"code-analyzer/src/model"
)

var (
	javaMethodPattern = regexp.MustCompile(
		`(?:public|private|protected)?\s*(?:static)?\s*(?:\w+\s+)*(\w+)\s*\([^)]*\)\s*(?:throws\s+[\w\s,.]+)?\s*\{`)
	javaClassPattern = regexp.MustCompile(
		`\b(?:(?:public|protected|private|abstract|final|static|sealed)\s+)*(?:class|interface|enum|record)\s+(\w+)` +
			`(?:\s*<[^>{]*>)?` +
			`(?:\s*\([^)]*\))?` +
			`(?:\s+extends\s+([\w.]+(?:\s*<[^>{]*>)?(?:\s*,\s*[\w.]+(?:\s*<[^>{]*>)?)*))?` +
			`(?:\s+implements\s+([\w.,\s<>]+))?`)
	javaImportPattern = regexp.MustCompile(`\bimport\s+(?:static\s+)?([\w.]+(?:\.\*)?)\s*;`)
	javaGenericArgs   = regexp.MustCompile(`<[^<>]*>`)
)

// javaNotMethods are statement keywords the method pattern also matches,
// e.g. `if (x) {`
var javaNotMethods = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"synchronized": true, "return": true, "new": true, "else": true, "try": true, "do": true,
}

// JavaExtractor recognizes Java declarations heuristically
type JavaExtractor struct{}

// NewJavaExtractor creates a Java extractor
func NewJavaExtractor() *JavaExtractor {
	return &JavaExtractor{}
}

func (e *JavaExtractor) Name() string {
	return "java"
}

func (e *JavaExtractor) Strategy() Strategy {
	return StrategyHeuristic
}

// Extract finds methods, classes with their extends/implements lists, and
// imports
func (e *JavaExtractor) Extract(ctx context.Context, src []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := string(src)
	lines := newLineIndex(text)
	res := emptyResult()

	for _, loc := range javaMethodPattern.FindAllStringSubmatchIndex(text, -1) {
		name := text[loc[2]:loc[3]]
		if javaNotMethods[name] || precededByNew(text[loc[0]:loc[2]]) {
			continue
		}
		res.Functions = append(res.Functions, heuristicFunction(name, "method", lines.line(loc[2])))
	}

	for _, loc := range javaClassPattern.FindAllStringSubmatchIndex(text, -1) {
		cls := model.ClassInfo{
			Name:        text[loc[2]:loc[3]],
			LineNumber:  lines.line(loc[2]),
			BaseClasses: []string{},
			Methods:     []model.FunctionInfo{},
		}
		if loc[4] >= 0 {
			cls.BaseClasses = append(cls.BaseClasses, splitTypes(text[loc[4]:loc[5]])...)
		}
		if loc[6] >= 0 {
			cls.Interfaces = append(cls.Interfaces, splitTypes(text[loc[6]:loc[7]])...)
		}
		res.Classes = append(res.Classes, cls)
	}

	res.Imports = uniqueInOrder(findGroups(javaImportPattern, text))
	return res, nil
}

// precededByNew reports whether the words before a method-like match end in
// "new", as in an anonymous class `new Runnable() {`
func precededByNew(prefix string) bool {
	words := strings.Fields(prefix)
	return len(words) > 0 && words[len(words)-1] == "new"
}

// splitTypes splits "A<T>, B" into ["A", "B"]
func splitTypes(s string) []string {
	for javaGenericArgs.MatchString(s) {
		s = javaGenericArgs.ReplaceAllString(s, "")
	}
	return splitList(s)
}
