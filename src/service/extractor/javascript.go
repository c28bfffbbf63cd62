package extractor

import (
	"context"
	"regexp"

	"code-analyzer/src/model"
)

var (
	jsFunctionPattern = regexp.MustCompile(
		`function\s+(\w+)\s*\(` +
			`|(\w+)\s*:\s*function\b` +
			`|const\s+(\w+)\s*=\s*(?:async\s+)?function\b` +
			`|(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s+)?(?:\([^)]*\)|\w+)\s*=>`)
	jsClassPattern  = regexp.MustCompile(`\bclass\s+(\w+)(?:\s+extends\s+([\w.]+))?`)
	jsImportPattern = regexp.MustCompile(
		`import\s+[^'";]+?\s+from\s+['"]([^'"]+)['"]` +
			`|import\s+['"]([^'"]+)['"]` +
			`|require\s*\(\s*['"]([^'"]+)['"]\s*\)`)
)

// JavaScriptExtractor recognizes JavaScript and TypeScript declarations
// heuristically
type JavaScriptExtractor struct {
	name string
}

// NewJavaScriptExtractor creates an extractor reporting the given family name
func NewJavaScriptExtractor(name string) *JavaScriptExtractor {
	return &JavaScriptExtractor{name: name}
}

func (e *JavaScriptExtractor) Name() string {
	return e.name
}

func (e *JavaScriptExtractor) Strategy() Strategy {
	return StrategyHeuristic
}

// Extract finds function declarations, object-literal methods, function
// expressions and arrow functions bound to a name, plus classes and module
// imports
func (e *JavaScriptExtractor) Extract(ctx context.Context, src []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := string(src)
	lines := newLineIndex(text)
	res := emptyResult()

	for _, m := range findGroups(jsFunctionPattern, text) {
		res.Functions = append(res.Functions, heuristicFunction(m.value, "function", lines.line(m.offset)))
	}

	for _, loc := range jsClassPattern.FindAllStringSubmatchIndex(text, -1) {
		cls := model.ClassInfo{
			Name:        text[loc[2]:loc[3]],
			LineNumber:  lines.line(loc[2]),
			BaseClasses: []string{},
			Methods:     []model.FunctionInfo{},
		}
		if loc[4] >= 0 {
			cls.BaseClasses = append(cls.BaseClasses, text[loc[4]:loc[5]])
		}
		res.Classes = append(res.Classes, cls)
	}

	res.Imports = uniqueInOrder(findGroups(jsImportPattern, text))
	return res, nil
}
