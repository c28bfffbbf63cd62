package security

import "code-analyzer/src/model"

// Rule is a single dangerous-construct pattern for one language family
type Rule struct {
	ID       string         `json:"id"`
	Language string         `json:"language"`
	Pattern  string         `json:"pattern"`
	Severity model.Severity `json:"severity"`
	Issue    string         `json:"issue"`
}

var pythonRules = []Rule{
	{ID: "python-eval", Pattern: `eval\s*\(`, Severity: model.SeverityHigh, Issue: "Use of eval() function"},
	{ID: "python-exec", Pattern: `exec\s*\(`, Severity: model.SeverityHigh, Issue: "Use of exec() function"},
	{ID: "python-shell-true", Pattern: `shell=True`, Severity: model.SeverityMedium, Issue: "Shell injection risk"},
	{ID: "python-pickle", Pattern: `pickle\.loads?\s*\(`, Severity: model.SeverityMedium, Issue: "Unsafe pickle usage"},
	{ID: "python-subprocess-call", Pattern: `subprocess\.call`, Severity: model.SeverityLow, Issue: "Subprocess usage without validation"},
	{ID: "python-os-system", Pattern: `os\.system\s*\(`, Severity: model.SeverityHigh, Issue: "Shell command execution via os.system"},
	{ID: "python-yaml-load", Pattern: `yaml\.load\s*\(`, Severity: model.SeverityMedium, Issue: "Unsafe YAML deserialization"},
}

var javascriptRules = []Rule{
	{ID: "js-eval", Pattern: `eval\s*\(`, Severity: model.SeverityHigh, Issue: "Use of eval()"},
	{ID: "js-inner-html", Pattern: `innerHTML\s*=`, Severity: model.SeverityMedium, Issue: "Potential XSS vulnerability"},
	{ID: "js-document-write", Pattern: `document\.write`, Severity: model.SeverityMedium, Issue: "Potential XSS vulnerability"},
	{ID: "js-string-timeout", Pattern: `setTimeout\s*\(\s*["']`, Severity: model.SeverityLow, Issue: "String in setTimeout"},
	{ID: "js-function-constructor", Pattern: `new\s+Function\s*\(`, Severity: model.SeverityHigh, Issue: "Dynamic code via Function constructor"},
}

var javaRules = []Rule{
	{ID: "java-runtime-exec", Pattern: `Runtime\.getRuntime\(\)\.exec`, Severity: model.SeverityHigh, Issue: "Command execution"},
	{ID: "java-reflection", Pattern: `Class\.forName\s*\(`, Severity: model.SeverityMedium, Issue: "Reflection usage"},
	{ID: "java-system-property", Pattern: `System\.getProperty`, Severity: model.SeverityLow, Issue: "System property access"},
	{ID: "java-object-input-stream", Pattern: `ObjectInputStream`, Severity: model.SeverityMedium, Issue: "Java deserialization"},
}

var htmlRules = []Rule{
	{ID: "html-javascript-url", Pattern: `javascript:`, Severity: model.SeverityHigh, Issue: "JavaScript protocol"},
	{ID: "html-script-tag", Pattern: `<script[^>]*>`, Severity: model.SeverityMedium, Issue: "Script tag usage"},
	{ID: "html-onclick", Pattern: `onclick\s*=`, Severity: model.SeverityLow, Issue: "Inline event handler"},
	{ID: "html-inline-handler", Pattern: `on(load|error|mouseover)\s*=`, Severity: model.SeverityLow, Issue: "Inline event handler"},
}

// builtinRules maps language family to its rule table. Table order is the
// order findings are reported in.
var builtinRules = map[string][]Rule{
	"python":     pythonRules,
	"javascript": javascriptRules,
	"typescript": javascriptRules,
	"java":       javaRules,
	"html":       htmlRules,
	"css":        nil,
}

// RulesFor returns a copy of the rule table for language, with Language set
func RulesFor(language string) []Rule {
	table := builtinRules[language]
	out := make([]Rule, len(table))
	for i, r := range table {
		r.Language = language
		out[i] = r
	}
	return out
}

// Languages returns the language families that have a rule table
func Languages() []string {
	return []string{"python", "javascript", "typescript", "java", "html", "css"}
}
