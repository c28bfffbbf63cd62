package extractor

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"code-analyzer/src/model"
)

// pyBranchNodes add one to the complexity of every enclosing function
var pyBranchNodes = map[string]bool{
	"if_statement":    true,
	"elif_clause":     true,
	"for_statement":   true,
	"while_statement": true,
	"try_statement":   true,
}

// PythonExtractor extracts Python declarations from a tree-sitter parse tree
type PythonExtractor struct {
	lang *sitter.Language
}

// NewPythonExtractor creates a Python extractor
func NewPythonExtractor() *PythonExtractor {
	return &PythonExtractor{lang: python.GetLanguage()}
}

// Name returns the language family name
func (e *PythonExtractor) Name() string {
	return "python"
}

// Strategy returns StrategyPrecise
func (e *PythonExtractor) Strategy() Strategy {
	return StrategyPrecise
}

// Extract parses src and walks the tree. Parsers are not safe for
// concurrent use, so each call gets its own.
func (e *PythonExtractor) Extract(ctx context.Context, src []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(e.lang)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing python source: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		res := emptyResult()
		res.SyntaxError = describeSyntaxError(root)
		return res, nil
	}
	if n := firstLegacyStatement(root, src); n != nil {
		res := emptyResult()
		res.SyntaxError = fmt.Sprintf("invalid syntax: Python 2 %s statement at line %d", n.Child(0).Type(), n.StartPoint().Row+1)
		return res, nil
	}

	w := &pyWalker{
		src:      src,
		methodOf: make(map[uint32]int),
		result:   emptyResult(),
	}
	w.walk(root)
	w.attachMethods()

	return w.result, nil
}

// describeSyntaxError locates the first ERROR or MISSING node
func describeSyntaxError(root *sitter.Node) string {
	if n := firstErrorNode(root); n != nil {
		p := n.StartPoint()
		if n.IsMissing() {
			return fmt.Sprintf("invalid syntax: missing %s at line %d", n.Type(), p.Row+1)
		}
		return fmt.Sprintf("invalid syntax at line %d, column %d", p.Row+1, p.Column+1)
	}
	return "invalid syntax"
}

// firstLegacyStatement finds a Python 2 `print x` or `exec code` statement.
// The grammar still accepts both, but they do not parse as Python 3.
// `print (x)` and `print >>f, x` are valid Python 3 expressions and pass.
func firstLegacyStatement(n *sitter.Node, src []byte) *sitter.Node {
	switch n.Type() {
	case "exec_statement":
		return n
	case "print_statement":
		rest := strings.TrimSpace(string(src[n.StartByte()+uint32(len("print")) : n.EndByte()]))
		if !strings.HasPrefix(rest, "(") && !strings.HasPrefix(rest, ">>") {
			return n
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child != nil {
			if found := firstLegacyStatement(child, src); found != nil {
				return found
			}
		}
	}
	return nil
}

func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || (!child.HasError() && !child.IsMissing()) {
			continue
		}
		if found := firstErrorNode(child); found != nil {
			return found
		}
	}
	return nil
}

// pyWalker collects declarations in document order. stack holds the indexes
// of the functions whose bodies are currently open.
type pyWalker struct {
	src          []byte
	result       *Result
	stack        []int
	methodOf     map[uint32]int // def start byte -> owning class index
	classMethods [][]int
}

func (w *pyWalker) walk(n *sitter.Node) {
	switch n.Type() {
	case "function_definition":
		w.enterFunction(n, nil)
		return
	case "decorated_definition":
		w.walkDecorated(n)
		return
	case "class_definition":
		w.enterClass(n)
		return
	case "import_statement":
		w.collectImport(n)
	case "import_from_statement":
		w.collectFromImport(n)
	case "future_import_statement":
		w.collectFutureImport(n)
	}

	if pyBranchNodes[n.Type()] {
		for _, idx := range w.stack {
			w.result.Functions[idx].Complexity++
		}
	}

	w.walkChildren(n)
}

func (w *pyWalker) walkChildren(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child != nil {
			w.walk(child)
		}
	}
}

func (w *pyWalker) walkDecorated(n *sitter.Node) {
	var decorators []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child != nil && child.Type() == "decorator" {
			if name := w.decoratorName(child); name != "" {
				decorators = append(decorators, name)
			}
		}
	}

	def := n.ChildByFieldName("definition")
	if def == nil {
		return
	}
	switch def.Type() {
	case "function_definition":
		w.enterFunction(def, decorators)
	case "class_definition":
		w.enterClass(def)
	default:
		w.walk(def)
	}
}

func (w *pyWalker) enterFunction(n *sitter.Node, decorators []string) {
	idx := len(w.result.Functions)
	w.result.Functions = append(w.result.Functions, w.functionInfo(n, decorators))
	if classIdx, ok := w.methodOf[n.StartByte()]; ok {
		w.classMethods[classIdx] = append(w.classMethods[classIdx], idx)
	}

	w.stack = append(w.stack, idx)
	if body := n.ChildByFieldName("body"); body != nil {
		w.walk(body)
	}
	w.stack = w.stack[:len(w.stack)-1]
}

func (w *pyWalker) functionInfo(n *sitter.Node, decorators []string) model.FunctionInfo {
	start, end := nodeLines(n)
	fn := model.FunctionInfo{
		Name:       w.text(n.ChildByFieldName("name")),
		Kind:       "function",
		LineNumber: start,
		EndLine:    end,
		LineCount:  end - start + 1,
		Parameters: w.parameters(n.ChildByFieldName("parameters")),
		Complexity: 1,
		Decorators: decorators,
	}
	if _, ok := w.methodOf[n.StartByte()]; ok {
		fn.Kind = "method"
	}
	if doc := w.docstring(n.ChildByFieldName("body")); doc != nil {
		fn.Docstring = doc
		fn.HasDocstring = true
	}
	return fn
}

func (w *pyWalker) enterClass(n *sitter.Node) {
	start, _ := nodeLines(n)
	cls := model.ClassInfo{
		Name:        w.text(n.ChildByFieldName("name")),
		LineNumber:  start,
		BaseClasses: w.bases(n.ChildByFieldName("superclasses")),
		Methods:     []model.FunctionInfo{},
	}
	if cls.BaseClasses == nil {
		cls.BaseClasses = []string{}
	}

	body := n.ChildByFieldName("body")
	if doc := w.docstring(body); doc != nil {
		cls.Docstring = doc
		cls.HasDocstring = true
	}

	classIdx := len(w.result.Classes)
	w.result.Classes = append(w.result.Classes, cls)
	w.classMethods = append(w.classMethods, nil)

	if body == nil {
		return
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(i)
		if stmt == nil {
			continue
		}
		if stmt.Type() == "decorated_definition" {
			stmt = stmt.ChildByFieldName("definition")
		}
		if stmt != nil && stmt.Type() == "function_definition" {
			w.methodOf[stmt.StartByte()] = classIdx
		}
	}
	w.walk(body)
}

// attachMethods copies finished method records into their classes
func (w *pyWalker) attachMethods() {
	for classIdx, idxs := range w.classMethods {
		for _, idx := range idxs {
			w.result.Classes[classIdx].Methods = append(w.result.Classes[classIdx].Methods, w.result.Functions[idx])
		}
	}
}

// parameters returns the regular parameter names. Parameters before "/"
// are positional-only and collection stops at "*", *args or **kwargs.
func (w *pyWalker) parameters(params *sitter.Node) []string {
	if params == nil {
		return nil
	}
	var names []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		if p == nil {
			continue
		}
		switch p.Type() {
		case "identifier":
			names = append(names, w.text(p))
		case "default_parameter", "typed_default_parameter":
			if name := p.ChildByFieldName("name"); name != nil {
				names = append(names, w.text(name))
			}
		case "typed_parameter":
			first := p.NamedChild(0)
			if first == nil || first.Type() != "identifier" {
				return names
			}
			names = append(names, w.text(first))
		case "positional_separator":
			names = nil
		case "list_splat_pattern", "dictionary_splat_pattern", "keyword_separator":
			return names
		}
	}
	return names
}

// docstring returns the cleaned first statement of body when it is a lone
// string literal
func (w *pyWalker) docstring(body *sitter.Node) *string {
	if body == nil {
		return nil
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(i)
		if stmt == nil || stmt.Type() == "comment" {
			continue
		}
		if stmt.Type() != "expression_statement" || stmt.NamedChildCount() != 1 {
			return nil
		}
		lit := stmt.NamedChild(0)
		var raw []string
		switch lit.Type() {
		case "string":
			raw = []string{w.text(lit)}
		case "concatenated_string":
			for j := 0; j < int(lit.NamedChildCount()); j++ {
				if part := lit.NamedChild(j); part != nil && part.Type() == "string" {
					raw = append(raw, w.text(part))
				}
			}
		default:
			return nil
		}

		var sb strings.Builder
		for _, r := range raw {
			body, ok := stringBody(r)
			if !ok {
				return nil
			}
			sb.WriteString(body)
		}
		doc := cleanDoc(sb.String())
		return &doc
	}
	return nil
}

// stringBody strips the prefix and quotes of a Python string literal.
// Byte and f-strings are not docstrings.
func stringBody(lit string) (string, bool) {
	i := strings.IndexAny(lit, `"'`)
	if i < 0 {
		return "", false
	}
	if strings.ContainsAny(strings.ToLower(lit[:i]), "bf") {
		return "", false
	}
	rest := lit[i:]
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(rest, q) && strings.HasSuffix(rest, q) && len(rest) >= 2*len(q) {
			return rest[len(q) : len(rest)-len(q)], true
		}
	}
	return "", false
}

// cleanDoc normalizes docstring indentation the way Python's
// inspect.cleandoc does
func cleanDoc(doc string) string {
	lines := strings.Split(strings.ReplaceAll(doc, "\t", "        "), "\n")

	margin := -1
	for _, line := range lines[1:] {
		content := strings.TrimLeft(line, " ")
		if content == "" {
			continue
		}
		if indent := len(line) - len(content); margin < 0 || indent < margin {
			margin = indent
		}
	}

	lines[0] = strings.TrimLeft(lines[0], " ")
	if margin > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= margin {
				lines[i] = lines[i][margin:]
			} else {
				lines[i] = ""
			}
		}
	}

	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	return strings.Join(lines, "\n")
}

func (w *pyWalker) decoratorName(dec *sitter.Node) string {
	expr := dec.NamedChild(0)
	if expr == nil {
		return ""
	}
	if expr.Type() == "call" {
		if fn := expr.ChildByFieldName("function"); fn != nil {
			expr = fn
		}
	}
	return compact(w.text(expr))
}

// bases returns identifier and dotted base classes; keyword arguments such
// as metaclass= are skipped
func (w *pyWalker) bases(args *sitter.Node) []string {
	if args == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		if arg == nil {
			continue
		}
		switch arg.Type() {
		case "identifier", "attribute":
			out = append(out, compact(w.text(arg)))
		}
	}
	return out
}

// collectImport handles `import a.b, c as d`
func (w *pyWalker) collectImport(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if name := w.importedName(n.NamedChild(i)); name != "" {
			w.result.Imports = append(w.result.Imports, name)
		}
	}
}

// collectFromImport handles `from m import x, y as z` and `from . import *`.
// Relative dots are dropped, so `from ..pkg import x` yields "pkg.x".
func (w *pyWalker) collectFromImport(n *sitter.Node) {
	module := n.ChildByFieldName("module_name")
	moduleName := ""
	if module != nil {
		moduleName = strings.TrimLeft(compact(w.text(module)), ".")
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil || (module != nil && child.StartByte() == module.StartByte()) {
			continue
		}
		name := ""
		if child.Type() == "wildcard_import" {
			name = "*"
		} else {
			name = w.importedName(child)
		}
		if name != "" {
			w.result.Imports = append(w.result.Imports, moduleName+"."+name)
		}
	}
}

// collectFutureImport handles `from __future__ import x`, which the grammar
// keeps apart from other from-imports
func (w *pyWalker) collectFutureImport(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if name := w.importedName(n.NamedChild(i)); name != "" {
			w.result.Imports = append(w.result.Imports, "__future__."+name)
		}
	}
}

func (w *pyWalker) importedName(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case "dotted_name":
		return compact(w.text(n))
	case "aliased_import":
		return compact(w.text(n.ChildByFieldName("name")))
	}
	return ""
}

func (w *pyWalker) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(w.src)
}

// nodeLines returns the 1-based first and last line of n. A node that ends
// at column 0 finished on the previous line.
func nodeLines(n *sitter.Node) (int, int) {
	start, end := n.StartPoint(), n.EndPoint()
	last := int(end.Row) + 1
	if end.Column == 0 && end.Row > start.Row {
		last = int(end.Row)
	}
	return int(start.Row) + 1, last
}

// compact removes all whitespace, e.g. "a . b" -> "a.b"
func compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}
