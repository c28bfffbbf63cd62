// Package analyzer produces the per-file analysis record: line metrics for
// every file, plus structure and security findings for registered languages
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"unicode/utf8"

	"code-analyzer/src/model"
	"code-analyzer/src/service/cache"
	"code-analyzer/src/service/discovery"
	"code-analyzer/src/service/extractor"
	"code-analyzer/src/service/metrics"
	"code-analyzer/src/util"
)

// ErrUndecodable is returned for files that are not valid UTF-8 text
var ErrUndecodable = errors.New("file is not valid UTF-8 text")

// Analyzer analyzes single files. It is safe for concurrent use.
type Analyzer struct {
	registry   *Registry
	calculator *metrics.Calculator
	cache      *resultCache
}

// NewAnalyzer creates a file analyzer. store may be nil to disable caching.
func NewAnalyzer(registry *Registry, store cache.Store) *Analyzer {
	a := &Analyzer{
		registry:   registry,
		calculator: metrics.NewCalculator(),
	}
	if store != nil {
		a.cache = &resultCache{store: store}
	}
	return a
}

// Registry returns the language registry
func (a *Analyzer) Registry() *Registry {
	return a.registry
}

// AnalyzeFile reads path and builds its FileAnalysis. Paths in the result are
// relative to root. Read and decode failures are returned as errors; syntax
// and extractor failures are recorded on the returned analysis.
func (a *Analyzer) AnalyzeFile(ctx context.Context, root, path string) (*model.FileAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel := discovery.RelPath(root, path)

	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%s: %w", rel, ErrUndecodable)
	}

	text := string(data)
	ext := strings.ToLower(filepath.Ext(path))
	lang, registered := a.registry.Lookup(ext)

	langName := ""
	if registered {
		langName = lang.Name
	}

	codeMetrics := a.calculator.Compute(text, langName)
	fa := &model.FileAnalysis{
		SourceFile: model.SourceFile{
			Path:        rel,
			Language:    langName,
			Extension:   ext,
			SizeBytes:   len(data),
			LineCount:   codeMetrics.TotalLines,
			ContentHash: util.ContentHash(data),
		},
		Metrics:        codeMetrics,
		Functions:      []model.FunctionInfo{},
		Classes:        []model.ClassInfo{},
		Imports:        []string{},
		SecurityIssues: []model.SecurityFinding{},
	}

	if !registered {
		util.Debug("No extractor for %s, metrics only", rel)
		return fa, nil
	}

	fa.Strategy = string(lang.Extractor.Strategy())

	res, err := a.extract(ctx, lang, data, fa.ContentHash)
	switch {
	case err != nil && ctx.Err() != nil:
		return nil, ctx.Err()
	case err != nil:
		fa.ExtractionError = err.Error()
	case res.SyntaxError != "":
		fa.SyntaxError = res.SyntaxError
	default:
		applyResult(fa, res)
	}

	for _, finding := range lang.Scanner.Scan(text) {
		finding.FilePath = rel
		fa.SecurityIssues = append(fa.SecurityIssues, finding)
	}

	return fa, nil
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

// extract runs the language extractor through the cache. A panicking
// extractor is reported as an error.
func (a *Analyzer) extract(ctx context.Context, lang *Language, data []byte, hash string) (res *extractor.Result, err error) {
	key := cacheKey(lang.Name, hash)
	if cached, ok := a.cache.get(key); ok {
		return cached, nil
	}

	defer func() {
		if r := recover(); r != nil {
			util.Debug("%s extractor panic: %v\n%s", lang.Name, r, debug.Stack())
			res, err = nil, fmt.Errorf("%s extractor panicked: %v", lang.Name, r)
		}
	}()

	res, err = lang.Extractor.Extract(ctx, data)
	if err != nil {
		return nil, err
	}
	a.cache.put(key, res)
	return res, nil
}

// applyResult copies extracted structure onto fa, stamping the file path
func applyResult(fa *model.FileAnalysis, res *extractor.Result) {
	for _, fn := range res.Functions {
		fn.FilePath = fa.Path
		fa.Functions = append(fa.Functions, fn)
	}
	for _, cls := range res.Classes {
		cls.FilePath = fa.Path
		methods := make([]model.FunctionInfo, len(cls.Methods))
		for i, m := range cls.Methods {
			m.FilePath = fa.Path
			methods[i] = m
		}
		cls.Methods = methods
		fa.Classes = append(fa.Classes, cls)
	}
	fa.Imports = append(fa.Imports, res.Imports...)
	fa.Markup = res.Markup
}
