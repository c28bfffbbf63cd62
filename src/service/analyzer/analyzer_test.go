package analyzer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code-analyzer/src/model"
	"code-analyzer/src/service/cache"
	"code-analyzer/src/service/extractor"
	"code-analyzer/src/service/security"
)

func newTestAnalyzer(t *testing.T, store cache.Store) *Analyzer {
	t.Helper()
	reg, err := NewRegistry(nil)
	require.NoError(t, err)
	return NewAnalyzer(reg, store)
}

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestAnalyzePythonFile(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "pkg/mod.py", []byte("import os\n\ndef run(cmd):\n    \"\"\"Run it.\"\"\"\n    if cmd:\n        os.system(cmd)\n"))

	fa, err := newTestAnalyzer(t, nil).AnalyzeFile(context.Background(), root, path)
	require.NoError(t, err)

	assert.Equal(t, "pkg/mod.py", fa.Path)
	assert.Equal(t, ".py", fa.Extension)
	assert.Equal(t, "python", fa.Language)
	assert.Equal(t, "precise", fa.Strategy)
	assert.Equal(t, 6, fa.LineCount)
	assert.Equal(t, 6, fa.Metrics.TotalLines)
	assert.Len(t, fa.ContentHash, 16)
	assert.Equal(t, []string{"os"}, fa.Imports)

	require.Len(t, fa.Functions, 1)
	assert.Equal(t, "run", fa.Functions[0].Name)
	assert.Equal(t, "pkg/mod.py", fa.Functions[0].FilePath)
	assert.Equal(t, 2, fa.Functions[0].Complexity)
	assert.True(t, fa.Functions[0].HasDocstring)

	require.Len(t, fa.SecurityIssues, 1)
	assert.Equal(t, "python-os-system", fa.SecurityIssues[0].RuleID)
	assert.Equal(t, "pkg/mod.py", fa.SecurityIssues[0].FilePath)
	assert.Equal(t, 6, fa.SecurityIssues[0].Line)
	assert.False(t, fa.Failed())
}

func TestAnalyzeSyntaxErrorKeepsMetrics(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "bad.py", []byte("def broken(:\n    eval(x)\n"))

	fa, err := newTestAnalyzer(t, nil).AnalyzeFile(context.Background(), root, path)
	require.NoError(t, err)

	assert.NotEmpty(t, fa.SyntaxError)
	assert.True(t, fa.Failed())
	assert.Empty(t, fa.Functions)
	assert.Empty(t, fa.Classes)
	assert.Empty(t, fa.Imports)
	assert.Equal(t, 2, fa.Metrics.TotalLines)
	// text-level rules still run
	require.Len(t, fa.SecurityIssues, 1)
	assert.Equal(t, "python-eval", fa.SecurityIssues[0].RuleID)
}

func TestAnalyzeUnregisteredExtensionGetsMetricsOnly(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "main.go", []byte("package main\n\n// eval(\nfunc main() {}\n"))

	fa, err := newTestAnalyzer(t, nil).AnalyzeFile(context.Background(), root, path)
	require.NoError(t, err)

	assert.Equal(t, ".go", fa.Extension)
	assert.Empty(t, fa.Language)
	assert.Empty(t, fa.Strategy)
	assert.Equal(t, 4, fa.Metrics.TotalLines)
	assert.Equal(t, 1, fa.Metrics.BlankLines)
	assert.Equal(t, 1, fa.Metrics.CommentLines)
	assert.Empty(t, fa.Functions)
	assert.Empty(t, fa.SecurityIssues)
	assert.NotNil(t, fa.SecurityIssues)
}

func TestAnalyzeUndecodableFile(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "bin.py", []byte{0xff, 0xfe, 0x00, 'x'})

	fa, err := newTestAnalyzer(t, nil).AnalyzeFile(context.Background(), root, path)
	assert.Nil(t, fa)
	assert.ErrorIs(t, err, ErrUndecodable)
}

func TestAnalyzeMissingFile(t *testing.T) {
	root := t.TempDir()

	_, err := newTestAnalyzer(t, nil).AnalyzeFile(context.Background(), root, filepath.Join(root, "gone.py"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "a.py", []byte("class A(B):\n    \"\"\"Doc.\"\"\"\n    def m(self, x):\n        for i in x:\n            pass\n"))

	a := newTestAnalyzer(t, nil)
	first, err := a.AnalyzeFile(context.Background(), root, path)
	require.NoError(t, err)
	second, err := a.AnalyzeFile(context.Background(), root, path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyzeCacheHitMatchesFreshAnalysis(t *testing.T) {
	root := t.TempDir()
	src := []byte("from x import y\n\n@deco\ndef f(a, b=1):\n    \"\"\"Doc.\"\"\"\n    while a:\n        pass\n\nclass K(Base):\n    def m(self):\n        pass\n")
	pathA := writeFile(t, root, "a.py", src)
	pathB := writeFile(t, root, "copy/b.py", src)

	store := cache.NewMemoryStore(0)
	cached := newTestAnalyzer(t, store)

	fresh, err := newTestAnalyzer(t, nil).AnalyzeFile(context.Background(), root, pathB)
	require.NoError(t, err)

	_, err = cached.AnalyzeFile(context.Background(), root, pathA)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	// identical content under another path is served from the cache
	hit, err := cached.AnalyzeFile(context.Background(), root, pathB)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, fresh, hit)
	assert.Equal(t, "copy/b.py", hit.Functions[0].FilePath)
	assert.Equal(t, "copy/b.py", hit.Classes[0].Methods[0].FilePath)
}

type panickingExtractor struct{}

func (panickingExtractor) Name() string                { return "python" }
func (panickingExtractor) Strategy() extractor.Strategy { return extractor.StrategyPrecise }
func (panickingExtractor) Extract(context.Context, []byte) (*extractor.Result, error) {
	panic("boom")
}

func TestAnalyzeRecoversExtractorPanic(t *testing.T) {
	scanner, err := security.NewScanner("python", nil)
	require.NoError(t, err)
	reg := &Registry{byExt: map[string]*Language{
		".py": {Name: "python", Extractor: panickingExtractor{}, Scanner: scanner},
	}}

	root := t.TempDir()
	path := writeFile(t, root, "p.py", []byte("x = 1\n"))

	fa, err := NewAnalyzer(reg, cache.NewMemoryStore(0)).AnalyzeFile(context.Background(), root, path)
	require.NoError(t, err)
	assert.Contains(t, fa.ExtractionError, "boom")
	assert.True(t, fa.Failed())
	assert.Equal(t, 1, fa.Metrics.TotalLines)
	assert.Empty(t, fa.Functions)
}

func TestAnalyzeHonorsCancellation(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "a.py", []byte("x = 1\n"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestAnalyzer(t, nil).AnalyzeFile(ctx, root, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegistry(t *testing.T) {
	reg, err := NewRegistry(map[string]model.Severity{"js-eval": model.SeverityCritical})
	require.NoError(t, err)

	assert.Equal(t, []string{".css", ".html", ".java", ".js", ".py", ".ts"}, reg.Extensions())

	ts, ok := reg.Lookup(".TS")
	require.True(t, ok)
	assert.Equal(t, "typescript", ts.Name)
	findings := ts.Scanner.Scan("eval(x)")
	require.Len(t, findings, 1)
	assert.Equal(t, model.SeverityCritical, findings[0].Severity)

	_, ok = reg.Lookup(".rb")
	assert.False(t, ok)
}

func TestParseOverrides(t *testing.T) {
	got, err := ParseOverrides(map[string]string{"python-eval": "CRITICAL"})
	require.NoError(t, err)
	assert.Equal(t, map[string]model.Severity{"python-eval": model.SeverityCritical}, got)

	_, err = ParseOverrides(map[string]string{"python-eval": "severe"})
	assert.Error(t, err)
}
