package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "code-analyzer.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: error\ncache:\n  enabled: false\n"), 0o644))

	h := New()
	var stdout, stderr bytes.Buffer
	h.rootCmd.SetOut(&stdout)
	h.rootCmd.SetErr(&stderr)
	h.rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := h.Execute()
	return stdout.String(), stderr.String(), err
}

func sampleTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "tool.py"), []byte("import os\n\ndef run(cmd):\n    os.system(cmd)\n"), 0o644))
	return root
}

func TestAnalyzeToStdout(t *testing.T) {
	stdout, stderr, err := runCLI(t, "analyze", sampleTree(t), "--format", "markdown", "--no-insights")
	require.NoError(t, err)

	assert.Contains(t, stdout, "# Code Analysis Report")
	assert.Contains(t, stdout, "python-os-system")
	assert.Contains(t, stderr, "Files analyzed: 1/1")
	assert.Contains(t, stderr, "Security issues: 1")
}

func TestAnalyzeWritesReports(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	_, stderr, err := runCLI(t, "analyze", sampleTree(t), "--output", outDir, "--format", "sarif", "--workers", "2")
	require.NoError(t, err)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".sarif", filepath.Ext(entries[0].Name()))
	assert.Contains(t, stderr, "Report written to")
}

func TestAnalyzeFailOn(t *testing.T) {
	root := sampleTree(t)

	_, _, err := runCLI(t, "analyze", root, "--fail-on", "high")
	require.Error(t, err)

	var threshold *ThresholdError
	require.True(t, errors.As(err, &threshold))
	assert.Equal(t, 1, threshold.Count)
	assert.Equal(t, 2, exitCode(err))

	_, _, err = runCLI(t, "analyze", root, "--fail-on", "critical")
	assert.NoError(t, err)

	_, _, err = runCLI(t, "analyze", root, "--fail-on", "severe")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
}

func TestAnalyzeMissingPath(t *testing.T) {
	_, _, err := runCLI(t, "analyze", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis failed")
}

func TestListingCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"version", []string{"version"}, []string{"code-analyzer 1.0.0"}},
		{"languages", []string{"languages"}, []string{".py", "precise", ".java", "heuristic"}},
		{"rules", []string{"rules", "python"}, []string{"python-eval", "python-yaml-load"}},
		{"detectors", []string{"detectors"}, []string{"complexity", "size_structure", "duplication"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := runCLI(t, tt.args...)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, stdout, w)
			}
		})
	}
}

func TestRulesRejectsUnknownLanguage(t *testing.T) {
	stdout, _, err := runCLI(t, "rules", "cobol")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown language "cobol"`)
	assert.Contains(t, err.Error(), "python")
	assert.Empty(t, stdout)

	stdout, _, err = runCLI(t, "rules", "Java")
	require.NoError(t, err)
	assert.Contains(t, stdout, "java")
}
