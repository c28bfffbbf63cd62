package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"code-analyzer/src/config"
)

func TestExclusionMatcher(t *testing.T) {
	m := NewExclusionMatcher(config.ExclusionsConfig{
		FilePatterns:     []string{"**/tests/**", "generated/*.py", "[invalid"},
		Files:            []string{"src/legacy.js"},
		ClassPatterns:    []string{"^Test", "Mock$", "("},
		FunctionPatterns: []string{"^test_"},
		Languages:        []string{"css"},
	})

	tests := []struct {
		name      string
		path      string
		className string
		funcName  string
		want      bool
	}{
		{"nested tests dir", "pkg/tests/test_a.py", "", "", true},
		{"top-level tests dir", "tests/a.py", "", "", true},
		{"single-star glob", "generated/models.py", "", "", true},
		{"single star does not cross dirs", "generated/sub/models.py", "", "", false},
		{"exact file", "src/legacy.js", "", "", true},
		{"class prefix", "src/a.py", "TestParser", "", true},
		{"class suffix", "src/a.py", "ClientMock", "", true},
		{"function prefix", "src/a.py", "", "test_parse", true},
		{"plain entity", "src/a.py", "Parser", "parse", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Matches(tt.path, tt.className, tt.funcName))
		})
	}

	assert.True(t, m.MatchesLanguage("css"))
	assert.False(t, m.MatchesLanguage("python"))
}

func TestContentHash(t *testing.T) {
	a := ContentHash([]byte("print('hello')\n"))
	b := ContentHash([]byte("print('hello')\n"))
	c := ContentHash([]byte("print('bye')\n"))

	assert.Len(t, a, 16)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, ContentHash(nil), 16)
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithOutput(config.LoggingConfig{Level: "warn"}, &buf)

	l.Debug("hidden %d", 1)
	l.Info("hidden too")
	l.Warn("visible %s", "warning")
	l.Error("visible error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] visible warning")
	assert.Contains(t, out, "[ERROR] visible error")
	assert.Equal(t, "warn", l.GetLevel())
}
