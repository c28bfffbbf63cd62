package metrics

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDocstringOnlyModule(t *testing.T) {
	text := "\"\"\"doc\"\"\"\ndef f():\n    if True:\n        pass\n"

	m := NewCalculator().Compute(text, "python")

	assert.Equal(t, 4, m.TotalLines)
	assert.Equal(t, 4, m.CodeLines)
	assert.Equal(t, 0, m.CommentLines)
	assert.Equal(t, 0, m.BlankLines)
	// two `"""` delimiters over four lines
	assert.InDelta(t, 50.0, m.DocumentationCoverage, 1e-9)
	// one "if"
	assert.Equal(t, 1, m.ComplexityScore)
}

func TestComputeClassification(t *testing.T) {
	tests := []struct {
		name     string
		language string
		text     string
		code     int
		comment  int
		blank    int
	}{
		{"python hash comment", "python", "# c\nx = 1\n\n", 1, 1, 1},
		{"python does not treat // as comment", "python", "// not a comment\n", 1, 0, 0},
		{"javascript block comment lines", "javascript", "/**\n * doc\n */\nfoo();\n", 1, 3, 0},
		{"java line comment", "java", "  // note\nint x;\n", 1, 1, 0},
		{"html comment", "html", "<!-- c -->\n<p>hi</p>\n", 1, 1, 0},
		{"css block comment", "css", "/* c */\na { color: red; }\n", 1, 1, 0},
		{"unknown language uses union", "", "# a\n// b\n/* c\n* d\ne\n", 1, 4, 0},
		{"whitespace only is blank", "python", "   \n\t\nx\n", 1, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewCalculator().Compute(tt.text, tt.language)
			assert.Equal(t, tt.code, m.CodeLines, "code")
			assert.Equal(t, tt.comment, m.CommentLines, "comment")
			assert.Equal(t, tt.blank, m.BlankLines, "blank")
		})
	}
}

func TestComputeComplexityCountsRawSubstrings(t *testing.T) {
	text := "if a:\n    pass\nelif b:\n    pass\nelse:\n    for x in y:\n        try:\n            pass\n        except E:\n            pass\n"

	m := NewCalculator().Compute(text, "python")

	// if x2 (if, elif), elif, else, for, try, except
	assert.Equal(t, 7, m.ComplexityScore)
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\n\n", []string{"a", ""}},
		{"\n", []string{""}},
		{"a\r\nb\rc", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		got := SplitLines(tt.text)
		assert.Equal(t, tt.want, got, "SplitLines(%q)", tt.text)
	}
}

func TestComputeLineCategoriesSumToTotal(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pieces := []string{"x = 1", "# c", "// c", "/* c", " * c", "", "   ", "\t", "if x:", "\"\"\"", "<!-- c -->"}
	breaks := []string{"\n", "\r\n", "\r"}
	languages := []string{"python", "javascript", "java", "css", "html", ""}

	calc := NewCalculator()
	for i := 0; i < 500; i++ {
		var sb strings.Builder
		n := rng.Intn(30)
		for j := 0; j < n; j++ {
			sb.WriteString(pieces[rng.Intn(len(pieces))])
			sb.WriteString(breaks[rng.Intn(len(breaks))])
		}
		if rng.Intn(2) == 0 {
			sb.WriteString(pieces[rng.Intn(len(pieces))])
		}

		text := sb.String()
		m := calc.Compute(text, languages[rng.Intn(len(languages))])
		require.Equal(t, m.TotalLines, m.CodeLines+m.CommentLines+m.BlankLines, "text %q", text)
		require.Equal(t, len(SplitLines(text)), m.TotalLines, "text %q", text)
		require.GreaterOrEqual(t, m.ComplexityScore, 0)
	}
}
