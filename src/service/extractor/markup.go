package extractor

import (
	"context"
	"regexp"

	"code-analyzer/src/model"
)

var (
	htmlTagPattern   = regexp.MustCompile(`<(\w+)(?:\s+[^>]*)?>`)
	htmlFormPattern  = regexp.MustCompile(`(?is)<form[^>]*>(.*?)</form>`)
	htmlInputPattern = regexp.MustCompile(`(?i)<input[^>]*>`)

	cssSelectorPattern = regexp.MustCompile(`([.#]?[\w-]+)\s*\{`)
	cssPropertyPattern = regexp.MustCompile(`([a-zA-Z-]+)\s*:`)
)

// HTMLExtractor records the tags and forms of an HTML document
type HTMLExtractor struct{}

// NewHTMLExtractor creates an HTML extractor
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

func (e *HTMLExtractor) Name() string {
	return "html"
}

func (e *HTMLExtractor) Strategy() Strategy {
	return StrategyHeuristic
}

func (e *HTMLExtractor) Extract(ctx context.Context, src []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := string(src)
	lines := newLineIndex(text)

	markup := &model.MarkupInfo{
		Tags: uniqueSorted(htmlTagPattern, text),
	}
	for _, loc := range htmlFormPattern.FindAllStringSubmatchIndex(text, -1) {
		body := text[loc[2]:loc[3]]
		markup.Forms = append(markup.Forms, model.HTMLForm{
			InputCount: len(htmlInputPattern.FindAllStringIndex(body, -1)),
			LineNumber: lines.line(loc[0]),
		})
	}

	res := emptyResult()
	res.Markup = markup
	return res, nil
}

// CSSExtractor records the selectors and property names of a stylesheet
type CSSExtractor struct{}

// NewCSSExtractor creates a CSS extractor
func NewCSSExtractor() *CSSExtractor {
	return &CSSExtractor{}
}

func (e *CSSExtractor) Name() string {
	return "css"
}

func (e *CSSExtractor) Strategy() Strategy {
	return StrategyHeuristic
}

func (e *CSSExtractor) Extract(ctx context.Context, src []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := string(src)
	res := emptyResult()
	res.Markup = &model.MarkupInfo{
		Selectors:  uniqueSorted(cssSelectorPattern, text),
		Properties: uniqueSorted(cssPropertyPattern, text),
	}
	return res, nil
}
