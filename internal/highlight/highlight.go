// Package highlight turns source text into HTML markup with CSS classes.
package highlight

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyleName is used when no style is configured.
const DefaultStyleName = "github"

const (
	tokeniseErrorFormat   = "tokenise %s source: %w"
	formatErrorFormat     = "format %s source: %w"
	unknownLanguageFormat = "unknown language %q"
	unknownStyleFormat    = "unknown style %q"
	writeCSSErrorFormat   = "write stylesheet: %w"
)

// Request describes one block of source text to highlight.
type Request struct {
	Text            string
	Language        string
	StartLine       int
	ShowLineNumbers bool
}

// Highlighter produces highlighted markup for source text.
type Highlighter interface {
	Highlight(request Request) (string, error)
	IsValidLanguage(language string) bool
}

// Chroma implements Highlighter with chroma lexers and its HTML formatter.
type Chroma struct {
	style *chroma.Style
}

// NewChroma builds a highlighter using the named style.
func NewChroma(styleName string) (*Chroma, error) {
	if strings.TrimSpace(styleName) == "" {
		styleName = DefaultStyleName
	}
	style, known := styles.Registry[strings.ToLower(styleName)]
	if !known {
		return nil, fmt.Errorf(unknownStyleFormat, styleName)
	}
	return &Chroma{style: style}, nil
}

// IsValidLanguage reports whether a lexer is registered for the identifier.
func (highlighter *Chroma) IsValidLanguage(language string) bool {
	return lookupLexer(language) != nil
}

// Highlight renders request.Text. Token text is HTML escaped and every token
// is wrapped in its own element, so a token's text always sits between ">"
// and "<".
func (highlighter *Chroma) Highlight(request Request) (string, error) {
	lexer := lookupLexer(request.Language)
	if lexer == nil {
		return "", fmt.Errorf(unknownLanguageFormat, request.Language)
	}
	iterator, tokeniseError := chroma.Coalesce(lexer).Tokenise(nil, request.Text)
	if tokeniseError != nil {
		return "", fmt.Errorf(tokeniseErrorFormat, request.Language, tokeniseError)
	}
	var builder strings.Builder
	if formatError := newFormatter(request).Format(&builder, highlighter.style, iterator); formatError != nil {
		return "", fmt.Errorf(formatErrorFormat, request.Language, formatError)
	}
	return builder.String(), nil
}

// WriteCSS writes the stylesheet for the classes emitted by Highlight.
func (highlighter *Chroma) WriteCSS(writer io.Writer) error {
	formatter := newFormatter(Request{ShowLineNumbers: true})
	if cssError := formatter.WriteCSS(writer, highlighter.style); cssError != nil {
		return fmt.Errorf(writeCSSErrorFormat, cssError)
	}
	return nil
}

// StyleNames lists the available style names.
func StyleNames() []string {
	return styles.Names()
}

func newFormatter(request Request) *chromahtml.Formatter {
	startLine := request.StartLine
	if startLine < 1 {
		startLine = 1
	}
	options := []chromahtml.Option{chromahtml.WithClasses(true)}
	if request.ShowLineNumbers {
		options = append(options,
			chromahtml.WithLineNumbers(true),
			chromahtml.LineNumbersInTable(true),
			chromahtml.BaseLineNumber(startLine),
		)
	}
	return chromahtml.New(options...)
}

func lookupLexer(language string) chroma.Lexer {
	trimmed := strings.TrimSpace(language)
	if trimmed == "" {
		return nil
	}
	return lexers.Get(trimmed)
}

var _ Highlighter = (*Chroma)(nil)
