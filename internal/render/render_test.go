package render

import (
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/codepages/internal/diagnostics"
	"github.com/temirov/codepages/internal/document"
	"github.com/temirov/codepages/internal/highlight"
)

const defaultSyntax = "text"

// wordHighlighter wraps every whitespace separated word in its own span.
type wordHighlighter struct {
	requests []highlight.Request
	failWith error
}

func (highlighter *wordHighlighter) Highlight(request highlight.Request) (string, error) {
	highlighter.requests = append(highlighter.requests, request)
	if highlighter.failWith != nil {
		return "", highlighter.failWith
	}
	var builder strings.Builder
	if request.ShowLineNumbers {
		fmt.Fprintf(&builder, `<span class="ln" data-start="%d"></span>`, request.StartLine)
	}
	for _, word := range strings.Fields(request.Text) {
		fmt.Fprintf(&builder, `<span class="w">%s</span> `, html.EscapeString(word))
	}
	return builder.String(), nil
}

func (highlighter *wordHighlighter) IsValidLanguage(language string) bool {
	switch language {
	case "go", "python", defaultSyntax:
		return true
	default:
		return false
	}
}

type staticChecker map[string]bool

func (checker staticChecker) Exists(linkFile string) bool {
	return checker[linkFile]
}

func renderSource(t *testing.T, source string, highlighter *wordHighlighter) Page {
	t.Helper()
	parsed, err := document.Parse([]byte(source), "test.yaml")
	require.NoError(t, err)
	return Render(parsed.Document, Options{
		DefaultSyntax:   defaultSyntax,
		OutputExtension: ".html",
		Highlighter:     highlighter,
	})
}

func messages(log diagnostics.Log, severity diagnostics.Severity) []string {
	var collected []string
	for _, entry := range log.Entries() {
		if entry.Severity == severity {
			collected = append(collected, entry.Message)
		}
	}
	return collected
}

func TestRenderPageLayout(t *testing.T) {
	t.Parallel()

	page := renderSource(t, `
header:
  title: Tour <1>
  titlePrefix: "Part"
  permalink: https://example.com/tour
sections:
  - header:
      title: First
    content:
      syntaxHighlight: go
      text: "foo bar foo"
    links:
      - matchString: foo
        linkFile: other.yaml
        matchIndex: []
`, &wordHighlighter{})

	require.True(t, page.Valid)
	assert.Equal(t, StateDone, page.State)
	assert.True(t, strings.HasPrefix(page.HTML, `<div class="page">`+"\n"))
	assert.Contains(t, page.HTML, `<script type="application/json" id="page-data">{"pageTitle":"Tour \u003c1\u003e"}</script>`)
	assert.Contains(t, page.HTML, `<div class="page-header"><span class="title-prefix">Part</span><span class="title">Tour &lt;1&gt;</span><a class="permalink" href="https://example.com/tour" target="_blank" rel="noopener noreferrer">https://example.com/tour</a></div>`)
	assert.Contains(t, page.HTML, `<div class="section-header"><span class="title">First</span></div>`)
	assert.Equal(t, 2, strings.Count(page.HTML, `onclick="handleClick('foo', 'other.html')"`))
	assert.Contains(t, page.HTML, `<span class="w">bar</span>`)
	assert.Empty(t, page.Log.AtLeast(diagnostics.SeverityWarning))
}

func TestRenderRejectsMissingTitle(t *testing.T) {
	t.Parallel()

	testCases := map[string]string{
		"null_title":     "header:\n  title: null\nsections: []\n",
		"missing_header": "sections: []\n",
	}
	for name, source := range testCases {
		source := source
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			page := renderSource(t, source, &wordHighlighter{})
			assert.False(t, page.Valid)
			assert.Equal(t, StateRejected, page.State)
			assert.Empty(t, page.HTML)
			assert.Equal(t, []string{missingTitleMessage}, messages(page.Log, diagnostics.SeverityCritical))
		})
	}
}

func TestRenderExclusionIndex(t *testing.T) {
	t.Parallel()

	page := renderSource(t, `
header:
  title: T
sections:
  - content:
      text: "foo bar foo"
    links:
      - matchString: foo
        linkFile: other.yaml
        matchIndex: [-1]
`, &wordHighlighter{})

	require.True(t, page.Valid)
	assert.Equal(t, 1, strings.Count(page.HTML, "<a "))
	assert.Contains(t, page.HTML, `<span class="w">bar</span> <span class="w">foo</span>`)
}

func TestRenderDuplicateMatchString(t *testing.T) {
	t.Parallel()

	page := renderSource(t, `
header:
  title: T
sections:
  - content:
      text: "foo"
    links:
      - matchString: foo
        linkFile: first.yaml
        matchIndex: []
      - matchString: foo
        linkFile: second.yaml
        matchIndex: []
`, &wordHighlighter{})

	require.True(t, page.Valid)
	assert.Contains(t, page.HTML, "first.html")
	assert.NotContains(t, page.HTML, "second.html")
	assert.Equal(t,
		[]string{`section 0 link 1: matchString "foo" already used by link 0; link skipped`},
		messages(page.Log, diagnostics.SeverityError),
	)
}

func TestRenderZeroOccurrencesKeepsSection(t *testing.T) {
	t.Parallel()

	page := renderSource(t, `
header:
  title: T
sections:
  - content:
      text: "alpha beta"
    links:
      - matchString: gamma
        linkFile: other.yaml
        matchIndex: []
`, &wordHighlighter{})

	require.True(t, page.Valid)
	assert.Contains(t, page.HTML, `<div class="section-content"><span class="w">alpha</span> <span class="w">beta</span> </div>`)
	assert.Equal(t,
		[]string{`section 0 link 0: matchString "gamma" not found in rendered content`},
		messages(page.Log, diagnostics.SeverityError),
	)
}

func TestRenderMissingLinkFieldsAreCritical(t *testing.T) {
	t.Parallel()

	page := renderSource(t, `
header:
  title: T
sections:
  - content:
      text: "foo"
    links:
      - matchString: foo
        matchIndex: []
      - linkFile: other.yaml
        matchIndex: []
  - content:
      text: "foo"
    links:
      - matchString: foo
        linkFile: sibling.yaml
        matchIndex: []
`, &wordHighlighter{})

	require.True(t, page.Valid)
	assert.Len(t, messages(page.Log, diagnostics.SeverityCritical), 2)
	assert.Contains(t, page.HTML, "sibling.html")
}

func TestRenderLineNumbering(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name              string
		section           string
		expectLanguage    string
		expectLineNumbers bool
		expectStart       int
		expectWarnings    int
	}{
		{
			name:              "default_syntax_suppresses_line_numbers",
			section:           "content:\n      text: x\n",
			expectLanguage:    defaultSyntax,
			expectLineNumbers: false,
			expectStart:       1,
		},
		{
			name:              "explicit_default_syntax",
			section:           "content:\n      syntaxHighlight: text\n      text: x\n",
			expectLanguage:    defaultSyntax,
			expectLineNumbers: false,
			expectStart:       1,
		},
		{
			name:              "explicit_start_wins",
			section:           "header:\n      permalink: https://example.com/a.go#L40\n    content:\n      syntaxHighlight: go\n      text: x\n      lineNumberStart: 7\n",
			expectLanguage:    "go",
			expectLineNumbers: true,
			expectStart:       7,
		},
		{
			name:              "permalink_fragment",
			section:           "header:\n      permalink: https://example.com/a.go#L40\n    content:\n      syntaxHighlight: go\n      text: x\n",
			expectLanguage:    "go",
			expectLineNumbers: true,
			expectStart:       40,
		},
		{
			name:              "permalink_range_fragment",
			section:           "header:\n      permalink: https://example.com/a.py#L12-L30\n    content:\n      syntaxHighlight: python\n      text: x\n",
			expectLanguage:    "python",
			expectLineNumbers: true,
			expectStart:       12,
		},
		{
			name:              "no_fragment_starts_at_one",
			section:           "content:\n      syntaxHighlight: go\n      text: x\n",
			expectLanguage:    "go",
			expectLineNumbers: true,
			expectStart:       1,
		},
		{
			name:              "unknown_syntax_falls_back",
			section:           "content:\n      syntaxHighlight: klingon\n      text: x\n",
			expectLanguage:    defaultSyntax,
			expectLineNumbers: false,
			expectStart:       1,
			expectWarnings:    1,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			highlighter := &wordHighlighter{}
			page := renderSource(t, "header:\n  title: T\nsections:\n  - "+testCase.section, highlighter)
			require.True(t, page.Valid)
			require.Len(t, highlighter.requests, 1)
			request := highlighter.requests[0]
			assert.Equal(t, testCase.expectLanguage, request.Language)
			assert.Equal(t, testCase.expectLineNumbers, request.ShowLineNumbers)
			assert.Equal(t, testCase.expectStart, request.StartLine)
			assert.Len(t, messages(page.Log, diagnostics.SeverityWarning), testCase.expectWarnings)
		})
	}
}

func TestRenderHighlightFailureFallsBack(t *testing.T) {
	t.Parallel()

	page := renderSource(t, "header:\n  title: T\nsections:\n  - content:\n      text: \"a < b\"\n", &wordHighlighter{failWith: errors.New("boom")})
	require.True(t, page.Valid)
	assert.Contains(t, page.HTML, `<pre class="chroma">a &lt; b</pre>`)
	assert.Len(t, messages(page.Log, diagnostics.SeverityError), 1)
}

func TestRenderAdvisoryTargetCheck(t *testing.T) {
	t.Parallel()

	parsed, err := document.Parse([]byte(`
header:
  title: T
sections:
  - content:
      text: "foo bar"
    links:
      - matchString: foo
        linkFile: present.yaml
        matchIndex: []
      - matchString: bar
        linkFile: absent.yaml
        matchIndex: []
`), "test.yaml")
	require.NoError(t, err)

	page := Render(parsed.Document, Options{
		DefaultSyntax:   defaultSyntax,
		OutputExtension: ".html",
		Highlighter:     &wordHighlighter{},
		TargetChecker:   staticChecker{"present.yaml": true},
	})
	require.True(t, page.Valid)
	assert.Contains(t, page.HTML, "absent.html")
	assert.Equal(t,
		[]string{`section 0 link 1: link target "absent.yaml" does not exist`},
		messages(page.Log, diagnostics.SeverityWarning),
	)
}

func TestRenderLinksWithoutContent(t *testing.T) {
	t.Parallel()

	page := renderSource(t, `
header:
  title: T
sections:
  - header:
      title: Only header
    links:
      - matchString: foo
        linkFile: a.yaml
        matchIndex: []
`, &wordHighlighter{})
	require.True(t, page.Valid)
	assert.Contains(t, page.HTML, `<div class="section-content"></div>`)
	assert.NotContains(t, page.HTML, "a.html")
	assert.Len(t, messages(page.Log, diagnostics.SeverityWarning), 1)
}

func TestRenderEmptySectionKeepsLayout(t *testing.T) {
	t.Parallel()

	page := renderSource(t, `
header:
  title: T
sections:
  - content:
      text: body
`, &wordHighlighter{})
	require.True(t, page.Valid)
	assert.Contains(t, page.HTML, `<div class="section">`+"\n"+`<div class="section-header"></div>`+"\n"+`<div class="section-content"><span class="w">body</span> </div>`+"\n</div>\n")
}

func TestDirectoryTargetChecker(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(directory, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(directory, "nested", "page.yaml"), []byte("x"), 0o600))

	checker := DirectoryTargetChecker{BaseDirectory: directory}
	assert.True(t, checker.Exists("nested/page.yaml"))
	assert.False(t, checker.Exists("nested/missing.yaml"))
}

func TestRenderWithChroma(t *testing.T) {
	t.Parallel()

	chroma, err := highlight.NewChroma(highlight.DefaultStyleName)
	require.NoError(t, err)

	parsed, err := document.Parse([]byte(`
header:
  title: Go
sections:
  - content:
      syntaxHighlight: go
      text: |
        func helper() {}
        func main() { helper() }
    links:
      - matchString: helper
        linkFile: helper.yaml
        matchIndex: [0]
`), "go.yaml")
	require.NoError(t, err)

	page := Render(parsed.Document, Options{
		DefaultSyntax:   defaultSyntax,
		OutputExtension: ".html",
		Highlighter:     chroma,
	})
	require.True(t, page.Valid)
	assert.Equal(t, 1, strings.Count(page.HTML, `onclick="handleClick('helper', 'helper.html')"`))
	assert.Empty(t, messages(page.Log, diagnostics.SeverityError))
}
