// Package render assembles highlighted, cross-linked HTML pages from documents.
package render

import (
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/temirov/codepages/internal/diagnostics"
	"github.com/temirov/codepages/internal/document"
	"github.com/temirov/codepages/internal/highlight"
	"github.com/temirov/codepages/internal/linking"
	"github.com/temirov/codepages/internal/types"
)

// State is the stage a document reached while rendering.
type State int

const (
	StateStart State = iota
	StateHeaderChecked
	StateRenderingSections
	StateDone
	StateRejected
)

const (
	defaultStartLine = 1

	missingTitleMessage       = "document header has no title; document not rendered"
	unknownSyntaxFormat       = "%s: unknown syntaxHighlight %q, using %q"
	highlightFailedFormat     = "%s: highlighting failed, emitting plain text: %v"
	linksWithoutContentFormat = "%s: %d link(s) declared without content; ignored"
	missingMatchIndexFormat   = "%s link %d: matchIndex missing; every occurrence is linked"
	missingTargetFormat       = "%s link %d: link target %q does not exist"
	noOccurrencesFormat       = "%s link %d: matchString %q not found in rendered content"
	noneSelectedFormat        = "%s link %d: matchIndex %v selects none of the %d occurrence(s) of %q"
	renderedSectionsFormat    = "rendered %d section(s)"
	plainTextFallbackFormat   = `<pre class="chroma">%s</pre>`
	titlePrefixFormat         = `<span class="title-prefix">%s</span>`
	titleFormat               = `<span class="title">%s</span>`
	permalinkFormat           = `<a class="permalink" href="%[1]s" target="_blank" rel="noopener noreferrer">%[1]s</a>`
	pageDataScriptFormat      = `<script type="application/json" id="page-data">%s</script>`
	pageOpen                  = `<div class="page">`
	pageHeaderOpen            = `<div class="page-header">`
	pageContentOpen           = `<div class="page-content">`
	sectionOpen               = `<div class="section">`
	sectionHeaderOpen         = `<div class="section-header">`
	sectionContentOpen        = `<div class="section-content">`
	divClose                  = `</div>`
	newline                   = "\n"
)

var permalinkLinePattern = regexp.MustCompile(`#L(\d+)(?:-L\d+)?$`)

// TargetChecker reports whether a link target exists.
type TargetChecker interface {
	Exists(linkFile string) bool
}

// DirectoryTargetChecker resolves link files relative to a document's directory.
type DirectoryTargetChecker struct {
	BaseDirectory string
}

// Exists stats the link file relative to BaseDirectory.
func (checker DirectoryTargetChecker) Exists(linkFile string) bool {
	candidate := filepath.FromSlash(linkFile)
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(checker.BaseDirectory, candidate)
	}
	_, statError := os.Stat(candidate)
	return statError == nil
}

// Options configures one rendering run.
type Options struct {
	// DefaultSyntax is used when a section declares no syntax or an unknown one.
	// Sections rendered with it get no line numbers.
	DefaultSyntax   string
	OutputExtension string
	Highlighter     highlight.Highlighter
	// TargetChecker is optional; nil disables the advisory existence check.
	TargetChecker TargetChecker
}

// Page is the outcome of rendering one document. HTML is empty unless Valid.
type Page struct {
	HTML  string
	Valid bool
	State State
	Log   diagnostics.Log
}

type pageData struct {
	PageTitle string `json:"pageTitle"`
}

type pageRenderer struct {
	options Options
	state   State
	log     diagnostics.Log
	output  strings.Builder
}

// Render produces the page for doc. Only a missing document title stops
// rendering; every other problem is logged and the offending link or section
// degrades.
func Render(doc types.Document, options Options) Page {
	renderer := &pageRenderer{options: options, state: StateStart}
	return renderer.render(doc)
}

func (renderer *pageRenderer) render(doc types.Document) Page {
	if doc.Header == nil || doc.Header.Title == nil {
		renderer.log.Critical(missingTitleMessage)
		renderer.state = StateRejected
		return renderer.page(false)
	}
	renderer.state = StateHeaderChecked

	sections := make([]string, 0, len(doc.Sections))
	renderer.state = StateRenderingSections
	for sectionIndex, section := range doc.Sections {
		sections = append(sections, renderer.renderSection(sectionIndex, section))
	}

	renderer.writePage(doc.Header, sections)
	renderer.log.Note(renderedSectionsFormat, len(sections))
	renderer.state = StateDone
	return renderer.page(true)
}

func (renderer *pageRenderer) page(valid bool) Page {
	page := Page{Valid: valid, State: renderer.state, Log: renderer.log}
	if valid {
		page.HTML = renderer.output.String()
	}
	return page
}

func (renderer *pageRenderer) writePage(header *types.Header, sections []string) {
	encodedData, _ := json.Marshal(pageData{PageTitle: types.StringValue(header.Title)})

	output := &renderer.output
	output.WriteString(pageOpen + newline)
	fmt.Fprintf(output, pageDataScriptFormat+newline, encodedData)
	output.WriteString(pageHeaderOpen + headerMarkup(header) + divClose + newline)
	output.WriteString(pageContentOpen + newline)
	for _, section := range sections {
		output.WriteString(section)
	}
	output.WriteString(divClose + newline)
	output.WriteString(divClose + newline)
}

func (renderer *pageRenderer) renderSection(sectionIndex int, section types.Section) string {
	location := document.SectionLocation(sectionIndex)

	var builder strings.Builder
	builder.WriteString(sectionOpen + newline)
	builder.WriteString(sectionHeaderOpen)
	if section.Header != nil {
		builder.WriteString(headerMarkup(section.Header))
	}
	builder.WriteString(divClose + newline)
	builder.WriteString(sectionContentOpen)
	if section.Content == nil {
		if len(section.Links) > 0 {
			renderer.log.Warning(linksWithoutContentFormat, location, len(section.Links))
		}
	} else {
		markup := renderer.highlightContent(location, section)
		builder.WriteString(renderer.applyLinks(location, section.Links, markup))
	}
	builder.WriteString(divClose + newline)
	builder.WriteString(divClose + newline)
	return builder.String()
}

func (renderer *pageRenderer) highlightContent(location string, section types.Section) string {
	content := section.Content
	language := renderer.effectiveSyntax(location, content.SyntaxHighlight)
	request := highlight.Request{
		Text:            types.StringValue(content.Text),
		Language:        language,
		StartLine:       startLine(section),
		ShowLineNumbers: language != renderer.options.DefaultSyntax,
	}
	markup, highlightError := renderer.options.Highlighter.Highlight(request)
	if highlightError != nil {
		renderer.log.Error(highlightFailedFormat, location, highlightError)
		return fmt.Sprintf(plainTextFallbackFormat, html.EscapeString(request.Text))
	}
	return markup
}

func (renderer *pageRenderer) effectiveSyntax(location string, declared *string) string {
	if declared == nil {
		return renderer.options.DefaultSyntax
	}
	candidate := strings.TrimSpace(*declared)
	if candidate == renderer.options.DefaultSyntax {
		return candidate
	}
	if candidate == "" || !renderer.options.Highlighter.IsValidLanguage(candidate) {
		renderer.log.Warning(unknownSyntaxFormat, location, *declared, renderer.options.DefaultSyntax)
		return renderer.options.DefaultSyntax
	}
	return candidate
}

func (renderer *pageRenderer) applyLinks(location string, links []types.Link, markup string) string {
	validator := document.NewLinkValidator(location)
	for linkIndex, link := range links {
		if !validator.Validate(linkIndex, link, &renderer.log) {
			continue
		}
		matchString := *link.MatchString
		linkFile := *link.LinkFile
		if link.MatchIndex == nil {
			renderer.log.Warning(missingMatchIndexFormat, location, linkIndex)
		}
		if renderer.options.TargetChecker != nil && !renderer.options.TargetChecker.Exists(linkFile) {
			renderer.log.Warning(missingTargetFormat, location, linkIndex, linkFile)
		}
		anchor := linking.Anchor{
			MatchString: matchString,
			Target:      linking.RewriteTarget(linkFile, renderer.options.OutputExtension),
			SectionTag:  types.StringValue(link.SectionTag),
			CSSClass:    types.StringValue(link.CSSClass),
		}
		spliced, occurrences := linking.Splice(markup, matchString, link.MatchIndex, anchor.Markup())
		if occurrences == 0 {
			renderer.log.Error(noOccurrencesFormat, location, linkIndex, matchString)
			continue
		}
		if countSelected(occurrences, link.MatchIndex) == 0 {
			renderer.log.Warning(noneSelectedFormat, location, linkIndex, link.MatchIndex, occurrences, matchString)
		}
		markup = spliced
	}
	return markup
}

func countSelected(occurrences int, matchIndex []int) int {
	selected := 0
	for occurrence := 0; occurrence < occurrences; occurrence++ {
		if linking.Selects(occurrence, matchIndex) {
			selected++
		}
	}
	return selected
}

// startLine prefers an explicit lineNumberStart, then a trailing #L<N>
// fragment of the section permalink, then 1.
func startLine(section types.Section) int {
	if section.Content != nil && section.Content.LineNumberStart != nil {
		return *section.Content.LineNumberStart
	}
	if section.Header != nil && section.Header.Permalink != nil {
		if line, found := permalinkLine(*section.Header.Permalink); found {
			return line
		}
	}
	return defaultStartLine
}

func permalinkLine(permalink string) (int, bool) {
	submatches := permalinkLinePattern.FindStringSubmatch(strings.TrimSpace(permalink))
	if submatches == nil {
		return 0, false
	}
	line, conversionError := strconv.Atoi(submatches[1])
	if conversionError != nil {
		return 0, false
	}
	return line, true
}

func headerMarkup(header *types.Header) string {
	var builder strings.Builder
	if header.TitlePrefix != nil {
		fmt.Fprintf(&builder, titlePrefixFormat, html.EscapeString(*header.TitlePrefix))
	}
	if header.Title != nil {
		fmt.Fprintf(&builder, titleFormat, html.EscapeString(*header.Title))
	}
	if header.Permalink != nil {
		fmt.Fprintf(&builder, permalinkFormat, html.EscapeString(*header.Permalink))
	}
	return builder.String()
}
