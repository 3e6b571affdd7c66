package linking

import (
	"fmt"
	"html"
	"strings"

	"github.com/temirov/codepages/internal/utils"
)

const (
	// DefaultAnchorClass is always present on generated anchors.
	DefaultAnchorClass = "code-link"

	anchorOpen            = "<a "
	sectionTagAttribute   = `section-tag="%s" `
	handlerAttributes     = `onclick="handleClick('%[1]s', '%[2]s')" onmouseover="debouncedHandleHover('%[2]s')" `
	classAttributeAndText = `class="%s">%s</a>`
)

var javaScriptStringEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)

// Anchor describes the link generated for one declared cross-reference.
type Anchor struct {
	MatchString string
	// Target is the rewritten link file, relative to the current page.
	Target     string
	SectionTag string
	CSSClass   string
}

// Markup renders the anchor element. The page script provides
// handleClick(matchString, linkFile) and debouncedHandleHover(linkFile) and
// loads the target itself, so the anchor carries no href.
func (anchor Anchor) Markup() string {
	classes := DefaultAnchorClass
	if extra := strings.TrimSpace(anchor.CSSClass); extra != "" {
		classes += " " + extra
	}
	var builder strings.Builder
	builder.WriteString(anchorOpen)
	if anchor.SectionTag != "" {
		fmt.Fprintf(&builder, sectionTagAttribute, html.EscapeString(anchor.SectionTag))
	}
	fmt.Fprintf(&builder, handlerAttributes,
		html.EscapeString(javaScriptStringEscaper.Replace(anchor.MatchString)),
		html.EscapeString(javaScriptStringEscaper.Replace(anchor.Target)),
	)
	fmt.Fprintf(&builder, classAttributeAndText, html.EscapeString(classes), html.EscapeString(anchor.MatchString))
	return builder.String()
}

// RewriteTarget maps a relative link file onto the page generated for it.
// Backslashes are normalized to forward slashes.
func RewriteTarget(linkFile string, outputExtension string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(linkFile), `\`, "/")
	return utils.ReplaceExtension(normalized, outputExtension)
}
