// Package types defines the document model shared by the loader, the
// renderer and the build pipeline.
package types

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	linkNotMappingFormat = "link is not a mapping (line %d)"
	linkFieldTypeFormat  = "%s has the wrong type (line %d)"
)

const (
	CommandBuild    = "build"
	CommandValidate = "validate"
	CommandRender   = "render"

	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatXML  = "xml"
)

// Header is the title block of a document or a section. Pointers keep an
// explicit null distinguishable from a value.
type Header struct {
	Title       *string `yaml:"title"`
	TitlePrefix *string `yaml:"titlePrefix"`
	Permalink   *string `yaml:"permalink"`
}

// Content is the source text of a section.
type Content struct {
	SyntaxHighlight *string `yaml:"syntaxHighlight"`
	Text            *string `yaml:"text"`
	LineNumberStart *int    `yaml:"lineNumberStart"`
}

// Link declares a cross-reference spliced into a section's rendered text.
type Link struct {
	MatchString *string `yaml:"matchString"`
	LinkFile    *string `yaml:"linkFile"`
	MatchIndex  []int   `yaml:"matchIndex"`
	SectionTag  *string `yaml:"sectionTag"`
	CSSClass    *string `yaml:"cssClass"`
	// DecodeProblems lists fields that could not be decoded. A link with
	// problems is never rendered.
	DecodeProblems []string `yaml:"-"`
}

// UnmarshalYAML decodes each field on its own so a mistyped field spoils only
// this link instead of the whole document.
func (link *Link) UnmarshalYAML(node *yaml.Node) error {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		link.DecodeProblems = append(link.DecodeProblems, fmt.Sprintf(linkNotMappingFormat, node.Line))
		return nil
	}
	for index := 0; index+1 < len(node.Content); index += 2 {
		key, value := node.Content[index], node.Content[index+1]
		var target any
		switch key.Value {
		case "matchString":
			target = &link.MatchString
		case "linkFile":
			target = &link.LinkFile
		case "matchIndex":
			target = &link.MatchIndex
		case "sectionTag":
			target = &link.SectionTag
		case "cssClass":
			target = &link.CSSClass
		default:
			continue
		}
		if decodeError := value.Decode(target); decodeError != nil {
			link.DecodeProblems = append(link.DecodeProblems, fmt.Sprintf(linkFieldTypeFormat, key.Value, value.Line))
		}
	}
	return nil
}

// Section is one ordered unit of a document.
type Section struct {
	Header  *Header  `yaml:"header"`
	Content *Content `yaml:"content"`
	Links   []Link   `yaml:"links"`
}

// Document is one page worth of header and sections.
type Document struct {
	Header   *Header   `yaml:"header"`
	Sections []Section `yaml:"sections"`
}

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// StringValue dereferences an optional string, returning "" for nil.
func StringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
