package document

import (
	"fmt"
	"strings"

	"github.com/temirov/codepages/internal/diagnostics"
	"github.com/temirov/codepages/internal/linking"
	"github.com/temirov/codepages/internal/types"
)

const (
	undecodableLinkFormat    = "%s link %d: %s; link skipped"
	missingMatchStringFormat = "%s link %d: matchString is missing or empty; link skipped"
	missingLinkFileFormat    = "%s link %d: linkFile is missing or empty; link skipped"
	mixedMatchIndexFormat    = "%s link %d: matchIndex %v mixes inclusion and exclusion entries; link skipped"
	duplicateMatchFormat     = "%s link %d: matchString %q already used by link %d; link skipped"
	droppedLinksFormat       = "%s: dropped %d invalid link(s)"
	sectionLocationFormat    = "section %d"
)

// LinkValidator checks the links of one section in declaration order. A
// duplicate is detected against earlier valid links only.
type LinkValidator struct {
	location string
	seen     map[string]int
}

// NewLinkValidator starts validation for the section described by location.
func NewLinkValidator(location string) *LinkValidator {
	return &LinkValidator{location: location, seen: make(map[string]int)}
}

// Validate records problems with link in log and reports whether the link can
// be rendered. Missing or mistyped fields are critical for the link; a
// mixed-sign match index or a repeated match string is an error.
func (validator *LinkValidator) Validate(linkIndex int, link types.Link, log *diagnostics.Log) bool {
	if len(link.DecodeProblems) > 0 {
		log.Critical(undecodableLinkFormat, validator.location, linkIndex, strings.Join(link.DecodeProblems, ", "))
		return false
	}
	if link.MatchString == nil || *link.MatchString == "" {
		log.Critical(missingMatchStringFormat, validator.location, linkIndex)
		return false
	}
	if link.LinkFile == nil || *link.LinkFile == "" {
		log.Critical(missingLinkFileFormat, validator.location, linkIndex)
		return false
	}
	if matchIndexError := linking.ValidateMatchIndex(link.MatchIndex); matchIndexError != nil {
		log.Error(mixedMatchIndexFormat, validator.location, linkIndex, link.MatchIndex)
		return false
	}
	if earlierIndex, duplicate := validator.seen[*link.MatchString]; duplicate {
		log.Error(duplicateMatchFormat, validator.location, linkIndex, *link.MatchString, earlierIndex)
		return false
	}
	validator.seen[*link.MatchString] = linkIndex
	return true
}

// SectionLocation names a section in diagnostics.
func SectionLocation(sectionIndex int) string {
	return fmt.Sprintf(sectionLocationFormat, sectionIndex)
}

// ValidateLinks checks every link of every section. When dropInvalid is set
// the invalid links are removed from the document in place.
func ValidateLinks(document *types.Document, dropInvalid bool) diagnostics.Log {
	var log diagnostics.Log
	for sectionIndex := range document.Sections {
		section := &document.Sections[sectionIndex]
		location := SectionLocation(sectionIndex)
		validator := NewLinkValidator(location)
		kept := make([]types.Link, 0, len(section.Links))
		for linkIndex, link := range section.Links {
			if validator.Validate(linkIndex, link, &log) {
				kept = append(kept, link)
			}
		}
		if dropInvalid && len(kept) != len(section.Links) {
			log.Note(droppedLinksFormat, location, len(section.Links)-len(kept))
			section.Links = kept
		}
	}
	return log
}
