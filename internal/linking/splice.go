package linking

import (
	"html"
	"strings"
)

const (
	// OpeningDelimiter precedes a token's text in highlighter markup.
	OpeningDelimiter = ">"
	// ClosingDelimiter follows a token's text in highlighter markup.
	ClosingDelimiter = "<"
)

// Splice replaces selected occurrences of matchString inside highlighted
// markup with replacement. Only occurrences that form the whole text of an
// element (">matchString<") count. The match string is compared in its
// HTML-escaped form, the way the highlighter writes token text. A letter,
// digit or underscore directly outside the delimiters disqualifies the
// occurrence.
//
// Occurrences are counted left to right without overlap, starting at zero,
// and every occurrence is counted whether or not matchIndex selects it. The
// scan always resumes after the processed span, so replacement text is never
// searched again.
func Splice(highlighted string, matchString string, matchIndex []int, replacement string) (string, int) {
	if matchString == "" {
		return highlighted, 0
	}
	needle := OpeningDelimiter + html.EscapeString(matchString) + ClosingDelimiter

	var builder strings.Builder
	occurrences := 0
	cursor := 0
	for {
		offset := strings.Index(highlighted[cursor:], needle)
		if offset < 0 {
			break
		}
		start := cursor + offset
		end := start + len(needle)
		if !isBounded(highlighted, start, end) {
			builder.WriteString(highlighted[cursor:end])
			cursor = end
			continue
		}
		builder.WriteString(highlighted[cursor:start])
		if Selects(occurrences, matchIndex) {
			builder.WriteString(OpeningDelimiter)
			builder.WriteString(replacement)
			builder.WriteString(ClosingDelimiter)
		} else {
			builder.WriteString(highlighted[start:end])
		}
		occurrences++
		cursor = end
	}
	if occurrences == 0 {
		return highlighted, 0
	}
	builder.WriteString(highlighted[cursor:])
	return builder.String(), occurrences
}

// isBounded reports whether the span [start, end) has no word character
// directly before or after it.
func isBounded(text string, start int, end int) bool {
	if start > 0 && isWordByte(text[start-1]) {
		return false
	}
	if end < len(text) && isWordByte(text[end]) {
		return false
	}
	return true
}

func isWordByte(value byte) bool {
	return value == '_' ||
		('a' <= value && value <= 'z') ||
		('A' <= value && value <= 'Z') ||
		('0' <= value && value <= '9')
}
