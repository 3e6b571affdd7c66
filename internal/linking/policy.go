// Package linking selects and splices anchor markup into highlighted code.
package linking

import (
	"errors"
	"slices"
)

// ErrMixedSignMatchIndex reports a match index mixing inclusion and exclusion entries.
var ErrMixedSignMatchIndex = errors.New("matchIndex mixes non-negative and negative entries")

// Selects reports whether the zero-based occurrence is linked under matchIndex.
//
// An empty list selects everything. A list starting with a non-negative entry
// is an inclusion list. A list starting with a negative entry is an exclusion
// list where -N excludes occurrence N.
func Selects(occurrence int, matchIndex []int) bool {
	if len(matchIndex) == 0 {
		return true
	}
	if matchIndex[0] >= 0 {
		return slices.Contains(matchIndex, occurrence)
	}
	return !slices.Contains(matchIndex, -occurrence)
}

// ValidateMatchIndex rejects lists whose entries do not all share the sign of
// the first entry.
func ValidateMatchIndex(matchIndex []int) error {
	if len(matchIndex) == 0 {
		return nil
	}
	inclusive := matchIndex[0] >= 0
	for _, entry := range matchIndex[1:] {
		if (entry >= 0) != inclusive {
			return ErrMixedSignMatchIndex
		}
	}
	return nil
}
