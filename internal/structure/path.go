package structure

import (
	"strconv"
	"strings"
)

// PathElement is either a map key or a sequence index.
type PathElement struct {
	Key     string
	Index   int
	IsIndex bool
}

// Key builds a key path element.
func Key(name string) PathElement {
	return PathElement{Key: name}
}

// Index builds an index path element.
func Index(position int) PathElement {
	return PathElement{Index: position, IsIndex: true}
}

// String renders a key as-is and an index as "[n]".
func (element PathElement) String() string {
	if element.IsIndex {
		return "[" + strconv.Itoa(element.Index) + "]"
	}
	return element.Key
}

// Path is the access path from a root to a leaf.
type Path []PathElement

// Append returns a new path with element added; the receiver is not modified.
func (path Path) Append(element PathElement) Path {
	extended := make(Path, len(path), len(path)+1)
	copy(extended, path)
	return append(extended, element)
}

// String renders the path in dotted form, e.g. sections[0].links[1].matchString.
func (path Path) String() string {
	var builder strings.Builder
	for position, element := range path {
		if !element.IsIndex && position > 0 {
			builder.WriteByte('.')
		}
		builder.WriteString(element.String())
	}
	return builder.String()
}
