package structure

import (
	"github.com/temirov/codepages/internal/diagnostics"
)

const (
	emptyBranchMessageFormat = "branch %s has no content"
	invalidKeyMessageFormat  = "invalid key '%s' after '%s' (value: %s)"
	invalidEmptyPathFormat   = "leaf without path (value: %s)"
	followsReferenceMessage  = "data structure follows reference structure."
	rootPathLabel            = "<root>"
)

// Leaf is a terminal value with its full access path.
type Leaf struct {
	Path  Path
	Value Value
}

// Flatten walks data depth-first and returns one Leaf per terminal value.
// Sequences that are empty or whose first element is not a container are
// treated as a single leaf. Maps without keys contribute nothing.
func Flatten(data Value) []Leaf {
	var leaves []Leaf
	flattenInto(data, nil, &leaves)
	return leaves
}

func flattenInto(current Value, path Path, leaves *[]Leaf) {
	switch current.Kind() {
	case KindMap:
		for _, field := range current.Fields() {
			flattenInto(field.Value, path.Append(Key(field.Key)), leaves)
		}
	case KindSequence:
		elements := current.Elements()
		if len(elements) == 0 || !elements[0].IsContainer() {
			*leaves = append(*leaves, Leaf{Path: path, Value: current})
			return
		}
		for position, element := range elements {
			flattenInto(element, path.Append(Index(position)), leaves)
		}
	default:
		*leaves = append(*leaves, Leaf{Path: path, Value: current})
	}
}

// Verification is the outcome of walking a path through a reference schema.
type Verification struct {
	Exists bool
	// ValidPrefix is the part of the path that resolved before the failure.
	ValidPrefix Path
	// FirstInvalid is the element that failed to resolve; nil when Exists is
	// true or when the path was empty.
	FirstInvalid *PathElement
}

// VerifyPath follows path through reference. Keys are looked up in maps and
// every index resolves to the reference sequence's first element, since
// sequences in a reference schema carry a single representative element.
func VerifyPath(path Path, reference Value) Verification {
	if len(path) == 0 {
		return Verification{}
	}
	current := reference
	for position, element := range path {
		var next Value
		var found bool
		if element.IsIndex {
			next, found = current.Index(0)
		} else {
			next, found = current.Lookup(element.Key)
		}
		if !found {
			failing := element
			return Verification{ValidPrefix: path[:position], FirstInvalid: &failing}
		}
		current = next
	}
	return Verification{Exists: true, ValidPrefix: path}
}

// Result is the verdict of Check.
type Result struct {
	HasError bool
	Log      diagnostics.Log
}

// Check flattens data and verifies every non-null leaf against reference.
// Null leaves produce a warning; unknown paths produce an error and mark the
// result as failed.
func Check(data Value, reference Value) Result {
	var result Result
	for _, leaf := range Flatten(data) {
		if leaf.Value.IsNull() {
			result.Log.Warning(emptyBranchMessageFormat, describePath(leaf.Path))
			continue
		}
		verification := VerifyPath(leaf.Path, reference)
		if verification.Exists {
			continue
		}
		result.HasError = true
		if verification.FirstInvalid == nil {
			result.Log.Error(invalidEmptyPathFormat, leaf.Value.String())
			continue
		}
		result.Log.Error(
			invalidKeyMessageFormat,
			verification.FirstInvalid.String(),
			describePath(verification.ValidPrefix),
			leaf.Value.String(),
		)
	}
	if result.Log.Len() == 0 {
		result.Log.Note(followsReferenceMessage)
	}
	return result
}

func describePath(path Path) string {
	if len(path) == 0 {
		return rootPathLabel
	}
	return path.String()
}
