// Package document loads YAML documents and pre-validates their links.
package document

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/temirov/codepages/internal/structure"
	"github.com/temirov/codepages/internal/types"
)

const (
	readDocumentErrorFormat    = "read document %s: %w"
	parseDocumentErrorFormat   = "parse document %s: %w"
	decodeDocumentErrorFormat  = "decode document %s: %w"
	convertDocumentErrorFormat = "inspect document %s: %w"
)

// Parsed holds both views of one source: the generic value used by the
// structure check and the typed document used by the renderer.
type Parsed struct {
	Source   string
	Value    structure.Value
	Document types.Document
	// TypeProblems lists values that did not fit the document model. The
	// affected fields are left unset; mistyped link fields are recorded on the
	// link itself.
	TypeProblems []string
}

// Load reads and parses the document at path.
func Load(path string) (Parsed, error) {
	content, readError := os.ReadFile(path)
	if readError != nil {
		return Parsed{}, fmt.Errorf(readDocumentErrorFormat, path, readError)
	}
	return Parse(content, path)
}

// Parse decodes YAML content once and derives both views from the same node
// tree. An empty source yields a null value and a zero document.
func Parse(content []byte, source string) (Parsed, error) {
	var node yaml.Node
	if unmarshalError := yaml.Unmarshal(content, &node); unmarshalError != nil {
		return Parsed{}, fmt.Errorf(parseDocumentErrorFormat, source, unmarshalError)
	}
	parsed := Parsed{Source: source, Value: structure.Null()}
	if node.Kind == 0 {
		return parsed, nil
	}
	value, conversionError := structure.FromYAMLNode(&node)
	if conversionError != nil {
		return Parsed{}, fmt.Errorf(convertDocumentErrorFormat, source, conversionError)
	}
	parsed.Value = value
	if decodeError := node.Decode(&parsed.Document); decodeError != nil {
		var typeError *yaml.TypeError
		if !errors.As(decodeError, &typeError) {
			return Parsed{}, fmt.Errorf(decodeDocumentErrorFormat, source, decodeError)
		}
		parsed.TypeProblems = typeError.Errors
	}
	return parsed, nil
}
