// Package schema provides the reference schema documents are checked against.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/codepages/internal/structure"
)

const (
	readSchemaErrorFormat  = "read reference schema %s: %w"
	parseSchemaErrorFormat = "parse reference schema %s: %w"
	schemaNotMappingFormat = "reference schema %s must be a mapping"
	embeddedSchemaSource   = "<embedded>"
	jsonSchemaExtension    = ".json"
)

//go:embed reference.yaml
var defaultReference []byte

// Default returns the embedded reference schema.
func Default() (structure.Value, error) {
	return Parse(defaultReference, embeddedSchemaSource)
}

// Load reads the reference schema at path, or the embedded one when path is
// empty. A .json file is read as JSON, anything else as YAML.
func Load(path string) (structure.Value, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	content, readError := os.ReadFile(path)
	if readError != nil {
		return structure.Value{}, fmt.Errorf(readSchemaErrorFormat, path, readError)
	}
	if strings.EqualFold(filepath.Ext(path), jsonSchemaExtension) {
		return ParseJSON(content, path)
	}
	return Parse(content, path)
}

// ParseJSON converts a JSON schema document into a structure value. Object
// keys come out sorted, which the shape comparison does not depend on.
func ParseJSON(content []byte, source string) (structure.Value, error) {
	var decoded any
	if unmarshalError := json.Unmarshal(content, &decoded); unmarshalError != nil {
		return structure.Value{}, fmt.Errorf(parseSchemaErrorFormat, source, unmarshalError)
	}
	reference, conversionError := structure.FromAny(decoded)
	if conversionError != nil {
		return structure.Value{}, fmt.Errorf(parseSchemaErrorFormat, source, conversionError)
	}
	return requireMapping(reference, source)
}

// Parse converts schema YAML into a structure value. source names the origin
// in error messages.
func Parse(content []byte, source string) (structure.Value, error) {
	var node yaml.Node
	if unmarshalError := yaml.Unmarshal(content, &node); unmarshalError != nil {
		return structure.Value{}, fmt.Errorf(parseSchemaErrorFormat, source, unmarshalError)
	}
	reference, conversionError := structure.FromYAMLNode(&node)
	if conversionError != nil {
		return structure.Value{}, fmt.Errorf(parseSchemaErrorFormat, source, conversionError)
	}
	return requireMapping(reference, source)
}

func requireMapping(reference structure.Value, source string) (structure.Value, error) {
	if reference.Kind() != structure.KindMap {
		return structure.Value{}, fmt.Errorf(schemaNotMappingFormat, source)
	}
	return reference, nil
}
