// Package structure flattens nested documents into leaf paths and checks them
// against a shape-only reference schema.
package structure

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind distinguishes the variants of a Value.
type Kind int

const (
	// KindScalar is a terminal value, including null.
	KindScalar Kind = iota
	// KindMap is a mapping with unique string keys.
	KindMap
	// KindSequence is an ordered list.
	KindSequence
)

const (
	duplicateKeyFormat      = "duplicate key %q at line %d"
	unsupportedNodeFormat   = "unsupported yaml node kind %d at line %d"
	decodeScalarFormat      = "decode scalar at line %d: %w"
	unsupportedGoTypeFormat = "unsupported value of type %T"
)

// Field is one key/value pair of a map Value.
type Field struct {
	Key   string
	Value Value
}

// Value is a tagged union over map, sequence and scalar data.
type Value struct {
	kind     Kind
	fields   []Field
	elements []Value
	scalar   any
}

// Scalar wraps a terminal value. A nil argument produces null.
func Scalar(value any) Value {
	return Value{kind: KindScalar, scalar: value}
}

// Null returns the null scalar.
func Null() Value {
	return Value{kind: KindScalar}
}

// Map builds a map Value from fields, keeping their order.
func Map(fields ...Field) Value {
	return Value{kind: KindMap, fields: fields}
}

// Sequence builds a sequence Value.
func Sequence(elements ...Value) Value {
	return Value{kind: KindSequence, elements: elements}
}

// Kind reports the variant.
func (value Value) Kind() Kind { return value.kind }

// IsNull reports whether the value is the null scalar.
func (value Value) IsNull() bool {
	return value.kind == KindScalar && value.scalar == nil
}

// IsContainer reports whether the value is a map or a sequence.
func (value Value) IsContainer() bool {
	return value.kind == KindMap || value.kind == KindSequence
}

// Fields returns the map entries in declaration order.
func (value Value) Fields() []Field { return value.fields }

// Elements returns the sequence elements.
func (value Value) Elements() []Value { return value.elements }

// Lookup finds a map entry by key.
func (value Value) Lookup(key string) (Value, bool) {
	if value.kind != KindMap {
		return Value{}, false
	}
	for _, field := range value.fields {
		if field.Key == key {
			return field.Value, true
		}
	}
	return Value{}, false
}

// Index returns the sequence element at position.
func (value Value) Index(position int) (Value, bool) {
	if value.kind != KindSequence || position < 0 || position >= len(value.elements) {
		return Value{}, false
	}
	return value.elements[position], true
}

// String renders the value compactly for diagnostics.
func (value Value) String() string {
	switch value.kind {
	case KindMap:
		parts := make([]string, 0, len(value.fields))
		for _, field := range value.fields {
			parts = append(parts, field.Key+": "+field.Value.String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindSequence:
		parts := make([]string, 0, len(value.elements))
		for _, element := range value.elements {
			parts = append(parts, element.String())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		if value.scalar == nil {
			return "null"
		}
		if text, isString := value.scalar.(string); isString {
			return strconv.Quote(text)
		}
		return fmt.Sprint(value.scalar)
	}
}

// FromYAMLNode converts a parsed yaml.v3 node into a Value. Document nodes are
// unwrapped and aliases resolved.
func FromYAMLNode(node *yaml.Node) (Value, error) {
	if node == nil {
		return Null(), nil
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}
		return FromYAMLNode(node.Content[0])
	case yaml.AliasNode:
		return FromYAMLNode(node.Alias)
	case yaml.MappingNode:
		fields := make([]Field, 0, len(node.Content)/2)
		seen := make(map[string]struct{}, len(node.Content)/2)
		for index := 0; index+1 < len(node.Content); index += 2 {
			keyNode := node.Content[index]
			if _, duplicate := seen[keyNode.Value]; duplicate {
				return Value{}, fmt.Errorf(duplicateKeyFormat, keyNode.Value, keyNode.Line)
			}
			seen[keyNode.Value] = struct{}{}
			converted, conversionError := FromYAMLNode(node.Content[index+1])
			if conversionError != nil {
				return Value{}, conversionError
			}
			fields = append(fields, Field{Key: keyNode.Value, Value: converted})
		}
		return Map(fields...), nil
	case yaml.SequenceNode:
		elements := make([]Value, 0, len(node.Content))
		for _, child := range node.Content {
			converted, conversionError := FromYAMLNode(child)
			if conversionError != nil {
				return Value{}, conversionError
			}
			elements = append(elements, converted)
		}
		return Sequence(elements...), nil
	case yaml.ScalarNode:
		var decoded any
		if decodeError := node.Decode(&decoded); decodeError != nil {
			return Value{}, fmt.Errorf(decodeScalarFormat, node.Line, decodeError)
		}
		return Scalar(decoded), nil
	default:
		return Value{}, fmt.Errorf(unsupportedNodeFormat, node.Kind, node.Line)
	}
}

// FromAny converts generic Go data, as produced by decoding JSON into any,
// into a Value. Map keys are sorted so the result is deterministic.
func FromAny(data any) (Value, error) {
	switch typed := data.(type) {
	case nil:
		return Null(), nil
	case Value:
		return typed, nil
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		fields := make([]Field, 0, len(keys))
		for _, key := range keys {
			converted, conversionError := FromAny(typed[key])
			if conversionError != nil {
				return Value{}, conversionError
			}
			fields = append(fields, Field{Key: key, Value: converted})
		}
		return Map(fields...), nil
	case []any:
		elements := make([]Value, 0, len(typed))
		for _, element := range typed {
			converted, conversionError := FromAny(element)
			if conversionError != nil {
				return Value{}, conversionError
			}
			elements = append(elements, converted)
		}
		return Sequence(elements...), nil
	case string, bool, int, int64, uint64, float64:
		return Scalar(typed), nil
	default:
		return Value{}, fmt.Errorf(unsupportedGoTypeFormat, data)
	}
}
