package schema

import (
	"encoding/json"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// Draft07 is the $schema URI set on exported schemas.
const Draft07 = "http://json-schema.org/draft-07/schema#"

// JSONSchema exports the schema as a draft-07 JSON Schema. Properties keep
// field order, comments become descriptions, and the first header line
// becomes the title. Unknown keys are allowed.
func (s *Schema) JSONSchema() *jsonschema.Schema {
	root := objectSchema(s.Fields)
	root.Schema = Draft07
	root.Title = s.Title()

	return root
}

func objectSchema(fields []*Field) *jsonschema.Schema {
	out := &jsonschema.Schema{
		Type:       string(TypeObject),
		Properties: make(map[string]*jsonschema.Schema, len(fields)),
	}

	for _, f := range Ordered(fields) {
		key := f.DocumentKey()
		out.Properties[key] = f.JSONSchema()
		out.PropertyOrder = append(out.PropertyOrder, key)
	}

	return out
}

// JSONSchema exports the field, including nested fields and items.
func (f *Field) JSONSchema() *jsonschema.Schema {
	var out *jsonschema.Schema

	switch f.Kind() {
	case TypeObject:
		if len(f.Fields) > 0 {
			out = objectSchema(f.Fields)
		} else {
			out = &jsonschema.Schema{Type: string(TypeObject)}
		}

	case TypeArray:
		out = &jsonschema.Schema{Type: string(TypeArray)}
		if f.Items != nil {
			out.Items = f.Items.JSONSchema()
		}

	default:
		out = f.leafSchema()
	}

	out.Description = strings.TrimRight(f.Comment, "\n")

	if f.Default != nil {
		out.Default = defaultValue(f.Default)
	}

	return out
}

// leafSchema returns the constraints that apply to the value itself, without
// descending into object properties or list items.
func (f *Field) leafSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:    string(f.Kind()),
		Minimum: f.Minimum,
		Maximum: f.Maximum,
	}
}

// defaultValue converts a Go value to a [json.RawMessage] suitable for use
// as a JSON Schema default. It returns nil if marshaling fails.
func defaultValue(v any) json.RawMessage {
	b, err := json.Marshal(Plain(v))
	if err != nil {
		return nil
	}

	return b
}
