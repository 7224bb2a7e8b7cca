package schema

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// ErrInvalidDefinition indicates a schema definition file could not be
// decoded.
var ErrInvalidDefinition = errors.New("invalid schema definition")

// Parse decodes a YAML schema definition and checks it. Object defaults are
// decoded as [yaml.MapSlice], so their key order is kept. Unknown
// definition keys are rejected.
func Parse(data []byte) (*Schema, error) {
	var s Schema

	err := yaml.UnmarshalWithOptions(data, &s, yaml.UseOrderedMap(), yaml.DisallowUnknownField())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}

	err = s.Check()
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// Load reads and parses the schema definition at path.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// Marshal encodes the schema as a YAML definition that [Parse] accepts.
func Marshal(s *Schema) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return data, nil
}

// MarshalYAML writes definition keys in reading order: identity first, then
// type and constraints, then children.
func (f Field) MarshalYAML() (any, error) {
	var out yaml.MapSlice

	add := func(key string, value any, set bool) {
		if set {
			out = append(out, yaml.MapItem{Key: key, Value: value})
		}
	}

	add("key", f.Key, f.Key != "")
	add("name", f.Name, f.Name != "")
	add("comment", f.Comment, f.Comment != "")
	add("order", f.Order, f.Order != 0)
	add("type", f.Type, f.Type != TypeAny)
	add("default", f.Default, f.Default != nil)
	add("minimum", f.Minimum, f.Minimum != nil)
	add("maximum", f.Maximum, f.Maximum != nil)
	add("rule", f.Rule, f.Rule != "")
	add("fields", f.Fields, len(f.Fields) > 0)
	add("items", f.Items, f.Items != nil)

	return out, nil
}
