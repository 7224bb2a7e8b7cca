package schema

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// Defaults returns the default document: every field with a default, and
// every object with at least one default inside it, in field order.
func (s *Schema) Defaults() yaml.MapSlice {
	return defaults(s.Fields)
}

func defaults(fields []*Field) yaml.MapSlice {
	var out yaml.MapSlice

	for _, f := range Ordered(fields) {
		if v, ok := f.defaultValue(); ok {
			out = append(out, yaml.MapItem{Key: f.DocumentKey(), Value: v})
		}
	}

	return out
}

func (f *Field) defaultValue() (any, bool) {
	if len(f.Fields) > 0 {
		d := defaults(f.Fields)

		return d, len(d) > 0
	}

	return f.Default, f.Default != nil
}

// ApplyDefaults overlays tree on the schema defaults and returns the merged
// document. tree is not modified.
//
// Keys known to the schema come first, in field order; missing keys take
// their defaults. Keys the schema does not know keep their values and follow
// in their original order. Nested objects and the object elements of lists
// are merged the same way.
func (s *Schema) ApplyDefaults(tree yaml.MapSlice) yaml.MapSlice {
	return applyDefaults(s.Fields, tree)
}

func applyDefaults(fields []*Field, tree yaml.MapSlice) yaml.MapSlice {
	var (
		out   = make(yaml.MapSlice, 0, max(len(fields), len(tree)))
		known = make(map[string]bool, len(fields))
	)

	for _, f := range Ordered(fields) {
		key := f.DocumentKey()
		known[key] = true

		v, ok := lookup(tree, key)
		if !ok {
			if d, hasDefault := f.defaultValue(); hasDefault {
				out = append(out, yaml.MapItem{Key: key, Value: d})
			}

			continue
		}

		out = append(out, yaml.MapItem{Key: key, Value: f.merge(v)})
	}

	for _, item := range tree {
		if !known[keyString(item.Key)] {
			out = append(out, item)
		}
	}

	return out
}

// merge applies nested defaults to a loaded value.
func (f *Field) merge(v any) any {
	switch {
	case len(f.Fields) > 0:
		if m, ok := v.(yaml.MapSlice); ok {
			return applyDefaults(f.Fields, m)
		}

	case f.Items != nil && len(f.Items.Fields) > 0:
		list, ok := v.([]any)
		if !ok {
			return v
		}

		out := make([]any, len(list))
		for i, elem := range list {
			if m, ok := elem.(yaml.MapSlice); ok {
				out[i] = applyDefaults(f.Items.Fields, m)
			} else {
				out[i] = elem
			}
		}

		return out
	}

	return v
}

func lookup(tree yaml.MapSlice, key string) (any, bool) {
	for _, item := range tree {
		if keyString(item.Key) == key {
			return item.Value, true
		}
	}

	return nil, false
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}

	return fmt.Sprint(k)
}

// Plain converts an ordered tree to plain Go values: [yaml.MapSlice] becomes
// map[string]any and lists are converted element by element. It is the form
// JSON encoders and validators expect.
func Plain(v any) any {
	switch t := v.(type) {
	case yaml.MapSlice:
		m := make(map[string]any, len(t))
		for _, item := range t {
			m[keyString(item.Key)] = Plain(item.Value)
		}

		return m

	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = Plain(val)
		}

		return m

	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = Plain(elem)
		}

		return out
	}

	return v
}
