package schema

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"go.jacobcolvin.com/commentspec/weave"
)

// ErrInvalidSchema indicates a [Schema] that cannot describe a document.
var ErrInvalidSchema = errors.New("invalid schema")

// Type is the kind of value a [Field] holds.
type Type string

// Field types. An empty Type accepts any value.
const (
	TypeAny     Type = ""
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeObject  Type = "object"
	TypeArray   Type = "array"
)

// GetAllTypeStrings returns the non-empty type names.
func GetAllTypeStrings() []string {
	return []string{
		string(TypeString), string(TypeInteger), string(TypeNumber),
		string(TypeBoolean), string(TypeObject), string(TypeArray),
	}
}

// Field describes one key of a configuration object.
//
// A Field with Fields is an object. A Field with Items is a list; when Items
// has Fields, every element is an object.
type Field struct {
	Default any      `yaml:"default,omitempty"`
	Minimum *float64 `yaml:"minimum,omitempty"`
	Maximum *float64 `yaml:"maximum,omitempty"`
	Items   *Field   `yaml:"items,omitempty"`
	// Key is the document key. When empty it is derived from Name with
	// [CamelToKebab].
	Key  string `yaml:"key,omitempty"`
	Name string `yaml:"name,omitempty"`
	// Comment is placed above the key, one comment line per text line.
	Comment string `yaml:"comment,omitempty"`
	Type    Type   `yaml:"type,omitempty"`
	// Rule is an expr expression that must evaluate to true. The field's
	// value is bound to "value".
	Rule   string   `yaml:"rule,omitempty"`
	Fields []*Field `yaml:"fields,omitempty"`
	Order  int      `yaml:"order,omitempty"`
}

// DocumentKey returns Key, or the kebab-case form of Name.
func (f *Field) DocumentKey() string {
	if f.Key != "" {
		return f.Key
	}

	return CamelToKebab(f.Name)
}

// Kind returns the effective type: [TypeObject] when the field has Fields,
// [TypeArray] when it has Items, and Type otherwise.
func (f *Field) Kind() Type {
	switch {
	case len(f.Fields) > 0:
		return TypeObject
	case f.Items != nil:
		return TypeArray
	}

	return f.Type
}

// CommentLines returns the comment formatted as comment lines, or nil.
func (f *Field) CommentLines() []string {
	text := strings.TrimRight(f.Comment, "\n")
	if text == "" {
		return nil
	}

	parts := strings.Split(text, "\n")
	lines := make([]string, len(parts))

	for i, p := range parts {
		lines[i] = weave.FormatCommentLine(p)
	}

	return lines
}

// Schema describes a configuration document.
type Schema struct {
	Header []string `yaml:"header,omitempty"`
	Fields []*Field `yaml:"fields,omitempty"`
}

// Headers returns the header lines, splitting any that contain newlines.
func (s *Schema) Headers() []string {
	var out []string
	for _, h := range s.Header {
		out = append(out, strings.Split(h, "\n")...)
	}

	return out
}

// Title returns the first header line without comment markers, or "".
func (s *Schema) Title() string {
	headers := s.Headers()
	if len(headers) == 0 {
		return ""
	}

	return strings.TrimSpace(strings.TrimLeft(headers[0], "#"))
}

// Check reports every problem that would make the schema unusable, joined
// into one error wrapping [ErrInvalidSchema].
func (s *Schema) Check() error {
	var errs []error

	checkFields(s.Fields, "", &errs)

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %w", ErrInvalidSchema, errors.Join(errs...))
}

func checkFields(fields []*Field, parent string, errs *[]error) {
	seen := make(map[string]bool, len(fields))

	for i, f := range fields {
		if f == nil {
			*errs = append(*errs, fmt.Errorf("%s: field %d is nil", orRoot(parent), i))
			continue
		}

		key := f.DocumentKey()
		if key == "" {
			*errs = append(*errs, fmt.Errorf("%s: field %d has no key or name", orRoot(parent), i))
			continue
		}

		path := joinKey(parent, key)

		if seen[key] {
			*errs = append(*errs, fmt.Errorf("%s: duplicate key", path))
		}

		seen[key] = true

		*errs = append(*errs, checkField(f, path)...)

		if len(f.Fields) > 0 {
			checkFields(f.Fields, path, errs)
		}

		if f.Items != nil {
			elem := weave.JoinPath(path, weave.ArrayMarker)
			*errs = append(*errs, checkField(f.Items, elem)...)
			checkFields(f.Items.Fields, elem, errs)
		}
	}
}

func checkField(f *Field, path string) []error {
	var errs []error

	if f.Type != TypeAny && !slices.Contains(GetAllTypeStrings(), string(f.Type)) {
		errs = append(errs, fmt.Errorf("%s: unknown type %q", path, f.Type))
	}

	if len(f.Fields) > 0 && f.Items != nil {
		errs = append(errs, fmt.Errorf("%s: both fields and items are set", path))
	}

	if len(f.Fields) > 0 && f.Type != TypeAny && f.Type != TypeObject {
		errs = append(errs, fmt.Errorf("%s: fields set on %s", path, f.Type))
	}

	if f.Items != nil && f.Type != TypeAny && f.Type != TypeArray {
		errs = append(errs, fmt.Errorf("%s: items set on %s", path, f.Type))
	}

	if f.Minimum != nil && f.Maximum != nil && *f.Minimum > *f.Maximum {
		errs = append(errs, fmt.Errorf("%s: minimum %g exceeds maximum %g", path, *f.Minimum, *f.Maximum))
	}

	if f.Rule != "" {
		_, err := compileRule(f.Rule)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: rule: %w", path, err))
		}
	}

	if f.Order < 0 {
		errs = append(errs, fmt.Errorf("%s: negative order %d", path, f.Order))
	}

	return errs
}

// Ordered returns fields in document order. See the package documentation
// for the ordering rules. fields is not modified.
func Ordered(fields []*Field) []*Field {
	out := slices.Clone(fields)
	slices.SortStableFunc(out, func(a, b *Field) int {
		switch {
		case a.Order == 0 && b.Order == 0:
			return 0
		case a.Order == 0:
			return -1
		case b.Order == 0:
			return 1
		}

		return cmp.Compare(a.Order, b.Order)
	})

	return out
}

// Comments returns the comment table for documents of this schema.
//
// Every commented field gets an entry at its dotted path. Fields of list
// elements are addressed through [weave.ArrayMarker], and a comment on Items
// itself attaches to each element. A commented field that is not the first
// of its object is preceded by a blank line.
func (s *Schema) Comments() weave.CommentTable {
	blocks := make(map[string][]string)
	collectComments(s.Fields, "", blocks)

	return weave.NewCommentTable(blocks)
}

func collectComments(fields []*Field, parent string, blocks map[string][]string) {
	for i, f := range Ordered(fields) {
		path := joinKey(parent, f.DocumentKey())

		if lines := f.CommentLines(); lines != nil {
			if i > 0 {
				lines = append([]string{""}, lines...)
			}

			blocks[path] = lines
		}

		collectComments(f.Fields, path, blocks)

		if f.Items != nil {
			elem := weave.JoinPath(path, weave.ArrayMarker)
			if lines := f.Items.CommentLines(); lines != nil {
				blocks[elem] = lines
			}

			collectComments(f.Items.Fields, elem, blocks)
		}
	}
}

func compileRule(rule string) (*vm.Program, error) {
	// The type of value depends on the document, so it is only known at
	// run time.
	program, err := expr.Compile(rule, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return nil, err
	}

	return program, nil
}

func joinKey(parent, key string) string {
	if parent == "" {
		return key
	}

	return weave.JoinPath(parent, key)
}

func orRoot(path string) string {
	if path == "" {
		return "<root>"
	}

	return path
}
