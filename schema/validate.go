package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
)

var (
	// ErrValidation indicates a document value does not satisfy its field.
	ErrValidation = errors.New("validation failed")
	// ErrRule indicates a field rule evaluated to false.
	ErrRule = errors.New("rule not satisfied")
)

// ValidationError is a single failed value. Path is the dotted location of
// the value, with list indexes as segments.
type ValidationError struct {
	Err  error
	Path string
}

// Error implements error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns [ErrValidation] and the underlying error.
func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}

// Validate checks tree against the schema and returns every failure joined,
// each a [*ValidationError]. Keys missing from tree and keys unknown to the
// schema are not errors.
//
// Each value is first checked against its field's JSON Schema constraints
// (type, minimum, maximum); values that pass are then checked against the
// field's rule.
func (s *Schema) Validate(tree yaml.MapSlice) error {
	v := &validator{
		resolved: make(map[*Field]*jsonschema.Resolved),
		programs: make(map[*Field]*vm.Program),
	}

	v.object(s.Fields, "", tree)

	return errors.Join(v.errs...)
}

type validator struct {
	resolved map[*Field]*jsonschema.Resolved
	programs map[*Field]*vm.Program
	errs     []error
}

func (v *validator) object(fields []*Field, parent string, tree yaml.MapSlice) {
	for _, f := range Ordered(fields) {
		key := f.DocumentKey()

		value, ok := lookup(tree, key)
		if !ok {
			continue
		}

		v.field(f, joinKey(parent, key), value)
	}
}

func (v *validator) field(f *Field, path string, value any) {
	plain := Plain(value)

	err := v.checkSchema(f, plain)
	if err != nil {
		v.fail(path, err)

		return
	}

	err = v.checkRule(f, plain)
	if err != nil {
		v.fail(path, err)
	}

	switch f.Kind() {
	case TypeObject:
		if m, ok := value.(yaml.MapSlice); ok {
			v.object(f.Fields, path, m)
		}

	case TypeArray:
		list, ok := value.([]any)
		if !ok || f.Items == nil {
			return
		}

		for i, elem := range list {
			v.field(f.Items, joinKey(path, strconv.Itoa(i)), elem)
		}
	}
}

func (v *validator) checkSchema(f *Field, value any) error {
	rs, ok := v.resolved[f]
	if !ok {
		var err error

		rs, err = f.leafSchema().Resolve(nil)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSchema, err)
		}

		v.resolved[f] = rs
	}

	return schemaError(rs.Validate(value))
}

// schemaError drops the "validating <schema>: " prefix jsonschema puts on
// every failure. Each field is validated against its own leaf schema, so the
// prefix always names the root and [ValidationError.Path] already locates
// the value.
func schemaError(err error) error {
	if err == nil || !strings.HasPrefix(err.Error(), "validating ") {
		return err
	}

	inner := errors.Unwrap(err)
	if inner == nil {
		return err
	}

	return inner
}

func (v *validator) checkRule(f *Field, value any) error {
	if f.Rule == "" {
		return nil
	}

	program, ok := v.programs[f]
	if !ok {
		var err error

		program, err = compileRule(f.Rule)
		if err != nil {
			return fmt.Errorf("%w: rule: %w", ErrInvalidSchema, err)
		}

		v.programs[f] = program
	}

	out, err := expr.Run(program, map[string]any{"value": value})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRule, f.Rule, err)
	}

	if ok, _ := out.(bool); !ok {
		return fmt.Errorf("%w: %s", ErrRule, f.Rule)
	}

	return nil
}

func (v *validator) fail(path string, err error) {
	v.errs = append(v.errs, &ValidationError{Path: path, Err: err})
}
