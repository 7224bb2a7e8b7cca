package schema

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
)

// ErrInvalidExample indicates an example document that cannot be inferred
// from.
var ErrInvalidExample = errors.New("invalid example document")

// Infer derives a schema from an example document. Every key becomes a field
// whose type is inferred from its value and whose default is the value
// itself. Head and inline comments become field comments. Lists of mappings
// get [Field.Items] with the union of the element keys.
func Infer(data []byte) (*Schema, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &Schema{}, nil
	}

	file, err := parser.ParseBytes(data, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExample, err)
	}

	if len(file.Docs) == 0 {
		return &Schema{}, nil
	}

	body := unwrapNode(file.Docs[0].Body)

	switch body.(type) {
	case nil, *ast.CommentGroupNode, *ast.CommentNode:
		return &Schema{}, nil
	}

	values, ok := mappingValues(body)
	if !ok {
		return nil, fmt.Errorf("%w: root is not a mapping", ErrInvalidExample)
	}

	fields, err := inferFields(values)
	if err != nil {
		return nil, err
	}

	return &Schema{Fields: fields}, nil
}

func inferFields(values []*ast.MappingValueNode) ([]*Field, error) {
	fields := make([]*Field, 0, len(values))

	for _, mvn := range values {
		if _, ok := mvn.Key.(*ast.MergeKeyNode); ok {
			continue
		}

		f, err := inferField(mvn)
		if err != nil {
			return nil, err
		}

		fields = append(fields, f)
	}

	return fields, nil
}

func inferField(mvn *ast.MappingValueNode) (*Field, error) {
	f := &Field{
		Key:     keyText(mvn.Key),
		Comment: nodeComment(mvn),
	}

	value := unwrapNode(mvn.Value)

	if values, ok := mappingValues(value); ok {
		children, err := inferFields(values)
		if err != nil {
			return nil, err
		}

		if len(children) > 0 {
			f.Fields = children
			return f, nil
		}
	}

	if seq, ok := value.(*ast.SequenceNode); ok {
		f.Type = TypeArray

		items, err := inferItems(seq)
		if err != nil {
			return nil, err
		}

		f.Items = items
	} else {
		f.Type = inferType(value)
	}

	if _, null := value.(*ast.NullNode); !null && value != nil {
		var v any

		err := yaml.NodeToValue(value, &v, yaml.UseOrderedMap())
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidExample, f.Key, err)
		}

		f.Default = v
	}

	return f, nil
}

// inferItems returns the element field of a list of mappings, with the
// union of element keys in first-seen order. Other lists get nil.
func inferItems(seq *ast.SequenceNode) (*Field, error) {
	var (
		fields []*Field
		seen   = make(map[string]bool)
	)

	for _, elem := range seq.Values {
		values, ok := mappingValues(unwrapNode(elem))
		if !ok {
			return nil, nil
		}

		elemFields, err := inferFields(values)
		if err != nil {
			return nil, err
		}

		for _, f := range elemFields {
			if seen[f.Key] {
				continue
			}

			seen[f.Key] = true
			clearDefaults(f)
			fields = append(fields, f)
		}
	}

	if len(fields) == 0 {
		return nil, nil
	}

	return &Field{Fields: fields}, nil
}

// clearDefaults removes example values from element fields, so defaults do
// not leak into every list element.
func clearDefaults(f *Field) {
	f.Default = nil

	for _, child := range f.Fields {
		clearDefaults(child)
	}

	if f.Items != nil {
		clearDefaults(f.Items)
	}
}

func keyText(k ast.MapKeyNode) string {
	if s, ok := k.(*ast.StringNode); ok {
		return s.Value
	}

	return k.String()
}

func mappingValues(node ast.Node) ([]*ast.MappingValueNode, bool) {
	switch n := node.(type) {
	case *ast.MappingNode:
		return n.Values, true
	case *ast.MappingValueNode:
		return []*ast.MappingValueNode{n}, true
	}

	return nil, false
}

// inferType returns the type for a scalar node, or [TypeAny] for null and
// unknown nodes.
func inferType(node ast.Node) Type {
	switch node.(type) {
	case *ast.BoolNode:
		return TypeBoolean
	case *ast.IntegerNode:
		return TypeInteger
	case *ast.FloatNode, *ast.InfinityNode, *ast.NanNode:
		return TypeNumber
	case *ast.StringNode, *ast.LiteralNode:
		return TypeString
	}

	return TypeAny
}

// unwrapNode resolves tag and anchor wrappers to the underlying value.
func unwrapNode(node ast.Node) ast.Node {
	for {
		switch n := node.(type) {
		case *ast.TagNode:
			node = n.Value
		case *ast.AnchorNode:
			node = n.Value
		default:
			return node
		}
	}
}

// nodeComment returns the head comment of mvn, or the inline comment of its
// value or key, as comment text without markers.
func nodeComment(mvn *ast.MappingValueNode) string {
	if text := commentText(mvn.GetComment()); text != "" {
		return text
	}

	if mvn.Value != nil {
		if text := commentText(mvn.Value.GetComment()); text != "" {
			return text
		}
	}

	return commentText(mvn.Key.GetComment())
}

// commentText strips comment markers. Only the comments after the last
// blank line are kept, so a separated header is not taken as a field
// comment. Empty comment lines are dropped.
func commentText(cg *ast.CommentGroupNode) string {
	if cg == nil {
		return ""
	}

	var (
		kept []string
		prev int
	)

	for _, c := range cg.Comments {
		if c == nil || c.Token == nil {
			continue
		}

		line := c.Token.Position.Line
		if len(kept) > 0 && line > prev+1 {
			kept = kept[:0]
		}

		prev = line

		text := strings.TrimSpace(strings.TrimLeft(c.Token.Value, "#"))
		if text != "" {
			kept = append(kept, text)
		}
	}

	return strings.Join(kept, "\n")
}
