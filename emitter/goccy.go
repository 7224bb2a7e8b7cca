package emitter

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"

	"go.jacobcolvin.com/commentspec/weave"
)

// Goccy emits YAML with [github.com/goccy/go-yaml].
//
// Create instances with [NewGoccy].
type Goccy struct {
	settings
}

// NewGoccy creates a [Goccy] emitter. By default it indents by two spaces and
// does not indent sequences under their key.
func NewGoccy(opts ...Option) *Goccy {
	return &Goccy{settings: newSettings(opts)}
}

// Emit implements [weave.Emitter].
func (g *Goccy) Emit(tree any) (*weave.Emission, error) {
	b, err := yaml.MarshalWithOptions(stringKeys(tree),
		yaml.Indent(g.indent),
		yaml.IndentSequence(g.indentSequence),
		yaml.UseLiteralStyleIfMultiline(true),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMarshal, err)
	}

	file, err := parser.ParseBytes(b, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	var ev events

	for _, doc := range file.Docs {
		line := ev.last
		if doc.Start != nil {
			line = tokenLine(doc.Start, line)
		}

		ev.add(weave.DocumentStart, "", line)

		err := walkGoccy(&ev, doc.Body)
		if err != nil {
			return nil, err
		}
	}

	return &weave.Emission{Lines: splitLines(b), Events: ev.out}, nil
}

// stringKeys returns a copy of v in which every [yaml.MapSlice] key is a
// string. goccy/go-yaml panics on other key types in a MapSlice.
func stringKeys(v any) any {
	switch t := v.(type) {
	case yaml.MapSlice:
		out := make(yaml.MapSlice, len(t))
		for i, item := range t {
			key := item.Key
			if _, ok := key.(string); !ok {
				key = fmt.Sprint(key)
			}

			out[i] = yaml.MapItem{Key: key, Value: stringKeys(item.Value)}
		}

		return out

	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = stringKeys(elem)
		}

		return out

	case map[string]any:
		out := make(map[string]any, len(t))
		for k, elem := range t {
			out[k] = stringKeys(elem)
		}

		return out
	}

	return v
}

func walkGoccy(ev *events, node ast.Node) error {
	switch n := node.(type) {
	case nil:
		return nil

	case *ast.TagNode:
		return walkGoccy(ev, n.Value)

	case *ast.AnchorNode:
		return walkGoccy(ev, n.Value)

	case *ast.MappingNode:
		line := tokenLine(n.GetToken(), ev.last)
		if len(n.Values) > 0 {
			line = tokenLine(n.Values[0].Key.GetToken(), line)
		}

		ev.add(weave.MapStart, "", line)

		for _, mvn := range n.Values {
			err := walkGoccyPair(ev, mvn)
			if err != nil {
				return err
			}
		}

		ev.end(weave.MapEnd)

	case *ast.MappingValueNode:
		ev.add(weave.MapStart, "", tokenLine(n.Key.GetToken(), ev.last))

		err := walkGoccyPair(ev, n)
		if err != nil {
			return err
		}

		ev.end(weave.MapEnd)

	case *ast.SequenceNode:
		ev.add(weave.SequenceStart, "", tokenLine(n.GetToken(), ev.last))

		for _, v := range n.Values {
			err := walkGoccy(ev, v)
			if err != nil {
				return err
			}
		}

		ev.end(weave.SequenceEnd)

	default:
		ev.add(weave.Scalar, goccyScalarText(n), tokenLine(n.GetToken(), ev.last))
	}

	return nil
}

func walkGoccyPair(ev *events, mvn *ast.MappingValueNode) error {
	var key ast.Node = mvn.Key
	if mk, ok := key.(*ast.MappingKeyNode); ok {
		key = mk.Value
	}

	switch key.(type) {
	case *ast.MappingNode, *ast.MappingValueNode, *ast.SequenceNode:
		return fmt.Errorf("%w: collection keys are not supported (line %d)",
			ErrParse, tokenLine(key.GetToken(), ev.last)+1)
	}

	ev.add(weave.Scalar, goccyScalarText(key), tokenLine(key.GetToken(), ev.last))

	return walkGoccy(ev, mvn.Value)
}

// goccyScalarText returns the unquoted text of a scalar node.
func goccyScalarText(node ast.Node) string {
	switch n := node.(type) {
	case *ast.StringNode:
		return n.Value
	case *ast.LiteralNode:
		if n.Value != nil {
			return n.Value.Value
		}

		return ""
	case *ast.NullNode:
		return "null"
	case ast.ScalarNode:
		return fmt.Sprint(n.GetValue())
	}

	return node.String()
}

// tokenLine converts a 1-based token line to a 0-based line, falling back to
// def when the token is missing.
func tokenLine(tk *token.Token, def int) int {
	if tk == nil || tk.Position == nil || tk.Position.Line < 1 {
		return def
	}

	return tk.Position.Line - 1
}
