package emitter

import (
	"bytes"
	"fmt"
	"reflect"
	"slices"

	goccy "github.com/goccy/go-yaml"
	"gopkg.in/yaml.v3"

	"go.jacobcolvin.com/commentspec/weave"
)

// YAMLv3 emits YAML with [gopkg.in/yaml.v3].
//
// Create instances with [NewYAMLv3].
type YAMLv3 struct {
	settings
}

// NewYAMLv3 creates a [YAMLv3] emitter. By default it indents by two spaces.
func NewYAMLv3(opts ...Option) *YAMLv3 {
	return &YAMLv3{settings: newSettings(opts)}
}

// Emit implements [weave.Emitter].
func (y *YAMLv3) Emit(tree any) (*weave.Emission, error) {
	node, err := toNode(tree)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMarshal, err)
	}

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(y.indent)

	err = enc.Encode(node)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMarshal, err)
	}

	err = enc.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMarshal, err)
	}

	var doc yaml.Node

	err = yaml.Unmarshal(buf.Bytes(), &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	var ev events

	err = walkYAMLv3(&ev, &doc)
	if err != nil {
		return nil, err
	}

	return &weave.Emission{Lines: splitLines(buf.Bytes()), Events: ev.out}, nil
}

func walkYAMLv3(ev *events, n *yaml.Node) error {
	line := nodeLine(n, ev.last)

	switch n.Kind {
	case yaml.DocumentNode:
		ev.add(weave.DocumentStart, "", line)

		for _, c := range n.Content {
			err := walkYAMLv3(ev, c)
			if err != nil {
				return err
			}
		}

	case yaml.MappingNode:
		if len(n.Content) > 0 {
			line = nodeLine(n.Content[0], line)
		}

		ev.add(weave.MapStart, "", line)

		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return fmt.Errorf("%w: collection keys are not supported (line %d)", ErrParse, key.Line)
			}

			ev.add(weave.Scalar, key.Value, nodeLine(key, ev.last))

			err := walkYAMLv3(ev, n.Content[i+1])
			if err != nil {
				return err
			}
		}

		ev.end(weave.MapEnd)

	case yaml.SequenceNode:
		ev.add(weave.SequenceStart, "", line)

		for _, c := range n.Content {
			err := walkYAMLv3(ev, c)
			if err != nil {
				return err
			}
		}

		ev.end(weave.SequenceEnd)

	case yaml.AliasNode, yaml.ScalarNode:
		ev.add(weave.Scalar, n.Value, line)

	default:
		return fmt.Errorf("%w: unexpected node kind %d (line %d)", ErrParse, n.Kind, n.Line)
	}

	return nil
}

func nodeLine(n *yaml.Node, def int) int {
	if n.Line < 1 {
		return def
	}

	return n.Line - 1
}

// toNode converts an ordered tree into a yaml.v3 node, keeping the order of
// [goccy.MapSlice] entries.
func toNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case goccy.MapSlice:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

		for _, item := range t {
			err := appendPair(n, item.Key, item.Value)
			if err != nil {
				return nil, err
			}
		}

		return n, nil

	case map[string]any:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		for _, k := range keys {
			err := appendPair(n, k, t[k])
			if err != nil {
				return nil, err
			}
		}

		return n, nil

	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}

		for _, item := range t {
			c, err := toNode(item)
			if err != nil {
				return nil, err
			}

			n.Content = append(n.Content, c)
		}

		return n, nil
	}

	// yaml.v3 panics on these instead of returning an error.
	switch reflect.ValueOf(v).Kind() {
	case reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128:
		return nil, fmt.Errorf("cannot marshal type %T", v)
	}

	n := &yaml.Node{}

	err := n.Encode(v)
	if err != nil {
		return nil, err
	}

	return n, nil
}

func appendPair(n *yaml.Node, key, value any) error {
	k := &yaml.Node{}

	err := k.Encode(key)
	if err != nil {
		return fmt.Errorf("key %v: %w", key, err)
	}

	val, err := toNode(value)
	if err != nil {
		return fmt.Errorf("key %v: %w", key, err)
	}

	n.Content = append(n.Content, k, val)

	return nil
}
