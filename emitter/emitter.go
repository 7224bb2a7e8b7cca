package emitter

import (
	"errors"
	"fmt"
	"strings"

	"go.jacobcolvin.com/commentspec/weave"
)

const (
	// NameGoccy selects [Goccy].
	NameGoccy = "goccy"
	// NameYAMLv3 selects [YAMLv3].
	NameYAMLv3 = "yaml.v3"

	defaultIndent = 2
)

var (
	// ErrUnknownEmitter indicates an unrecognized emitter name.
	ErrUnknownEmitter = errors.New("unknown emitter")
	// ErrMarshal indicates the tree could not be marshaled.
	ErrMarshal = errors.New("marshal tree")
	// ErrParse indicates the emitted text could not be parsed back.
	ErrParse = errors.New("parse emitted yaml")
)

// GetAllNames returns the names accepted by [New].
func GetAllNames() []string {
	return []string{NameGoccy, NameYAMLv3}
}

// New returns the emitter registered under name, using indent spaces per
// nesting level. An indent less than 1 uses the default of 2.
func New(name string, indent int) (weave.Emitter, error) {
	switch strings.ToLower(name) {
	case NameGoccy, "":
		return NewGoccy(WithIndent(indent)), nil
	case NameYAMLv3, "yamlv3":
		return NewYAMLv3(WithIndent(indent)), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownEmitter, name)
}

type settings struct {
	indent         int
	indentSequence bool
}

// Option configures an emitter.
type Option func(*settings)

// WithIndent sets the number of spaces per nesting level. Values less than 1
// keep the default of 2.
func WithIndent(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.indent = n
		}
	}
}

// WithIndentSequence indents block sequences under their parent key. Only
// [Goccy] honors it; [YAMLv3] always indents.
func WithIndentSequence(indent bool) Option {
	return func(s *settings) {
		s.indentSequence = indent
	}
}

func newSettings(opts []Option) settings {
	s := settings{indent: defaultIndent}
	for _, opt := range opts {
		opt(&s)
	}

	return s
}

// splitLines splits emitted text into lines without separators, dropping the
// final newline.
func splitLines(b []byte) []string {
	s := strings.TrimSuffix(string(b), "\n")
	if s == "" {
		return nil
	}

	return strings.Split(s, "\n")
}

// events accumulates an event stream. End events reuse the line of the
// previous event so lines never decrease.
type events struct {
	out  []weave.Event
	last int
}

func (e *events) add(kind weave.EventKind, value string, line int) {
	if line < e.last {
		line = e.last
	}

	e.last = line
	e.out = append(e.out, weave.Event{Kind: kind, Value: value, Line: line})
}

func (e *events) end(kind weave.EventKind) {
	e.add(kind, "", e.last)
}
