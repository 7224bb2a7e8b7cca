package weave

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ArrayCommentStyle decides how often a comment is repeated when its path
// occurs more than once, which happens for paths inside sequences.
type ArrayCommentStyle int

const (
	// FirstElement inserts a comment only at the first occurrence of its path.
	FirstElement ArrayCommentStyle = iota
	// AllElements inserts a comment at every occurrence of its path.
	AllElements
)

// ErrUnknownArrayCommentStyle indicates an unrecognized array comment style
// string.
var ErrUnknownArrayCommentStyle = errors.New("unknown array comment style")

// String returns the flag spelling of the style.
func (s ArrayCommentStyle) String() string {
	switch s {
	case FirstElement:
		return "first"
	case AllElements:
		return "all"
	}

	return fmt.Sprintf("ArrayCommentStyle(%d)", int(s))
}

// ParseArrayCommentStyle parses "first" or "all".
func ParseArrayCommentStyle(s string) (ArrayCommentStyle, error) {
	switch strings.ToLower(s) {
	case "first", "first-element":
		return FirstElement, nil
	case "all", "all-elements":
		return AllElements, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownArrayCommentStyle, s)
}

// GetAllArrayCommentStyleStrings returns the accepted style strings.
func GetAllArrayCommentStyleStrings() []string {
	return []string{FirstElement.String(), AllElements.String()}
}

// Weaver inserts comment blocks into emitted lines.
type Weaver struct {
	logger *slog.Logger
	table  CommentTable
	style  ArrayCommentStyle
	align  bool
}

// NewWeaver creates a [Weaver] for table using style.
func NewWeaver(table CommentTable, style ArrayCommentStyle) *Weaver {
	return &Weaver{table: table, style: style}
}

// Weave returns lines with comment blocks inserted before the line of every
// anchor step whose path has an entry in the table. lines is not modified.
//
// Steps must be in stream order: their lines may not decrease and may not
// exceed len(lines). Otherwise Weave returns an error wrapping [ErrStructure]
// and no output.
func (w *Weaver) Weave(lines []string, steps []Step) ([]string, error) {
	out := make([]string, len(lines))
	copy(out, lines)

	if w.table.Len() == 0 {
		return out, nil
	}

	var (
		inserted = make(map[string]bool)
		offset   int
		last     int
	)

	for i, step := range steps {
		if step.Line < last || step.Line > len(lines) {
			return nil, fmt.Errorf("%w: step %d: line %d out of order (previous %d, %d lines)",
				ErrStructure, i, step.Line, last, len(lines))
		}

		last = step.Line

		if !step.Anchor {
			continue
		}

		path := step.Path.String()

		block, ok := w.table.Lookup(path)
		if !ok {
			continue
		}

		if inserted[path] && w.style != AllElements {
			continue
		}

		at := step.Line + offset
		if w.align && step.Line < len(lines) {
			block = alignBlock(block, indentOf(lines[step.Line]))
		}

		out = insertLines(out, at, block)
		offset += len(block)
		inserted[path] = true

		if w.logger != nil {
			w.logger.Debug("inserted comment",
				slog.String("path", path),
				slog.Int("line", at),
				slog.Int("lines", len(block)),
			)
		}
	}

	return out, nil
}

// VisitedPaths returns the set of paths introduced by anchor steps.
func VisitedPaths(steps []Step) map[string]bool {
	visited := make(map[string]bool)

	for _, step := range steps {
		if step.Anchor {
			visited[step.Path.String()] = true
		}
	}

	return visited
}

func insertLines(lines []string, at int, block []string) []string {
	if len(block) == 0 {
		return lines
	}

	out := make([]string, 0, len(lines)+len(block))
	out = append(out, lines[:at]...)
	out = append(out, block...)

	return append(out, lines[at:]...)
}

// indentOf returns the leading whitespace of line.
func indentOf(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// alignBlock re-indents the non-empty lines of block to indent.
func alignBlock(block []string, indent string) []string {
	out := make([]string, len(block))

	for i, line := range block {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}

		out[i] = indent + trimmed
	}

	return out
}
