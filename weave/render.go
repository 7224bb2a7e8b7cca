package weave

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrEmit indicates the [Emitter] failed to render the tree.
var ErrEmit = errors.New("emit")

// Renderer renders trees with comments and a header.
//
// Create instances with [NewRenderer].
type Renderer struct {
	emitter Emitter
	logger  *slog.Logger
	table   CommentTable
	headers []string
	style   ArrayCommentStyle
	align   bool
}

// Option configures a [Renderer].
type Option func(*Renderer)

// NewRenderer creates a [Renderer] that emits trees with em.
func NewRenderer(em Emitter, opts ...Option) *Renderer {
	r := &Renderer{
		emitter: em,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// WithComments sets the comment table.
func WithComments(table CommentTable) Option {
	return func(r *Renderer) {
		r.table = table
	}
}

// WithHeaders sets the header lines placed before the document.
func WithHeaders(headers []string) Option {
	return func(r *Renderer) {
		r.headers = headers
	}
}

// WithArrayCommentStyle sets how comments repeat across sequence elements.
func WithArrayCommentStyle(style ArrayCommentStyle) Option {
	return func(r *Renderer) {
		r.style = style
	}
}

// WithAlignedComments re-indents comment lines to the indentation of the line
// they precede, instead of inserting them verbatim.
func WithAlignedComments() Option {
	return func(r *Renderer) {
		r.align = true
	}
}

// WithLogger sets the logger used for debug output. The default is
// [slog.Default].
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// Render is shorthand for a single [Renderer.Render] with the given comments,
// headers, and style.
func Render(em Emitter, tree any, table CommentTable, headers []string, style ArrayCommentStyle) ([]string, error) {
	r := NewRenderer(em,
		WithComments(table),
		WithHeaders(headers),
		WithArrayCommentStyle(style),
	)

	return r.Render(tree)
}

// Render emits tree and returns the output lines, without line separators.
//
// The emitted lines pass through comment insertion, header injection, and
// [TrimDocument], in that order. Any error aborts the render; no partially
// commented output is returned.
func (r *Renderer) Render(tree any) ([]string, error) {
	em, err := r.emitter.Emit(tree)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmit, err)
	}

	steps, err := Track(em.Events)
	if err != nil {
		return nil, err
	}

	w := r.weaver()

	lines, err := w.Weave(em.Lines, steps)
	if err != nil {
		return nil, err
	}

	lines = InjectHeader(lines, r.headers)

	return TrimDocument(lines), nil
}

// Visited emits tree and returns the set of paths the comment table could
// attach to. It is the strict counterpart of [Renderer.Render]: comparing it
// with [CommentTable.Unmatched] finds comments for locations that do not
// exist.
func (r *Renderer) Visited(tree any) (map[string]bool, error) {
	em, err := r.emitter.Emit(tree)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmit, err)
	}

	steps, err := Track(em.Events)
	if err != nil {
		return nil, err
	}

	return VisitedPaths(steps), nil
}

// Comments returns the renderer's comment table.
func (r *Renderer) Comments() CommentTable {
	return r.table
}

func (r *Renderer) weaver() *Weaver {
	w := NewWeaver(r.table, r.style)
	w.align = r.align
	w.logger = r.logger

	return w
}
