package document

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/goccy/go-yaml"

	"go.jacobcolvin.com/commentspec/emitter"
	"go.jacobcolvin.com/commentspec/socket"
	"go.jacobcolvin.com/commentspec/weave"
)

var (
	// ErrLoad indicates the document could not be read or decoded.
	ErrLoad = errors.New("load document")
	// ErrSave indicates the document could not be rendered or written.
	ErrSave = errors.New("save document")
	// ErrNotMapping indicates a document whose root is not a mapping.
	ErrNotMapping = errors.New("document root is not a mapping")
)

// Document is a configuration document with comments and headers.
//
// Create instances with [New]. A Document is safe for concurrent use.
type Document struct {
	emitter  weave.Emitter
	socket   *socket.Socket
	logger   *slog.Logger
	comments weave.CommentTable
	tree     yaml.MapSlice
	headers  []string
	style    weave.ArrayCommentStyle
	mu       sync.RWMutex
	align    bool
}

var _ Store = (*Document)(nil)

// Option configures a [Document].
type Option func(*Document)

// WithEmitter sets the emitter used to render the document. The default is
// [emitter.NewGoccy].
func WithEmitter(em weave.Emitter) Option {
	return func(d *Document) {
		d.emitter = em
	}
}

// WithArrayCommentStyle sets how comments repeat across list elements.
func WithArrayCommentStyle(style weave.ArrayCommentStyle) Option {
	return func(d *Document) {
		d.style = style
	}
}

// WithAlignedComments indents comments to the line they precede.
func WithAlignedComments(align bool) Option {
	return func(d *Document) {
		d.align = align
	}
}

// WithLogger sets the logger. The default is [slog.Default].
func WithLogger(logger *slog.Logger) Option {
	return func(d *Document) {
		d.logger = logger
	}
}

// New creates an empty [Document] backed by s.
func New(s *socket.Socket, opts ...Option) *Document {
	d := &Document{
		socket:  s,
		emitter: emitter.NewGoccy(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Socket returns the document's socket.
func (d *Document) Socket() *socket.Socket {
	return d.socket
}

// Load replaces the tree with the socket's content. Empty content, or a
// document that is only null, loads as an empty tree.
func (d *Document) Load() error {
	data, err := d.socket.Read()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}

	tree, err := decode(data)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLoad, d.socket, err)
	}

	d.mu.Lock()
	d.tree = tree
	d.mu.Unlock()

	d.logger.Debug("loaded document",
		slog.String("source", d.socket.String()),
		slog.Int("keys", len(tree)),
	)

	return nil
}

func decode(data []byte) (yaml.MapSlice, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return yaml.MapSlice{}, nil
	}

	var v any

	err := yaml.UnmarshalWithOptions(data, &v, yaml.UseOrderedMap())
	if err != nil {
		return nil, err
	}

	switch t := v.(type) {
	case nil:
		return yaml.MapSlice{}, nil
	case yaml.MapSlice:
		return t, nil
	}

	return nil, fmt.Errorf("%w: got %T", ErrNotMapping, v)
}

// Get implements [Store].
func (d *Document) Get(key string) (any, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	i := d.index(key)
	if i < 0 {
		return nil, false
	}

	return d.tree[i].Value, true
}

// Set implements [Store].
func (d *Document) Set(key string, value any) {
	if value == nil {
		d.Delete(key)

		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.index(key)
	if i < 0 {
		d.tree = append(d.tree, yaml.MapItem{Key: key, Value: value})

		return
	}

	d.tree[i].Value = value
}

// Delete implements [Store].
func (d *Document) Delete(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.index(key)
	if i >= 0 {
		d.tree = slices.Delete(d.tree, i, i+1)
	}
}

// Reset implements [Store].
func (d *Document) Reset(tree yaml.MapSlice) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.tree = slices.Clone(tree)
}

// Keys implements [Store].
func (d *Document) Keys() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	keys := make([]string, len(d.tree))
	for i, item := range d.tree {
		keys[i] = fmt.Sprint(item.Key)
	}

	return keys
}

// Tree implements [Store].
func (d *Document) Tree() yaml.MapSlice {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return slices.Clone(d.tree)
}

// index returns the position of key, or -1. Callers hold d.mu.
func (d *Document) index(key string) int {
	return slices.IndexFunc(d.tree, func(item yaml.MapItem) bool {
		return fmt.Sprint(item.Key) == key
	})
}

// SetComments replaces the comment table.
func (d *Document) SetComments(table weave.CommentTable) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.comments = table
}

// SetComment sets the comment block for one path, formatting each line with
// [weave.FormatCommentLine].
func (d *Document) SetComment(path string, lines ...string) {
	block := make([]string, len(lines))
	for i, l := range lines {
		block[i] = weave.FormatCommentLine(l)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.comments = d.comments.With(path, block...)
}

// Comments returns the comment table.
func (d *Document) Comments() weave.CommentTable {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.comments
}

// SetHeaders replaces the header lines.
func (d *Document) SetHeaders(headers []string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.headers = slices.Clone(headers)
}

// Headers returns the header lines.
func (d *Document) Headers() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return slices.Clone(d.headers)
}

// Render returns the document text as lines, with comments and headers.
func (d *Document) Render() ([]string, error) {
	r, headers, tree := d.snapshot()

	if len(tree) == 0 {
		return weave.InjectHeader(nil, headers), nil
	}

	return r.Render(tree)
}

// Unmatched returns the sorted comment paths that match no location in the
// current tree.
func (d *Document) Unmatched() ([]string, error) {
	r, _, tree := d.snapshot()

	if len(tree) == 0 {
		return r.Comments().Paths(), nil
	}

	visited, err := r.Visited(tree)
	if err != nil {
		return nil, err
	}

	return r.Comments().Unmatched(visited), nil
}

// Save renders the document and writes it to the socket.
func (d *Document) Save() error {
	lines, err := d.Render()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}

	err = d.socket.WriteLines(lines)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}

	d.logger.Debug("saved document",
		slog.String("destination", d.socket.String()),
		slog.Int("lines", len(lines)),
	)

	return nil
}

// snapshot returns a renderer for the current comments and settings, with
// copies of the headers and tree.
func (d *Document) snapshot() (*weave.Renderer, []string, yaml.MapSlice) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	opts := []weave.Option{
		weave.WithComments(d.comments),
		weave.WithHeaders(d.headers),
		weave.WithArrayCommentStyle(d.style),
		weave.WithLogger(d.logger),
	}

	if d.align {
		opts = append(opts, weave.WithAlignedComments())
	}

	return weave.NewRenderer(d.emitter, opts...), slices.Clone(d.headers), slices.Clone(d.tree)
}
