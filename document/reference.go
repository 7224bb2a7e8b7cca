package document

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"go.jacobcolvin.com/commentspec/schema"
)

// Reference binds a [Document] to the [schema.Schema] that describes it.
//
// Create instances with [NewReference].
type Reference struct {
	doc      *Document
	schema   *schema.Schema
	validate bool
}

// ReferenceOption configures a [Reference].
type ReferenceOption func(*Reference)

// WithValidation makes [Reference.Reload] and [Reference.Save] validate the
// tree against the schema.
func WithValidation(validate bool) ReferenceOption {
	return func(r *Reference) {
		r.validate = validate
	}
}

// NewReference creates a [Reference] for doc described by s.
func NewReference(doc *Document, s *schema.Schema, opts ...ReferenceOption) *Reference {
	r := &Reference{doc: doc, schema: s}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Document returns the bound document.
func (r *Reference) Document() *Document {
	return r.doc
}

// Schema returns the bound schema.
func (r *Reference) Schema() *schema.Schema {
	return r.schema
}

// Reload loads the document, fills in schema defaults, and installs the
// schema's comments and headers. With validation enabled, it returns an
// error wrapping [schema.ErrValidation] for an invalid document; the
// document is still loaded.
func (r *Reference) Reload() error {
	err := r.doc.Load()
	if err != nil {
		return err
	}

	tree := r.schema.ApplyDefaults(r.doc.Tree())

	r.doc.Reset(tree)
	r.doc.SetComments(r.schema.Comments())
	r.doc.SetHeaders(r.schema.Headers())

	if r.validate {
		return r.check(tree)
	}

	return nil
}

// Save writes the document. With validation enabled, an invalid document is
// not written.
func (r *Reference) Save() error {
	if r.validate {
		err := r.check(r.doc.Tree())
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSave, err)
		}
	}

	return r.doc.Save()
}

// Reset replaces the tree with the schema defaults.
func (r *Reference) Reset() {
	r.doc.Reset(r.schema.Defaults())
}

// Get returns the top-level value for key.
func (r *Reference) Get(key string) (any, bool) {
	return r.doc.Get(key)
}

// Set sets the top-level value for key. A nil value deletes the key.
func (r *Reference) Set(key string, value any) {
	r.doc.Set(key, value)
}

func (r *Reference) check(tree yaml.MapSlice) error {
	err := r.schema.Validate(tree)
	if err != nil {
		return fmt.Errorf("%s: %w", r.doc.Socket(), err)
	}

	return nil
}
