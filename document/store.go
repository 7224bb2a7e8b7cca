package document

import "github.com/goccy/go-yaml"

// Store is an ordered key-value view of a configuration document's
// top-level mapping.
type Store interface {
	// Get returns the value for key and whether it is present.
	Get(key string) (any, bool)
	// Set replaces the value for key, appending the key if it is new. A nil
	// value deletes the key.
	Set(key string, value any)
	// Delete removes key if present.
	Delete(key string)
	// Reset replaces the whole tree.
	Reset(tree yaml.MapSlice)
	// Keys returns the top-level keys in document order.
	Keys() []string
	// Tree returns a copy of the top-level mapping.
	Tree() yaml.MapSlice
}
