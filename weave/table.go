package weave

import (
	"maps"
	"slices"
	"strings"
)

// CommentTable maps dotted path strings to comment blocks. Each block is
// inserted one output line per element.
//
// A CommentTable is immutable once built and safe for concurrent use. The
// zero value is an empty table.
type CommentTable struct {
	blocks map[string][]string
}

// NewCommentTable creates a [CommentTable] from path to block mappings.
// The map and its slices are copied.
func NewCommentTable(blocks map[string][]string) CommentTable {
	t := CommentTable{blocks: make(map[string][]string, len(blocks))}
	for path, block := range blocks {
		t.blocks[path] = slices.Clone(block)
	}

	return t
}

// CommentTableFromStrings creates a [CommentTable] from path to comment text
// mappings, splitting each text into lines on "\n".
func CommentTableFromStrings(comments map[string]string) CommentTable {
	t := CommentTable{blocks: make(map[string][]string, len(comments))}
	for path, text := range comments {
		t.blocks[path] = strings.Split(text, "\n")
	}

	return t
}

// Lookup returns the block for path and whether one exists. The returned
// slice must not be modified.
func (t CommentTable) Lookup(path string) ([]string, bool) {
	block, ok := t.blocks[path]

	return block, ok
}

// Len returns the number of entries.
func (t CommentTable) Len() int {
	return len(t.blocks)
}

// Paths returns every path in the table, sorted.
func (t CommentTable) Paths() []string {
	return slices.Sorted(maps.Keys(t.blocks))
}

// With returns a copy of t with the block for path set to block.
func (t CommentTable) With(path string, block ...string) CommentTable {
	c := CommentTable{blocks: maps.Clone(t.blocks)}
	if c.blocks == nil {
		c.blocks = make(map[string][]string, 1)
	}

	c.blocks[path] = slices.Clone(block)

	return c
}

// Unmatched returns the sorted paths of t that are absent from visited.
// Pair it with [VisitedPaths] to detect comments that point at locations the
// tree does not have.
func (t CommentTable) Unmatched(visited map[string]bool) []string {
	var out []string

	for path := range t.blocks {
		if !visited[path] {
			out = append(out, path)
		}
	}

	slices.Sort(out)

	return out
}
