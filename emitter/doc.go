// Package emitter provides [weave.Emitter] implementations backed by YAML
// libraries.
//
// An emitter marshals an ordered tree to block-style YAML, then parses its
// own output to recover a structural event stream whose line numbers index
// into the emitted text. Re-parsing keeps the events exactly aligned with the
// lines, whatever quoting or scalar styles the marshaler chose.
//
// Trees are built from:
//
//   - [yaml.MapSlice] for ordered mappings (from [github.com/goccy/go-yaml]),
//   - map[string]any for unordered mappings (keys are emitted sorted),
//   - []any for sequences,
//   - any scalar the underlying library can marshal.
//
// [Goccy] is the default. [YAMLv3] produces the indentation style of
// [gopkg.in/yaml.v3], where sequences are indented under their key. Use [New]
// to select one by name, for example from a CLI flag.
//
// Both emitters are stateless after construction and safe for concurrent use.
package emitter
