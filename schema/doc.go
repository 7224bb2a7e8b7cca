// Package schema describes configuration documents: their keys, comments,
// defaults, and constraints.
//
// A [Schema] is a plain value. Build it with struct literals or load it from
// a YAML definition with [Parse]:
//
//	header:
//	  - Server configuration
//	fields:
//	  - name: listenAddress
//	    comment: Address to bind.
//	    type: string
//	    default: ":8080"
//	  - key: workers
//	    comment: |
//	      Worker pool size.
//	      Zero disables the pool.
//	    type: integer
//	    default: 4
//	    minimum: 0
//	  - key: servers
//	    comment: Upstream servers.
//	    items:
//	      fields:
//	        - key: host
//	          type: string
//	        - key: port
//	          type: integer
//	          rule: value > 0 && value < 65536
//
// Field keys default to the kebab-case form of the field name, so
// "listenAddress" above is stored as "listen-address".
//
// From a schema the package derives everything a commented document needs:
//
//   - [Schema.Comments] builds the [weave.CommentTable] for rendering, with
//     fields inside lists addressed through [weave.ArrayMarker].
//   - [Schema.Headers] returns the header lines.
//   - [Schema.Defaults] and [Schema.ApplyDefaults] produce and merge ordered
//     default values.
//   - [Schema.JSONSchema] exports a JSON Schema for editors and other tools.
//   - [Schema.Validate] checks a loaded tree against the JSON Schema
//     constraints and each field's expr rule.
//
// [Infer] goes the other way: it derives a schema from an example document,
// and [Marshal] writes any schema back out as a definition.
//
// # Field order
//
// Fields with a zero Order keep their declaration order and come first.
// Fields with a positive Order follow, sorted ascending; ties keep
// declaration order.
package schema
