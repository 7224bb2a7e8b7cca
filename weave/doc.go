// Package weave renders an ordered configuration tree to YAML block text and
// places comment blocks at the lines that introduce specific fields or
// sequence elements.
//
// A YAML emitter produces text but no notion of which logical path each line
// belongs to. Package weave recovers that mapping from the emitter's
// structural event stream: a [Tracker] walks the [Event]s and reports the
// dotted [Path] being emitted at every event, and a [Weaver] looks each path
// up in a [CommentTable] and inserts the matching comment block before the
// event's line, correcting for the lines it has already inserted.
//
// Sequence elements have no key, so paths inside sequences use the
// [ArrayMarker] segment:
//
//	servers:          # servers
//	- host: a         # servers.<arr>, servers.<arr>.host
//	  port: 80        # servers.<arr>.port
//	- host: b         # servers.<arr>, servers.<arr>.host
//
// The [ArrayCommentStyle] decides whether a comment bound to such a path is
// inserted for the first element only ([FirstElement]) or for every element
// ([AllElements]).
//
// Typical usage pairs a [Renderer] with an emitter from
// [go.jacobcolvin.com/commentspec/emitter]:
//
//	table := weave.CommentTableFromStrings(map[string]string{
//		"name":           "# The display name.",
//		"servers.<arr>":  "# A backend server.",
//	})
//
//	r := weave.NewRenderer(emitter.NewGoccy(),
//		weave.WithComments(table),
//		weave.WithHeaders([]string{"Server configuration"}),
//		weave.WithArrayCommentStyle(weave.AllElements),
//	)
//
//	lines, err := r.Render(tree)
//
// Rendering is a pure function of its inputs. A [Renderer] holds no mutable
// state and may be shared between goroutines as long as its [Emitter] can.
package weave
