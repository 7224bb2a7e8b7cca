// Package document loads, edits, and saves commented YAML configuration
// documents.
//
// A [Document] holds an ordered tree read from a [socket.Socket], plus the
// comment table and header lines used when it is saved. Saving renders the
// tree with [weave.Renderer], so comments and headers are regenerated on
// every save rather than preserved from the loaded text.
//
// A [Reference] binds a Document to a [schema.Schema]:
//
//	s, err := schema.Load("schema.yaml")
//	if err != nil {
//		return err
//	}
//
//	ref := document.NewReference(document.New(socket.FromPath("config.yaml")), s)
//
//	err = ref.Reload() // load, fill defaults, install comments and headers
//	if err != nil {
//		return err
//	}
//
//	ref.Set("workers", 8)
//
//	err = ref.Save()
//
// Use [Config] to expose rendering choices as CLI flags.
package document
