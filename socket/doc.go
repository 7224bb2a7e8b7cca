// Package socket provides [Socket], a source and sink for document text.
//
// A Socket pairs an optional reader supplier with an optional writer
// supplier. Documents load from the reader and save through the writer, so
// the same document code serves files, in-memory buffers, and read-only or
// write-only streams:
//
//	s := socket.FromPath("config.yaml")
//	data, err := s.Read()           // missing file reads as empty
//	err = s.WriteLines([]string{"a: 1"}) // atomic replace
//
// Using a side the socket lacks returns [ErrNotReadable] or [ErrNotWritable].
package socket
