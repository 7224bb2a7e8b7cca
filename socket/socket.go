package socket

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	// ErrNotReadable indicates a read from a socket without a reader.
	ErrNotReadable = errors.New("socket not configured for reading")
	// ErrNotWritable indicates a write to a socket without a writer.
	ErrNotWritable = errors.New("socket not configured for writing")
)

// ReadFunc opens a new reader for the socket's content.
type ReadFunc func() (io.ReadCloser, error)

// WriteFunc opens a new writer that replaces the socket's content. The
// content is committed when the writer is closed.
type WriteFunc func() (io.WriteCloser, error)

// Socket is a readable and/or writable location for document text.
type Socket struct {
	reader ReadFunc
	writer WriteFunc
	path   string
}

// New creates a [Socket] from suppliers. Either may be nil.
func New(r ReadFunc, w WriteFunc) *Socket {
	return &Socket{reader: r, writer: w}
}

// ReadOnly creates a [Socket] that can only be read.
func ReadOnly(r ReadFunc) *Socket {
	return New(r, nil)
}

// WriteOnly creates a [Socket] that can only be written.
func WriteOnly(w WriteFunc) *Socket {
	return New(nil, w)
}

// FromPath creates a [Socket] for the file at path.
//
// A missing file reads as empty. Writes create missing parent directories
// and replace the file atomically, keeping its permissions when it exists.
func FromPath(path string) *Socket {
	return &Socket{
		path: path,
		reader: func() (io.ReadCloser, error) {
			f, err := os.Open(path) //nolint:gosec // Document path from the caller is expected.
			if errors.Is(err, fs.ErrNotExist) {
				return io.NopCloser(bytes.NewReader(nil)), nil
			}

			if err != nil {
				return nil, err
			}

			return f, nil
		},
		writer: func() (io.WriteCloser, error) {
			err := os.MkdirAll(filepath.Dir(path), 0o755)
			if err != nil {
				return nil, fmt.Errorf("create parent directory: %w", err)
			}

			return &fileWriter{path: path}, nil
		},
	}
}

// FromBuffer creates a [Socket] over buf. Reads return the current
// contents; a write replaces them when its writer is closed.
func FromBuffer(buf *bytes.Buffer) *Socket {
	return New(
		func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(bytes.Clone(buf.Bytes()))), nil
		},
		func() (io.WriteCloser, error) {
			return &bufferWriter{dst: buf}, nil
		},
	)
}

// CanRead reports whether the socket has a reader.
func (s *Socket) CanRead() bool {
	return s.reader != nil
}

// CanWrite reports whether the socket has a writer.
func (s *Socket) CanWrite() bool {
	return s.writer != nil
}

// Path returns the file path for sockets created with [FromPath], or "".
func (s *Socket) Path() string {
	return s.path
}

// String describes the socket for logs and errors.
func (s *Socket) String() string {
	if s.path != "" {
		return s.path
	}

	return "<stream>"
}

// Read returns the full content of the socket.
func (s *Socket) Read() ([]byte, error) {
	if s.reader == nil {
		return nil, ErrNotReadable
	}

	r, err := s.reader()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s, err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		_ = r.Close()

		return nil, fmt.Errorf("read %s: %w", s, err)
	}

	err = r.Close()
	if err != nil {
		return nil, fmt.Errorf("close %s: %w", s, err)
	}

	return data, nil
}

// WriteLines replaces the content of the socket with lines, each followed
// by a newline.
func (s *Socket) WriteLines(lines []string) error {
	if s.writer == nil {
		return ErrNotWritable
	}

	w, err := s.writer()
	if err != nil {
		return fmt.Errorf("open %s: %w", s, err)
	}

	var buf bytes.Buffer
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	_, err = w.Write(buf.Bytes())
	if err != nil {
		_ = w.Close()

		return fmt.Errorf("write %s: %w", s, err)
	}

	err = w.Close()
	if err != nil {
		return fmt.Errorf("close %s: %w", s, err)
	}

	return nil
}

// bufferWriter collects writes and replaces dst on Close.
type bufferWriter struct {
	dst *bytes.Buffer
	buf bytes.Buffer
}

func (w *bufferWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *bufferWriter) Close() error {
	w.dst.Reset()
	_, err := w.dst.Write(w.buf.Bytes())

	return err
}
