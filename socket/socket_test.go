package socket_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/commentspec/socket"
)

func TestFromPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "dir", "config.yaml")

	s := socket.FromPath(path)
	assert.True(t, s.CanRead())
	assert.True(t, s.CanWrite())
	assert.Equal(t, path, s.Path())
	assert.Equal(t, path, s.String())

	data, err := s.Read()
	require.NoError(t, err)
	assert.Empty(t, data)

	require.NoError(t, s.WriteLines([]string{"# head", "", "a: 1"}))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# head\n\na: 1\n", string(got))

	data, err = s.Read()
	require.NoError(t, err)
	assert.Equal(t, "# head\n\na: 1\n", string(data))

	require.NoError(t, s.WriteLines([]string{"b: 2"}))

	data, err = s.Read()
	require.NoError(t, err)
	assert.Equal(t, "b: 2\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)

	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), socket.TempFilePrefix), "temp file left behind: %s", e.Name())
	}
}

func TestFromPathKeepsMode(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0o600))

	require.NoError(t, socket.FromPath(path).WriteLines([]string{"a: 2"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFromBuffer(t *testing.T) {
	t.Parallel()

	buf := bytes.NewBufferString("a: 1\n")
	s := socket.FromBuffer(buf)

	data, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", string(data))

	// Reading does not drain the buffer.
	assert.Equal(t, "a: 1\n", buf.String())

	require.NoError(t, s.WriteLines([]string{"b: 2", "c: 3"}))
	assert.Equal(t, "b: 2\nc: 3\n", buf.String())
	assert.Equal(t, "<stream>", s.String())
	assert.Empty(t, s.Path())
}

type errWriter struct{ closed bool }

func (w *errWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func (w *errWriter) Close() error {
	w.closed = true

	return nil
}

func TestSocketSides(t *testing.T) {
	t.Parallel()

	ro := socket.ReadOnly(func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("x")), nil
	})
	assert.True(t, ro.CanRead())
	assert.False(t, ro.CanWrite())
	require.ErrorIs(t, ro.WriteLines([]string{"x"}), socket.ErrNotWritable)

	var sink bytes.Buffer

	wo := socket.WriteOnly(func() (io.WriteCloser, error) {
		return nopWriteCloser{&sink}, nil
	})
	assert.False(t, wo.CanRead())
	assert.True(t, wo.CanWrite())

	_, err := wo.Read()
	require.ErrorIs(t, err, socket.ErrNotReadable)

	require.NoError(t, wo.WriteLines([]string{"y"}))
	assert.Equal(t, "y\n", sink.String())

	w := &errWriter{}
	failing := socket.WriteOnly(func() (io.WriteCloser, error) { return w, nil })
	require.ErrorContains(t, failing.WriteLines([]string{"z"}), "disk full")
	assert.True(t, w.closed)

	openErr := socket.ReadOnly(func() (io.ReadCloser, error) { return nil, os.ErrPermission })
	_, err = openErr.Read()
	require.ErrorIs(t, err, os.ErrPermission)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
