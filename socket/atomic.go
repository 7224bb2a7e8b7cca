package socket

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// TempFilePrefix is the prefix of temporary files created while
	// replacing a file.
	TempFilePrefix = ".commentspec-tmp-"

	defaultPerm fs.FileMode = 0o644
)

// fileWriter collects writes and replaces the file at path on Close.
type fileWriter struct {
	path string
	buf  bytes.Buffer
}

func (w *fileWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *fileWriter) Close() error {
	perm := defaultPerm

	info, err := os.Stat(w.path)
	switch {
	case err == nil:
		perm = info.Mode().Perm()
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("stat: %w", err)
	}

	return writeFileAtomic(w.path, w.buf.Bytes(), perm)
}

// writeFileAtomic writes data to a temporary file in the target directory,
// syncs it, and renames it over filename.
func writeFileAtomic(filename string, data []byte, perm fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	defer os.Remove(tmp.Name()) //nolint:errcheck // Fails after a successful rename.

	_, err = tmp.Write(data)
	if err != nil {
		_ = tmp.Close()

		return fmt.Errorf("write temp file: %w", err)
	}

	err = tmp.Sync()
	if err != nil {
		_ = tmp.Close()

		return fmt.Errorf("sync temp file: %w", err)
	}

	err = tmp.Close()
	if err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	err = os.Chmod(tmp.Name(), perm)
	if err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	err = os.Rename(tmp.Name(), filename)
	if err != nil {
		return fmt.Errorf("rename temp file to %s: %w", filename, err)
	}

	return nil
}
