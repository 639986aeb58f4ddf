package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// TempSuffix marks files that are still being written.
const TempSuffix = ".tmp"

// WriteFileAtomic streams write into a uniquely named temp file next to
// path and renames it into place once write and close succeed.
func WriteFileAtomic(path string, write func(io.Writer) error) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("create %s: %w", dir, err)
	}

	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+TempSuffix)
	f, err := os.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}

	cw := &countingWriter{w: f}
	if err := write(cw); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return 0, err
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("rename into %s: %w", path, err)
	}

	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
