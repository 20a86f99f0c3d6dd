package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/google/uuid"
)

// TempPrefix is prepended to the base name of in-flight temporary files.
const TempPrefix = "."

// TempPath returns a unique sibling path for staging writes to path.
func TempPath(path string) string {
	dir, base := filepath.Split(filepath.Clean(path))
	return filepath.Join(dir, fmt.Sprintf("%s%s.%s.tmp", TempPrefix, base, uuid.NewString()))
}

type syncer interface {
	Sync() error
}

// WriteAtomic streams write's output into a temporary sibling of path and
// renames it over path once write, Sync and Close have all succeeded. On any
// failure the temporary file is removed and path is left untouched.
func WriteAtomic(fsys FileSystem, path string, write func(io.Writer) error) (err error) {
	tmp := TempPath(path)
	w, err := fsys.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	defer func() {
		if err != nil {
			if rmErr := fsys.Remove(tmp); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				err = errors.Join(err, fmt.Errorf("remove temp file: %w", rmErr))
			}
		}
	}()

	if err = write(w); err != nil {
		w.Close()
		return err
	}
	if s, ok := w.(syncer); ok {
		if err = s.Sync(); err != nil {
			w.Close()
			return fmt.Errorf("sync temp file: %w", err)
		}
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = fsys.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
