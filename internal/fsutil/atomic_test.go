package fsutil

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRenameFS struct {
	*MemoryFileSystem
}

func (failingRenameFS) Rename(oldpath, newpath string) error {
	return errors.New("disk full")
}

func TestTempPath_SiblingAndUnique(t *testing.T) {
	a := TempPath("/out/transforms.json")
	b := TempPath("/out/transforms.json")

	assert.Equal(t, "/out", filepath.Dir(a))
	assert.True(t, strings.HasPrefix(filepath.Base(a), ".transforms.json."))
	assert.True(t, strings.HasSuffix(a, ".tmp"))
	assert.NotEqual(t, a, b)

	assert.Equal(t, ".", filepath.Dir(TempPath("transforms.json")))
}

func TestWriteAtomic_Success(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.AddDir("/out")

	err := WriteAtomic(mfs, "/out/m.json", func(w io.Writer) error {
		_, err := io.WriteString(w, "{}")
		return err
	})
	require.NoError(t, err)

	data, err := mfs.ReadFile("/out/m.json")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
	assert.Equal(t, []string{"/out/m.json"}, mfs.Files())
}

func TestWriteAtomic_OS(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m.json")

	require.NoError(t, WriteAtomic(OSFileSystem{}, path, func(w io.Writer) error {
		_, err := io.WriteString(w, "[1]")
		return err
	}))

	data, err := OSFileSystem{}.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[1]", string(data))
}

func TestWriteAtomic_WriterErrorLeavesNothing(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.WriteFile("/out/m.json", []byte("previous"))

	boom := errors.New("encode failed")
	err := WriteAtomic(mfs, "/out/m.json", func(w io.Writer) error {
		io.WriteString(w, "partial")
		return boom
	})
	require.ErrorIs(t, err, boom)

	data, err := mfs.ReadFile("/out/m.json")
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
	assert.Empty(t, mfs.FilesWithPrefix("/out", ".m.json"))
}

func TestWriteAtomic_RenameErrorLeavesNothing(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.AddDir("/out")

	err := WriteAtomic(failingRenameFS{mfs}, "/out/m.json", func(w io.Writer) error {
		_, err := io.WriteString(w, "{}")
		return err
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Empty(t, mfs.Files())
}

func TestWriteAtomic_MissingDirectory(t *testing.T) {
	mfs := NewMemoryFileSystem()

	err := WriteAtomic(mfs, "/missing/m.json", func(w io.Writer) error { return nil })
	require.Error(t, err)
	assert.Empty(t, mfs.Files())
}
