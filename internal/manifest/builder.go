package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/banshee-data/posemanifest/internal/config"
	"github.com/banshee-data/posemanifest/internal/fsutil"
	"github.com/banshee-data/posemanifest/internal/pose"
)

// Builder turns a pose log into a manifest according to a resolved
// configuration. A Builder holds no state between calls.
type Builder struct {
	settings config.Settings
	fs       fsutil.FileSystem
}

// NewBuilder returns a Builder that reads and writes through fsys.
func NewBuilder(settings config.Settings, fsys fsutil.FileSystem) *Builder {
	return &Builder{settings: settings, fs: fsys}
}

// Settings returns the configuration the builder was created with.
func (b *Builder) Settings() config.Settings {
	return b.settings
}

// Build reads the pose log and returns the manifest without writing it.
func (b *Builder) Build() (*Manifest, error) {
	records, err := b.readRecords()
	if err != nil {
		return nil, err
	}
	m, err := FromRecords(records, b.settings)
	if err != nil {
		return nil, fmt.Errorf("pose log %s: %w", b.settings.PoseFile, err)
	}
	return m, nil
}

// Run builds the manifest and writes it to the configured output path.
// Nothing is written if any step fails.
func (b *Builder) Run() (*Manifest, error) {
	m, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := Write(b.fs, b.settings.OutputPath, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (b *Builder) readRecords() ([]pose.Record, error) {
	path := b.settings.PoseFile
	f, err := b.fs.Open(path)
	if err != nil {
		if fsutil.IsNotExist(err) {
			return nil, fmt.Errorf("%w: pose log %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: open pose log %s: %w", ErrIO, path, err)
	}
	defer f.Close()

	records, err := pose.ParseLog(f)
	if err != nil {
		if errors.Is(err, pose.ErrMalformedRecord) {
			return nil, fmt.Errorf("pose log %s: %w", path, err)
		}
		return nil, fmt.Errorf("%w: pose log %s: %w", ErrIO, path, err)
	}
	return records, nil
}

// FromRecords converts parsed records into a manifest. Frame i is named
// after the record's position in records, never after its index field.
// The first record that cannot be converted aborts the build.
func FromRecords(records []pose.Record, s config.Settings) (*Manifest, error) {
	m := &Manifest{
		CameraAngleX: CameraAngleX(s.ImageWidth, s.Fx),
		Frames:       make([]FrameEntry, 0, len(records)),
	}
	for i, rec := range records {
		t, err := rec.Transform(s.QuaternionPolicy)
		if err != nil {
			return nil, err
		}
		m.Frames = append(m.Frames, FrameEntry{
			FilePath:        FramePath(s.ImageDir, i, s.ImageExtension),
			TransformMatrix: s.Basis.Apply(t),
		})
	}
	return m, nil
}

// Encode writes m as indented JSON.
func Encode(w io.Writer, m *Manifest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(m)
}

// Write stores m at path via a temporary sibling file, so a failed write
// never leaves a partial manifest behind. The parent directory must exist.
func Write(fsys fsutil.FileSystem, path string, m *Manifest) error {
	dir := filepath.Dir(path)
	info, err := fsys.Stat(dir)
	switch {
	case fsutil.IsNotExist(err):
		return fmt.Errorf("%w: output directory %s", ErrFileNotFound, dir)
	case err != nil:
		return fmt.Errorf("%w: stat output directory %s: %w", ErrIO, dir, err)
	case !info.IsDir():
		return fmt.Errorf("%w: output directory %s is not a directory", ErrFileNotFound, dir)
	}

	err = fsutil.WriteAtomic(fsys, path, func(w io.Writer) error {
		return Encode(w, m)
	})
	if err != nil {
		return fmt.Errorf("%w: write manifest %s: %w", ErrIO, path, err)
	}
	return nil
}
