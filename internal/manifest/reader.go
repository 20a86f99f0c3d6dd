package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/banshee-data/posemanifest/internal/fsutil"
)

// Load reads a manifest from path. Unknown top-level and per-frame keys
// written by other tools are ignored.
func Load(fsys fsutil.FileSystem, path string) (*Manifest, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if fsutil.IsNotExist(err) {
			return nil, fmt.Errorf("%w: manifest %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: read manifest %s: %w", ErrIO, path, err)
	}
	m, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// Decode parses a manifest document.
func Decode(data []byte) (*Manifest, error) {
	var doc struct {
		CameraAngleX *float64     `json:"camera_angle_x"`
		Frames       []FrameEntry `json:"frames"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	if doc.CameraAngleX == nil {
		return nil, fmt.Errorf("%w: missing camera_angle_x", ErrInvalidManifest)
	}
	if doc.Frames == nil {
		doc.Frames = []FrameEntry{}
	}
	return &Manifest{CameraAngleX: *doc.CameraAngleX, Frames: doc.Frames}, nil
}
