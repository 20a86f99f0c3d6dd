// Package manifest builds and reads NeRF-style transforms.json camera-pose
// manifests.
//
// A manifest holds the horizontal field of view shared by every frame and
// one camera-to-world transform per frame, in capture order:
//
//	{
//	    "camera_angle_x": 0.9842,
//	    "frames": [
//	        {"file_path": "images/00000000", "transform_matrix": [[...], [...], [...], [...]]}
//	    ]
//	}
package manifest

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/banshee-data/posemanifest/internal/pose"
)

var (
	// ErrFileNotFound is returned when the pose log or the output
	// directory does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrIO is returned when reading the pose log or writing the manifest
	// fails for any reason other than a missing path.
	ErrIO = errors.New("i/o error")
	// ErrInvalidManifest is returned by Load for documents that do not
	// decode as a manifest.
	ErrInvalidManifest = errors.New("invalid manifest")
)

// FrameIndexDigits is the zero-padded width of frame numbers in file paths.
const FrameIndexDigits = 8

// Manifest is the serialized camera-pose document.
type Manifest struct {
	CameraAngleX float64      `json:"camera_angle_x"`
	Frames       []FrameEntry `json:"frames"`
}

// FrameEntry is one image and the pose it was captured from.
type FrameEntry struct {
	FilePath        string         `json:"file_path"`
	TransformMatrix pose.Transform `json:"transform_matrix"`
}

// CameraAngleX returns the horizontal field of view in radians for a
// pinhole camera with the given image width and focal length, both in
// pixels.
func CameraAngleX(imageWidth int, fx float64) float64 {
	return 2 * math.Atan(float64(imageWidth)/(2*fx))
}

// FramePath names the i-th frame: "{dir}/{i:08d}{ext}". Trailing slashes on
// dir are dropped.
func FramePath(dir string, i int, ext string) string {
	return fmt.Sprintf("%s/%0*d%s", strings.TrimRight(dir, "/"), FrameIndexDigits, i, ext)
}
