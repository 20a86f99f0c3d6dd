package manifest

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/posemanifest/internal/pose"
)

// TrajectorySummary describes the camera path recorded in a manifest.
type TrajectorySummary struct {
	Frames       int
	CameraAngleX float64
	// PathLength is the sum of distances between consecutive camera centres,
	// in pose-log units.
	PathLength float64
	// Min and Max bound the camera centres per axis. Both are zero for an
	// empty manifest.
	Min, Max [3]float64
	// InvalidFrames lists the positions of frames whose transform is not a
	// proper rigid transform.
	InvalidFrames []int
}

// FOVDegrees returns CameraAngleX in degrees.
func (s TrajectorySummary) FOVDegrees() float64 {
	return s.CameraAngleX * 180 / math.Pi
}

// Trajectory returns the camera centre of every frame.
func (m *Manifest) Trajectory() [][3]float64 {
	out := make([][3]float64, len(m.Frames))
	for i, f := range m.Frames {
		out[i] = f.TransformMatrix.Translation()
	}
	return out
}

// Orientations returns the rotation block of every frame.
func (m *Manifest) Orientations() []pose.Rotation {
	out := make([]pose.Rotation, len(m.Frames))
	for i, f := range m.Frames {
		out[i] = f.TransformMatrix.Rotation()
	}
	return out
}

// Summarize computes path statistics and validates every transform.
func (m *Manifest) Summarize() TrajectorySummary {
	s := TrajectorySummary{
		Frames:        len(m.Frames),
		CameraAngleX:  m.CameraAngleX,
		InvalidFrames: []int{},
	}

	centres := m.Trajectory()
	axes := [3][]float64{}
	for axis := range axes {
		axes[axis] = make([]float64, len(centres))
	}
	for i, c := range centres {
		for axis := range axes {
			axes[axis][i] = c[axis]
		}
		if i > 0 {
			prev := centres[i-1]
			s.PathLength += floats.Distance(prev[:], c[:], 2)
		}
		if !pose.IsValidTransform(m.Frames[i].TransformMatrix) {
			s.InvalidFrames = append(s.InvalidFrames, i)
		}
	}
	if len(centres) > 0 {
		for axis := range axes {
			s.Min[axis] = floats.Min(axes[axis])
			s.Max[axis] = floats.Max(axes[axis])
		}
	}
	return s
}
