package pose

import "fmt"

// BasisChange converts a camera-to-world transform between two right-handed
// camera axis conventions by reversing selected camera axes. Reversing a
// camera axis negates the matching rotation column; the camera centre is
// unaffected.
type BasisChange struct {
	Name string
	flip [3]bool
}

var (
	// NoBasisChange keeps transforms in the source convention.
	NoBasisChange = BasisChange{Name: "none"}

	// OpenCVToBlender converts from the OpenCV camera convention
	// (x right, y down, looking along +z) to the Blender/OpenGL convention
	// used by NeRF training (x right, y up, looking along -z).
	OpenCVToBlender = BasisChange{Name: "opencv_to_blender", flip: [3]bool{false, true, true}}
)

// ParseBasisChange maps a config value to a BasisChange. An empty name
// selects OpenCVToBlender.
func ParseBasisChange(name string) (BasisChange, error) {
	switch name {
	case "", OpenCVToBlender.Name:
		return OpenCVToBlender, nil
	case NoBasisChange.Name:
		return NoBasisChange, nil
	default:
		return BasisChange{}, fmt.Errorf("unknown basis change %q (want %q or %q)", name, OpenCVToBlender.Name, NoBasisChange.Name)
	}
}

// Apply returns m re-expressed in the target convention. Every BasisChange
// is its own inverse.
func (b BasisChange) Apply(m Transform) Transform {
	for col, flip := range b.flip {
		if !flip {
			continue
		}
		for row := 0; row < 3; row++ {
			m[row*4+col] = -m[row*4+col]
		}
	}
	return m
}

func (b BasisChange) String() string {
	return b.Name
}
