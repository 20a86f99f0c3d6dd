package pose

import (
	"encoding/json"
	"fmt"
)

// Transform is a 4x4 homogeneous camera-to-world transform in row-major
// order: m00,m01,m02,m03, m10,... The bottom row is [0 0 0 1].
type Transform [16]float64

// IdentityTransform has no rotation and no translation.
var IdentityTransform = Transform{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// NewTransform assembles a homogeneous transform from a rotation block and
// a translation column.
func NewTransform(r Rotation, t [3]float64) Transform {
	return Transform{
		r[0], r[1], r[2], t[0],
		r[3], r[4], r[5], t[1],
		r[6], r[7], r[8], t[2],
		0, 0, 0, 1,
	}
}

// Rotation returns the upper-left 3x3 block.
func (m Transform) Rotation() Rotation {
	return Rotation{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// Translation returns the upper-right 3x1 column, i.e. the camera centre.
func (m Transform) Translation() [3]float64 {
	return [3]float64{m[3], m[7], m[11]}
}

// Rows returns m as four 4-element rows.
func (m Transform) Rows() [][]float64 {
	rows := make([][]float64, 4)
	for i := range rows {
		rows[i] = append([]float64(nil), m[i*4:i*4+4]...)
	}
	return rows
}

// TransformFromRows is the inverse of Rows. It rejects anything that is not
// exactly 4x4.
func TransformFromRows(rows [][]float64) (Transform, error) {
	var m Transform
	if len(rows) != 4 {
		return m, fmt.Errorf("transform has %d rows, want 4", len(rows))
	}
	for i, row := range rows {
		if len(row) != 4 {
			return m, fmt.Errorf("transform row %d has %d columns, want 4", i, len(row))
		}
		copy(m[i*4:], row)
	}
	return m, nil
}

// MarshalJSON encodes m as a nested 4x4 array.
func (m Transform) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Rows())
}

// UnmarshalJSON decodes a nested 4x4 array.
func (m *Transform) UnmarshalJSON(data []byte) error {
	var rows [][]float64
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	t, err := TransformFromRows(rows)
	if err != nil {
		return err
	}
	*m = t
	return nil
}
