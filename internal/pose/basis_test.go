package pose

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCVToBlender_NegatesCameraYAndZ(t *testing.T) {
	m := Transform{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		0, 0, 0, 1,
	}
	want := Transform{
		1, -2, -3, 4,
		5, -6, -7, 8,
		9, -10, -11, 12,
		0, 0, 0, 1,
	}
	assert.Equal(t, want, OpenCVToBlender.Apply(m))
}

func TestBasisChange_SelfInverse(t *testing.T) {
	rng := rand.New(rand.NewSource(3<<32 | 5))
	for i := 0; i < 100; i++ {
		q := randomUnitQuaternion(rng)
		m := NewTransform(RotationFromQuaternion(q), [3]float64{rng.Float64(), rng.Float64(), rng.Float64()})
		for _, b := range []BasisChange{OpenCVToBlender, NoBasisChange} {
			assert.Equal(t, m, b.Apply(b.Apply(m)), "basis %s", b)
		}
	}
}

func TestBasisChange_PreservesRigidity(t *testing.T) {
	q, err := Normalize(QuaternionFromXYZW(0.1, 0.2, 0.3, 0.9))
	require.NoError(t, err)
	m := NewTransform(RotationFromQuaternion(q), [3]float64{1, 1, 1})
	assert.True(t, IsValidTransform(OpenCVToBlender.Apply(m)))
}

func TestParseBasisChange(t *testing.T) {
	b, err := ParseBasisChange("")
	require.NoError(t, err)
	assert.Equal(t, OpenCVToBlender, b)

	b, err = ParseBasisChange("none")
	require.NoError(t, err)
	assert.Equal(t, NoBasisChange, b)

	_, err = ParseBasisChange("opengl")
	assert.Error(t, err)
}
