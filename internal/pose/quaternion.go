package pose

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// Quaternion tolerances.
const (
	// DegenerateNorm is the norm at or below which a quaternion carries
	// no usable orientation.
	DegenerateNorm = 1e-6
	// UnitNormTolerance bounds |‖q‖ - 1| under PolicyStrict.
	UnitNormTolerance = 1e-6
)

// QuaternionPolicy controls how non-unit quaternions are treated before
// conversion to a rotation matrix.
type QuaternionPolicy string

const (
	// PolicyNormalize rescales every quaternion to unit length.
	PolicyNormalize QuaternionPolicy = "normalize"
	// PolicyStrict rejects quaternions that are not already unit length.
	PolicyStrict QuaternionPolicy = "strict"
)

// ParseQuaternionPolicy maps a config value to a QuaternionPolicy.
// An empty name selects PolicyNormalize.
func ParseQuaternionPolicy(name string) (QuaternionPolicy, error) {
	switch QuaternionPolicy(name) {
	case "", PolicyNormalize:
		return PolicyNormalize, nil
	case PolicyStrict:
		return PolicyStrict, nil
	default:
		return "", fmt.Errorf("unknown quaternion policy %q (want %q or %q)", name, PolicyNormalize, PolicyStrict)
	}
}

// QuaternionFromXYZW builds a quaternion from pose-log component order.
func QuaternionFromXYZW(x, y, z, w float64) quat.Number {
	return quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}
}

// Normalize returns q scaled to unit length. Components are first divided
// by the largest magnitude so the norm stays finite for any finite q.
func Normalize(q quat.Number) (quat.Number, error) {
	if quat.IsNaN(q) || quat.IsInf(q) {
		return quat.Number{}, fmt.Errorf("%w: non-finite component", ErrDegenerateQuaternion)
	}
	peak := maxAbs(q)
	if peak == 0 {
		return quat.Number{}, fmt.Errorf("%w: zero quaternion", ErrDegenerateQuaternion)
	}
	q = divide(q, peak)
	n := quat.Abs(q)
	if peak*n <= DegenerateNorm {
		return quat.Number{}, fmt.Errorf("%w: norm %g", ErrDegenerateQuaternion, peak*n)
	}
	return divide(q, n), nil
}

func maxAbs(q quat.Number) float64 {
	return math.Max(math.Max(math.Abs(q.Real), math.Abs(q.Imag)), math.Max(math.Abs(q.Jmag), math.Abs(q.Kmag)))
}

func divide(q quat.Number, d float64) quat.Number {
	return quat.Number{Real: q.Real / d, Imag: q.Imag / d, Jmag: q.Jmag / d, Kmag: q.Kmag / d}
}

// Prepare applies policy to q and returns the unit quaternion to convert.
func Prepare(q quat.Number, policy QuaternionPolicy) (quat.Number, error) {
	switch policy {
	case PolicyStrict:
		if quat.IsNaN(q) || quat.IsInf(q) || quat.Abs(q) <= DegenerateNorm {
			return Normalize(q)
		}
		if n := quat.Abs(q); math.Abs(n-1) > UnitNormTolerance {
			return quat.Number{}, fmt.Errorf("%w: norm %.9f", ErrNonUnitQuaternion, n)
		}
		return q, nil
	default:
		return Normalize(q)
	}
}

// Rotation is a 3x3 rotation matrix in row-major order.
type Rotation [9]float64

// IdentityRotation is the rotation that leaves every vector unchanged.
var IdentityRotation = Rotation{1, 0, 0, 0, 1, 0, 0, 0, 1}

// At returns element (i, j).
func (r Rotation) At(i, j int) float64 {
	return r[i*3+j]
}

// RotationFromQuaternion converts a unit quaternion to a rotation matrix.
// q is used as given; call Prepare or Normalize first for untrusted input.
func RotationFromQuaternion(q quat.Number) Rotation {
	x, y, z, w := q.Imag, q.Jmag, q.Kmag, q.Real
	return Rotation{
		1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w),
		2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w),
		2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y),
	}
}

// QuaternionFromRotation recovers a unit quaternion from a rotation matrix
// using Shepperd's method, branching on the largest diagonal term to keep
// the divisor away from zero. The result has a non-negative scalar part
// whenever the trace is positive.
func QuaternionFromRotation(r Rotation) quat.Number {
	r00, r01, r02 := r[0], r[1], r[2]
	r10, r11, r12 := r[3], r[4], r[5]
	r20, r21, r22 := r[6], r[7], r[8]

	var x, y, z, w float64
	switch trace := r00 + r11 + r22; {
	case trace > 0:
		s := math.Sqrt(trace+1) * 2
		w = 0.25 * s
		x = (r21 - r12) / s
		y = (r02 - r20) / s
		z = (r10 - r01) / s
	case r00 > r11 && r00 > r22:
		s := math.Sqrt(1+r00-r11-r22) * 2
		w = (r21 - r12) / s
		x = 0.25 * s
		y = (r01 + r10) / s
		z = (r02 + r20) / s
	case r11 > r22:
		s := math.Sqrt(1+r11-r00-r22) * 2
		w = (r02 - r20) / s
		x = (r01 + r10) / s
		y = 0.25 * s
		z = (r12 + r21) / s
	default:
		s := math.Sqrt(1+r22-r00-r11) * 2
		w = (r10 - r01) / s
		x = (r02 + r20) / s
		y = (r12 + r21) / s
		z = 0.25 * s
	}
	return QuaternionFromXYZW(x, y, z, w)
}
