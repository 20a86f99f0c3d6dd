package pose

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

// MatrixValidationTolerance is the absolute tolerance used when checking
// that a rotation block is orthonormal with determinant +1.
const MatrixValidationTolerance = 1e-6

// TransformValidationResult contains the result of transform validation.
type TransformValidationResult struct {
	Valid  bool
	Issues []string
}

// Dense returns r as a gonum matrix.
func (r Rotation) Dense() *mat.Dense {
	data := r
	return mat.NewDense(3, 3, data[:])
}

// Det returns the determinant of r.
func (r Rotation) Det() float64 {
	return mat.Det(r.Dense())
}

// IsOrthonormal reports whether rᵀr ≈ I within tol.
func (r Rotation) IsOrthonormal(tol float64) bool {
	d := r.Dense()
	var rtr mat.Dense
	rtr.Mul(d.T(), d)
	return mat.EqualApprox(&rtr, mat.NewDiagDense(3, []float64{1, 1, 1}), tol)
}

// IsProperRotation reports whether r is orthonormal with det ≈ +1, i.e. a
// rotation and not a reflection.
func (r Rotation) IsProperRotation(tol float64) bool {
	return r.IsOrthonormal(tol) && scalar.EqualWithinAbs(r.Det(), 1, tol)
}

// ValidateTransform checks that m is a proper rigid transform:
//  1. every element is finite
//  2. the rotation block is orthonormal with det ≈ +1
//  3. the bottom row is [0 0 0 1]
func ValidateTransform(m Transform) TransformValidationResult {
	result := TransformValidationResult{Issues: make([]string, 0)}

	for i, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			result.Issues = append(result.Issues, fmt.Sprintf("element %d is not finite", i))
			return result
		}
	}

	if r := m.Rotation(); !r.IsProperRotation(MatrixValidationTolerance) {
		if !r.IsOrthonormal(MatrixValidationTolerance) {
			result.Issues = append(result.Issues, "rotation block is not orthonormal")
		}
		if det := r.Det(); !scalar.EqualWithinAbs(det, 1, MatrixValidationTolerance) {
			result.Issues = append(result.Issues, fmt.Sprintf("rotation determinant %.6f, want 1", det))
		}
	}

	if m[12] != 0 || m[13] != 0 || m[14] != 0 || m[15] != 1 {
		result.Issues = append(result.Issues, "bottom row is not [0 0 0 1]")
	}

	result.Valid = len(result.Issues) == 0
	return result
}

// IsValidTransform reports whether m is a proper rigid transform.
func IsValidTransform(m Transform) bool {
	return ValidateTransform(m).Valid
}
