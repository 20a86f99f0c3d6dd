// Package pose converts pose-log records into homogeneous camera transforms.
//
// Quaternions use the gonum quat.Number layout (Real=w, Imag=x, Jmag=y,
// Kmag=z). Transforms are 4x4 row-major [16]float64 values.
package pose
