package colorgraph

import "math"

// floatNear checks if two float64 values are within epsilon of each other.
func floatNear(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

// applyAll applies the matrices in order to v.
func applyAll(v Vec3, ms ...Mat3) Vec3 {
	for _, m := range ms {
		v = m.Apply(v)
	}
	return v
}
