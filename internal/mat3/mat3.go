// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package mat3 provides the 3x3 matrix algebra used by the colorspace
// graph: products, inverses and vector application in float64.
package mat3

import "math"

// Vec3 is a column vector.
type Vec3 [3]float64

// Mat3 is a 3x3 matrix in row-major order.
//
//	| m[0][0] m[0][1] m[0][2] |
//	| m[1][0] m[1][1] m[1][2] |
//	| m[2][0] m[2][1] m[2][2] |
type Mat3 [3][3]float64

// Identity returns the identity matrix.
func Identity() Mat3 {
	return Mat3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// Diag returns a diagonal matrix with v on the main diagonal.
func Diag(v Vec3) Mat3 {
	return Mat3{
		{v[0], 0, 0},
		{0, v[1], 0},
		{0, 0, v[2]},
	}
}

// FromColumns builds a matrix whose columns are a, b and c.
func FromColumns(a, b, c Vec3) Mat3 {
	return Mat3{
		{a[0], b[0], c[0]},
		{a[1], b[1], c[1]},
		{a[2], b[2], c[2]},
	}
}

// Mul returns m * other. Applied to a column vector, other acts first.
func (m Mat3) Mul(other Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][0]*other[0][j] + m[i][1]*other[1][j] + m[i][2]*other[2][j]
		}
	}
	return r
}

// Apply returns m * v.
func (m Mat3) Apply(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// Transpose returns the transposed matrix.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		{m[0][0], m[1][0], m[2][0]},
		{m[0][1], m[1][1], m[2][1]},
		{m[0][2], m[1][2], m[2][2]},
	}
}

// Det returns the determinant.
func (m Mat3) Det() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Inverse returns the inverse of m using the adjugate.
// ok is false when m is singular.
func (m Mat3) Inverse() (inv Mat3, ok bool) {
	det := m.Det()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Mat3{}, false
	}
	d := 1 / det

	inv[0][0] = (m[1][1]*m[2][2] - m[1][2]*m[2][1]) * d
	inv[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) * d
	inv[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) * d

	inv[1][0] = (m[1][2]*m[2][0] - m[1][0]*m[2][2]) * d
	inv[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) * d
	inv[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) * d

	inv[2][0] = (m[1][0]*m[2][1] - m[1][1]*m[2][0]) * d
	inv[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) * d
	inv[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) * d

	return inv, true
}

// MustInverse is Inverse for matrices known to be invertible, such as the
// static colour tables. It panics on a singular matrix.
func (m Mat3) MustInverse() Mat3 {
	inv, ok := m.Inverse()
	if !ok {
		panic("mat3: singular matrix")
	}
	return inv
}

// Near reports whether every element of m and other differ by at most eps.
func (m Mat3) Near(other Mat3, eps float64) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(m[i][j]-other[i][j]) > eps {
				return false
			}
		}
	}
	return true
}

// IsIdentity reports whether m is the identity within eps.
func (m Mat3) IsIdentity(eps float64) bool {
	return m.Near(Identity(), eps)
}

// Near reports whether every component of v and other differ by at most eps.
func (v Vec3) Near(other Vec3, eps float64) bool {
	for i := range v {
		if math.Abs(v[i]-other[i]) > eps {
			return false
		}
	}
	return true
}
