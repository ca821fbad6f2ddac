// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package colorimetry holds the static colour science tables of the
// colorspace graph (primaries, white points, luma coefficients) and the
// matrices derived from them.
//
// All tables are immutable package values built once at init and safe to
// share between goroutines.
package colorimetry

import "github.com/gogpu/colorgraph/internal/mat3"

// Chromaticity is a CIE 1931 xy coordinate.
type Chromaticity struct {
	X, Y float64
}

// XYZ returns the tristimulus value of c normalized to Y = 1.
func (c Chromaticity) XYZ() mat3.Vec3 {
	return mat3.Vec3{c.X / c.Y, 1, (1 - c.X - c.Y) / c.Y}
}

// Standard white points.
var (
	D65 = Chromaticity{0.3127, 0.3290}
	C   = Chromaticity{0.310, 0.316}
	DCI = Chromaticity{0.314, 0.351}
)

// Primaries is a gamut: three RGB primaries and a white point.
type Primaries struct {
	R, G, B, W Chromaticity
}

// Primaries sets by their ITU-T H.273 names.
var (
	BT709   = Primaries{R: Chromaticity{0.640, 0.330}, G: Chromaticity{0.300, 0.600}, B: Chromaticity{0.150, 0.060}, W: D65}
	BT470M  = Primaries{R: Chromaticity{0.670, 0.330}, G: Chromaticity{0.210, 0.710}, B: Chromaticity{0.140, 0.080}, W: C}
	BT470BG = Primaries{R: Chromaticity{0.640, 0.330}, G: Chromaticity{0.290, 0.600}, B: Chromaticity{0.150, 0.060}, W: D65}
	SMPTEC  = Primaries{R: Chromaticity{0.630, 0.340}, G: Chromaticity{0.310, 0.595}, B: Chromaticity{0.155, 0.070}, W: D65}
	Film    = Primaries{R: Chromaticity{0.681, 0.319}, G: Chromaticity{0.243, 0.692}, B: Chromaticity{0.145, 0.049}, W: C}
	BT2020  = Primaries{R: Chromaticity{0.708, 0.292}, G: Chromaticity{0.170, 0.797}, B: Chromaticity{0.131, 0.046}, W: D65}
	DCIP3   = Primaries{R: Chromaticity{0.680, 0.320}, G: Chromaticity{0.265, 0.690}, B: Chromaticity{0.150, 0.060}, W: DCI}
	P3D65   = Primaries{R: Chromaticity{0.680, 0.320}, G: Chromaticity{0.265, 0.690}, B: Chromaticity{0.150, 0.060}, W: D65}
	EBU3213 = Primaries{R: Chromaticity{0.630, 0.340}, G: Chromaticity{0.295, 0.605}, B: Chromaticity{0.155, 0.077}, W: D65}
)

// bradford is the Bradford cone response matrix.
var bradford = mat3.Mat3{
	{0.8951, 0.2664, -0.1614},
	{-0.7502, 1.7135, 0.0367},
	{0.0389, -0.0685, 1.0296},
}

// RGBToXYZ returns the matrix converting linear RGB in gamut p to CIE XYZ
// relative to p's white point.
func RGBToXYZ(p Primaries) mat3.Mat3 {
	prim := mat3.FromColumns(p.R.XYZ(), p.G.XYZ(), p.B.XYZ())
	s := prim.MustInverse().Apply(p.W.XYZ())
	return prim.Mul(mat3.Diag(s))
}

// XYZToRGB is the inverse of RGBToXYZ.
func XYZToRGB(p Primaries) mat3.Mat3 {
	return RGBToXYZ(p).MustInverse()
}

// WhitePointAdaptation returns the Bradford chromatic adaptation from
// white point src to dst in XYZ.
func WhitePointAdaptation(src, dst Chromaticity) mat3.Mat3 {
	if src == dst {
		return mat3.Identity()
	}
	srcLMS := bradford.Apply(src.XYZ())
	dstLMS := bradford.Apply(dst.XYZ())
	scale := mat3.Diag(mat3.Vec3{
		dstLMS[0] / srcLMS[0],
		dstLMS[1] / srcLMS[1],
		dstLMS[2] / srcLMS[2],
	})
	return bradford.MustInverse().Mul(scale).Mul(bradford)
}

// GamutMatrix converts linear RGB in gamut src to linear RGB in gamut dst:
// XYZToRGB(dst) * adaptation(src.W, dst.W) * RGBToXYZ(src).
func GamutMatrix(src, dst Primaries) mat3.Mat3 {
	return XYZToRGB(dst).Mul(WhitePointAdaptation(src.W, dst.W)).Mul(RGBToXYZ(src))
}

// Luma holds the red and blue luma weights of a Y'CbCr matrix. The green
// weight is 1 - Kr - Kb.
type Luma struct {
	Kr, Kb float64
}

// Kg returns the green weight.
func (l Luma) Kg() float64 { return 1 - l.Kr - l.Kb }

// Weights returns the RGB luma weights as a vector.
func (l Luma) Weights() mat3.Vec3 { return mat3.Vec3{l.Kr, l.Kg(), l.Kb} }

// Fixed luma coefficients.
var (
	LumaBT709   = Luma{Kr: 0.2126, Kb: 0.0722}
	LumaFCC     = Luma{Kr: 0.30, Kb: 0.11}
	LumaBT601   = Luma{Kr: 0.299, Kb: 0.114}
	LumaST240M  = Luma{Kr: 0.212, Kb: 0.087}
	LumaBT2020  = Luma{Kr: 0.2627, Kb: 0.0593}
	LumaUnknown = Luma{}
)

// DerivedLuma computes luma coefficients from a gamut (H.273 matrix
// coefficients 12 and 13).
func DerivedLuma(p Primaries) Luma {
	m := RGBToXYZ(p)
	return Luma{Kr: m[1][0], Kb: m[1][2]}
}

// NCLRGBToYUV returns the non-constant-luminance R'G'B' to Y'CbCr matrix
// for l. Chroma is centred on zero and spans [-0.5, 0.5].
func NCLRGBToYUV(l Luma) mat3.Mat3 {
	kr, kg, kb := l.Kr, l.Kg(), l.Kb
	ub := 2 * (1 - kb)
	vr := 2 * (1 - kr)
	return mat3.Mat3{
		{kr, kg, kb},
		{-kr / ub, -kg / ub, 0.5},
		{0.5, -kg / vr, -kb / vr},
	}
}

// NCLYUVToRGB is the inverse of NCLRGBToYUV.
func NCLYUVToRGB(l Luma) mat3.Mat3 {
	return NCLRGBToYUV(l).MustInverse()
}

// BT.2100 linear RGB (BT.2020 primaries) to LMS.
var (
	RGBToLMS = mat3.Mat3{
		{1688.0 / 4096, 2146.0 / 4096, 262.0 / 4096},
		{683.0 / 4096, 2951.0 / 4096, 462.0 / 4096},
		{99.0 / 4096, 309.0 / 4096, 3688.0 / 4096},
	}
	LMSToRGB = RGBToLMS.MustInverse()
)
