// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package transfer implements the scalar transfer curves (OETF/EOTF pairs)
// used by the colorspace graph.
//
// Every curve is a pair of functions between a stored (gamma encoded)
// sample and linear light, plus the pre/post scale factors that relate the
// curve's native linear range to the graph's linear range where 1.0 is the
// nominal SDR peak.
//
// References:
//   - ITU-R BT.709-6, BT.1886, BT.2020-2, BT.2100-2
//   - IEC 61966-2-1 (sRGB), IEC 61966-2-4 (xvYCC)
//   - SMPTE ST 240M, ST 2084
package transfer

import (
	"fmt"
	"math"
)

// Kind names a transfer characteristic understood by this package.
type Kind uint8

const (
	KindLinear Kind = iota
	KindRec709
	KindBT470M
	KindBT470BG
	KindST240M
	KindLog100
	KindLog316
	KindXVYCC
	KindSRGB
	KindST2084
	KindARIBB67
)

// Form is the closed set of curve shapes a kernel has to implement.
type Form uint8

const (
	FormIdentity   Form = iota
	FormRec709          // BT.709 OETF with a linear toe
	FormPower           // pure power law
	FormSRGB            // IEC 61966-2-1
	FormST240M          // SMPTE 240M
	FormLog100          // 100:1 logarithmic
	FormLog316          // 316.22777:1 logarithmic
	FormXVYCC           // sign-symmetric BT.709 OETF
	FormPQ              // SMPTE ST 2084
	FormHLG             // ARIB STD-B67 inverse OETF
	FormHLGDisplay      // ARIB STD-B67 inverse OETF followed by the BT.2100 OOTF
)

// Curve constants.
const (
	Rec709Alpha = 1.09929682680944
	Rec709Beta  = 0.018053968510807

	ST240MAlpha = 1.1115
	ST240MBeta  = 0.0228

	SRGBAlpha = 1.055
	SRGBBeta  = 0.0031308

	PQM1 = 2610.0 / 16384.0
	PQM2 = 2523.0 / 4096.0 * 128.0
	PQC1 = 3424.0 / 4096.0
	PQC2 = 2413.0 / 4096.0 * 32.0
	PQC3 = 2392.0 / 4096.0 * 32.0

	HLGA = 0.17883277
	HLGB = 0.28466892
	HLGC = 0.55991073

	// HLGSystemGamma is the nominal BT.2100 OOTF gamma for a 1000 cd/m²
	// display.
	HLGSystemGamma = 1.2

	// Log316Threshold is sqrt(10)/1000.
	Log316Threshold = 0.0031622776601683794

	// ApproxGamma is the exponent used for approximated sRGB.
	ApproxGamma = 2.2

	// PQPeakNits is the absolute luminance of PQ code value 1.0.
	PQPeakNits = 10000.0

	// HLGPeakNits is the nominal display peak of HLG.
	HLGPeakNits = 1000.0
)

// HLGLuma holds the BT.2020 luma weights used by the HLG OOTF.
var HLGLuma = [3]float64{0.2627, 0.6780, 0.0593}

// Curve is a transfer function pair resolved for a particular set of
// options.
//
// Decoding computes ToLinear(x) * ToLinearScale; encoding computes
// ToGamma(x * ToGammaScale).
type Curve struct {
	Kind  Kind
	Form  Form
	Gamma float64 // exponent for FormPower, linear = encoded^Gamma

	ToLinearScale float64
	ToGammaScale  float64
}

// Options select between the variants of a curve.
type Options struct {
	// PeakLuminance is the luminance in cd/m² mapped to linear 1.0.
	PeakLuminance float64
	// SceneReferred selects the camera OETF instead of the display EOTF.
	SceneReferred bool
	// Approximate replaces piecewise curves with pure power laws.
	Approximate bool
}

// Lookup resolves the curve for kind under opts.
func Lookup(kind Kind, opts Options) (Curve, error) {
	if !(opts.PeakLuminance > 0) {
		return Curve{}, fmt.Errorf("transfer: peak luminance must be positive, got %v", opts.PeakLuminance)
	}

	c := Curve{Kind: kind, ToLinearScale: 1, ToGammaScale: 1}
	switch kind {
	case KindLinear:
		c.Form = FormIdentity
	case KindRec709:
		switch {
		case !opts.SceneReferred:
			// BT.1886 reference display.
			c.Form, c.Gamma = FormPower, 2.4
		case opts.Approximate:
			c.Form, c.Gamma = FormPower, 1/0.45
		default:
			c.Form = FormRec709
		}
	case KindBT470M:
		c.Form, c.Gamma = FormPower, 2.2
	case KindBT470BG:
		c.Form, c.Gamma = FormPower, 2.8
	case KindST240M:
		if opts.Approximate {
			c.Form, c.Gamma = FormPower, 1/0.45
		} else {
			c.Form = FormST240M
		}
	case KindLog100:
		c.Form = FormLog100
	case KindLog316:
		c.Form = FormLog316
	case KindXVYCC:
		c.Form = FormXVYCC
	case KindSRGB:
		if opts.Approximate {
			c.Form, c.Gamma = FormPower, ApproxGamma
		} else {
			c.Form = FormSRGB
		}
	case KindST2084:
		c.Form = FormPQ
		c.ToLinearScale = PQPeakNits / opts.PeakLuminance
		c.ToGammaScale = opts.PeakLuminance / PQPeakNits
	case KindARIBB67:
		if opts.SceneReferred {
			c.Form = FormHLG
			c.ToLinearScale = 12
			c.ToGammaScale = 1.0 / 12
		} else {
			c.Form = FormHLGDisplay
			c.ToLinearScale = HLGPeakNits / opts.PeakLuminance
			c.ToGammaScale = opts.PeakLuminance / HLGPeakNits
		}
	default:
		return Curve{}, fmt.Errorf("transfer: unknown kind %d", kind)
	}
	return c, nil
}

// ToLinear evaluates the decoding half of the curve on one sample, without
// scaling. FormHLGDisplay evaluates only the inverse OETF here; the OOTF
// couples the channels and is applied by DecodeRGB.
func (c Curve) ToLinear(x float64) float64 {
	switch c.Form {
	case FormIdentity:
		return x
	case FormRec709:
		return rec709InverseOETF(x)
	case FormPower:
		return math.Pow(math.Max(x, 0), c.Gamma)
	case FormSRGB:
		return srgbEOTF(x)
	case FormST240M:
		return st240mInverseOETF(x)
	case FormLog100:
		return log100InverseOETF(x)
	case FormLog316:
		return log316InverseOETF(x)
	case FormXVYCC:
		return math.Copysign(rec709InverseOETF(math.Abs(x)), x)
	case FormPQ:
		return PQEOTF(x)
	case FormHLG, FormHLGDisplay:
		return hlgInverseOETF(x)
	}
	return x
}

// ToGamma evaluates the encoding half of the curve on one sample, without
// scaling.
func (c Curve) ToGamma(x float64) float64 {
	switch c.Form {
	case FormIdentity:
		return x
	case FormRec709:
		return rec709OETF(x)
	case FormPower:
		return math.Pow(math.Max(x, 0), 1/c.Gamma)
	case FormSRGB:
		return srgbInverseEOTF(x)
	case FormST240M:
		return st240mOETF(x)
	case FormLog100:
		return log100OETF(x)
	case FormLog316:
		return log316OETF(x)
	case FormXVYCC:
		return math.Copysign(rec709OETF(math.Abs(x)), x)
	case FormPQ:
		return PQInverseEOTF(x)
	case FormHLG, FormHLGDisplay:
		return hlgOETF(x)
	}
	return x
}

// DecodeRGB converts a gamma encoded triple to scaled linear light.
func (c Curve) DecodeRGB(v [3]float64) [3]float64 {
	var out [3]float64
	for i := range v {
		out[i] = c.ToLinear(v[i])
	}
	if c.Form == FormHLGDisplay {
		out = hlgOOTF(out)
	}
	for i := range out {
		out[i] *= c.ToLinearScale
	}
	return out
}

// EncodeRGB converts a scaled linear triple to gamma encoded samples.
func (c Curve) EncodeRGB(v [3]float64) [3]float64 {
	var out [3]float64
	for i := range v {
		out[i] = v[i] * c.ToGammaScale
	}
	if c.Form == FormHLGDisplay {
		out = hlgInverseOOTF(out)
	}
	for i := range out {
		out[i] = c.ToGamma(out[i])
	}
	return out
}

func rec709OETF(x float64) float64 {
	x = math.Max(x, 0)
	if x < Rec709Beta {
		return x * 4.5
	}
	return Rec709Alpha*math.Pow(x, 0.45) - (Rec709Alpha - 1)
}

func rec709InverseOETF(x float64) float64 {
	x = math.Max(x, 0)
	if x < Rec709Beta*4.5 {
		return x / 4.5
	}
	return math.Pow((x+(Rec709Alpha-1))/Rec709Alpha, 1/0.45)
}

func st240mOETF(x float64) float64 {
	x = math.Max(x, 0)
	if x < ST240MBeta {
		return x * 4.0
	}
	return ST240MAlpha*math.Pow(x, 0.45) - (ST240MAlpha - 1)
}

func st240mInverseOETF(x float64) float64 {
	x = math.Max(x, 0)
	if x < ST240MBeta*4.0 {
		return x / 4.0
	}
	return math.Pow((x+(ST240MAlpha-1))/ST240MAlpha, 1/0.45)
}

func srgbInverseEOTF(x float64) float64 {
	x = math.Max(x, 0)
	if x < SRGBBeta {
		return x * 12.92
	}
	return SRGBAlpha*math.Pow(x, 1/2.4) - (SRGBAlpha - 1)
}

func srgbEOTF(x float64) float64 {
	x = math.Max(x, 0)
	if x < SRGBBeta*12.92 {
		return x / 12.92
	}
	return math.Pow((x+(SRGBAlpha-1))/SRGBAlpha, 2.4)
}

func log100OETF(x float64) float64 {
	if x <= 0.01 {
		return 0
	}
	return 1 + math.Log10(x)/2
}

func log100InverseOETF(x float64) float64 {
	if x <= 0 {
		return 0.01
	}
	return math.Pow(10, (x-1)*2)
}

func log316OETF(x float64) float64 {
	if x <= Log316Threshold {
		return 0
	}
	return 1 + math.Log10(x)/2.5
}

func log316InverseOETF(x float64) float64 {
	if x <= 0 {
		return Log316Threshold
	}
	return math.Pow(10, (x-1)*2.5)
}

// PQEOTF maps a PQ code value in [0,1] to linear light where 1.0 is
// 10000 cd/m².
func PQEOTF(x float64) float64 {
	x = math.Max(x, 0)
	xp := math.Pow(x, 1/PQM2)
	num := math.Max(xp-PQC1, 0)
	den := math.Max(PQC2-PQC3*xp, math.SmallestNonzeroFloat32)
	return math.Pow(num/den, 1/PQM1)
}

// PQInverseEOTF maps linear light where 1.0 is 10000 cd/m² to a PQ code
// value.
func PQInverseEOTF(x float64) float64 {
	x = math.Max(x, 0)
	xp := math.Pow(x, PQM1)
	return math.Pow((PQC1+PQC2*xp)/(1+PQC3*xp), PQM2)
}

func hlgOETF(x float64) float64 {
	x = math.Max(x, 0)
	if x <= 1.0/12.0 {
		return math.Sqrt(3 * x)
	}
	return HLGA*math.Log(12*x-HLGB) + HLGC
}

func hlgInverseOETF(x float64) float64 {
	x = math.Max(x, 0)
	if x <= 0.5 {
		return x * x / 3
	}
	return (math.Exp((x-HLGC)/HLGA) + HLGB) / 12
}

func hlgOOTF(v [3]float64) [3]float64 {
	ys := HLGLuma[0]*v[0] + HLGLuma[1]*v[1] + HLGLuma[2]*v[2]
	if ys <= 0 {
		return [3]float64{}
	}
	k := math.Pow(ys, HLGSystemGamma-1)
	return [3]float64{v[0] * k, v[1] * k, v[2] * k}
}

func hlgInverseOOTF(v [3]float64) [3]float64 {
	yd := HLGLuma[0]*v[0] + HLGLuma[1]*v[1] + HLGLuma[2]*v[2]
	if yd <= 0 {
		return [3]float64{}
	}
	k := math.Pow(yd, (1-HLGSystemGamma)/HLGSystemGamma)
	return [3]float64{v[0] * k, v[1] * k, v[2] * k}
}
