package colorgraph

import (
	"fmt"
	"math"

	"github.com/gogpu/colorgraph/internal/transfer"
)

// ToneMapOperator selects the HDR to SDR curve.
type ToneMapOperator uint8

const (
	ToneMapHable ToneMapOperator = iota
	ToneMapMobius
	ToneMapReinhard
	ToneMapBT2390
)

var toneMapNames = [...]string{
	ToneMapHable:    "hable",
	ToneMapMobius:   "mobius",
	ToneMapReinhard: "reinhard",
	ToneMapBT2390:   "bt2390",
}

func (o ToneMapOperator) String() string {
	if int(o) < len(toneMapNames) {
		return toneMapNames[o]
	}
	return fmt.Sprintf("tonemap(%d)", uint8(o))
}

// ParseToneMapOperator parses an operator name case-insensitively.
func ParseToneMapOperator(s string) (ToneMapOperator, error) {
	f := fold(s)
	for i, name := range toneMapNames {
		if f == name {
			return ToneMapOperator(i), nil
		}
	}
	return 0, fmt.Errorf("colorgraph: unknown tone mapping operator %q: %w", s, ErrInvalidParameter)
}

// HableParams are the coefficients of the Hable filmic curve.
type HableParams struct {
	A, B, C, D, E, F float64
}

// MobiusParams configure the Möbius curve. Values below Transition are
// passed through unchanged.
type MobiusParams struct {
	Transition float64
	// Peak overrides the source peak in cd/m² when positive.
	Peak float64
}

// ReinhardParams configure the Reinhard curve.
type ReinhardParams struct {
	Contrast float64
	// Peak overrides the source peak in cd/m² when positive.
	Peak float64
}

// ToneMapConfig describes an HDR to SDR tone mapping step.
type ToneMapConfig struct {
	Operator ToneMapOperator
	Hable    HableParams
	Mobius   MobiusParams
	Reinhard ReinhardParams

	// Desaturation of highlights toward luma. DesatStrength 0 disables it.
	DesatBase     float64
	DesatStrength float64
	DesatExp      float64

	// SourcePeak is the mastering peak of the HDR source in cd/m².
	SourcePeak float64
	// LDRNits is the luminance of SDR reference white in cd/m².
	LDRNits float64
}

// DefaultToneMapConfig returns the default configuration for op.
func DefaultToneMapConfig(op ToneMapOperator) ToneMapConfig {
	return ToneMapConfig{
		Operator:      op,
		Hable:         HableParams{A: 0.22, B: 0.3, C: 0.1, D: 0.2, E: 0.01, F: 0.3},
		Mobius:        MobiusParams{Transition: 0.3},
		Reinhard:      ReinhardParams{Contrast: 0.5},
		DesatBase:     0.18,
		DesatStrength: 0.75,
		DesatExp:      1.5,
		SourcePeak:    transfer.HLGPeakNits,
		LDRNits:       DefaultPeakLuminance,
	}
}

func (c ToneMapConfig) validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("colorgraph: tone mapping: "+format+": %w", append(args, ErrInvalidParameter)...)
	}
	if int(c.Operator) >= len(toneMapNames) {
		return bad("unknown operator %d", uint8(c.Operator))
	}
	if !(c.LDRNits > 0) {
		return bad("ldr nits must be positive, got %v", c.LDRNits)
	}
	if !(c.SourcePeak > 0) {
		return bad("source peak must be positive, got %v", c.SourcePeak)
	}
	if c.DesatStrength < 0 || c.DesatStrength > 1 {
		return bad("desaturation strength %v outside [0, 1]", c.DesatStrength)
	}
	if c.DesatExp < 0 || c.DesatBase < 0 {
		return bad("desaturation base and exponent must not be negative")
	}
	switch c.Operator {
	case ToneMapHable:
		h := c.Hable
		if h.F == 0 || h.A < 0 || h.B <= 0 {
			return bad("hable coefficients %+v", h)
		}
		if hable(h, c.peak()) <= 0 {
			return bad("hable curve is not positive at the source peak")
		}
	case ToneMapMobius:
		if c.Mobius.Transition < 0 || c.Mobius.Transition >= 1 {
			return bad("mobius transition %v outside [0, 1)", c.Mobius.Transition)
		}
		if c.Mobius.Peak < 0 {
			return bad("mobius peak must not be negative")
		}
	case ToneMapReinhard:
		if !(c.Reinhard.Contrast > 0) || c.Reinhard.Contrast > 1 {
			return bad("reinhard contrast %v outside (0, 1]", c.Reinhard.Contrast)
		}
		if c.Reinhard.Peak < 0 {
			return bad("reinhard peak must not be negative")
		}
	}
	return nil
}

// peak returns the signal peak relative to SDR white.
func (c ToneMapConfig) peak() float64 {
	nits := c.SourcePeak
	switch c.Operator {
	case ToneMapMobius:
		if c.Mobius.Peak > 0 {
			nits = c.Mobius.Peak
		}
	case ToneMapReinhard:
		if c.Reinhard.Peak > 0 {
			nits = c.Reinhard.Peak
		}
	}
	return nits / c.LDRNits
}

// curve maps one signal value relative to SDR white.
func (c ToneMapConfig) curve(sig float64) float64 {
	peak := c.peak()
	switch c.Operator {
	case ToneMapHable:
		return hable(c.Hable, sig) / hable(c.Hable, peak)
	case ToneMapMobius:
		j := c.Mobius.Transition
		if sig <= j || peak <= j {
			return sig
		}
		a, b := mobiusAB(j, peak)
		return (b*b + 2*b*j + j*j) / (b - a) * (sig + a) / (sig + b)
	case ToneMapReinhard:
		offset := (1 - c.Reinhard.Contrast) / c.Reinhard.Contrast
		return sig / (sig + offset) * (peak + offset) / peak
	case ToneMapBT2390:
		return bt2390(sig, c.LDRNits, c.SourcePeak)
	}
	return sig
}

func hable(h HableParams, x float64) float64 {
	return (x*(h.A*x+h.C*h.B)+h.D*h.E)/(x*(h.A*x+h.B)+h.D*h.F) - h.E/h.F
}

func mobiusAB(j, peak float64) (a, b float64) {
	a = -j * j * (peak - 1) / (j*j - 2*j + peak)
	b = (j*j - 2*j*peak + peak) / math.Max(peak-1, 1e-6)
	return a, b
}

// bt2390Knee returns the PQ encoded source and target peaks, the target
// peak normalized to the source, and the knee start of the EETF.
func bt2390Knee(ldrNits, sourcePeak float64) (srcPQ, maxLum, ks float64) {
	srcPQ = transfer.PQInverseEOTF(sourcePeak / transfer.PQPeakNits)
	dstPQ := transfer.PQInverseEOTF(ldrNits / transfer.PQPeakNits)
	maxLum = dstPQ / srcPQ
	ks = 1.5*maxLum - 0.5
	return srcPQ, maxLum, ks
}

// bt2390 applies the ITU-R BT.2390 EETF in the PQ domain.
func bt2390(sig, ldrNits, sourcePeak float64) float64 {
	srcPQ, maxLum, ks := bt2390Knee(ldrNits, sourcePeak)
	e := math.Min(transfer.PQInverseEOTF(sig*ldrNits/transfer.PQPeakNits)/srcPQ, 1)
	if e > ks {
		t := (e - ks) / (1 - ks)
		t2, t3 := t*t, t*t*t
		e = (2*t3-3*t2+1)*ks + (t3-2*t2+t)*(1-ks) + (-2*t3+3*t2)*maxLum
	}
	return transfer.PQEOTF(e*srcPQ) * transfer.PQPeakNits / ldrNits
}

// apply tone maps one linear RGB triple. The input is in graph units and
// the output in units of SDR white.
func (op ToneMap) apply(rgb Vec3) Vec3 {
	c := op.Config
	for i := range rgb {
		rgb[i] *= op.Scale
	}
	sig := math.Max(math.Max(rgb[0], rgb[1]), rgb[2])

	if c.DesatStrength > 0 {
		luma := op.Luma[0]*rgb[0] + op.Luma[1]*rgb[1] + op.Luma[2]*rgb[2]
		coeff := math.Max(sig-c.DesatBase, 1e-6) / math.Max(sig, 1e-6)
		coeff = c.DesatStrength * math.Pow(coeff, c.DesatExp)
		for i := range rgb {
			rgb[i] += (luma - rgb[i]) * coeff
		}
		sig += (luma - sig) * coeff
	}

	sigOrig := math.Max(sig, 1e-6)
	k := c.curve(sig) / sigOrig
	for i := range rgb {
		rgb[i] *= k
	}
	return rgb
}
