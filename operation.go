package colorgraph

import (
	"github.com/gogpu/colorgraph/internal/colorimetry"
	"github.com/gogpu/colorgraph/internal/mat3"
	"github.com/gogpu/colorgraph/internal/transfer"
)

// Mat3 is a row-major 3×3 matrix applied to column vectors.
type Mat3 = mat3.Mat3

// Vec3 is a color triple.
type Vec3 = mat3.Vec3

// OpKind identifies an Operation variant.
type OpKind uint8

const (
	OpIdentity OpKind = iota
	OpMatrix
	OpGammaEncode
	OpGammaDecode
	OpCLEncode
	OpCLDecode
	OpGamutMap
	OpToneMap
	OpRangeScale
	OpLUT3D
)

var opKindNames = [...]string{
	OpIdentity:    "identity",
	OpMatrix:      "matrix",
	OpGammaEncode: "gamma_encode",
	OpGammaDecode: "gamma_decode",
	OpCLEncode:    "cl_encode",
	OpCLDecode:    "cl_decode",
	OpGamutMap:    "gamut_map",
	OpToneMap:     "tonemap",
	OpRangeScale:  "range_scale",
	OpLUT3D:       "lut3d",
}

func (k OpKind) String() string {
	if int(k) < len(opKindNames) {
		return opKindNames[k]
	}
	return "op(?)"
}

// Operation is one elementary step of a conversion. The set of variants is
// closed: Identity, Matrix, GammaEncode, GammaDecode, CLEncode, CLDecode,
// GamutMap, ToneMap, RangeScale and LUT3D.
type Operation interface {
	Kind() OpKind
	operation()
}

// Identity leaves the value unchanged. It is the single edge of a path
// whose endpoints describe the same colorspace.
type Identity struct{}

// Matrix multiplies the value by M.
type Matrix struct {
	M Mat3
}

// GammaEncode maps scaled linear light to the encoded signal of Transfer.
type GammaEncode struct {
	Transfer TransferCharacteristics
	curve    transfer.Curve
}

// GammaDecode maps the encoded signal of Transfer to scaled linear light.
type GammaDecode struct {
	Transfer TransferCharacteristics
	curve    transfer.Curve
}

// CLEncode converts linear RGB to constant luminance Y'CbCr.
type CLEncode struct {
	Transfer TransferCharacteristics
	cl       clParams
}

// CLDecode converts constant luminance Y'CbCr to linear RGB.
type CLDecode struct {
	Transfer TransferCharacteristics
	cl       clParams
}

// GamutMap converts linear RGB between two sets of primaries. It is a
// matrix product but stays a separate operation kind.
type GamutMap struct {
	From, To ColorPrimaries
	M        Mat3
}

// ToneMap compresses linear HDR RGB into the SDR range. Its output is
// linear light with 1.0 at SDR white.
type ToneMap struct {
	Config ToneMapConfig
	// Scale converts graph linear light to units of Config.LDRNits.
	Scale float64
	// Luma holds the luma weights of the primaries being mapped.
	Luma Vec3
}

// RangeScale computes x*Scale + Offset per channel. When Clamp is set the
// result is limited to [0, Max].
type RangeScale struct {
	Scale  Vec3
	Offset Vec3
	Clamp  bool
	Max    float64
}

// LUT3D replaces the value by a lookup in a 3D table.
type LUT3D struct {
	Size      int
	Interp    Interpolation
	DomainMin Vec3
	DomainMax Vec3
	// Table holds Size³ RGB triples, red fastest.
	Table []float32
}

func (Identity) Kind() OpKind    { return OpIdentity }
func (Matrix) Kind() OpKind      { return OpMatrix }
func (GammaEncode) Kind() OpKind { return OpGammaEncode }
func (GammaDecode) Kind() OpKind { return OpGammaDecode }
func (CLEncode) Kind() OpKind    { return OpCLEncode }
func (CLDecode) Kind() OpKind    { return OpCLDecode }
func (GamutMap) Kind() OpKind    { return OpGamutMap }
func (ToneMap) Kind() OpKind     { return OpToneMap }
func (RangeScale) Kind() OpKind  { return OpRangeScale }
func (LUT3D) Kind() OpKind       { return OpLUT3D }

func (Identity) operation()    {}
func (Matrix) operation()      {}
func (GammaEncode) operation() {}
func (GammaDecode) operation() {}
func (CLEncode) operation()    {}
func (CLDecode) operation()    {}
func (GamutMap) operation()    {}
func (ToneMap) operation()     {}
func (RangeScale) operation()  {}
func (LUT3D) operation()       {}

// Fuse combines a followed by b into one operation. Only two Matrix
// operations fuse; the result applies a then b.
func Fuse(a, b Operation) (Operation, bool) {
	ma, ok := a.(Matrix)
	if !ok {
		return nil, false
	}
	mb, ok := b.(Matrix)
	if !ok {
		return nil, false
	}
	return Matrix{M: mb.M.Mul(ma.M)}, true
}

// clParams holds the constants of the BT.2020 constant luminance
// equations, generalized to any luma coefficients and BT.709 family curve.
type clParams struct {
	luma  colorimetry.Luma
	curve transfer.Curve
	// Chroma divisors for negative (N) and positive (P) differences.
	nb, pb float64
	nr, pr float64
}

func newCLParams(l colorimetry.Luma, c transfer.Curve) clParams {
	return clParams{
		luma:  l,
		curve: c,
		nb:    2 * c.ToGamma(1-l.Kb),
		pb:    2 * (1 - c.ToGamma(l.Kb)),
		nr:    2 * c.ToGamma(1-l.Kr),
		pr:    2 * (1 - c.ToGamma(l.Kr)),
	}
}

func (p clParams) encode(rgb Vec3) Vec3 {
	y := p.luma.Kr*rgb[0] + p.luma.Kg()*rgb[1] + p.luma.Kb*rgb[2]
	yp := p.curve.ToGamma(y)
	bp := p.curve.ToGamma(rgb[2])
	rp := p.curve.ToGamma(rgb[0])
	return Vec3{yp, chroma(bp-yp, p.nb, p.pb), chroma(rp-yp, p.nr, p.pr)}
}

func (p clParams) decode(ycc Vec3) Vec3 {
	yp := ycc[0]
	bp := yp + unchroma(ycc[1], p.nb, p.pb)
	rp := yp + unchroma(ycc[2], p.nr, p.pr)
	y := p.curve.ToLinear(yp)
	b := p.curve.ToLinear(bp)
	r := p.curve.ToLinear(rp)
	g := (y - p.luma.Kr*r - p.luma.Kb*b) / p.luma.Kg()
	return Vec3{r, g, b}
}

func chroma(diff, n, p float64) float64 {
	if diff <= 0 {
		return diff / n
	}
	return diff / p
}

func unchroma(c, n, p float64) float64 {
	if c <= 0 {
		return c * n
	}
	return c * p
}
