package colorgraph

import (
	"fmt"

	"github.com/gogpu/colorgraph/internal/colorimetry"
	"github.com/gogpu/colorgraph/internal/transfer"
)

// MatrixCoefficients identifies the RGB to luma/chroma transform.
// The zero value is unspecified; H273 maps to ITU-T H.273 code points.
type MatrixCoefficients uint8

const (
	MatrixUnspecified MatrixCoefficients = iota
	MatrixRGB
	MatrixBT709
	MatrixFCC
	MatrixBT470BG
	MatrixST170M
	MatrixST240M
	MatrixBT2020NCL
	MatrixBT2020CL
	MatrixDerivedNCL
	MatrixDerivedCL
	MatrixICtCp

	// MatrixLMS2100 is the BT.2100 LMS intermediate. It has no H.273 code
	// point and only appears inside conversion paths.
	MatrixLMS2100
)

// TransferCharacteristics identifies the transfer curve.
type TransferCharacteristics uint8

const (
	TransferUnspecified TransferCharacteristics = iota
	TransferBT709
	TransferBT470M
	TransferBT470BG
	TransferBT601
	TransferST240M
	TransferLinear
	TransferLog100
	TransferLog316
	TransferXVYCC // IEC 61966-2-4
	TransferSRGB  // IEC 61966-2-1
	TransferBT2020_10
	TransferBT2020_12
	TransferST2084
	TransferARIBB67
)

// ColorPrimaries identifies the gamut.
type ColorPrimaries uint8

const (
	PrimariesUnspecified ColorPrimaries = iota
	PrimariesBT709
	PrimariesBT470M
	PrimariesBT470BG
	PrimariesST170M
	PrimariesST240M
	PrimariesFilm
	PrimariesBT2020
	PrimariesST431_2 // DCI-P3
	PrimariesST432_1 // Display P3
	PrimariesEBU3213
)

// ColorRange identifies the integer code value range.
type ColorRange uint8

const (
	RangeUnspecified ColorRange = iota
	RangeLimited
	RangeFull
)

// Enumeration order of the rule generator. Changing the order changes
// which of several equally short paths the solver returns.
var (
	allTransfers = []TransferCharacteristics{
		TransferBT709, TransferBT470M, TransferBT470BG, TransferBT601,
		TransferST240M, TransferLinear, TransferLog100, TransferLog316,
		TransferXVYCC, TransferSRGB, TransferBT2020_10, TransferBT2020_12,
		TransferST2084, TransferARIBB67,
	}
	allPrimaries = []ColorPrimaries{
		PrimariesBT709, PrimariesBT470M, PrimariesBT470BG, PrimariesST170M,
		PrimariesST240M, PrimariesFilm, PrimariesBT2020, PrimariesST431_2,
		PrimariesST432_1, PrimariesEBU3213,
	}
	conventionalMatrices = []MatrixCoefficients{
		MatrixBT709, MatrixFCC, MatrixBT470BG, MatrixST170M, MatrixST240M, MatrixBT2020NCL,
	}
)

// Descriptor is one colorspace: a node of the conversion graph.
//
// Descriptor is a comparable value; == is structural equality and a
// Descriptor can be used directly as a map key. The zero value is the
// fully unspecified colorspace.
type Descriptor struct {
	Matrix    MatrixCoefficients
	Transfer  TransferCharacteristics
	Primaries ColorPrimaries
	Range     ColorRange
}

// WithMatrix returns a copy of d with the matrix replaced.
func (d Descriptor) WithMatrix(m MatrixCoefficients) Descriptor {
	d.Matrix = m
	return d
}

// WithTransfer returns a copy of d with the transfer replaced.
func (d Descriptor) WithTransfer(t TransferCharacteristics) Descriptor {
	d.Transfer = t
	return d
}

// WithPrimaries returns a copy of d with the primaries replaced.
func (d Descriptor) WithPrimaries(p ColorPrimaries) Descriptor {
	d.Primaries = p
	return d
}

// WithRange returns a copy of d with the range replaced.
func (d Descriptor) WithRange(r ColorRange) Descriptor {
	d.Range = r
	return d
}

// sameColorspace compares everything but the range, which is not a
// dimension of the conversion graph.
func (d Descriptor) sameColorspace(other Descriptor) bool {
	return d.Matrix == other.Matrix && d.Transfer == other.Transfer && d.Primaries == other.Primaries
}

// IsValid reports whether d is a meaningful combination of fields.
func (d Descriptor) IsValid() bool {
	return d.validate() == nil
}

func (d Descriptor) validate() error {
	if d.Matrix == MatrixUnspecified && d.Transfer != TransferUnspecified {
		return fmt.Errorf("%v: transfer requires a matrix", d)
	}
	if d.Transfer == TransferUnspecified && d.Primaries != PrimariesUnspecified {
		return fmt.Errorf("%v: primaries require a transfer", d)
	}
	switch d.Matrix {
	case MatrixBT2020CL, MatrixDerivedCL:
		if !d.Transfer.bt709Equivalent() {
			return fmt.Errorf("%v: constant luminance requires a BT.709 family transfer", d)
		}
	}
	switch d.Matrix {
	case MatrixDerivedNCL, MatrixDerivedCL:
		if d.Primaries == PrimariesUnspecified {
			return fmt.Errorf("%v: chromaticity derived matrix requires primaries", d)
		}
	case MatrixICtCp:
		if d.Transfer != TransferST2084 && d.Transfer != TransferARIBB67 {
			return fmt.Errorf("%v: ICtCp requires ST 2084 or ARIB B67", d)
		}
		if d.Primaries != PrimariesBT2020 {
			return fmt.Errorf("%v: ICtCp requires BT.2020 primaries", d)
		}
	case MatrixLMS2100:
		if d.Transfer != TransferLinear && d.Transfer != TransferST2084 && d.Transfer != TransferARIBB67 {
			return fmt.Errorf("%v: LMS requires linear, ST 2084 or ARIB B67", d)
		}
		if d.Primaries != PrimariesBT2020 {
			return fmt.Errorf("%v: LMS requires BT.2020 primaries", d)
		}
	}
	if !d.Matrix.known() || !d.Transfer.known() || !d.Primaries.known() || d.Range > RangeFull {
		return fmt.Errorf("%v: unknown enumeration value", d)
	}
	return nil
}

// DefaultMatrix returns the matrix assumed for untagged content of the
// given frame height.
func DefaultMatrix(height int) MatrixCoefficients {
	if height >= 720 {
		return MatrixBT709
	}
	return MatrixST170M
}

// AutoComplete returns d with every unspecified field taken from in. When
// both matrices are unspecified the matrix defaults by frame height.
func (d Descriptor) AutoComplete(in Descriptor, height int) Descriptor {
	if d.Matrix == MatrixUnspecified {
		d.Matrix = in.Matrix
		if d.Matrix == MatrixUnspecified {
			d.Matrix = DefaultMatrix(height)
		}
	}
	if d.Transfer == TransferUnspecified {
		d.Transfer = in.Transfer
	}
	if d.Primaries == PrimariesUnspecified {
		d.Primaries = in.Primaries
	}
	if d.Range == RangeUnspecified {
		d.Range = in.Range
	}
	return d
}

// String renders d as matrix:transfer:primaries:range with "_" for
// unspecified fields.
func (d Descriptor) String() string {
	return d.Matrix.String() + ":" + d.Transfer.String() + ":" + d.Primaries.String() + ":" + d.Range.String()
}

func (m MatrixCoefficients) known() bool {
	_, ok := matrixNames[m]
	return ok
}

func (t TransferCharacteristics) known() bool {
	_, ok := transferNames[t]
	return ok
}

func (p ColorPrimaries) known() bool {
	_, ok := primariesNames[p]
	return ok
}

// conventional reports whether m is a fixed-coefficient NCL Y'CbCr matrix.
func (m MatrixCoefficients) conventional() bool {
	switch m {
	case MatrixBT709, MatrixFCC, MatrixBT470BG, MatrixST170M, MatrixST240M, MatrixBT2020NCL:
		return true
	}
	return false
}

// fixedLuma returns the luma coefficients of a conventional matrix.
func (m MatrixCoefficients) fixedLuma() (colorimetry.Luma, bool) {
	switch m {
	case MatrixBT709:
		return colorimetry.LumaBT709, true
	case MatrixFCC:
		return colorimetry.LumaFCC, true
	case MatrixBT470BG, MatrixST170M:
		return colorimetry.LumaBT601, true
	case MatrixST240M:
		return colorimetry.LumaST240M, true
	case MatrixBT2020NCL, MatrixBT2020CL:
		return colorimetry.LumaBT2020, true
	}
	return colorimetry.LumaUnknown, false
}

// luma returns the luma coefficients that apply to d, deriving them from
// the primaries for the chromaticity derived matrices.
func (d Descriptor) luma() (colorimetry.Luma, bool) {
	if l, ok := d.Matrix.fixedLuma(); ok {
		return l, true
	}
	switch d.Matrix {
	case MatrixDerivedNCL, MatrixDerivedCL:
		if p, ok := d.Primaries.gamut(); ok {
			return colorimetry.DerivedLuma(p), true
		}
	}
	return colorimetry.LumaUnknown, false
}

func (t TransferCharacteristics) bt709Equivalent() bool {
	switch t {
	case TransferBT709, TransferBT601, TransferBT2020_10, TransferBT2020_12:
		return true
	}
	return false
}

// hdr reports whether t is a high dynamic range curve.
func (t TransferCharacteristics) hdr() bool {
	return t == TransferST2084 || t == TransferARIBB67
}

func (t TransferCharacteristics) kind() (transfer.Kind, bool) {
	switch t {
	case TransferLinear:
		return transfer.KindLinear, true
	case TransferBT709, TransferBT601, TransferBT2020_10, TransferBT2020_12:
		return transfer.KindRec709, true
	case TransferBT470M:
		return transfer.KindBT470M, true
	case TransferBT470BG:
		return transfer.KindBT470BG, true
	case TransferST240M:
		return transfer.KindST240M, true
	case TransferLog100:
		return transfer.KindLog100, true
	case TransferLog316:
		return transfer.KindLog316, true
	case TransferXVYCC:
		return transfer.KindXVYCC, true
	case TransferSRGB:
		return transfer.KindSRGB, true
	case TransferST2084:
		return transfer.KindST2084, true
	case TransferARIBB67:
		return transfer.KindARIBB67, true
	}
	return 0, false
}

func (p ColorPrimaries) gamut() (colorimetry.Primaries, bool) {
	switch p {
	case PrimariesBT709:
		return colorimetry.BT709, true
	case PrimariesBT470M:
		return colorimetry.BT470M, true
	case PrimariesBT470BG:
		return colorimetry.BT470BG, true
	case PrimariesST170M, PrimariesST240M:
		return colorimetry.SMPTEC, true
	case PrimariesFilm:
		return colorimetry.Film, true
	case PrimariesBT2020:
		return colorimetry.BT2020, true
	case PrimariesST431_2:
		return colorimetry.DCIP3, true
	case PrimariesST432_1:
		return colorimetry.P3D65, true
	case PrimariesEBU3213:
		return colorimetry.EBU3213, true
	}
	return colorimetry.Primaries{}, false
}

// defaultPrimaries picks a gamut for a descriptor whose primaries are
// unspecified but whose transfer is known.
func defaultPrimaries(t TransferCharacteristics) ColorPrimaries {
	if t.hdr() {
		return PrimariesBT2020
	}
	return PrimariesBT709
}
