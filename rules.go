package colorgraph

import (
	"github.com/gogpu/colorgraph/internal/colorimetry"
	"github.com/gogpu/colorgraph/internal/transfer"
)

// curve resolves the transfer curve of t under p.
func (p Params) curve(t TransferCharacteristics) (transfer.Curve, bool) {
	k, ok := t.kind()
	if !ok {
		return transfer.Curve{}, false
	}
	c, err := transfer.Lookup(k, p.transferOptions())
	if err != nil {
		return transfer.Curve{}, false
	}
	return c, true
}

// clCurve resolves the curve used inside constant luminance equations,
// which are always defined on the camera OETF.
func (p Params) clCurve(t TransferCharacteristics) (transfer.Curve, bool) {
	p.SceneReferred = true
	return p.curve(t)
}

// neighbors returns the edges leaving d. The order is significant: among
// several shortest paths the solver returns the one found first.
func neighbors(d Descriptor, p Params) []Edge {
	var out []Edge
	add := func(to Descriptor, op Operation) {
		if to.IsValid() {
			out = append(out, Edge{From: d, To: to, Op: op})
		}
	}

	switch d.Matrix {
	case MatrixUnspecified, MatrixICtCp:
		return nil

	case MatrixRGB:
		for _, m := range conventionalMatrices {
			l, _ := m.fixedLuma()
			add(d.WithMatrix(m), Matrix{M: colorimetry.NCLRGBToYUV(l)})
		}
		gamut, hasGamut := d.Primaries.gamut()
		if hasGamut {
			add(d.WithMatrix(MatrixDerivedNCL), Matrix{M: colorimetry.NCLRGBToYUV(colorimetry.DerivedLuma(gamut))})
		}

		switch {
		case d.Transfer == TransferLinear:
			for _, t := range allTransfers {
				if t == TransferLinear {
					continue
				}
				if c, ok := p.curve(t); ok {
					add(d.WithTransfer(t), GammaEncode{Transfer: t, curve: c})
				}
				if hasGamut && t.bt709Equivalent() {
					if c, ok := p.clCurve(t); ok {
						cl := newCLParams(colorimetry.DerivedLuma(gamut), c)
						add(d.WithTransfer(t).WithMatrix(MatrixDerivedCL), CLEncode{Transfer: t, cl: cl})
					}
				}
			}
			if hasGamut {
				for _, prim := range allPrimaries {
					if prim == d.Primaries {
						continue
					}
					dst, _ := prim.gamut()
					add(d.WithPrimaries(prim), GamutMap{From: d.Primaries, To: prim, M: colorimetry.GamutMatrix(gamut, dst)})
				}
			}
			if c, ok := p.clCurve(TransferBT709); ok {
				cl := newCLParams(colorimetry.LumaBT2020, c)
				add(d.WithMatrix(MatrixBT2020CL).WithTransfer(TransferBT709), CLEncode{Transfer: TransferBT709, cl: cl})
			}
			if d.Primaries == PrimariesBT2020 {
				add(d.WithMatrix(MatrixLMS2100), Matrix{M: colorimetry.RGBToLMS})
			}

		case d.Transfer != TransferUnspecified:
			if c, ok := p.curve(d.Transfer); ok {
				add(d.WithTransfer(TransferLinear), GammaDecode{Transfer: d.Transfer, curve: c})
			}
		}

	case MatrixBT2020CL, MatrixDerivedCL:
		l, ok := d.luma()
		if !ok {
			return nil
		}
		if c, ok := p.clCurve(d.Transfer); ok {
			add(d.WithMatrix(MatrixRGB).WithTransfer(TransferLinear), CLDecode{Transfer: d.Transfer, cl: newCLParams(l, c)})
		}

	case MatrixLMS2100:
		switch d.Transfer {
		case TransferST2084, TransferARIBB67:
			if c, ok := p.curve(d.Transfer); ok {
				add(d.WithTransfer(TransferLinear), GammaDecode{Transfer: d.Transfer, curve: c})
			}
		case TransferLinear:
			add(d.WithMatrix(MatrixRGB), Matrix{M: colorimetry.LMSToRGB})
		}

	default:
		if l, ok := d.luma(); ok {
			add(d.WithMatrix(MatrixRGB), Matrix{M: colorimetry.NCLYUVToRGB(l)})
		}
	}
	return out
}
