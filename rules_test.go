package colorgraph

import (
	"testing"

	"github.com/gogpu/colorgraph/internal/mat3"
)

func TestNeighborsValidAndConnected(t *testing.T) {
	nodes := []Descriptor{
		{Matrix: MatrixRGB},
		{MatrixRGB, TransferLinear, PrimariesBT709, RangeFull},
		{MatrixRGB, TransferLinear, PrimariesBT2020, RangeFull},
		{MatrixRGB, TransferLinear, PrimariesUnspecified, RangeFull},
		{MatrixRGB, TransferSRGB, PrimariesBT709, RangeFull},
		bt709Limited,
		hdr10,
		{Matrix: MatrixBT2020CL, Transfer: TransferBT709},
		{MatrixDerivedCL, TransferBT601, PrimariesST170M, RangeLimited},
		{MatrixLMS2100, TransferST2084, PrimariesBT2020, RangeLimited},
		{MatrixLMS2100, TransferLinear, PrimariesBT2020, RangeLimited},
	}
	for _, d := range nodes {
		t.Run(d.String(), func(t *testing.T) {
			edges := neighbors(d, DefaultParams())
			if len(edges) == 0 {
				t.Fatal("no edges")
			}
			for _, e := range edges {
				if e.From != d {
					t.Errorf("edge from %v, want %v", e.From, d)
				}
				if !e.To.IsValid() {
					t.Errorf("edge to invalid %v", e.To)
				}
				if e.To == d {
					t.Errorf("self loop via %v", e.Op.Kind())
				}
				if e.To.Range != d.Range {
					t.Errorf("edge changed range to %v", e.To.Range)
				}
			}
		})
	}
}

func TestNeighborsNone(t *testing.T) {
	for _, d := range []Descriptor{
		{},
		{Matrix: MatrixICtCp, Transfer: TransferST2084, Primaries: PrimariesBT2020},
	} {
		if edges := neighbors(d, DefaultParams()); len(edges) != 0 {
			t.Errorf("neighbors(%v) = %d edges, want none", d, len(edges))
		}
	}
}

func TestNeighborsRGBOrder(t *testing.T) {
	d := Descriptor{MatrixRGB, TransferLinear, PrimariesBT709, RangeFull}
	edges := neighbors(d, DefaultParams())

	for i, m := range conventionalMatrices {
		if edges[i].To.Matrix != m || edges[i].Op.Kind() != OpMatrix {
			t.Fatalf("edge %d = %v via %v, want matrix %v", i, edges[i].To, edges[i].Op.Kind(), m)
		}
	}
	if e := edges[len(conventionalMatrices)]; e.To.Matrix != MatrixDerivedNCL {
		t.Errorf("edge after conventional matrices goes to %v, want derived ncl", e.To)
	}

	// Encodes come before gamut maps, and the fixed BT.2020 CL encode after
	// both.
	var sawEncode, sawGamut, sawCL bool
	for _, e := range edges[len(conventionalMatrices)+1:] {
		switch op := e.Op.(type) {
		case GammaEncode:
			if sawGamut {
				t.Error("gamma encode after gamut map")
			}
			sawEncode = true
		case GamutMap:
			if !sawEncode {
				t.Error("gamut map before any gamma encode")
			}
			sawGamut = true
		case CLEncode:
			if e.To.Matrix == MatrixBT2020CL {
				if !sawGamut || op.Transfer != TransferBT709 {
					t.Errorf("unexpected bt2020 cl edge %v", e.To)
				}
				sawCL = true
			}
		}
	}
	if !sawEncode || !sawGamut || !sawCL {
		t.Errorf("missing edges: encode=%v gamut=%v cl=%v", sawEncode, sawGamut, sawCL)
	}
}

func TestNeighborsRGBLinearBT2020HasLMS(t *testing.T) {
	d := Descriptor{MatrixRGB, TransferLinear, PrimariesBT2020, RangeFull}
	last := neighbors(d, DefaultParams())
	e := last[len(last)-1]
	if e.To.Matrix != MatrixLMS2100 || e.Op.Kind() != OpMatrix {
		t.Errorf("last edge = %v via %v, want LMS matrix", e.To, e.Op.Kind())
	}
}

func TestNeighborsDerivedCLNeedsPrimaries(t *testing.T) {
	d := Descriptor{MatrixRGB, TransferLinear, PrimariesUnspecified, RangeFull}
	for _, e := range neighbors(d, DefaultParams()) {
		if e.To.Matrix == MatrixDerivedCL || e.To.Matrix == MatrixDerivedNCL {
			t.Errorf("derived matrix edge without primaries: %v", e.To)
		}
		if e.Op.Kind() == OpGamutMap {
			t.Errorf("gamut map without primaries: %v", e.To)
		}
	}
}

func TestNeighborsNonLinearRGBDecodes(t *testing.T) {
	d := Descriptor{MatrixRGB, TransferSRGB, PrimariesBT709, RangeFull}
	edges := neighbors(d, DefaultParams())
	last := edges[len(edges)-1]
	dec, ok := last.Op.(GammaDecode)
	if !ok || dec.Transfer != TransferSRGB || last.To != d.WithTransfer(TransferLinear) {
		t.Errorf("last edge = %v via %T, want sRGB decode to linear", last.To, last.Op)
	}
	for _, e := range edges {
		if e.Op.Kind() == OpGammaEncode || e.Op.Kind() == OpGamutMap {
			t.Errorf("non-linear RGB must not encode or gamut map: %v", e.To)
		}
	}
}

func TestNeighborsYUVToRGB(t *testing.T) {
	edges := neighbors(bt709Limited, DefaultParams())
	if len(edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(edges))
	}
	e := edges[0]
	if e.To != bt709Limited.WithMatrix(MatrixRGB) {
		t.Errorf("edge to %v", e.To)
	}
	m := e.Op.(Matrix).M
	// Y=1, no chroma is white.
	white := m.Apply(mat3.Vec3{1, 0, 0})
	if !white.Near(mat3.Vec3{1, 1, 1}, 1e-9) {
		t.Errorf("white = %v", white)
	}
}

func TestNeighborsCLDecode(t *testing.T) {
	d := Descriptor{MatrixBT2020CL, TransferBT2020_10, PrimariesBT2020, RangeLimited}
	edges := neighbors(d, DefaultParams())
	if len(edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(edges))
	}
	if _, ok := edges[0].Op.(CLDecode); !ok {
		t.Errorf("op = %T, want CLDecode", edges[0].Op)
	}
	if want := (Descriptor{MatrixRGB, TransferLinear, PrimariesBT2020, RangeLimited}); edges[0].To != want {
		t.Errorf("edge to %v, want %v", edges[0].To, want)
	}
}

func TestCLRoundTrip(t *testing.T) {
	p := DefaultParams()
	for _, d := range []Descriptor{
		{MatrixBT2020CL, TransferBT709, PrimariesBT2020, RangeLimited},
		{MatrixDerivedCL, TransferBT601, PrimariesST432_1, RangeLimited},
	} {
		t.Run(d.String(), func(t *testing.T) {
			dec := neighbors(d, p)[0].Op.(CLDecode)
			enc := CLEncode{Transfer: dec.Transfer, cl: dec.cl}
			for _, rgb := range []Vec3{{0, 0, 0}, {1, 1, 1}, {0.2, 0.5, 0.8}, {0.9, 0.1, 0.05}, {0.01, 0.7, 0.3}} {
				got := Eval([]Operation{enc, dec}, rgb)
				if !got.Near(rgb, 1e-9) {
					t.Errorf("round trip %v = %v", rgb, got)
				}
			}
			// Grey has no chroma.
			ycc := Eval([]Operation{enc}, Vec3{0.5, 0.5, 0.5})
			if !floatNear(ycc[1], 0, 1e-12) || !floatNear(ycc[2], 0, 1e-12) {
				t.Errorf("grey chroma = %v", ycc)
			}
		})
	}
}
