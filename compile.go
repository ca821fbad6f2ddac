package colorgraph

import (
	"fmt"
	"math"
	"slices"

	"github.com/gogpu/colorgraph/internal/cache"
	"github.com/gogpu/colorgraph/internal/colorimetry"
)

// solveKey identifies one search. Searches are deterministic, so equal keys
// give equal paths.
type solveKey struct {
	params  Params
	in, out Descriptor
	height  int
}

// pathCache memoizes solved paths across legs.
var pathCache = cache.New[solveKey, Path](256)

// solve runs s.Solve through pathCache.
func solve(s *Solver, in, out Descriptor, height int) (Path, error) {
	p, err := pathCache.GetOrCreate(solveKey{s.Params(), in, out, height}, func() (Path, error) {
		return s.Solve(in, out, height)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(p), nil
}

// Compiled is the result of compiling one leg.
type Compiled struct {
	Leg Leg

	// Path is the solved path before fusion, including any tone mapping
	// or LUT edge.
	Path Path

	// Edges is Path after matrix fusion with identity edges removed.
	Edges []Edge

	// Ops is the operation list of the kernel: the operations of Edges
	// bracketed by the integer to float and float to integer range scales.
	Ops []Operation
}

// CompileLeg solves and compiles one leg. It validates the whole request
// before searching.
func CompileLeg(l Leg) (*Compiled, error) {
	if err := l.validate(); err != nil {
		return nil, err
	}

	s := NewSolver(l.Params())
	var (
		path Path
		err  error
	)
	switch {
	case l.HDR2SDR != nil:
		path, err = solveToneMapped(s, l)
	case l.LUT != nil:
		path, err = solveLUT(s, l)
	default:
		path, err = solve(s, l.From, l.To, l.FrameHeight)
	}
	if err != nil {
		return nil, err
	}

	edges := fuse(path)
	first, last := path.From(), path.To()
	ops := make([]Operation, 0, len(edges)+2)
	ops = append(ops, rangeToFloat(first, l.InputBitDepth))
	for _, e := range edges {
		ops = append(ops, e.Op)
	}
	ops = append(ops, rangeToInt(last, l.OutputBitDepth))

	st := pathCache.Stats()
	Logger().Debug("conversion compiled",
		"from", first.String(),
		"to", last.String(),
		"edges", len(path),
		"fused", len(edges),
		"path_cache_len", st.Len,
		"path_cache_hits", st.Hits,
		"path_cache_misses", st.Misses)

	return &Compiled{Leg: l, Path: path, Edges: edges, Ops: ops}, nil
}

// Compile compiles the legs in order into a single kernel. The legs share
// one constant buffer. No kernel is returned if any leg fails.
func Compile(legs ...Leg) (*Kernel, error) {
	var ops []Operation
	for _, l := range legs {
		c, err := CompileLeg(l)
		if err != nil {
			return nil, err
		}
		ops = append(ops, c.Ops...)
	}
	return Emit(ops), nil
}

// solveToneMapped splices a tone mapping edge at the linear RGB node of the
// input.
func solveToneMapped(s *Solver, l Leg) (Path, error) {
	in := l.From
	if in.Primaries == PrimariesUnspecified && in.Transfer != TransferUnspecified {
		in.Primaries = defaultPrimaries(in.Transfer)
	}
	node := in.WithMatrix(MatrixRGB).WithTransfer(TransferLinear)

	p1, err := solve(s, in, node, l.FrameHeight)
	if err != nil {
		return nil, err
	}

	luma := colorimetry.LumaBT709
	if g, ok := node.Primaries.gamut(); ok {
		luma = colorimetry.DerivedLuma(g)
	}
	tm := Edge{From: node, To: node, Op: ToneMap{
		Config: *l.HDR2SDR,
		Scale:  l.PeakLuminance / l.HDR2SDR.LDRNits,
		Luma:   luma.Weights(),
	}}

	p2, err := solve(s, node, sdrTarget(l.To, in).AutoComplete(in, l.FrameHeight), l.FrameHeight)
	if err != nil {
		return nil, err
	}
	return p1.Concat(Path{tm}, p2), nil
}

// sdrTarget fills the unspecified fields of a tone mapped output with SDR
// defaults before the rest is completed from the input: BT.709 transfer
// and primaries, and the BT.709 matrix in place of a BT.2020 one.
func sdrTarget(to, in Descriptor) Descriptor {
	if to.Matrix == MatrixUnspecified {
		switch in.Matrix {
		case MatrixBT2020NCL, MatrixBT2020CL:
			to.Matrix = MatrixBT709
		}
	}
	if to.Transfer == TransferUnspecified {
		to.Transfer = TransferBT709
	}
	if to.Primaries == PrimariesUnspecified {
		to.Primaries = PrimariesBT709
	}
	return to
}

// solveLUT splices a lookup table edge at the RGB node of the input.
func solveLUT(s *Solver, l Leg) (Path, error) {
	op, err := l.LUT.load()
	if err != nil {
		return nil, err
	}

	node := l.From.WithMatrix(MatrixRGB)
	p1, err := solve(s, l.From, node, l.FrameHeight)
	if err != nil {
		return nil, err
	}

	out := node
	if l.LUTOutput != nil {
		out = l.LUTOutput.AutoComplete(node, l.FrameHeight)
		if err := out.validate(); err != nil {
			return nil, fmt.Errorf("colorgraph: LUT output %w: %w", err, ErrInvalidParameter)
		}
	}
	lut := Edge{From: node, To: out, Op: op}

	p2, err := solve(s, out, l.To.AutoComplete(l.From, l.FrameHeight), l.FrameHeight)
	if err != nil {
		return nil, err
	}
	return p1.Concat(Path{lut}, p2), nil
}

// fuse merges adjacent fusable operations left to right and drops identity
// edges. A fused edge spans from the first merged edge to the last.
func fuse(path Path) []Edge {
	out := make([]Edge, 0, len(path))
	for _, e := range path {
		if e.Op.Kind() == OpIdentity {
			continue
		}
		if n := len(out); n > 0 {
			if op, ok := Fuse(out[n-1].Op, e.Op); ok {
				out[n-1].Op = op
				out[n-1].To = e.To
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

// hasChroma reports whether the second and third channels of d are
// color differences centred on zero.
func (d Descriptor) hasChroma() bool {
	switch d.Matrix {
	case MatrixUnspecified, MatrixRGB, MatrixLMS2100:
		return false
	}
	return true
}

// quantization returns the code value of 0 and the code value span of 1.0
// per channel for samples of d at the given bit depth.
func quantization(d Descriptor, depth int) (zero, span Vec3) {
	peak := math.Exp2(float64(depth)) - 1
	if !d.hasChroma() {
		return Vec3{}, Vec3{peak, peak, peak}
	}
	if d.Range == RangeFull {
		mid := math.Exp2(float64(depth - 1))
		return Vec3{0, mid, mid}, Vec3{peak, peak, peak}
	}
	k := math.Exp2(float64(depth - 8))
	return Vec3{16 * k, 128 * k, 128 * k}, Vec3{219 * k, 224 * k, 224 * k}
}

// rangeToFloat maps integer code values of d to normalized samples.
func rangeToFloat(d Descriptor, depth int) RangeScale {
	zero, span := quantization(d, depth)
	var rs RangeScale
	for i := range 3 {
		rs.Scale[i] = 1 / span[i]
		rs.Offset[i] = -zero[i] / span[i]
	}
	return rs
}

// rangeToInt maps normalized samples of d to integer code values, clamped
// to the code range.
func rangeToInt(d Descriptor, depth int) RangeScale {
	zero, span := quantization(d, depth)
	return RangeScale{
		Scale:  span,
		Offset: zero,
		Clamp:  true,
		Max:    math.Exp2(float64(depth)) - 1,
	}
}
