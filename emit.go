package colorgraph

import (
	"fmt"
	"strconv"
	"strings"
)

// EmitOption configures Emit.
type EmitOption func(*emitOptions)

type emitOptions struct {
	constants string
}

// WithConstantsName sets the WGSL name of the constant buffer.
func WithConstantsName(name string) EmitOption {
	return func(o *emitOptions) {
		o.constants = name
	}
}

// emitter accumulates fragments and the constant side table.
type emitter struct {
	opts      emitOptions
	fragments []Fragment
	constants []float32
}

// Emit serializes an operation list to WGSL. The output is a pure function
// of ops and opts: equal inputs give byte-identical kernels.
func Emit(ops []Operation, opts ...EmitOption) *Kernel {
	e := &emitter{opts: emitOptions{constants: DefaultConstantsName}}
	for _, opt := range opts {
		opt(&e.opts)
	}
	for _, op := range ops {
		e.fragments = append(e.fragments, e.fragment(op))
	}

	var b strings.Builder
	for _, f := range e.fragments {
		f.write(&b, "")
	}
	k := &Kernel{
		Fragments:     e.fragments,
		Source:        b.String(),
		ConstantsName: e.opts.constants,
		Constants:     packFloats(e.constants),
		ops:           ops,
	}
	Logger().Debug("kernel emitted",
		"operations", len(ops),
		"bytes", len(k.Source),
		"constants", len(e.constants))
	return k
}

func (e *emitter) fragment(op Operation) Fragment {
	f := Fragment{Kind: op.Kind()}
	switch op := op.(type) {
	case Identity:
		f.Lines = []string{"// identity"}
	case Matrix:
		f.Lines = []string{
			"// matrix",
			"let m = " + fmtMat3(op.M) + ";",
			"x = m * x;",
		}
	case GamutMap:
		f.Lines = []string{
			"// gamut_map " + op.From.String() + " -> " + op.To.String(),
			"let m = " + fmtMat3(op.M) + ";",
			"x = m * x;",
		}
	case GammaDecode:
		f.Lines = append([]string{"// gamma_decode " + op.Transfer.String()}, decodeLines("x", op.curve)...)
	case GammaEncode:
		f.Lines = append([]string{"// gamma_encode " + op.Transfer.String()}, encodeLines("x", op.curve)...)
	case CLEncode:
		f.Lines = append([]string{"// cl_encode " + op.Transfer.String()}, clEncodeLines(op.cl)...)
	case CLDecode:
		f.Lines = append([]string{"// cl_decode " + op.Transfer.String()}, clDecodeLines(op.cl)...)
	case ToneMap:
		f.Lines = append([]string{"// tonemap " + op.Config.Operator.String()}, toneMapLines(op)...)
	case RangeScale:
		f.Lines = []string{
			"// range_scale",
			"x = x * " + fmtVec3(op.Scale) + " + " + fmtVec3(op.Offset) + ";",
		}
		if op.Clamp {
			f.Lines = append(f.Lines, "x = clamp(x, vec3<f32>(0.0), vec3<f32>("+fmtF(op.Max)+"));")
		}
	case LUT3D:
		base := len(e.constants)
		e.constants = append(e.constants, op.constants()...)
		f.Lines = append([]string{fmt.Sprintf("// lut3d %s %d", op.Interp, op.Size)}, e.lutLines(op, base)...)
	default:
		panic(fmt.Sprintf("colorgraph: emit: unknown operation %T", op))
	}
	return f
}

// fmtF formats v as a WGSL floating point literal. The value is rounded to
// float32 first so that the text does not depend on float64 noise below
// the shader's precision.
func fmtF(v float64) string {
	s := strconv.FormatFloat(float64(float32(v)), 'g', -1, 32)
	if strings.ContainsAny(s, ".") {
		return s
	}
	if i := strings.IndexByte(s, 'e'); i >= 0 {
		return s[:i] + ".0" + s[i:]
	}
	return s + ".0"
}

func fmtVec3(v Vec3) string {
	return "vec3<f32>(" + fmtF(v[0]) + ", " + fmtF(v[1]) + ", " + fmtF(v[2]) + ")"
}

// fmtMat3 formats m as a WGSL constructor. WGSL matrices are column major.
func fmtMat3(m Mat3) string {
	var parts []string
	for col := range 3 {
		for row := range 3 {
			parts = append(parts, fmtF(m[row][col]))
		}
	}
	return "mat3x3<f32>(" + strings.Join(parts, ", ") + ")"
}

// splat formats v as a vec3<f32> with equal components.
func splat(v float64) string {
	return "vec3<f32>(" + fmtF(v) + ")"
}

// indent prefixes lines for nesting inside a block.
func indent(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = "    " + l
	}
	return out
}

// block wraps lines into a nested compound statement.
func block(lines []string) []string {
	out := make([]string, 0, len(lines)+2)
	out = append(out, "{")
	out = append(out, indent(lines)...)
	return append(out, "}")
}
