package colorgraph

import (
	"fmt"
	"math"

	"github.com/gogpu/colorgraph/internal/parallel"
)

// evalChunk is the number of pixels one worker converts at a time.
const evalChunk = 4096

// Eval applies ops to one sample on the CPU, in float64. It is the
// reference the emitted kernels are checked against and is used for
// previews.
func Eval(ops []Operation, v Vec3) Vec3 {
	for _, op := range ops {
		v = evalOp(op, v)
	}
	return v
}

// Eval applies the kernel's operations to one sample on the CPU.
func (k *Kernel) Eval(v Vec3) Vec3 { return Eval(k.ops, v) }

// EvalPixels converts packed RGBA samples in place, leaving alpha
// untouched. It is the CPU counterpart of a GPU dispatch of the kernel and
// spreads large buffers across the default worker pool.
func (k *Kernel) EvalPixels(pixels []float32) error {
	if len(pixels)%4 != 0 {
		return fmt.Errorf("colorgraph: %d samples is not a whole number of RGBA pixels: %w", len(pixels), ErrInvalidParameter)
	}
	parallel.Default().Range(len(pixels)/4, evalChunk, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			px := pixels[4*i : 4*i+3]
			v := k.Eval(Vec3{float64(px[0]), float64(px[1]), float64(px[2])})
			px[0], px[1], px[2] = float32(v[0]), float32(v[1]), float32(v[2])
		}
	})
	return nil
}

func evalOp(op Operation, v Vec3) Vec3 {
	switch op := op.(type) {
	case Identity:
		return v
	case Matrix:
		return op.M.Apply(v)
	case GamutMap:
		return op.M.Apply(v)
	case GammaDecode:
		return op.curve.DecodeRGB(v)
	case GammaEncode:
		return op.curve.EncodeRGB(v)
	case CLEncode:
		return op.cl.encode(v)
	case CLDecode:
		return op.cl.decode(v)
	case ToneMap:
		return op.apply(v)
	case RangeScale:
		for i := range v {
			v[i] = v[i]*op.Scale[i] + op.Offset[i]
			if op.Clamp {
				v[i] = math.Min(math.Max(v[i], 0), op.Max)
			}
		}
		return v
	case LUT3D:
		return op.sample(v)
	}
	panic(fmt.Sprintf("colorgraph: eval: unknown operation %T", op))
}
