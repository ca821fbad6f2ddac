// Package colorgraph generates GPU color conversion kernels.
//
// A colorspace is a [Descriptor]: matrix coefficients, transfer
// characteristics, color primaries and range, named after ITU-T H.273.
// Descriptors are the nodes of an implicit graph whose edges are elementary
// operations such as a 3×3 matrix, a transfer curve or a gamut mapping.
// A [Solver] finds the shortest sequence of operations between two
// descriptors by breadth-first search.
//
// [CompileLeg] turns a conversion request ([Leg]) into an operation list:
// it optionally splices HDR to SDR tone mapping or a 3D LUT into the path,
// fuses adjacent matrices and brackets the result with integer to float
// range scaling. [Compile] emits one or more legs as WGSL:
//
//	leg := colorgraph.NewLeg(
//	    colorgraph.Descriptor{colorgraph.MatrixBT2020NCL, colorgraph.TransferST2084, colorgraph.PrimariesBT2020, colorgraph.RangeLimited},
//	    colorgraph.Descriptor{Matrix: colorgraph.MatrixBT709, Transfer: colorgraph.TransferBT709, Primaries: colorgraph.PrimariesBT709},
//	    colorgraph.WithBitDepth(10, 8),
//	    colorgraph.WithToneMap(colorgraph.DefaultToneMapConfig(colorgraph.ToneMapBT2390)),
//	)
//	k, err := colorgraph.Compile(leg)
//	if err != nil {
//	    return err
//	}
//	src := k.Function("convert") // plus k.Constants for the LUT buffer
//
// The emitted text is a pure function of the operation list, so
// [Kernel.Key] can be used as a shader cache key. The gpu subpackage
// compiles kernels to SPIR-V and uploads their constants.
//
// All errors wrap one of [ErrInvalidParameter], [ErrNoPathFound],
// [ErrUnsupported], [ErrFile] or [ErrParse].
package colorgraph
