// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"strconv"
	"strings"

	"github.com/gogpu/colorgraph"
)

// WorkgroupSize is the number of pixels one workgroup converts.
const WorkgroupSize = 64

// Binding indices of the compute module built by WrapCompute, all in
// group 0.
const (
	BindingParams    = 0 // uniform: pixel count
	BindingSource    = 1 // storage, read: array<vec4<f32>>
	BindingDest      = 2 // storage, read_write: array<vec4<f32>>
	BindingConstants = 3 // storage, read: array<f32>
)

// paramsSize is the size in bytes of the Params uniform.
const paramsSize = 16

// convertFn is the name of the kernel function inside the module.
const convertFn = "csp_convert"

// WrapCompute builds a complete WGSL compute module around k. Each
// invocation converts one RGBA pixel: the kernel runs on rgb and alpha is
// copied through. The dispatch grid may be two-dimensional; pixels are
// numbered row by row across the grid width.
func WrapCompute(k *colorgraph.Kernel) string {
	var b strings.Builder
	b.WriteString("struct Params {\n    count: u32,\n    pad0: u32,\n    pad1: u32,\n    pad2: u32,\n}\n\n")
	binding := func(i int, decl string) {
		b.WriteString("@group(0) @binding(")
		b.WriteString(strconv.Itoa(i))
		b.WriteString(") ")
		b.WriteString(decl)
		b.WriteString(";\n")
	}
	binding(BindingParams, "var<uniform> params: Params")
	binding(BindingSource, "var<storage, read> src: array<vec4<f32>>")
	binding(BindingDest, "var<storage, read_write> dst: array<vec4<f32>>")
	binding(BindingConstants, "var<storage, read> "+k.ConstantsName+": array<f32>")
	b.WriteString("\n")
	b.WriteString(k.Function(convertFn))
	b.WriteString("\n@compute @workgroup_size(")
	b.WriteString(strconv.Itoa(WorkgroupSize))
	b.WriteString(")\nfn main(@builtin(global_invocation_id) id: vec3<u32>, @builtin(num_workgroups) groups: vec3<u32>) {\n")
	b.WriteString("    let i = id.x + id.y * groups.x * " + strconv.Itoa(WorkgroupSize) + "u;\n")
	b.WriteString("    if (i >= params.count) {\n        return;\n    }\n")
	b.WriteString("    let p = src[i];\n")
	b.WriteString("    dst[i] = vec4<f32>(" + convertFn + "(p.xyz), p.w);\n")
	b.WriteString("}\n")
	return b.String()
}
