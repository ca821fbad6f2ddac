// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// Package gpu runs colorgraph kernels on a wgpu HAL device.
//
// [WrapCompute] turns a kernel into a compute module that converts one
// RGBA pixel per invocation. [CompileSPIRV] compiles it with naga and
// caches the result by kernel digest. A [Program] owns the pipeline and the
// LUT constant buffer on one device:
//
//	k, err := colorgraph.Compile(leg)
//	...
//	p, err := gpu.NewProgram(device, queue, k)
//	...
//	defer p.Destroy()
//	out, err := p.Convert(pixels)
//
// Build with the nogpu tag to exclude this package.
package gpu
