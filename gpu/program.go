// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"
	"unsafe"

	"github.com/gogpu/colorgraph"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrNoHAL is returned when a device provider does not expose HAL types.
var ErrNoHAL = errors.New("gpu: provider does not expose HAL device and queue")

// minConstantsSize is the smallest constant buffer allocated, so that
// kernels without LUTs still bind a valid storage buffer.
const minConstantsSize = 16

// waitTimeout bounds how long Convert waits for the GPU.
const waitTimeout = 5 * time.Second

// pollInterval is the sleep between completion polls.
const pollInterval = 100 * time.Microsecond

// maxWorkgroupsPerDimension is the WebGPU default limit on each dispatch
// dimension.
const maxWorkgroupsPerDimension = 65535

// workgroups returns the dispatch grid for count pixels. Grids wider than
// the per-dimension limit wrap into rows; WrapCompute recovers the pixel
// index from the grid width.
func workgroups(count uint32) (x, y uint32) {
	groups := (uint64(count) + WorkgroupSize - 1) / WorkgroupSize
	if groups == 0 {
		return 0, 0
	}
	x = uint32(min(groups, maxWorkgroupsPerDimension))
	y = uint32((groups + uint64(x) - 1) / uint64(x))
	return x, y
}

// Program is a kernel loaded on a device: its compute pipeline and its
// constant buffer. It is safe for concurrent use.
type Program struct {
	mu sync.Mutex

	device hal.Device
	queue  hal.Queue
	kernel *colorgraph.Kernel

	module     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	constants     hal.Buffer
	constantsSize uint64
}

// NewProgram compiles k for device and uploads its constants. The kernel
// is compiled to SPIR-V when possible, otherwise the WGSL source is handed
// to the device.
func NewProgram(device hal.Device, queue hal.Queue, k *colorgraph.Kernel) (*Program, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("gpu: nil device or queue: %w", colorgraph.ErrInvalidParameter)
	}
	p := &Program{device: device, queue: queue, kernel: k}
	if err := p.init(); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

// NewProgramFromProvider loads k on the device of a shared GPU context.
// The provider must also implement HalDevice() any and HalQueue() any.
func NewProgramFromProvider(provider gpucontext.DeviceProvider, k *colorgraph.Kernel) (*Program, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, ErrNoHAL
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, ErrNoHAL
	}
	return NewProgram(device, queue, k)
}

func (p *Program) init() error {
	source := hal.ShaderSource{}
	if words, err := CompileSPIRV(p.kernel); err == nil {
		source.SPIRV = words
	} else {
		colorgraph.Logger().Warn("SPIR-V compilation failed, using WGSL", "err", err)
		source.WGSL = WrapCompute(p.kernel)
	}

	module, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "csp_kernel",
		Source: source,
	})
	if err != nil {
		return fmt.Errorf("gpu: create shader module: %w", err)
	}
	p.module = module

	p.bindLayout, err = p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "csp_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: BindingParams, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: BindingSource, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: BindingDest, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
			{Binding: BindingConstants, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create bind group layout: %w", err)
	}

	p.pipeLayout, err = p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "csp_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("gpu: create pipeline layout: %w", err)
	}

	p.pipeline, err = p.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "csp_pipeline", Layout: p.pipeLayout,
		Compute: hal.ComputeState{Module: p.module, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("gpu: create compute pipeline: %w", err)
	}

	return p.uploadConstants()
}

func (p *Program) uploadConstants() error {
	data := p.kernel.Constants
	p.constantsSize = max(uint64(len(data)), minConstantsSize)
	buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "csp_constants", Size: p.constantsSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create constant buffer: %w", err)
	}
	p.constants = buf
	if len(data) > 0 {
		if err := p.queue.WriteBuffer(buf, 0, data); err != nil {
			return fmt.Errorf("gpu: upload constants: %w", err)
		}
	}
	colorgraph.Logger().Debug("kernel constants uploaded", "bytes", len(data))
	return nil
}

// Kernel returns the kernel the program runs.
func (p *Program) Kernel() *colorgraph.Kernel { return p.kernel }

// ConstantsSize returns the allocated size of the constant buffer.
func (p *Program) ConstantsSize() uint64 { return p.constantsSize }

// Convert runs the kernel over RGBA pixels, four float32 values each, and
// returns the converted pixels. Input values are integer code values as
// float, the same domain the kernel was compiled for.
func (p *Program) Convert(pixels []float32) ([]float32, error) {
	if len(pixels)%4 != 0 {
		return nil, fmt.Errorf("gpu: %d values is not a whole number of RGBA pixels: %w", len(pixels), colorgraph.ErrInvalidParameter)
	}
	count := len(pixels) / 4
	if count == 0 {
		return nil, nil
	}
	if uint64(count) > math.MaxUint32 {
		return nil, fmt.Errorf("gpu: %d pixels: %w", count, colorgraph.ErrInvalidParameter)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pipeline == nil {
		return nil, fmt.Errorf("gpu: program destroyed: %w", colorgraph.ErrInvalidParameter)
	}

	size := uint64(len(pixels)) * 4
	var bufs []hal.Buffer
	defer func() {
		for _, b := range bufs {
			p.device.DestroyBuffer(b)
		}
	}()
	newBuf := func(label string, size uint64, usage gputypes.BufferUsage) (hal.Buffer, error) {
		b, err := p.device.CreateBuffer(&hal.BufferDescriptor{Label: label, Size: size, Usage: usage})
		if err != nil {
			return nil, fmt.Errorf("gpu: create %s buffer: %w", label, err)
		}
		bufs = append(bufs, b)
		return b, nil
	}

	params, err := newBuf("csp_params", paramsSize, gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	src, err := newBuf("csp_src", size, gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	dst, err := newBuf("csp_dst", size, gputypes.BufferUsageStorage|gputypes.BufferUsageCopySrc)
	if err != nil {
		return nil, err
	}
	staging, err := newBuf("csp_staging", size, gputypes.BufferUsageMapRead|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}

	var pb [paramsSize]byte
	binary.LittleEndian.PutUint32(pb[:], uint32(count))
	if err := p.queue.WriteBuffer(params, 0, pb[:]); err != nil {
		return nil, fmt.Errorf("gpu: upload params: %w", err)
	}
	if err := p.queue.WriteBuffer(src, 0, packPixels(pixels)); err != nil {
		return nil, fmt.Errorf("gpu: upload pixels: %w", err)
	}

	bg, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "csp_bind", Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: BindingParams, Resource: gputypes.BufferBinding{Buffer: params.NativeHandle(), Size: paramsSize}},
			{Binding: BindingSource, Resource: gputypes.BufferBinding{Buffer: src.NativeHandle(), Size: size}},
			{Binding: BindingDest, Resource: gputypes.BufferBinding{Buffer: dst.NativeHandle(), Size: size}},
			{Binding: BindingConstants, Resource: gputypes.BufferBinding{Buffer: p.constants.NativeHandle(), Size: p.constantsSize}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create bind group: %w", err)
	}
	defer p.device.DestroyBindGroup(bg)

	if err := p.dispatch(bg, uint32(count), dst, staging, size); err != nil {
		return nil, err
	}

	return p.readback(staging, size)
}

func (p *Program) dispatch(bg hal.BindGroup, count uint32, dst, staging hal.Buffer, size uint64) error {
	encoder, err := p.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "csp_encoder"})
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("csp_convert"); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}
	x, y := workgroups(count)
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "csp_pass"})
	pass.SetPipeline(p.pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.Dispatch(x, y, 1)
	pass.End()
	encoder.CopyBufferToBuffer(dst, staging, []hal.BufferCopy{{Size: size}})
	cmd, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer p.device.FreeCommandBuffer(cmd)

	index, err := p.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	return p.wait(index)
}

// wait blocks until the queue reports submission index as completed.
func (p *Program) wait(index uint64) error {
	deadline := time.Now().Add(waitTimeout)
	for p.queue.PollCompleted() < index {
		if time.Now().After(deadline) {
			return fmt.Errorf("gpu: submission %d not completed after %v", index, waitTimeout)
		}
		time.Sleep(pollInterval)
	}
	return nil
}

// readback maps the staging buffer and decodes the converted pixels.
func (p *Program) readback(staging hal.Buffer, size uint64) ([]float32, error) {
	m, err := p.device.MapBuffer(staging, 0, size)
	if err != nil {
		return nil, fmt.Errorf("gpu: map staging buffer: %w", err)
	}
	out := unpackPixels(unsafe.Slice((*byte)(m.Ptr), size))
	if err := p.device.UnmapBuffer(staging); err != nil {
		return nil, fmt.Errorf("gpu: unmap staging buffer: %w", err)
	}
	if !m.IsCoherent {
		colorgraph.Logger().Debug("staging buffer mapping is not coherent")
	}
	return out, nil
}

// Destroy releases the device resources of the program. It is safe to
// call more than once.
func (p *Program) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.constants != nil {
		p.device.DestroyBuffer(p.constants)
		p.constants = nil
	}
	if p.pipeline != nil {
		p.device.DestroyComputePipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.module != nil {
		p.device.DestroyShaderModule(p.module)
		p.module = nil
	}
}

func packPixels(v []float32) []byte {
	out := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(f))
	}
	return out
}

func unpackPixels(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return out
}
