// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/colorgraph"
	"github.com/gogpu/colorgraph/internal/cache"
	"github.com/gogpu/naga"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// spirvCache holds compiled modules keyed by kernel digest.
var spirvCache = cache.New[[32]byte, []uint32](64)

// CompileSPIRV compiles the compute module of k to SPIR-V words. Results
// are cached by [colorgraph.Kernel.Key].
func CompileSPIRV(k *colorgraph.Kernel) ([]uint32, error) {
	words, err := spirvCache.GetOrCreate(k.Key(), func() ([]uint32, error) {
		code, err := naga.Compile(WrapCompute(k))
		if err != nil {
			return nil, fmt.Errorf("gpu: compile kernel: %w", err)
		}
		return spirvWords(code)
	})
	if err != nil {
		return nil, err
	}
	st := spirvCache.Stats()
	colorgraph.Logger().Debug("kernel SPIR-V ready",
		"words", len(words),
		"cache_len", st.Len,
		"cache_hits", st.Hits,
		"cache_misses", st.Misses)
	return words, nil
}

// spirvWords converts little-endian SPIR-V bytes to words.
func spirvWords(code []byte) ([]uint32, error) {
	if len(code) < 4 || len(code)%4 != 0 {
		return nil, fmt.Errorf("gpu: SPIR-V length %d is not a positive multiple of 4", len(code))
	}
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[4*i:])
	}
	if words[0] != spirvMagic {
		return nil, fmt.Errorf("gpu: bad SPIR-V magic 0x%08X", words[0])
	}
	return words, nil
}
