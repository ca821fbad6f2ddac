// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package parallel

import (
	"sync/atomic"
	"testing"
)

func TestPoolRun(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	var n atomic.Int64
	work := make([]func(), 100)
	for i := range work {
		work[i] = func() { n.Add(int64(i)) }
	}
	p.Run(work)
	if got := n.Load(); got != 4950 {
		t.Errorf("sum = %d, want 4950", got)
	}
}

func TestPoolRange(t *testing.T) {
	p := NewPool(3)
	defer p.Close()

	tests := []struct {
		name     string
		n, chunk int
	}{
		{"empty", 0, 8},
		{"inline", 5, 8},
		{"exact", 64, 8},
		{"remainder", 67, 8},
		{"no chunk", 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := make([]atomic.Int32, tt.n)
			p.Range(tt.n, tt.chunk, func(lo, hi int) {
				if tt.chunk > 0 && hi-lo > tt.chunk {
					t.Errorf("chunk [%d, %d) too large", lo, hi)
				}
				for i := lo; i < hi; i++ {
					seen[i].Add(1)
				}
			})
			for i := range seen {
				if c := seen[i].Load(); c != 1 {
					t.Errorf("index %d visited %d times", i, c)
				}
			}
		})
	}
}

func TestPoolClosed(t *testing.T) {
	p := NewPool(2)
	p.Close()
	p.Close()

	ran := 0
	p.Run([]func(){func() { ran++ }, func() { ran++ }})
	if ran != 2 {
		t.Errorf("ran = %d on a closed pool, want 2", ran)
	}
}

func TestDefault(t *testing.T) {
	if Default() != Default() {
		t.Error("Default returned different pools")
	}
	if Default().Workers() < 1 {
		t.Error("Default has no workers")
	}
}

func BenchmarkRange(b *testing.B) {
	p := NewPool(0)
	defer p.Close()
	data := make([]float64, 1<<16)
	for b.Loop() {
		p.Range(len(data), 4096, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				data[i] = data[i]*0.5 + 1
			}
		})
	}
}
