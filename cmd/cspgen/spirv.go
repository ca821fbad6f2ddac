//go:build !nogpu

package main

import (
	"encoding/binary"
	"os"

	"github.com/gogpu/colorgraph"
	"github.com/gogpu/colorgraph/gpu"
)

func computeModule(k *colorgraph.Kernel) (string, error) {
	return gpu.WrapCompute(k), nil
}

func writeSPIRV(path string, k *colorgraph.Kernel) error {
	words, err := gpu.CompileSPIRV(k)
	if err != nil {
		return err
	}
	buf := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[4*i:], w)
	}
	return os.WriteFile(path, buf, 0o644)
}
