//go:build nogpu

package main

import (
	"errors"

	"github.com/gogpu/colorgraph"
)

var errNoGPU = errors.New("built with the nogpu tag")

func computeModule(*colorgraph.Kernel) (string, error) { return "", errNoGPU }

func writeSPIRV(string, *colorgraph.Kernel) error { return errNoGPU }
