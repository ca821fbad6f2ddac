// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cube reads 3D lookup tables in the .cube text format.
//
// A file consists of optional keyword lines and exactly N³ data rows:
//
//	# comment
//	TITLE "name"
//	LUT_3D_SIZE N
//	DOMAIN_MIN 0.0 0.0 0.0
//	DOMAIN_MAX 1.0 1.0 1.0
//	r g b
//	...
//
// Data rows are ordered with red changing fastest and blue slowest.
package cube

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Size limits for LUT_3D_SIZE.
const (
	MinSize = 2
	MaxSize = 256
)

var (
	// ErrSyntax reports malformed file content.
	ErrSyntax = errors.New("cube: syntax error")
	// ErrSize reports a missing or out of range LUT_3D_SIZE, or a data row
	// count that does not match it.
	ErrSize = errors.New("cube: size mismatch")
)

// LUT is a parsed 3D lookup table.
type LUT struct {
	Title     string
	Size      int
	DomainMin [3]float32
	DomainMax [3]float32
	// Table holds Size³ RGB triples, red fastest.
	Table []float32
}

// Index returns the offset into Table of the entry at (r, g, b).
func (l *LUT) Index(r, g, b int) int {
	return 3 * (r + l.Size*(g+l.Size*b))
}

// At returns the entry at grid position (r, g, b).
func (l *LUT) At(r, g, b int) [3]float32 {
	i := l.Index(r, g, b)
	return [3]float32{l.Table[i], l.Table[i+1], l.Table[i+2]}
}

// Load reads and parses the .cube file at path.
func Load(path string) (*LUT, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cube: open: %w", err)
	}
	defer f.Close()

	lut, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lut, nil
}

// Parse reads a .cube table from r.
func Parse(r io.Reader) (*LUT, error) {
	lut := &LUT{DomainMax: [3]float32{1, 1, 1}}
	want := 0

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "TITLE":
			lut.Title = strings.Trim(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "TITLE")), `"`)
			continue
		case "LUT_3D_SIZE":
			if want != 0 {
				return nil, fmt.Errorf("line %d: duplicate LUT_3D_SIZE: %w", lineNo, ErrSyntax)
			}
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: LUT_3D_SIZE takes one value: %w", lineNo, ErrSyntax)
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: LUT_3D_SIZE %q: %w", lineNo, fields[1], ErrSyntax)
			}
			if n < MinSize || n > MaxSize {
				return nil, fmt.Errorf("line %d: LUT_3D_SIZE %d outside [%d, %d]: %w", lineNo, n, MinSize, MaxSize, ErrSize)
			}
			lut.Size = n
			want = n * n * n
			lut.Table = make([]float32, 0, 3*want)
			continue
		case "DOMAIN_MIN", "DOMAIN_MAX":
			v, err := parseTriple(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", lineNo, fields[0], err)
			}
			if fields[0] == "DOMAIN_MIN" {
				lut.DomainMin = v
			} else {
				lut.DomainMax = v
			}
			continue
		case "LUT_1D_SIZE", "LUT_1D_INPUT_RANGE":
			return nil, fmt.Errorf("line %d: 1D tables are not supported: %w", lineNo, ErrSyntax)
		case "LUT_3D_INPUT_RANGE":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", lineNo, fields[0], err)
			}
			lut.DomainMin = [3]float32{v[0], v[0], v[0]}
			lut.DomainMax = [3]float32{v[1], v[1], v[1]}
			continue
		}

		if want == 0 {
			return nil, fmt.Errorf("line %d: data before LUT_3D_SIZE: %w", lineNo, ErrSyntax)
		}
		v, err := parseTriple(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if len(lut.Table) == 3*want {
			return nil, fmt.Errorf("line %d: more than %d data rows: %w", lineNo, want, ErrSize)
		}
		lut.Table = append(lut.Table, v[0], v[1], v[2])
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("cube: read: %w", err)
	}

	if want == 0 {
		return nil, fmt.Errorf("missing LUT_3D_SIZE: %w", ErrSize)
	}
	if got := len(lut.Table) / 3; got != want {
		return nil, fmt.Errorf("got %d data rows, want %d: %w", got, want, ErrSize)
	}
	for i := 0; i < 3; i++ {
		if !(lut.DomainMax[i] > lut.DomainMin[i]) {
			return nil, fmt.Errorf("empty domain on channel %d: %w", i, ErrSyntax)
		}
	}
	return lut, nil
}

func parseTriple(fields []string) ([3]float32, error) {
	v, err := parseFloats(fields, 3)
	if err != nil {
		return [3]float32{}, err
	}
	return [3]float32{v[0], v[1], v[2]}, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) != n {
		return nil, fmt.Errorf("want %d values, got %d: %w", n, len(fields), ErrSyntax)
	}
	out := make([]float32, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", f, ErrSyntax)
		}
		out[i] = float32(v)
	}
	return out, nil
}
