package colorgraph

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/colorgraph/internal/cube"
)

// Interpolation selects how LUT3D samples between grid points.
type Interpolation uint8

const (
	InterpNearest Interpolation = iota
	InterpTrilinear
	InterpTetrahedral
)

var interpNames = [...]string{
	InterpNearest:     "nearest",
	InterpTrilinear:   "trilinear",
	InterpTetrahedral: "tetrahedral",
}

func (i Interpolation) String() string {
	if int(i) < len(interpNames) {
		return interpNames[i]
	}
	return fmt.Sprintf("interp(%d)", uint8(i))
}

// ParseInterpolation parses an interpolation name case-insensitively.
func ParseInterpolation(s string) (Interpolation, error) {
	f := fold(s)
	for i, name := range interpNames {
		if f == name {
			return Interpolation(i), nil
		}
	}
	return 0, fmt.Errorf("colorgraph: unknown interpolation %q: %w", s, ErrInvalidParameter)
}

// LUTConfig describes a 3D lookup table step. The table comes either from
// a .cube file at Path or, when Path is empty, from Size and Data.
type LUTConfig struct {
	Path   string
	Interp Interpolation

	Size      int
	DomainMin Vec3
	DomainMax Vec3 // zero value means {1, 1, 1}
	// Data holds Size³ RGB triples, red fastest.
	Data []float32
}

// load resolves the table into a LUT3D operation.
func (c *LUTConfig) load() (LUT3D, error) {
	if int(c.Interp) >= len(interpNames) {
		return LUT3D{}, fmt.Errorf("colorgraph: lut: unknown interpolation %d: %w", uint8(c.Interp), ErrInvalidParameter)
	}
	if c.Path != "" {
		return c.loadFile()
	}

	op := LUT3D{
		Size:      c.Size,
		Interp:    c.Interp,
		DomainMin: c.DomainMin,
		DomainMax: c.DomainMax,
		Table:     c.Data,
	}
	if op.DomainMax == (Vec3{}) {
		op.DomainMax = Vec3{1, 1, 1}
	}
	if c.Size < cube.MinSize || c.Size > cube.MaxSize {
		return LUT3D{}, fmt.Errorf("colorgraph: lut: size %d outside [%d, %d]: %w", c.Size, cube.MinSize, cube.MaxSize, ErrInvalidParameter)
	}
	if want := 3 * c.Size * c.Size * c.Size; len(c.Data) != want {
		return LUT3D{}, fmt.Errorf("colorgraph: lut: %d values, want %d: %w", len(c.Data), want, ErrInvalidParameter)
	}
	for i := range 3 {
		if !(op.DomainMax[i] > op.DomainMin[i]) {
			return LUT3D{}, fmt.Errorf("colorgraph: lut: empty domain on channel %d: %w", i, ErrInvalidParameter)
		}
	}
	return op, nil
}

func (c *LUTConfig) loadFile() (LUT3D, error) {
	t, err := cube.Load(c.Path)
	switch {
	case err == nil:
	case errors.Is(err, cube.ErrSyntax):
		return LUT3D{}, fmt.Errorf("colorgraph: lut: %w: %w", err, ErrParse)
	case errors.Is(err, cube.ErrSize):
		return LUT3D{}, fmt.Errorf("colorgraph: lut: %w: %w", err, ErrInvalidParameter)
	default:
		return LUT3D{}, fmt.Errorf("colorgraph: lut: %w: %w", err, ErrFile)
	}

	Logger().Info("lut loaded", "path", c.Path, "size", t.Size, "title", t.Title)
	op := LUT3D{Size: t.Size, Interp: c.Interp, Table: t.Table}
	for i := range 3 {
		op.DomainMin[i] = float64(t.DomainMin[i])
		op.DomainMax[i] = float64(t.DomainMax[i])
	}
	return op, nil
}

// scale returns the factor mapping the domain onto grid coordinates.
func (op LUT3D) scale() Vec3 {
	n := float64(op.Size - 1)
	return Vec3{
		n / (op.DomainMax[0] - op.DomainMin[0]),
		n / (op.DomainMax[1] - op.DomainMin[1]),
		n / (op.DomainMax[2] - op.DomainMin[2]),
	}
}

// constants packs the domain minimum, the grid scale and the table in the
// layout the emitted kernel indexes.
func (op LUT3D) constants() []float32 {
	s := op.scale()
	out := make([]float32, 0, lutHeader+len(op.Table))
	for i := range 3 {
		out = append(out, float32(op.DomainMin[i]))
	}
	for i := range 3 {
		out = append(out, float32(s[i]))
	}
	return append(out, op.Table...)
}

// lutHeader is the number of floats in front of the table.
const lutHeader = 6

func (op LUT3D) at(r, g, b int) Vec3 {
	i := 3 * (r + op.Size*(g+op.Size*b))
	return Vec3{float64(op.Table[i]), float64(op.Table[i+1]), float64(op.Table[i+2])}
}

// sample looks up one value.
func (op LUT3D) sample(x Vec3) Vec3 {
	s := op.scale()
	n := float64(op.Size - 1)
	var p Vec3
	for i := range 3 {
		p[i] = math.Min(math.Max((x[i]-op.DomainMin[i])*s[i], 0), n)
	}

	if op.Interp == InterpNearest {
		return op.at(int(math.Floor(p[0]+0.5)), int(math.Floor(p[1]+0.5)), int(math.Floor(p[2]+0.5)))
	}

	var i0, i1 [3]int
	var f Vec3
	for i := range 3 {
		fl := math.Floor(p[i])
		i0[i] = int(fl)
		i1[i] = min(i0[i]+1, op.Size-1)
		f[i] = p[i] - fl
	}
	c := func(r, g, b int) Vec3 {
		pick := func(bit, ch int) int {
			if bit == 0 {
				return i0[ch]
			}
			return i1[ch]
		}
		return op.at(pick(r, 0), pick(g, 1), pick(b, 2))
	}

	if op.Interp == InterpTrilinear {
		return lerp3(
			lerp3(lerp3(c(0, 0, 0), c(1, 0, 0), f[0]), lerp3(c(0, 1, 0), c(1, 1, 0), f[0]), f[1]),
			lerp3(lerp3(c(0, 0, 1), c(1, 0, 1), f[0]), lerp3(c(0, 1, 1), c(1, 1, 1), f[0]), f[1]),
			f[2])
	}
	return tetrahedral(f, c)
}

func lerp3(a, b Vec3, t float64) Vec3 {
	return Vec3{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t, a[2] + (b[2]-a[2])*t}
}

// tetrahedral interpolates inside the unit cube c using the tetrahedron
// that contains f. The case split matches the emitted kernel.
func tetrahedral(f Vec3, c func(r, g, b int) Vec3) Vec3 {
	fx, fy, fz := f[0], f[1], f[2]
	c000, c111 := c(0, 0, 0), c(1, 1, 1)
	var out Vec3
	add := func(w float64, a, b Vec3) {
		for i := range out {
			out[i] += w * (a[i] - b[i])
		}
	}
	out = c000
	switch {
	case fx > fy && fy > fz:
		c100, c110 := c(1, 0, 0), c(1, 1, 0)
		add(fx, c100, c000)
		add(fy, c110, c100)
		add(fz, c111, c110)
	case fx > fy && fx > fz:
		c100, c101 := c(1, 0, 0), c(1, 0, 1)
		add(fx, c100, c000)
		add(fz, c101, c100)
		add(fy, c111, c101)
	case fx > fy:
		c001, c101 := c(0, 0, 1), c(1, 0, 1)
		add(fz, c001, c000)
		add(fx, c101, c001)
		add(fy, c111, c101)
	case fz > fy:
		c001, c011 := c(0, 0, 1), c(0, 1, 1)
		add(fz, c001, c000)
		add(fy, c011, c001)
		add(fx, c111, c011)
	case fz > fx:
		c010, c011 := c(0, 1, 0), c(0, 1, 1)
		add(fy, c010, c000)
		add(fz, c011, c010)
		add(fx, c111, c011)
	default:
		c010, c110 := c(0, 1, 0), c(1, 1, 0)
		add(fy, c010, c000)
		add(fx, c110, c010)
		add(fz, c111, c110)
	}
	return out
}
