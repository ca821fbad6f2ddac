package colorgraph

import (
	"fmt"
	"strconv"
)

// lutLines emits a lookup into the table packed at float offset base of
// the constant buffer, laid out as LUT3D.constants.
func (e *emitter) lutLines(op LUT3D, base int) []string {
	cb := e.opts.constants
	idx := func(i int) string { return cb + "[" + strconv.Itoa(i) + "]" }
	n := strconv.Itoa(op.Size) + "u"
	table := strconv.Itoa(base+lutHeader) + "u"

	// fetch declares cNAME as the entry at the grid position selected per
	// channel from i0 or i1 by the bits of name.
	fetch := func(name string) []string {
		pick := func(bit byte, ch string) string {
			if bit == '0' {
				return "i0." + ch
			}
			return "i1." + ch
		}
		k := "k" + name
		return []string{
			fmt.Sprintf("let %s = 3u * (%s + %s * (%s + %s * %s)) + %s;", k, pick(name[0], "x"), n, pick(name[1], "y"), n, pick(name[2], "z"), table),
			fmt.Sprintf("let c%s = vec3<f32>(%s[%s], %s[%s + 1u], %s[%s + 2u]);", name, cb, k, cb, k, cb, k),
		}
	}

	out := []string{
		"let lut_min = vec3<f32>(" + idx(base) + ", " + idx(base+1) + ", " + idx(base+2) + ");",
		"let lut_scale = vec3<f32>(" + idx(base+3) + ", " + idx(base+4) + ", " + idx(base+5) + ");",
		"let p = clamp((x - lut_min) * lut_scale, vec3<f32>(0.0), " + splat(float64(op.Size-1)) + ");",
	}

	if op.Interp == InterpNearest {
		return append(out,
			"let i = vec3<u32>(floor(p + 0.5));",
			"let k = 3u * (i.x + "+n+" * (i.y + "+n+" * i.z)) + "+table+";",
			"x = vec3<f32>("+cb+"[k], "+cb+"[k + 1u], "+cb+"[k + 2u]);",
		)
	}

	out = append(out,
		"let i0 = vec3<u32>(floor(p));",
		"let i1 = min(i0 + vec3<u32>(1u), vec3<u32>("+strconv.Itoa(op.Size-1)+"u));",
		"let f = p - floor(p);",
	)

	for _, name := range []string{"000", "100", "010", "110", "001", "101", "011", "111"} {
		out = append(out, fetch(name)...)
	}

	if op.Interp == InterpTrilinear {
		return append(out,
			"let c00 = mix(c000, c100, f.x);",
			"let c10 = mix(c010, c110, f.x);",
			"let c01 = mix(c001, c101, f.x);",
			"let c11 = mix(c011, c111, f.x);",
			"x = mix(mix(c00, c10, f.y), mix(c01, c11, f.y), f.z);",
		)
	}

	// Tetrahedral: the same case split as tetrahedral().
	// tetra walks c000 -> ca -> cb -> c111 with weights f.w1, f.w2, f.w3.
	tetra := func(w1, a, w2, b, w3 string) string {
		return fmt.Sprintf("    x = c000 + f.%s * (c%s - c000) + f.%s * (c%s - c%s) + f.%s * (c111 - c%s);", w1, a, w2, b, a, w3, b)
	}
	return append(out,
		"if (f.x > f.y && f.y > f.z) {",
		tetra("x", "100", "y", "110", "z"),
		"} else if (f.x > f.y && f.x > f.z) {",
		tetra("x", "100", "z", "101", "y"),
		"} else if (f.x > f.y) {",
		tetra("z", "001", "x", "101", "y"),
		"} else if (f.z > f.y) {",
		tetra("z", "001", "y", "011", "x"),
		"} else if (f.z > f.x) {",
		tetra("y", "010", "z", "011", "x"),
		"} else {",
		tetra("y", "010", "x", "110", "z"),
		"}",
	)
}
