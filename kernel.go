package colorgraph

import (
	"encoding/binary"
	"math"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// DefaultConstantsName is the WGSL name of the constant buffer the kernel
// reads LUT data from.
const DefaultConstantsName = "csp_const"

// Fragment is the code of one operation: the statements of a WGSL compound
// statement that updates the vec3<f32> variable x in place.
type Fragment struct {
	Kind  OpKind
	Lines []string
}

// String renders the fragment as a braced block.
func (f Fragment) String() string {
	var b strings.Builder
	f.write(&b, "")
	return b.String()
}

func (f Fragment) write(b *strings.Builder, indent string) {
	b.WriteString(indent)
	b.WriteString("{\n")
	for _, l := range f.Lines {
		b.WriteString(indent)
		b.WriteString("    ")
		b.WriteString(l)
		b.WriteByte('\n')
	}
	b.WriteString(indent)
	b.WriteString("}\n")
}

// Kernel is emitted WGSL conversion code with its constant side table.
type Kernel struct {
	// Fragments holds the code of each operation in order.
	Fragments []Fragment

	// Source is the kernel body: the fragments joined in order. It reads
	// and writes a variable `x: vec3<f32>` declared by the caller.
	Source string

	// ConstantsName is the name of the array<f32> storage buffer the
	// source indexes.
	ConstantsName string

	// Constants is the little-endian float32 data of the constant buffer.
	Constants []byte

	ops []Operation
}

// Ops returns the operation list the kernel was emitted from.
func (k *Kernel) Ops() []Operation { return k.ops }

// Key returns a digest of the source and constants, suitable as a shader
// cache key.
func (k *Kernel) Key() [32]byte {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(k.Source))
	h.Write([]byte{0})
	h.Write([]byte(k.ConstantsName))
	h.Write([]byte{0})
	h.Write(k.Constants)
	var key [32]byte
	h.Sum(key[:0])
	return key
}

// Function wraps the body as a WGSL function
//
//	fn name(x_in: vec3<f32>) -> vec3<f32>
//
// The constant buffer must be declared by the enclosing module.
func (k *Kernel) Function(name string) string {
	var b strings.Builder
	b.WriteString("fn ")
	b.WriteString(name)
	b.WriteString("(x_in: vec3<f32>) -> vec3<f32> {\n")
	b.WriteString("    var x = x_in;\n")
	for _, f := range k.Fragments {
		f.write(&b, "    ")
	}
	b.WriteString("    return x;\n}\n")
	return b.String()
}

// ConstantCount returns the number of float32 values in Constants.
func (k *Kernel) ConstantCount() int { return len(k.Constants) / 4 }

// Constant returns the i-th float32 of the constant buffer.
func (k *Kernel) Constant(i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(k.Constants[4*i:]))
}

func packFloats(v []float32) []byte {
	out := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(f))
	}
	return out
}
