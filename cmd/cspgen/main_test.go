package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/tiff"

	"github.com/gogpu/colorgraph"
)

func testKernel(t *testing.T) *colorgraph.Kernel {
	t.Helper()
	in := colorgraph.Descriptor{
		Matrix:    colorgraph.MatrixBT709,
		Transfer:  colorgraph.TransferBT709,
		Primaries: colorgraph.PrimariesBT709,
		Range:     colorgraph.RangeLimited,
	}
	out := in
	out.Matrix = colorgraph.MatrixRGB
	out.Range = colorgraph.RangeFull
	k, err := colorgraph.Compile(colorgraph.NewLeg(in, out))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return k
}

func TestRender(t *testing.T) {
	k := testKernel(t)

	body, err := render(k, "body", "")
	if err != nil || body != k.Source {
		t.Errorf("body = %q, %v", body, err)
	}
	fn, err := render(k, "function", "yuv_to_rgb")
	if err != nil || !strings.HasPrefix(fn, "fn yuv_to_rgb(") {
		t.Errorf("function = %q, %v", fn, err)
	}
	if _, err := render(k, "glsl", ""); err == nil {
		t.Error("unknown mode accepted")
	}
}

func TestPattern(t *testing.T) {
	if got := pattern(0, 0, 4, 4); got != (colorgraph.Vec3{0, 0, 1}) {
		t.Errorf("pattern(0, 0) = %v", got)
	}
	if got := pattern(3, 3, 4, 4); got != (colorgraph.Vec3{1, 1, 0}) {
		t.Errorf("pattern(3, 3) = %v", got)
	}
	if got := pattern(0, 0, 1, 1); got != (colorgraph.Vec3{0, 0, 1}) {
		t.Errorf("pattern on a 1x1 image = %v", got)
	}
}

func TestQuantize16(t *testing.T) {
	tests := []struct {
		in   float64
		want uint16
	}{
		{-1, 0},
		{0, 0},
		{0.5, 32768},
		{1, 0xffff},
		{2, 0xffff},
	}
	for _, tt := range tests {
		if got := quantize16(tt.in); got != tt.want {
			t.Errorf("quantize16(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestWritePreview(t *testing.T) {
	k := testKernel(t)
	if got := outputMax(k, 8); got != 255 {
		t.Errorf("outputMax = %v, want 255", got)
	}

	path := filepath.Join(t.TempDir(), "preview.tiff")
	if err := writePreview(path, k, 16, 8, 8, 8); err != nil {
		t.Fatalf("writePreview: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := tiff.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Errorf("bounds = %v", b)
	}
	// The top left pixel is code (0, 0, 255): below black luma with the
	// lowest Cb, so blue clamps to zero.
	if _, _, b, _ := img.At(0, 0).RGBA(); b != 0 {
		t.Errorf("top left blue = %d, want 0", b)
	}
}

func TestWriteOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kernel.wgsl")
	if err := writeOutput(path, "x = x;\n"); err != nil {
		t.Fatalf("writeOutput: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil || string(got) != "x = x;\n" {
		t.Errorf("file = %q, %v", got, err)
	}

	if err := writeOutput(filepath.Join(t.TempDir(), "missing", "kernel.wgsl"), ""); err == nil {
		t.Error("writeOutput into a missing directory succeeded")
	}
}
