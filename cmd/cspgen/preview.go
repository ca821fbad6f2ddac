package main

import (
	"image"
	"image/color"
	"math"
	"os"

	"golang.org/x/image/tiff"

	"github.com/gogpu/colorgraph"
)

// pattern returns the test pattern value at (x, y) as normalized code
// values: the first channel ramps horizontally and the other two sweep
// against each other vertically.
func pattern(x, y, w, h int) colorgraph.Vec3 {
	fx := float64(x) / float64(max(w-1, 1))
	fy := float64(y) / float64(max(h-1, 1))
	return colorgraph.Vec3{fx, fy, 1 - fy}
}

// outputMax is the largest code value the kernel produces.
func outputMax(k *colorgraph.Kernel, depth int) float64 {
	ops := k.Ops()
	if len(ops) > 0 {
		if rs, ok := ops[len(ops)-1].(colorgraph.RangeScale); ok && rs.Max > 0 {
			return rs.Max
		}
	}
	return float64(int(1)<<depth - 1)
}

// renderPreview evaluates the kernel on the test pattern. Output samples
// are stored as produced, so YUV outputs show their raw components.
func renderPreview(k *colorgraph.Kernel, w, h, inDepth, outDepth int) (*image.RGBA64, error) {
	inMax := float64(int(1)<<inDepth - 1)
	pixels := make([]float32, 0, 4*w*h)
	for y := range h {
		for x := range w {
			p := pattern(x, y, w, h)
			pixels = append(pixels, float32(p[0]*inMax), float32(p[1]*inMax), float32(p[2]*inMax), 1)
		}
	}
	if err := k.EvalPixels(pixels); err != nil {
		return nil, err
	}

	outMax := outputMax(k, outDepth)
	img := image.NewRGBA64(image.Rect(0, 0, w, h))
	for i := range w * h {
		px := pixels[4*i:]
		img.SetRGBA64(i%w, i/w, color.RGBA64{
			R: quantize16(float64(px[0]) / outMax),
			G: quantize16(float64(px[1]) / outMax),
			B: quantize16(float64(px[2]) / outMax),
			A: 0xffff,
		})
	}
	return img, nil
}

func quantize16(v float64) uint16 {
	if math.IsNaN(v) {
		return 0
	}
	return uint16(math.Round(min(max(v, 0), 1) * 0xffff))
}

func writePreview(path string, k *colorgraph.Kernel, w, h, inDepth, outDepth int) error {
	img, err := renderPreview(k, w, h, inDepth, outDepth)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
