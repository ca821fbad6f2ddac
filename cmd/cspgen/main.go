// Command cspgen generates a WGSL colorspace conversion kernel.
//
//	cspgen -from bt2020nc:pq:bt2020:limited -to bt709:bt709:bt709:limited \
//	    -in-depth 10 -tonemap bt2390 -wgsl function -o convert.wgsl
//
// Descriptors are matrix:transfer:primaries:range; trailing fields may be
// omitted and "_" leaves a field to be filled from the input.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/colorgraph"
)

func main() {
	var (
		from          = flag.String("from", "", "input colorspace descriptor (required)")
		to            = flag.String("to", "", "output colorspace descriptor (required)")
		height        = flag.Int("height", 1080, "frame height, selects the matrix of untagged content")
		inDepth       = flag.Int("in-depth", 8, "input sample bit depth")
		outDepth      = flag.Int("out-depth", 8, "output sample bit depth")
		peak          = flag.Float64("peak", colorgraph.DefaultPeakLuminance, "luminance in cd/m² mapped to linear 1.0")
		approxGamma   = flag.Bool("approx-gamma", false, "use power laws instead of piecewise transfer curves")
		sceneReferred = flag.Bool("scene-referred", false, "use camera OETFs instead of display EOTFs")
		tonemap       = flag.String("tonemap", "", "HDR to SDR operator: hable, mobius, reinhard or bt2390")
		sourcePeak    = flag.Float64("source-peak", 1000, "HDR mastering peak in cd/m² for -tonemap")
		lut           = flag.String("lut", "", ".cube file applied at the RGB node")
		lutInterp     = flag.String("lut-interp", "tetrahedral", "LUT interpolation: nearest, trilinear or tetrahedral")
		lutOutput     = flag.String("lut-output", "", "RGB descriptor produced by the LUT")
		wgslMode      = flag.String("wgsl", "function", "WGSL output: body, function or compute")
		fnName        = flag.String("fn", "convert", "function name for -wgsl function")
		constName     = flag.String("constants-name", colorgraph.DefaultConstantsName, "WGSL name of the constant buffer")
		output        = flag.String("o", "-", "WGSL output file, - for stdout")
		constOut      = flag.String("constants", "", "write the constant buffer to this file")
		spirvOut      = flag.String("spirv", "", "write the SPIR-V compute module to this file")
		preview       = flag.String("preview", "", "render a test pattern through the kernel to this TIFF file")
		verbose       = flag.Bool("v", false, "log solved paths and compilation details")
	)
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("cspgen: ")

	if *verbose {
		colorgraph.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if *from == "" || *to == "" {
		flag.Usage()
		os.Exit(2)
	}

	in, err := colorgraph.ParseDescriptor(*from)
	if err != nil {
		log.Fatal(err)
	}
	out, err := colorgraph.ParseDescriptor(*to)
	if err != nil {
		log.Fatal(err)
	}

	opts := []colorgraph.LegOption{
		colorgraph.WithFrameHeight(*height),
		colorgraph.WithBitDepth(*inDepth, *outDepth),
		colorgraph.WithPeakLuminance(*peak),
		colorgraph.WithApproximateGamma(*approxGamma),
		colorgraph.WithSceneReferred(*sceneReferred),
	}
	if *tonemap != "" {
		op, err := colorgraph.ParseToneMapOperator(*tonemap)
		if err != nil {
			log.Fatal(err)
		}
		cfg := colorgraph.DefaultToneMapConfig(op)
		cfg.SourcePeak = *sourcePeak
		opts = append(opts, colorgraph.WithToneMap(cfg))
	}
	if *lut != "" {
		interp, err := colorgraph.ParseInterpolation(*lutInterp)
		if err != nil {
			log.Fatal(err)
		}
		opts = append(opts, colorgraph.WithLUT(colorgraph.LUTConfig{Path: *lut, Interp: interp}))
		if *lutOutput != "" {
			d, err := colorgraph.ParseDescriptor(*lutOutput)
			if err != nil {
				log.Fatal(err)
			}
			opts = append(opts, colorgraph.WithLUTOutput(d))
		}
	}

	c, err := colorgraph.CompileLeg(colorgraph.NewLeg(in, out, opts...))
	if err != nil {
		log.Fatal(err)
	}
	k := colorgraph.Emit(c.Ops, colorgraph.WithConstantsName(*constName))
	log.Printf("%s -> %s: %d edges, %d operations", c.Path.From(), c.Path.To(), len(c.Path), len(c.Ops))

	src, err := render(k, *wgslMode, *fnName)
	if err != nil {
		log.Fatal(err)
	}
	if err := writeOutput(*output, src); err != nil {
		log.Fatal(err)
	}
	if *constOut != "" {
		if err := os.WriteFile(*constOut, k.Constants, 0o644); err != nil {
			log.Fatal(err)
		}
	}
	if *spirvOut != "" {
		if err := writeSPIRV(*spirvOut, k); err != nil {
			log.Fatal(err)
		}
	}
	if *preview != "" {
		if err := writePreview(*preview, k, 256, 256, *inDepth, *outDepth); err != nil {
			log.Fatal(err)
		}
	}
}

// render formats the kernel according to mode.
func render(k *colorgraph.Kernel, mode, fn string) (string, error) {
	switch mode {
	case "body":
		return k.Source, nil
	case "function":
		return k.Function(fn), nil
	case "compute":
		return computeModule(k)
	}
	return "", fmt.Errorf("unknown -wgsl mode %q", mode)
}

func writeOutput(path, s string) error {
	if path == "-" {
		_, err := io.WriteString(os.Stdout, s)
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
