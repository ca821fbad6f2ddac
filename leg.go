package colorgraph

import "fmt"

// Bit depth limits of the integer samples a kernel reads and writes.
const (
	MinBitDepth = 8
	MaxBitDepth = 16
)

// Leg is one conversion request: from one colorspace to another, with the
// options that select the graph edges and optional tone mapping or LUT.
// Build legs with NewLeg.
type Leg struct {
	From, To Descriptor

	// FrameHeight selects the default matrix of untagged content.
	FrameHeight int

	InputBitDepth  int
	OutputBitDepth int

	// PeakLuminance is the SDR source peak in cd/m², mapped to linear 1.0.
	PeakLuminance    float64
	ApproximateGamma bool
	SceneReferred    bool

	// HDR2SDR inserts tone mapping at the linear RGB node.
	HDR2SDR *ToneMapConfig

	// LUT inserts a 3D lookup table at the RGB node.
	LUT *LUTConfig
	// LUTOutput declares the colorspace the LUT produces. It must be RGB;
	// unspecified fields are taken from the LUT input.
	LUTOutput *Descriptor
}

// LegOption configures a Leg.
type LegOption func(*Leg)

// NewLeg creates a conversion from one colorspace to another. Without
// options the frame is 1080 lines high, samples are 8 bit and SDR white
// is 100 cd/m².
func NewLeg(from, to Descriptor, opts ...LegOption) Leg {
	l := Leg{
		From:           from,
		To:             to,
		FrameHeight:    1080,
		InputBitDepth:  MinBitDepth,
		OutputBitDepth: MinBitDepth,
		PeakLuminance:  DefaultPeakLuminance,
	}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

// WithFrameHeight sets the frame height used to pick a default matrix.
func WithFrameHeight(h int) LegOption {
	return func(l *Leg) {
		l.FrameHeight = h
	}
}

// WithBitDepth sets the input and output sample bit depths.
func WithBitDepth(in, out int) LegOption {
	return func(l *Leg) {
		l.InputBitDepth = in
		l.OutputBitDepth = out
	}
}

// WithPeakLuminance sets the luminance in cd/m² mapped to linear 1.0.
func WithPeakLuminance(nits float64) LegOption {
	return func(l *Leg) {
		l.PeakLuminance = nits
	}
}

// WithApproximateGamma replaces piecewise curves by power laws.
func WithApproximateGamma(on bool) LegOption {
	return func(l *Leg) {
		l.ApproximateGamma = on
	}
}

// WithSceneReferred selects camera OETFs instead of display EOTFs.
func WithSceneReferred(on bool) LegOption {
	return func(l *Leg) {
		l.SceneReferred = on
	}
}

// WithToneMap enables HDR to SDR tone mapping.
func WithToneMap(cfg ToneMapConfig) LegOption {
	return func(l *Leg) {
		l.HDR2SDR = &cfg
	}
}

// WithLUT enables a 3D lookup table.
func WithLUT(cfg LUTConfig) LegOption {
	return func(l *Leg) {
		l.LUT = &cfg
	}
}

// WithLUTOutput declares the colorspace produced by the lookup table.
func WithLUTOutput(d Descriptor) LegOption {
	return func(l *Leg) {
		l.LUTOutput = &d
	}
}

// Params returns the graph parameters of the leg.
func (l Leg) Params() Params {
	return Params{
		PeakLuminance:    l.PeakLuminance,
		ApproximateGamma: l.ApproximateGamma,
		SceneReferred:    l.SceneReferred,
	}
}

func (l Leg) validate() error {
	if err := l.From.validate(); err != nil {
		return fmt.Errorf("colorgraph: input %w: %w", err, ErrInvalidParameter)
	}
	if err := l.To.validate(); err != nil {
		return fmt.Errorf("colorgraph: output %w: %w", err, ErrInvalidParameter)
	}
	if err := l.Params().validate(); err != nil {
		return err
	}
	for _, depth := range [2]int{l.InputBitDepth, l.OutputBitDepth} {
		if depth < MinBitDepth || depth > MaxBitDepth {
			return fmt.Errorf("colorgraph: bit depth %d outside [%d, %d]: %w", depth, MinBitDepth, MaxBitDepth, ErrInvalidParameter)
		}
	}
	if l.HDR2SDR != nil && l.LUT != nil {
		return fmt.Errorf("colorgraph: tone mapping and 3D LUT are mutually exclusive: %w", ErrInvalidParameter)
	}
	if l.HDR2SDR != nil {
		if err := l.HDR2SDR.validate(); err != nil {
			return err
		}
	}
	if l.LUTOutput != nil {
		if l.LUT == nil {
			return fmt.Errorf("colorgraph: LUT output declared without a LUT: %w", ErrInvalidParameter)
		}
		if l.LUTOutput.Matrix != MatrixRGB {
			return fmt.Errorf("colorgraph: LUT output %v must be RGB: %w", *l.LUTOutput, ErrInvalidParameter)
		}
		if err := l.LUTOutput.validate(); err != nil {
			return fmt.Errorf("colorgraph: LUT output %w: %w", err, ErrInvalidParameter)
		}
	}
	if l.From.Matrix == MatrixICtCp || l.To.Matrix == MatrixICtCp {
		return fmt.Errorf("colorgraph: ICtCp: %w", ErrUnsupported)
	}
	return nil
}
