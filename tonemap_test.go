package colorgraph

import (
	"errors"
	"testing"

	"github.com/gogpu/colorgraph/internal/colorimetry"
)

var toneMapOperators = []ToneMapOperator{ToneMapHable, ToneMapMobius, ToneMapReinhard, ToneMapBT2390}

func TestToneMapCurvePeak(t *testing.T) {
	for _, op := range toneMapOperators {
		t.Run(op.String(), func(t *testing.T) {
			c := DefaultToneMapConfig(op)
			if got := c.curve(c.peak()); !floatNear(got, 1, 1e-6) {
				t.Errorf("curve(peak) = %v, want 1", got)
			}
			if got := c.curve(0); !floatNear(got, 0, 1e-6) {
				t.Errorf("curve(0) = %v, want 0", got)
			}
		})
	}
}

func TestToneMapCurveMonotonic(t *testing.T) {
	for _, op := range toneMapOperators {
		t.Run(op.String(), func(t *testing.T) {
			c := DefaultToneMapConfig(op)
			prev := c.curve(0)
			for i := 1; i <= 200; i++ {
				sig := c.peak() * float64(i) / 200
				got := c.curve(sig)
				if got < prev-1e-12 {
					t.Fatalf("curve(%v) = %v < %v", sig, got, prev)
				}
				prev = got
			}
		})
	}
}

func TestToneMapCurveBelowKnee(t *testing.T) {
	// BT.2390 and Möbius leave dark signals untouched.
	bt := DefaultToneMapConfig(ToneMapBT2390)
	if got := bt.curve(0.1); !floatNear(got, 0.1, 1e-9) {
		t.Errorf("bt2390 curve(0.1) = %v", got)
	}
	mob := DefaultToneMapConfig(ToneMapMobius)
	if got := mob.curve(0.25); got != 0.25 {
		t.Errorf("mobius curve(0.25) = %v", got)
	}
}

func TestToneMapPeakOverride(t *testing.T) {
	c := DefaultToneMapConfig(ToneMapReinhard)
	c.Reinhard.Peak = 400
	if got := c.peak(); got != 4 {
		t.Errorf("peak() = %v, want 4", got)
	}
	if got := c.curve(4); !floatNear(got, 1, 1e-9) {
		t.Errorf("curve(4) = %v, want 1", got)
	}
}

func TestToneMapApply(t *testing.T) {
	luma := colorimetry.DerivedLuma(colorimetry.BT2020).Weights()
	for _, op := range toneMapOperators {
		t.Run(op.String(), func(t *testing.T) {
			tm := ToneMap{Config: DefaultToneMapConfig(op), Scale: 1, Luma: luma}

			// Grey stays grey and is never pushed above SDR white.
			for _, v := range []float64{0.05, 0.5, 1, 3, 10} {
				got := tm.apply(Vec3{v, v, v})
				if !floatNear(got[0], got[1], 1e-9) || !floatNear(got[1], got[2], 1e-9) {
					t.Errorf("apply(grey %v) = %v", v, got)
				}
				if got[0] > 1+1e-6 {
					t.Errorf("apply(grey %v) = %v above white", v, got)
				}
			}

			// Highlights are desaturated toward luma.
			in := Vec3{8, 1, 1}
			got := tm.apply(in)
			if got[0]/got[1] >= in[0]/in[1] {
				t.Errorf("apply(%v) = %v not desaturated", in, got)
			}
		})
	}
}

func TestToneMapApplyScale(t *testing.T) {
	c := DefaultToneMapConfig(ToneMapHable)
	c.DesatStrength = 0
	a := ToneMap{Config: c, Scale: 1}
	b := ToneMap{Config: c, Scale: 2}
	// Scale converts graph units to SDR white; the output is already in
	// SDR white units, so it is not scaled back.
	want := a.apply(Vec3{1, 0.5, 0.25})
	got := b.apply(Vec3{0.5, 0.25, 0.125})
	if !got.Near(want, 1e-9) {
		t.Errorf("scaled apply = %v, want %v", got, want)
	}
}

func TestToneMapOutputIsSDRWhite(t *testing.T) {
	// A graph where 1.0 is 203 cd/m² still maps the source peak to SDR
	// white, not to 100/203.
	for _, op := range toneMapOperators {
		t.Run(op.String(), func(t *testing.T) {
			c := DefaultToneMapConfig(op)
			tm := ToneMap{Config: c, Scale: 203 / c.LDRNits}
			v := c.peak() / tm.Scale
			if got := tm.apply(Vec3{v, v, v}); !got.Near(Vec3{1, 1, 1}, 1e-6) {
				t.Errorf("apply(peak) = %v, want SDR white", got)
			}
		})
	}
}

func TestToneMapConfigValidate(t *testing.T) {
	mod := func(op ToneMapOperator, f func(*ToneMapConfig)) ToneMapConfig {
		c := DefaultToneMapConfig(op)
		f(&c)
		return c
	}
	tests := []struct {
		name string
		cfg  ToneMapConfig
	}{
		{"unknown operator", mod(ToneMapHable, func(c *ToneMapConfig) { c.Operator = 9 })},
		{"zero ldr nits", mod(ToneMapHable, func(c *ToneMapConfig) { c.LDRNits = 0 })},
		{"negative source peak", mod(ToneMapBT2390, func(c *ToneMapConfig) { c.SourcePeak = -1 })},
		{"desat strength", mod(ToneMapHable, func(c *ToneMapConfig) { c.DesatStrength = 2 })},
		{"hable f", mod(ToneMapHable, func(c *ToneMapConfig) { c.Hable.F = 0 })},
		{"mobius transition", mod(ToneMapMobius, func(c *ToneMapConfig) { c.Mobius.Transition = 1 })},
		{"reinhard contrast", mod(ToneMapReinhard, func(c *ToneMapConfig) { c.Reinhard.Contrast = 0 })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.validate(); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("validate() = %v, want ErrInvalidParameter", err)
			}
		})
	}
	for _, op := range toneMapOperators {
		if err := DefaultToneMapConfig(op).validate(); err != nil {
			t.Errorf("default %v config: %v", op, err)
		}
	}
}

func TestParseToneMapOperator(t *testing.T) {
	for _, op := range toneMapOperators {
		got, err := ParseToneMapOperator(" " + op.String() + " ")
		if err != nil || got != op {
			t.Errorf("ParseToneMapOperator(%q) = %v, %v", op.String(), got, err)
		}
	}
	if got, err := ParseToneMapOperator("BT2390"); err != nil || got != ToneMapBT2390 {
		t.Errorf("ParseToneMapOperator(BT2390) = %v, %v", got, err)
	}
	if _, err := ParseToneMapOperator("aces"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("ParseToneMapOperator(aces) error = %v", err)
	}
}
