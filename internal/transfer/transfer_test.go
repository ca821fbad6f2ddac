// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package transfer

import (
	"math"
	"testing"
)

func floatNear(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestRoundTrip(t *testing.T) {
	kinds := []struct {
		name string
		kind Kind
	}{
		{"linear", KindLinear},
		{"rec709", KindRec709},
		{"bt470m", KindBT470M},
		{"bt470bg", KindBT470BG},
		{"st240m", KindST240M},
		{"log100", KindLog100},
		{"log316", KindLog316},
		{"xvycc", KindXVYCC},
		{"srgb", KindSRGB},
		{"st2084", KindST2084},
		{"arib-b67", KindARIBB67},
	}
	variants := []struct {
		name string
		opts Options
	}{
		{"display", Options{PeakLuminance: 100}},
		{"scene", Options{PeakLuminance: 100, SceneReferred: true}},
		{"approx", Options{PeakLuminance: 100, SceneReferred: true, Approximate: true}},
	}

	for _, k := range kinds {
		for _, v := range variants {
			t.Run(k.name+"/"+v.name, func(t *testing.T) {
				c, err := Lookup(k.kind, v.opts)
				if err != nil {
					t.Fatalf("Lookup: %v", err)
				}
				// Log curves clip their toe to zero, so start above it.
				lo := 0.0
				if c.Form == FormLog100 || c.Form == FormLog316 {
					lo = 0.05
				}
				for i := 0; i <= 100; i++ {
					x := lo + (1-lo)*float64(i)/100
					got := c.ToGamma(c.ToLinear(x))
					if !floatNear(got, x, 1e-6) {
						t.Errorf("ToGamma(ToLinear(%v)) = %v", x, got)
					}
				}
			})
		}
	}
}

func TestRGBRoundTripHLGDisplay(t *testing.T) {
	c, err := Lookup(KindARIBB67, Options{PeakLuminance: 100})
	if err != nil {
		t.Fatal(err)
	}
	if c.Form != FormHLGDisplay {
		t.Fatalf("Form = %v, want FormHLGDisplay", c.Form)
	}
	samples := [][3]float64{
		{0, 0, 0},
		{0.5, 0.5, 0.5},
		{0.75, 0.25, 0.1},
		{1, 1, 1},
		{0.2, 0.9, 0.4},
	}
	for _, s := range samples {
		lin := c.DecodeRGB(s)
		got := c.EncodeRGB(lin)
		for i := range s {
			if !floatNear(got[i], s[i], 1e-6) {
				t.Errorf("EncodeRGB(DecodeRGB(%v)) = %v", s, got)
				break
			}
		}
	}
}

func TestKnownValues(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
		eps  float64
	}{
		{"pq 100 nits", PQInverseEOTF(100.0 / PQPeakNits), 0.5081, 1e-4},
		{"pq 1000 nits", PQInverseEOTF(1000.0 / PQPeakNits), 0.7518, 1e-4},
		{"pq peak", PQEOTF(1), 1, 1e-9},
		{"hlg knee", hlgOETF(1.0 / 12.0), 0.5, 1e-9},
		{"hlg peak", hlgOETF(1), 1, 1e-5},
		{"rec709 toe", rec709OETF(0.01), 0.045, 1e-12},
		{"rec709 white", rec709OETF(1), 1, 1e-12},
		{"srgb mid", srgbEOTF(0.5), math.Pow((0.5+0.055)/1.055, 2.4), 1e-12},
		{"log100 white", log100OETF(1), 1, 1e-12},
		{"log316 floor", log316OETF(Log316Threshold / 2), 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !floatNear(tt.got, tt.want, tt.eps) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestScales(t *testing.T) {
	c, err := Lookup(KindST2084, Options{PeakLuminance: 200})
	if err != nil {
		t.Fatal(err)
	}
	if c.ToLinearScale != 50 || c.ToGammaScale != 0.02 {
		t.Errorf("scales = %v/%v, want 50/0.02", c.ToLinearScale, c.ToGammaScale)
	}
	// PQ code for the peak luminance decodes to 1.0.
	code := PQInverseEOTF(200.0 / PQPeakNits)
	lin := c.DecodeRGB([3]float64{code, code, code})
	if !floatNear(lin[0], 1, 1e-9) {
		t.Errorf("decoded peak = %v, want 1", lin[0])
	}
}

func TestLookupErrors(t *testing.T) {
	if _, err := Lookup(KindSRGB, Options{}); err == nil {
		t.Error("expected error for zero peak luminance")
	}
	if _, err := Lookup(Kind(200), Options{PeakLuminance: 100}); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestApproximateIsPowerLaw(t *testing.T) {
	for _, k := range []Kind{KindRec709, KindSRGB, KindST240M} {
		c, err := Lookup(k, Options{PeakLuminance: 100, SceneReferred: true, Approximate: true})
		if err != nil {
			t.Fatal(err)
		}
		if c.Form != FormPower {
			t.Errorf("kind %d approximate form = %d, want FormPower", k, c.Form)
		}
	}
}

func TestXVYCCNegative(t *testing.T) {
	c, err := Lookup(KindXVYCC, Options{PeakLuminance: 100})
	if err != nil {
		t.Fatal(err)
	}
	if got := c.ToGamma(-0.5); !floatNear(got, -rec709OETF(0.5), 1e-12) {
		t.Errorf("ToGamma(-0.5) = %v, want %v", got, -rec709OETF(0.5))
	}
}
