package colorgraph

import (
	"errors"
	"testing"
)

var (
	bt709Limited = Descriptor{MatrixBT709, TransferBT709, PrimariesBT709, RangeLimited}
	hdr10        = Descriptor{MatrixBT2020NCL, TransferST2084, PrimariesBT2020, RangeLimited}
)

func TestDescriptorIsValid(t *testing.T) {
	tests := []struct {
		name string
		d    Descriptor
		want bool
	}{
		{"zero value", Descriptor{}, true},
		{"matrix only", Descriptor{Matrix: MatrixRGB}, true},
		{"bt709", bt709Limited, true},
		{"hdr10", hdr10, true},
		{"transfer without matrix", Descriptor{Transfer: TransferBT709}, false},
		{"primaries without transfer", Descriptor{Matrix: MatrixRGB, Primaries: PrimariesBT709}, false},
		{"bt2020 cl with bt709", Descriptor{Matrix: MatrixBT2020CL, Transfer: TransferBT709}, true},
		{"bt2020 cl with 12 bit curve", Descriptor{Matrix: MatrixBT2020CL, Transfer: TransferBT2020_12}, true},
		{"bt2020 cl with st240m", Descriptor{Matrix: MatrixBT2020CL, Transfer: TransferST240M}, false},
		{"derived cl with srgb", Descriptor{MatrixDerivedCL, TransferSRGB, PrimariesBT709, RangeFull}, false},
		{"derived ncl without primaries", Descriptor{Matrix: MatrixDerivedNCL, Transfer: TransferBT709}, false},
		{"derived ncl with primaries", Descriptor{Matrix: MatrixDerivedNCL, Transfer: TransferBT709, Primaries: PrimariesST432_1}, true},
		{"ictcp pq", Descriptor{Matrix: MatrixICtCp, Transfer: TransferST2084, Primaries: PrimariesBT2020}, true},
		{"ictcp bt709", Descriptor{Matrix: MatrixICtCp, Transfer: TransferBT709, Primaries: PrimariesBT2020}, false},
		{"ictcp wrong primaries", Descriptor{Matrix: MatrixICtCp, Transfer: TransferARIBB67, Primaries: PrimariesBT709}, false},
		{"lms linear", Descriptor{Matrix: MatrixLMS2100, Transfer: TransferLinear, Primaries: PrimariesBT2020}, true},
		{"lms srgb", Descriptor{Matrix: MatrixLMS2100, Transfer: TransferSRGB, Primaries: PrimariesBT2020}, false},
		{"lms p3", Descriptor{Matrix: MatrixLMS2100, Transfer: TransferST2084, Primaries: PrimariesST431_2}, false},
		{"unknown matrix", Descriptor{Matrix: MatrixCoefficients(200)}, false},
		{"unknown range", Descriptor{Matrix: MatrixRGB, Range: ColorRange(9)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.IsValid(); got != tt.want {
				t.Errorf("%v.IsValid() = %v, want %v", tt.d, got, tt.want)
			}
		})
	}
}

func TestDescriptorWith(t *testing.T) {
	d := bt709Limited
	got := d.WithMatrix(MatrixRGB).WithTransfer(TransferLinear).WithPrimaries(PrimariesBT2020).WithRange(RangeFull)
	want := Descriptor{MatrixRGB, TransferLinear, PrimariesBT2020, RangeFull}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if d != bt709Limited {
		t.Errorf("With* modified the receiver: %v", d)
	}
}

func TestAutoComplete(t *testing.T) {
	tests := []struct {
		name   string
		out    Descriptor
		in     Descriptor
		height int
		want   Descriptor
	}{
		{"fills from input", Descriptor{Matrix: MatrixRGB}, bt709Limited, 1080,
			Descriptor{MatrixRGB, TransferBT709, PrimariesBT709, RangeLimited}},
		{"keeps specified fields", Descriptor{MatrixRGB, TransferSRGB, PrimariesUnspecified, RangeFull}, bt709Limited, 1080,
			Descriptor{MatrixRGB, TransferSRGB, PrimariesBT709, RangeFull}},
		{"matrix from input", Descriptor{}, hdr10, 480, hdr10},
		{"hd default matrix", Descriptor{}, Descriptor{}, 720, Descriptor{Matrix: MatrixBT709}},
		{"sd default matrix", Descriptor{}, Descriptor{}, 576, Descriptor{Matrix: MatrixST170M}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.out.AutoComplete(tt.in, tt.height); got != tt.want {
				t.Errorf("AutoComplete = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDescriptorString(t *testing.T) {
	if got, want := hdr10.String(), "bt2020nc:st2084:bt2020:limited"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := (Descriptor{Matrix: MatrixRGB}).String(), "rgb:_:_:_"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParseDescriptor(t *testing.T) {
	tests := []struct {
		in   string
		want Descriptor
	}{
		{"bt2020nc:st2084:bt2020:limited", hdr10},
		{"BT2020NC:PQ:BT2020:TV", hdr10},
		{"rgb", Descriptor{Matrix: MatrixRGB}},
		{"rgb:srgb:bt709:full", Descriptor{MatrixRGB, TransferSRGB, PrimariesBT709, RangeFull}},
		{"bt709:_:_:full", Descriptor{Matrix: MatrixBT709, Range: RangeFull}},
		{"bt2020c:BT2020_10", Descriptor{Matrix: MatrixBT2020CL, Transfer: TransferBT2020_10}},
		{"rgb:hlg:display-p3", Descriptor{Matrix: MatrixRGB, Transfer: TransferARIBB67, Primaries: PrimariesST432_1}},
		{" auto ", Descriptor{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDescriptor(tt.in)
			if err != nil {
				t.Fatalf("ParseDescriptor(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseDescriptor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDescriptorRoundTrip(t *testing.T) {
	for _, m := range append([]MatrixCoefficients{MatrixRGB}, conventionalMatrices...) {
		for _, tr := range allTransfers {
			d := Descriptor{m, tr, PrimariesST431_2, RangeFull}
			got, err := ParseDescriptor(d.String())
			if err != nil {
				t.Fatalf("ParseDescriptor(%q): %v", d.String(), err)
			}
			if got != d {
				t.Errorf("ParseDescriptor(%q) = %v", d.String(), got)
			}
		}
	}
}

func TestParseDescriptorErrors(t *testing.T) {
	for _, in := range []string{"xyz", "rgb:gamma9", "rgb:srgb:mars", "rgb:srgb:bt709:medium", "a:b:c:d:e"} {
		t.Run(in, func(t *testing.T) {
			if _, err := ParseDescriptor(in); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("ParseDescriptor(%q) error = %v, want ErrInvalidParameter", in, err)
			}
		})
	}
}

func TestH273(t *testing.T) {
	if code, ok := MatrixBT2020NCL.H273(); !ok || code != 9 {
		t.Errorf("MatrixBT2020NCL.H273() = %d, %v", code, ok)
	}
	if code, ok := TransferARIBB67.H273(); !ok || code != 18 {
		t.Errorf("TransferARIBB67.H273() = %d, %v", code, ok)
	}
	if code, ok := PrimariesEBU3213.H273(); !ok || code != 22 {
		t.Errorf("PrimariesEBU3213.H273() = %d, %v", code, ok)
	}
	if _, ok := MatrixLMS2100.H273(); ok {
		t.Error("MatrixLMS2100 has no H.273 code point")
	}

	if got := DescriptorFromH273(9, 16, 9, false); got != hdr10 {
		t.Errorf("DescriptorFromH273(9, 16, 9) = %v, want %v", got, hdr10)
	}
	got := DescriptorFromH273(0, 13, 1, true)
	want := Descriptor{MatrixRGB, TransferSRGB, PrimariesBT709, RangeFull}
	if got != want {
		t.Errorf("DescriptorFromH273(0, 13, 1) = %v, want %v", got, want)
	}
	if got := DescriptorFromH273(3, 3, 3, false); got != (Descriptor{Range: RangeLimited}) {
		t.Errorf("reserved code points = %v, want unspecified", got)
	}
}
