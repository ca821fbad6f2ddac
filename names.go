package colorgraph

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// nameEntry pairs an enumeration value with its canonical name, the
// H.273 code point (-1 when there is none) and accepted aliases.
type nameEntry[T comparable] struct {
	value   T
	name    string
	h273    int
	aliases []string
}

var matrixTable = []nameEntry[MatrixCoefficients]{
	{MatrixUnspecified, "_", 2, []string{"unspecified", "auto"}},
	{MatrixRGB, "rgb", 0, []string{"gbr"}},
	{MatrixBT709, "bt709", 1, nil},
	{MatrixFCC, "fcc", 4, nil},
	{MatrixBT470BG, "bt470bg", 5, nil},
	{MatrixST170M, "st170m", 6, []string{"smpte170m", "bt601"}},
	{MatrixST240M, "st240m", 7, []string{"smpte240m"}},
	{MatrixBT2020NCL, "bt2020nc", 9, []string{"bt2020ncl"}},
	{MatrixBT2020CL, "bt2020c", 10, []string{"bt2020cl"}},
	{MatrixDerivedNCL, "derived-ncl", 12, []string{"chroma-derived-nc"}},
	{MatrixDerivedCL, "derived-cl", 13, []string{"chroma-derived-c"}},
	{MatrixICtCp, "ictcp", 14, nil},
	{MatrixLMS2100, "lms2100", -1, nil},
}

var transferTable = []nameEntry[TransferCharacteristics]{
	{TransferUnspecified, "_", 2, []string{"unspecified", "auto"}},
	{TransferBT709, "bt709", 1, nil},
	{TransferBT470M, "bt470m", 4, nil},
	{TransferBT470BG, "bt470bg", 5, nil},
	{TransferBT601, "bt601", 6, []string{"smpte170m"}},
	{TransferST240M, "st240m", 7, []string{"smpte240m"}},
	{TransferLinear, "linear", 8, nil},
	{TransferLog100, "log100", 9, nil},
	{TransferLog316, "log316", 10, nil},
	{TransferXVYCC, "xvycc", 11, []string{"iec61966-2-4"}},
	{TransferSRGB, "srgb", 13, []string{"iec61966-2-1"}},
	{TransferBT2020_10, "bt2020-10", 14, nil},
	{TransferBT2020_12, "bt2020-12", 15, nil},
	{TransferST2084, "st2084", 16, []string{"pq", "smpte2084"}},
	{TransferARIBB67, "arib-b67", 18, []string{"hlg"}},
}

var primariesTable = []nameEntry[ColorPrimaries]{
	{PrimariesUnspecified, "_", 2, []string{"unspecified", "auto"}},
	{PrimariesBT709, "bt709", 1, nil},
	{PrimariesBT470M, "bt470m", 4, nil},
	{PrimariesBT470BG, "bt470bg", 5, nil},
	{PrimariesST170M, "st170m", 6, []string{"smpte170m"}},
	{PrimariesST240M, "st240m", 7, []string{"smpte240m"}},
	{PrimariesFilm, "film", 8, nil},
	{PrimariesBT2020, "bt2020", 9, nil},
	{PrimariesST431_2, "st431-2", 11, []string{"dci-p3", "smpte431"}},
	{PrimariesST432_1, "st432-1", 12, []string{"display-p3", "smpte432"}},
	{PrimariesEBU3213, "ebu3213", 22, nil},
}

var rangeTable = []nameEntry[ColorRange]{
	{RangeUnspecified, "_", -1, []string{"unspecified", "auto"}},
	{RangeLimited, "limited", 0, []string{"tv", "studio"}},
	{RangeFull, "full", 1, []string{"pc", "jpeg"}},
}

var (
	matrixNames    = names(matrixTable)
	transferNames  = names(transferTable)
	primariesNames = names(primariesTable)

	matrixLookup    = lookup(matrixTable)
	transferLookup  = lookup(transferTable)
	primariesLookup = lookup(primariesTable)
	rangeLookup     = lookup(rangeTable)
)

func names[T comparable](table []nameEntry[T]) map[T]string {
	m := make(map[T]string, len(table))
	for _, e := range table {
		m[e.value] = e.name
	}
	return m
}

// fold normalizes a user supplied name for lookup.
func fold(s string) string {
	s = cases.Fold().String(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "_", "-")
}

func lookup[T comparable](table []nameEntry[T]) map[string]T {
	m := make(map[string]T, 2*len(table))
	for _, e := range table {
		m[fold(e.name)] = e.value
		for _, a := range e.aliases {
			m[fold(a)] = e.value
		}
	}
	// "_" folds to "-"; keep both spellings of unspecified.
	m["_"] = table[0].value
	return m
}

func parseName[T comparable](kind, s string, m map[string]T) (T, error) {
	if v, ok := m[fold(s)]; ok {
		return v, nil
	}
	if s == "_" {
		if v, ok := m["_"]; ok {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: unknown %s %q", ErrInvalidParameter, kind, s)
}

func h273[T comparable](table []nameEntry[T], v T) (int, bool) {
	for _, e := range table {
		if e.value == v && e.h273 >= 0 {
			return e.h273, true
		}
	}
	return 0, false
}

func fromH273[T comparable](table []nameEntry[T], code int) (T, bool) {
	for _, e := range table {
		if e.h273 == code {
			return e.value, true
		}
	}
	var zero T
	return zero, false
}

func (m MatrixCoefficients) String() string {
	if s, ok := matrixNames[m]; ok {
		return s
	}
	return "matrix(" + strconv.Itoa(int(m)) + ")"
}

func (t TransferCharacteristics) String() string {
	if s, ok := transferNames[t]; ok {
		return s
	}
	return "transfer(" + strconv.Itoa(int(t)) + ")"
}

func (p ColorPrimaries) String() string {
	if s, ok := primariesNames[p]; ok {
		return s
	}
	return "primaries(" + strconv.Itoa(int(p)) + ")"
}

func (r ColorRange) String() string {
	switch r {
	case RangeUnspecified:
		return "_"
	case RangeLimited:
		return "limited"
	case RangeFull:
		return "full"
	}
	return "range(" + strconv.Itoa(int(r)) + ")"
}

// H273 returns the ITU-T H.273 MatrixCoefficients code point.
func (m MatrixCoefficients) H273() (int, bool) { return h273(matrixTable, m) }

// H273 returns the ITU-T H.273 TransferCharacteristics code point.
func (t TransferCharacteristics) H273() (int, bool) { return h273(transferTable, t) }

// H273 returns the ITU-T H.273 ColourPrimaries code point.
func (p ColorPrimaries) H273() (int, bool) { return h273(primariesTable, p) }

// DescriptorFromH273 builds a descriptor from coded CICP values, as found
// in video bitstream VUI or container metadata. Unknown code points map to
// unspecified.
func DescriptorFromH273(matrix, transfer, primaries int, fullRange bool) Descriptor {
	d := Descriptor{Range: RangeLimited}
	if fullRange {
		d.Range = RangeFull
	}
	d.Matrix, _ = fromH273(matrixTable, matrix)
	d.Transfer, _ = fromH273(transferTable, transfer)
	d.Primaries, _ = fromH273(primariesTable, primaries)
	return d
}

// ParseMatrix parses a matrix name such as "bt709" or "bt2020nc".
func ParseMatrix(s string) (MatrixCoefficients, error) {
	return parseName("matrix", s, matrixLookup)
}

// ParseTransfer parses a transfer name such as "st2084" or "hlg".
func ParseTransfer(s string) (TransferCharacteristics, error) {
	return parseName("transfer", s, transferLookup)
}

// ParsePrimaries parses a primaries name such as "bt2020" or "dci-p3".
func ParsePrimaries(s string) (ColorPrimaries, error) {
	return parseName("primaries", s, primariesLookup)
}

// ParseRange parses "limited", "full" or "_".
func ParseRange(s string) (ColorRange, error) {
	return parseName("range", s, rangeLookup)
}

// ParseDescriptor parses matrix:transfer:primaries:range. Trailing fields
// may be omitted and default to unspecified. Names are case-insensitive.
func ParseDescriptor(s string) (Descriptor, error) {
	parts := strings.Split(s, ":")
	if len(parts) == 0 || len(parts) > 4 {
		return Descriptor{}, fmt.Errorf("%w: descriptor %q: want matrix:transfer:primaries:range", ErrInvalidParameter, s)
	}
	for len(parts) < 4 {
		parts = append(parts, "_")
	}

	var (
		d   Descriptor
		err error
	)
	if d.Matrix, err = ParseMatrix(parts[0]); err != nil {
		return Descriptor{}, err
	}
	if d.Transfer, err = ParseTransfer(parts[1]); err != nil {
		return Descriptor{}, err
	}
	if d.Primaries, err = ParsePrimaries(parts[2]); err != nil {
		return Descriptor{}, err
	}
	if d.Range, err = ParseRange(parts[3]); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}
