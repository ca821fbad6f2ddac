package colorgraph

import "errors"

// Error kinds. Every error returned by this package wraps exactly one of
// these; test with errors.Is.
var (
	// ErrInvalidParameter reports an invalid descriptor, a non-positive
	// luminance parameter, conflicting options or a malformed LUT size.
	ErrInvalidParameter = errors.New("colorgraph: invalid parameter")

	// ErrNoPathFound reports that no sequence of operations connects the
	// source to the target colorspace.
	ErrNoPathFound = errors.New("colorgraph: no conversion path found")

	// ErrUnsupported reports a colorspace the engine does not model, such
	// as ICtCp.
	ErrUnsupported = errors.New("colorgraph: unsupported conversion")

	// ErrFile reports a missing or unreadable LUT file.
	ErrFile = errors.New("colorgraph: file error")

	// ErrParse reports malformed LUT file content.
	ErrParse = errors.New("colorgraph: parse error")
)
