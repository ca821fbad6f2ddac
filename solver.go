package colorgraph

import (
	"fmt"

	"github.com/gogpu/colorgraph/internal/transfer"
)

// DefaultPeakLuminance is the SDR reference white in cd/m².
const DefaultPeakLuminance = 100.0

// Params are the options that shape the edges of the conversion graph.
type Params struct {
	// PeakLuminance is the luminance in cd/m² that maps to linear 1.0.
	// HDR transfers are scaled relative to it. Must be positive.
	PeakLuminance float64

	// ApproximateGamma replaces piecewise curves by power laws.
	ApproximateGamma bool

	// SceneReferred selects camera OETFs instead of display EOTFs.
	SceneReferred bool
}

// DefaultParams returns display-referred parameters with exact curves and
// a 100 cd/m² reference white.
func DefaultParams() Params {
	return Params{PeakLuminance: DefaultPeakLuminance}
}

func (p Params) validate() error {
	if !(p.PeakLuminance > 0) {
		return fmt.Errorf("colorgraph: peak luminance must be positive, got %v: %w", p.PeakLuminance, ErrInvalidParameter)
	}
	return nil
}

func (p Params) transferOptions() transfer.Options {
	return transfer.Options{
		PeakLuminance: p.PeakLuminance,
		SceneReferred: p.SceneReferred,
		Approximate:   p.ApproximateGamma,
	}
}

// Solver finds shortest conversion paths by breadth-first search over the
// colorspace graph.
//
// A Solver reuses its search state between calls and is not safe for
// concurrent use. Use one Solver per goroutine.
type Solver struct {
	params Params

	queue   []Descriptor
	visited map[Descriptor]struct{}
	parent  map[Descriptor]Edge
}

// NewSolver creates a solver for the given parameters.
func NewSolver(params Params) *Solver {
	return &Solver{
		params:  params,
		visited: make(map[Descriptor]struct{}),
		parent:  make(map[Descriptor]Edge),
	}
}

// Params returns the parameters the solver was created with.
func (s *Solver) Params() Params { return s.params }

// Solve returns a shortest path from in to out. Unspecified fields of out
// are completed from in, see [Descriptor.AutoComplete]. The range is not
// part of the search; the final edge carries the range of the completed
// target, so the returned path always ends at it.
func (s *Solver) Solve(in, out Descriptor, height int) (Path, error) {
	if err := s.params.validate(); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, fmt.Errorf("colorgraph: input %w: %w", err, ErrInvalidParameter)
	}
	if err := out.validate(); err != nil {
		return nil, fmt.Errorf("colorgraph: output %w: %w", err, ErrInvalidParameter)
	}
	if in == out {
		return Path{{From: in, To: out, Op: Identity{}}}, nil
	}
	target := out.AutoComplete(in, height)
	if err := target.validate(); err != nil {
		return nil, fmt.Errorf("colorgraph: completed output %w: %w", err, ErrInvalidParameter)
	}

	if in.sameColorspace(target) {
		return Path{{From: in, To: target, Op: Identity{}}}, nil
	}

	path, ok := s.search(in, target.WithRange(in.Range))
	if !ok {
		return nil, fmt.Errorf("colorgraph: %v -> %v: %w", in, target, ErrNoPathFound)
	}
	path[len(path)-1].To = target

	Logger().Debug("colorspace path solved",
		"from", in.String(),
		"to", target.String(),
		"edges", len(path))
	return path, nil
}

func (s *Solver) search(in, target Descriptor) (Path, bool) {
	s.reset()
	s.visited[in] = struct{}{}
	s.queue = append(s.queue, in)

	found := false
	for head := 0; head < len(s.queue); head++ {
		v := s.queue[head]
		if v == target {
			found = true
			break
		}
		for _, e := range neighbors(v, s.params) {
			if _, seen := s.visited[e.To]; seen {
				continue
			}
			s.visited[e.To] = struct{}{}
			s.parent[e.To] = e
			s.queue = append(s.queue, e.To)
		}
	}
	if !found {
		return nil, false
	}

	var path Path
	for v := target; v != in; {
		e := s.parent[v]
		path = append(path, e)
		v = e.From
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, true
}

func (s *Solver) reset() {
	s.queue = s.queue[:0]
	clear(s.visited)
	clear(s.parent)
}
