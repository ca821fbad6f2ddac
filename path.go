package colorgraph

import "strings"

// Edge is a directed conversion step between two colorspaces.
type Edge struct {
	From, To Descriptor
	Op       Operation
}

// Path is a sequence of edges where each edge starts at the colorspace the
// previous one ends at. A solved path is never empty.
type Path []Edge

// From returns the first descriptor of the path.
func (p Path) From() Descriptor {
	if len(p) == 0 {
		return Descriptor{}
	}
	return p[0].From
}

// To returns the last descriptor of the path.
func (p Path) To() Descriptor {
	if len(p) == 0 {
		return Descriptor{}
	}
	return p[len(p)-1].To
}

// Valid reports whether p is non-empty and every edge is connected to the
// next one.
func (p Path) Valid() bool {
	if len(p) == 0 {
		return false
	}
	for i := 1; i < len(p); i++ {
		if p[i-1].To != p[i].From {
			return false
		}
	}
	return true
}

// Concat returns p followed by the given paths.
func (p Path) Concat(others ...Path) Path {
	n := len(p)
	for _, o := range others {
		n += len(o)
	}
	out := make(Path, 0, n)
	out = append(out, p...)
	for _, o := range others {
		out = append(out, o...)
	}
	return out
}

// Kinds lists the operation kind of every edge.
func (p Path) Kinds() []OpKind {
	kinds := make([]OpKind, len(p))
	for i, e := range p {
		kinds[i] = e.Op.Kind()
	}
	return kinds
}

// String renders the path as "from -kind-> to -kind-> ...".
func (p Path) String() string {
	if len(p) == 0 {
		return "<empty>"
	}
	var b strings.Builder
	b.WriteString(p[0].From.String())
	for _, e := range p {
		b.WriteString(" -")
		b.WriteString(e.Op.Kind().String())
		b.WriteString("-> ")
		b.WriteString(e.To.String())
	}
	return b.String()
}
