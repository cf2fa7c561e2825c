package geometry

import (
	"fmt"
	"strings"
)

// Edge is the set of window edges a resize handle moves.
type Edge uint8

const (
	EdgeNorth Edge = 1 << iota
	EdgeSouth
	EdgeEast
	EdgeWest
)

const (
	EdgeNorthEast = EdgeNorth | EdgeEast
	EdgeNorthWest = EdgeNorth | EdgeWest
	EdgeSouthEast = EdgeSouth | EdgeEast
	EdgeSouthWest = EdgeSouth | EdgeWest
)

// AllEdges lists the eight resize handles in clockwise order from north.
var AllEdges = []Edge{
	EdgeNorth, EdgeNorthEast, EdgeEast, EdgeSouthEast,
	EdgeSouth, EdgeSouthWest, EdgeWest, EdgeNorthWest,
}

// ParseEdge converts a compass name ("n", "se", ...) to an Edge.
func ParseEdge(s string) (Edge, error) {
	var e Edge
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" || len(name) > 2 {
		return 0, fmt.Errorf("invalid resize edge %q", s)
	}
	for _, c := range name {
		var bit Edge
		switch c {
		case 'n':
			bit = EdgeNorth
		case 's':
			bit = EdgeSouth
		case 'e':
			bit = EdgeEast
		case 'w':
			bit = EdgeWest
		default:
			return 0, fmt.Errorf("invalid resize edge %q", s)
		}
		if e&bit != 0 {
			return 0, fmt.Errorf("invalid resize edge %q", s)
		}
		e |= bit
	}
	if !e.Valid() {
		return 0, fmt.Errorf("invalid resize edge %q", s)
	}
	return e, nil
}

// Valid reports whether e is one of the eight compass handles.
func (e Edge) Valid() bool {
	if e == 0 || e&^(EdgeNorth|EdgeSouth|EdgeEast|EdgeWest) != 0 {
		return false
	}
	if e.Has(EdgeNorth) && e.Has(EdgeSouth) {
		return false
	}
	if e.Has(EdgeEast) && e.Has(EdgeWest) {
		return false
	}
	return true
}

// Has reports whether e includes every bit of other.
func (e Edge) Has(other Edge) bool {
	return e&other == other
}

// String returns the compass name of the edge.
func (e Edge) String() string {
	var sb strings.Builder
	if e.Has(EdgeNorth) {
		sb.WriteByte('n')
	}
	if e.Has(EdgeSouth) {
		sb.WriteByte('s')
	}
	if e.Has(EdgeEast) {
		sb.WriteByte('e')
	}
	if e.Has(EdgeWest) {
		sb.WriteByte('w')
	}
	if sb.Len() == 0 {
		return "none"
	}
	return sb.String()
}

// MarshalText implements encoding.TextMarshaler.
func (e Edge) MarshalText() ([]byte, error) {
	if e == 0 {
		return []byte(""), nil
	}
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Edge) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*e = 0
		return nil
	}
	parsed, err := ParseEdge(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
