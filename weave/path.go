package weave

import "strings"

// ArrayMarker is the path segment used for sequence elements, which carry no
// key of their own.
const ArrayMarker = "<arr>"

// Segment is a single element of a [Path]: either a mapping key or the
// [ArrayMarker].
type Segment struct {
	key   string
	array bool
}

// Key returns a [Segment] for the mapping key k.
func Key(k string) Segment {
	return Segment{key: k}
}

// Element returns the [Segment] standing in for a sequence element.
func Element() Segment {
	return Segment{array: true}
}

// IsElement reports whether s is the array marker.
func (s Segment) IsElement() bool {
	return s.array
}

// String returns the key, or [ArrayMarker] for element segments.
func (s Segment) String() string {
	if s.array {
		return ArrayMarker
	}

	return s.key
}

// Path is an ordered sequence of segments identifying a location in a tree.
type Path []Segment

// ParsePath splits a dotted path string into a [Path]. Segments equal to
// [ArrayMarker] become element segments. An empty string yields an empty
// path.
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ".")
	p := make(Path, 0, len(parts))

	for _, part := range parts {
		if part == ArrayMarker {
			p = append(p, Element())
		} else {
			p = append(p, Key(part))
		}
	}

	return p
}

// JoinPath joins raw segment strings with ".". It is the usual way to spell
// [CommentTable] keys in code:
//
//	weave.JoinPath("servers", weave.ArrayMarker, "host") // "servers.<arr>.host"
func JoinPath(parts ...string) string {
	return strings.Join(parts, ".")
}

// String joins the segments with ".".
func (p Path) String() string {
	switch len(p) {
	case 0:
		return ""
	case 1:
		return p[0].String()
	}

	var sb strings.Builder
	for i, seg := range p {
		if i > 0 {
			sb.WriteByte('.')
		}

		sb.WriteString(seg.String())
	}

	return sb.String()
}

// Depth returns the number of segments.
func (p Path) Depth() int {
	return len(p)
}

// HasElement reports whether any segment of p is the array marker.
func (p Path) HasElement() bool {
	for _, seg := range p {
		if seg.array {
			return true
		}
	}

	return false
}

// Child returns a copy of p with seg appended. p is not modified.
func (p Path) Child(seg Segment) Path {
	c := make(Path, len(p), len(p)+1)
	copy(c, p)

	return append(c, seg)
}
