package decoding

import (
	"github.com/beetlebugorg/openlr/maps"
)

// PointOnLine is a point on the road network, expressed as a line plus a
// fractional offset along it, in [0, 1].
type PointOnLine struct {
	Line           maps.Line
	RelativeOffset float64
}

// Position returns the point's geo position, interpolated along the
// line's geometry by RelativeOffset.
func (p PointOnLine) Position(kernel maps.Kernel) maps.Coordinates {
	return kernel.Interpolate(p.Line.Geometry(), p.RelativeOffset)
}

// Split returns the two halves of the line's geometry on either side of
// this point. Either half is nil if the point sits at that end.
func (p PointOnLine) Split(kernel maps.Kernel) (before, after []maps.Coordinates) {
	if p.RelativeOffset == 0.0 {
		return nil, p.Line.Geometry()
	}
	if p.RelativeOffset == 1.0 {
		return p.Line.Geometry(), nil
	}
	return kernel.SplitLine(p.Line.Geometry(), p.RelativeOffset)
}

// absoluteOffset returns the point's offset in meters from the line start.
func (p PointOnLine) absoluteOffset() float64 {
	return p.Line.Length() * p.RelativeOffset
}

// fromAbsOffset builds a PointOnLine offsetMeters into line.
func fromAbsOffset(line maps.Line, offsetMeters float64) PointOnLine {
	if line.Length() == 0 {
		return PointOnLine{Line: line, RelativeOffset: 0}
	}
	return PointOnLine{Line: line, RelativeOffset: offsetMeters / line.Length()}
}

// Candidate is an LRP candidate: a point on the road network plus its
// precomputed score.
type Candidate struct {
	PointOnLine
	Score float64
}

// Route is a part of a matched path: a start point, any full intermediate
// edges, and an end point. The first and last edges may be partial.
type Route struct {
	Start         PointOnLine
	PathInbetween []maps.Line
	End           PointOnLine
}

// Lines returns every edge that takes part in the route, start to end,
// with a duplicate dropped when the start or end edge coincides with an
// adjacent interior edge.
func (r Route) Lines() []maps.Line {
	result := []maps.Line{r.Start.Line}
	for _, line := range r.PathInbetween {
		if line.LineID() != result[len(result)-1].LineID() {
			result = append(result, line)
		}
	}
	if r.End.Line.LineID() == result[len(result)-1].LineID() {
		result = result[:len(result)-1]
	}
	result = append(result, r.End.Line)
	return result
}

// Length returns the route's length in meters, accounting for the partial
// start/end edges.
func (r Route) Length() float64 {
	lines := r.Lines()
	result := maps.PathLength(lines)
	if r.Start.RelativeOffset > 0.0 {
		result -= lines[0].Length() * r.Start.RelativeOffset
	}
	if r.End.RelativeOffset < 1.0 {
		result -= lines[len(lines)-1].Length() * (1.0 - r.End.RelativeOffset)
	}
	return result
}

// AbsoluteStartOffset is the route's start offset in meters on its first
// line.
func (r Route) AbsoluteStartOffset() float64 {
	return r.Start.Line.Length() * r.Start.RelativeOffset
}

// AbsoluteEndOffset is the route's end offset in meters (measured back
// from the line end) on its last line.
func (r Route) AbsoluteEndOffset() float64 {
	return r.End.Line.Length() * (1.0 - r.End.RelativeOffset)
}

// Coordinates materializes the route's full coordinate sequence.
func (r Route) Coordinates(kernel maps.Kernel) []maps.Coordinates {
	lines := r.Lines()
	if len(lines) == 1 {
		_, after := kernel.SplitLine(lines[0].Geometry(), r.Start.RelativeOffset)
		before, _ := kernel.SplitLine(after, relativeWithin(r.Start.RelativeOffset, r.End.RelativeOffset))
		return before
	}

	var coords []maps.Coordinates
	_, startTail := r.Start.Split(kernel)
	coords = append(coords, startTail...)
	for _, line := range r.PathInbetween {
		coords = appendLineString(coords, line.Geometry())
	}
	endHead, _ := r.End.Split(kernel)
	coords = appendLineString(coords, endHead)
	return coords
}

// relativeWithin expresses end as a fraction of the distance remaining
// after start, i.e. the position of end within the [start, 1] sub-range.
func relativeWithin(start, end float64) float64 {
	if end >= 1.0 {
		return 1.0
	}
	if start >= 1.0 {
		return 0.0
	}
	return (end - start) / (1.0 - start)
}

// appendLineString appends a line string to coords, dropping the leading
// vertex when it duplicates the current last vertex (shared junction).
func appendLineString(coords []maps.Coordinates, line []maps.Coordinates) []maps.Coordinates {
	if len(line) == 0 {
		return coords
	}
	if len(coords) > 0 && coords[len(coords)-1] == line[0] {
		return append(coords, line[1:]...)
	}
	return append(coords, line...)
}
