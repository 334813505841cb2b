package decoding

import (
	"github.com/beetlebugorg/openlr"
	"github.com/beetlebugorg/openlr/maps"
)

// LineLocation is a dereferenced line location: an ordered list of edges
// plus start/end meter offsets into the first/last of them.
type LineLocation struct {
	route  Route
	kernel maps.Kernel
}

// Lines returns the ordered edges that make up the location.
func (l *LineLocation) Lines() []maps.Line { return l.route.Lines() }

// POff is the absolute offset, in meters, into the first line.
func (l *LineLocation) POff() float64 { return l.route.AbsoluteStartOffset() }

// NOff is the absolute offset, in meters, back from the end of the last
// line.
func (l *LineLocation) NOff() float64 { return l.route.AbsoluteEndOffset() }

// Coordinates returns the exact coordinate sequence of the location.
func (l *LineLocation) Coordinates() []maps.Coordinates { return l.route.Coordinates(l.kernel) }

// getLines flattens a sequence of route segments into a single edge list,
// dropping a duplicate where one segment's last edge equals the next
// segment's first edge.
func getLines(segments []Route) []maps.Line {
	var result []maps.Line
	for _, seg := range segments {
		for _, line := range seg.Lines() {
			if len(result) > 0 && result[len(result)-1].LineID() == line.LineID() {
				result = result[:len(result)-1]
			}
			result = append(result, line)
		}
	}
	return result
}

// combineRoutes concatenates a sequence of route segments produced by the
// matcher into a single Route spanning the whole path.
func combineRoutes(segments []Route) Route {
	path := getLines(segments)
	start := PointOnLine{Line: path[0], RelativeOffset: segments[0].Start.RelativeOffset}
	path = path[1:]

	var end PointOnLine
	if len(path) > 0 {
		last := path[len(path)-1]
		path = path[:len(path)-1]
		end = PointOnLine{Line: last, RelativeOffset: segments[len(segments)-1].End.RelativeOffset}
	} else {
		end = PointOnLine{Line: start.Line, RelativeOffset: segments[len(segments)-1].End.RelativeOffset}
	}
	return Route{Start: start, PathInbetween: path, End: end}
}

// buildLineLocation assembles the matcher's route segments and the
// reference's relative offsets into a final, trimmed LineLocation.
func buildLineLocation(kernel maps.Kernel, segments []Route, ref openlr.LineLocationReference) (*LineLocation, error) {
	poff := ref.POffs * segments[0].Length()
	noff := ref.NOffs * segments[len(segments)-1].Length()

	combined := combineRoutes(segments)
	trimmed, err := removeOffsets(combined, poff, noff)
	if err != nil {
		return nil, err
	}
	return &LineLocation{route: trimmed, kernel: kernel}, nil
}

// removeOffsets trims a route's start/end by the given absolute meter
// offsets, dropping whole edges where the offset consumes them entirely.
func removeOffsets(route Route, poff, noff float64) (Route, error) {
	lines := route.Lines()

	remainingPoff := poff + route.AbsoluteStartOffset()
	for len(lines) > 0 && remainingPoff >= lines[0].Length() {
		remainingPoff -= lines[0].Length()
		lines = lines[1:]
		if len(lines) == 0 {
			return Route{}, &ErrOffsetExceedsPath{}
		}
	}

	remainingNoff := noff + route.AbsoluteEndOffset()
	for len(lines) > 0 && remainingNoff >= lines[len(lines)-1].Length() {
		remainingNoff -= lines[len(lines)-1].Length()
		lines = lines[:len(lines)-1]
		if len(lines) == 0 {
			return Route{}, &ErrOffsetExceedsPath{}
		}
	}

	startLine := lines[0]
	lines = lines[1:]
	var endLine maps.Line
	if len(lines) > 0 {
		endLine = lines[len(lines)-1]
		lines = lines[:len(lines)-1]
	} else {
		endLine = startLine
	}

	start := fromAbsOffset(startLine, remainingPoff)
	end := fromAbsOffset(endLine, endLine.Length()-remainingNoff)
	if startLine.LineID() == endLine.LineID() && end.RelativeOffset < start.RelativeOffset {
		return Route{}, &ErrOffsetExceedsPath{}
	}

	return Route{Start: start, PathInbetween: lines, End: end}, nil
}
