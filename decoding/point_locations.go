package decoding

import (
	"github.com/beetlebugorg/openlr"
	"github.com/beetlebugorg/openlr/maps"
)

// PointAlongLine is a dereferenced point-along-line location.
type PointAlongLine struct {
	Line           maps.Line
	PositiveOffset float64
	Side           openlr.SideOfRoad
	Orientation    openlr.Orientation
	kernel         maps.Kernel
}

// Coordinates returns the geo position of the point.
func (p *PointAlongLine) Coordinates() maps.Coordinates {
	return p.kernel.Interpolate(p.Line.Geometry(), p.PositiveOffset/p.Line.Length())
}

// PoiWithAccessPoint is a dereferenced point-of-interest-with-access-point
// location: the access point (same shape as PointAlongLine) plus the raw
// POI coordinate carried verbatim from the reference.
type PoiWithAccessPoint struct {
	PointAlongLine
	POI maps.Coordinates
}

// AccessPointCoordinates returns the geo position of the access point on
// the road (as opposed to the POI itself).
func (p *PoiWithAccessPoint) AccessPointCoordinates() maps.Coordinates {
	return p.PointAlongLine.Coordinates()
}

// pointAlongRoute steps lengthMeters into route and returns the edge and
// the residual meter offset at which the point falls.
func pointAlongRoute(route Route, lengthMeters float64) (maps.Line, float64, error) {
	leftover := lengthMeters - route.Start.Line.Length()*(1.0-route.Start.RelativeOffset)
	if leftover < 0.0 {
		return route.Start.Line, route.Start.Line.Length()*route.Start.RelativeOffset + lengthMeters, nil
	}

	for _, line := range route.PathInbetween {
		if leftover > line.Length() {
			leftover -= line.Length()
		} else {
			return line, leftover, nil
		}
	}

	endOffset := route.End.Line.Length() * route.End.RelativeOffset
	if leftover <= endOffset {
		return route.End.Line, leftover, nil
	}
	return nil, 0, &ErrOffsetExceedsPath{}
}

func decodePointAlongLine(kernel maps.Kernel, segments []Route, ref openlr.PointAlongLineLocationReference) (*PointAlongLine, error) {
	path := combineRoutes(segments)
	absoluteOffset := path.Length() * ref.POffs
	line, offset, err := pointAlongRoute(path, absoluteOffset)
	if err != nil {
		return nil, err
	}
	return &PointAlongLine{
		Line: line, PositiveOffset: offset, Side: ref.SideOfRoad, Orientation: ref.Orientation, kernel: kernel,
	}, nil
}

func decodePOIWithAccessPoint(kernel maps.Kernel, segments []Route, ref openlr.PoiWithAccessPointLocationReference) (*PoiWithAccessPoint, error) {
	path := combineRoutes(segments)
	absoluteOffset := maps.PathLength(getLines([]Route{path})) * ref.POffs
	line, offset, err := pointAlongRoute(path, absoluteOffset)
	if err != nil {
		return nil, err
	}
	return &PoiWithAccessPoint{
		PointAlongLine: PointAlongLine{
			Line: line, PositiveOffset: offset, Side: ref.SideOfRoad, Orientation: ref.Orientation, kernel: kernel,
		},
		POI: maps.Coordinates{Lon: ref.Lon, Lat: ref.Lat},
	}, nil
}
