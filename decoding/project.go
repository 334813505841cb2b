package decoding

import (
	"math"

	"github.com/beetlebugorg/openlr/maps"
)

// projectOntoLine finds the point on line closest to coord and returns its
// relative offset along the line, in [0, 1]. The nearest-point search
// itself operates on the raw lon/lat coordinate plane (as the reference
// implementation's shapely-based projection does); only the resulting
// fraction is then converted to a relative offset using the active
// kernel's notion of length, so it stays consistent between the geodesic
// and planar backends.
func projectOntoLine(kernel maps.Kernel, line []maps.Coordinates, coord maps.Coordinates) float64 {
	if len(line) < 2 {
		return 0
	}

	bestDist := math.Inf(1)
	bestSeg := 0
	bestT := 0.0

	for i := 0; i+1 < len(line); i++ {
		t, d := closestPointOnSegment(line[i], line[i+1], coord)
		if d < bestDist {
			bestDist, bestSeg, bestT = d, i, t
		}
	}

	projected := lerp(line[bestSeg], line[bestSeg+1], bestT)
	prefix := append(append([]maps.Coordinates{}, line[:bestSeg+1]...), projected)

	total := kernel.LineStringLength(line)
	if total == 0 {
		return 0
	}
	return kernel.LineStringLength(prefix) / total
}

// closestPointOnSegment returns the parametric position t in [0,1] of the
// closest point to p on segment a-b, and the squared planar distance to
// it, using raw lon/lat coordinates as a flat plane.
func closestPointOnSegment(a, b, p maps.Coordinates) (t, distSq float64) {
	dx, dy := b.Lon-a.Lon, b.Lat-a.Lat
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		t = 0
	} else {
		t = ((p.Lon-a.Lon)*dx + (p.Lat-a.Lat)*dy) / lenSq
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}
	proj := lerp(a, b, t)
	ex, ey := p.Lon-proj.Lon, p.Lat-proj.Lat
	return t, ex*ex + ey*ey
}

func lerp(a, b maps.Coordinates, t float64) maps.Coordinates {
	return maps.Coordinates{Lon: a.Lon + (b.Lon-a.Lon)*t, Lat: a.Lat + (b.Lat-a.Lat)*t}
}
