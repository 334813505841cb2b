// Package planar implements maps.Kernel on a pre-projected equal-area
// plane: Euclidean distance and bearing over coordinates already expressed
// in meters (for example, after projecting into a national or UTM grid).
// It trades the WGS-84 ellipsoid's accuracy for speed on maps small enough
// that planar distortion is negligible.
package planar

import (
	"math"

	"github.com/beetlebugorg/openlr/maps"
)

// Kernel implements maps.Kernel over Euclidean-plane coordinates.
type Kernel struct{}

// New returns an equal-area planar Kernel.
func New() Kernel { return Kernel{} }

// Distance implements maps.Kernel.
func (Kernel) Distance(a, b maps.Coordinates) float64 {
	dx := b.Lon - a.Lon
	dy := b.Lat - a.Lat
	return math.Sqrt(dx*dx + dy*dy)
}

// Bearing implements maps.Kernel: the compass angle of travel from a to b,
// in degrees [0, 360), measured clockwise from north (the plane's +Y axis).
func (Kernel) Bearing(a, b maps.Coordinates) float64 {
	dx := b.Lon - a.Lon
	dy := b.Lat - a.Lat
	if dx == 0 && dy == 0 {
		return 0
	}
	brg := math.Atan2(dx, dy) * 180 / math.Pi
	if brg < 0 {
		brg += 360
	}
	return brg
}

// Extrapolate implements maps.Kernel.
func (Kernel) Extrapolate(c maps.Coordinates, bearingDeg, distMeters float64) maps.Coordinates {
	rad := bearingDeg * math.Pi / 180
	return maps.Coordinates{
		Lon: c.Lon + distMeters*math.Sin(rad),
		Lat: c.Lat + distMeters*math.Cos(rad),
	}
}

// LineStringLength implements maps.Kernel.
func (k Kernel) LineStringLength(line []maps.Coordinates) float64 {
	var total float64
	for i := 0; i+1 < len(line); i++ {
		total += k.Distance(line[i], line[i+1])
	}
	return total
}

// Interpolate implements maps.Kernel.
func (k Kernel) Interpolate(line []maps.Coordinates, frac float64) maps.Coordinates {
	if len(line) == 0 {
		return maps.Coordinates{}
	}
	if len(line) == 1 || frac <= 0 {
		return line[0]
	}
	remaining := frac * k.LineStringLength(line)
	for i := 0; i+1 < len(line); i++ {
		segLen := k.Distance(line[i], line[i+1])
		if remaining == 0 {
			return line[i]
		}
		if remaining < segLen {
			brg := k.Bearing(line[i], line[i+1])
			return k.Extrapolate(line[i], brg, remaining)
		}
		remaining -= segLen
	}
	return line[len(line)-1]
}

// SplitLine implements maps.Kernel.
func (k Kernel) SplitLine(line []maps.Coordinates, frac float64) ([]maps.Coordinates, []maps.Coordinates) {
	if len(line) < 2 {
		return line, nil
	}
	if frac <= 0 {
		return line[:1], line
	}
	if frac >= 1 {
		return line, line[len(line)-1:]
	}

	remaining := frac * k.LineStringLength(line)
	var before []maps.Coordinates
	for i := 0; i+1 < len(line); i++ {
		before = append(before, line[i])
		segLen := k.Distance(line[i], line[i+1])
		if remaining < segLen {
			split := k.Interpolate(line[i:i+2], remaining/segLen)
			after := append([]maps.Coordinates{split}, line[i+1:]...)
			if split != line[i] {
				before = append(before, split)
			}
			return before, after
		}
		remaining -= segLen
	}
	before = append(before, line[len(line)-1])
	return before, line[len(line)-1:]
}
