package maps

// Kernel is the geo-arithmetic backend the decoder performs all distance,
// bearing, and position computations through. Two interchangeable
// implementations exist: package maps/geodesic (WGS-84 ellipsoidal
// coordinates) and package maps/planar (a pre-projected equal-area plane,
// in meters). Any MapReader's coordinates must be consistent with the
// Kernel the caller selects.
type Kernel interface {
	// Distance returns the distance, in meters, between two coordinates.
	Distance(a, b Coordinates) float64

	// Bearing returns the compass bearing, in degrees [0, 360), of travel
	// from a towards b.
	Bearing(a, b Coordinates) float64

	// Interpolate returns the point a fraction frac (in [0, 1]) of the
	// way along the line string, measuring distance along the geometry
	// rather than a straight chord.
	Interpolate(line []Coordinates, frac float64) Coordinates

	// Extrapolate returns the point reached by walking distMeters along
	// the ray leaving coordinate c with bearing bearingDeg.
	Extrapolate(c Coordinates, bearingDeg, distMeters float64) Coordinates

	// SplitLine divides a line string at a fraction frac (in [0, 1]) of
	// its total length, returning the two resulting line strings. Either
	// half may be a single point if frac is 0 or 1.
	SplitLine(line []Coordinates, frac float64) (before, after []Coordinates)

	// LineStringLength returns the total length, in meters, of a line
	// string: the sum of consecutive-vertex distances.
	LineStringLength(line []Coordinates) float64
}
