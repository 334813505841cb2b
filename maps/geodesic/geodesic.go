// Package geodesic implements maps.Kernel on the WGS-84 ellipsoid, using
// Vincenty's direct and inverse formulae. Coordinates are plain longitude/
// latitude degrees.
//
// Vincenty, T. "Direct and Inverse Solutions of Geodesics on the Ellipsoid
// with Application of Nested Equations." Survey Review XXIII, 176 (1975).
package geodesic

import (
	"math"

	"github.com/beetlebugorg/openlr/maps"
)

// WGS84 ellipsoid parameters.
const (
	semiMajorAxis = 6378137.0         // a, meters
	flattening    = 1 / 298.257223563 // f
	semiMinorAxis = semiMajorAxis * (1 - flattening)
)

const vincentyMaxIterations = 200

// Kernel implements maps.Kernel on the WGS-84 ellipsoid.
type Kernel struct{}

// New returns a WGS-84 geodesic Kernel.
func New() Kernel { return Kernel{} }

// inverse solves the Vincenty inverse problem: distance and initial
// azimuth between two points. Returns (distanceMeters, initialBearingDeg).
func inverse(a, b maps.Coordinates) (float64, float64) {
	if a.Lon == b.Lon && a.Lat == b.Lat {
		return 0, 0
	}

	phi1 := radians(a.Lat)
	phi2 := radians(b.Lat)
	l := radians(b.Lon - a.Lon)

	f := flattening
	u1 := math.Atan((1 - f) * math.Tan(phi1))
	u2 := math.Atan((1 - f) * math.Tan(phi2))
	sinU1, cosU1 := math.Sincos(u1)
	sinU2, cosU2 := math.Sincos(u2)

	lambda := l
	var sinLambda, cosLambda float64
	var sinSigma, cosSigma, sigma float64
	var cosSqAlpha, cos2SigmaM float64

	for i := 0; i < vincentyMaxIterations; i++ {
		sinLambda, cosLambda = math.Sincos(lambda)
		sinSigma = math.Sqrt(math.Pow(cosU2*sinLambda, 2) +
			math.Pow(cosU1*sinU2-sinU1*cosU2*cosLambda, 2))
		if sinSigma == 0 {
			return 0, 0 // coincident points
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)
		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha
		if cosSqAlpha != 0 {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		} else {
			cos2SigmaM = 0 // equatorial line
		}
		c := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
		lambdaPrev := lambda
		lambda = l + (1-c)*f*sinAlpha*
			(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
		if math.Abs(lambda-lambdaPrev) < 1e-12 {
			break
		}
	}

	uSq := cosSqAlpha * (semiMajorAxis*semiMajorAxis - semiMinorAxis*semiMinorAxis) / (semiMinorAxis * semiMinorAxis)
	aa := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	bb := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	deltaSigma := bb * sinSigma * (cos2SigmaM + bb/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
		bb/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))

	dist := semiMinorAxis * aa * (sigma - deltaSigma)

	alpha1 := math.Atan2(cosU2*sinLambda, cosU1*sinU2-sinU1*cosU2*cosLambda)
	return dist, normalizeDegrees(degrees(alpha1))
}

// direct solves the Vincenty direct problem: the destination point reached
// by walking distMeters from c along initial bearing bearingDeg.
func direct(c maps.Coordinates, bearingDeg, distMeters float64) maps.Coordinates {
	if distMeters == 0 {
		return c
	}

	phi1 := radians(c.Lat)
	alpha1 := radians(bearingDeg)
	f := flattening

	sinAlpha1, cosAlpha1 := math.Sincos(alpha1)
	tanU1 := (1 - f) * math.Tan(phi1)
	cosU1 := 1 / math.Sqrt(1+tanU1*tanU1)
	sinU1 := tanU1 * cosU1

	sigma1 := math.Atan2(tanU1, cosAlpha1)
	sinAlpha := cosU1 * sinAlpha1
	cosSqAlpha := 1 - sinAlpha*sinAlpha

	uSq := cosSqAlpha * (semiMajorAxis*semiMajorAxis - semiMinorAxis*semiMinorAxis) / (semiMinorAxis * semiMinorAxis)
	aa := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	bb := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))

	sigma := distMeters / (semiMinorAxis * aa)
	var sinSigma, cosSigma, cos2SigmaM float64
	for i := 0; i < vincentyMaxIterations; i++ {
		cos2SigmaM = math.Cos(2*sigma1 + sigma)
		sinSigma, cosSigma = math.Sincos(sigma)
		deltaSigma := bb * sinSigma * (cos2SigmaM + bb/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
			bb/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
		sigmaPrev := sigma
		sigma = distMeters/(semiMinorAxis*aa) + deltaSigma
		if math.Abs(sigma-sigmaPrev) < 1e-12 {
			break
		}
	}

	x := sinU1*sinSigma - cosU1*cosSigma*cosAlpha1
	phi2 := math.Atan2(sinU1*cosSigma+cosU1*sinSigma*cosAlpha1,
		(1-f)*math.Sqrt(sinAlpha*sinAlpha+x*x))
	lambda := math.Atan2(sinSigma*sinAlpha1, cosU1*cosSigma-sinU1*sinSigma*cosAlpha1)
	cc := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
	l := lambda - (1-cc)*f*sinAlpha*
		(sigma+cc*sinSigma*(cos2SigmaM+cc*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

	lon2 := c.Lon + degrees(l)
	return maps.Coordinates{Lon: normalizeLongitude(lon2), Lat: degrees(phi2)}
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }

func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func normalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

// Distance implements maps.Kernel.
func (Kernel) Distance(a, b maps.Coordinates) float64 {
	d, _ := inverse(a, b)
	return d
}

// Bearing implements maps.Kernel.
func (Kernel) Bearing(a, b maps.Coordinates) float64 {
	_, brg := inverse(a, b)
	return brg
}

// Extrapolate implements maps.Kernel.
func (Kernel) Extrapolate(c maps.Coordinates, bearingDeg, distMeters float64) maps.Coordinates {
	return direct(c, bearingDeg, distMeters)
}

// LineStringLength implements maps.Kernel.
func (k Kernel) LineStringLength(line []maps.Coordinates) float64 {
	var total float64
	for i := 0; i+1 < len(line); i++ {
		total += k.Distance(line[i], line[i+1])
	}
	return total
}

// Interpolate implements maps.Kernel. If distMeters (frac * total length)
// exceeds the line's length, the last coordinate is returned.
func (k Kernel) Interpolate(line []maps.Coordinates, frac float64) maps.Coordinates {
	if len(line) == 0 {
		return maps.Coordinates{}
	}
	if len(line) == 1 || frac <= 0 {
		return line[0]
	}
	target := frac * k.LineStringLength(line)
	remaining := target
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

	target := frac * k.LineStringLength(line)
	remaining := target
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
