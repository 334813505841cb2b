package decoding

import (
	"math"

	"github.com/beetlebugorg/openlr"
	"github.com/beetlebugorg/openlr/maps"
)

// scoreFRC rates how closely an actual FRC matches a wanted one: 1 for an
// exact match, decreasing linearly to 0 at the maximum possible deviation.
func scoreFRC(wanted, actual openlr.FRC) float64 {
	return 1.0 - math.Abs(float64(actual-wanted))/7.0
}

// angleDifference returns the signed difference between two angles given
// in degrees, normalized to [-180, 180].
func angleDifference(a, b float64) float64 {
	return math.Mod(math.Abs(a-b)+180, 360) - 180
}

// scoreBearing rates the similarity of two bearings, in degrees: 1.0 for
// identical bearings, 0.0 for a 180 degree difference.
func scoreBearing(wanted, actual float64) float64 {
	return 1 - math.Abs(angleDifference(wanted, actual))/180
}

// scoreGeo rates how close a candidate's position is to the LRP
// coordinate, relative to the search radius.
func scoreGeo(lrpCoord, candidateCoord maps.Coordinates, kernel maps.Kernel, searchRadius float64) float64 {
	d := kernel.Distance(lrpCoord, candidateCoord)
	if d >= searchRadius {
		return 0
	}
	return 1 - d/searchRadius
}

// scoreFOW looks up the stand-in score for a candidate's FOW given the
// LRP's wanted FOW.
func scoreFOW(cfg Config, wanted openlr.FOW, actual maps.FOWCategory) float64 {
	w, a := int(wanted), int(actual)
	if w < 0 || w > 7 || a < 0 || a > 7 {
		return 0
	}
	return cfg.FOWStandInScore[w][a]
}

// candidateBearing computes a candidate's bearing in degrees [0, 360),
// measured over cfg.BearDist meters on the outgoing side of the point (or
// the incoming side, reversed, for the terminal LRP). Returns 0 if the
// relevant side has no geometry.
func candidateBearing(kernel maps.Kernel, candidate PointOnLine, isLastLRP bool, bearDist float64) float64 {
	before, after := candidate.Split(kernel)
	var coords []maps.Coordinates
	if isLastLRP {
		if before == nil {
			return 0
		}
		coords = reverseCoordinates(before)
	} else {
		if after == nil {
			return 0
		}
		coords = after
	}
	target := kernel.Interpolate(coords, bearDistFraction(kernel, coords, bearDist))
	brg := kernel.Bearing(coords[0], target)
	if brg < 0 {
		brg += 360
	}
	return brg
}

func bearDistFraction(kernel maps.Kernel, coords []maps.Coordinates, bearDist float64) float64 {
	total := kernel.LineStringLength(coords)
	if total <= 0 {
		return 0
	}
	if bearDist >= total {
		return 1
	}
	return bearDist / total
}

func reverseCoordinates(coords []maps.Coordinates) []maps.Coordinates {
	out := make([]maps.Coordinates, len(coords))
	for i, c := range coords {
		out[len(coords)-1-i] = c
	}
	return out
}

// scoreCandidate is the weighted sum of a candidate's geo, FOW, FRC, and
// bearing scores against a wanted LRP.
func scoreCandidate(cfg Config, kernel maps.Kernel, lrp openlr.LocationReferencePoint, candidate PointOnLine, actualBearing float64) float64 {
	lrpCoord := maps.Coordinates{Lon: lrp.Lon, Lat: lrp.Lat}
	geo := scoreGeo(lrpCoord, candidate.Position(kernel), kernel, cfg.SearchRadius)
	fow := scoreFOW(cfg, lrp.FOW, candidate.Line.FOW())
	frc := scoreFRC(lrp.FRC, openlr.FRC(candidate.Line.FRC()))
	bear := scoreBearing(lrp.Bearing, actualBearing)
	return cfg.GeoWeight*geo + cfg.FOWWeight*fow + cfg.FRCWeight*frc + cfg.BearWeight*bear
}
