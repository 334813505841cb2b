package memory

import (
	"github.com/google/uuid"

	"github.com/beetlebugorg/openlr/maps"
)

// nodeSpec and lineSpec describe the small Berlin-area reference map this
// module's decoder tests run against, ported from the Python project's
// spatialite-backed `tests/example_mapformat.py` fixture into plain
// coordinates.
type nodeSpec struct {
	id   int
	lon  float64
	lat  float64
}

type lineSpec struct {
	id         int
	start, end int
	frc        maps.FRCLevel
	fow        maps.FOWCategory
}

var referenceNodes = []nodeSpec{
	{0, 13.410, 52.525},
	{1, 13.413, 52.522},
	{2, 13.414, 52.525},
	{3, 13.4145, 52.529},
	{4, 13.416, 52.525},
	{5, 13.4175, 52.52},
	{6, 13.418, 52.53},
	{7, 13.4185, 52.525},
	{8, 13.42, 52.527},
	{9, 13.421, 52.53},
	{10, 13.4215, 52.522},
	{11, 13.425, 52.525},
	{12, 13.427, 52.53},
	{13, 13.429, 52.523},
}

// referenceLines mirrors example_mapformat.py's INSERT INTO lines order,
// with ids 1-indexed exactly as sqlite assigned them via implicit ROWID
// (the Python tests' own comments refer to "line 1", "line 4", etc.) —
// so line ids here match the ids the decoding tests refer to (e.g. the
// expected edge sequence [1, 3, 4] of the straight-path scenario).
var referenceLines = []lineSpec{
	{1, 0, 2, 1, maps.FOWCategory(3)},
	{2, 1, 2, 2, maps.FOWCategory(3)},
	{3, 2, 3, 2, maps.FOWCategory(3)},
	{4, 3, 4, 2, maps.FOWCategory(3)},
	{5, 2, 4, 1, maps.FOWCategory(3)},
	{6, 4, 5, 2, maps.FOWCategory(3)},
	{7, 5, 7, 2, maps.FOWCategory(3)},
	{8, 4, 7, 1, maps.FOWCategory(3)},
	{9, 7, 8, 2, maps.FOWCategory(3)},
	{10, 8, 9, 2, maps.FOWCategory(3)},
	{11, 9, 6, 2, maps.FOWCategory(3)},
	{12, 6, 8, 2, maps.FOWCategory(3)},
	{13, 8, 11, 2, maps.FOWCategory(3)},
	{14, 7, 11, 1, maps.FOWCategory(3)},
	{15, 10, 11, 2, maps.FOWCategory(3)},
	{16, 11, 12, 2, maps.FOWCategory(3)},
	{17, 11, 13, 1, maps.FOWCategory(3)},
}

// NewReferenceMap builds the 14-node, 17-edge reference map used by this
// module's own test suite, with straight-line (two-vertex) geometries
// between each node pair.
func NewReferenceMap(kernel maps.Kernel) (*Reader, map[int]uuid.UUID, map[int]uuid.UUID) {
	r := New(kernel)

	nodeIDs := make(map[int]uuid.UUID, len(referenceNodes))
	coordByID := make(map[int]maps.Coordinates, len(referenceNodes))
	for _, n := range referenceNodes {
		coord := maps.Coordinates{Lon: n.lon, Lat: n.lat}
		nodeIDs[n.id] = r.AddNode(coord)
		coordByID[n.id] = coord
	}

	lineIDs := make(map[int]uuid.UUID, len(referenceLines))
	for _, l := range referenceLines {
		geometry := []maps.Coordinates{coordByID[l.start], coordByID[l.end]}
		lineIDs[l.id] = r.AddLine(nodeIDs[l.start], nodeIDs[l.end], l.frc, l.fow, geometry)
	}

	return r, nodeIDs, lineIDs
}
