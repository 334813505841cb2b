package memory

import (
	"math"
	"testing"

	"github.com/beetlebugorg/openlr/maps"
	"github.com/beetlebugorg/openlr/maps/geodesic"
)

func TestNewReferenceMapCounts(t *testing.T) {
	r, _, _ := NewReferenceMap(geodesic.New())
	if r.NodeCount() != 14 {
		t.Errorf("NodeCount = %d, want 14", r.NodeCount())
	}
	if r.LineCount() != 17 {
		t.Errorf("LineCount = %d, want 17", r.LineCount())
	}
}

func TestFindLinesCloseToFindsKnownEdge(t *testing.T) {
	r, _, lineIDs := NewReferenceMap(geodesic.New())
	coord := maps.Coordinates{Lon: 13.4145, Lat: 52.527} // near edge 3 (node2 -> node3)

	found := r.FindLinesCloseTo(coord, 300, nil)
	var sawEdge3 bool
	for _, l := range found {
		if l.LineID() == lineIDs[3] {
			sawEdge3 = true
		}
	}
	if !sawEdge3 {
		t.Errorf("expected to find edge 3 near %v, got %d lines", coord, len(found))
	}
}

func TestFindLinesCloseToHonorsFilter(t *testing.T) {
	r, _, lineIDs := NewReferenceMap(geodesic.New())
	coord := maps.Coordinates{Lon: 13.4145, Lat: 52.527} // near edge 3 (node2 -> node3)

	excludeEdge3 := func(l maps.Line) bool { return l.LineID() != lineIDs[3] }
	found := r.FindLinesCloseTo(coord, 300, excludeEdge3)
	for _, l := range found {
		if l.LineID() == lineIDs[3] {
			t.Error("filter should have excluded edge 3 from the result")
		}
	}

	foundUnfiltered := r.FindLinesCloseTo(coord, 300, nil)
	if len(foundUnfiltered) <= len(found) {
		t.Errorf("expected the unfiltered call to return at least one more line than the filtered one")
	}
}

// lonMarginDegrees must widen the longitude margin relative to the
// latitude margin by 1/cos(lat); at this package's reference latitude
// (~52.5 degrees) that is a ~64% increase, so a flat margin would let
// FindLinesCloseTo/FindNodesCloseTo silently drop real east-west matches.
func TestLonMarginWidensWithLatitude(t *testing.T) {
	const lat = 52.525
	latMargin := latMarginDegrees(300)
	lonMargin := lonMarginDegrees(300, lat)

	wantRatio := 1 / math.Cos(lat*math.Pi/180)
	gotRatio := lonMargin / latMargin
	if math.Abs(gotRatio-wantRatio) > 1e-9 {
		t.Errorf("lonMargin/latMargin = %v, want 1/cos(lat) = %v", gotRatio, wantRatio)
	}
	if lonMargin <= latMargin {
		t.Errorf("lonMargin (%v) should exceed latMargin (%v) at a non-zero latitude", lonMargin, latMargin)
	}
}

func TestFindNodesCloseToExcludesFarNodes(t *testing.T) {
	r, nodeIDs, _ := NewReferenceMap(geodesic.New())
	coord := maps.Coordinates{Lon: 13.410, Lat: 52.525} // node 0

	found := r.FindNodesCloseTo(coord, 50)
	for _, n := range found {
		if n.NodeID() == nodeIDs[13] {
			t.Error("node 13 is far away and should not be returned for a 50m radius")
		}
	}
}

func TestNodeOutgoingIncomingLines(t *testing.T) {
	r, nodeIDs, lineIDs := NewReferenceMap(geodesic.New())
	node2, _ := r.GetNode(nodeIDs[2])

	var sawOutgoing, sawIncoming bool
	for _, l := range node2.OutgoingLines() {
		if l.LineID() == lineIDs[3] || l.LineID() == lineIDs[5] {
			sawOutgoing = true
		}
	}
	for _, l := range node2.IncomingLines() {
		if l.LineID() == lineIDs[2] {
			sawIncoming = true
		}
	}
	if !sawOutgoing || !sawIncoming {
		t.Errorf("node 2's in/out lines don't match the reference map topology")
	}
}

func TestLineLengthConsistentWithKernel(t *testing.T) {
	kernel := geodesic.New()
	r, _, lineIDs := NewReferenceMap(kernel)
	line, _ := r.GetLine(lineIDs[1])
	want := kernel.LineStringLength(line.Geometry())
	if line.Length() != want {
		t.Errorf("Length() = %v, want %v", line.Length(), want)
	}
}
