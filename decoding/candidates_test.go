package decoding

import (
	"testing"

	"github.com/beetlebugorg/openlr"
	"github.com/beetlebugorg/openlr/examplemap/memory"
	"github.com/beetlebugorg/openlr/maps/geodesic"
)

func TestNodeValidityCacheRoundTripsAndEvicts(t *testing.T) {
	c := newNodeValidityCache(2)

	if _, ok := c.get("a"); ok {
		t.Fatal("get on an empty cache should miss")
	}

	c.put("a", true)
	c.put("b", false)
	if v, ok := c.get("a"); !ok || !v {
		t.Errorf("get(a) = (%v, %v), want (true, true)", v, ok)
	}

	// Inserting a third entry evicts the least recently used one. "a" was
	// just touched by get(), so "b" should be the one evicted.
	c.put("c", true)
	if _, ok := c.get("b"); ok {
		t.Error("expected b to be evicted after exceeding capacity")
	}
	if _, ok := c.get("a"); !ok {
		t.Error("expected a to survive eviction since it was the most recently used")
	}
}

func TestIsContinuationArtifactAcceptsRealJunction(t *testing.T) {
	kernel := geodesic.New()
	r, nodeIDs, _ := memory.NewReferenceMap(kernel)

	// Node 8 has two incoming and two outgoing edges reaching four distinct
	// neighbours (7, 6, 9, 11) — not a pass-through.
	node8, _ := r.GetNode(nodeIDs[8])
	if !isValidNode(nil, node8) {
		t.Error("node 8 is a real junction and should be valid")
	}
}

func TestNominateCandidatesRejectsBeyondSearchRadius(t *testing.T) {
	kernel := geodesic.New()
	r, _, _ := memory.NewReferenceMap(kernel)

	cfg := DefaultConfig()
	farLRP := openlr.LocationReferencePoint{
		Lon: 13.410, Lat: 52.600, // far north of the reference map
		FRC: openlr.FRC1, FOW: openlr.FOWSingleCarriageway, Bearing: 0,
	}

	if candidates := nominateCandidates(cfg, kernel, r, nil, farLRP, false, nil); len(candidates) != 0 {
		t.Errorf("expected no candidate for an LRP outside the search radius, got %d", len(candidates))
	}
}

func TestMakeCandidateAcceptsOnAxisLRP(t *testing.T) {
	kernel := geodesic.New()
	r, _, lineIDs := memory.NewReferenceMap(kernel)
	line, _ := r.GetLine(lineIDs[1])

	cfg := DefaultConfig()
	start := line.Geometry()[0]
	onAxisBearing := kernel.Bearing(line.Geometry()[0], line.Geometry()[len(line.Geometry())-1])
	lrp := openlr.LocationReferencePoint{
		Lon: start.Lon, Lat: start.Lat,
		FRC: openlr.FRC(line.FRC()), FOW: openlr.FOWSingleCarriageway,
		Bearing: onAxisBearing,
	}

	candidate, ok := makeCandidate(cfg, kernel, nil, lrp, line, false)
	if !ok {
		t.Fatal("expected a candidate for an LRP sitting exactly on the line's start, on axis")
	}
	if candidate.RelativeOffset != 0 {
		t.Errorf("RelativeOffset = %v, want 0 (snapped to the line start)", candidate.RelativeOffset)
	}
	if candidate.Score < cfg.MinScore {
		t.Errorf("Score = %v, want >= MinScore (%v)", candidate.Score, cfg.MinScore)
	}
}
