package decoding_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/beetlebugorg/openlr"
	"github.com/beetlebugorg/openlr/decoding"
	"github.com/beetlebugorg/openlr/examplemap/memory"
	"github.com/beetlebugorg/openlr/maps"
	"github.com/beetlebugorg/openlr/maps/geodesic"
	"github.com/beetlebugorg/openlr/observer"
)

// Reference node coordinates, copied from examplemap/memory's reference
// map so bearings/distances for constructed LRPs can be derived from the
// same geometry the decoder will actually search against.
var (
	refNode0  = maps.Coordinates{Lon: 13.410, Lat: 52.525}
	refNode2  = maps.Coordinates{Lon: 13.414, Lat: 52.525}
	refNode3  = maps.Coordinates{Lon: 13.4145, Lat: 52.529}
	refNode4  = maps.Coordinates{Lon: 13.416, Lat: 52.525}
	refNode13 = maps.Coordinates{Lon: 13.429, Lat: 52.523}
)

func frcPtr(f openlr.FRC) *openlr.FRC { return &f }
func distPtr(d float64) *float64      { return &d }

// straightPathLRPs builds the three-LRP "V" shaped reference described in
// the 3-LRP straight path scenario: node0 -> (edge1, edge3) -> node3 ->
// (edge4) -> node4.
func straightPathLRPs(t *testing.T, r *memory.Reader, lineIDs map[int]uuid.UUID, kernel maps.Kernel) []openlr.LocationReferencePoint {
	t.Helper()

	edge1, _ := r.GetLine(lineIDs[1])
	edge3, _ := r.GetLine(lineIDs[3])
	edge4, _ := r.GetLine(lineIDs[4])

	dnp1 := edge1.Length() + edge3.Length()
	dnp2 := edge4.Length()

	lrp1 := openlr.LocationReferencePoint{
		Lon: refNode0.Lon, Lat: refNode0.Lat,
		FRC: openlr.FRC1, FOW: openlr.FOWSingleCarriageway,
		Bearing:              kernel.Bearing(refNode0, refNode2),
		LowestFRCToNextPoint: frcPtr(openlr.FRC2),
		DistanceToNext:       distPtr(dnp1),
	}
	lrp2 := openlr.LocationReferencePoint{
		Lon: refNode3.Lon, Lat: refNode3.Lat,
		FRC: openlr.FRC2, FOW: openlr.FOWSingleCarriageway,
		Bearing:              kernel.Bearing(refNode3, refNode4),
		LowestFRCToNextPoint: frcPtr(openlr.FRC2),
		DistanceToNext:       distPtr(dnp2),
	}
	lrp3 := openlr.LocationReferencePoint{
		Lon: refNode4.Lon, Lat: refNode4.Lat,
		FRC: openlr.FRC2, FOW: openlr.FOWSingleCarriageway,
		Bearing: kernel.Bearing(refNode4, refNode3),
	}

	return []openlr.LocationReferencePoint{lrp1, lrp2, lrp3}
}

func TestDecodeLineLocationStraightPath(t *testing.T) {
	kernel := geodesic.New()
	r, _, lineIDs := memory.NewReferenceMap(kernel)
	lrps := straightPathLRPs(t, r, lineIDs, kernel)

	ref := openlr.LineLocationReference{Points: lrps}
	cfg := decoding.DefaultConfig()

	result, err := decoding.Decode(context.Background(), ref, r, cfg, nil, nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	loc, ok := result.(*decoding.LineLocation)
	if !ok {
		t.Fatalf("Decode() returned %T, want *decoding.LineLocation", result)
	}

	lines := loc.Lines()
	wantIDs := []any{lineIDs[1], lineIDs[3], lineIDs[4]}
	if len(lines) != len(wantIDs) {
		t.Fatalf("Lines() = %d edges, want %d", len(lines), len(wantIDs))
	}
	for i, line := range lines {
		if line.LineID() != wantIDs[i] {
			t.Errorf("Lines()[%d].LineID() = %v, want %v", i, line.LineID(), wantIDs[i])
		}
	}

	coords := loc.Coordinates()
	if len(coords) == 0 {
		t.Fatal("Coordinates() returned no points")
	}
	if d := kernel.Distance(coords[0], refNode0); d > 1.0 {
		t.Errorf("first coordinate %v is %v m from node0, want ~0", coords[0], d)
	}
	last := coords[len(coords)-1]
	if d := kernel.Distance(last, refNode4); d > 1.0 {
		t.Errorf("last coordinate %v is %v m from node4, want ~0", last, d)
	}
}

func TestDecodeLineLocationWithOffsets(t *testing.T) {
	kernel := geodesic.New()
	r, _, lineIDs := memory.NewReferenceMap(kernel)
	lrps := straightPathLRPs(t, r, lineIDs, kernel)

	ref := openlr.LineLocationReference{Points: lrps, POffs: 0.25, NOffs: 0.75}
	cfg := decoding.DefaultConfig()

	result, err := decoding.Decode(context.Background(), ref, r, cfg, nil, nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	loc := result.(*decoding.LineLocation)

	coords := loc.Coordinates()
	if len(coords) < 2 {
		t.Fatalf("Coordinates() = %v, want at least 2 points", coords)
	}

	wantFirst := maps.Coordinates{Lon: 13.4126, Lat: 52.525}
	if d := kernel.Distance(coords[0], wantFirst); d > 50 {
		t.Errorf("first coordinate %v is %v m from expected ~%v", coords[0], d, wantFirst)
	}
}

func TestDecodeLineLocationUnreachablePairFailsNoMatch(t *testing.T) {
	kernel := geodesic.New()
	r, _, lineIDs := memory.NewReferenceMap(kernel)

	edge1, _ := r.GetLine(lineIDs[1])
	edge17, _ := r.GetLine(lineIDs[17])

	zero := 0.0
	lrp1 := openlr.LocationReferencePoint{
		Lon: refNode0.Lon, Lat: refNode0.Lat,
		FRC: openlr.FRC(edge1.FRC()), FOW: openlr.FOWSingleCarriageway,
		Bearing:              kernel.Bearing(refNode0, refNode2),
		LowestFRCToNextPoint: frcPtr(openlr.FRC7),
		DistanceToNext:       &zero,
	}
	lrp2 := openlr.LocationReferencePoint{
		Lon: refNode13.Lon, Lat: refNode13.Lat,
		FRC: openlr.FRC(edge17.FRC()), FOW: openlr.FOWSingleCarriageway,
		Bearing: kernel.Bearing(refNode13, maps.Coordinates{Lon: 13.425, Lat: 52.525}),
	}

	ref := openlr.LineLocationReference{Points: []openlr.LocationReferencePoint{lrp1, lrp2}}
	cfg := decoding.DefaultConfig()

	_, err := decoding.Decode(context.Background(), ref, r, cfg, nil, nil)
	if err == nil {
		t.Fatal("Decode() succeeded, want NoMatch")
	}
	if _, ok := err.(*decoding.ErrNoMatch); !ok {
		t.Errorf("Decode() error = %T (%v), want *decoding.ErrNoMatch", err, err)
	}
}

func TestDecodeLineLocationMidEdgeReference(t *testing.T) {
	kernel := geodesic.New()
	r, _, lineIDs := memory.NewReferenceMap(kernel)
	edge1, _ := r.GetLine(lineIDs[1])

	coordA := maps.Coordinates{Lon: 13.411, Lat: 52.525}
	coordB := maps.Coordinates{Lon: 13.413, Lat: 52.525}
	dnp := kernel.Distance(coordA, coordB)

	lrpA := openlr.LocationReferencePoint{
		Lon: coordA.Lon, Lat: coordA.Lat,
		FRC: openlr.FRC(edge1.FRC()), FOW: openlr.FOWSingleCarriageway,
		Bearing:              kernel.Bearing(refNode0, refNode2),
		LowestFRCToNextPoint: frcPtr(openlr.FRC1),
		DistanceToNext:       distPtr(dnp),
	}
	lrpB := openlr.LocationReferencePoint{
		Lon: coordB.Lon, Lat: coordB.Lat,
		FRC: openlr.FRC(edge1.FRC()), FOW: openlr.FOWSingleCarriageway,
		Bearing: kernel.Bearing(refNode2, refNode0),
	}

	ref := openlr.LineLocationReference{Points: []openlr.LocationReferencePoint{lrpA, lrpB}}
	cfg := decoding.DefaultConfig()

	result, err := decoding.Decode(context.Background(), ref, r, cfg, nil, nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	loc := result.(*decoding.LineLocation)

	lines := loc.Lines()
	if len(lines) != 1 || lines[0].LineID() != lineIDs[1] {
		t.Fatalf("Lines() = %v, want exactly [edge1]", lines)
	}

	coords := loc.Coordinates()
	if d := kernel.Distance(coords[0], coordA); d > 1.0 {
		t.Errorf("first coordinate %v is %v m from %v", coords[0], d, coordA)
	}
	if d := kernel.Distance(coords[len(coords)-1], coordB); d > 1.0 {
		t.Errorf("last coordinate %v is %v m from %v", coords[len(coords)-1], d, coordB)
	}
}

func TestDecodePointAlongLineInvalidOffsetFails(t *testing.T) {
	kernel := geodesic.New()
	r, _, lineIDs := memory.NewReferenceMap(kernel)
	lrps := straightPathLRPs(t, r, lineIDs, kernel)

	ref := openlr.PointAlongLineLocationReference{
		Points: [2]openlr.LocationReferencePoint{lrps[0], lrps[2]},
		POffs:  1.5,
	}
	lrp0 := ref.Points[0]
	lrp0.DistanceToNext = distPtr(*lrps[0].DistanceToNext + *lrps[1].DistanceToNext)
	lrp0.LowestFRCToNextPoint = frcPtr(openlr.FRC2)
	ref.Points[0] = lrp0

	cfg := decoding.DefaultConfig()
	_, err := decoding.Decode(context.Background(), ref, r, cfg, nil, nil)
	if err == nil {
		t.Fatal("Decode() succeeded, want OffsetExceedsPath")
	}
	if _, ok := err.(*decoding.ErrOffsetExceedsPath); !ok {
		t.Errorf("Decode() error = %T (%v), want *decoding.ErrOffsetExceedsPath", err, err)
	}
}

func TestDecodePoiWithAccessPointPassthrough(t *testing.T) {
	kernel := geodesic.New()
	r, _, lineIDs := memory.NewReferenceMap(kernel)
	lrps := straightPathLRPs(t, r, lineIDs, kernel)

	poiCoord := maps.Coordinates{Lon: 13.4199, Lat: 52.5301}
	ref := openlr.PoiWithAccessPointLocationReference{
		Points: [2]openlr.LocationReferencePoint{lrps[1], lrps[2]},
		POffs:  0.5,
		Lon:    poiCoord.Lon, Lat: poiCoord.Lat,
	}

	cfg := decoding.DefaultConfig()
	result, err := decoding.Decode(context.Background(), ref, r, cfg, nil, nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	poi, ok := result.(*decoding.PoiWithAccessPoint)
	if !ok {
		t.Fatalf("Decode() returned %T, want *decoding.PoiWithAccessPoint", result)
	}
	if poi.POI != poiCoord {
		t.Errorf("POI = %v, want raw input %v unchanged", poi.POI, poiCoord)
	}
}

func TestDecodeGeoCoordinateIsIdempotent(t *testing.T) {
	kernel := geodesic.New()
	r, _, _ := memory.NewReferenceMap(kernel)
	ref := openlr.GeoCoordinateLocationReference{Lon: 13.4199, Lat: 52.5301}

	result, err := decoding.Decode(context.Background(), ref, r, decoding.DefaultConfig(), nil, nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	coord, ok := result.(maps.Coordinates)
	if !ok {
		t.Fatalf("Decode() returned %T, want maps.Coordinates", result)
	}
	if coord.Lon != ref.Lon || coord.Lat != ref.Lat {
		t.Errorf("Decode() = %v, want verbatim %v", coord, maps.Coordinates{Lon: ref.Lon, Lat: ref.Lat})
	}
}

// TestDecodeReportsRealLRPsToObserver guards against AttemptedRoutes
// entries being recorded with a zero-value LRP pair instead of the real
// from/to LRPs being matched.
func TestDecodeReportsRealLRPsToObserver(t *testing.T) {
	kernel := geodesic.New()
	r, _, lineIDs := memory.NewReferenceMap(kernel)
	lrps := straightPathLRPs(t, r, lineIDs, kernel)

	ref := openlr.LineLocationReference{Points: lrps}
	cfg := decoding.DefaultConfig()
	obs := observer.NewSimpleObserver()

	if _, err := decoding.Decode(context.Background(), ref, r, cfg, obs, nil); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if len(obs.AttemptedRoutes) == 0 {
		t.Fatal("expected at least one attempted route to be recorded")
	}
	var zero openlr.LocationReferencePoint
	for i, attempt := range obs.AttemptedRoutes {
		if attempt.From == zero || attempt.To == zero {
			t.Errorf("AttemptedRoutes[%d] = {From: %v, To: %v}, want the real LRP pair, not a zero value", i, attempt.From, attempt.To)
		}
	}
}

// TestDecodeAcceptsConstructedReference exercises the validating
// construct.New* API end to end, instead of every test building the
// reference struct as a bare value literal.
func TestDecodeAcceptsConstructedReference(t *testing.T) {
	kernel := geodesic.New()
	r, _, lineIDs := memory.NewReferenceMap(kernel)
	lrps := straightPathLRPs(t, r, lineIDs, kernel)

	ref, err := openlr.NewLineLocationReference(lrps, 0, 0)
	if err != nil {
		t.Fatalf("NewLineLocationReference() error = %v", err)
	}

	cfg := decoding.DefaultConfig()
	result, err := decoding.Decode(context.Background(), ref, r, cfg, nil, nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	loc, ok := result.(*decoding.LineLocation)
	if !ok {
		t.Fatalf("Decode() returned %T, want *decoding.LineLocation", result)
	}
	if len(loc.Lines()) == 0 {
		t.Fatal("Lines() returned no edges")
	}
}

func TestDecodeZeroTimeoutFailsImmediately(t *testing.T) {
	kernel := geodesic.New()
	r, _, lineIDs := memory.NewReferenceMap(kernel)
	lrps := straightPathLRPs(t, r, lineIDs, kernel)

	ref := openlr.LineLocationReference{Points: lrps}
	cfg := decoding.DefaultConfig()
	cfg.Timeout = 0

	_, err := decoding.Decode(context.Background(), ref, r, cfg, nil, nil)
	if err == nil {
		t.Fatal("Decode() succeeded, want Timeout")
	}
	if _, ok := err.(*decoding.ErrTimeout); !ok {
		t.Errorf("Decode() error = %T (%v), want *decoding.ErrTimeout", err, err)
	}
}
