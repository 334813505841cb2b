package astar

import (
	"testing"

	"github.com/beetlebugorg/openlr/maps"
)

// testNode/testLine form a minimal in-memory graph for exercising the
// search without depending on any MapReader implementation.
type testNode struct {
	id    int
	coord maps.Coordinates
	out   []*testLine
}

func (n *testNode) NodeID() maps.NodeID            { return n.id }
func (n *testNode) Coordinates() maps.Coordinates  { return n.coord }
func (n *testNode) OutgoingLines() []maps.Line {
	lines := make([]maps.Line, len(n.out))
	for i, l := range n.out {
		lines[i] = l
	}
	return lines
}
func (n *testNode) IncomingLines() []maps.Line  { return nil }
func (n *testNode) ConnectedLines() []maps.Line { return n.OutgoingLines() }

type testLine struct {
	id         int
	start, end *testNode
	length     float64
	frc        maps.FRCLevel
}

func (l *testLine) LineID() maps.LineID          { return l.id }
func (l *testLine) StartNode() maps.Node         { return l.start }
func (l *testLine) EndNode() maps.Node           { return l.end }
func (l *testLine) FRC() maps.FRCLevel           { return l.frc }
func (l *testLine) FOW() maps.FOWCategory        { return 0 }
func (l *testLine) Geometry() []maps.Coordinates { return []maps.Coordinates{l.start.coord, l.end.coord} }
func (l *testLine) Length() float64              { return l.length }

type flatKernel struct{}

func (flatKernel) Distance(a, b maps.Coordinates) float64 {
	dx, dy := b.Lon-a.Lon, b.Lat-a.Lat
	return dx*dx + dy*dy // not a true metric, fine for this test's heuristic use
}
func (flatKernel) Bearing(a, b maps.Coordinates) float64 { return 0 }
func (flatKernel) Interpolate(line []maps.Coordinates, frac float64) maps.Coordinates {
	return maps.Coordinates{}
}
func (flatKernel) Extrapolate(c maps.Coordinates, bearingDeg, dist float64) maps.Coordinates {
	return maps.Coordinates{}
}
func (flatKernel) SplitLine(line []maps.Coordinates, frac float64) ([]maps.Coordinates, []maps.Coordinates) {
	return nil, nil
}
func (flatKernel) LineStringLength(line []maps.Coordinates) float64 { return 0 }

// buildLinearGraph builds n1 -> n2 -> n3, with an alternate direct but
// higher-FRC n1 -> n3 shortcut.
func buildLinearGraph() (n1, n2, n3 *testNode) {
	n1 = &testNode{id: 1, coord: maps.Coordinates{Lon: 0, Lat: 0}}
	n2 = &testNode{id: 2, coord: maps.Coordinates{Lon: 1, Lat: 0}}
	n3 = &testNode{id: 3, coord: maps.Coordinates{Lon: 2, Lat: 0}}

	n1.out = []*testLine{{id: 12, start: n1, end: n2, length: 100, frc: maps.FRCLevel(3)}}
	n2.out = []*testLine{{id: 23, start: n2, end: n3, length: 100, frc: maps.FRCLevel(3)}}
	n1.out = append(n1.out, &testLine{id: 13, start: n1, end: n3, length: 150, frc: maps.FRCLevel(7)})
	return
}

func TestShortestPathFindsDirectRoute(t *testing.T) {
	n1, _, n3 := buildLinearGraph()
	path, err := ShortestPath(n1, n3, flatKernel{}, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(path) != 1 || path[0].LineID() != 13 {
		t.Errorf("expected single direct hop, got %v", path)
	}
}

func TestShortestPathHonorsLineFilter(t *testing.T) {
	n1, n2, n3 := buildLinearGraph()
	filter := func(l maps.Line) bool { return l.FRC() <= maps.FRCLevel(3) }
	path, err := ShortestPath(n1, n3, flatKernel{}, filter, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(path) != 2 || path[0].EndNode().NodeID() != n2.NodeID() {
		t.Errorf("expected two-hop path via n2, got %v", path)
	}
}

func TestShortestPathSameNodeIsEmpty(t *testing.T) {
	n1, _, _ := buildLinearGraph()
	path, err := ShortestPath(n1, n1, flatKernel{}, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(path) != 0 {
		t.Errorf("expected empty path for start == end, got %v", path)
	}
}

func TestShortestPathNotFound(t *testing.T) {
	n1, _, n3 := buildLinearGraph()
	isolated := &testNode{id: 99, coord: maps.Coordinates{Lon: 99, Lat: 99}}
	_, err := ShortestPath(n1, isolated, flatKernel{}, nil, 0)
	if err == nil {
		t.Fatal("expected ErrPathNotFound")
	}
	var target *ErrPathNotFound
	if !asErrPathNotFound(err, &target) {
		t.Errorf("expected *ErrPathNotFound, got %T", err)
	}
	_ = n3
}

func asErrPathNotFound(err error, target **ErrPathNotFound) bool {
	e, ok := err.(*ErrPathNotFound)
	if ok {
		*target = e
	}
	return ok
}

func TestShortestPathRespectsMaxLen(t *testing.T) {
	n1, _, n3 := buildLinearGraph()
	_, err := ShortestPath(n1, n3, flatKernel{}, nil, 10)
	if err == nil {
		t.Fatal("expected path to be rejected for exceeding maxLen")
	}
}
