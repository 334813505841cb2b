// Package memory implements maps.MapReader as a plain in-memory graph,
// with spatial proximity queries backed by an rtreego R-tree. It is the
// map used by this module's own decoder tests, and a reasonable starting
// point for building a real adapter.
package memory

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/google/uuid"

	"github.com/beetlebugorg/openlr/maps"
)

// Node is an in-memory maps.Node.
type Node struct {
	id          uuid.UUID
	coordinates maps.Coordinates
	out, in     []maps.Line
}

func (n *Node) NodeID() maps.NodeID           { return n.id }
func (n *Node) Coordinates() maps.Coordinates { return n.coordinates }
func (n *Node) OutgoingLines() []maps.Line    { return n.out }
func (n *Node) IncomingLines() []maps.Line    { return n.in }
func (n *Node) ConnectedLines() []maps.Line {
	seen := make(map[maps.LineID]bool, len(n.out)+len(n.in))
	var result []maps.Line
	for _, l := range append(append([]maps.Line{}, n.out...), n.in...) {
		if !seen[l.LineID()] {
			seen[l.LineID()] = true
			result = append(result, l)
		}
	}
	return result
}

// nodeSpatial adapts a *Node to rtreego.Spatial as a degenerate (point)
// rectangle.
type nodeSpatial struct{ node *Node }

func (s nodeSpatial) Bounds() rtreego.Rect {
	p := rtreego.Point{s.node.coordinates.Lon, s.node.coordinates.Lat}
	rect, _ := rtreego.NewRect(p, []float64{1e-9, 1e-9})
	return rect
}

// Line is an in-memory maps.Line.
type Line struct {
	id         uuid.UUID
	start, end *Node
	frc        maps.FRCLevel
	fow        maps.FOWCategory
	geometry   []maps.Coordinates
	length     float64
}

func (l *Line) LineID() maps.LineID           { return l.id }
func (l *Line) StartNode() maps.Node          { return l.start }
func (l *Line) EndNode() maps.Node            { return l.end }
func (l *Line) FRC() maps.FRCLevel            { return l.frc }
func (l *Line) FOW() maps.FOWCategory         { return l.fow }
func (l *Line) Geometry() []maps.Coordinates  { return l.geometry }
func (l *Line) Length() float64               { return l.length }

// lineSpatial adapts a *Line to rtreego.Spatial via its bounding box.
type lineSpatial struct{ line *Line }

func (s lineSpatial) Bounds() rtreego.Rect {
	minLon, minLat := s.line.geometry[0].Lon, s.line.geometry[0].Lat
	maxLon, maxLat := minLon, minLat
	for _, c := range s.line.geometry[1:] {
		if c.Lon < minLon {
			minLon = c.Lon
		}
		if c.Lon > maxLon {
			maxLon = c.Lon
		}
		if c.Lat < minLat {
			minLat = c.Lat
		}
		if c.Lat > maxLat {
			maxLat = c.Lat
		}
	}
	const epsilon = 1e-9
	p := rtreego.Point{minLon, minLat}
	lengths := []float64{maxLon - minLon + epsilon, maxLat - minLat + epsilon}
	rect, _ := rtreego.NewRect(p, lengths)
	return rect
}

// Reader is an in-memory maps.MapReader.
type Reader struct {
	kernel    maps.Kernel
	nodes     map[uuid.UUID]*Node
	lines     map[uuid.UUID]*Line
	nodeIndex *rtreego.Rtree
	lineIndex *rtreego.Rtree
}

// New returns an empty Reader using kernel for length computation.
func New(kernel maps.Kernel) *Reader {
	return &Reader{
		kernel:    kernel,
		nodes:     make(map[uuid.UUID]*Node),
		lines:     make(map[uuid.UUID]*Line),
		nodeIndex: rtreego.NewTree(2, 25, 50),
		lineIndex: rtreego.NewTree(2, 25, 50),
	}
}

// AddNode inserts a node at coord and returns its id.
func (r *Reader) AddNode(coord maps.Coordinates) uuid.UUID {
	id := uuid.New()
	n := &Node{id: id, coordinates: coord}
	r.nodes[id] = n
	r.nodeIndex.Insert(nodeSpatial{n})
	return id
}

// AddLine inserts a directed edge from startID to endID along geometry,
// with the given FRC/FOW, and returns its id. geometry's first and last
// points must match the start/end node coordinates.
func (r *Reader) AddLine(startID, endID uuid.UUID, frc maps.FRCLevel, fow maps.FOWCategory, geometry []maps.Coordinates) uuid.UUID {
	start, end := r.nodes[startID], r.nodes[endID]
	id := uuid.New()
	l := &Line{
		id: id, start: start, end: end, frc: frc, fow: fow,
		geometry: geometry, length: r.kernel.LineStringLength(geometry),
	}
	r.lines[id] = l
	r.lineIndex.Insert(lineSpatial{l})
	start.out = append(start.out, l)
	end.in = append(end.in, l)
	return id
}

func (r *Reader) GetLine(id maps.LineID) (maps.Line, bool) {
	l, ok := r.lines[id.(uuid.UUID)]
	return l, ok
}

func (r *Reader) GetNode(id maps.NodeID) (maps.Node, bool) {
	n, ok := r.nodes[id.(uuid.UUID)]
	return n, ok
}

func (r *Reader) GetLines() []maps.Line {
	result := make([]maps.Line, 0, len(r.lines))
	for _, l := range r.lines {
		result = append(result, l)
	}
	return result
}

func (r *Reader) GetNodes() []maps.Node {
	result := make([]maps.Node, 0, len(r.nodes))
	for _, n := range r.nodes {
		result = append(result, n)
	}
	return result
}

func (r *Reader) LineCount() int { return len(r.lines) }
func (r *Reader) NodeCount() int { return len(r.nodes) }

// latMarginDegrees and lonMarginDegrees approximate a search radius (in
// meters) as a degree margin around coord, generous enough not to miss
// true matches; the actual distance filtering still happens against the
// real kernel below. Longitude degrees shrink toward the poles (1° lon ≈
// 111_000*cos(lat) meters), so the longitude margin is widened by
// dividing by cos(lat) rather than reusing the latitude margin directly;
// near the poles that factor is clamped to keep the margin finite.
func latMarginDegrees(distMeters float64) float64 {
	const metersPerDegree = 111_000.0
	return distMeters / metersPerDegree
}

func lonMarginDegrees(distMeters, latDegrees float64) float64 {
	cosLat := math.Cos(latDegrees * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	return latMarginDegrees(distMeters) / cosLat
}

func (r *Reader) FindNodesCloseTo(coord maps.Coordinates, distMeters float64) []maps.Node {
	latMargin := latMarginDegrees(distMeters)
	lonMargin := lonMarginDegrees(distMeters, coord.Lat)
	p := rtreego.Point{coord.Lon - lonMargin, coord.Lat - latMargin}
	rect, _ := rtreego.NewRect(p, []float64{2 * lonMargin, 2 * latMargin})

	var result []maps.Node
	for _, spatial := range r.nodeIndex.SearchIntersect(rect) {
		n := spatial.(nodeSpatial).node
		if r.kernel.Distance(coord, n.coordinates) <= distMeters {
			result = append(result, n)
		}
	}
	return result
}

func (r *Reader) FindLinesCloseTo(coord maps.Coordinates, distMeters float64, filter func(maps.Line) bool) []maps.Line {
	latMargin := latMarginDegrees(distMeters)
	lonMargin := lonMarginDegrees(distMeters, coord.Lat)
	p := rtreego.Point{coord.Lon - lonMargin, coord.Lat - latMargin}
	rect, _ := rtreego.NewRect(p, []float64{2 * lonMargin, 2 * latMargin})

	var result []maps.Line
	for _, spatial := range r.lineIndex.SearchIntersect(rect) {
		l := spatial.(lineSpatial).line
		if filter != nil && !filter(l) {
			continue
		}
		if lineDistance(r.kernel, l.geometry, coord) <= distMeters {
			result = append(result, l)
		}
	}
	return result
}

// lineDistance returns the minimum distance from coord to line, taken over
// the closest point of each segment. That closest point is found in the raw
// lon/lat plane and its distance to coord then measured with kernel (real
// adapters typically delegate this to a database's native distance-to-
// geometry function, as examplemap/postgis does with ST_DWithin).
func lineDistance(kernel maps.Kernel, line []maps.Coordinates, coord maps.Coordinates) float64 {
	best := kernel.Distance(line[0], coord)
	for i := 0; i+1 < len(line); i++ {
		a, b := line[i], line[i+1]
		dx, dy := b.Lon-a.Lon, b.Lat-a.Lat
		t := 0.0
		if lenSq := dx*dx + dy*dy; lenSq > 0 {
			t = math.Max(0, math.Min(1, ((coord.Lon-a.Lon)*dx+(coord.Lat-a.Lat)*dy)/lenSq))
		}
		closest := maps.Coordinates{Lon: a.Lon + dx*t, Lat: a.Lat + dy*t}
		if d := kernel.Distance(closest, coord); d < best {
			best = d
		}
	}
	return best
}
