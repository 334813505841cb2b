package postgis

import (
	"github.com/beetlebugorg/openlr/maps"
)

// lineRow is the flat row shape scanned out of the lines table; geometry
// arrives as WKT text and is parsed separately (see geometry.go).
type lineRow struct {
	LineID      int64   `db:"line_id"`
	StartNode   int64   `db:"startnode"`
	EndNode     int64   `db:"endnode"`
	FRC         int     `db:"frc"`
	FOW         int     `db:"fow"`
	GeometryWKT string  `db:"geometry_wkt"`
	Length      float64 `db:"length_m"`
}

// Line is a fully-loaded maps.Line backed by a single query result; unlike
// the Python original's lazily-populated properties, a Line here is an
// immutable value fetched once and never re-queried.
type Line struct {
	id       int64
	start    int64
	end      int64
	frc      maps.FRCLevel
	fow      maps.FOWCategory
	geometry []maps.Coordinates
	length   float64
	reader   *Reader
}

func (l *Line) LineID() maps.LineID          { return l.id }
func (l *Line) FRC() maps.FRCLevel           { return l.frc }
func (l *Line) FOW() maps.FOWCategory        { return l.fow }
func (l *Line) Geometry() []maps.Coordinates { return l.geometry }
func (l *Line) Length() float64              { return l.length }

func (l *Line) StartNode() maps.Node {
	n, _ := l.reader.GetNode(l.start)
	return n
}

func (l *Line) EndNode() maps.Node {
	n, _ := l.reader.GetNode(l.end)
	return n
}

// nodeRow is the flat row shape scanned out of the nodes table.
type nodeRow struct {
	NodeID int64   `db:"node_id"`
	Lon    float64 `db:"lon"`
	Lat    float64 `db:"lat"`
}

// Node is a fully-loaded maps.Node. OutgoingLines/IncomingLines query the
// lines table on demand rather than caching the result on the struct,
// since a Node value is meant to be cheap and short-lived.
type Node struct {
	id     int64
	coord  maps.Coordinates
	reader *Reader
}

func (n *Node) NodeID() maps.NodeID           { return n.id }
func (n *Node) Coordinates() maps.Coordinates { return n.coord }

func (n *Node) OutgoingLines() []maps.Line {
	lines, _ := n.reader.linesWhere("startnode", n.id)
	return lines
}

func (n *Node) IncomingLines() []maps.Line {
	lines, _ := n.reader.linesWhere("endnode", n.id)
	return lines
}

func (n *Node) ConnectedLines() []maps.Line {
	seen := make(map[maps.LineID]bool)
	var result []maps.Line
	for _, l := range append(n.OutgoingLines(), n.IncomingLines()...) {
		if !seen[l.LineID()] {
			seen[l.LineID()] = true
			result = append(result, l)
		}
	}
	return result
}
