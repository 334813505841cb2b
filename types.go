package openlr

import "fmt"

// FRC is the Functional Road Class: an ordered 8-level importance ranking,
// where FRC0 is the highest (most important) class.
type FRC int

// Functional Road Class values, per the OpenLR physical format.
const (
	FRC0 FRC = iota
	FRC1
	FRC2
	FRC3
	FRC4
	FRC5
	FRC6
	FRC7
)

func (f FRC) String() string {
	if f < FRC0 || f > FRC7 {
		return fmt.Sprintf("FRC(%d)", int(f))
	}
	return fmt.Sprintf("FRC%d", int(f))
}

// Valid reports whether f is one of the eight defined FRC levels.
func (f FRC) Valid() bool {
	return f >= FRC0 && f <= FRC7
}

// FOW is the Form Of Way: a categorical description of a road's physical
// shape, per the OpenLR physical format.
type FOW int

// Form Of Way values.
const (
	FOWUndefined FOW = iota
	FOWMotorway
	FOWMultipleCarriageway
	FOWSingleCarriageway
	FOWRoundabout
	FOWTrafficSquare
	FOWSliproad
	FOWOther
)

var fowNames = [...]string{
	"Undefined", "Motorway", "MultipleCarriageway", "SingleCarriageway",
	"Roundabout", "TrafficSquare", "Sliproad", "Other",
}

func (f FOW) String() string {
	if f < FOWUndefined || int(f) >= len(fowNames) {
		return fmt.Sprintf("FOW(%d)", int(f))
	}
	return fowNames[f]
}

// Valid reports whether f is one of the eight defined FOW categories.
func (f FOW) Valid() bool {
	return f >= FOWUndefined && int(f) < len(fowNames)
}

// LocationReferencePoint is a single anchor of a location reference: a
// coordinate plus the expected road attributes the encoder observed there.
//
// LowestFRCToNextPoint and DistanceToNext are only present on non-terminal
// LRPs (every LRP except the last one in a path). A terminal LRP carries
// neither, matching the physical format's own rule that the last point has
// no "next point" to describe — see the Open Question in the design notes.
type LocationReferencePoint struct {
	Lon, Lat float64

	// FRC is the functional road class the encoder expects at this point.
	FRC FRC
	// FOW is the form of way the encoder expects at this point.
	FOW FOW
	// Bearing is the compass angle, in degrees [0, 360), of a short
	// prefix of the outgoing (or, for the terminal LRP, incoming) edge.
	Bearing float64

	// LowestFRCToNextPoint is the weakest road class the encoder allows
	// on the path to the next LRP. nil on the terminal LRP.
	LowestFRCToNextPoint *FRC
	// DistanceToNext is the expected path length, in meters, to the next
	// LRP. nil on the terminal LRP.
	DistanceToNext *float64
}

// IsTerminal reports whether this LRP carries neither LFRCNP nor DNP, i.e.
// whether it is (or claims to be) the last point of a path.
func (p LocationReferencePoint) IsTerminal() bool {
	return p.LowestFRCToNextPoint == nil && p.DistanceToNext == nil
}

// LocationReference is the sum type of the four kinds of location
// reference this module can decode. Only the types declared in this
// package implement it.
type LocationReference interface {
	isLocationReference()
}

// LineLocationReference is a path reference: an ordered list of at least
// two LRPs, plus relative offsets trimming the start/end of the
// reconstructed path.
type LineLocationReference struct {
	Points []LocationReferencePoint
	// POffs is the positive (start) offset, as a fraction of the first
	// LRP's DistanceToNext, in [0, 1).
	POffs float64
	// NOffs is the negative (end) offset, as a fraction of the last
	// segment's DNP, in [0, 1).
	NOffs float64
}

func (LineLocationReference) isLocationReference() {}

// Orientation describes the direction of travel a point-along-line or POI
// location is associated with, relative to the digitization direction of
// the underlying road.
type Orientation int

const (
	OrientationNoDirection Orientation = iota
	OrientationWithDigitization
	OrientationAgainstDigitization
	OrientationBothDirections
)

// SideOfRoad describes which side of the referenced road a point lies on.
type SideOfRoad int

const (
	SideOfRoadUndefined SideOfRoad = iota
	SideOfRoadRight
	SideOfRoadLeft
	SideOfRoadBoth
)

// PointAlongLineLocationReference is a path reference of exactly one
// segment (two LRPs) plus a positive offset locating a point along it.
type PointAlongLineLocationReference struct {
	Points      [2]LocationReferencePoint
	POffs       float64
	Orientation Orientation
	SideOfRoad  SideOfRoad
}

func (PointAlongLineLocationReference) isLocationReference() {}

// PoiWithAccessPointLocationReference is a PointAlongLineLocationReference
// plus the absolute coordinate of the point of interest itself.
type PoiWithAccessPointLocationReference struct {
	Points      [2]LocationReferencePoint
	POffs       float64
	Orientation Orientation
	SideOfRoad  SideOfRoad
	Lon, Lat    float64
}

func (PoiWithAccessPointLocationReference) isLocationReference() {}

// GeoCoordinateLocationReference is a single coordinate, passed through
// without any map matching.
type GeoCoordinateLocationReference struct {
	Lon, Lat float64
}

func (GeoCoordinateLocationReference) isLocationReference() {}
