package openlr

import "fmt"

// ErrMalformedReference is returned by the New* constructors when an LRP
// list violates the physical format's own rule that only the terminal LRP
// may omit LFRCNP and DNP.
type ErrMalformedReference struct {
	Index  int
	Reason string
}

func (e *ErrMalformedReference) Error() string {
	return fmt.Sprintf("malformed location reference at point %d: %s", e.Index, e.Reason)
}

// validatePoints checks that every LRP but the last carries both LFRCNP
// and DNP, and the last carries neither. The source library this package
// is derived from tolerates either being present on the terminal LRP; this
// implementation rejects it, per the decision recorded in SPEC_FULL.md §9.
func validatePoints(points []LocationReferencePoint) error {
	last := len(points) - 1
	for i, p := range points {
		if i == last {
			if !p.IsTerminal() {
				return &ErrMalformedReference{Index: i, Reason: "terminal LRP must carry neither LowestFRCToNextPoint nor DistanceToNext"}
			}
			continue
		}
		if p.IsTerminal() {
			return &ErrMalformedReference{Index: i, Reason: "non-terminal LRP must carry both LowestFRCToNextPoint and DistanceToNext"}
		}
	}
	return nil
}

// NewLineLocationReference constructs a LineLocationReference, validating
// that LFRCNP/DNP presence matches each point's position in the path.
func NewLineLocationReference(points []LocationReferencePoint, poffs, noffs float64) (*LineLocationReference, error) {
	if len(points) < 2 {
		return nil, &ErrMalformedReference{Index: 0, Reason: "a line location reference needs at least two points"}
	}
	if err := validatePoints(points); err != nil {
		return nil, err
	}
	if poffs < 0 || poffs >= 1 || noffs < 0 || noffs >= 1 {
		return nil, &ErrMalformedReference{Index: 0, Reason: "poffs and noffs must lie in [0, 1)"}
	}
	return &LineLocationReference{Points: points, POffs: poffs, NOffs: noffs}, nil
}

// NewPointAlongLineLocationReference constructs a PointAlongLineLocationReference.
func NewPointAlongLineLocationReference(points [2]LocationReferencePoint, poffs float64, orientation Orientation, side SideOfRoad) (*PointAlongLineLocationReference, error) {
	if err := validatePoints(points[:]); err != nil {
		return nil, err
	}
	if poffs < 0 || poffs >= 1 {
		return nil, &ErrMalformedReference{Index: 0, Reason: "poffs must lie in [0, 1)"}
	}
	return &PointAlongLineLocationReference{
		Points: points, POffs: poffs, Orientation: orientation, SideOfRoad: side,
	}, nil
}

// NewPoiWithAccessPointLocationReference constructs a PoiWithAccessPointLocationReference.
func NewPoiWithAccessPointLocationReference(points [2]LocationReferencePoint, poffs float64, orientation Orientation, side SideOfRoad, lon, lat float64) (*PoiWithAccessPointLocationReference, error) {
	if err := validatePoints(points[:]); err != nil {
		return nil, err
	}
	if poffs < 0 || poffs >= 1 {
		return nil, &ErrMalformedReference{Index: 0, Reason: "poffs must lie in [0, 1)"}
	}
	return &PoiWithAccessPointLocationReference{
		Points: points, POffs: poffs, Orientation: orientation, SideOfRoad: side, Lon: lon, Lat: lat,
	}, nil
}
