package decoding

import "fmt"

// ErrUnsupportedReferenceKind is returned when Decode is given a
// LocationReference variant it does not handle.
type ErrUnsupportedReferenceKind struct {
	Reference any
}

func (e *ErrUnsupportedReferenceKind) Error() string {
	return fmt.Sprintf("unsupported location reference kind: %T", e.Reference)
}

// ErrNoFirstCandidates is returned when no candidate survives for the
// first LRP of a path.
type ErrNoFirstCandidates struct{}

func (e *ErrNoFirstCandidates) Error() string {
	return "no candidates found for the first location reference point"
}

// ErrNoLastCandidates is returned when no candidate survives for the
// terminal LRP of a path.
type ErrNoLastCandidates struct{}

func (e *ErrNoLastCandidates) Error() string {
	return "no candidates found for the last location reference point"
}

// ErrNoMatch is returned when every candidate pair for some LRP transition
// was exhausted, including through backtracking, without an accepted
// route.
type ErrNoMatch struct {
	LRPIndex int
}

func (e *ErrNoMatch) Error() string {
	return fmt.Sprintf("no matching route found for location reference point %d", e.LRPIndex)
}

// ErrOffsetExceedsPath is returned when a requested start/end offset
// consumes the entire matched path.
type ErrOffsetExceedsPath struct{}

func (e *ErrOffsetExceedsPath) Error() string {
	return "offset exceeds the length of the matched path"
}

// ErrTimeout is returned when the configured wall-clock decode budget is
// exceeded.
type ErrTimeout struct{}

func (e *ErrTimeout) Error() string {
	return "decode exceeded its configured timeout"
}
