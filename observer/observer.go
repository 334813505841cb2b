// Package observer defines an optional side-channel that lets a caller
// trace the decisions the decoder makes while matching a location
// reference, without changing the decode result itself.
package observer

import "github.com/beetlebugorg/openlr"

// DecoderObserver receives best-effort notifications about decode
// decisions. Implementations must not panic: the decoder treats
// observation as fire-and-forget and does not recover from it.
//
// CandidateT, LineT are left as `any` rather than imported from package
// decoding, since decoding imports observer — a concrete Candidate/Line
// value is passed, and an observer that cares about the details type-
// asserts it.
type DecoderObserver interface {
	// OnCandidatesFound is called each time candidates are generated for
	// an LRP, with its surviving, scored candidates. When the matcher
	// backtracks, the same LRP can be reported more than once.
	OnCandidatesFound(lrp openlr.LocationReferencePoint, candidates any)

	// OnCandidateRejected takes an LRP and a short human-readable reason
	// for a dropped candidate. Package decoding does not call it: the
	// candidates it drops during generation are not reported one by one.
	OnCandidateRejected(lrp openlr.LocationReferencePoint, reason string)

	// OnRouteSuccess is called when a candidate pair's route is accepted.
	OnRouteSuccess(from, to openlr.LocationReferencePoint, fromLine, toLine any, path any)

	// OnRouteFail is called when a candidate pair's route is rejected,
	// with a short human-readable reason.
	OnRouteFail(from, to openlr.LocationReferencePoint, fromLine, toLine any, reason string)

	// OnMatchingFail is called when every candidate pair between two LRPs
	// has been exhausted without an accepted route.
	OnMatchingFail(from, to openlr.LocationReferencePoint, fromCandidates, toCandidates any, reason string)
}
