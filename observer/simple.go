package observer

import "github.com/beetlebugorg/openlr"

// AttemptedRoute records one candidate-pair routing attempt, successful
// or not.
type AttemptedRoute struct {
	From, To           openlr.LocationReferencePoint
	FromLine, ToLine   any
	Success            bool
	Path               any
	Reason             string
}

// SimpleObserver is a reference DecoderObserver that records everything
// it sees, for test assertions and debugging.
type SimpleObserver struct {
	Candidates      map[openlr.LocationReferencePoint]any
	AttemptedRoutes []AttemptedRoute
	MatchingFails   []AttemptedRoute
}

// NewSimpleObserver returns an empty SimpleObserver.
func NewSimpleObserver() *SimpleObserver {
	return &SimpleObserver{Candidates: make(map[openlr.LocationReferencePoint]any)}
}

func (o *SimpleObserver) OnCandidatesFound(lrp openlr.LocationReferencePoint, candidates any) {
	o.Candidates[lrp] = candidates
}

func (o *SimpleObserver) OnCandidateRejected(openlr.LocationReferencePoint, string) {}

func (o *SimpleObserver) OnRouteSuccess(from, to openlr.LocationReferencePoint, fromLine, toLine any, path any) {
	o.AttemptedRoutes = append(o.AttemptedRoutes, AttemptedRoute{
		From: from, To: to, FromLine: fromLine, ToLine: toLine, Success: true, Path: path,
	})
}

func (o *SimpleObserver) OnRouteFail(from, to openlr.LocationReferencePoint, fromLine, toLine any, reason string) {
	o.AttemptedRoutes = append(o.AttemptedRoutes, AttemptedRoute{
		From: from, To: to, FromLine: fromLine, ToLine: toLine, Success: false, Reason: reason,
	})
}

func (o *SimpleObserver) OnMatchingFail(from, to openlr.LocationReferencePoint, fromCandidates, toCandidates any, reason string) {
	o.MatchingFails = append(o.MatchingFails, AttemptedRoute{
		From: from, To: to, FromLine: fromCandidates, ToLine: toCandidates, Reason: reason,
	})
}
