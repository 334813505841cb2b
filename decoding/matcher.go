package decoding

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/beetlebugorg/openlr"
	"github.com/beetlebugorg/openlr/maps"
	"github.com/beetlebugorg/openlr/maps/astar"
	"github.com/beetlebugorg/openlr/observer"
)

// matchContext bundles everything a matchTail frame needs that does not
// change across the recursion, so each frame's signature stays short.
type matchContext struct {
	ctx      context.Context
	deadline time.Time
	cfg      Config
	kernel   maps.Kernel
	reader   maps.MapReader
	cache    *nodeValidityCache
	log      *zap.Logger
	obs      observer.DecoderObserver

	// basemapFilter, when non-nil, is applied to every line considered as
	// a candidate (SPEC_FULL.md §6's basemap_filter): a line for which it
	// returns false is never nominated, regardless of score.
	basemapFilter func(maps.Line) bool
}

func (m *matchContext) expired() bool {
	if !m.deadline.IsZero() && time.Now().After(m.deadline) {
		return true
	}
	return m.ctx.Err() != nil
}

type candidatePair struct {
	from, to Candidate
}

// dereferencePath decodes the full LRP path into an ordered list of
// routes, without applying the reference's start/end offsets.
func dereferencePath(mc *matchContext, lrps []openlr.LocationReferencePoint) ([]Route, error) {
	if mc.expired() {
		return nil, &ErrTimeout{}
	}

	first := lrps[0]
	firstCandidates := nominateCandidates(mc.cfg, mc.kernel, mc.reader, mc.cache, first, len(lrps) == 1, mc.basemapFilter)
	if mc.obs != nil {
		mc.obs.OnCandidatesFound(first, firstCandidates)
	}
	if len(firstCandidates) == 0 {
		return nil, &ErrNoFirstCandidates{}
	}

	return matchTail(mc, 0, first, firstCandidates, lrps[1:])
}

// matchTail searches for the rest of the line location: every candidate
// of `current` is paired with every candidate of `tail[0]`, best scores
// first, until a pair's route matches the expected distance to next
// point. On acceptance it recurses for the remainder of tail, backtracking
// to the next pair if the recursive call fails.
func matchTail(
	mc *matchContext,
	lrpIndex int,
	current openlr.LocationReferencePoint,
	candidates []Candidate,
	tail []openlr.LocationReferencePoint,
) ([]Route, error) {
	if mc.expired() {
		return nil, &ErrTimeout{}
	}

	isLastTransition := len(tail) == 1
	next := tail[0]

	dnp := 0.0
	if current.DistanceToNext != nil {
		dnp = *current.DistanceToNext
	}
	minlen := (1-mc.cfg.MaxDNPDeviation)*dnp - mc.cfg.ToleratedDNPDev
	maxlen := (1+mc.cfg.MaxDNPDeviation)*dnp + mc.cfg.ToleratedDNPDev
	if minlen < 0 {
		minlen = 0
	}

	lfrc := openlr.FRC7
	if current.LowestFRCToNextPoint != nil {
		if tolerated, ok := mc.cfg.ToleratedLFRC[*current.LowestFRCToNextPoint]; ok {
			lfrc = tolerated
		} else {
			lfrc = *current.LowestFRCToNextPoint
		}
	}

	nextCandidates := nominateCandidates(mc.cfg, mc.kernel, mc.reader, mc.cache, next, isLastTransition, mc.basemapFilter)
	if mc.obs != nil {
		mc.obs.OnCandidatesFound(next, nextCandidates)
	}
	if isLastTransition && len(nextCandidates) == 0 {
		return nil, &ErrNoLastCandidates{}
	}

	pairs := cartesianPairsByScore(candidates, nextCandidates)

	for _, pair := range pairs {
		if mc.expired() {
			return nil, &ErrTimeout{}
		}

		route, ok := handleCandidatePair(mc, current, next, pair, lfrc, minlen, maxlen)
		if !ok {
			continue
		}

		if isLastTransition {
			return []Route{route}, nil
		}

		rest, err := matchTail(mc, lrpIndex+1, next, []Candidate{pair.to}, tail[1:])
		if err != nil {
			mc.log.Debug("backtracking after downstream match failure",
				zap.Int("lrp_index", lrpIndex), zap.Error(err))
			continue
		}
		return append([]Route{route}, rest...), nil
	}

	if mc.obs != nil {
		mc.obs.OnMatchingFail(current, next, candidates, nextCandidates, "no candidate pair produced an acceptable route")
	}
	return nil, &ErrNoMatch{LRPIndex: lrpIndex}
}

// handleCandidatePair attempts a route between one candidate pair and
// checks it against the accepted length window. current/next are the LRP
// pair this candidate pair is being matched against, reported verbatim to
// the observer so AttemptedRoutes[i].From/To identify the real LRPs.
func handleCandidatePair(mc *matchContext, current, next openlr.LocationReferencePoint, pair candidatePair, lfrc openlr.FRC, minlen, maxlen float64) (Route, bool) {
	route, err := candidateRoute(mc, pair.from, pair.to, lfrc, maxlen)
	if err != nil {
		mc.log.Debug("no path for candidate pair",
			zap.Any("from_line", pair.from.Line.LineID()), zap.Any("to_line", pair.to.Line.LineID()), zap.Error(err))
		if mc.obs != nil {
			mc.obs.OnRouteFail(current, next, pair.from.Line, pair.to.Line, err.Error())
		}
		return Route{}, false
	}

	length := route.Length()
	if length < minlen || length > maxlen {
		mc.log.Debug("route length outside DNP window",
			zap.Float64("length", length), zap.Float64("minlen", minlen), zap.Float64("maxlen", maxlen))
		if mc.obs != nil {
			mc.obs.OnRouteFail(current, next, pair.from.Line, pair.to.Line, "route length outside DNP window")
		}
		return Route{}, false
	}

	if mc.obs != nil {
		mc.obs.OnRouteSuccess(current, next, pair.from.Line, pair.to.Line, route.PathInbetween)
	}
	return route, true
}

// candidateRoute returns the route between two candidates: a direct
// single-edge segment if they share a line in the right order, otherwise
// an A*-routed path between the intervening nodes.
func candidateRoute(mc *matchContext, from, to Candidate, lfrc openlr.FRC, maxlen float64) (Route, error) {
	if from.Line.LineID() == to.Line.LineID() && from.RelativeOffset <= to.RelativeOffset {
		return Route{Start: from.PointOnLine, End: to.PointOnLine}, nil
	}

	filter := func(l maps.Line) bool { return openlr.FRC(l.FRC()) <= lfrc }
	path, err := astar.ShortestPath(from.Line.EndNode(), to.Line.StartNode(), mc.kernel, filter, maxlen)
	if err != nil {
		return Route{}, fmt.Errorf("routing candidate pair: %w", err)
	}
	return Route{Start: from.PointOnLine, PathInbetween: path, End: to.PointOnLine}, nil
}

// cartesianPairsByScore forms the Cartesian product of two candidate
// lists and sorts it descending by the sum of pair scores.
func cartesianPairsByScore(from, to []Candidate) []candidatePair {
	pairs := make([]candidatePair, 0, len(from)*len(to))
	for _, f := range from {
		for _, t := range to {
			pairs = append(pairs, candidatePair{from: f, to: t})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].from.Score+pairs[i].to.Score > pairs[j].from.Score+pairs[j].to.Score
	})
	return pairs
}
