package decoding

import (
	"container/list"
	"sync"

	"github.com/beetlebugorg/openlr"
	"github.com/beetlebugorg/openlr/maps"
)

// nodeValidityCache memoizes whether a node counts as a "real" junction
// (see isValidNode), with bounded LRU eviction. A node's validity is a
// pure function of its adjacent edges, so once computed for a given
// MapReader it never changes — caching it only trades memory for the
// repeated OutgoingLines/IncomingLines walks that candidate generation
// would otherwise redo for the same node across multiple LRPs.
type nodeValidityCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[maps.NodeID]*list.Element
	order    *list.List // most recently used at the front
}

type nodeValidityEntry struct {
	id    maps.NodeID
	valid bool
}

func newNodeValidityCache(capacity int) *nodeValidityCache {
	return &nodeValidityCache{
		capacity: capacity,
		entries:  make(map[maps.NodeID]*list.Element),
		order:    list.New(),
	}
}

func (c *nodeValidityCache) get(id maps.NodeID) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[id]
	if !ok {
		return false, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*nodeValidityEntry).valid, true
}

func (c *nodeValidityCache) put(id maps.NodeID, valid bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[id]; ok {
		el.Value.(*nodeValidityEntry).valid = valid
		c.order.MoveToFront(el)
		return
	}
	el := c.order.PushFront(&nodeValidityEntry{id: id, valid: valid})
	c.entries[id] = el
	if c.capacity > 0 && c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*nodeValidityEntry).id)
		}
	}
}

const defaultNodeValidityCacheSize = 4096

// isValidNode reports whether a node is a real junction rather than a
// mid-road continuation artifact introduced by map segmentation: a node
// with {in=1,out=1}, or {in=2,out=2} spanning exactly three distinct
// endpoints among its adjacent edges, is not valid.
func isValidNode(cache *nodeValidityCache, node maps.Node) bool {
	if cache != nil {
		if v, ok := cache.get(node.NodeID()); ok {
			return v
		}
	}

	in := node.IncomingLines()
	out := node.OutgoingLines()
	valid := !isContinuationArtifact(node, in, out)

	if cache != nil {
		cache.put(node.NodeID(), valid)
	}
	return valid
}

func isContinuationArtifact(node maps.Node, in, out []maps.Line) bool {
	if len(in) == 1 && len(out) == 1 {
		return true
	}
	if len(in) == 2 && len(out) == 2 {
		endpoints := make(map[maps.NodeID]bool)
		for _, l := range in {
			endpoints[l.StartNode().NodeID()] = true
		}
		for _, l := range out {
			endpoints[l.EndNode().NodeID()] = true
		}
		endpoints[node.NodeID()] = true
		return len(endpoints) == 3
	}
	return false
}

// nominateCandidates generates and scores every surviving candidate for an
// LRP, applying the junction-snap policy, bearing prefilter, and score
// filter from the matching algorithm. basemapFilter, when non-nil, is
// passed straight through to the reader's spatial query, excluding lines
// the caller has ruled out of consideration entirely (SPEC_FULL.md §6's
// basemap_filter) before scoring ever sees them.
func nominateCandidates(
	cfg Config,
	kernel maps.Kernel,
	reader maps.MapReader,
	cache *nodeValidityCache,
	lrp openlr.LocationReferencePoint,
	isLastLRP bool,
	basemapFilter func(maps.Line) bool,
) []Candidate {
	lrpCoord := maps.Coordinates{Lon: lrp.Lon, Lat: lrp.Lat}
	var candidates []Candidate

	for _, line := range reader.FindLinesCloseTo(lrpCoord, cfg.SearchRadius, basemapFilter) {
		if line.Length() == 0 {
			continue
		}
		c, ok := makeCandidate(cfg, kernel, cache, lrp, line, isLastLRP)
		if ok {
			candidates = append(candidates, c)
		}
	}
	return candidates
}

// makeCandidate builds and scores a single candidate for lrp on line,
// applying the junction-snap policy and bearing/score filters. Returns
// ok=false if the candidate is dropped at any stage.
func makeCandidate(
	cfg Config,
	kernel maps.Kernel,
	cache *nodeValidityCache,
	lrp openlr.LocationReferencePoint,
	line maps.Line,
	isLastLRP bool,
) (Candidate, bool) {
	lrpCoord := maps.Coordinates{Lon: lrp.Lon, Lat: lrp.Lat}
	reloff := projectOntoLine(kernel, line.Geometry(), lrpCoord)
	length := line.Length()

	if !isLastLRP {
		if reloff*length <= cfg.CandidateThreshold && isValidNode(cache, line.StartNode()) {
			reloff = 0.0
		} else if (1-reloff)*length <= cfg.CandidateThreshold && isValidNode(cache, line.EndNode()) {
			return Candidate{}, false
		}
	} else {
		if (1-reloff)*length <= cfg.CandidateThreshold && isValidNode(cache, line.EndNode()) {
			reloff = 1.0
		} else if reloff*length <= cfg.CandidateThreshold && isValidNode(cache, line.StartNode()) {
			return Candidate{}, false
		}
	}

	if isLastLRP && reloff <= 0.0 {
		return Candidate{}, false
	}
	if !isLastLRP && reloff >= 1.0 {
		return Candidate{}, false
	}

	point := PointOnLine{Line: line, RelativeOffset: reloff}
	actualBearing := candidateBearing(kernel, point, isLastLRP, cfg.BearDist)
	if diff := angleDifference(lrp.Bearing, actualBearing); diff < -cfg.MaxBearDeviation || diff > cfg.MaxBearDeviation {
		return Candidate{}, false
	}

	score := scoreCandidate(cfg, kernel, lrp, point, actualBearing)
	if score < cfg.MinScore {
		return Candidate{}, false
	}

	return Candidate{PointOnLine: point, Score: score}, true
}
