// Package astar implements a shortest-path search over a maps.MapReader,
// used by the decoder to connect candidate nodes along a constrained route.
package astar

import (
	"container/heap"
	"fmt"

	"github.com/beetlebugorg/openlr/maps"
)

// ErrPathNotFound is returned when no path exists between start and end —
// either because the graph is disconnected (under the active filter) or
// because every path exceeds maxLen.
type ErrPathNotFound struct {
	Start, End maps.NodeID
}

func (e *ErrPathNotFound) Error() string {
	return fmt.Sprintf("no path found from node %v to node %v", e.Start, e.End)
}

// LineFilter decides whether a line may be used in the path. A nil filter
// admits every line.
type LineFilter func(maps.Line) bool

func tautology(maps.Line) bool { return true }

// pqItem is a single entry in the search frontier.
type pqItem struct {
	f, g     float64
	node     maps.Node
	line     maps.Line // the line used to reach node, nil for the start item
	previous *pqItem
	index    int // heap bookkeeping
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].g < pq[j].g
}
func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index, pq[j].index = i, j
}
func (pq *priorityQueue) Push(x any) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// ShortestPath finds a shortest path from start to end, by line length,
// using the A* algorithm with kernel.Distance as the admissible heuristic.
//
// linefilter, if non-nil, excludes lines for which it returns false — used
// by the decoder to enforce the lowest-FRC-to-next-point constraint.
// maxLen, if positive, aborts the search once every frontier path exceeds
// it; a non-positive maxLen means unbounded.
//
// An empty (nil) path and nil error means start and end are the same
// node. ErrPathNotFound is returned if no admissible path exists.
func ShortestPath(start, end maps.Node, kernel maps.Kernel, linefilter LineFilter, maxLen float64) ([]maps.Line, error) {
	if linefilter == nil {
		linefilter = tautology
	}
	unbounded := maxLen <= 0

	heuristic := func(n maps.Node) float64 {
		return kernel.Distance(n.Coordinates(), end.Coordinates())
	}

	startItem := &pqItem{f: heuristic(start), g: 0, node: start}
	open := &priorityQueue{startItem}
	heap.Init(open)
	closed := make(map[maps.NodeID]bool)

	for open.Len() > 0 {
		current := heap.Pop(open).(*pqItem)

		if current.node.NodeID() == end.NodeID() {
			return reconstruct(current), nil
		}

		if closed[current.node.NodeID()] {
			continue
		}
		closed[current.node.NodeID()] = true

		for _, line := range current.node.OutgoingLines() {
			if !linefilter(line) {
				continue
			}
			neighbor := line.EndNode()
			if closed[neighbor.NodeID()] {
				continue
			}

			g := current.g + line.Length()
			f := g + heuristic(neighbor)
			if !unbounded && f > maxLen {
				continue
			}

			heap.Push(open, &pqItem{f: f, g: g, node: neighbor, line: line, previous: current})
		}
	}

	return nil, &ErrPathNotFound{Start: start.NodeID(), End: end.NodeID()}
}

func reconstruct(item *pqItem) []maps.Line {
	var lines []maps.Line
	for c := item; c.previous != nil; c = c.previous {
		lines = append([]maps.Line{c.line}, lines...)
	}
	return lines
}
