// Package pqueue implements the priority queue and k-smallest accumulator
// the metric tree's kNN and batch-kNN searches are built on (spec §4.4.4,
// §4.4.5). No third-party priority-queue library appears anywhere in the
// retrieved example pack, so this is built on the standard library's
// container/heap, the idiomatic mechanism the wider Go ecosystem reaches
// for here.
package pqueue

import (
	"container/heap"

	"github.com/MourtazaKASSAMALY/elki/distance"
	"github.com/MourtazaKASSAMALY/elki/page"
)

// Candidate is one entry in the descent priority queue: a lower bound on
// the distance from the query to any object reachable through NodeID, plus
// the routing object that produced it and its exact distance to the query
// (RoutingDistance = d(RoutingObject, q), already paid for when the parent
// decided to push this candidate) so the node's own entries can compute
// diff = |RoutingDistance - entry.ParentDistance| without recomputing it.
// HasRouting is false only for the initial root candidate, which has no
// parent routing object.
type Candidate[D distance.Value] struct {
	LowerBound      D
	NodeID          page.ID
	RoutingObject   distance.ObjectID
	RoutingDistance D
	HasRouting      bool
}

type candidateHeap[D distance.Value] []Candidate[D]

func (h candidateHeap[D]) Len() int            { return len(h) }
func (h candidateHeap[D]) Less(i, j int) bool  { return h[i].LowerBound < h[j].LowerBound }
func (h candidateHeap[D]) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap[D]) Push(x interface{}) { *h = append(*h, x.(Candidate[D])) }
func (h *candidateHeap[D]) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// PQ is the min-heap of descent candidates, keyed by lower bound, that
// drives kNN search. Batch kNN and range search descend recursively and do
// not use it.
type PQ[D distance.Value] struct {
	h candidateHeap[D]
}

// New builds an empty descent priority queue.
func New[D distance.Value]() *PQ[D] {
	return &PQ[D]{}
}

// Push adds a candidate.
func (pq *PQ[D]) Push(c Candidate[D]) {
	heap.Push(&pq.h, c)
}

// Pop removes and returns the candidate with the smallest lower bound. The
// second return value is false if the queue is empty.
func (pq *PQ[D]) Pop() (Candidate[D], bool) {
	if pq.h.Len() == 0 {
		return Candidate[D]{}, false
	}
	return heap.Pop(&pq.h).(Candidate[D]), true
}

// Len returns the number of queued candidates.
func (pq *PQ[D]) Len() int { return pq.h.Len() }
