package pqueue

import (
	"container/heap"
	"sort"

	"github.com/MourtazaKASSAMALY/elki/distance"
)

// Result is one accumulated (object, distance) pair.
type Result[D distance.Value] struct {
	Object   distance.ObjectID
	Distance D
}

type resultHeap[D distance.Value] []Result[D]

// Less makes this a max-heap on Distance: the worst of the k currently
// admitted results sits at the root, so it can be evicted in O(log k) the
// moment a strictly better candidate is admitted.
func (h resultHeap[D]) Len() int            { return len(h) }
func (h resultHeap[D]) Less(i, j int) bool  { return h[i].Distance > h[j].Distance }
func (h resultHeap[D]) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *resultHeap[D]) Push(x interface{}) { *h = append(*h, x.(Result[D])) }
func (h *resultHeap[D]) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// KSmallest accumulates the k objects of smallest distance seen so far
// (spec §4.4.4): "a min-heap ... and a k-smallest accumulator knn
// initialized with k copies of infinite_distance() ... a max-heap capped at
// k is the intended shape." Rather than literally seeding the heap with k
// infinite placeholders (which would need filtering back out on read), this
// accumulates up to k real entries and reports KthDistance() as infinite
// until it has k — observably identical, without the placeholder
// bookkeeping.
type KSmallest[D distance.Value] struct {
	k        int
	infinite D
	h        resultHeap[D]
}

// NewKSmallest builds an accumulator capped at k results, reporting
// infinite as the k-th distance until k results have been admitted.
func NewKSmallest[D distance.Value](k int, infinite D) *KSmallest[D] {
	return &KSmallest[D]{k: k, infinite: infinite}
}

// KthDistance returns the current k-th smallest distance in O(1): the
// worst of the results admitted so far, or infinite if fewer than k have
// been admitted.
func (ks *KSmallest[D]) KthDistance() D {
	if len(ks.h) < ks.k {
		return ks.infinite
	}
	return ks.h[0].Distance
}

// Add admits a candidate in O(log k), keeping only the k smallest overall.
// A candidate at or above the current k-th distance while the accumulator
// is already full is silently dropped.
func (ks *KSmallest[D]) Add(object distance.ObjectID, d D) {
	if len(ks.h) < ks.k {
		heap.Push(&ks.h, Result[D]{Object: object, Distance: d})
		return
	}

	if d < ks.h[0].Distance {
		ks.h[0] = Result[D]{Object: object, Distance: d}
		heap.Fix(&ks.h, 0)
	}
}

// Len returns the number of results admitted so far (at most k).
func (ks *KSmallest[D]) Len() int { return len(ks.h) }

// Results returns the accumulated results sorted ascending by distance. Per
// spec §8 property 4, ties among objects equidistant from the query may
// appear in any order.
func (ks *KSmallest[D]) Results() []Result[D] {
	out := make([]Result[D], len(ks.h))
	copy(out, ks.h)
	sort.Slice(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}
