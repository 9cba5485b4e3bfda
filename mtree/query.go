package mtree

import (
	"fmt"
	"sort"

	"github.com/MourtazaKASSAMALY/elki/distance"
	"github.com/MourtazaKASSAMALY/elki/elkierr"
	"github.com/MourtazaKASSAMALY/elki/page"
	"github.com/MourtazaKASSAMALY/elki/pqueue"
)

// RangeResult is one (object, distance) pair returned by RangeQuery.
type RangeResult[D distance.Value] struct {
	ObjectID distance.ObjectID
	Distance D
}

// RangeQuery returns every object within radius of objectID, ascending by
// distance, ties broken by entry discovery order (spec §4.4.3).
func (t *MetricTree[D]) RangeQuery(objectID distance.ObjectID, radius D) ([]RangeResult[D], error) {
	if !t.initialized {
		return nil, elkierr.ErrNotInitialized
	}

	var results []RangeResult[D]
	if err := t.rangeDescend(RootID, t.fn.Null(), false, objectID, radius, &results); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Distance < results[j].Distance })
	return results, nil
}

// rangeDescend implements one level of spec §4.4.3's pruning: dOP is
// d(o_p, q) as computed on entering this node (null/unset at the root).
func (t *MetricTree[D]) rangeDescend(nodeID page.ID, dOP D, hasOP bool, q distance.ObjectID, rq D, out *[]RangeResult[D]) error {
	node, err := t.readNode(nodeID)
	if err != nil {
		return err
	}

	for i := 0; i < node.NumEntries; i++ {
		d2 := t.fn.Null()
		if hasOP {
			if node.IsLeaf {
				d2 = node.Leaves[i].ParentDistance
			} else {
				d2 = node.Dirs[i].ParentDistance
			}
		}
		diff := absDiff(dOP, d2)

		if node.IsLeaf {
			e := node.Leaves[i]
			if diff > rq {
				continue
			}
			d3 := t.fn.Distance(e.ObjectID, q)
			if d3 <= rq {
				*out = append(*out, RangeResult[D]{ObjectID: e.ObjectID, Distance: d3})
			}
			continue
		}

		e := node.Dirs[i]
		bound := rq + e.CoveringRadius
		if diff > bound {
			continue
		}
		d3 := t.fn.Distance(e.RoutingObjectID, q)
		if d3 <= bound {
			if err := t.rangeDescend(e.ChildNodeID, d3, true, q, rq, out); err != nil {
				return err
			}
		}
	}

	return nil
}

// KNNQuery returns the k objects nearest to objectID, ascending by
// distance (spec §4.4.4). k must be >= 1.
func (t *MetricTree[D]) KNNQuery(objectID distance.ObjectID, k int) ([]pqueue.Result[D], error) {
	if !t.initialized {
		return nil, elkierr.ErrNotInitialized
	}
	if k < 1 {
		return nil, elkierr.ErrInvalidArgument
	}

	knn := pqueue.NewKSmallest[D](k, t.fn.Infinite())
	pq := pqueue.New[D]()
	pq.Push(pqueue.Candidate[D]{LowerBound: t.fn.Null(), NodeID: RootID})

	for pq.Len() > 0 {
		cand, _ := pq.Pop()
		if cand.LowerBound > knn.KthDistance() {
			break
		}

		node, err := t.readNode(cand.NodeID)
		if err != nil {
			return nil, err
		}

		dOP := t.fn.Null()
		if cand.HasRouting {
			dOP = cand.RoutingDistance
		}

		for i := 0; i < node.NumEntries; i++ {
			d2 := t.fn.Null()
			if cand.HasRouting {
				if node.IsLeaf {
					d2 = node.Leaves[i].ParentDistance
				} else {
					d2 = node.Dirs[i].ParentDistance
				}
			}
			diff := absDiff(dOP, d2)

			if node.IsLeaf {
				e := node.Leaves[i]
				if diff > knn.KthDistance() {
					continue
				}
				d3 := t.fn.Distance(e.ObjectID, objectID)
				if d3 <= knn.KthDistance() {
					knn.Add(e.ObjectID, d3)
				}
				continue
			}

			e := node.Dirs[i]
			if distance.SaturatingSub(diff, e.CoveringRadius) > knn.KthDistance() {
				continue
			}
			d3 := t.fn.Distance(e.RoutingObjectID, objectID)
			lowerBound := distance.Max(distance.SaturatingSub(d3, e.CoveringRadius), t.fn.Null())
			if lowerBound <= knn.KthDistance() {
				pq.Push(pqueue.Candidate[D]{
					LowerBound:      lowerBound,
					NodeID:          e.ChildNodeID,
					RoutingObject:   e.RoutingObjectID,
					RoutingDistance: d3,
					HasRouting:      true,
				})
			}
		}
	}

	return knn.Results(), nil
}

// BatchKNN co-descends once for every query in objectIDs, sharing the cost
// of node reads (spec §4.4.5).
func (t *MetricTree[D]) BatchKNN(objectIDs []distance.ObjectID, k int) (map[distance.ObjectID][]pqueue.Result[D], error) {
	if !t.initialized {
		return nil, elkierr.ErrNotInitialized
	}
	if k < 1 {
		return nil, elkierr.ErrInvalidArgument
	}

	accs := make(map[distance.ObjectID]*pqueue.KSmallest[D], len(objectIDs))
	for _, q := range objectIDs {
		accs[q] = pqueue.NewKSmallest[D](k, t.fn.Infinite())
	}

	if err := t.batchDescend(RootID, objectIDs, accs); err != nil {
		return nil, err
	}

	out := make(map[distance.ObjectID][]pqueue.Result[D], len(objectIDs))
	for _, q := range objectIDs {
		out[q] = accs[q].Results()
	}
	return out, nil
}

type scoredBatchEntry[D distance.Value] struct {
	index         int
	minLowerBound D
}

func (t *MetricTree[D]) batchDescend(nodeID page.ID, queries []distance.ObjectID, accs map[distance.ObjectID]*pqueue.KSmallest[D]) error {
	node, err := t.readNode(nodeID)
	if err != nil {
		return err
	}

	if node.IsLeaf {
		for i := 0; i < node.NumEntries; i++ {
			e := node.Leaves[i]
			for _, q := range queries {
				acc := accs[q]
				d3 := t.fn.Distance(e.ObjectID, q)
				if d3 <= acc.KthDistance() {
					acc.Add(e.ObjectID, d3)
				}
			}
		}
		return nil
	}

	scored := make([]scoredBatchEntry[D], node.NumEntries)
	for i := 0; i < node.NumEntries; i++ {
		e := node.Dirs[i]
		minLowerBound := t.fn.Infinite()
		for _, q := range queries {
			d3 := t.fn.Distance(e.RoutingObjectID, q)
			lb := distance.Max(distance.SaturatingSub(d3, e.CoveringRadius), t.fn.Null())
			if lb < minLowerBound {
				minLowerBound = lb
			}
		}
		scored[i] = scoredBatchEntry[D]{index: i, minLowerBound: minLowerBound}
	}

	sort.SliceStable(scored, func(a, b int) bool { return scored[a].minLowerBound < scored[b].minLowerBound })

	for _, se := range scored {
		e := node.Dirs[se.index]

		recurse := false
		for _, q := range queries {
			if se.minLowerBound <= accs[q].KthDistance() {
				recurse = true
				break
			}
		}
		if !recurse {
			continue
		}

		if err := t.batchDescend(e.ChildNodeID, queries, accs); err != nil {
			return fmt.Errorf("mtree: batch descent into node %d: %w", e.ChildNodeID, err)
		}
	}

	return nil
}
