package mtree

import (
	"fmt"

	"github.com/MourtazaKASSAMALY/elki/distance"
	"github.com/MourtazaKASSAMALY/elki/page"
)

// resolveOverflow implements spec §4.4.1 step 4: while the tail of path
// overflows, split it; each split may propagate one level upward. node is
// the already-written node at the tail of path (the one that just received
// a new entry).
func (t *MetricTree[D]) resolveOverflow(path []pathStep[D], node *Node[D]) error {
	idx := len(path) - 1
	cur := node

	for cur.Full() {
		if idx == 0 {
			return t.splitRoot(cur)
		}

		parentStep := path[idx-1]
		parent, err := t.readNode(parentStep.nodeID)
		if err != nil {
			return err
		}

		newParent, err := t.splitNonRoot(cur, parent, path[idx].indexInParent, parentStep)
		if err != nil {
			return err
		}

		idx--
		cur = newParent
	}

	return nil
}

// splitNonRoot implements spec §4.4.2 for a node with a parent: first_promoted
// is reused from the parent's own entry (the MLB_DIST policy). The parent
// distances of both halves are recomputed by rebuildSplitNodes.
func (t *MetricTree[D]) splitNonRoot(n, parent *Node[D], indexInParent int, parentStep pathStep[D]) (*Node[D], error) {
	firstPromoted := parent.Dirs[indexInParent].RoutingObjectID
	secondPromoted := selectNonRootPromotion(t.fn, n, firstPromoted)

	firstIdx, secondIdx, firstCR, secondCR := partition(t.fn, n, firstPromoted, secondPromoted)

	first, second, err := rebuildSplitNodes(t.fn, n, firstIdx, secondIdx, firstPromoted, secondPromoted, n.NodeID, page.NoPage)
	if err != nil {
		return nil, err
	}

	if err := t.writeNode(first); err != nil {
		return nil, err
	}
	if err := t.writeNode(second); err != nil {
		return nil, err
	}

	parentDistance1 := unset(t.fn)
	parentDistance2 := unset(t.fn)
	if parentStep.hasParentRouting {
		parentDistance1 = t.fn.Distance(firstPromoted, parentStep.parentRouting)
		parentDistance2 = t.fn.Distance(secondPromoted, parentStep.parentRouting)
	}

	parent.Dirs[indexInParent] = DirectoryEntry[D]{
		RoutingObjectID: firstPromoted,
		ParentDistance:  parentDistance1,
		ChildNodeID:     first.NodeID,
		CoveringRadius:  firstCR,
	}
	if err := parent.AddDirectoryEntry(DirectoryEntry[D]{
		RoutingObjectID: secondPromoted,
		ParentDistance:  parentDistance2,
		ChildNodeID:     second.NodeID,
		CoveringRadius:  secondCR,
	}); err != nil {
		return nil, fmt.Errorf("mtree: %w", err)
	}

	if err := t.writeNode(parent); err != nil {
		return nil, err
	}
	return parent, nil
}

// splitRoot implements spec §4.4.2 step 1's root fallback: with no parent
// entry to reuse, promote the mutually farthest pair of objects in n.
func (t *MetricTree[D]) splitRoot(n *Node[D]) error {
	firstPromoted, secondPromoted := selectRootPromotion(t.fn, n)

	firstIdx, secondIdx, firstCR, secondCR := partition(t.fn, n, firstPromoted, secondPromoted)

	first, second, err := rebuildSplitNodes(t.fn, n, firstIdx, secondIdx, firstPromoted, secondPromoted, page.NoPage, page.NoPage)
	if err != nil {
		return err
	}

	if err := t.writeNode(first); err != nil {
		return err
	}
	if err := t.writeNode(second); err != nil {
		return err
	}

	newRoot := NewDirectoryNode[D](t.capacities.Dir)
	newRoot.NodeID = RootID
	if err := newRoot.AddDirectoryEntry(DirectoryEntry[D]{
		RoutingObjectID: firstPromoted,
		ParentDistance:  unset(t.fn),
		ChildNodeID:     first.NodeID,
		CoveringRadius:  firstCR,
	}); err != nil {
		return fmt.Errorf("mtree: %w", err)
	}
	if err := newRoot.AddDirectoryEntry(DirectoryEntry[D]{
		RoutingObjectID: secondPromoted,
		ParentDistance:  unset(t.fn),
		ChildNodeID:     second.NodeID,
		CoveringRadius:  secondCR,
	}); err != nil {
		return fmt.Errorf("mtree: %w", err)
	}

	return t.writeNode(newRoot)
}

// selectNonRootPromotion picks the entry object in n farthest from
// firstPromoted (spec §4.4.2 step 1).
func selectNonRootPromotion[D distance.Value](fn distance.Function[D], n *Node[D], firstPromoted distance.ObjectID) distance.ObjectID {
	var second distance.ObjectID
	var best D
	found := false

	for i := 0; i < n.NumEntries; i++ {
		obj := entryObject(n, i)
		d := fn.Distance(firstPromoted, obj)
		if !found || d > best {
			second, best, found = obj, d, true
		}
	}

	return second
}

// selectRootPromotion picks the mutually farthest pair of entry objects in
// n via an exhaustive pairwise scan (spec §4.4.2 step 1's root fallback;
// acceptable since n.NumEntries == n.Capacity, a small bounded value).
func selectRootPromotion[D distance.Value](fn distance.Function[D], n *Node[D]) (distance.ObjectID, distance.ObjectID) {
	var first, second distance.ObjectID
	var best D
	found := false

	for i := 0; i < n.NumEntries; i++ {
		for j := i + 1; j < n.NumEntries; j++ {
			oi, oj := entryObject(n, i), entryObject(n, j)
			d := fn.Distance(oi, oj)
			if !found || d > best {
				first, second, best, found = oi, oj, d, true
			}
		}
	}

	return first, second
}

// partition assigns every entry of n to the closer of the two promoted
// objects, ties going to the first (spec §4.4.2 step 2), and computes each
// side's covering radius (step 3). For a directory entry, the contribution
// to the new covering radius is the distance to the promoted object plus
// the entry's own covering radius — not just the bare distance the spec's
// literal wording gives for the leaf case — since every object transitively
// reachable through a directory entry can be as far as its covering radius
// beyond the entry's own routing object (spec §3 invariant 3 must keep
// holding after the split, at every level, not only for leaves).
func partition[D distance.Value](fn distance.Function[D], n *Node[D], firstPromoted, secondPromoted distance.ObjectID) (firstIdx, secondIdx []int, firstCR, secondCR D) {
	firstCR, secondCR = fn.Null(), fn.Null()

	for i := 0; i < n.NumEntries; i++ {
		obj := entryObject(n, i)
		d1 := fn.Distance(obj, firstPromoted)
		d2 := fn.Distance(obj, secondPromoted)

		if d1 <= d2 {
			firstIdx = append(firstIdx, i)
			c := d1
			if !n.IsLeaf {
				c += n.Dirs[i].CoveringRadius
			}
			if c > firstCR {
				firstCR = c
			}
		} else {
			secondIdx = append(secondIdx, i)
			c := d2
			if !n.IsLeaf {
				c += n.Dirs[i].CoveringRadius
			}
			if c > secondCR {
				secondCR = c
			}
		}
	}

	return firstIdx, secondIdx, firstCR, secondCR
}

// rebuildSplitNodes builds the two post-split nodes from n's original
// entries (spec §4.4.2 steps 4-5): n's own entries assigned to firstIdx go
// to a node keeping firstNodeID, those in secondIdx to a fresh sibling
// using secondNodeID (page.NoPage for either means "assign a new page on
// write").
func rebuildSplitNodes[D distance.Value](fn distance.Function[D], n *Node[D], firstIdx, secondIdx []int, firstPromoted, secondPromoted distance.ObjectID, firstNodeID, secondNodeID page.ID) (*Node[D], *Node[D], error) {
	var first, second *Node[D]

	if n.IsLeaf {
		first = NewLeafNode[D](n.Capacity)
		second = NewLeafNode[D](n.Capacity)

		for _, i := range firstIdx {
			e := n.Leaves[i]
			e.ParentDistance = fn.Distance(e.ObjectID, firstPromoted)
			if err := first.AddLeafEntry(e); err != nil {
				return nil, nil, fmt.Errorf("mtree: %w", err)
			}
		}
		for _, i := range secondIdx {
			e := n.Leaves[i]
			e.ParentDistance = fn.Distance(e.ObjectID, secondPromoted)
			if err := second.AddLeafEntry(e); err != nil {
				return nil, nil, fmt.Errorf("mtree: %w", err)
			}
		}
	} else {
		first = NewDirectoryNode[D](n.Capacity)
		second = NewDirectoryNode[D](n.Capacity)

		for _, i := range firstIdx {
			e := n.Dirs[i]
			e.ParentDistance = fn.Distance(e.RoutingObjectID, firstPromoted)
			if err := first.AddDirectoryEntry(e); err != nil {
				return nil, nil, fmt.Errorf("mtree: %w", err)
			}
		}
		for _, i := range secondIdx {
			e := n.Dirs[i]
			e.ParentDistance = fn.Distance(e.RoutingObjectID, secondPromoted)
			if err := second.AddDirectoryEntry(e); err != nil {
				return nil, nil, fmt.Errorf("mtree: %w", err)
			}
		}
	}

	first.NodeID = firstNodeID
	second.NodeID = secondNodeID
	return first, second, nil
}
