package mtree

import (
	"fmt"

	"github.com/MourtazaKASSAMALY/elki/distance"
	"github.com/MourtazaKASSAMALY/elki/elkierr"
	"github.com/MourtazaKASSAMALY/elki/page"
)

// pathStep is one level of the descent path built by Insert (spec §9:
// "Tree path built from linked components ... model as an explicit vector
// [(node_id, entry_index)]"). parentRouting/hasParentRouting is the routing
// object against which every entry stored IN this node computes its
// ParentDistance — i.e. the routing object of the parent's entry that was
// followed to reach this node. It is unset for the root.
type pathStep[D distance.Value] struct {
	nodeID           page.ID
	indexInParent    int
	parentRouting    distance.ObjectID
	hasParentRouting bool
}

// Insert adds objectID to the tree (spec §4.4.1): descend to a leaf,
// append a LeafEntry, then resolve any resulting overflow by splitting.
func (t *MetricTree[D]) Insert(objectID distance.ObjectID) error {
	if !t.initialized {
		return elkierr.ErrNotInitialized
	}

	path, err := t.descendToLeaf(objectID)
	if err != nil {
		return err
	}

	leafStep := path[len(path)-1]
	leaf, err := t.readNode(leafStep.nodeID)
	if err != nil {
		return err
	}

	parentDistance := unset(t.fn)
	if leafStep.hasParentRouting {
		parentDistance = t.fn.Distance(objectID, leafStep.parentRouting)
	}

	if err := leaf.AddLeafEntry(LeafEntry[D]{ObjectID: objectID, ParentDistance: parentDistance}); err != nil {
		return fmt.Errorf("mtree: %w", err)
	}
	if err := t.writeNode(leaf); err != nil {
		return err
	}

	return t.resolveOverflow(path, leaf)
}

// InsertMany inserts every id in order (spec §6 insert_many). The base spec
// only describes per-object insertion (§4.4.1); unlike batch_knn, which
// shares descent cost across queries, insertion is inherently sequential —
// a covering-radius enlargement from one insert must be visible to the
// next object's descent — so this is a thin loop, not a co-descent.
func (t *MetricTree[D]) InsertMany(objectIDs []distance.ObjectID) error {
	for _, id := range objectIDs {
		if err := t.Insert(id); err != nil {
			return err
		}
	}
	return nil
}

// descendToLeaf walks from the root to a leaf, applying covering-radius
// enlargement along the way (spec §4.4.1 step 1), and returns the path
// taken.
func (t *MetricTree[D]) descendToLeaf(objectID distance.ObjectID) ([]pathStep[D], error) {
	path := []pathStep[D]{{nodeID: RootID, indexInParent: -1}}

	for {
		cur := path[len(path)-1]
		node, err := t.readNode(cur.nodeID)
		if err != nil {
			return nil, err
		}
		if node.IsLeaf {
			return path, nil
		}

		j, enlarge, newCR, err := chooseDescentEntry(t.fn, node, objectID)
		if err != nil {
			return nil, err
		}

		if enlarge {
			node.Dirs[j].CoveringRadius = newCR
			if err := t.writeNode(node); err != nil {
				return nil, err
			}
		}

		child := node.Dirs[j]
		path = append(path, pathStep[D]{
			nodeID:           child.ChildNodeID,
			indexInParent:    j,
			parentRouting:    child.RoutingObjectID,
			hasParentRouting: true,
		})
	}
}

// chooseDescentEntry implements spec §4.4.1 step 1: prefer the entry that
// needs no enlargement, breaking ties by the smallest distance and then by
// entry order; otherwise enlarge the entry with the smallest enlargement,
// same tie-break.
func chooseDescentEntry[D distance.Value](fn distance.Function[D], node *Node[D], objectID distance.ObjectID) (idx int, enlarge bool, newCR D, err error) {
	if node.NumEntries == 0 {
		return 0, false, fn.Null(), fmt.Errorf("mtree: directory node %d has no entries", node.NodeID)
	}

	bestNoEnlarge := -1
	var bestNoEnlargeDist D
	bestEnlarge := -1
	var bestEnlargeAmount D
	var bestEnlargeNewCR D

	for i := 0; i < node.NumEntries; i++ {
		e := node.Dirs[i]
		d := fn.Distance(objectID, e.RoutingObjectID)

		if d <= e.CoveringRadius {
			if bestNoEnlarge == -1 || d < bestNoEnlargeDist {
				bestNoEnlarge, bestNoEnlargeDist = i, d
			}
			continue
		}

		amount := d - e.CoveringRadius
		if bestEnlarge == -1 || amount < bestEnlargeAmount {
			bestEnlarge, bestEnlargeAmount, bestEnlargeNewCR = i, amount, d
		}
	}

	if bestNoEnlarge != -1 {
		return bestNoEnlarge, false, fn.Null(), nil
	}
	return bestEnlarge, true, bestEnlargeNewCR, nil
}
