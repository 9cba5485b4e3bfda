package mtree

import (
	"fmt"

	"github.com/MourtazaKASSAMALY/elki/distance"
	"github.com/MourtazaKASSAMALY/elki/elkierr"
	"github.com/MourtazaKASSAMALY/elki/page"
)

// CheckInvariants walks the whole tree verifying the six tree-wide
// invariants of spec §3, returning elkierr.ErrInvariant on the first
// violation found. It is purely diagnostic: no public operation ever
// raises it (spec §7), and it never mutates tree state. Grounded on the
// teacher's debug-information walks (kv.BTree's structural dump and
// kv/bufferpool.go's pool introspection), which traverse the whole
// structure read-only for diagnostics.
func (t *MetricTree[D]) CheckInvariants() error {
	if !t.initialized {
		return elkierr.ErrNotInitialized
	}

	var leafDepths []int

	var walk func(nodeID page.ID, depth int, isRoot bool, parentRouting distance.ObjectID, hasParentRouting bool) error
	walk = func(nodeID page.ID, depth int, isRoot bool, parentRouting distance.ObjectID, hasParentRouting bool) error {
		node, err := t.readNode(nodeID)
		if err != nil {
			return err
		}

		if !isRoot && node.NumEntries < 1 {
			return fmt.Errorf("%w: non-root node %d has %d entries", elkierr.ErrInvariant, nodeID, node.NumEntries)
		}

		if node.IsLeaf {
			leafDepths = append(leafDepths, depth)

			for i := 0; i < node.NumEntries; i++ {
				e := node.Leaves[i]
				if isRoot {
					if !isUnset(t.fn, e.ParentDistance) {
						return fmt.Errorf("%w: root leaf entry %d has a set parent distance", elkierr.ErrInvariant, i)
					}
					continue
				}
				want := t.fn.Distance(e.ObjectID, parentRouting)
				if e.ParentDistance != want {
					return fmt.Errorf("%w: leaf %d entry %d parent distance mismatch: got %v want %v", elkierr.ErrInvariant, nodeID, i, e.ParentDistance, want)
				}
			}
			return nil
		}

		for i := 0; i < node.NumEntries; i++ {
			e := node.Dirs[i]

			if isRoot {
				if !isUnset(t.fn, e.ParentDistance) {
					return fmt.Errorf("%w: root directory entry %d has a set parent distance", elkierr.ErrInvariant, i)
				}
			} else {
				want := t.fn.Distance(e.RoutingObjectID, parentRouting)
				if e.ParentDistance != want {
					return fmt.Errorf("%w: directory %d entry %d parent distance mismatch: got %v want %v", elkierr.ErrInvariant, nodeID, i, e.ParentDistance, want)
				}
			}

			if err := t.checkCovering(e.ChildNodeID, e.RoutingObjectID, e.CoveringRadius); err != nil {
				return err
			}
			if err := walk(e.ChildNodeID, depth+1, false, e.RoutingObjectID, true); err != nil {
				return err
			}
		}

		return nil
	}

	if err := walk(RootID, 0, true, 0, false); err != nil {
		return err
	}

	for _, d := range leafDepths {
		if d != leafDepths[0] {
			return fmt.Errorf("%w: leaves at inconsistent depths (%d vs %d)", elkierr.ErrInvariant, d, leafDepths[0])
		}
	}

	return nil
}

// checkCovering verifies spec §3 invariant 3 transitively: every object
// reachable through nodeID must lie within coveringRadius of
// routingObjectID, not merely the entries directly inside nodeID.
func (t *MetricTree[D]) checkCovering(nodeID page.ID, routingObjectID distance.ObjectID, coveringRadius D) error {
	node, err := t.readNode(nodeID)
	if err != nil {
		return err
	}

	if node.IsLeaf {
		for i := 0; i < node.NumEntries; i++ {
			o := node.Leaves[i].ObjectID
			d := t.fn.Distance(routingObjectID, o)
			if d > coveringRadius {
				return fmt.Errorf("%w: object %d at distance %v exceeds covering radius %v of routing object %d", elkierr.ErrInvariant, o, d, coveringRadius, routingObjectID)
			}
		}
		return nil
	}

	for i := 0; i < node.NumEntries; i++ {
		e := node.Dirs[i]
		d := t.fn.Distance(routingObjectID, e.RoutingObjectID)
		if d > coveringRadius {
			return fmt.Errorf("%w: subtree routing object %d at distance %v exceeds covering radius %v of routing object %d", elkierr.ErrInvariant, e.RoutingObjectID, d, coveringRadius, routingObjectID)
		}
		if err := t.checkCovering(e.ChildNodeID, routingObjectID, coveringRadius); err != nil {
			return err
		}
	}

	return nil
}
