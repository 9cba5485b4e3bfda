// Package mtree implements the metric tree core itself: node layout,
// insertion path selection, the MLB_DIST split policy, covering-radius
// maintenance, and the range/kNN/batch-kNN search algorithms (spec §3,
// §4.3, §4.4).
//
// Rather than the source's class hierarchy over entry kinds (spec §9:
// "the source uses class inheritance for LeafEntry/DirectoryEntry"), a
// Node holds exactly one of two independent, uniformly-typed entry arrays
// — only the one matching its IsLeaf flag is ever populated (spec §3: "A
// node is an array of entries of uniform variant").
package mtree

import (
	"github.com/MourtazaKASSAMALY/elki/distance"
	"github.com/MourtazaKASSAMALY/elki/page"
)

// LeafEntry is a stored data object (spec §3).
type LeafEntry[D distance.Value] struct {
	ObjectID distance.ObjectID

	// ParentDistance is the distance from this object to the routing
	// object of the leaf's parent directory entry. A value equal to the
	// tree's distance function's Infinite() marks it unset, which is
	// only valid when the leaf is the root (spec §3 invariant 5).
	ParentDistance D
}

// DirectoryEntry is a subtree reference (spec §3).
type DirectoryEntry[D distance.Value] struct {
	RoutingObjectID distance.ObjectID

	// ParentDistance is the distance from RoutingObjectID to the
	// grandparent's routing object. Infinite()-valued when unset (the
	// entry belongs to the root).
	ParentDistance D

	ChildNodeID page.ID

	// CoveringRadius upper-bounds the distance from RoutingObjectID to
	// every object transitively reachable through ChildNodeID (spec §3
	// invariant 3).
	CoveringRadius D
}

// unset returns the sentinel value marking a parent distance as unset:
// the distance function's own Infinite(), which no real parent distance
// can equal since it is always the distance between two concrete objects.
func unset[D distance.Value](fn distance.Function[D]) D {
	return fn.Infinite()
}

// isUnset reports whether d is the unset sentinel for fn.
func isUnset[D distance.Value](fn distance.Function[D], d D) bool {
	return d == fn.Infinite()
}
