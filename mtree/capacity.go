package mtree

import (
	"log"

	"github.com/MourtazaKASSAMALY/elki/distance"
	"github.com/MourtazaKASSAMALY/elki/elkierr"
)

// Capacities holds the per-tree, page-size-derived entry capacities (spec
// §4.5).
type Capacities struct {
	Dir  int
	Leaf int
}

// DeriveCapacities computes dir/leaf capacities from pageSize and the
// distance function's serialized width, per spec §4.5's formulas:
//
//	dir_capacity  = floor((page_size - overhead) / (4 + 4 + 2*distance_bytes)) + 1
//	leaf_capacity = floor((page_size - overhead) / (4 + distance_bytes)) + 1
//
// overhead is headerOverhead (13 bytes). Returns elkierr.ErrInvalidCapacity
// if either capacity is <= 1; logs a warning if either is < 10 (the tree
// still functions but degenerates, per spec §4.5).
func DeriveCapacities[D distance.Value](pageSize int, fn distance.Function[D]) (Capacities, error) {
	distBytes := fn.SerializedSize()

	available := pageSize - headerOverhead
	if available <= 0 {
		return Capacities{}, elkierr.ErrInvalidCapacity
	}

	dirCap := available/dirEntryWidth(distBytes) + 1
	leafCap := available/leafEntryWidth(distBytes) + 1

	if dirCap <= 1 || leafCap <= 1 {
		return Capacities{}, elkierr.ErrInvalidCapacity
	}

	if dirCap < 10 || leafCap < 10 {
		log.Printf("mtree: page size %d yields small capacities (dir=%d, leaf=%d); tree will degenerate", pageSize, dirCap, leafCap)
	}

	return Capacities{Dir: dirCap, Leaf: leafCap}, nil
}
