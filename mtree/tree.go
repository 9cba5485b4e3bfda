package mtree

import (
	"fmt"

	"github.com/MourtazaKASSAMALY/elki/cache"
	"github.com/MourtazaKASSAMALY/elki/distance"
	"github.com/MourtazaKASSAMALY/elki/elkierr"
	"github.com/MourtazaKASSAMALY/elki/page"
)

// RootID is the fixed page id of the tree root (spec §3 invariant 1; §9
// replaces the source's sentinel root-id object with this plain constant).
const RootID = page.ID(0)

// Config configures a new tree at construction time. There is no
// string/option parsing inside the core (spec §1/§6 out of scope); callers
// build a DistanceFunction and pass a page size, from which DeriveCapacities
// computes the node capacities; the same shape as the teacher's
// KvStoreConfig.
type Config[D distance.Value] struct {
	DistanceFunction distance.Function[D]
	PageSize         int
	CacheSize        int
}

// MetricTree is the public façade of the metric index core (spec §2,
// component 5): it owns the root id implicitly (always RootID), the page
// cache, the distance function, and the derived capacities, and implements
// insertion, split, range query, kNN and batch kNN.
type MetricTree[D distance.Value] struct {
	cache       *cache.Cache
	fn          distance.Function[D]
	capacities  Capacities
	initialized bool
}

// InitInMemory builds a tree backed by an in-memory page store (spec §6
// init_in_memory).
func InitInMemory[D distance.Value](cfg Config[D]) (*MetricTree[D], error) {
	caps, err := DeriveCapacities(cfg.PageSize, cfg.DistanceFunction)
	if err != nil {
		return nil, err
	}
	disk := page.NewMemoryDisk(cfg.PageSize)
	return bootstrapTree(cfg.DistanceFunction, disk, cfg.CacheSize, caps, true)
}

// InitNewFile creates a fresh file-backed tree at path. Not named in spec
// §6's operation list verbatim (which only names a reopening
// init_from_file), but required to ever produce the file init_from_file
// later reopens; mirrors the teacher's CreateFileDisk/OpenFileDisk pair.
func InitNewFile[D distance.Value](cfg Config[D], path string) (*MetricTree[D], error) {
	caps, err := DeriveCapacities(cfg.PageSize, cfg.DistanceFunction)
	if err != nil {
		return nil, err
	}
	disk, err := page.CreateFileDisk(path, cfg.PageSize, caps.Dir, caps.Leaf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", elkierr.ErrIO, err)
	}
	return bootstrapTree(cfg.DistanceFunction, disk, cfg.CacheSize, caps, true)
}

// InitFromFile reopens a tree previously created with InitNewFile and
// closed (spec §6 init_from_file(path, cache_size)). Capacities are
// recovered from the file header rather than re-derived, so callers never
// need to remember the original page size.
func InitFromFile[D distance.Value](fn distance.Function[D], path string, cacheSize int) (*MetricTree[D], error) {
	disk, err := page.OpenFileDisk(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", elkierr.ErrIO, err)
	}
	caps := Capacities{Dir: disk.DirCapacity(), Leaf: disk.LeafCapacity()}
	return bootstrapTree(fn, disk, cacheSize, caps, false)
}

func bootstrapTree[D distance.Value](fn distance.Function[D], disk page.Disk, cacheSize int, caps Capacities, fresh bool) (*MetricTree[D], error) {
	c := cache.New(disk, cacheSize)
	t := &MetricTree[D]{cache: c, fn: fn, capacities: caps}

	if fresh {
		root := NewLeafNode[D](caps.Leaf)
		if err := t.writeNode(root); err != nil {
			return nil, err
		}
		if root.NodeID != RootID {
			return nil, fmt.Errorf("%w: expected initial root at page %d, got %d", elkierr.ErrIO, RootID, root.NodeID)
		}
	}

	t.initialized = true
	return t, nil
}

// Close flushes the cache and closes the underlying page store (spec §6
// close()).
func (t *MetricTree[D]) Close() error {
	if !t.initialized {
		return elkierr.ErrNotInitialized
	}
	return t.cache.Close()
}

// IOAccessCount returns the number of physical page reads/writes since the
// last reset (spec §6 io_access_count()).
func (t *MetricTree[D]) IOAccessCount() uint64 {
	return t.cache.IOAccessCount()
}

// ResetIOAccessCount zeroes the I/O counter (spec §6
// reset_io_access_count()).
func (t *MetricTree[D]) ResetIOAccessCount() {
	t.cache.ResetIOAccessCount()
}

// Delete always fails: deletion is an explicit non-goal (spec §1, §6, §8
// scenario 6).
func (t *MetricTree[D]) Delete(distance.ObjectID) error {
	return elkierr.ErrUnsupportedOperation
}

// ReverseKNNQuery always fails: reverse-kNN is an explicit non-goal (spec
// §1, §6).
func (t *MetricTree[D]) ReverseKNNQuery(distance.ObjectID, int) error {
	return elkierr.ErrUnsupportedOperation
}

func (t *MetricTree[D]) readNode(id page.ID) (*Node[D], error) {
	p, err := t.cache.Get(id)
	if err != nil {
		return nil, fmt.Errorf("%w: reading node %d: %v", elkierr.ErrIO, id, err)
	}
	n, err := DecodeNode(p.Data, t.fn, t.capacities.Dir, t.capacities.Leaf)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding node %d: %v", elkierr.ErrIO, id, err)
	}
	return n, nil
}

func (t *MetricTree[D]) writeNode(n *Node[D]) error {
	buf, err := EncodeNode(n, t.fn, t.cache.PageSize())
	if err != nil {
		return fmt.Errorf("%w: encoding node: %v", elkierr.ErrIO, err)
	}

	if n.NodeID == page.NoPage {
		p, err := t.cache.NewPage(buf)
		if err != nil {
			return fmt.Errorf("%w: allocating node page: %v", elkierr.ErrIO, err)
		}
		n.NodeID = p.ID

		// The page was encoded before its id was known; store it again so
		// the node_id field on the page matches the page it lives on.
		if buf, err = EncodeNode(n, t.fn, t.cache.PageSize()); err != nil {
			return fmt.Errorf("%w: encoding node: %v", elkierr.ErrIO, err)
		}
	}

	if err := t.cache.Put(n.NodeID, &page.Page{ID: n.NodeID, Data: buf}, true); err != nil {
		return fmt.Errorf("%w: writing node %d: %v", elkierr.ErrIO, n.NodeID, err)
	}
	return nil
}

// absDiff returns |a-b| under D's total order.
func absDiff[D distance.Value](a, b D) D {
	if a >= b {
		return a - b
	}
	return b - a
}

// entryObject returns the representative object of entry i in n: the
// object id for a leaf entry, the routing object id for a directory entry.
func entryObject[D distance.Value](n *Node[D], i int) distance.ObjectID {
	if n.IsLeaf {
		return n.Leaves[i].ObjectID
	}
	return n.Dirs[i].RoutingObjectID
}
