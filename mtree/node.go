package mtree

import (
	"encoding/binary"
	"fmt"

	"github.com/MourtazaKASSAMALY/elki/distance"
	"github.com/MourtazaKASSAMALY/elki/page"
)

// headerOverhead is the fixed per-page header: a 4-byte reserved field
// (room for future format metadata, currently always zero), num_entries
// (4), node_id (4), is_leaf (1). Spec §4.3: "Page overhead is index(4) +
// numEntries(4) + id(4) + isLeaf(1) bytes (rounded up to 13)."
const headerOverhead = 4 + 4 + 4 + 1

// Node is a page-sized container of entries of a single variant (spec §3).
// Only Leaves or Dirs is populated, matching IsLeaf; both are always
// allocated to Capacity length so index access for i < NumEntries never
// needs a bounds check against a shorter backing array.
type Node[D distance.Value] struct {
	IsLeaf     bool
	NodeID     page.ID
	NumEntries int
	Capacity   int

	Leaves []LeafEntry[D]
	Dirs   []DirectoryEntry[D]
}

// NewLeafNode builds an empty leaf node of the given capacity. NodeID is
// page.NoPage until the node is first written.
func NewLeafNode[D distance.Value](capacity int) *Node[D] {
	return &Node[D]{IsLeaf: true, NodeID: page.NoPage, Capacity: capacity, Leaves: make([]LeafEntry[D], capacity)}
}

// NewDirectoryNode builds an empty directory node of the given capacity.
func NewDirectoryNode[D distance.Value](capacity int) *Node[D] {
	return &Node[D]{IsLeaf: false, NodeID: page.NoPage, Capacity: capacity, Dirs: make([]DirectoryEntry[D], capacity)}
}

// Full reports whether the node is overflowing (spec §3: "A node is
// overflowing when num_entries == capacity").
func (n *Node[D]) Full() bool { return n.NumEntries == n.Capacity }

// AddLeafEntry appends e, incrementing NumEntries. Preconditions: n is a
// leaf node and not full (spec §4.3).
func (n *Node[D]) AddLeafEntry(e LeafEntry[D]) error {
	if !n.IsLeaf {
		return fmt.Errorf("mtree: cannot add a leaf entry to a directory node")
	}
	if n.Full() {
		return fmt.Errorf("mtree: node %d is full", n.NodeID)
	}
	n.Leaves[n.NumEntries] = e
	n.NumEntries++
	return nil
}

// AddDirectoryEntry appends e, incrementing NumEntries. Preconditions: n is
// a directory node and not full (spec §4.3).
func (n *Node[D]) AddDirectoryEntry(e DirectoryEntry[D]) error {
	if n.IsLeaf {
		return fmt.Errorf("mtree: cannot add a directory entry to a leaf node")
	}
	if n.Full() {
		return fmt.Errorf("mtree: node %d is full", n.NodeID)
	}
	n.Dirs[n.NumEntries] = e
	n.NumEntries++
	return nil
}

// leafEntryWidth and dirEntryWidth are the spec §4.5 capacity-formula
// entry widths: object/routing and child ids are 4-byte fields.
func leafEntryWidth(distBytes int) int { return 4 + distBytes }
func dirEntryWidth(distBytes int) int  { return 4 + 4 + 2*distBytes }

// EncodeNode serializes n into a pageSize-byte buffer. Unused entry slots
// are left zero-filled, matching spec §4.3. The capacities of §4.5 leave
// room in a page for Capacity-1 entries, the most a node holds between
// operations; an overflowing node (NumEntries == Capacity) that is about to
// be split is encoded into a buffer one entry longer than pageSize.
func EncodeNode[D distance.Value](n *Node[D], fn distance.Function[D], pageSize int) ([]byte, error) {
	buf := make([]byte, pageSize)

	binary.BigEndian.PutUint32(buf[4:8], uint32(n.NumEntries))
	binary.BigEndian.PutUint32(buf[8:12], uint32(n.NodeID))
	if n.IsLeaf {
		buf[12] = 1
	}

	distBytes := fn.SerializedSize()
	off := headerOverhead

	if n.IsLeaf {
		width := leafEntryWidth(distBytes)
		if off+(n.Capacity-1)*width > len(buf) {
			return nil, fmt.Errorf("mtree: page size %d too small for %d leaf entries of width %d", pageSize, n.Capacity-1, width)
		}
		if need := off + n.NumEntries*width; need > len(buf) {
			buf = append(buf, make([]byte, need-len(buf))...)
		}
		for i := 0; i < n.NumEntries; i++ {
			e := n.Leaves[i]
			start := off + i*width
			binary.BigEndian.PutUint32(buf[start:start+4], uint32(e.ObjectID))
			fn.Encode(buf[start+4:start+4+distBytes], e.ParentDistance)
		}
	} else {
		width := dirEntryWidth(distBytes)
		if off+(n.Capacity-1)*width > len(buf) {
			return nil, fmt.Errorf("mtree: page size %d too small for %d directory entries of width %d", pageSize, n.Capacity-1, width)
		}
		if need := off + n.NumEntries*width; need > len(buf) {
			buf = append(buf, make([]byte, need-len(buf))...)
		}
		for i := 0; i < n.NumEntries; i++ {
			e := n.Dirs[i]
			start := off + i*width
			binary.BigEndian.PutUint32(buf[start:start+4], uint32(e.RoutingObjectID))
			binary.BigEndian.PutUint32(buf[start+4:start+8], uint32(e.ChildNodeID))
			fn.Encode(buf[start+8:start+8+distBytes], e.ParentDistance)
			fn.Encode(buf[start+8+distBytes:start+8+2*distBytes], e.CoveringRadius)
		}
	}

	return buf, nil
}

// DecodeNode deserializes a node page previously written by EncodeNode.
// dirCapacity/leafCapacity must match the tree-wide capacities the page was
// encoded with; which one applies is determined by the decoded is_leaf flag,
// since a page carries no other indication of its variant's capacity.
func DecodeNode[D distance.Value](buf []byte, fn distance.Function[D], dirCapacity, leafCapacity int) (*Node[D], error) {
	if len(buf) < headerOverhead {
		return nil, fmt.Errorf("mtree: page too short to hold a node header: %d bytes", len(buf))
	}

	numEntries := int(binary.BigEndian.Uint32(buf[4:8]))
	nodeID := page.ID(binary.BigEndian.Uint32(buf[8:12]))
	isLeaf := buf[12] != 0

	capacity := dirCapacity
	if isLeaf {
		capacity = leafCapacity
	}

	n := &Node[D]{IsLeaf: isLeaf, NodeID: nodeID, NumEntries: numEntries, Capacity: capacity}

	distBytes := fn.SerializedSize()
	off := headerOverhead

	if isLeaf {
		width := leafEntryWidth(distBytes)
		n.Leaves = make([]LeafEntry[D], capacity)
		for i := 0; i < numEntries; i++ {
			start := off + i*width
			if start+width > len(buf) {
				return nil, fmt.Errorf("mtree: corrupt node %d: entry %d out of bounds", nodeID, i)
			}
			objID := distance.ObjectID(binary.BigEndian.Uint32(buf[start : start+4]))
			d := fn.Decode(buf[start+4 : start+4+distBytes])
			n.Leaves[i] = LeafEntry[D]{ObjectID: objID, ParentDistance: d}
		}
	} else {
		width := dirEntryWidth(distBytes)
		n.Dirs = make([]DirectoryEntry[D], capacity)
		for i := 0; i < numEntries; i++ {
			start := off + i*width
			if start+width > len(buf) {
				return nil, fmt.Errorf("mtree: corrupt node %d: entry %d out of bounds", nodeID, i)
			}
			routingID := distance.ObjectID(binary.BigEndian.Uint32(buf[start : start+4]))
			childID := page.ID(binary.BigEndian.Uint32(buf[start+4 : start+8]))
			pd := fn.Decode(buf[start+8 : start+8+distBytes])
			cr := fn.Decode(buf[start+8+distBytes : start+8+2*distBytes])
			n.Dirs[i] = DirectoryEntry[D]{RoutingObjectID: routingID, ParentDistance: pd, ChildNodeID: childID, CoveringRadius: cr}
		}
	}

	return n, nil
}
