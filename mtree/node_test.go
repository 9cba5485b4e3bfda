package mtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MourtazaKASSAMALY/elki/distance"
	"github.com/MourtazaKASSAMALY/elki/page"
)

func TestEncodeDecodeNode_Leaf(t *testing.T) {
	fn := distance.NewL1(nil)

	n := NewLeafNode[int64](4)
	n.NodeID = page.ID(7)
	require.NoError(t, n.AddLeafEntry(LeafEntry[int64]{ObjectID: 1, ParentDistance: 10}))
	require.NoError(t, n.AddLeafEntry(LeafEntry[int64]{ObjectID: 2, ParentDistance: 20}))

	buf, err := EncodeNode(n, fn, 128)
	require.NoError(t, err)

	got, err := DecodeNode[int64](buf, fn, 4, 4)
	require.NoError(t, err)

	assert.True(t, got.IsLeaf)
	assert.Equal(t, page.ID(7), got.NodeID)
	assert.Equal(t, 2, got.NumEntries)
	assert.Equal(t, LeafEntry[int64]{ObjectID: 1, ParentDistance: 10}, got.Leaves[0])
	assert.Equal(t, LeafEntry[int64]{ObjectID: 2, ParentDistance: 20}, got.Leaves[1])
}

func TestEncodeDecodeNode_Directory(t *testing.T) {
	fn := distance.NewL1(nil)

	n := NewDirectoryNode[int64](4)
	n.NodeID = page.ID(3)
	require.NoError(t, n.AddDirectoryEntry(DirectoryEntry[int64]{
		RoutingObjectID: 1, ParentDistance: 5, ChildNodeID: page.ID(10), CoveringRadius: 15,
	}))

	buf, err := EncodeNode(n, fn, 128)
	require.NoError(t, err)

	got, err := DecodeNode[int64](buf, fn, 4, 4)
	require.NoError(t, err)

	assert.False(t, got.IsLeaf)
	assert.Equal(t, 1, got.NumEntries)
	assert.Equal(t, DirectoryEntry[int64]{
		RoutingObjectID: 1, ParentDistance: 5, ChildNodeID: page.ID(10), CoveringRadius: 15,
	}, got.Dirs[0])
}

func TestNode_Full(t *testing.T) {
	n := NewLeafNode[int64](1)
	assert.False(t, n.Full())
	require.NoError(t, n.AddLeafEntry(LeafEntry[int64]{ObjectID: 1}))
	assert.True(t, n.Full())
}

func TestNode_AddWrongVariantFails(t *testing.T) {
	leaf := NewLeafNode[int64](2)
	err := leaf.AddDirectoryEntry(DirectoryEntry[int64]{})
	assert.Error(t, err)

	dir := NewDirectoryNode[int64](2)
	err = dir.AddLeafEntry(LeafEntry[int64]{})
	assert.Error(t, err)
}

func TestNode_AddWhenFullFails(t *testing.T) {
	n := NewLeafNode[int64](1)
	require.NoError(t, n.AddLeafEntry(LeafEntry[int64]{ObjectID: 1}))
	assert.Error(t, n.AddLeafEntry(LeafEntry[int64]{ObjectID: 2}))
}
