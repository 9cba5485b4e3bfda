package mtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MourtazaKASSAMALY/elki/distance"
	"github.com/MourtazaKASSAMALY/elki/elkierr"
)

// newL1Tree builds an in-memory tree over L1 distance with a page size
// small enough to force splits quickly (spec §8 scenario 1: a small
// leaf_capacity/dir_capacity so a handful of inserts already exercises the
// split path).
func newL1Tree(t *testing.T, coords map[distance.ObjectID]int64) (*MetricTree[int64], *distance.L1) {
	t.Helper()
	fn := distance.NewL1(coords)
	tree, err := InitInMemory(Config[int64]{DistanceFunction: fn, PageSize: 40, CacheSize: 64})
	require.NoError(t, err)
	return tree, fn
}

func TestInsert_NotInitializedFails(t *testing.T) {
	var tree MetricTree[int64]
	err := tree.Insert(0)
	assert.ErrorIs(t, err, elkierr.ErrNotInitialized)
}

func TestInsert_SingleObjectIntoEmptyTree(t *testing.T) {
	coords := map[distance.ObjectID]int64{0: 42}
	tree, _ := newL1Tree(t, coords)

	require.NoError(t, tree.Insert(0))
	require.NoError(t, tree.CheckInvariants())

	results, err := tree.RangeQuery(0, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, distance.ObjectID(0), results[0].ObjectID)
}

func TestInsert_0Through9_InvariantsHoldAndKNNMatches(t *testing.T) {
	coords := make(map[distance.ObjectID]int64)
	for i := int64(0); i < 10; i++ {
		coords[distance.ObjectID(i)] = i
	}
	tree, _ := newL1Tree(t, coords)

	for i := distance.ObjectID(0); i < 10; i++ {
		require.NoError(t, tree.Insert(i))
		require.NoError(t, tree.CheckInvariants(), "invariants must hold after every insert")
	}

	// knn_query(5, 3) must return {5,4,6} with distances 0,1,1 (spec §8
	// scenario 1), up to tie-permutation among equidistant objects.
	results, err := tree.KNNQuery(5, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	got := map[distance.ObjectID]int64{}
	for _, r := range results {
		got[r.Object] = r.Distance
	}
	assert.Equal(t, int64(0), got[5])
	assert.Equal(t, int64(1), got[4])
	assert.Equal(t, int64(1), got[6])
}

func TestRangeQuery_MatchesScenario2(t *testing.T) {
	coords := make(map[distance.ObjectID]int64)
	for i := int64(0); i < 10; i++ {
		coords[distance.ObjectID(i)] = i
	}
	tree, _ := newL1Tree(t, coords)
	for i := distance.ObjectID(0); i < 10; i++ {
		require.NoError(t, tree.Insert(i))
	}

	// range_query(5, 2) returns {3,4,5,6,7} ascending by distance (spec §8
	// scenario 2).
	results, err := tree.RangeQuery(5, 2)
	require.NoError(t, err)
	require.Len(t, results, 5)

	wantIDs := []distance.ObjectID{5, 4, 6, 3, 7}
	wantDist := []int64{0, 1, 1, 2, 2}
	gotIDs := make(map[distance.ObjectID]bool)
	for _, r := range results {
		gotIDs[r.ObjectID] = true
	}
	for _, id := range wantIDs {
		assert.True(t, gotIDs[id], "expected object %d in range results", id)
	}
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Distance, results[i].Distance, "results must be ascending by distance")
	}
	assert.Equal(t, wantDist[0], results[0].Distance)
}

func TestKNNQuery_InvalidK(t *testing.T) {
	coords := map[distance.ObjectID]int64{0: 1}
	tree, _ := newL1Tree(t, coords)
	require.NoError(t, tree.Insert(0))

	_, err := tree.KNNQuery(0, 0)
	assert.ErrorIs(t, err, elkierr.ErrInvalidArgument)
}

func TestDelete_Unsupported(t *testing.T) {
	coords := map[distance.ObjectID]int64{0: 1}
	tree, _ := newL1Tree(t, coords)
	require.NoError(t, tree.Insert(0))

	err := tree.Delete(0)
	assert.ErrorIs(t, err, elkierr.ErrUnsupportedOperation)
}

func TestIOAccessCount_IdempotentOnCacheHits(t *testing.T) {
	coords := make(map[distance.ObjectID]int64)
	for i := int64(0); i < 20; i++ {
		coords[distance.ObjectID(i)] = i
	}
	tree, _ := newL1Tree(t, coords)
	for i := distance.ObjectID(0); i < 20; i++ {
		require.NoError(t, tree.Insert(i))
	}

	// Warm the cache with one query, then reset and repeat: an all-hit
	// repeat must not move the counter (spec §8 property 6).
	_, err := tree.RangeQuery(10, 3)
	require.NoError(t, err)

	tree.ResetIOAccessCount()
	_, err = tree.RangeQuery(10, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), tree.IOAccessCount())
}
