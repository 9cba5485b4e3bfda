package pqueue

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MourtazaKASSAMALY/elki/distance"
)

func TestKSmallest_KeepsOnlyKSmallest(t *testing.T) {
	ks := NewKSmallest[int64](3, math.MaxInt64)

	for i, d := range []int64{10, 3, 7, 1, 9, 2} {
		ks.Add(distance.ObjectID(i), d)
	}

	results := ks.Results()
	assert.Len(t, results, 3)

	got := make([]int64, len(results))
	for i, r := range results {
		got[i] = r.Distance
	}
	assert.Equal(t, []int64{1, 2, 3}, got)
}

func TestKSmallest_KthDistanceIsInfiniteUntilFull(t *testing.T) {
	ks := NewKSmallest[int64](3, math.MaxInt64)
	assert.Equal(t, int64(math.MaxInt64), ks.KthDistance())

	ks.Add(0, 5)
	ks.Add(1, 2)
	assert.Equal(t, int64(math.MaxInt64), ks.KthDistance(), "still fewer than k admitted")

	ks.Add(2, 8)
	assert.Equal(t, int64(8), ks.KthDistance(), "now full: kth distance is the worst admitted")
}

func TestKSmallest_FullerBetterCandidateEvictsWorst(t *testing.T) {
	ks := NewKSmallest[int64](2, math.MaxInt64)
	ks.Add(0, 10)
	ks.Add(1, 20)
	assert.Equal(t, int64(20), ks.KthDistance())

	ks.Add(2, 5)
	results := ks.Results()
	sort.Slice(results, func(i, j int) bool { return results[i].Distance < results[j].Distance })

	assert.Equal(t, int64(5), results[0].Distance)
	assert.Equal(t, int64(10), results[1].Distance)
}
