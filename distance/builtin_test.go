package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestL1_Distance(t *testing.T) {
	fn := NewL1(map[ObjectID]int64{0: 1, 1: 10, 2: -5})

	assert.Equal(t, int64(9), fn.Distance(0, 1))
	assert.Equal(t, int64(9), fn.Distance(1, 0), "distance must be symmetric")
	assert.Equal(t, int64(6), fn.Distance(0, 2))
	assert.Equal(t, int64(0), fn.Distance(0, 0))
}

func TestL1_EncodeDecodeRoundTrip(t *testing.T) {
	fn := NewL1(nil)
	buf := make([]byte, fn.SerializedSize())

	for _, v := range []int64{0, 1, -1, math.MaxInt64, math.MinInt64} {
		fn.Encode(buf, v)
		require.Equal(t, v, fn.Decode(buf))
	}
}

func TestL1_Parse(t *testing.T) {
	fn := NewL1(nil)

	v, err := fn.Parse("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	_, err = fn.Parse("not-a-number")
	require.Error(t, err)
}

func TestEuclidean2D_Distance(t *testing.T) {
	fn := NewEuclidean2D(map[ObjectID][2]float64{
		0: {0, 0},
		1: {3, 4},
	})

	assert.InDelta(t, 5.0, fn.Distance(0, 1), 1e-9)
	assert.InDelta(t, 5.0, fn.Distance(1, 0), 1e-9)
}

func TestEuclidean2D_EncodeDecodeRoundTrip(t *testing.T) {
	fn := NewEuclidean2D(nil)
	buf := make([]byte, fn.SerializedSize())

	for _, v := range []float64{0, 1.5, -3.25, math.Inf(1)} {
		fn.Encode(buf, v)
		require.Equal(t, v, fn.Decode(buf))
	}
}

func TestMaxMinSaturatingSub(t *testing.T) {
	assert.Equal(t, 5, Max(5, 3))
	assert.Equal(t, 3, Min(5, 3))
	assert.Equal(t, 2, SaturatingSub(5, 3))
	assert.Equal(t, 0, SaturatingSub(3, 5), "must clamp to zero, not go negative")
}
