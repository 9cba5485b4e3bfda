package mtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MourtazaKASSAMALY/elki/distance"
	"github.com/MourtazaKASSAMALY/elki/elkierr"
)

func TestDeriveCapacities(t *testing.T) {
	fn := distance.NewL1(nil) // 8-byte distances

	caps, err := DeriveCapacities(40, fn)
	require.NoError(t, err)
	assert.Equal(t, 3, caps.Leaf)
	assert.Equal(t, 2, caps.Dir)
}

func TestDeriveCapacities_FailsFastWhenTooSmall(t *testing.T) {
	fn := distance.NewL1(nil)

	_, err := DeriveCapacities(13, fn)
	assert.ErrorIs(t, err, elkierr.ErrInvalidCapacity)
}
