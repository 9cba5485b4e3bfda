package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MourtazaKASSAMALY/elki/page"
)

func TestCache_GetIsMissOnceThenHit(t *testing.T) {
	disk := page.NewMemoryDisk(16)
	c := New(disk, 2)

	p, err := c.NewPage(make([]byte, 16))
	require.NoError(t, err)

	disk.ResetIOAccessCount()

	_, err = c.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), c.IOAccessCount(), "a cache hit must not touch the disk")
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	disk := page.NewMemoryDisk(16)
	c := New(disk, 2)

	a, err := c.NewPage(make([]byte, 16))
	require.NoError(t, err)
	b, err := c.NewPage(make([]byte, 16))
	require.NoError(t, err)

	// Touch a so b becomes the least recently used.
	_, err = c.Get(a.ID)
	require.NoError(t, err)

	// Installing a third page must evict b, not a.
	_, err = c.NewPage(make([]byte, 16))
	require.NoError(t, err)

	disk.ResetIOAccessCount()
	_, err = c.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), c.IOAccessCount(), "a should still be cached")

	_, err = c.Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), c.IOAccessCount(), "b should have been evicted and re-read from disk")
}

func TestCache_DirtyEvictionWritesBack(t *testing.T) {
	disk := page.NewMemoryDisk(16)
	c := New(disk, 1)

	p, err := c.NewPage(make([]byte, 16))
	require.NoError(t, err)

	mutated := make([]byte, 16)
	copy(mutated, "mutated content!")
	require.NoError(t, c.Put(p.ID, &page.Page{ID: p.ID, Data: mutated}, true))

	// Force eviction of p by installing a second page into a 1-capacity cache.
	_, err = c.NewPage(make([]byte, 16))
	require.NoError(t, err)

	fromDisk, err := disk.ReadPage(p.ID)
	require.NoError(t, err)
	assert.Equal(t, mutated, fromDisk.Data, "a dirty page must be written through to disk on eviction")
}

func TestCache_CloseFlushesDirtyPages(t *testing.T) {
	disk := page.NewMemoryDisk(16)
	c := New(disk, 4)

	p, err := c.NewPage(make([]byte, 16))
	require.NoError(t, err)

	mutated := make([]byte, 16)
	copy(mutated, "flushed on close")
	require.NoError(t, c.Put(p.ID, &page.Page{ID: p.ID, Data: mutated}, true))
	require.NoError(t, c.Close())

	fromDisk, err := disk.ReadPage(p.ID)
	require.NoError(t, err)
	assert.Equal(t, mutated, fromDisk.Data)
}

func TestCache_IOAccessCountIdempotentOnHits(t *testing.T) {
	disk := page.NewMemoryDisk(16)
	c := New(disk, 8)

	ids := make([]page.ID, 0, 5)
	for i := 0; i < 5; i++ {
		p, err := c.NewPage(make([]byte, 16))
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	c.ResetIOAccessCount()
	for i := 0; i < 3; i++ {
		for _, id := range ids {
			_, err := c.Get(id)
			require.NoError(t, err)
		}
	}
	assert.Equal(t, uint64(0), c.IOAccessCount(), "repeated all-cache-hit reads must not move the I/O counter")
}
