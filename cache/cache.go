// Package cache implements the bounded LRU cache that sits in front of a
// page.Disk (spec §4.2): "a bounded LRU in front of the PageFile. Dirty
// evictions write back."
package cache

import (
	"container/list"
	"fmt"

	"github.com/MourtazaKASSAMALY/elki/page"
)

// entry is one cached page plus its dirty flag.
type entry struct {
	id    page.ID
	p     *page.Page
	dirty bool
}

// Cache is a bounded LRU cache in front of a page.Disk. Evicting a dirty
// entry writes it through to the underlying disk.
//
// Unlike the teacher's BufferPool (kv/bufferpool.go), which tracked
// recency with per-frame time.Now() timestamps (kv/lru_cache.go), eviction
// order here is driven by an explicit doubly linked list. The core is
// single-threaded and cooperative (spec §5), so there is no concurrent
// access to guard against, but timestamp-based recency can tie when two
// operations land in the same clock tick, which would make eviction order —
// and therefore the I/O-access counter — depend on wall-clock jitter. The
// spec's design notes (§9) call out exactly this requirement: "the cache
// must be deterministic under the same insertion order to make I/O-counter
// tests stable." A list gives that deterministically and in O(1).
type Cache struct {
	disk     page.Disk
	capacity int
	order    *list.List // front = most recently used
	index    map[page.ID]*list.Element
}

// New builds a cache of the given page capacity in front of disk.
func New(disk page.Disk, capacity int) *Cache {
	return &Cache{
		disk:     disk,
		capacity: capacity,
		order:    list.New(),
		index:    make(map[page.ID]*list.Element, capacity),
	}
}

// Get fetches a page by id, from cache if present (a hit, no disk access),
// else from the underlying disk (a miss, which is then cached).
func (c *Cache) Get(id page.ID) (*page.Page, error) {
	if el, ok := c.index[id]; ok {
		c.order.MoveToFront(el)
		return el.Value.(*entry).p, nil
	}

	p, err := c.disk.ReadPage(id)
	if err != nil {
		return nil, err
	}

	if err := c.install(id, p, false); err != nil {
		return nil, err
	}

	return p, nil
}

// Put installs or refreshes a page in the cache, e.g. after mutating a page
// previously returned by Get. dirty is OR'd with any existing dirty flag —
// a page already dirty from an earlier write stays dirty.
func (c *Cache) Put(id page.ID, p *page.Page, dirty bool) error {
	if el, ok := c.index[id]; ok {
		e := el.Value.(*entry)
		e.p = p
		e.dirty = e.dirty || dirty
		c.order.MoveToFront(el)
		return nil
	}

	return c.install(id, p, dirty)
}

// NewPage allocates a fresh page on the underlying disk, assigning it an
// id, and caches it.
func (c *Cache) NewPage(data []byte) (*page.Page, error) {
	p := &page.Page{ID: page.NoPage, Data: data}
	if err := c.disk.WritePage(p); err != nil {
		return nil, err
	}
	if err := c.install(p.ID, p, false); err != nil {
		return nil, err
	}
	return p, nil
}

func (c *Cache) install(id page.ID, p *page.Page, dirty bool) error {
	if c.order.Len() >= c.capacity {
		if err := c.evictOne(); err != nil {
			return err
		}
	}

	el := c.order.PushFront(&entry{id: id, p: p, dirty: dirty})
	c.index[id] = el
	return nil
}

func (c *Cache) evictOne() error {
	back := c.order.Back()
	if back == nil {
		return fmt.Errorf("cache: capacity %d is too small to hold a single page", c.capacity)
	}

	e := back.Value.(*entry)
	if e.dirty {
		if err := c.disk.WritePage(e.p); err != nil {
			return fmt.Errorf("cache: flushing evicted page %d: %w", e.id, err)
		}
	}

	c.order.Remove(back)
	delete(c.index, e.id)
	return nil
}

// Flush writes a specific cached page through to disk if dirty, without
// evicting it.
func (c *Cache) Flush(id page.ID) error {
	el, ok := c.index[id]
	if !ok {
		return nil
	}

	e := el.Value.(*entry)
	if !e.dirty {
		return nil
	}

	if err := c.disk.WritePage(e.p); err != nil {
		return fmt.Errorf("cache: flushing page %d: %w", id, err)
	}
	e.dirty = false

	return nil
}

// Close flushes every dirty cached page and closes the underlying disk. A
// dirty page is flushed on eviction and on Close (spec §5).
func (c *Cache) Close() error {
	for el := c.order.Front(); el != nil; el = el.Next() {
		e := el.Value.(*entry)
		if e.dirty {
			if err := c.disk.WritePage(e.p); err != nil {
				return fmt.Errorf("cache: flushing page %d on close: %w", e.id, err)
			}
			e.dirty = false
		}
	}

	return c.disk.Close()
}

// PageSize returns the underlying disk's fixed page size.
func (c *Cache) PageSize() int { return c.disk.PageSize() }

// IOAccessCount returns the underlying disk's physical I/O counter. Cache
// hits never reach the disk, so this only counts misses and writes.
func (c *Cache) IOAccessCount() uint64 { return c.disk.IOAccessCount() }

// ResetIOAccessCount resets the underlying disk's I/O counter.
func (c *Cache) ResetIOAccessCount() { c.disk.ResetIOAccessCount() }
