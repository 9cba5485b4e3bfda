package page

import "fmt"

// MemoryDisk is a RAM-backed Disk. It never touches the filesystem;
// Close does nothing, and pages stay readable after it. Adapted from the teacher's RAMDisk
// (kv/ram_disk.go), generalized to a configurable page size.
type MemoryDisk struct {
	pageSize   int
	nextPageID ID
	pages      map[ID]*Page
	ioAccess   uint64
}

// NewMemoryDisk builds an empty memory-backed disk with the given page
// size.
func NewMemoryDisk(pageSize int) *MemoryDisk {
	return &MemoryDisk{
		pageSize: pageSize,
		pages:    make(map[ID]*Page),
	}
}

func (d *MemoryDisk) PageSize() int { return d.pageSize }

func (d *MemoryDisk) ReadPage(id ID) (*Page, error) {
	d.ioAccess++

	p, ok := d.pages[id]
	if !ok {
		return nil, fmt.Errorf("page: no page with id %d in memory disk", id)
	}

	// Return a copy so callers cannot mutate the disk's backing store
	// without going through WritePage.
	data := make([]byte, len(p.Data))
	copy(data, p.Data)
	return &Page{ID: id, Data: data}, nil
}

func (d *MemoryDisk) WritePage(p *Page) error {
	d.ioAccess++

	if p.ID == NoPage {
		p.ID = d.nextPageID
		d.nextPageID++
	} else if p.ID >= d.nextPageID {
		d.nextPageID = p.ID + 1
	}

	data := make([]byte, len(p.Data))
	copy(data, p.Data)
	d.pages[p.ID] = &Page{ID: p.ID, Data: data}

	return nil
}

func (d *MemoryDisk) Close() error { return nil }

func (d *MemoryDisk) IOAccessCount() uint64 { return d.ioAccess }

func (d *MemoryDisk) ResetIOAccessCount() { d.ioAccess = 0 }
