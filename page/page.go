// Package page implements the page-file abstraction of the metric index
// core (spec §4.2): a keyed store mapping integer page ids to fixed-size
// node pages, backed either by memory or by a file with a header.
//
// This package knows nothing about nodes, entries, or distances — it deals
// exclusively in opaque, fixed-size byte pages. Node (de)serialization is
// the mtree package's concern.
package page

import "math"

// ID identifies a page within a Disk. Node id 0 is reserved for the tree
// root (spec §3 invariant 1; see also §9's design note on replacing the
// source's root sentinel object with the plain integer constant 0).
type ID uint32

// NoPage is the sentinel used for "no such page": the id of a page not yet
// written (WritePage assigns a fresh id to it), and the page file header's
// free-list head, which never references a live page since the core has no
// delete operation (spec §1 non-goals).
const NoPage ID = math.MaxUint32

// Page is a single fixed-size block: a page id plus its raw payload.
type Page struct {
	ID   ID
	Data []byte
}

// Disk is the keyed page store contract. Implementations are either
// memory-backed or file-backed (spec §4.2).
type Disk interface {
	// ReadPage reads the page with the given id.
	ReadPage(id ID) (*Page, error)

	// WritePage writes the page. If page.ID is NoPage, a fresh id is
	// assigned and written back into page.ID.
	WritePage(page *Page) error

	// Close flushes any pending state and releases underlying resources.
	Close() error

	// PageSize returns the fixed payload size of a page on this disk.
	PageSize() int

	// IOAccessCount returns the number of physical read/write operations
	// performed since the last reset. This is the system's observability
	// primitive for benchmarks (spec §4.2).
	IOAccessCount() uint64

	// ResetIOAccessCount resets the counter to zero.
	ResetIOAccessCount()
}
