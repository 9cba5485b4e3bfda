// Package elkierr collects the sentinel errors surfaced by the metric index
// core to its callers.
package elkierr

import "errors"

var (
	// ErrNotInitialized is returned when an operation is attempted on a
	// tree that has not been through init_from_file/init_in_memory.
	ErrNotInitialized = errors.New("elki: tree not initialized")

	// ErrInvalidCapacity is returned at construction time when the page
	// size is too small to fit even a single entry per node.
	ErrInvalidCapacity = errors.New("elki: page size too small for capacity derivation")

	// ErrUnsupportedOperation is returned for operations the core
	// permanently rejects: deletion and reverse-kNN.
	ErrUnsupportedOperation = errors.New("elki: operation not supported")

	// ErrInvalidArgument is returned for malformed call arguments, e.g.
	// k < 1 for a kNN query.
	ErrInvalidArgument = errors.New("elki: invalid argument")

	// ErrIO is returned when a page read or write fails. It is fatal to
	// the operation that triggered it; the tree does not roll back.
	ErrIO = errors.New("elki: io error")

	// ErrInvariant is never raised by a public operation. It is returned
	// only by the diagnostic invariant checker.
	ErrInvariant = errors.New("elki: invariant violated")
)
