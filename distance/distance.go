// Package distance defines the pluggable distance-function contract
// consumed by the metric index core (spec §4.1). The core itself never
// assumes vector coordinates; it only ever calls through this interface.
package distance

import "golang.org/x/exp/constraints"

// ObjectID identifies an object in the surrounding database. The tree never
// copies object payloads, only ids; distances between objects are always
// computed on demand via a Function. Stored on disk as a 4-byte field,
// matching the capacity arithmetic of spec §4.5 (which assumes 4 bytes per
// object/node id reference).
type ObjectID uint32

// Value is the type constraint satisfied by a distance function's distance
// type D. The core relies on D supporting a total order plus the native +
// and - operators (the latter only ever invoked by the core when the
// minuend is not smaller than the subtrahend, or through SaturatingSub).
type Value interface {
	constraints.Float | constraints.Integer
}

// Function is the contract the core consumes for a given metric space. A
// correct Function must be symmetric (d(a,b) == d(b,a)), non-negative, and
// satisfy the triangle inequality; every pruning decision in range and kNN
// search depends on the triangle inequality holding.
type Function[D Value] interface {
	// Distance returns d(a, b).
	Distance(a, b ObjectID) D

	// Null returns the additive identity, typically the zero value.
	Null() D

	// Infinite returns a value greater than any distance this function
	// can produce.
	Infinite() D

	// Parse parses a distance value expressed as text, e.g. a range
	// query's radius given as a command-line argument.
	Parse(text string) (D, error)

	// SerializedSize returns the number of bytes Encode writes.
	SerializedSize() int

	// Encode writes v into buf, which is guaranteed to be at least
	// SerializedSize() bytes long.
	Encode(buf []byte, v D)

	// Decode reads a value previously written by Encode from buf.
	Decode(buf []byte) D
}

// Max returns the larger of a and b under D's total order.
func Max[D Value](a, b D) D {
	if a >= b {
		return a
	}
	return b
}

// Min returns the smaller of a and b under D's total order.
func Min[D Value](a, b D) D {
	if a <= b {
		return a
	}
	return b
}

// SaturatingSub returns a-b, clamped to zero if the caller passed b > a.
// The spec requires callers to only ever invoke "-" with a >= b; this is a
// defensive floor for the cases (enlargement deltas, lower bounds) where a
// rounding or adversarial distance function could otherwise drive the
// result negative.
func SaturatingSub[D Value](a, b D) D {
	if a < b {
		var zero D
		return zero
	}
	return a - b
}
