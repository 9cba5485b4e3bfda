package distance

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// L1 is an L1 (Manhattan) distance function over integer-coordinate objects
// registered by the caller. It is one of the trivial distance functions the
// spec asks for to exercise the core without assuming a specific metric
// (§4.1, §8 scenario 1).
type L1 struct {
	coords map[ObjectID]int64
}

// NewL1 builds an L1 distance function over the supplied coordinates.
func NewL1(coords map[ObjectID]int64) *L1 {
	return &L1{coords: coords}
}

// Register adds or overwrites the coordinate of an object.
func (f *L1) Register(id ObjectID, coord int64) {
	f.coords[id] = coord
}

func (f *L1) Distance(a, b ObjectID) int64 {
	d := f.coords[a] - f.coords[b]
	if d < 0 {
		return -d
	}
	return d
}

func (f *L1) Null() int64     { return 0 }
func (f *L1) Infinite() int64 { return math.MaxInt64 }

func (f *L1) Parse(text string) (int64, error) {
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("distance: parsing L1 radius %q: %w", text, err)
	}
	return v, nil
}

func (f *L1) SerializedSize() int { return 8 }

func (f *L1) Encode(buf []byte, v int64) {
	binary.BigEndian.PutUint64(buf, uint64(v))
}

func (f *L1) Decode(buf []byte) int64 {
	return int64(binary.BigEndian.Uint64(buf))
}

// Euclidean2D is a Euclidean distance function over 2-D float coordinates.
// The second trivial distance function the spec's test scenarios exercise
// (§8 scenario 3: "100 random 2-D points under Euclidean distance").
type Euclidean2D struct {
	coords map[ObjectID][2]float64
}

// NewEuclidean2D builds a Euclidean distance function over the supplied
// coordinates.
func NewEuclidean2D(coords map[ObjectID][2]float64) *Euclidean2D {
	return &Euclidean2D{coords: coords}
}

// Register adds or overwrites the coordinate of an object.
func (f *Euclidean2D) Register(id ObjectID, coord [2]float64) {
	f.coords[id] = coord
}

func (f *Euclidean2D) Distance(a, b ObjectID) float64 {
	ca, cb := f.coords[a], f.coords[b]
	dx := ca[0] - cb[0]
	dy := ca[1] - cb[1]
	return math.Sqrt(dx*dx + dy*dy)
}

func (f *Euclidean2D) Null() float64     { return 0 }
func (f *Euclidean2D) Infinite() float64 { return math.Inf(1) }

func (f *Euclidean2D) Parse(text string) (float64, error) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("distance: parsing Euclidean radius %q: %w", text, err)
	}
	return v, nil
}

func (f *Euclidean2D) SerializedSize() int { return 8 }

func (f *Euclidean2D) Encode(buf []byte, v float64) {
	binary.BigEndian.PutUint64(buf, math.Float64bits(v))
}

func (f *Euclidean2D) Decode(buf []byte) float64 {
	return math.Float64frombits(binary.BigEndian.Uint64(buf))
}
