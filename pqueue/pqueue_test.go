package pqueue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MourtazaKASSAMALY/elki/page"
)

func TestPQ_PopsInAscendingLowerBoundOrder(t *testing.T) {
	pq := New[int64]()
	pq.Push(Candidate[int64]{LowerBound: 5, NodeID: page.ID(1)})
	pq.Push(Candidate[int64]{LowerBound: 1, NodeID: page.ID(2)})
	pq.Push(Candidate[int64]{LowerBound: 3, NodeID: page.ID(3)})

	var order []int64
	for pq.Len() > 0 {
		c, ok := pq.Pop()
		assert.True(t, ok)
		order = append(order, c.LowerBound)
	}
	assert.Equal(t, []int64{1, 3, 5}, order)
}

func TestPQ_PopOnEmptyReturnsFalse(t *testing.T) {
	pq := New[int64]()
	_, ok := pq.Pop()
	assert.False(t, ok)
}
