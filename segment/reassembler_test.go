package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seg(key uint64, idx, total int, producer string, val string) Segment {
	return Segment{Key: key, SegmentIndex: idx, TotalSegments: total, ProducerID: producer, Value: []byte(val)}
}

func TestBufferDrainsOnlyWhenComplete(t *testing.T) {
	b := NewBuffer()
	b.Insert(seg(1, 0, 2, "p1", "ab"))
	assert.Empty(t, b.Drain())

	b.Insert(seg(1, 1, 2, "p1", "cd"))
	out := b.Drain()
	require.Len(t, out, 1)
	assert.Equal(t, uint64(1), out[0].BlockNumber)
	assert.Equal(t, []byte("abcd"), out[0].Payload)
	assert.Equal(t, 0, b.Len())
}

func TestBufferPreservesFIFOOrderAcrossBlocks(t *testing.T) {
	b := NewBuffer()
	b.Insert(seg(1, 0, 1, "p1", "a"))
	b.Insert(seg(2, 0, 1, "p1", "b"))

	out := b.Drain()
	require.Len(t, out, 2)
	assert.Equal(t, uint64(1), out[0].BlockNumber)
	assert.Equal(t, uint64(2), out[1].BlockNumber)
}

func TestBufferBlocksLaterRunsOnGap(t *testing.T) {
	b := NewBuffer()
	b.Insert(seg(1, 0, 2, "p1", "a")) // block 1 incomplete, waiting on segment 1
	b.Insert(seg(2, 0, 1, "p1", "b")) // block 2 complete but behind block 1 in FIFO

	out := b.Drain()
	assert.Empty(t, out, "an incomplete run at the head must block everything behind it")
	assert.Equal(t, 2, b.Len())
}

func TestBufferDropsDuplicateSegment(t *testing.T) {
	b := NewBuffer()
	b.Insert(seg(1, 0, 2, "p1", "a"))
	b.Insert(seg(1, 0, 2, "p1", "dup")) // segmentIndex 0 again, duplicate

	b.Insert(seg(1, 1, 2, "p1", "b"))
	out := b.Drain()
	require.Len(t, out, 1)
	assert.Equal(t, []byte("ab"), out[0].Payload)
}

func TestBufferDropsOutOfOrderGapSegment(t *testing.T) {
	b := NewBuffer()
	b.Insert(seg(1, 0, 3, "p1", "a"))
	b.Insert(seg(1, 2, 3, "p1", "c")) // skips index 1: numBuffered=1, idx=2 > 1

	assert.Equal(t, 1, b.Len())
	b.Insert(seg(1, 1, 3, "p1", "b"))
	b.Insert(seg(1, 2, 3, "p1", "c"))
	out := b.Drain()
	require.Len(t, out, 1)
	assert.Equal(t, []byte("abc"), out[0].Payload)
}

func TestBufferDropsSegmentForUnknownRun(t *testing.T) {
	b := NewBuffer()
	b.Insert(seg(1, 1, 2, "p1", "b")) // no run started yet, idx != 0
	assert.Equal(t, 0, b.Len())
}

func TestBufferDistinguishesProducers(t *testing.T) {
	b := NewBuffer()
	b.Insert(seg(1, 0, 1, "p1", "a"))
	b.Insert(seg(1, 0, 1, "p2", "z"))
	out := b.Drain()
	require.Len(t, out, 2)
}
