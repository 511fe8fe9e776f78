// Package segment reassembles a multi-part Kafka message back into a
// single payload. A trace blob for a busy block can exceed Kafka's
// per-message size limit, so the producer splits it into
// totalSegments ordered segments sharing one (producerID, blockNumber)
// key; this package is the consumer-side inverse.
//
// Grounded on original_source/klaytnetl/service/segment.py's
// insert_segment/handle_buffered_messages: a FIFO list of
// in-progress runs, each keyed by (key, producerID), filled strictly in
// segment_idx order; a run only drains once every segment has arrived,
// and draining only inspects the head of the queue so gaps block later
// runs from completing out of order.
package segment

import "github.com/kaiachain/chainetl/log"

var logger = log.NewModuleLogger("segment")

// Segment is one piece of a split Kafka message.
type Segment struct {
	Key            uint64 // block number
	Value          []byte
	TotalSegments  int
	SegmentIndex   int
	ProducerID     string
}

// Reassembled is a fully reassembled message: every segment's Value
// concatenated in order.
type Reassembled struct {
	BlockNumber uint64
	Payload     []byte
	Segments    []Segment
}

// Buffer accumulates in-progress segment runs, one per (key, producerID)
// pair, in FIFO arrival order.
type Buffer struct {
	runs [][]Segment
}

// NewBuffer returns an empty reassembly buffer.
func NewBuffer() *Buffer { return &Buffer{} }

// Insert adds a segment to its run, creating a new run if it starts one
// (segment_idx == 0) and otherwise appending to the run matching its key
// and producer, in the order described in segment.py. Out-of-order and
// duplicate segments are dropped, with a warning, matching the Python
// original's print-and-continue behavior: a single malformed producer
// should not stall every other run in the buffer.
func (b *Buffer) Insert(s Segment) {
	for i, run := range b.runs {
		if len(run) == 0 {
			continue
		}
		if run[0].Key != s.Key || run[0].ProducerID != s.ProducerID {
			continue
		}
		numBuffered := len(run)
		if s.SegmentIndex > numBuffered {
			logger.Warn("segment gap, dropping run head mismatch",
				"key", s.Key, "producerID", s.ProducerID,
				"numBuffered", numBuffered, "segmentIndex", s.SegmentIndex)
			return
		}
		if s.SegmentIndex < numBuffered {
			logger.Warn("duplicate segment, dropping",
				"key", s.Key, "producerID", s.ProducerID, "segmentIndex", s.SegmentIndex)
			return
		}
		b.runs[i] = append(b.runs[i], s)
		return
	}

	if s.SegmentIndex == 0 {
		b.runs = append(b.runs, []Segment{s})
		return
	}
	logger.Warn("segment for unknown run, dropping",
		"key", s.Key, "producerID", s.ProducerID, "segmentIndex", s.SegmentIndex)
}

// Drain pops every run at the front of the buffer that has collected all
// of its segments, in FIFO order, stopping at the first incomplete run
// (a gap anywhere blocks every run behind it from draining, matching the
// Python original's early return).
func (b *Buffer) Drain() []Reassembled {
	var out []Reassembled
	for len(b.runs) > 0 {
		head := b.runs[0]
		if len(head) == 0 || len(head) != head[0].TotalSegments {
			return out
		}

		var payload []byte
		for _, s := range head {
			payload = append(payload, s.Value...)
		}
		out = append(out, Reassembled{
			BlockNumber: head[0].Key,
			Payload:     payload,
			Segments:    head,
		})
		b.runs = b.runs[1:]
	}
	return out
}

// Len reports how many runs (complete or not) are currently buffered.
func (b *Buffer) Len() int { return len(b.runs) }
