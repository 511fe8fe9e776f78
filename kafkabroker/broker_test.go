package kafkabroker

import (
	"testing"

	"github.com/Shopify/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint64BytesRoundTrips(t *testing.T) {
	assert.Equal(t, uint64(42), bytesUint64(uint64Bytes(42)))
	assert.Equal(t, uint64(0), bytesUint64(uint64Bytes(0)))
}

func TestBytesUint64RejectsWrongLength(t *testing.T) {
	assert.Equal(t, uint64(0), bytesUint64([]byte{1, 2, 3}))
}

func TestDecodeSegmentReadsHeadersAndKey(t *testing.T) {
	msg := &sarama.ConsumerMessage{
		Key:    []byte("81165353"),
		Value:  []byte("payload-chunk"),
		Offset: 7,
		Headers: []*sarama.RecordHeader{
			{Key: []byte(headerTotalSegments), Value: uint64Bytes(3)},
			{Key: []byte(headerSegmentIdx), Value: uint64Bytes(1)},
			{Key: []byte(headerProducerID), Value: []byte("producer-a")},
		},
	}

	seg, err := decodeSegment(msg)
	require.NoError(t, err)
	assert.Equal(t, uint64(81165353), seg.Key)
	assert.Equal(t, []byte("payload-chunk"), seg.Value)
	assert.Equal(t, 3, seg.TotalSegments)
	assert.Equal(t, 1, seg.SegmentIndex)
	assert.Equal(t, "producer-a", seg.ProducerID)
}

func TestDecodeSegmentRejectsNonNumericKey(t *testing.T) {
	msg := &sarama.ConsumerMessage{Key: []byte("not-a-number")}
	_, err := decodeSegment(msg)
	assert.Error(t, err)
}
