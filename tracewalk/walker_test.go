package tracewalk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hash() string { return "0x" + strings.Repeat("ab", 32) }

func nestedFrame() CallFrame {
	return CallFrame{
		From: "0x" + strings.Repeat("aa", 20), To: "0x" + strings.Repeat("bb", 20),
		Type: "CALL", Value: "0x0", Gas: "0x5208", GasUsed: "0x5208",
		Calls: []CallFrame{
			{From: "0xaa", To: "0xcc", Type: "STATICCALL", Value: "0x0"},
			{
				From: "0xaa", To: "0xdd", Type: "CALL", Value: "0x0", Error: "execution reverted",
				Calls: []CallFrame{
					{From: "0xdd", To: "0xee", Type: "CALL", Value: "0x0"},
				},
			},
		},
	}
}

func TestWalkAssignsSequentialTraceIndex(t *testing.T) {
	traces, err := Walk(1, hash(), 1000, []TransactionTrace{
		{TransactionHash: hash(), TransactionReceiptStatus: 1, Root: nestedFrame()},
	})
	require.NoError(t, err)
	require.Len(t, traces, 4)
	for i, tr := range traces {
		assert.Equal(t, i, tr.TraceIndex)
	}
}

func TestWalkCollapsesCallVariantsAndSetsCallType(t *testing.T) {
	traces, err := Walk(1, hash(), 1000, []TransactionTrace{
		{TransactionHash: hash(), TransactionReceiptStatus: 1, Root: nestedFrame()},
	})
	require.NoError(t, err)
	assert.Equal(t, "call", traces[0].TraceType)
	assert.Equal(t, "call", traces[0].CallType)
	assert.Equal(t, "call", traces[1].TraceType)
	assert.Equal(t, "staticcall", traces[1].CallType)
}

func TestWalkPropagatesRevertedStatusToDescendants(t *testing.T) {
	traces, err := Walk(1, hash(), 1000, []TransactionTrace{
		{TransactionHash: hash(), TransactionReceiptStatus: 1, Root: nestedFrame()},
	})
	require.NoError(t, err)
	// traces[2] is the reverted frame itself, traces[3] its child.
	assert.Equal(t, 0, traces[2].Status)
	assert.Equal(t, 0, traces[3].Status)
	// traces[0] (root) and traces[1] (sibling) are unaffected.
	assert.Equal(t, 1, traces[0].Status)
	assert.Equal(t, 1, traces[1].Status)
}

func TestWalkRenamesSelfdestructToSuicide(t *testing.T) {
	traces, err := Walk(1, hash(), 1000, []TransactionTrace{
		{TransactionHash: hash(), TransactionReceiptStatus: 1, Root: CallFrame{
			From: "0xaa", To: "0xbb", Type: "SELFDESTRUCT", Value: "0x0",
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "suicide", traces[0].TraceType)
	assert.Empty(t, traces[0].CallType)
}

func TestWalkIterativeMatchesWalk(t *testing.T) {
	txTraces := []TransactionTrace{
		{TransactionHash: hash(), TransactionReceiptStatus: 1, Root: nestedFrame()},
		{TransactionHash: hash(), TransactionReceiptStatus: 1, Root: nestedFrame()},
	}
	recursive, err := Walk(1, hash(), 1000, txTraces)
	require.NoError(t, err)
	iterative, err := WalkIterative(1, hash(), 1000, txTraces)
	require.NoError(t, err)

	require.Len(t, iterative, len(recursive))
	for i := range recursive {
		assert.Equal(t, recursive[i].TraceIndex, iterative[i].TraceIndex)
		assert.Equal(t, recursive[i].TraceAddress, iterative[i].TraceAddress)
		assert.Equal(t, recursive[i].Status, iterative[i].Status)
		assert.Equal(t, recursive[i].TraceType, iterative[i].TraceType)
	}
}

// TestWalkNumbersTraceIndexContinuouslyAcrossTransactions guards against a
// block-scoped counter reset: each transaction's trace_index must pick up
// where the previous transaction's left off, not restart or reuse it.
func TestWalkNumbersTraceIndexContinuouslyAcrossTransactions(t *testing.T) {
	singleFrame := CallFrame{From: "0xaa", To: "0xbb", Type: "CALL", Value: "0x0"}
	traces, err := Walk(1, hash(), 1000, []TransactionTrace{
		{TransactionHash: hash(), TransactionReceiptStatus: 1, Root: singleFrame},
		{TransactionHash: hash(), TransactionReceiptStatus: 1, Root: singleFrame},
	})
	require.NoError(t, err)
	require.Len(t, traces, 2)
	assert.Equal(t, 0, traces[0].TraceIndex)
	assert.Equal(t, 1, traces[1].TraceIndex)
}

func TestWalkAssignsTraceAddressPath(t *testing.T) {
	traces, err := Walk(1, hash(), 1000, []TransactionTrace{
		{TransactionHash: hash(), TransactionReceiptStatus: 1, Root: nestedFrame()},
	})
	require.NoError(t, err)
	assert.Empty(t, traces[0].TraceAddress)
	assert.Equal(t, []int{0}, traces[1].TraceAddress)
	assert.Equal(t, []int{1}, traces[2].TraceAddress)
	assert.Equal(t, []int{1, 0}, traces[3].TraceAddress)
}
