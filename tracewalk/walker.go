// Package tracewalk flattens the tree debug_traceBlockByNumber returns
// into the ordered list of domain.Trace rows klaytnetl/mappers/
// trace_mapper.py's _iterate_transaction_trace produces: a pre-order DFS
// that assigns each frame a block-scoped trace_index, a trace_address
// path from the transaction root, and propagates status down from parent
// to child (one reverted ancestor zeroes every descendant).
package tracewalk

import (
	"math/big"
	"strings"

	"github.com/kaiachain/chainetl/common"
	"github.com/kaiachain/chainetl/domain"
)

// CallFrame is one debug_traceBlockByNumber call-tracer node.
type CallFrame struct {
	From    string
	To      string
	Input   string
	Output  string
	Value   string // hex
	Gas     string // hex
	GasUsed string // hex
	Error   string
	Type    string // call/callcode/delegatecall/staticcall/create/create2/selfdestruct/...
	Calls   []CallFrame
}

// TransactionTrace is one element of debug_traceBlockByNumber's result
// array: a transaction hash/status paired with its root call frame.
type TransactionTrace struct {
	TransactionHash          string
	TransactionReceiptStatus int
	Root                     CallFrame
}

// Walk flattens a whole block's worth of per-transaction traces into a
// single ordered slice, numbering trace_index across the entire block
// the way the teacher's counter is threaded across transactions.
func Walk(blockNumber uint64, blockHash string, blockTimestamp float64, txTraces []TransactionTrace) ([]domain.Trace, error) {
	var out []domain.Trace
	counter := 0
	for txIndex, tt := range txTraces {
		frames, next, err := walkFrame(
			blockNumber, txIndex, tt.TransactionHash, tt.TransactionReceiptStatus,
			tt.Root, 1, counter, nil, blockHash, blockTimestamp,
		)
		if err != nil {
			return nil, err
		}
		counter = next + 1
		out = append(out, frames...)
	}
	return out, nil
}

func walkFrame(
	blockNumber uint64, txIndex int, txHash string, txStatus int,
	frame CallFrame, parentStatus, counter int, traceAddress []int,
	blockHash string, blockTimestamp float64,
) ([]domain.Trace, int, error) {
	trace, status, err := buildTrace(
		blockNumber, txIndex, txHash, txStatus, frame, parentStatus, counter,
		traceAddress, blockHash, blockTimestamp,
	)
	if err != nil {
		return nil, 0, err
	}

	result := []domain.Trace{trace}
	next := counter
	for callIndex, call := range frame.Calls {
		childAddr := append(append([]int{}, traceAddress...), callIndex)
		frames, ctr, err := walkFrame(
			blockNumber, txIndex, txHash, txStatus, call, status, next+1,
			childAddr, blockHash, blockTimestamp,
		)
		if err != nil {
			return nil, 0, err
		}
		next = ctr
		result = append(result, frames...)
	}
	return result, next, nil
}

// pendingFrame is one unit of explicit-stack work: a frame still to be
// converted, plus the context the recursive walkFrame would otherwise
// have carried on the Go call stack.
type pendingFrame struct {
	frame        CallFrame
	txIndex      int
	txHash       string
	txStatus     int
	parentStatus int
	traceAddress []int
}

// WalkIterative is the explicit-stack equivalent of Walk, for call trees
// deep enough that a recursive DFS risks the goroutine stack (adversarial
// or pathological contracts can nest calls far deeper than realistic
// trees ever do). Produces byte-identical output to Walk: both are the
// same pre-order DFS, only the control structure differs.
func WalkIterative(blockNumber uint64, blockHash string, blockTimestamp float64, txTraces []TransactionTrace) ([]domain.Trace, error) {
	var out []domain.Trace
	counter := 0

	for txIndex, tt := range txTraces {
		stack := []pendingFrame{{
			frame: tt.Root, txIndex: txIndex, txHash: tt.TransactionHash,
			txStatus: tt.TransactionReceiptStatus, parentStatus: 1, traceAddress: nil,
		}}

		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			trace, status, err := buildTrace(
				blockNumber, cur.txIndex, cur.txHash, cur.txStatus, cur.frame,
				cur.parentStatus, counter, cur.traceAddress, blockHash, blockTimestamp,
			)
			if err != nil {
				return nil, err
			}
			out = append(out, trace)
			counter++

			// push children in reverse so they pop in forward order,
			// preserving the same left-to-right pre-order Walk produces.
			for i := len(cur.frame.Calls) - 1; i >= 0; i-- {
				childAddr := append(append([]int{}, cur.traceAddress...), i)
				stack = append(stack, pendingFrame{
					frame: cur.frame.Calls[i], txIndex: cur.txIndex, txHash: cur.txHash,
					txStatus: cur.txStatus, parentStatus: status, traceAddress: childAddr,
				})
			}
		}
	}
	return out, nil
}

func buildTrace(
	blockNumber uint64, txIndex int, txHash string, txStatus int,
	frame CallFrame, parentStatus, traceIndex int, traceAddress []int,
	blockHash string, blockTimestamp float64,
) (domain.Trace, int, error) {
	value, err := common.HexToBig(frame.Value)
	if err != nil {
		value = zero()
	}
	gas, err := common.HexToBig(frame.Gas)
	if err != nil {
		gas = zero()
	}
	gasUsed, err := common.HexToBig(frame.GasUsed)
	if err != nil {
		gasUsed = zero()
	}

	status := txStatus * parentStatus
	if frame.Error != "" {
		status = 0
	}

	traceType := strings.ToLower(frame.Type)
	var callType string
	switch traceType {
	case "selfdestruct":
		traceType = "suicide"
	case "call", "callcode", "delegatecall", "staticcall":
		callType = traceType
		traceType = "call"
	}

	addr := make([]int, len(traceAddress))
	copy(addr, traceAddress)

	trace, err := domain.NewTrace(domain.Trace{
		TransactionHash:          txHash,
		TransactionIndex:         txIndex,
		TransactionReceiptStatus: txStatus,
		BlockHash:                blockHash,
		BlockNumber:              blockNumber,
		BlockTimestamp:           blockTimestamp,
		TraceIndex:               traceIndex,
		TraceAddress:             addr,
		Subtraces:                len(frame.Calls),
		TraceType:                traceType,
		CallType:                 callType,
		FromAddress:              frame.From,
		ToAddress:                frame.To,
		Value:                    value,
		Gas:                      gas,
		GasUsed:                  gasUsed,
		Input:                    orDefault(frame.Input, "0x"),
		Output:                   orDefault(frame.Output, "0x"),
		Error:                    frame.Error,
		Status:                   status,
	})
	return trace, status, err
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func zero() *big.Int { return new(big.Int) }
