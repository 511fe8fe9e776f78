package domain

import "math/big"

// Trace is a single node of a transaction's call trace, flattened out of
// the tree debug_traceBlockByNumber returns. Grounded on
// klaytnetl/domain/trace.py's KlaytnRawTrace; the walk that produces
// these (pre-order DFS, trace_index/trace_address assignment, status
// propagation, call-variant collapsing) lives in package tracewalk.
type Trace struct {
	TransactionHash          string
	TransactionIndex         int
	TransactionReceiptStatus int
	BlockHash                string
	BlockNumber              uint64
	BlockTimestamp           float64

	TraceIndex   int
	TraceAddress []int // path from the tx root call, e.g. [0, 2, 1]
	Subtraces    int

	// TraceType is "call", "create", "suicide", "reward" or similar;
	// call/callcode/delegatecall/staticcall all collapse to "call" with
	// CallType retaining the original variant.
	TraceType string
	CallType  string

	FromAddress string
	ToAddress   string
	Value       *big.Int
	Gas         *big.Int
	GasUsed     *big.Int
	Input       string
	Output      string

	Error string
	// Status is tx_receipt_status * parent_status * (error == ""), so a
	// single reverted frame anywhere on the path to the root zeroes out
	// every descendant's status.
	Status int
}

// NewTrace validates the required shape of a raw trace frame.
func NewTrace(t Trace) (Trace, error) {
	if err := requireHash("trace.transactionHash", t.TransactionHash); err != nil {
		return Trace{}, err
	}
	if err := requireHash("trace.blockHash", t.BlockHash); err != nil {
		return Trace{}, err
	}
	if err := nonNegativeInt("trace.traceIndex", int64(t.TraceIndex)); err != nil {
		return Trace{}, err
	}
	if t.Status != 0 && t.Status != 1 {
		return Trace{}, &rangeError{field: "trace.status", value: t.Status}
	}
	if t.Value == nil {
		t.Value = new(big.Int)
	}
	return t, nil
}
