package mapper

import "github.com/kaiachain/chainetl/domain"

// TraceToRecord ports trace_mapper.py's trace_to_dict. The trace itself is
// produced by package tracewalk's DFS, not decoded wire-JSON directly, so
// there is no matching *FromWire counterpart here.
func TraceToRecord(tr domain.Trace) map[string]interface{} {
	return map[string]interface{}{
		"type":                       "trace",
		"block_number":               tr.BlockNumber,
		"block_hash":                 tr.BlockHash,
		"block_timestamp":            domain.BlockTimestamp(tr.BlockTimestamp),
		"block_unix_timestamp":       tr.BlockTimestamp,
		"transaction_hash":           tr.TransactionHash,
		"transaction_index":          tr.TransactionIndex,
		"transaction_receipt_status": tr.TransactionReceiptStatus,
		"trace_index":                tr.TraceIndex,
		"from_address":               tr.FromAddress,
		"to_address":                 tr.ToAddress,
		"value":                      tr.Value,
		"input":                      tr.Input,
		"output":                     tr.Output,
		"trace_type":                 tr.TraceType,
		"call_type":                  tr.CallType,
		"gas":                        tr.Gas,
		"gas_used":                   tr.GasUsed,
		"subtraces":                  tr.Subtraces,
		"trace_address":              tr.TraceAddress,
		"error":                      tr.Error,
		"status":                     tr.Status,
	}
}
