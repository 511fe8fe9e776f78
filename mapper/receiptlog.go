package mapper

import (
	"encoding/json"

	"github.com/kaiachain/chainetl/domain"
)

// ReceiptLogFromWire ports receipt_log_mapper.py's json_dict_to_receipt_log.
func ReceiptLogFromWire(raw json.RawMessage, blockTimestamp float64, txReceiptStatus int) (domain.ReceiptLog, error) {
	var w wireReceiptLog
	if err := json.Unmarshal(raw, &w); err != nil {
		return domain.ReceiptLog{}, err
	}
	return receiptLogFromWireStruct(w, blockTimestamp, txReceiptStatus)
}

func receiptLogFromWireStruct(w wireReceiptLog, blockTimestamp float64, txReceiptStatus int) (domain.ReceiptLog, error) {
	logIndex, err := hexToInt(w.LogIndex)
	if err != nil {
		return domain.ReceiptLog{}, err
	}
	txIndex, err := hexToInt(w.TransactionIndex)
	if err != nil {
		return domain.ReceiptLog{}, err
	}
	blockNumber, err := hexToUint64(w.BlockNumber)
	if err != nil {
		return domain.ReceiptLog{}, err
	}

	return domain.NewReceiptLog(domain.ReceiptLog{
		Address:                  normalizedAddress(w.Address),
		BlockHash:                w.BlockHash,
		BlockNumber:              blockNumber,
		BlockTimestamp:           blockTimestamp,
		Data:                     w.Data,
		Topics:                   w.Topics,
		LogIndex:                 logIndex,
		Removed:                  w.Removed,
		TransactionHash:          w.TransactionHash,
		TransactionIndex:         txIndex,
		TransactionReceiptStatus: txReceiptStatus,
	})
}

// ReceiptLogToRecord ports receipt_log_mapper.py's receipt_log_to_dict.
func ReceiptLogToRecord(l domain.ReceiptLog) map[string]interface{} {
	return map[string]interface{}{
		"type":                       "log",
		"log_index":                  l.LogIndex,
		"transaction_hash":           l.TransactionHash,
		"transaction_index":          l.TransactionIndex,
		"block_hash":                 l.BlockHash,
		"block_number":               l.BlockNumber,
		"block_timestamp":            domain.BlockTimestamp(l.BlockTimestamp),
		"address":                    l.Address,
		"data":                       l.Data,
		"topics":                     l.Topics,
		"removed":                    l.Removed,
		"transaction_receipt_status": l.TransactionReceiptStatus,
	}
}
