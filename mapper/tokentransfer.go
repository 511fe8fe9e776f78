package mapper

import "github.com/kaiachain/chainetl/domain"

// TokenTransferToRecord ports token_transfer_mapper.py's token_transfer_to_dict.
func TokenTransferToRecord(tt domain.TokenTransfer) map[string]interface{} {
	return map[string]interface{}{
		"type":                       "token_transfer",
		"token_address":              tt.TokenAddress,
		"from_address":               tt.FromAddress,
		"to_address":                 tt.ToAddress,
		"value":                      tt.Value,
		"log_index":                  tt.LogIndex,
		"transaction_hash":           tt.TransactionHash,
		"transaction_index":          tt.TransactionIndex,
		"block_hash":                 tt.BlockHash,
		"block_number":               tt.BlockNumber,
		"block_timestamp":            domain.BlockTimestamp(tt.BlockTimestamp),
		"block_unix_timestamp":       tt.BlockTimestamp,
		"transaction_receipt_status": tt.TransactionReceiptStatus,
	}
}
