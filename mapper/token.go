package mapper

import "github.com/kaiachain/chainetl/domain"

// TokenToRecord ports token_mapper.py's token_to_dict.
func TokenToRecord(t domain.Token) map[string]interface{} {
	rec := map[string]interface{}{
		"type":         "token",
		"address":      t.Address,
		"block_number": t.BlockNumber,
	}
	if t.Metadata != nil {
		rec["symbol"] = t.Metadata.Symbol
		rec["name"] = t.Metadata.Name
		rec["decimals"] = t.Metadata.Decimals
		rec["total_supply"] = t.Metadata.TotalSupply
	}
	rec["function_sighashes"] = t.FunctionSighashes
	rec["is_erc20"] = t.IsERC20
	rec["is_erc721"] = t.IsERC721
	rec["is_erc1155"] = t.IsERC1155
	rec["block_hash"] = t.BlockHash
	rec["block_unix_timestamp"] = t.BlockTimestamp
	rec["block_timestamp"] = domain.BlockTimestamp(t.BlockTimestamp)
	rec["transaction_hash"] = t.TransactionHash
	rec["transaction_index"] = t.TransactionIndex
	rec["transaction_receipt_status"] = t.TransactionReceiptStatus
	rec["trace_index"] = t.TraceIndex
	rec["trace_status"] = t.TraceStatus
	rec["creator_address"] = t.CreatorAddress
	return rec
}
