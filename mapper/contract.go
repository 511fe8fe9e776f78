package mapper

import "github.com/kaiachain/chainetl/domain"

// ContractFromEthGetCode ports contract_mapper.py's rpc_result_to_contract:
// an eth_getCode response is just an address and its deployed bytecode
// until package classifier fills in the rest via Contract.Classify.
func ContractFromEthGetCode(address, bytecode string) domain.Contract {
	return domain.Contract{Address: address, Bytecode: bytecode}
}

// ContractToRecord ports contract_mapper.py's contract_to_dict.
func ContractToRecord(c domain.Contract) map[string]interface{} {
	rec := map[string]interface{}{
		"type":         "contract",
		"address":      c.Address,
		"bytecode":     c.Bytecode,
		"block_number": c.BlockNumber,
	}
	if c.Enrichment != nil {
		rec["function_sighashes"] = c.Enrichment.FunctionSighashes
		rec["is_erc20"] = c.Enrichment.IsERC20
		rec["is_erc721"] = c.Enrichment.IsERC721
		rec["is_erc1155"] = c.Enrichment.IsERC1155
	}
	rec["block_hash"] = c.BlockHash
	rec["block_unix_timestamp"] = c.BlockTimestamp
	rec["block_timestamp"] = domain.BlockTimestamp(c.BlockTimestamp)
	rec["transaction_hash"] = c.TransactionHash
	rec["transaction_index"] = c.TransactionIndex
	rec["transaction_receipt_status"] = c.TransactionReceiptStatus
	rec["trace_index"] = c.TraceIndex
	rec["trace_status"] = c.TraceStatus
	rec["creator_address"] = c.CreatorAddress
	return rec
}
