package mapper

import (
	"encoding/json"

	"github.com/kaiachain/chainetl/common"
	"github.com/kaiachain/chainetl/domain"
)

// BlockFromWire ports block_mapper.py's json_dict_to_block. withReceipts
// mirrors is_full_block(json_dict): the embedded transactions only carry
// receipt data (logs, status, gasUsed) when the block was fetched with
// full transaction detail, so receipts are only built in that case.
func BlockFromWire(raw json.RawMessage, withReceipts bool) (domain.Block, error) {
	var w wireBlock
	if err := json.Unmarshal(raw, &w); err != nil {
		return domain.Block{}, err
	}

	number, err := hexToUint64(w.Number)
	if err != nil {
		return domain.Block{}, err
	}
	size, err := hexToUint64(w.Size)
	if err != nil {
		return domain.Block{}, err
	}
	gasUsed, err := common.HexToBig(w.GasUsed)
	if err != nil {
		return domain.Block{}, err
	}
	tsSeconds, err := hexToUint64(w.Timestamp)
	if err != nil {
		return domain.Block{}, err
	}
	tsFoS, _ := hexToUint64(w.TimestampFoS)
	blockScore, _ := optionalBig(w.BlockScore)
	totalBlockScore, _ := optionalBig(w.TotalBlockScore)
	baseFeePerGas, _ := optionalBig(w.BaseFeePerGas)

	var rawTxs []json.RawMessage
	if len(w.Transactions) > 0 {
		if err := json.Unmarshal(w.Transactions, &rawTxs); err != nil {
			return domain.Block{}, err
		}
	}

	// sub-second precision, per the original's
	// hex_to_dec(timestamp)*1.0 + hex_to_dec(timestampFoS)*0.001.
	blockTimestamp := float64(tsSeconds) + float64(tsFoS)*0.001

	transactions := make([]domain.Transaction, 0, len(rawTxs))
	receipts := make([]domain.Receipt, 0, len(rawTxs))
	for _, rawTx := range rawTxs {
		// a transaction hash without further detail (non-full block) is
		// not a JSON object and has no receipt data to map.
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(rawTx, &probe); err != nil {
			continue
		}
		tx, err := TransactionFromWire(rawTx, blockTimestamp)
		if err != nil {
			return domain.Block{}, err
		}
		transactions = append(transactions, tx)

		if withReceipts {
			if _, hasLogs := probe["logs"]; hasLogs {
				receipt, err := ReceiptFromWire(rawTx, blockTimestamp)
				if err != nil {
					return domain.Block{}, err
				}
				receipts = append(receipts, receipt)
			}
		}
	}

	return domain.NewBlock(domain.Block{
		Number:           number,
		Hash:             w.Hash,
		ParentHash:       w.ParentHash,
		LogsBloom:        w.LogsBloom,
		TransactionsRoot: w.TransactionsRoot,
		StateRoot:        w.StateRoot,
		ReceiptsRoot:     w.ReceiptsRoot,
		Size:             size,
		ExtraData:        w.ExtraData,
		GasUsed:          gasUsed,
		Timestamp:        blockTimestamp,
		TimestampFoS:     tsFoS,
		Transactions:     transactions,
		TransactionCount: len(rawTxs),
		Receipts:         receipts,
		BlockScore:       blockScore,
		TotalBlockScore:  totalBlockScore,
		GovernanceData:   w.GovernanceData,
		VoteData:         w.VoteData,
		Committee:        w.Committee,
		Proposer:         normalizedAddress(w.Proposer),
		RewardAddress:    normalizedAddress(w.Reward),
		BaseFeePerGas:    baseFeePerGas,
	})
}

// BlockToRecord ports block_mapper.py's block_to_dict.
func BlockToRecord(b domain.Block) map[string]interface{} {
	return map[string]interface{}{
		"type":                  "block",
		"number":                b.Number,
		"hash":                  b.Hash,
		"parent_hash":           b.ParentHash,
		"logs_bloom":            b.LogsBloom,
		"transactions_root":     b.TransactionsRoot,
		"state_root":            b.StateRoot,
		"receipts_root":         b.ReceiptsRoot,
		"size":                  b.Size,
		"extra_data":            b.ExtraData,
		"gas_used":              b.GasUsed,
		"block_timestamp":       domain.BlockTimestamp(b.Timestamp),
		"block_unix_timestamp":  b.Timestamp,
		"transaction_count":     b.TransactionCount,
		"block_score":           b.BlockScore,
		"total_block_score":     b.TotalBlockScore,
		"governance_data":       b.GovernanceData,
		"vote_data":             b.VoteData,
		"committee":             b.Committee,
		"proposer":              b.Proposer,
		"reward_address":        b.RewardAddress,
		"base_fee_per_gas":      b.BaseFeePerGas,
	}
}
