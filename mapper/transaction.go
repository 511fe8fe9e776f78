package mapper

import (
	"encoding/json"
	"math/big"

	"github.com/kaiachain/chainetl/common"
	"github.com/kaiachain/chainetl/domain"
)

// TransactionFromWire ports transaction_mapper.py's json_dict_to_transaction.
// blockTimestamp is threaded down the same way the Python mapper passes it
// as a kwarg for enrichment and for the child receipt-log mapper.
func TransactionFromWire(raw json.RawMessage, blockTimestamp float64) (domain.Transaction, error) {
	var w wireTransaction
	if err := json.Unmarshal(raw, &w); err != nil {
		return domain.Transaction{}, err
	}

	hash := w.TransactionHash
	if hash == "" {
		hash = w.Hash
	}
	txIndexHex := w.TransactionIndex
	if txIndexHex == "" {
		txIndexHex = w.Index
	}

	nonce, err := hexToUint64(w.Nonce)
	if err != nil {
		return domain.Transaction{}, err
	}
	blockNumber, err := hexToUint64(w.BlockNumber)
	if err != nil {
		return domain.Transaction{}, err
	}
	txIndex, err := hexToInt(txIndexHex)
	if err != nil {
		return domain.Transaction{}, err
	}
	value, err := common.HexToBig(w.Value)
	if err != nil {
		return domain.Transaction{}, err
	}
	gas, err := common.HexToBig(w.Gas)
	if err != nil {
		return domain.Transaction{}, err
	}
	gasPrice, err := common.HexToBig(w.GasPrice)
	if err != nil {
		return domain.Transaction{}, err
	}

	var feeRatio *int
	if w.FeeRatio != "" {
		v, err := hexToInt(w.FeeRatio)
		if err != nil {
			return domain.Transaction{}, err
		}
		feeRatio = &v
	}

	maxPriorityFeePerGas, _ := optionalBig(w.MaxPriorityFeePerGas)
	maxFeePerGas, _ := optionalBig(w.MaxFeePerGas)

	var receiptGasUsed *big.Int
	var receiptStatus int
	if w.GasUsed != "" {
		receiptGasUsed, _ = common.HexToBig(w.GasUsed)
	}
	if w.Status != "" {
		receiptStatus, _ = hexToInt(w.Status)
	}

	logs := make([]domain.ReceiptLog, 0, len(w.Logs))
	for _, l := range w.Logs {
		log, err := receiptLogFromWireStruct(l, blockTimestamp, receiptStatus)
		if err != nil {
			return domain.Transaction{}, err
		}
		logs = append(logs, log)
	}

	accessList := make([]domain.AccessTuple, 0, len(w.AccessList))
	for _, a := range w.AccessList {
		accessList = append(accessList, domain.AccessTuple{Address: a.Address, StorageKeys: a.StorageKeys})
	}

	return domain.NewTransaction(domain.Transaction{
		Hash:                   hash,
		Nonce:                  nonce,
		BlockHash:              w.BlockHash,
		BlockNumber:            blockNumber,
		BlockTimestamp:         blockTimestamp,
		TransactionIndex:       txIndex,
		FromAddress:            normalizedAddress(w.From),
		ToAddress:              normalizedAddress(w.To),
		Value:                  value,
		Gas:                    gas,
		GasPrice:               gasPrice,
		Input:                  w.Input,
		FeePayer:               normalizedAddress(w.FeePayer),
		FeePayerSignatures:     signaturesFromWire(w.FeePayerSignatures),
		FeeRatio:               feeRatio,
		SenderTxHash:           w.SenderTxHash,
		Signatures:             signaturesFromWire(w.Signatures),
		TxType:                 w.Type,
		TxTypeInt:              w.TypeInt,
		MaxPriorityFeePerGas:   maxPriorityFeePerGas,
		MaxFeePerGas:           maxFeePerGas,
		AccessList:             accessList,
		Logs:                   logs,
		ReceiptGasUsed:         receiptGasUsed,
		ReceiptStatus:          receiptStatus,
		ReceiptContractAddress: normalizedAddress(w.ContractAddress),
	})
}

func signaturesFromWire(ws []wireSignature) []domain.Signature {
	out := make([]domain.Signature, 0, len(ws))
	for _, s := range ws {
		out = append(out, domain.Signature{V: s.V, R: s.R, S: s.S})
	}
	return out
}

func optionalBig(hex string) (*big.Int, error) {
	if hex == "" {
		return nil, nil
	}
	return common.HexToBig(hex)
}

// TransactionToRecord ports transaction_mapper.py's transaction_to_dict.
func TransactionToRecord(t domain.Transaction) map[string]interface{} {
	rec := map[string]interface{}{
		"type":                     "transaction",
		"hash":                     t.Hash,
		"nonce":                    t.Nonce,
		"block_hash":               t.BlockHash,
		"block_number":             t.BlockNumber,
		"transaction_index":        t.TransactionIndex,
		"from_address":             t.FromAddress,
		"to_address":               t.ToAddress,
		"value":                    t.Value,
		"gas":                      t.Gas,
		"gas_price":                t.GasPrice,
		"input":                    t.Input,
		"fee_payer":                t.FeePayer,
		"fee_payer_signatures":     t.FeePayerSignatures,
		"fee_ratio":                t.EffectiveFeeRatio(),
		"sender_tx_hash":           t.SenderTxHash,
		"signatures":               t.Signatures,
		"tx_type":                  t.TxType,
		"tx_type_int":              t.TxTypeInt,
		"max_priority_fee_per_gas": t.MaxPriorityFeePerGas,
		"max_fee_per_gas":          t.MaxFeePerGas,
		"access_list":              t.AccessList,
		"block_unix_timestamp":     t.BlockTimestamp,
		"block_timestamp":          domain.BlockTimestamp(t.BlockTimestamp),
		"receipt_gas_used":         t.ReceiptGasUsed,
		"receipt_contract_address": t.ReceiptContractAddress,
		"receipt_status":           t.ReceiptStatus,
	}
	return rec
}
