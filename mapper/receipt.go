package mapper

import (
	"encoding/json"

	"github.com/kaiachain/chainetl/common"
	"github.com/kaiachain/chainetl/domain"
)

// ReceiptFromWire ports receipt_mapper.py's json_dict_to_receipt.
func ReceiptFromWire(raw json.RawMessage, blockTimestamp float64) (domain.Receipt, error) {
	var w wireReceipt
	if err := json.Unmarshal(raw, &w); err != nil {
		return domain.Receipt{}, err
	}

	txIndex, err := hexToInt(w.TransactionIndex)
	if err != nil {
		return domain.Receipt{}, err
	}
	blockNumber, err := hexToUint64(w.BlockNumber)
	if err != nil {
		return domain.Receipt{}, err
	}
	status, err := hexToInt(w.Status)
	if err != nil {
		return domain.Receipt{}, err
	}
	gas, err := common.HexToBig(w.Gas)
	if err != nil {
		return domain.Receipt{}, err
	}
	gasPrice, err := common.HexToBig(w.GasPrice)
	if err != nil {
		return domain.Receipt{}, err
	}
	gasUsed, err := common.HexToBig(w.GasUsed)
	if err != nil {
		return domain.Receipt{}, err
	}

	effectiveGasPrice, _ := optionalBig(w.EffectiveGasPrice)
	chainID, _ := optionalBig(w.ChainID)
	value, _ := optionalBig(w.Value)
	maxPriorityFeePerGas, _ := optionalBig(w.MaxPriorityFeePerGas)
	maxFeePerGas, _ := optionalBig(w.MaxFeePerGas)

	var feeRatio *int
	if w.FeeRatio != "" {
		v, err := hexToInt(w.FeeRatio)
		if err != nil {
			return domain.Receipt{}, err
		}
		feeRatio = &v
	}

	logs := make([]domain.ReceiptLog, 0, len(w.Logs))
	for _, l := range w.Logs {
		log, err := receiptLogFromWireStruct(l, blockTimestamp, status)
		if err != nil {
			return domain.Receipt{}, err
		}
		logs = append(logs, log)
	}

	accessList := make([]domain.AccessTuple, 0, len(w.AccessList))
	for _, a := range w.AccessList {
		accessList = append(accessList, domain.AccessTuple{Address: a.Address, StorageKeys: a.StorageKeys})
	}

	return domain.NewReceipt(domain.Receipt{
		TransactionHash:      w.TransactionHash,
		TransactionIndex:     txIndex,
		BlockHash:            w.BlockHash,
		BlockNumber:          blockNumber,
		ContractAddress:      normalizedAddress(w.ContractAddress),
		Status:               status,
		Gas:                  gas,
		GasPrice:             gasPrice,
		GasUsed:              gasUsed,
		EffectiveGasPrice:    effectiveGasPrice,
		LogsBloom:            w.LogsBloom,
		FeePayer:             normalizedAddress(w.FeePayer),
		FeePayerSignatures:   signaturesFromWire(w.FeePayerSignatures),
		FeeRatio:             feeRatio,
		CodeFormat:           w.CodeFormat,
		HumanReadable:        w.HumanReadable,
		TxError:              w.TxError,
		Key:                  w.Key,
		InputData:            w.Input,
		FromAddress:          normalizedAddress(w.From),
		ToAddress:            normalizedAddress(w.To),
		TypeName:             w.Type,
		TypeInt:              w.TypeInt,
		SenderTxHash:         w.SenderTxHash,
		Signatures:           signaturesFromWire(w.Signatures),
		Value:                value,
		InputJSON:            w.InputJSON,
		AccessList:           accessList,
		ChainID:              chainID,
		MaxPriorityFeePerGas: maxPriorityFeePerGas,
		MaxFeePerGas:         maxFeePerGas,
		Logs:                 logs,
	})
}

// ReceiptToRecord ports receipt_mapper.py's receipt_to_dict.
func ReceiptToRecord(r domain.Receipt, blockTimestamp float64) map[string]interface{} {
	return map[string]interface{}{
		"type":                     "receipt",
		"transaction_hash":         r.TransactionHash,
		"transaction_index":        r.TransactionIndex,
		"block_hash":               r.BlockHash,
		"block_number":             r.BlockNumber,
		"contract_address":         r.ContractAddress,
		"status":                   r.Status,
		"gas":                      r.Gas,
		"gas_price":                r.GasPrice,
		"gas_used":                 r.GasUsed,
		"effective_gas_price":      r.EffectiveGasPrice,
		"logs_bloom":               r.LogsBloom,
		"fee_payer":                r.FeePayer,
		"fee_payer_signatures":     r.FeePayerSignatures,
		"fee_ratio":                r.FeeRatio,
		"code_format":              r.CodeFormat,
		"human_readable":           r.HumanReadable,
		"tx_error":                 r.TxError,
		"key":                      r.Key,
		"input_data":               r.InputData,
		"from_address":             r.FromAddress,
		"to_address":               r.ToAddress,
		"type_name":                r.TypeName,
		"type_int":                 r.TypeInt,
		"sender_tx_hash":           r.SenderTxHash,
		"signatures":               r.Signatures,
		"value":                    r.Value,
		"input_json":               r.InputJSON,
		"access_list":              r.AccessList,
		"chain_id":                 r.ChainID,
		"max_priority_fee_per_gas": r.MaxPriorityFeePerGas,
		"max_fee_per_gas":          r.MaxFeePerGas,
		"block_unix_timestamp":     blockTimestamp,
		"block_timestamp":          domain.BlockTimestamp(blockTimestamp),
	}
}
