// Package tokentransfer decodes ERC-20/721 Transfer and ERC-1155
// TransferSingle/TransferBatch events out of a transaction's receipt
// logs. Grounded on
// tests/klaytnetl/service/test_klaytn_token_transfer_extractor.py (the
// extractor implementation itself was not retrieved, but the test fixes
// the exact topic/data decoding this package must reproduce): topic[0]
// is the event signature, topic[1]/topic[2] are the address operands
// left-padded to 32 bytes, and the transferred amount is ABI-encoded in
// the log's data field.
package tokentransfer

import (
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/kaiachain/chainetl/common"
	"github.com/kaiachain/chainetl/domain"
	"github.com/kaiachain/chainetl/log"
	"golang.org/x/crypto/sha3"
)

var logger = log.NewModuleLogger("tokentransfer")

var (
	transferTopic       = eventTopic("Transfer(address,address,uint256)")
	transferSingleTopic = eventTopic("TransferSingle(address,address,address,uint256,uint256)")
	transferBatchTopic  = eventTopic("TransferBatch(address,address,address,uint256[],uint256[])")
)

func eventTopic(signature string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signature))
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// Extract returns every decoded transfer found in log. ERC-20/721
// Transfer events and ERC-1155 TransferSingle both yield exactly one
// domain.TokenTransfer; TransferBatch yields one per (id, value) pair,
// since the arrays in its data are the same length by construction and
// package-consumers need one flat row per transferred token.
func Extract(log domain.ReceiptLog) []domain.TokenTransfer {
	if len(log.Topics) == 0 {
		return nil
	}

	switch log.Topics[0] {
	case transferTopic:
		return extractTransfer(log)
	case transferSingleTopic:
		return extractTransferSingle(log)
	case transferBatchTopic:
		return extractTransferBatch(log)
	default:
		return nil
	}
}

func extractTransfer(log domain.ReceiptLog) []domain.TokenTransfer {
	if len(log.Topics) < 3 {
		logger.Warn("skipping Transfer log with malformed topic arity",
			"transactionHash", log.TransactionHash, "logIndex", log.LogIndex, "topics", len(log.Topics))
		return nil
	}
	from, err := common.TruncateTopicToAddress(log.Topics[1])
	if err != nil {
		return nil
	}
	to, err := common.TruncateTopicToAddress(log.Topics[2])
	if err != nil {
		return nil
	}

	tt, err := domain.NewTokenTransfer(domain.TokenTransfer{
		TokenAddress:             log.Address,
		FromAddress:              from,
		ToAddress:                to,
		Value:                    decodeUint256(log.Data, 0),
		TransactionHash:          log.TransactionHash,
		TransactionIndex:         log.TransactionIndex,
		TransactionReceiptStatus: log.TransactionReceiptStatus,
		LogIndex:                 log.LogIndex,
		BlockHash:                log.BlockHash,
		BlockNumber:              log.BlockNumber,
		BlockTimestamp:           log.BlockTimestamp,
	})
	if err != nil {
		return nil
	}
	return []domain.TokenTransfer{tt}
}

func extractTransferSingle(log domain.ReceiptLog) []domain.TokenTransfer {
	if len(log.Topics) < 4 {
		logger.Warn("skipping TransferSingle log with malformed topic arity",
			"transactionHash", log.TransactionHash, "logIndex", log.LogIndex, "topics", len(log.Topics))
		return nil
	}
	from, err := common.TruncateTopicToAddress(log.Topics[2])
	if err != nil {
		return nil
	}
	to, err := common.TruncateTopicToAddress(log.Topics[3])
	if err != nil {
		return nil
	}
	// data is (id, value); the id is not carried on domain.TokenTransfer
	// today, only the transferred value.
	tt, err := domain.NewTokenTransfer(domain.TokenTransfer{
		TokenAddress:             log.Address,
		FromAddress:              from,
		ToAddress:                to,
		Value:                    decodeUint256(log.Data, 1),
		TransactionHash:          log.TransactionHash,
		TransactionIndex:         log.TransactionIndex,
		TransactionReceiptStatus: log.TransactionReceiptStatus,
		LogIndex:                 log.LogIndex,
		BlockHash:                log.BlockHash,
		BlockNumber:              log.BlockNumber,
		BlockTimestamp:           log.BlockTimestamp,
	})
	if err != nil {
		return nil
	}
	return []domain.TokenTransfer{tt}
}

// extractTransferBatch decodes the two dynamic uint256[] arrays
// (ids, values) out of the ABI-encoded data and emits one TokenTransfer
// per index, using each batch entry's value.
func extractTransferBatch(log domain.ReceiptLog) []domain.TokenTransfer {
	if len(log.Topics) < 4 {
		logger.Warn("skipping TransferBatch log with malformed topic arity",
			"transactionHash", log.TransactionHash, "logIndex", log.LogIndex, "topics", len(log.Topics))
		return nil
	}
	from, err := common.TruncateTopicToAddress(log.Topics[2])
	if err != nil {
		return nil
	}
	to, err := common.TruncateTopicToAddress(log.Topics[3])
	if err != nil {
		return nil
	}

	data := hexBytes(log.Data)
	if len(data) < 64 {
		return nil
	}
	idsOffset := new(big.Int).SetBytes(data[0:32]).Uint64()
	valuesOffset := new(big.Int).SetBytes(data[32:64]).Uint64()

	values := decodeDynamicArray(data, valuesOffset)
	_ = decodeDynamicArray(data, idsOffset) // ids are read but not carried on TokenTransfer today.

	out := make([]domain.TokenTransfer, 0, len(values))
	for _, v := range values {
		tt, err := domain.NewTokenTransfer(domain.TokenTransfer{
			TokenAddress:             log.Address,
			FromAddress:              from,
			ToAddress:                to,
			Value:                    v,
			TransactionHash:          log.TransactionHash,
			TransactionIndex:         log.TransactionIndex,
			TransactionReceiptStatus: log.TransactionReceiptStatus,
			LogIndex:                 log.LogIndex,
			BlockHash:                log.BlockHash,
			BlockNumber:              log.BlockNumber,
			BlockTimestamp:           log.BlockTimestamp,
		})
		if err != nil {
			continue
		}
		out = append(out, tt)
	}
	return out
}

func decodeDynamicArray(data []byte, offset uint64) []*big.Int {
	if offset+32 > uint64(len(data)) {
		return nil
	}
	length := new(big.Int).SetBytes(data[offset : offset+32]).Uint64()
	var out []*big.Int
	for i := uint64(0); i < length; i++ {
		start := offset + 32 + i*32
		if start+32 > uint64(len(data)) {
			break
		}
		out = append(out, new(big.Int).SetBytes(data[start:start+32]))
	}
	return out
}

func decodeUint256(hexData string, slot int) *big.Int {
	data := hexBytes(hexData)
	start := slot * 32
	if start+32 > len(data) {
		return new(big.Int)
	}
	return new(big.Int).SetBytes(data[start : start+32])
}

func hexBytes(s string) []byte {
	s = strings.TrimPrefix(s, "0x")
	if len(s)%2 != 0 {
		s = "0" + s
	}
	out, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return out
}
