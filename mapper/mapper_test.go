package mapper

import (
	"encoding/json"
	"testing"

	"github.com/kaiachain/chainetl/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptLogFromWireDecodesHexFields(t *testing.T) {
	raw := json.RawMessage(`{
		"logIndex": "0x2",
		"transactionHash": "0x` + repeatHex("ab", 32) + `",
		"transactionIndex": "0x0",
		"blockHash": "0x` + repeatHex("cd", 32) + `",
		"blockNumber": "0x10",
		"address": "0x` + repeatHex("ef", 20) + `",
		"data": "0x",
		"topics": ["0x1"],
		"removed": false
	}`)

	l, err := ReceiptLogFromWire(raw, 1000, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, l.LogIndex)
	assert.Equal(t, uint64(16), l.BlockNumber)
	assert.Equal(t, 1, l.TransactionReceiptStatus)
}

func TestTransactionFromWirePrefersTransactionHashOverHash(t *testing.T) {
	raw := json.RawMessage(`{
		"transactionHash": "0x` + repeatHex("11", 32) + `",
		"hash": "0x` + repeatHex("22", 32) + `",
		"nonce": "0x1",
		"blockHash": "0x` + repeatHex("cd", 32) + `",
		"blockNumber": "0x5",
		"transactionIndex": "0x0",
		"from": "0x` + repeatHex("aa", 20) + `",
		"to": "0x` + repeatHex("bb", 20) + `",
		"value": "0x0",
		"gas": "0x5208",
		"gasPrice": "0x1",
		"input": "0x"
	}`)

	tx, err := TransactionFromWire(raw, 1000)
	require.NoError(t, err)
	assert.Equal(t, "0x"+repeatHex("11", 32), tx.Hash)
	assert.Equal(t, 100, tx.EffectiveFeeRatio())
}

func TestBlockFromWireCountsTransactions(t *testing.T) {
	raw := json.RawMessage(`{
		"number": "0xa",
		"hash": "0x` + repeatHex("11", 32) + `",
		"parentHash": "0x` + repeatHex("22", 32) + `",
		"size": "0x100",
		"gasUsed": "0x0",
		"timestamp": "0x5f5e100",
		"proposer": "0x` + repeatHex("aa", 20) + `",
		"transactions": [
			{
				"hash": "0x` + repeatHex("33", 32) + `",
				"nonce": "0x0",
				"blockHash": "0x` + repeatHex("22", 32) + `",
				"blockNumber": "0xa",
				"transactionIndex": "0x0",
				"from": "0x` + repeatHex("aa", 20) + `",
				"to": "0x` + repeatHex("bb", 20) + `",
				"value": "0x0",
				"gas": "0x5208",
				"gasPrice": "0x1",
				"input": "0x"
			}
		]
	}`)

	b, err := BlockFromWire(raw, false)
	require.NoError(t, err)
	assert.Equal(t, 1, b.TransactionCount)
	assert.Len(t, b.Transactions, 1)
	assert.Empty(t, b.Receipts)
}

func TestContractToRecordIncludesClassificationWhenPresent(t *testing.T) {
	c := ContractFromEthGetCode("0x"+repeatHex("aa", 20), "0x600160")
	classified := c.Classify(domain.ContractEnrichment{IsERC20: true})

	rec := ContractToRecord(classified)
	assert.Equal(t, true, rec["is_erc20"])
}

func repeatHex(pair string, n int) string {
	out := make([]byte, 0, len(pair)*n)
	for i := 0; i < n; i++ {
		out = append(out, pair...)
	}
	return string(out)
}
