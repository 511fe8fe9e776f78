package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validHash() string    { return "0x" + strings.Repeat("ab", 32) }
func validAddress() string { return "0x" + strings.Repeat("cd", 20) }

func TestNewBlockAcceptsBlockZero(t *testing.T) {
	b := Block{Hash: validHash(), ParentHash: validHash(), Proposer: validAddress()}
	_, err := NewBlock(b)
	require.NoError(t, err)
}

func TestNewBlockRejectsShortHash(t *testing.T) {
	b := Block{Hash: "0xbad", ParentHash: validHash(), Proposer: validAddress()}
	_, err := NewBlock(b)
	assert.Error(t, err)
}

func TestNewBlockFillsTransactionCount(t *testing.T) {
	b := Block{
		Hash: validHash(), ParentHash: validHash(), Proposer: validAddress(),
		Transactions: []Transaction{{}, {}},
	}
	got, err := NewBlock(b)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TransactionCount)
}

func TestTransactionEffectiveFeeRatioDefaultsTo100(t *testing.T) {
	tx := Transaction{}
	assert.Equal(t, 100, tx.EffectiveFeeRatio())

	ratio := 30
	tx.FeeRatio = &ratio
	assert.Equal(t, 30, tx.EffectiveFeeRatio())
}

func TestNewTransactionRejectsOutOfRangeFeeRatio(t *testing.T) {
	bad := 150
	tx := Transaction{
		Hash: validHash(), BlockHash: validHash(), FromAddress: validAddress(), FeeRatio: &bad,
	}
	_, err := NewTransaction(tx)
	assert.Error(t, err)
}

func TestNewTransactionAllowsEmptyToAddressForContractCreation(t *testing.T) {
	tx := Transaction{Hash: validHash(), BlockHash: validHash(), FromAddress: validAddress()}
	_, err := NewTransaction(tx)
	assert.NoError(t, err)
}

func TestNewReceiptRejectsInvalidStatus(t *testing.T) {
	r := Receipt{TransactionHash: validHash(), BlockHash: validHash(), Status: 2}
	_, err := NewReceipt(r)
	assert.Error(t, err)
}

func TestNewReceiptAcceptsSuccessStatus(t *testing.T) {
	r := Receipt{TransactionHash: validHash(), BlockHash: validHash(), Status: 1}
	_, err := NewReceipt(r)
	assert.NoError(t, err)
}

func TestNewTraceRejectsInvalidStatus(t *testing.T) {
	tr := Trace{TransactionHash: validHash(), BlockHash: validHash(), Status: 5}
	_, err := NewTrace(tr)
	assert.Error(t, err)
}

func TestNewTraceDefaultsValue(t *testing.T) {
	tr := Trace{TransactionHash: validHash(), BlockHash: validHash(), Status: 1}
	got, err := NewTrace(tr)
	require.NoError(t, err)
	assert.NotNil(t, got.Value)
	assert.Equal(t, int64(0), got.Value.Int64())
}

func TestContractClassifyAttachesEnrichment(t *testing.T) {
	c, err := NewContract(Contract{
		Address: validAddress(), BlockHash: validHash(), TransactionHash: validHash(),
	})
	require.NoError(t, err)

	classified := c.Classify(ContractEnrichment{IsERC20: true})
	require.NotNil(t, classified.Enrichment)
	assert.True(t, classified.Enrichment.IsERC20)
	assert.Nil(t, c.Enrichment, "original value must not be mutated")
}

func TestNewTokenTransferRequiresAddresses(t *testing.T) {
	_, err := NewTokenTransfer(TokenTransfer{
		TokenAddress: "short", FromAddress: validAddress(), ToAddress: validAddress(),
		TransactionHash: validHash(),
	})
	assert.Error(t, err)

	tt, err := NewTokenTransfer(TokenTransfer{
		TokenAddress: validAddress(), FromAddress: validAddress(), ToAddress: validAddress(),
		TransactionHash: validHash(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), tt.Value.Int64())
}
