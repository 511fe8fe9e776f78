package domain

import "math/big"

// Transaction is grounded on klaytnetl/domain/transaction.py's
// KlaytnRawTransaction. Klaytn's fee-delegation and dynamic-fee (EIP-1559)
// transaction types both flow through the same struct; fields that only
// apply to one type or the other (FeePayer*, MaxFeePerGas, AccessList)
// are simply left at their zero value otherwise.
type Transaction struct {
	Hash             string
	BlockHash        string
	BlockNumber      uint64
	BlockTimestamp   float64
	TransactionIndex int

	FromAddress string
	ToAddress   string // empty for contract-creation transactions
	Value       *big.Int
	Gas         *big.Int
	GasPrice    *big.Int
	Nonce       uint64
	Input       string

	TxType    string
	TxTypeInt int
	Signatures []Signature

	// Fee-delegation fields (Klaytn extension of the EVM tx model).
	FeePayer           string
	FeePayerSignatures []Signature
	// FeeRatio is the percentage of gas the fee payer covers; nil means
	// the fee payer covers 100% (the teacher's getter default).
	FeeRatio     *int
	SenderTxHash string

	// Receipt fields mirrored onto the transaction for convenience, as
	// the teacher's mapper does when building a combined row.
	ReceiptStatus          int
	ReceiptGasUsed         *big.Int
	ReceiptContractAddress string
	Logs                   []ReceiptLog

	// Dynamic-fee (Magma hard fork) fields.
	AccessList           []AccessTuple
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// Signature is Klaytn's (V, R, S) signature tuple; a transaction can carry
// more than one when multiple keys sign (Klaytn's AccountKeyWeightedMultiSig).
type Signature struct {
	V string
	R string
	S string
}

// AccessTuple is an EIP-2930 access-list entry.
type AccessTuple struct {
	Address     string
	StorageKeys []string
}

// EffectiveFeeRatio returns the fee ratio, defaulting to 100 (full
// fee-payer coverage) when unset, matching the teacher's property getter.
func (t Transaction) EffectiveFeeRatio() int {
	if t.FeeRatio == nil {
		return 100
	}
	return *t.FeeRatio
}

// NewTransaction validates the required shape of a raw transaction.
func NewTransaction(t Transaction) (Transaction, error) {
	if err := requireHash("transaction.hash", t.Hash); err != nil {
		return Transaction{}, err
	}
	if err := requireHash("transaction.blockHash", t.BlockHash); err != nil {
		return Transaction{}, err
	}
	if err := nonNegativeInt("transaction.blockNumber", int64(t.BlockNumber)); err != nil {
		return Transaction{}, err
	}
	if err := requireAddress("transaction.fromAddress", t.FromAddress); err != nil {
		return Transaction{}, err
	}
	if err := optionalAddress("transaction.toAddress", t.ToAddress); err != nil {
		return Transaction{}, err
	}
	if err := optionalAddress("transaction.feePayer", t.FeePayer); err != nil {
		return Transaction{}, err
	}
	if t.FeeRatio != nil && (*t.FeeRatio < 0 || *t.FeeRatio > 100) {
		return Transaction{}, errFeeRatioRange("transaction.feeRatio", *t.FeeRatio)
	}
	if t.Value == nil {
		t.Value = new(big.Int)
	}
	return t, nil
}

func errFeeRatioRange(field string, v int) error {
	return &rangeError{field: field, value: v}
}

type rangeError struct {
	field string
	value int
}

func (e *rangeError) Error() string {
	return e.field + " must be in [0, 100]"
}
