package domain

import "math/big"

// Receipt is grounded on klaytnetl/domain/receipt.py's KlaytnRawReceipt.
// HumanReadable/Key/CodeFormat are Klaytn account-update-transaction
// fields that only apply when the transaction created or updated an
// account key; they are left zero-valued otherwise.
type Receipt struct {
	TransactionHash  string
	TransactionIndex int
	BlockHash        string
	BlockNumber      uint64

	FromAddress string
	ToAddress   string
	Gas         *big.Int
	GasPrice    *big.Int
	GasUsed     *big.Int
	Nonce       uint64
	Value       *big.Int

	ContractAddress string // set only for contract-creation receipts
	LogsBloom       string
	Logs            []ReceiptLog
	Status          int // 0 failed, 1 success
	TxError         string

	TypeInt  int
	TypeName string

	ChainID           *big.Int
	CodeFormat        string
	HumanReadable     *bool
	InputData         string
	InputJSON         string
	Key               string
	Signatures        []Signature
	FeePayer          string
	FeePayerSignatures []Signature
	FeeRatio          *int
	SenderTxHash      string

	EffectiveGasPrice    *big.Int
	AccessList           []AccessTuple
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// NewReceipt validates the required shape of a raw receipt.
func NewReceipt(r Receipt) (Receipt, error) {
	if err := requireHash("receipt.transactionHash", r.TransactionHash); err != nil {
		return Receipt{}, err
	}
	if err := requireHash("receipt.blockHash", r.BlockHash); err != nil {
		return Receipt{}, err
	}
	if err := nonNegativeInt("receipt.blockNumber", int64(r.BlockNumber)); err != nil {
		return Receipt{}, err
	}
	if err := optionalAddress("receipt.contractAddress", r.ContractAddress); err != nil {
		return Receipt{}, err
	}
	if r.Status != 0 && r.Status != 1 {
		return Receipt{}, &rangeError{field: "receipt.status", value: r.Status}
	}
	return r, nil
}
