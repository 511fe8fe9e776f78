package domain

import "math/big"

// TokenTransfer is grounded on klaytnetl/domain/token_transfer.py's
// KlaytnTokenTransfer: one decoded Transfer/TransferSingle/TransferBatch
// event. Value is the full 256-bit amount for ERC-20 and ERC-1155, or the
// tokenId for ERC-721 (the teacher's extractor does not distinguish the
// two at this layer, and neither does package tokentransfer: the record
// does not say which standard the source contract follows).
type TokenTransfer struct {
	TokenAddress   string
	FromAddress    string
	ToAddress      string
	Value          *big.Int
	TransactionHash string
	TransactionIndex int
	TransactionReceiptStatus int
	LogIndex       int
	BlockHash      string
	BlockNumber    uint64
	BlockTimestamp float64
}

// NewTokenTransfer validates the required shape of a decoded transfer.
func NewTokenTransfer(tt TokenTransfer) (TokenTransfer, error) {
	if err := requireAddress("tokenTransfer.tokenAddress", tt.TokenAddress); err != nil {
		return TokenTransfer{}, err
	}
	if err := requireAddress("tokenTransfer.fromAddress", tt.FromAddress); err != nil {
		return TokenTransfer{}, err
	}
	if err := requireAddress("tokenTransfer.toAddress", tt.ToAddress); err != nil {
		return TokenTransfer{}, err
	}
	if err := requireHash("tokenTransfer.transactionHash", tt.TransactionHash); err != nil {
		return TokenTransfer{}, err
	}
	if tt.Value == nil {
		tt.Value = new(big.Int)
	}
	return tt, nil
}
