package domain

import "math/big"

// Token is grounded on klaytnetl/domain/token.py's KlaytnToken: a
// classified contract plus the best-effort ERC-20/721/1155 metadata
// package tokenmeta reads back from the chain (symbol/name/decimals/
// totalSupply calls, each independently optional since a contract can
// implement only part of the interface or revert on any of them).
type Token struct {
	Address        string
	BlockHash      string
	BlockNumber    uint64
	BlockTimestamp float64
	CreatorAddress string

	FunctionSighashes []string
	IsERC20           bool
	IsERC721          bool
	IsERC1155         bool

	TraceIndex               int
	TraceStatus              int
	TransactionHash          string
	TransactionIndex         int
	TransactionReceiptStatus int

	Metadata *TokenMetadata
}

// TokenMetadata holds the optional symbol/name/decimals/totalSupply read
// back from the token contract. Any field may be nil/empty when the
// contract doesn't implement that accessor or the call reverted.
type TokenMetadata struct {
	Symbol      string
	Name        string
	Decimals    *int
	TotalSupply *big.Int
}

// NewToken validates the required shape of a raw token record.
func NewToken(t Token) (Token, error) {
	if err := requireAddress("token.address", t.Address); err != nil {
		return Token{}, err
	}
	if err := requireHash("token.blockHash", t.BlockHash); err != nil {
		return Token{}, err
	}
	if err := optionalAddress("token.creatorAddress", t.CreatorAddress); err != nil {
		return Token{}, err
	}
	return t, nil
}
