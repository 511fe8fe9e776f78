package domain

import "math/big"

// Block is a Klaytn block and the transactions/receipts it owns.
//
// Grounded on original_source/klaytnetl/domain/block.py's KlaytnRawBlock
// property set: the PoA-specific fields (BlockScore, TotalBlockScore,
// GovernanceData, VoteData, Committee, Proposer, RewardAddress) are
// Klaytn's replacements for go-ethereum's difficulty/uncle fields.
type Block struct {
	Number           uint64
	Hash             string
	ParentHash       string
	LogsBloom        string
	TransactionsRoot string
	StateRoot        string
	ReceiptsRoot     string

	Size      uint64
	ExtraData string
	GasUsed   *big.Int
	// Timestamp is unix seconds plus 0.001*TimestampFoS, matching the
	// original's hex_to_dec(timestamp)*1.0 + hex_to_dec(timestampFoS)*0.001.
	Timestamp    float64
	TimestampFoS uint64 // sub-second fraction, Klaytn's time.FoS wire field

	Transactions     []Transaction
	TransactionCount int
	Receipts         []Receipt

	BlockScore      *big.Int
	TotalBlockScore *big.Int
	GovernanceData  string
	VoteData        string
	Committee       []string
	Proposer        string
	RewardAddress   string

	// BaseFeePerGas is nil pre-Magma (Klaytn's EIP-1559 hard fork).
	BaseFeePerGas *big.Int
}

// NewBlock validates the required shape of a raw block before it is
// handed to the rest of the pipeline.
func NewBlock(b Block) (Block, error) {
	if err := nonNegativeInt("block.number", int64(b.Number)); err != nil {
		return Block{}, err
	}
	if err := requireHash("block.hash", b.Hash); err != nil {
		return Block{}, err
	}
	if err := requireHash("block.parentHash", b.ParentHash); err != nil {
		return Block{}, err
	}
	if b.GasUsed == nil {
		b.GasUsed = new(big.Int)
	}
	if b.BlockScore == nil {
		b.BlockScore = new(big.Int)
	}
	if b.TotalBlockScore == nil {
		b.TotalBlockScore = new(big.Int)
	}
	if err := requireAddress("block.proposer", b.Proposer); err != nil {
		return Block{}, err
	}
	if err := optionalAddress("block.rewardAddress", b.RewardAddress); err != nil {
		return Block{}, err
	}
	b.TransactionCount = len(b.Transactions)
	return b, nil
}
