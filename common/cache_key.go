package common

// ClassificationKey identifies a cached contract-classification or
// token-metadata lookup by the contract address at a given block.
type ClassificationKey struct {
	Address     string
	BlockNumber uint64
}

// ShardIndex spreads keys across shards by the low bits of the address,
// mirroring the teacher's account/state trie sharding strategy.
func (k ClassificationKey) ShardIndex(shardMask int) int {
	if len(k.Address) < 4 {
		return 0
	}
	var h int
	for i := len(k.Address) - 2; i < len(k.Address); i++ {
		h = h*131 + int(k.Address[i])
	}
	if h < 0 {
		h = -h
	}
	return h & shardMask
}
