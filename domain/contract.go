package domain

// Contract is grounded on klaytnetl/domain/contract.py's KlaytnRawContract.
// The classification fields (IsERC20/721/1155, FunctionSighashes) are
// never present in the raw RPC payload; they are filled in by package
// classifier and carried here as an *Enrichment rather than folded into
// the base struct, matching the teacher's EnrichableMixin split between
// a raw object and its enriched counterpart.
type Contract struct {
	Address         string
	BlockHash       string
	BlockNumber     uint64
	BlockTimestamp  float64
	Bytecode        string
	CreatorAddress  string

	TraceIndex               int
	TraceStatus              int
	TransactionHash          string
	TransactionIndex         int
	TransactionReceiptStatus int

	Enrichment *ContractEnrichment
}

// ContractEnrichment holds the classifier's verdict for a contract.
type ContractEnrichment struct {
	IsERC20           bool
	IsERC721          bool
	IsERC1155         bool
	FunctionSighashes []string
}

// NewContract validates the required shape of a raw contract-creation record.
func NewContract(c Contract) (Contract, error) {
	if err := requireAddress("contract.address", c.Address); err != nil {
		return Contract{}, err
	}
	if err := requireHash("contract.blockHash", c.BlockHash); err != nil {
		return Contract{}, err
	}
	if err := optionalAddress("contract.creatorAddress", c.CreatorAddress); err != nil {
		return Contract{}, err
	}
	if err := requireHash("contract.transactionHash", c.TransactionHash); err != nil {
		return Contract{}, err
	}
	return c, nil
}

// Classify attaches a classification verdict, replacing any previous one.
func (c Contract) Classify(e ContractEnrichment) Contract {
	c.Enrichment = &e
	return c
}
