// Package mapper translates between the hex-string JSON shapes Klaytn's
// RPC returns and the validated domain types in package domain, and back
// out again into the plain maps package export writes to disk. Grounded
// on original_source/klaytnetl/mappers/*.py: each *FromWire function is
// a direct port of the matching json_dict_to_* method (hex_to_dec calls
// become common.HexToBig, to_normalized_address becomes
// common.NormalizeAddress), and each *ToRecord function is a port of the
// matching *_to_dict method.
package mapper

import "encoding/json"

// wireBlock is the klay_getBlockWithConsensusInfoByNumber result shape.
type wireBlock struct {
	Number           string          `json:"number"`
	Hash             string          `json:"hash"`
	ParentHash       string          `json:"parentHash"`
	LogsBloom        string          `json:"logsBloom"`
	TransactionsRoot string          `json:"transactionsRoot"`
	StateRoot        string          `json:"stateRoot"`
	ReceiptsRoot     string          `json:"receiptsRoot"`
	Size             string          `json:"size"`
	ExtraData        string          `json:"extraData"`
	GasUsed          string          `json:"gasUsed"`
	Timestamp        string          `json:"timestamp"`
	TimestampFoS     string          `json:"timestampFoS"`
	BlockScore       string          `json:"blockscore"`
	TotalBlockScore  string          `json:"totalBlockScore"`
	GovernanceData   string          `json:"governanceData"`
	VoteData         string          `json:"voteData"`
	Committee        []string        `json:"committee"`
	Proposer         string          `json:"proposer"`
	Reward           string          `json:"reward"`
	BaseFeePerGas    string          `json:"baseFeePerGas"`
	Transactions     json.RawMessage `json:"transactions"`
}

type wireAccessTuple struct {
	Address     string   `json:"address"`
	StorageKeys []string `json:"storageKeys"`
}

type wireSignature struct {
	V string `json:"V"`
	R string `json:"R"`
	S string `json:"S"`
}

// wireTransaction covers both the block-embedded shape (with "hash") and
// the receipt-ish shape some Klaytn RPC methods return (with
// "transactionHash"), matching json_dict.get("transactionHash", "hash").
type wireTransaction struct {
	Hash               string            `json:"hash"`
	TransactionHash    string            `json:"transactionHash"`
	Nonce              string            `json:"nonce"`
	BlockHash          string            `json:"blockHash"`
	BlockNumber        string            `json:"blockNumber"`
	TransactionIndex   string            `json:"transactionIndex"`
	Index              string            `json:"index"`
	From               string            `json:"from"`
	To                 string            `json:"to"`
	Value              string            `json:"value"`
	Gas                string            `json:"gas"`
	GasPrice           string            `json:"gasPrice"`
	GasUsed            string            `json:"gasUsed"`
	Input              string            `json:"input"`
	FeePayer           string            `json:"feePayer"`
	FeePayerSignatures []wireSignature   `json:"feePayerSignatures"`
	FeeRatio           string            `json:"feeRatio"`
	SenderTxHash       string            `json:"senderTxHash"`
	Signatures         []wireSignature   `json:"signatures"`
	Type               string            `json:"type"`
	TypeInt            int               `json:"typeInt"`
	MaxPriorityFeePerGas string          `json:"maxPriorityFeePerGas"`
	MaxFeePerGas       string            `json:"maxFeePerGas"`
	AccessList         []wireAccessTuple `json:"accessList"`
	Status             string            `json:"status"`
	ContractAddress    string            `json:"contractAddress"`
	Logs               []wireReceiptLog  `json:"logs"`
}

type wireReceipt struct {
	TransactionHash      string            `json:"transactionHash"`
	TransactionIndex     string            `json:"transactionIndex"`
	BlockHash            string            `json:"blockHash"`
	BlockNumber          string            `json:"blockNumber"`
	ContractAddress      string            `json:"contractAddress"`
	Status               string            `json:"status"`
	Gas                  string            `json:"gas"`
	GasPrice             string            `json:"gasPrice"`
	GasUsed              string            `json:"gasUsed"`
	EffectiveGasPrice    string            `json:"effectiveGasPrice"`
	LogsBloom            string            `json:"logsBloom"`
	Nonce                string            `json:"nonce"`
	FeePayer             string            `json:"feePayer"`
	FeePayerSignatures   []wireSignature   `json:"feePayerSignatures"`
	FeeRatio             string            `json:"feeRatio"`
	CodeFormat           string            `json:"codeFormat"`
	HumanReadable        *bool             `json:"humanReadable"`
	TxError              string            `json:"txError"`
	Key                  string            `json:"key"`
	Input                string            `json:"input"`
	From                 string            `json:"from"`
	To                   string            `json:"to"`
	Type                 string            `json:"type"`
	TypeInt              int               `json:"typeInt"`
	SenderTxHash         string            `json:"senderTxHash"`
	Signatures           []wireSignature   `json:"signatures"`
	Value                string            `json:"value"`
	InputJSON            string            `json:"inputJSON"`
	AccessList           []wireAccessTuple `json:"accessList"`
	ChainID              string            `json:"chainId"`
	MaxPriorityFeePerGas string            `json:"maxPriorityFeePerGas"`
	MaxFeePerGas         string            `json:"maxFeePerGas"`
	Logs                 []wireReceiptLog  `json:"logs"`
}

type wireReceiptLog struct {
	LogIndex         string   `json:"logIndex"`
	TransactionHash  string   `json:"transactionHash"`
	TransactionIndex string   `json:"transactionIndex"`
	BlockHash        string   `json:"blockHash"`
	BlockNumber      string   `json:"blockNumber"`
	Address          string   `json:"address"`
	Data             string   `json:"data"`
	Topics           []string `json:"topics"`
	Removed          bool     `json:"removed"`
}
