package rpc

import (
	"context"
	"fmt"
	"math/big"
	"strings"
)

// callParams is the object shape klay_call (Klaytn's eth_call analogue)
// expects as its first positional parameter.
type callParams struct {
	To   string `json:"to"`
	Data string `json:"data"`
}

// ContractCaller adapts a *Client to the Call/SupportsInterface method
// shapes package classifier and package tokenmeta each depend on
// (structurally, via Go interfaces — neither package imports rpc).
// *Client itself already has a Call method with a different signature
// (the generic JSON-RPC one), so this wraps rather than extends it.
type ContractCaller struct {
	client *Client
}

// NewContractCaller wraps client for read-only contract calls.
func NewContractCaller(client *Client) *ContractCaller {
	return &ContractCaller{client: client}
}

// Call performs a read-only klay_call against a contract at blockNumber
// and returns the raw ABI-encoded return data — tokenmeta.Caller.
func (c *ContractCaller) Call(ctx context.Context, contractAddress string, blockNumber uint64, data string) (string, error) {
	var out string
	blockTag := "0x" + big.NewInt(0).SetUint64(blockNumber).Text(16)
	err := c.client.Call(ctx, &out, "klay_call", callParams{To: contractAddress, Data: data}, blockTag)
	return out, err
}

// SupportsInterface implements classifier.InterfaceProber by encoding an
// ERC-165/KIP-13 supportsInterface(bytes4) call and decoding its single
// bool return value.
func (c *ContractCaller) SupportsInterface(ctx context.Context, contractAddress string, blockNumber uint64, interfaceID string) (bool, error) {
	data := erc165SupportsInterfaceSelector + leftPad32(strings.TrimPrefix(interfaceID, "0x"))
	raw, err := c.Call(ctx, contractAddress, blockNumber, data)
	if err != nil {
		return false, err
	}
	raw = strings.TrimPrefix(raw, "0x")
	if len(raw) < 64 {
		return false, fmt.Errorf("rpc: short supportsInterface return: %q", raw)
	}
	return raw[63] == '1', nil
}

const erc165SupportsInterfaceSelector = "0x01ffc9a7"

// leftPad32 right-pads a short hex value (e.g. a 4-byte interface ID)
// into a left-justified, zero-padded 32-byte ABI word — interface IDs
// are bytes4 arguments, which the ABI encodes left-aligned unlike
// right-aligned integers.
func leftPad32(hexValue string) string {
	for len(hexValue) < 64 {
		hexValue += "0"
	}
	return hexValue
}
