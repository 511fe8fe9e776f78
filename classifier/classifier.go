// Package classifier decides whether a deployed contract implements the
// ERC-20, ERC-721 or ERC-1155 token interfaces, grounded on
// original_source/klaytnetl/service/klaytn_contract_service.py's
// KlaytnContractService. Classification is a two-step best-effort
// process: prefer the contract's own ERC-165/KIP-13 supportsInterface
// answer when it advertises one, and fall back to a mandatory-selector
// heuristic over the bytecode-derived function sighashes otherwise.
package classifier

import (
	"context"

	"github.com/kaiachain/chainetl/log"
)

var logger = log.NewModuleLogger("classifier")

// Interface IDs per EIP-165/EIP-1155/EIP-721, and the ERC-165 probe
// selector itself (supportsInterface(bytes4)).
const (
	erc165SupportsInterfaceSelector = "0x01ffc9a7"
	erc20InterfaceID                = "0x36372b07"
	erc721InterfaceID               = "0x80ac58cd"
	erc1155InterfaceID              = "0xd9b67a26"
)

// InterfaceProber answers a single ERC-165 supportsInterface(bytes4)
// call against a contract at a given block. package rpc's ContractCaller
// implements this via klay_call.
type InterfaceProber interface {
	SupportsInterface(ctx context.Context, contractAddress string, blockNumber uint64, interfaceID string) (bool, error)
}

// Verdict is the classification result for one contract.
type Verdict struct {
	IsERC20           bool
	IsERC721          bool
	IsERC1155         bool
	FunctionSighashes []string
}

// sighashSet wraps the ContractWrapper pattern: cheap membership checks
// over a contract's bytecode-derived selectors.
type sighashSet map[string]struct{}

func newSighashSet(sighashes []string) sighashSet {
	s := make(sighashSet, len(sighashes))
	for _, h := range sighashes {
		s[h] = struct{}{}
	}
	return s
}

func (s sighashSet) implements(signature string) bool {
	_, ok := s[Selector(signature)]
	return ok
}

func (s sighashSet) implementsAnyOf(signatures ...string) bool {
	for _, sig := range signatures {
		if s.implements(sig) {
			return true
		}
	}
	return false
}

// Classify derives a contract's token-interface verdict. prober may be
// nil, in which case classification falls back entirely to the
// mandatory-selector heuristic (useful for archive ranges or endpoints
// that don't support historical eth_call).
func Classify(ctx context.Context, prober InterfaceProber, contractAddress string, blockNumber uint64, bytecode string) Verdict {
	sighashes := FunctionSighashes(bytecode)
	set := newSighashSet(sighashes)

	v := Verdict{FunctionSighashes: sighashes}
	useProbe := prober != nil && set.implements("supportsInterface(bytes4)")
	v.IsERC20 = useProbe && probe(ctx, prober, contractAddress, blockNumber, erc20InterfaceID)
	v.IsERC20 = v.IsERC20 || (!useProbe && set.implements("totalSupply()") &&
		set.implements("balanceOf(address)") &&
		set.implements("transfer(address,uint256)") &&
		set.implements("transferFrom(address,address,uint256)") &&
		set.implements("approve(address,uint256)") &&
		set.implements("allowance(address,address)"))

	v.IsERC721 = useProbe && probe(ctx, prober, contractAddress, blockNumber, erc721InterfaceID)
	v.IsERC721 = v.IsERC721 || (!useProbe && set.implements("balanceOf(address)") &&
		set.implements("ownerOf(uint256)") &&
		set.implementsAnyOf("transfer(address,uint256)", "transferFrom(address,address,uint256)") &&
		set.implements("approve(address,uint256)"))

	v.IsERC1155 = useProbe && probe(ctx, prober, contractAddress, blockNumber, erc1155InterfaceID)
	v.IsERC1155 = v.IsERC1155 || (!useProbe && set.implements("balanceOf(address,uint256)") &&
		set.implements("balanceOfBatch(address[],uint256[])") &&
		set.implements("setApprovalForAll(address,bool)") &&
		set.implements("isApprovedForAll(address,address)") &&
		set.implements("safeTransferFrom(address,address,uint256,uint256,bytes)") &&
		set.implements("safeBatchTransferFrom(address,address,uint256[],uint256[],bytes)"))

	return v
}

func probe(ctx context.Context, prober InterfaceProber, contractAddress string, blockNumber uint64, interfaceID string) bool {
	if prober == nil {
		return false
	}
	ok, err := prober.SupportsInterface(ctx, contractAddress, blockNumber, interfaceID)
	if err != nil {
		logger.Debug("supportsInterface probe failed, treating interface as unsupported",
			"address", contractAddress, "interfaceID", interfaceID, "err", err)
		return false
	}
	return ok
}

// ToEnrichment returns a Verdict's classification flags and sighashes in
// the order domain.ContractEnrichment declares them; the caller builds the
// *domain.ContractEnrichment from these values.
func (v Verdict) ToEnrichment() (bool, bool, bool, []string) {
	return v.IsERC20, v.IsERC721, v.IsERC1155, v.FunctionSighashes
}
