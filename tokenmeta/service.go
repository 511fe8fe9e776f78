// Package tokenmeta reads a token contract's optional ERC-20/721 metadata
// accessors (symbol, name, decimals, totalSupply) back from the chain.
// None of the four calls is actually mandated by any of the ERC-20/721/
// 1155 standards, so every read here is best-effort: a revert, an
// out-of-gas, or a non-standard return encoding for any one of them must
// not prevent the others from being captured.
package tokenmeta

import (
	"context"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/kaiachain/chainetl/classifier"
	"github.com/kaiachain/chainetl/log"
)

var logger = log.NewModuleLogger("tokenmeta")

var (
	symbolSelector      = classifier.Selector("symbol()")
	nameSelector        = classifier.Selector("name()")
	decimalsSelector    = classifier.Selector("decimals()")
	totalSupplySelector = classifier.Selector("totalSupply()")
)

// Caller performs a read-only eth_call against a contract at a given
// block and returns the raw ABI-encoded return data.
type Caller interface {
	Call(ctx context.Context, contractAddress string, blockNumber uint64, data string) (string, error)
}

// Metadata mirrors domain.TokenMetadata; duplicated here rather than
// imported to keep this package's dependency on domain one-directional
// (service.go only produces values, it never validates a domain.Token).
type Metadata struct {
	Symbol      string
	Name        string
	Decimals    *int
	TotalSupply *big.Int
}

// Fetch best-effort reads all four accessors, leaving any that fail or
// decode oddly at their zero value rather than failing the whole call.
func Fetch(ctx context.Context, caller Caller, contractAddress string, blockNumber uint64) Metadata {
	var m Metadata

	if raw, err := caller.Call(ctx, contractAddress, blockNumber, symbolSelector); err == nil {
		m.Symbol = decodeString(raw)
	} else {
		logger.Debug("symbol() call failed", "address", contractAddress, "err", err)
	}

	if raw, err := caller.Call(ctx, contractAddress, blockNumber, nameSelector); err == nil {
		m.Name = decodeString(raw)
	} else {
		logger.Debug("name() call failed", "address", contractAddress, "err", err)
	}

	if raw, err := caller.Call(ctx, contractAddress, blockNumber, decimalsSelector); err == nil {
		if n, ok := decodeUint8(raw); ok {
			m.Decimals = &n
		}
	} else {
		logger.Debug("decimals() call failed", "address", contractAddress, "err", err)
	}

	if raw, err := caller.Call(ctx, contractAddress, blockNumber, totalSupplySelector); err == nil {
		m.TotalSupply = decodeUint256(raw)
	} else {
		logger.Debug("totalSupply() call failed", "address", contractAddress, "err", err)
	}

	return m
}

// decodeString handles both ABI-encoded dynamic strings (offset + length
// + padded data) and the nonstandard fixed bytes32 return some early
// tokens (e.g. pre-standard MKR/SNT clones) use instead, stripping the
// NUL padding either encoding leaves behind.
func decodeString(hexData string) string {
	data := hexBytes(hexData)
	if len(data) == 0 {
		return ""
	}

	if len(data) >= 64 {
		length := new(big.Int).SetBytes(data[32:64]).Uint64()
		if 64+int(length) <= len(data) {
			return sanitize(string(data[64 : 64+length]))
		}
	}
	return sanitize(string(data))
}

func decodeUint8(hexData string) (int, bool) {
	data := hexBytes(hexData)
	if len(data) == 0 {
		return 0, false
	}
	n := new(big.Int).SetBytes(data)
	return int(n.Uint64()), true
}

func decodeUint256(hexData string) *big.Int {
	data := hexBytes(hexData)
	if len(data) == 0 {
		return nil
	}
	return new(big.Int).SetBytes(data)
}

func hexBytes(s string) []byte {
	s = strings.TrimPrefix(s, "0x")
	if len(s)%2 != 0 {
		s = "0" + s
	}
	out, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return out
}

// sanitize strips the NUL-byte padding non-compliant token contracts
// return in their bytes32-encoded symbol/name fields.
func sanitize(s string) string {
	return strings.TrimRight(strings.TrimRight(s, "\x00"), " ")
}
