package classifier

import (
	"encoding/hex"
	"sort"
	"strings"

	"golang.org/x/crypto/sha3"
)

// pushOpBase is PUSH1's opcode (0x60); PUSHn is pushOpBase+(n-1) for
// n in [1,32].
const pushOpBase = 0x60

// FunctionSighashes scans a contract's deployed bytecode for 4-byte
// function selectors pushed onto the stack via PUSH4, the same
// heuristic klaytn_contract_service.py's get_function_sighashes uses
// (disassemble, collect every PUSH4 operand). Unlike the Python original
// this does not build a full basic-block CFG; it walks the bytecode
// linearly, consuming each PUSHn's operand bytes so they are never
// mistaken for opcodes, which is sufficient to find selector constants a
// Solidity compiler's function dispatcher emits near the top of the
// contract.
func FunctionSighashes(bytecode string) []string {
	code, ok := cleanBytecode(bytecode)
	if !ok {
		return nil
	}

	seen := make(map[string]struct{})
	for i := 0; i < len(code); {
		op := code[i]
		if op < pushOpBase || op > pushOpBase+31 {
			i++
			continue
		}
		n := int(op-pushOpBase) + 1
		if i+1+n > len(code) {
			break
		}
		operand := code[i+1 : i+1+n]

		switch n {
		case 4:
			seen["0x"+hex.EncodeToString(operand)] = struct{}{}
		case 3:
			// balanceOf(address,uint256) sometimes compiles down to a
			// PUSH3 of 0xfdd58e when the compiler elides the leading
			// zero byte of the selector.
			if hex.EncodeToString(operand) == "fdd58e" {
				seen["0x00fdd58e"] = struct{}{}
			}
		}
		i += 1 + n
	}

	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func cleanBytecode(bytecode string) ([]byte, bool) {
	if bytecode == "" || bytecode == "0x" {
		return nil, false
	}
	bytecode = strings.TrimPrefix(bytecode, "0x")
	if len(bytecode)%2 != 0 {
		bytecode = bytecode[:len(bytecode)-1]
	}
	code, err := hex.DecodeString(bytecode)
	if err != nil {
		return nil, false
	}
	return code, true
}

// Selector returns the 4-byte function selector ("0x"-prefixed) for a
// Solidity function signature, e.g. "transfer(address,uint256)", the
// same keccak-256 derivation eth_utils.function_signature_to_4byte_selector
// uses.
func Selector(signature string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signature))
	sum := h.Sum(nil)
	return "0x" + hex.EncodeToString(sum[:4])
}
