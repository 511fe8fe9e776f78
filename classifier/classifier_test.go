package classifier

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticBytecode builds a synthetic bytecode blob containing one PUSH4
// push of each given signature's selector, the way a Solidity dispatcher
// emits them, without needing a real compiled contract.
func syntheticBytecode(signatures ...string) string {
	var sb strings.Builder
	sb.WriteString("0x")
	for _, sig := range signatures {
		sb.WriteString("63")                        // PUSH4
		sb.WriteString(strings.TrimPrefix(Selector(sig), "0x"))
	}
	return sb.String()
}

func TestFunctionSighashesExtractsPush4Operands(t *testing.T) {
	code := syntheticBytecode("transfer(address,uint256)", "balanceOf(address)")
	got := FunctionSighashes(code)
	assert.Contains(t, got, Selector("transfer(address,uint256)"))
	assert.Contains(t, got, Selector("balanceOf(address)"))
	assert.Len(t, got, 2)
}

func TestFunctionSighashesHandlesPush3BalanceOfSpecialCase(t *testing.T) {
	// PUSH3 0xfdd58e (opcode 0x62) must map to "0x00fdd58e".
	code := "0x62fdd58e"
	got := FunctionSighashes(code)
	require.Len(t, got, 1)
	assert.Equal(t, "0x00fdd58e", got[0])
}

func TestFunctionSighashesSkipsPushOperandBytes(t *testing.T) {
	// A PUSH32 operand containing bytes that look like a PUSH4 opcode
	// (0x63) must not be misread as one.
	code := "0x7f" + strings.Repeat("63", 32)
	got := FunctionSighashes(code)
	assert.Empty(t, got)
}

func TestFunctionSighashesEmptyBytecode(t *testing.T) {
	assert.Empty(t, FunctionSighashes("0x"))
	assert.Empty(t, FunctionSighashes(""))
}

type fakeProber struct {
	supports map[string]bool
	err      error
}

func (f fakeProber) SupportsInterface(ctx context.Context, addr string, blockNumber uint64, interfaceID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.supports[interfaceID], nil
}

func TestClassifyByErc165WhenSupportsInterfaceImplemented(t *testing.T) {
	code := syntheticBytecode("supportsInterface(bytes4)")
	prober := fakeProber{supports: map[string]bool{erc721InterfaceID: true}}

	v := Classify(context.Background(), prober, "0xaddr", 1, code)
	assert.True(t, v.IsERC721)
	assert.False(t, v.IsERC20)
}

func TestClassifyFallsBackToMandatorySelectorsForErc20(t *testing.T) {
	code := syntheticBytecode(
		"totalSupply()", "balanceOf(address)", "transfer(address,uint256)",
		"transferFrom(address,address,uint256)", "approve(address,uint256)", "allowance(address,address)",
	)
	v := Classify(context.Background(), nil, "0xaddr", 1, code)
	assert.True(t, v.IsERC20)
	assert.False(t, v.IsERC721)
}

func TestClassifyFallsBackToMandatorySelectorsForErc1155(t *testing.T) {
	code := syntheticBytecode(
		"balanceOf(address,uint256)", "balanceOfBatch(address[],uint256[])",
		"setApprovalForAll(address,bool)", "isApprovedForAll(address,address)",
		"safeTransferFrom(address,address,uint256,uint256,bytes)",
		"safeBatchTransferFrom(address,address,uint256[],uint256[],bytes)",
	)
	v := Classify(context.Background(), nil, "0xaddr", 1, code)
	assert.True(t, v.IsERC1155)
}

func TestClassifyIncompleteSelectorSetIsNotClassified(t *testing.T) {
	code := syntheticBytecode("totalSupply()", "balanceOf(address)")
	v := Classify(context.Background(), nil, "0xaddr", 1, code)
	assert.False(t, v.IsERC20)
}
