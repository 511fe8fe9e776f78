package tokenmeta

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCaller struct {
	responses map[string]string
	errs      map[string]error
}

func (f fakeCaller) Call(ctx context.Context, addr string, blockNumber uint64, data string) (string, error) {
	if err, ok := f.errs[data]; ok {
		return "", err
	}
	return f.responses[data], nil
}

func abiString(s string) string {
	var sb strings.Builder
	sb.WriteString("0000000000000000000000000000000000000000000000000000000000000020")
	lenHex := make([]byte, 32)
	lenHex[31] = byte(len(s))
	sb.WriteString(hex.EncodeToString(lenHex))
	padded := s
	for len(padded)%32 != 0 {
		padded += "\x00"
	}
	sb.WriteString(hex.EncodeToString([]byte(padded)))
	return "0x" + sb.String()
}

func abiUint(n uint64) string {
	b := make([]byte, 32)
	binary.BigEndian.PutUint64(b[24:], n)
	return "0x" + hex.EncodeToString(b)
}

func TestFetchDecodesAllFourFields(t *testing.T) {
	caller := fakeCaller{responses: map[string]string{
		symbolSelector:      abiString("USDT"),
		nameSelector:        abiString("Tether"),
		decimalsSelector:    abiUint(6),
		totalSupplySelector: abiUint(1000000),
	}}

	m := Fetch(context.Background(), caller, "0xaddr", 1)
	assert.Equal(t, "USDT", m.Symbol)
	assert.Equal(t, "Tether", m.Name)
	require.NotNil(t, m.Decimals)
	assert.Equal(t, 6, *m.Decimals)
	assert.Equal(t, uint64(1000000), m.TotalSupply.Uint64())
}

func TestFetchToleratesPartialFailure(t *testing.T) {
	caller := fakeCaller{
		responses: map[string]string{symbolSelector: abiString("OK")},
		errs:      map[string]error{nameSelector: errors.New("execution reverted")},
	}

	m := Fetch(context.Background(), caller, "0xaddr", 1)
	assert.Equal(t, "OK", m.Symbol)
	assert.Equal(t, "", m.Name)
	assert.Nil(t, m.Decimals)
}

func TestDecodeStringStripsNulPadding(t *testing.T) {
	// a bytes32 fixed-size return, NUL-padded, like pre-standard tokens use.
	raw := "0x" + hex.EncodeToString([]byte("ABC\x00\x00\x00\x00\x00"))
	assert.Equal(t, "ABC", decodeString(raw))
}

func TestFetchHandlesEmptyResponse(t *testing.T) {
	caller := fakeCaller{responses: map[string]string{}}
	m := Fetch(context.Background(), caller, "0xaddr", 1)
	assert.Equal(t, "", m.Symbol)
	assert.Nil(t, m.TotalSupply)
}
