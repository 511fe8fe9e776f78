package rpc

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractCallerCallSendsKlayCall(t *testing.T) {
	var gotMethod string
	var gotParams []interface{}
	srv := newTestServer(t, func(reqs []wireRequest) []wireResponse {
		require.Len(t, reqs, 1)
		gotMethod = reqs[0].Method
		gotParams = reqs[0].Params
		return []wireResponse{{ID: reqs[0].ID, Result: json.RawMessage(`"0x01"`)}}
	})
	defer srv.Close()

	caller := NewContractCaller(NewClient(srv.URL))
	out, err := caller.Call(context.Background(), "0x1234567890123456789012345678901234567890", 100, "0x95d89b41")
	require.NoError(t, err)
	assert.Equal(t, "0x01", out)
	assert.Equal(t, "klay_call", gotMethod)
	assert.Len(t, gotParams, 2)
}

func TestContractCallerSupportsInterfaceDecodesTrue(t *testing.T) {
	srv := newTestServer(t, func(reqs []wireRequest) []wireResponse {
		return []wireResponse{{ID: reqs[0].ID, Result: json.RawMessage(`"0x` + strings.Repeat("0", 63) + `1"`)}}
	})
	defer srv.Close()

	caller := NewContractCaller(NewClient(srv.URL))
	ok, err := caller.SupportsInterface(context.Background(), "0x1234567890123456789012345678901234567890", 100, "0xd9b67a26")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestContractCallerSupportsInterfaceDecodesFalse(t *testing.T) {
	srv := newTestServer(t, func(reqs []wireRequest) []wireResponse {
		return []wireResponse{{ID: reqs[0].ID, Result: json.RawMessage(`"0x` + strings.Repeat("0", 64) + `"`)}}
	})
	defer srv.Close()

	caller := NewContractCaller(NewClient(srv.URL))
	ok, err := caller.SupportsInterface(context.Background(), "0x1234567890123456789012345678901234567890", 100, "0xd9b67a26")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLeftPad32PadsShortValue(t *testing.T) {
	assert.Equal(t, "d9b67a26"+strings.Repeat("0", 56), leftPad32("d9b67a26"))
}
