package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler func(reqs []wireRequest) []wireResponse) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqs []wireRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqs))
		resps := handler(reqs)
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resps))
	}))
}

func TestBatchCallPreservesOrder(t *testing.T) {
	srv := newTestServer(t, func(reqs []wireRequest) []wireResponse {
		// respond out of order to prove the client re-sorts by id.
		resps := make([]wireResponse, len(reqs))
		for i := len(reqs) - 1; i >= 0; i-- {
			req := reqs[len(reqs)-1-i]
			resps[i] = wireResponse{ID: req.ID, Result: json.RawMessage(fmt.Sprintf(`"%s"`, req.Method))}
		}
		return resps
	})
	defer srv.Close()

	c := NewClient(srv.URL)
	calls := []Call{
		{ID: 1, Method: "m1"},
		{ID: 2, Method: "m2"},
		{ID: 3, Method: "m3"},
	}
	resps, err := c.BatchCall(context.Background(), calls)
	require.NoError(t, err)
	require.Len(t, resps, 3)
	for i, r := range resps {
		assert.Equal(t, KindNone, r.Kind)
		assert.Equal(t, calls[i].ID, r.ID)
	}
}

func TestBatchCallClassifiesGenesisParentNotFoundAsSuccess(t *testing.T) {
	srv := newTestServer(t, func(reqs []wireRequest) []wireResponse {
		return []wireResponse{{ID: reqs[0].ID, Error: &wireError{Code: -32000, Message: genesisParentNotFoundMsg}}}
	})
	defer srv.Close()

	c := NewClient(srv.URL)
	resps, err := c.BatchCall(context.Background(), []Call{{ID: 1, Method: "debug_traceBlockByNumber"}})
	require.NoError(t, err)
	require.Len(t, resps, 1)
	assert.Equal(t, KindNone, resps[0].Kind)
}

func TestBatchCallClassifiesRetriableCodes(t *testing.T) {
	for _, code := range []int{-32603, -32000, -32099} {
		code := code
		t.Run(fmt.Sprintf("code_%d", code), func(t *testing.T) {
			srv := newTestServer(t, func(reqs []wireRequest) []wireResponse {
				return []wireResponse{{ID: reqs[0].ID, Error: &wireError{Code: code, Message: "temporary"}}}
			})
			defer srv.Close()

			c := NewClient(srv.URL)
			resps, err := c.BatchCall(context.Background(), []Call{{ID: 1, Method: "m"}})
			require.NoError(t, err)
			require.Len(t, resps, 1)
			assert.Equal(t, KindRetriable, resps[0].Kind)
		})
	}
}

func TestBatchCallClassifiesOtherCodesAsFatal(t *testing.T) {
	srv := newTestServer(t, func(reqs []wireRequest) []wireResponse {
		return []wireResponse{{ID: reqs[0].ID, Error: &wireError{Code: -32601, Message: "method not found"}}}
	})
	defer srv.Close()

	c := NewClient(srv.URL)
	resps, err := c.BatchCall(context.Background(), []Call{{ID: 1, Method: "m"}})
	require.NoError(t, err)
	require.Len(t, resps, 1)
	assert.Equal(t, KindFatal, resps[0].Kind)
}

func TestBatchCallMissingResultAndErrorIsRetriable(t *testing.T) {
	srv := newTestServer(t, func(reqs []wireRequest) []wireResponse {
		return []wireResponse{{ID: reqs[0].ID}}
	})
	defer srv.Close()

	c := NewClient(srv.URL)
	resps, err := c.BatchCall(context.Background(), []Call{{ID: 1, Method: "m"}})
	require.NoError(t, err)
	require.Len(t, resps, 1)
	assert.Equal(t, KindRetriable, resps[0].Kind)
}

func TestCallDecodesResultIntoOut(t *testing.T) {
	srv := newTestServer(t, func(reqs []wireRequest) []wireResponse {
		return []wireResponse{{ID: reqs[0].ID, Result: json.RawMessage(`{"hash":"0xabc"}`)}}
	})
	defer srv.Close()

	c := NewClient(srv.URL)
	var out struct {
		Hash string `json:"hash"`
	}
	err := c.Call(context.Background(), &out, "klay_getBlockByNumber", "0x1", true)
	require.NoError(t, err)
	assert.Equal(t, "0xabc", out.Hash)
}
