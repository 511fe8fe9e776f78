package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/kaiachain/chainetl/log"
)

var logger = log.NewModuleLogger("rpc")

// DefaultTimeout is spec §5's default 60s per-call RPC timeout.
const DefaultTimeout = 60 * time.Second

// Client is a thin JSON-RPC 2.0 HTTP client supporting batch calls, in
// the style of client/bridge_client.go's Client.CallContext wrapper
// around an underlying *rpc.Client (github.com/kaiachain/klaytn's own
// networks/rpc). A Client is safe for concurrent use: the export jobs in
// package job build one Client per run and share it across every
// executor worker of that run.
type Client struct {
	endpoint string
	http     *http.Client
	idSeq    int64
}

// NewClient dials nothing eagerly; the HTTP client is lazy and
// connection-pooled per Go's net/http default transport.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: DefaultTimeout},
	}
}

// Dialer constructs a *Client on demand. The jobs in package job call it
// once per run, so there is no per-worker Client or connection.
type Dialer func() *Client

// NewDialer returns a Dialer that always points at endpoint. Each call
// yields a fresh *Client; all of them draw connections from net/http's
// shared default transport.
func NewDialer(endpoint string) Dialer {
	return func() *Client { return NewClient(endpoint) }
}

func (c *Client) nextID() int64 { return atomic.AddInt64(&c.idSeq, 1) }

// Call issues a single JSON-RPC request and decodes result into out.
func (c *Client) Call(ctx context.Context, out interface{}, method string, params ...interface{}) error {
	resps, err := c.BatchCall(ctx, []Call{{ID: c.nextID(), Method: method, Params: params}})
	if err != nil {
		return err
	}
	if len(resps) != 1 {
		return &WireDecodeError{Cause: errors.Errorf("expected 1 response, got %d", len(resps))}
	}
	r := resps[0]
	if r.Kind != KindNone {
		return r.Err
	}
	if out == nil || len(r.Result) == 0 {
		return nil
	}
	return json.Unmarshal(r.Result, out)
}

// BatchCall sends calls as a single JSON-RPC batch request and returns
// classified responses in the same order as calls, per spec §4.1's
// contract: make_batch_request(calls) -> ordered (id, result|error).
func (c *Client) BatchCall(ctx context.Context, calls []Call) ([]Response, error) {
	if len(calls) == 0 {
		return nil, nil
	}

	reqs := make([]wireRequest, len(calls))
	for i, call := range calls {
		id := call.ID
		if id == 0 {
			id = c.nextID()
		}
		reqs[i] = wireRequest{JSONRPC: "2.0", ID: id, Method: call.Method, Params: call.Params}
	}

	body, err := json.Marshal(reqs)
	if err != nil {
		return nil, &WireDecodeError{Cause: errors.Wrap(err, "marshal batch request")}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &WireDecodeError{Cause: errors.Wrap(err, "build http request")}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		logger.Warn("rpc transport error", "endpoint", c.endpoint, "err", err)
		return nil, &RetriableRPCError{Code: -32603, Message: err.Error()}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &WireDecodeError{Cause: errors.Wrap(err, "read response body")}
	}

	var wireResps []wireResponse
	if err := json.Unmarshal(respBody, &wireResps); err != nil {
		// A batch of one is sometimes answered with a bare object instead
		// of a one-element array; accept that shape too.
		if len(reqs) == 1 {
			var single wireResponse
			if jerr := json.Unmarshal(respBody, &single); jerr == nil {
				return []Response{classify(single)}, nil
			}
		}
		return nil, &WireDecodeError{Cause: errors.Wrap(err, "unmarshal batch response")}
	}

	byID := make(map[int64]wireResponse, len(wireResps))
	for _, r := range wireResps {
		byID[r.ID] = r
	}

	out := make([]Response, len(reqs))
	for i, req := range reqs {
		resp, ok := byID[req.ID]
		if !ok {
			out[i] = Response{ID: req.ID, Kind: KindRetriable, Err: &RetriableRPCError{Message: errors.Errorf("missing response for id %d", req.ID).Error()}}
			continue
		}
		out[i] = classify(resp)
	}
	return out, nil
}
