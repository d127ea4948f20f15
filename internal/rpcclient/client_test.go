package rpcclient

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func rpcServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestCall_Result(t *testing.T) {
	c := rpcServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			JSONRPC string        `json:"jsonrpc"`
			Method  string        `json:"method"`
			Params  []interface{} `json:"params"`
			ID      int64         `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.JSONRPC != "2.0" {
			t.Errorf("jsonrpc = %q, want 2.0", req.JSONRPC)
		}
		if req.Method != "system_freeBalance" {
			t.Errorf("method = %q", req.Method)
		}
		if len(req.Params) != 1 || req.Params[0] != "addr" {
			t.Errorf("params = %v", req.Params)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"result":  uint64(12345),
			"id":      req.ID,
		})
	})

	var balance uint64
	if err := c.Call("system_freeBalance", []interface{}{"addr"}, &balance); err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if balance != 12345 {
		t.Errorf("balance = %d, want 12345", balance)
	}
}

func TestCall_NilResult(t *testing.T) {
	c := rpcServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","result":{"ignored":true},"id":1}`))
	})

	if err := c.Call("chain_getHead", nil, nil); err != nil {
		t.Fatalf("Call() error: %v", err)
	}
}

func TestCall_RPCError(t *testing.T) {
	c := rpcServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","error":{"code":-32601,"message":"method not found"},"id":1}`))
	})

	err := c.Call("no_such_method", nil, nil)

	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("error = %v, want *RPCError", err)
	}
	if rpcErr.Code != -32601 {
		t.Errorf("Code = %d, want -32601", rpcErr.Code)
	}
	if rpcErr.Message != "method not found" {
		t.Errorf("Message = %q", rpcErr.Message)
	}
}

func TestCall_HTTPError(t *testing.T) {
	c := rpcServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "node overloaded", http.StatusInternalServerError)
	})

	err := c.Call("system_freeBalance", nil, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	// Non-200 status is a transport failure, never an RPCError.
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		t.Errorf("HTTP failure classified as RPCError: %v", err)
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error should carry the status code: %v", err)
	}
}

func TestCall_MalformedResponse(t *testing.T) {
	c := rpcServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	if err := c.Call("chain_getHead", nil, nil); err == nil {
		t.Error("malformed response should fail")
	}
}

func TestCall_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	c := New(endpoint)
	err := c.Call("chain_getHead", nil, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		t.Errorf("connection failure classified as RPCError: %v", err)
	}
}

func TestCall_IncrementsRequestID(t *testing.T) {
	var ids []int64
	c := rpcServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID int64 `json:"id"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		ids = append(ids, req.ID)
		w.Write([]byte(`{"jsonrpc":"2.0","result":null,"id":` + "0" + `}`))
	})

	c.Call("a", nil, nil)
	c.Call("b", nil, nil)
	c.Call("c", nil, nil)

	if len(ids) != 3 || ids[0] >= ids[1] || ids[1] >= ids[2] {
		t.Errorf("request IDs should be strictly increasing, got %v", ids)
	}
}

func TestNewWithTimeout_ZeroUsesDefault(t *testing.T) {
	c := NewWithTimeout("http://127.0.0.1:9933", 0)
	if c.http.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", c.http.Timeout, DefaultTimeout)
	}
}
