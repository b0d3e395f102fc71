// Package rpctest serves canned Solana JSON-RPC responses over httptest for
// tests that exercise the real rpc client.
package rpctest

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Handler answers one JSON-RPC method. A returned error becomes a JSON-RPC error object.
type Handler func(params json.RawMessage) (interface{}, error)

// Server is a JSON-RPC endpoint with per-method handlers and call counters.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]Handler
	calls    map[string]int
}

type request struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

// NewServer starts a server that is closed when t finishes.
func NewServer(t testing.TB) *Server {
	s := &Server{
		handlers: make(map[string]Handler),
		calls:    make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Handle registers h for method, replacing any earlier handler.
func (s *Server) Handle(method string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = h
}

// Result registers a handler that always answers with v.
func (s *Server) Result(method string, v interface{}) {
	s.Handle(method, func(json.RawMessage) (interface{}, error) { return v, nil })
}

// Calls returns how many times method was requested.
func (s *Server) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// TotalCalls counts every request the server has seen.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.ID) == 0 {
		req.ID = json.RawMessage("1")
	}

	s.mu.Lock()
	s.calls[req.Method]++
	h := s.handlers[req.Method]
	s.mu.Unlock()

	resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
	if h == nil {
		resp["error"] = map[string]interface{}{"code": -32601, "message": "method not found: " + req.Method}
	} else if result, err := h(req.Params); err != nil {
		resp["error"] = map[string]interface{}{"code": -32000, "message": err.Error()}
	} else {
		resp["result"] = result
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// WithContext wraps value the way context-carrying RPC results are shaped.
func WithContext(value interface{}) map[string]interface{} {
	return map[string]interface{}{
		"context": map[string]interface{}{"slot": 1},
		"value":   value,
	}
}

// Account renders an account in base64 encoding.
func Account(owner solana.PublicKey, data []byte, lamports uint64) map[string]interface{} {
	return map[string]interface{}{
		"data":       []string{base64.StdEncoding.EncodeToString(data), "base64"},
		"executable": false,
		"lamports":   lamports,
		"owner":      owner.String(),
		"rentEpoch":  0,
		"space":      len(data),
	}
}

// KeyedAccount renders one getProgramAccounts entry.
func KeyedAccount(pubkey, owner solana.PublicKey, data []byte) map[string]interface{} {
	return map[string]interface{}{
		"pubkey":  pubkey.String(),
		"account": Account(owner, data, 1_000_000),
	}
}

// Blockhash answers getLatestBlockhash with hash.
func Blockhash(hash solana.Hash) map[string]interface{} {
	return WithContext(map[string]interface{}{
		"blockhash":            hash.String(),
		"lastValidBlockHeight": 1000,
	})
}

// SignatureStatus answers getSignatureStatuses for one signature at the given status.
func SignatureStatus(status string, txErr interface{}) map[string]interface{} {
	return WithContext([]interface{}{map[string]interface{}{
		"slot":               1,
		"confirmations":      nil,
		"err":                txErr,
		"confirmationStatus": status,
	}})
}

// SentTransaction decodes the base64 transaction from sendTransaction or
// simulateTransaction params.
func SentTransaction(params json.RawMessage) (*solana.Transaction, error) {
	var args []json.RawMessage
	if err := json.Unmarshal(params, &args); err != nil || len(args) == 0 {
		return nil, fmt.Errorf("bad params: %s", params)
	}
	var encoded string
	if err := json.Unmarshal(args[0], &encoded); err != nil {
		return nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	return solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
}

// EchoSignature answers sendTransaction with the transaction's first signature
// and records the decoded transaction in sent.
func EchoSignature(sent chan<- *solana.Transaction) Handler {
	return func(params json.RawMessage) (interface{}, error) {
		tx, err := SentTransaction(params)
		if err != nil {
			return nil, err
		}
		if sent != nil {
			select {
			case sent <- tx:
			default:
			}
		}
		return tx.Signatures[0].String(), nil
	}
}
