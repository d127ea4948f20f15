package gateway

import (
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Param is a single named call argument. Order matters: the runtime decodes
// arguments positionally, so Params is a slice, not a map.
type Param struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

// Call identifies a runtime call: pallet module, function, and ordered
// arguments. Immutable once composed.
type Call struct {
	Module   string  `json:"module"`
	Function string  `json:"function"`
	Params   []Param `json:"params"`
}

// String returns "Module.function" for logs and prompts.
func (c Call) String() string {
	return c.Module + "." + c.Function
}

// Event is a runtime event emitted during extrinsic execution.
type Event struct {
	Module string          `json:"module"`
	Name   string          `json:"name"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Receipt is the terminal outcome of a submitted extrinsic. Success is false
// when the extrinsic was included but the runtime reported a dispatch error;
// Error then carries the chain's message verbatim.
type Receipt struct {
	Success       bool
	ExtrinsicHash string
	Error         string
	Events        []Event
}

// Extrinsic binds a call to a sender, nonce, and signature. A fresh one is
// built on every submission attempt because the nonce may have advanced.
type Extrinsic struct {
	Call      Call   `json:"call"`
	Nonce     uint64 `json:"nonce"`
	Signer    string `json:"signer"`
	Signature []byte `json:"signature,omitempty"`
}

// NewExtrinsic builds an unsigned extrinsic.
func NewExtrinsic(call Call, nonce uint64, signer string) *Extrinsic {
	return &Extrinsic{Call: call, Nonce: nonce, Signer: signer}
}

// SigningPayload returns the deterministic byte encoding the signature covers:
// the call, nonce, and signer, without the signature itself.
func (e *Extrinsic) SigningPayload() []byte {
	unsigned := Extrinsic{Call: e.Call, Nonce: e.Nonce, Signer: e.Signer}
	payload, err := json.Marshal(&unsigned)
	if err != nil {
		// Call values are plain strings and integers; this cannot fail.
		panic(fmt.Sprintf("encode signing payload: %v", err))
	}
	return payload
}

// Hash returns the 0x-prefixed BLAKE2b-256 hash of the signed extrinsic.
func (e *Extrinsic) Hash() string {
	signed, err := json.Marshal(e)
	if err != nil {
		panic(fmt.Sprintf("encode extrinsic: %v", err))
	}
	sum := blake2b.Sum256(signed)
	return fmt.Sprintf("0x%x", sum)
}
