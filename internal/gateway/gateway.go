// Package gateway is the client's contract with the remote Hypertensor node:
// a declarative registry of named operations, one generic retrying invoker,
// and typed helpers over it.
package gateway

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/shiftlayer-llc/htcli-sub001/internal/log"
	"github.com/shiftlayer-llc/htcli-sub001/internal/rpcclient"
)

// BlockTime is the chain's block production cadence.
const BlockTime = 6 * time.Second

// RetryPolicy bounds remote attempts. Backoff is flat (no escalation, no
// jitter): waiting one block time plus a second is enough for a node to
// recover or for the next block to land.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// DefaultRetryPolicy returns the uniform policy applied to every remote
// operation: 4 attempts, BlockTime+1s apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts: 4,
		Backoff:  BlockTime + time.Second,
	}
}

// Caller is the RPC transport the gateway drives. *rpcclient.Client
// implements it; tests substitute stubs.
type Caller interface {
	Call(method string, params, result interface{}) error
}

// Gateway wraps a node RPC endpoint with the uniform retry policy.
type Gateway struct {
	rpc    Caller
	policy RetryPolicy
	sleep  func(time.Duration)
	log    zerolog.Logger
}

// New creates a gateway over the given transport with the default policy.
func New(rpc Caller) *Gateway {
	return &Gateway{
		rpc:    rpc,
		policy: DefaultRetryPolicy(),
		sleep:  time.Sleep,
		log:    log.Gateway,
	}
}

// WithPolicy overrides the retry policy.
func (g *Gateway) WithPolicy(p RetryPolicy) *Gateway {
	if p.Attempts > 0 {
		g.policy = p
	}
	return g
}

// Policy returns the retry policy. The submission pipeline shares it for its
// own re-sign loop.
func (g *Gateway) Policy() RetryPolicy {
	return g.policy
}

// Invoke runs a named operation with the uniform retry policy. Transport
// failures are retried up to the attempt budget with a flat backoff between
// attempts; node-adjudicated errors (*rpcclient.RPCError) surface immediately
// since retrying a decided request cannot succeed.
func (g *Gateway) Invoke(op string, params, result interface{}) error {
	var last error
	for attempt := 1; attempt <= g.policy.Attempts; attempt++ {
		if attempt > 1 {
			g.sleep(g.policy.Backoff)
		}

		err := g.InvokeOnce(op, params, result)
		if err == nil {
			return nil
		}

		var te *TransportError
		if !errors.As(err, &te) {
			return err
		}

		g.log.Warn().
			Str("op", op).
			Int("attempt", attempt).
			Int("max_attempts", g.policy.Attempts).
			Err(te.Err).
			Msg("transport failure")
		last = err
	}
	return &ExhaustedError{Op: op, Attempts: g.policy.Attempts, Last: last}
}

// InvokeOnce runs a named operation exactly once, classifying failures.
// The submission pipeline uses this directly so it can refresh the nonce and
// re-sign between its own attempts.
func (g *Gateway) InvokeOnce(op string, params, result interface{}) error {
	method, err := queryMethod(op)
	if err != nil {
		return err
	}

	if err := g.rpc.Call(method, params, result); err != nil {
		var rpcErr *rpcclient.RPCError
		if errors.As(err, &rpcErr) {
			return err
		}
		return &TransportError{Op: op, Err: err}
	}
	return nil
}

// ── Typed helpers ───────────────────────────────────────────────────────

// AccountNonce fetches the current transaction nonce for an address. Never
// cached: the pipeline calls this fresh on every submission attempt.
func (g *Gateway) AccountNonce(address string) (uint64, error) {
	var nonce uint64
	if err := g.Invoke(OpAccountNonce, []interface{}{address}, &nonce); err != nil {
		return 0, err
	}
	return nonce, nil
}

// FreeBalance fetches the spendable balance of an address, in planck.
func (g *Gateway) FreeBalance(address string) (uint64, error) {
	var balance uint64
	if err := g.Invoke(OpFreeBalance, []interface{}{address}, &balance); err != nil {
		return 0, err
	}
	return balance, nil
}

// feeInfo is the node's fee estimation result.
type feeInfo struct {
	PartialFee uint64 `json:"partial_fee"`
}

// EstimateFee asks the node for the inclusion fee of a call signed by the
// given address.
func (g *Gateway) EstimateFee(call Call, address string) (uint64, error) {
	var info feeInfo
	params := map[string]interface{}{"call": call, "address": address}
	if err := g.Invoke(OpEstimateFee, params, &info); err != nil {
		return 0, err
	}
	return info.PartialFee, nil
}

// submitResult is the node's response to a watched submission.
type submitResult struct {
	ExtrinsicHash string  `json:"extrinsic_hash"`
	Included      bool    `json:"included"`
	DispatchError string  `json:"dispatch_error"`
	Events        []Event `json:"events"`
}

// SubmitExtrinsicOnce sends a signed extrinsic in a single attempt, waiting
// for block inclusion when wait is true. Retry lives in the submission
// pipeline, which must re-fetch the nonce and re-sign before each attempt.
func (g *Gateway) SubmitExtrinsicOnce(ext *Extrinsic, wait bool) (*Receipt, error) {
	params := map[string]interface{}{"extrinsic": ext, "wait_for_inclusion": wait}
	var res submitResult
	if err := g.InvokeOnce(OpSubmitExtrinsic, params, &res); err != nil {
		return nil, err
	}

	hash := res.ExtrinsicHash
	if hash == "" {
		hash = ext.Hash()
	}
	return &Receipt{
		Success:       res.Included && res.DispatchError == "",
		ExtrinsicHash: hash,
		Error:         res.DispatchError,
		Events:        res.Events,
	}, nil
}

// BlockEvents fetches the events emitted in a block.
func (g *Gateway) BlockEvents(blockHash string) ([]Event, error) {
	var events []Event
	if err := g.Invoke(OpBlockEvents, []interface{}{blockHash}, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// HeadInfo describes the chain head.
type HeadInfo struct {
	Height uint64 `json:"height"`
	Hash   string `json:"hash"`
}

// ChainHead fetches the current best block.
func (g *Gateway) ChainHead() (*HeadInfo, error) {
	var head HeadInfo
	if err := g.Invoke(OpChainHead, nil, &head); err != nil {
		return nil, err
	}
	return &head, nil
}

// Epoch fetches the current network epoch.
func (g *Gateway) Epoch() (uint64, error) {
	var epoch uint64
	if err := g.Invoke(OpEpoch, nil, &epoch); err != nil {
		return 0, err
	}
	return epoch, nil
}

// SubnetInfo describes a registered subnet.
type SubnetInfo struct {
	ID         uint64 `json:"id"`
	Path       string `json:"path"`
	MemoryMB   uint64 `json:"memory_mb"`
	NodeCount  uint64 `json:"node_count"`
	Activated  bool   `json:"activated"`
	TotalStake uint64 `json:"total_stake"`
}

// Subnets lists registered subnets.
func (g *Gateway) Subnets() ([]SubnetInfo, error) {
	var subnets []SubnetInfo
	if err := g.Invoke(OpSubnetList, nil, &subnets); err != nil {
		return nil, err
	}
	return subnets, nil
}

// Subnet fetches one subnet by ID.
func (g *Gateway) Subnet(id uint64) (*SubnetInfo, error) {
	var info SubnetInfo
	if err := g.Invoke(OpSubnetInfo, []interface{}{id}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// NodeInfo describes a subnet node.
type NodeInfo struct {
	ID      uint64 `json:"id"`
	Hotkey  string `json:"hotkey"`
	PeerID  string `json:"peer_id"`
	Classed string `json:"classification"`
	Stake   uint64 `json:"stake"`
}

// SubnetNode fetches a node's registration state within a subnet.
func (g *Gateway) SubnetNode(subnetID, nodeID uint64) (*NodeInfo, error) {
	var info NodeInfo
	if err := g.Invoke(OpSubnetNodeInfo, []interface{}{subnetID, nodeID}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// MinStake fetches the minimum stake required to register a node in a subnet.
func (g *Gateway) MinStake(subnetID uint64) (uint64, error) {
	var min uint64
	if err := g.Invoke(OpMinStake, []interface{}{subnetID}, &min); err != nil {
		return 0, err
	}
	return min, nil
}

// RegistrationCost fetches the current cost of registering a subnet.
func (g *Gateway) RegistrationCost() (uint64, error) {
	var cost uint64
	if err := g.Invoke(OpRegistrationCost, nil, &cost); err != nil {
		return 0, err
	}
	return cost, nil
}

// StakeBalance fetches a hotkey's stake within a subnet.
func (g *Gateway) StakeBalance(subnetID uint64, hotkey string) (uint64, error) {
	var stake uint64
	if err := g.Invoke(OpStakeBalance, []interface{}{subnetID, hotkey}, &stake); err != nil {
		return 0, err
	}
	return stake, nil
}

// DelegateStakeBalance fetches an account's delegate stake shares in a subnet.
func (g *Gateway) DelegateStakeBalance(subnetID uint64, address string) (uint64, error) {
	var shares uint64
	if err := g.Invoke(OpDelegateStakeBalance, []interface{}{subnetID, address}, &shares); err != nil {
		return 0, err
	}
	return shares, nil
}
