// Package tx implements the transaction submission pipeline: fee check, sign,
// submit with bounded retry, and receipt interpretation.
package tx

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shiftlayer-llc/htcli-sub001/internal/gateway"
	"github.com/shiftlayer-llc/htcli-sub001/internal/keys"
	"github.com/shiftlayer-llc/htcli-sub001/internal/log"
	"github.com/shiftlayer-llc/htcli-sub001/internal/rpcclient"
)

// Chain is the gateway surface the pipeline needs. *gateway.Gateway
// implements it; tests substitute stubs.
type Chain interface {
	AccountNonce(address string) (uint64, error)
	FreeBalance(address string) (uint64, error)
	EstimateFee(call gateway.Call, address string) (uint64, error)
	SubmitExtrinsicOnce(ext *gateway.Extrinsic, wait bool) (*gateway.Receipt, error)
	Policy() gateway.RetryPolicy
}

// Pipeline orchestrates one submission end to end.
type Pipeline struct {
	chain Chain
	guard *Guard
	sleep func(time.Duration)
	log   zerolog.Logger
}

// NewPipeline creates a submission pipeline. guard may be nil to skip the
// pre-flight affordability check and confirmation.
func NewPipeline(chain Chain, guard *Guard) *Pipeline {
	return &Pipeline{
		chain: chain,
		guard: guard,
		sleep: time.Sleep,
		log:   log.Tx,
	}
}

// Submit drives a call through the full lifecycle:
//
//	compose (done by the caller) → fee check → sign → submit → interpret
//
// Each attempt signs with a freshly fetched nonce, because a prior
// unacknowledged submission may have advanced the account's nonce. Only
// transport failures are retried, bounded by the gateway's policy; rejections
// the chain has adjudicated are surfaced immediately.
func (p *Pipeline) Submit(kp *keys.Keypair, call gateway.Call) (*gateway.Receipt, error) {
	if p.guard != nil {
		ok, err := p.guard.CheckAndConfirm(call, kp.Address)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrAborted
		}
	}

	policy := p.chain.Policy()
	var last error

	for attempt := 1; attempt <= policy.Attempts; attempt++ {
		if attempt > 1 {
			p.sleep(policy.Backoff)
		}

		nonce, err := p.chain.AccountNonce(kp.Address)
		if err != nil {
			return nil, fmt.Errorf("fetch nonce: %w", err)
		}

		ext := gateway.NewExtrinsic(call, nonce, kp.Address)
		ext.Signature = kp.Sign(ext.SigningPayload())

		p.log.Debug().
			Str("call", call.String()).
			Uint64("nonce", nonce).
			Int("attempt", attempt).
			Msg("submitting extrinsic")

		receipt, err := p.chain.SubmitExtrinsicOnce(ext, true)
		if err != nil {
			var te *gateway.TransportError
			if errors.As(err, &te) {
				p.log.Warn().
					Int("attempt", attempt).
					Int("max_attempts", policy.Attempts).
					Err(te.Err).
					Msg("submission transport failure")
				last = err
				continue
			}

			// The node adjudicated the extrinsic and refused it.
			var rpcErr *rpcclient.RPCError
			if errors.As(err, &rpcErr) {
				return nil, &ChainRejectedError{Message: rpcErr.Message}
			}
			return nil, err
		}

		if !receipt.Success {
			// Included on chain, but the runtime reported a dispatch
			// failure. The submission itself succeeded; never retried.
			p.log.Info().
				Str("extrinsic", receipt.ExtrinsicHash).
				Str("error", receipt.Error).
				Msg("extrinsic included with dispatch error")
			return receipt, &ChainRejectedError{
				Message:       receipt.Error,
				ExtrinsicHash: receipt.ExtrinsicHash,
			}
		}

		p.log.Info().
			Str("extrinsic", receipt.ExtrinsicHash).
			Int("events", len(receipt.Events)).
			Msg("extrinsic included")
		return receipt, nil
	}

	return nil, &SubmissionExhaustedError{Attempts: policy.Attempts, Last: last}
}
