package tx

import (
	"errors"
	"testing"
	"time"

	"github.com/shiftlayer-llc/htcli-sub001/internal/gateway"
	"github.com/shiftlayer-llc/htcli-sub001/internal/keys"
	"github.com/shiftlayer-llc/htcli-sub001/internal/rpcclient"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// stubChain scripts gateway behavior and records every interaction.
type stubChain struct {
	nonce       uint64
	nonceCalls  int
	nonceErr    error
	balance     uint64
	balanceErr  error
	fee         uint64
	feeErr      error
	submissions []*gateway.Extrinsic
	submit      func(attempt int, ext *gateway.Extrinsic) (*gateway.Receipt, error)
	policy      gateway.RetryPolicy
}

func (s *stubChain) AccountNonce(address string) (uint64, error) {
	s.nonceCalls++
	if s.nonceErr != nil {
		return 0, s.nonceErr
	}
	// Each fetch observes an advanced nonce, as a live chain would after an
	// ambiguous prior submission.
	s.nonce++
	return s.nonce, nil
}

func (s *stubChain) FreeBalance(address string) (uint64, error) {
	return s.balance, s.balanceErr
}

func (s *stubChain) EstimateFee(call gateway.Call, address string) (uint64, error) {
	return s.fee, s.feeErr
}

func (s *stubChain) SubmitExtrinsicOnce(ext *gateway.Extrinsic, wait bool) (*gateway.Receipt, error) {
	s.submissions = append(s.submissions, ext)
	return s.submit(len(s.submissions), ext)
}

func (s *stubChain) Policy() gateway.RetryPolicy {
	if s.policy.Attempts == 0 {
		return gateway.DefaultRetryPolicy()
	}
	return s.policy
}

func testKeypair(t *testing.T) *keys.Keypair {
	t.Helper()
	kp, err := keys.FromMnemonic(testMnemonic)
	if err != nil {
		t.Fatalf("FromMnemonic() error: %v", err)
	}
	return kp
}

func testCall(t *testing.T) gateway.Call {
	t.Helper()
	call, err := gateway.Compose(gateway.CallTransferBalance, map[string]interface{}{
		"dest":  "recipient",
		"value": uint64(1000),
	})
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	return call
}

// testPipeline builds a guardless pipeline with recorded sleeps.
func testPipeline(chain Chain) (*Pipeline, *[]time.Duration) {
	var slept []time.Duration
	p := NewPipeline(chain, nil)
	p.sleep = func(d time.Duration) { slept = append(slept, d) }
	return p, &slept
}

func transportErr(msg string) error {
	return &gateway.TransportError{Op: gateway.OpSubmitExtrinsic, Err: errors.New(msg)}
}

func TestSubmit_Success(t *testing.T) {
	chain := &stubChain{
		submit: func(attempt int, ext *gateway.Extrinsic) (*gateway.Receipt, error) {
			return &gateway.Receipt{Success: true, ExtrinsicHash: "0xabc"}, nil
		},
	}
	p, slept := testPipeline(chain)

	receipt, err := p.Submit(testKeypair(t), testCall(t))
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if !receipt.Success {
		t.Error("receipt should be successful")
	}
	if chain.nonceCalls != 1 {
		t.Errorf("nonce fetched %d times, want 1", chain.nonceCalls)
	}
	if len(*slept) != 0 {
		t.Errorf("slept %d times, want 0", len(*slept))
	}
}

func TestSubmit_SignsWithFreshNonce(t *testing.T) {
	kp := testKeypair(t)
	chain := &stubChain{
		submit: func(attempt int, ext *gateway.Extrinsic) (*gateway.Receipt, error) {
			if attempt < 3 {
				return nil, transportErr("timeout")
			}
			return &gateway.Receipt{Success: true, ExtrinsicHash: "0xabc"}, nil
		},
	}
	p, _ := testPipeline(chain)

	if _, err := p.Submit(kp, testCall(t)); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	if chain.nonceCalls != 3 {
		t.Fatalf("nonce fetched %d times, want one per attempt (3)", chain.nonceCalls)
	}
	for i, ext := range chain.submissions {
		if ext.Nonce != uint64(i+1) {
			t.Errorf("attempt %d signed nonce %d, want %d", i+1, ext.Nonce, i+1)
		}
		// Each attempt is re-signed over its own payload.
		if !kp.Verify(ext.SigningPayload(), ext.Signature) {
			t.Errorf("attempt %d carries an invalid signature", i+1)
		}
	}
}

func TestSubmit_ExhaustsTransportFailures(t *testing.T) {
	chain := &stubChain{
		submit: func(attempt int, ext *gateway.Extrinsic) (*gateway.Receipt, error) {
			return nil, transportErr("connection refused")
		},
	}
	p, slept := testPipeline(chain)

	_, err := p.Submit(testKeypair(t), testCall(t))

	var exhausted *SubmissionExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("error = %v, want SubmissionExhaustedError", err)
	}
	if exhausted.Attempts != 4 {
		t.Errorf("Attempts = %d, want 4", exhausted.Attempts)
	}
	if len(chain.submissions) != 4 {
		t.Errorf("submitted %d times, want 4", len(chain.submissions))
	}

	// Flat backoff between attempts.
	policy := gateway.DefaultRetryPolicy()
	if len(*slept) != 3 {
		t.Fatalf("slept %d times, want 3", len(*slept))
	}
	for i, d := range *slept {
		if d != policy.Backoff {
			t.Errorf("sleep %d = %v, want %v", i, d, policy.Backoff)
		}
	}

	var te *gateway.TransportError
	if !errors.As(err, &te) {
		t.Error("SubmissionExhaustedError should wrap the last transport error")
	}
}

func TestSubmit_DispatchErrorNotRetried(t *testing.T) {
	chain := &stubChain{
		submit: func(attempt int, ext *gateway.Extrinsic) (*gateway.Receipt, error) {
			return &gateway.Receipt{
				Success:       false,
				ExtrinsicHash: "0xdef",
				Error:         "Module error: SubnetNotFound",
			}, nil
		},
	}
	p, _ := testPipeline(chain)

	receipt, err := p.Submit(testKeypair(t), testCall(t))

	// One attempt only: the chain already decided.
	if len(chain.submissions) != 1 {
		t.Errorf("submitted %d times, want 1", len(chain.submissions))
	}

	var rejected *ChainRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("error = %v, want ChainRejectedError", err)
	}
	if rejected.Message != "Module error: SubnetNotFound" {
		t.Errorf("Message = %q, want the chain's error verbatim", rejected.Message)
	}
	if rejected.ExtrinsicHash != "0xdef" {
		t.Errorf("ExtrinsicHash = %q, want 0xdef", rejected.ExtrinsicHash)
	}

	// The receipt is still returned alongside the error.
	if receipt == nil {
		t.Fatal("receipt should be returned for an included extrinsic")
	}
	if receipt.Success {
		t.Error("receipt should not be successful")
	}
}

func TestSubmit_RPCErrorNotRetried(t *testing.T) {
	chain := &stubChain{
		submit: func(attempt int, ext *gateway.Extrinsic) (*gateway.Receipt, error) {
			return nil, &rpcclient.RPCError{Code: 1010, Message: "Invalid Transaction"}
		},
	}
	p, _ := testPipeline(chain)

	_, err := p.Submit(testKeypair(t), testCall(t))

	var rejected *ChainRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("error = %v, want ChainRejectedError", err)
	}
	if rejected.Message != "Invalid Transaction" {
		t.Errorf("Message = %q", rejected.Message)
	}
	if len(chain.submissions) != 1 {
		t.Errorf("submitted %d times, want 1", len(chain.submissions))
	}
}

func TestSubmit_RecoversAfterTransientFailure(t *testing.T) {
	chain := &stubChain{
		submit: func(attempt int, ext *gateway.Extrinsic) (*gateway.Receipt, error) {
			if attempt == 1 {
				return nil, transportErr("broken pipe")
			}
			return &gateway.Receipt{Success: true, ExtrinsicHash: "0xabc"}, nil
		},
	}
	p, slept := testPipeline(chain)

	receipt, err := p.Submit(testKeypair(t), testCall(t))
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if !receipt.Success {
		t.Error("receipt should be successful")
	}
	if len(*slept) != 1 {
		t.Errorf("slept %d times, want 1", len(*slept))
	}
}

func TestSubmit_NonceFailureAborts(t *testing.T) {
	chain := &stubChain{
		nonceErr: &gateway.ExhaustedError{Op: gateway.OpAccountNonce, Attempts: 4, Last: transportErr("down")},
		submit: func(attempt int, ext *gateway.Extrinsic) (*gateway.Receipt, error) {
			t.Fatal("must not submit without a nonce")
			return nil, nil
		},
	}
	p, _ := testPipeline(chain)

	if _, err := p.Submit(testKeypair(t), testCall(t)); err == nil {
		t.Error("nonce failure should abort the submission")
	}
	if len(chain.submissions) != 0 {
		t.Errorf("submitted %d times, want 0", len(chain.submissions))
	}
}

func TestSubmit_GuardInsufficientBalance(t *testing.T) {
	chain := &stubChain{
		balance: 500,
		fee:     600,
		submit: func(attempt int, ext *gateway.Extrinsic) (*gateway.Receipt, error) {
			t.Fatal("must not submit when the guard fails")
			return nil, nil
		},
	}
	guard := NewGuard(chain, AutoConfirm)
	guard.SetOutput(discard{})
	p := NewPipeline(chain, guard)

	_, err := p.Submit(testKeypair(t), testCall(t))

	var insufficient *InsufficientBalanceError
	if !errors.As(err, &insufficient) {
		t.Fatalf("error = %v, want InsufficientBalanceError", err)
	}
	if insufficient.Free != 500 || insufficient.Fee != 600 {
		t.Errorf("Free/Fee = %d/%d, want 500/600", insufficient.Free, insufficient.Fee)
	}
	// Short-circuit: no nonce fetch, no submission.
	if chain.nonceCalls != 0 {
		t.Errorf("nonce fetched %d times, want 0", chain.nonceCalls)
	}
}

func TestSubmit_GuardDeclined(t *testing.T) {
	chain := &stubChain{
		balance: 10_000,
		fee:     600,
		submit: func(attempt int, ext *gateway.Extrinsic) (*gateway.Receipt, error) {
			t.Fatal("must not submit after the user declines")
			return nil, nil
		},
	}
	decline := ConfirmerFunc(func(string) (bool, error) { return false, nil })
	guard := NewGuard(chain, decline)
	guard.SetOutput(discard{})
	p := NewPipeline(chain, guard)

	_, err := p.Submit(testKeypair(t), testCall(t))
	if !errors.Is(err, ErrAborted) {
		t.Errorf("error = %v, want ErrAborted", err)
	}
	if len(chain.submissions) != 0 {
		t.Errorf("submitted %d times, want 0", len(chain.submissions))
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
