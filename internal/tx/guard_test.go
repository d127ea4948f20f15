package tx

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shiftlayer-llc/htcli-sub001/internal/gateway"
)

func TestGuard_Approved(t *testing.T) {
	chain := &stubChain{balance: 10 * gateway.PlanckPerToken, fee: gateway.PlanckPerToken / 2}
	var prompted bool
	guard := NewGuard(chain, ConfirmerFunc(func(prompt string) (bool, error) {
		prompted = true
		return true, nil
	}))

	var out bytes.Buffer
	guard.SetOutput(&out)

	ok, err := guard.CheckAndConfirm(testCall(t), "addr")
	if err != nil {
		t.Fatalf("CheckAndConfirm() error: %v", err)
	}
	if !ok {
		t.Error("confirmed submission should be approved")
	}
	if !prompted {
		t.Error("confirmer was not consulted")
	}

	// The summary shows the user what they are agreeing to.
	for _, want := range []string{
		"Balances.transfer_keep_alive",
		"10.000000000 TENSOR",
		"0.500000000 TENSOR",
		"9.500000000 TENSOR",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("summary missing %q:\n%s", want, out.String())
		}
	}
}

func TestGuard_Declined(t *testing.T) {
	chain := &stubChain{balance: 10_000, fee: 100}
	guard := NewGuard(chain, ConfirmerFunc(func(string) (bool, error) { return false, nil }))
	guard.SetOutput(discard{})

	ok, err := guard.CheckAndConfirm(testCall(t), "addr")
	if err != nil {
		t.Fatalf("CheckAndConfirm() error: %v", err)
	}
	if ok {
		t.Error("declined submission should not be approved")
	}
}

func TestGuard_InsufficientBalance(t *testing.T) {
	chain := &stubChain{balance: 99, fee: 100}
	guard := NewGuard(chain, ConfirmerFunc(func(string) (bool, error) {
		t.Fatal("must not prompt when the balance cannot cover the fee")
		return false, nil
	}))

	var out bytes.Buffer
	guard.SetOutput(&out)

	_, err := guard.CheckAndConfirm(testCall(t), "addr")

	var insufficient *InsufficientBalanceError
	if !errors.As(err, &insufficient) {
		t.Fatalf("error = %v, want InsufficientBalanceError", err)
	}
	if insufficient.Address != "addr" {
		t.Errorf("Address = %q, want addr", insufficient.Address)
	}
	if out.Len() != 0 {
		t.Error("no summary should be printed on a failed check")
	}
}

func TestGuard_ExactBalanceCoversFee(t *testing.T) {
	chain := &stubChain{balance: 100, fee: 100}
	guard := NewGuard(chain, AutoConfirm)
	guard.SetOutput(discard{})

	ok, err := guard.CheckAndConfirm(testCall(t), "addr")
	if err != nil {
		t.Fatalf("CheckAndConfirm() error: %v", err)
	}
	if !ok {
		t.Error("free == fee should pass the check")
	}
}

func TestGuard_FeeEstimateFailure(t *testing.T) {
	chain := &stubChain{feeErr: errors.New("node down")}
	guard := NewGuard(chain, AutoConfirm)
	guard.SetOutput(discard{})

	if _, err := guard.CheckAndConfirm(testCall(t), "addr"); err == nil {
		t.Error("fee estimation failure should fail the check")
	}
}

func TestGuard_BalanceFetchFailure(t *testing.T) {
	chain := &stubChain{balanceErr: errors.New("node down")}
	guard := NewGuard(chain, AutoConfirm)
	guard.SetOutput(discard{})

	if _, err := guard.CheckAndConfirm(testCall(t), "addr"); err == nil {
		t.Error("balance fetch failure should fail the check")
	}
}
