package tx

import (
	"fmt"
	"io"
	"os"

	"github.com/shiftlayer-llc/htcli-sub001/internal/gateway"
)

// Confirmer obtains the user's yes/no decision before a submission proceeds.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(prompt string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmerFunc) Confirm(prompt string) (bool, error) {
	return f(prompt)
}

// AutoConfirm approves every submission without prompting (--yes flows).
var AutoConfirm = ConfirmerFunc(func(string) (bool, error) { return true, nil })

// Guard performs the pre-flight affordability check and obtains explicit
// consent. The check is local and informational: balances can change between
// here and actual submission, and the chain remains the authority.
type Guard struct {
	chain   Chain
	confirm Confirmer
	out     io.Writer
}

// NewGuard creates a guard over the given chain and confirmer.
func NewGuard(chain Chain, confirm Confirmer) *Guard {
	return &Guard{chain: chain, confirm: confirm, out: os.Stdout}
}

// SetOutput redirects the guard's summary output (tests).
func (g *Guard) SetOutput(w io.Writer) {
	g.out = w
}

// CheckAndConfirm estimates the fee for the call and compares it against the
// sender's free balance. When the balance cannot cover the fee it fails with
// InsufficientBalanceError and no prompt is shown. Otherwise it presents the
// balance, fee, and projected balance and returns the user's decision.
func (g *Guard) CheckAndConfirm(call gateway.Call, address string) (bool, error) {
	fee, err := g.chain.EstimateFee(call, address)
	if err != nil {
		return false, fmt.Errorf("estimate fee: %w", err)
	}

	free, err := g.chain.FreeBalance(address)
	if err != nil {
		return false, fmt.Errorf("fetch balance: %w", err)
	}

	if free < fee {
		return false, &InsufficientBalanceError{Address: address, Free: free, Fee: fee}
	}

	fmt.Fprintf(g.out, "Call:              %s\n", call)
	fmt.Fprintf(g.out, "Account:           %s\n", address)
	fmt.Fprintf(g.out, "Free balance:      %s\n", gateway.FormatBalance(free))
	fmt.Fprintf(g.out, "Estimated fee:     %s\n", gateway.FormatBalance(fee))
	fmt.Fprintf(g.out, "Projected balance: %s\n", gateway.FormatBalance(free-fee))

	return g.confirm.Confirm("Submit this transaction?")
}
