package tx

import (
	"errors"
	"fmt"

	"github.com/shiftlayer-llc/htcli-sub001/internal/gateway"
)

// ErrAborted is returned when the user declines the confirmation prompt.
var ErrAborted = errors.New("submission aborted by user")

// InsufficientBalanceError is the pre-flight failure raised by the guard when
// the free balance cannot cover the estimated fee. Both values are carried so
// the caller can show a precise message.
type InsufficientBalanceError struct {
	Address string
	Free    uint64
	Fee     uint64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for %s: free %s, estimated fee %s",
		e.Address, gateway.FormatBalance(e.Free), gateway.FormatBalance(e.Fee))
}

// ChainRejectedError means the chain adjudicated the extrinsic and reported a
// business-logic failure. Message is the chain's error verbatim. Never
// retried: the chain has already decided.
type ChainRejectedError struct {
	Message       string
	ExtrinsicHash string
}

func (e *ChainRejectedError) Error() string {
	return "chain rejected extrinsic: " + e.Message
}

// SubmissionExhaustedError means every submission attempt failed at the
// transport level. Last is the final transport error.
type SubmissionExhaustedError struct {
	Attempts int
	Last     error
}

func (e *SubmissionExhaustedError) Error() string {
	return fmt.Sprintf("submission failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *SubmissionExhaustedError) Unwrap() error {
	return e.Last
}
