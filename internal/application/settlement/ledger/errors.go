package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrSigningRejected      = errors.New("signing rejected")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrNetwork              = errors.New("ledger network unavailable")
	ErrTransactionRejected  = errors.New("transaction rejected by the network")
	ErrSettlementInProgress = errors.New("a settlement with this idempotency key is already in flight")

	// ErrConfirmationTimeout is ambiguous: the transaction may still confirm later.
	ErrConfirmationTimeout = errors.New("confirmation not observed within the round budget")
	// ErrSubmitOutcomeUnknown means the signed bytes may have reached the pool but no
	// answer came back. The transaction can still confirm.
	ErrSubmitOutcomeUnknown = errors.New("submission outcome unknown")
)

type FailureKind string

const (
	FailureSigningRejected     FailureKind = "signing_rejected"
	FailureInsufficientBalance FailureKind = "insufficient_balance"
	FailureConfirmationTimeout FailureKind = "confirmation_timeout"
	FailureNetwork             FailureKind = "network_error"
	FailureSubmitUnknown       FailureKind = "submit_unknown"
	FailureRejected            FailureKind = "rejected"
	FailureInProgress          FailureKind = "in_progress"
	FailureUnknown             FailureKind = "unknown"
)

// SettlementError is the failure of a single settlement attempt.
type SettlementError struct {
	Kind FailureKind
	// Reference is the transaction id when the network accepted the transaction.
	Reference string
	// Retryable is true only when resubmitting cannot double spend.
	Retryable bool
	Err       error
}

func (e *SettlementError) Error() string {
	if e.Reference != "" {
		return fmt.Sprintf("settlement %s (tx %s): %v", e.Kind, e.Reference, e.Err)
	}
	return fmt.Sprintf("settlement %s: %v", e.Kind, e.Err)
}

func (e *SettlementError) Unwrap() error {
	return e.Err
}

// Classify maps an error from the Client to its failure kind.
func Classify(err error) FailureKind {
	switch {
	case errors.Is(err, ErrSigningRejected):
		return FailureSigningRejected
	case errors.Is(err, ErrInsufficientBalance):
		return FailureInsufficientBalance
	case errors.Is(err, ErrConfirmationTimeout):
		return FailureConfirmationTimeout
	case errors.Is(err, ErrSubmitOutcomeUnknown):
		return FailureSubmitUnknown
	case errors.Is(err, ErrTransactionRejected):
		return FailureRejected
	case errors.Is(err, ErrSettlementInProgress):
		return FailureInProgress
	case errors.Is(err, ErrNetwork):
		return FailureNetwork
	default:
		return FailureUnknown
	}
}

// NewSettlementError wraps err. A failure is retryable only when it is transient and
// nothing reached the network pool.
func NewSettlementError(err error, reference string) *SettlementError {
	kind := Classify(err)
	return &SettlementError{
		Kind:      kind,
		Reference: reference,
		Retryable: kind == FailureNetwork && reference == "",
		Err:       err,
	}
}

// IsDefinite reports failures after which the funds certainly did not move.
func IsDefinite(err error) bool {
	switch Classify(err) {
	case FailureSigningRejected, FailureInsufficientBalance, FailureRejected:
		return true
	}
	return false
}
