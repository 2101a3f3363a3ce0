package ledger

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSettlementError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		reference string
		kind      FailureKind
		retryable bool
		definite  bool
	}{
		{"signing rejected", ErrSigningRejected, "", FailureSigningRejected, false, true},
		{"insufficient balance", fmt.Errorf("overspend: %w", ErrInsufficientBalance), "", FailureInsufficientBalance, false, true},
		{"timeout", ErrConfirmationTimeout, "TX1", FailureConfirmationTimeout, false, false},
		{"network before submit", ErrNetwork, "", FailureNetwork, true, false},
		{"network after submit", ErrNetwork, "TX1", FailureNetwork, false, false},
		{"lost submit answer", fmt.Errorf("%w: %w", ErrSubmitOutcomeUnknown, ErrNetwork), "", FailureSubmitUnknown, false, false},
		{"pool rejection", ErrTransactionRejected, "TX1", FailureRejected, false, true},
		{"unknown", errors.New("boom"), "", FailureUnknown, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := NewSettlementError(tt.err, tt.reference)
			assert.Equal(t, tt.kind, se.Kind)
			assert.Equal(t, tt.retryable, se.Retryable)
			assert.Equal(t, tt.definite, IsDefinite(se))
			assert.ErrorIs(t, se, tt.err)
		})
	}
}

func TestSettlementErrorMessage(t *testing.T) {
	se := NewSettlementError(ErrConfirmationTimeout, "TXABC")
	assert.Contains(t, se.Error(), "confirmation_timeout")
	assert.Contains(t, se.Error(), "TXABC")

	var target *SettlementError
	assert.True(t, errors.As(fmt.Errorf("donate: %w", se), &target))
	assert.Equal(t, "TXABC", target.Reference)
}

func TestFlatFee(t *testing.T) {
	p := &NetworkParams{Fee: 0, MinFee: 1000}
	assert.EqualValues(t, 1000, p.FlatFee())

	p = &NetworkParams{Fee: 10, MinFee: 1000}
	assert.EqualValues(t, 10*EstimatedPaymentSize, p.FlatFee())
}
