package usecases

import (
	"context"
	"sync"

	"github.com/orris-inc/fundtrail/internal/application/settlement/idempotency"
	"github.com/orris-inc/fundtrail/internal/application/settlement/ledger"
	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

// =====================================================================
// Mock Ledger Client
// =====================================================================

type mockLedgerClient struct {
	suggestedParamsFunc   func(ctx context.Context) (*ledger.NetworkParams, error)
	getBalanceFunc        func(ctx context.Context, address vo.Address) (vo.Microunits, error)
	submitPaymentFunc     func(ctx context.Context, order ledger.PaymentOrder) (*ledger.PendingHandle, error)
	awaitConfirmationFunc func(ctx context.Context, handle *ledger.PendingHandle, maxRounds int) (*ledger.ConfirmedRound, error)
	pendingStatusFunc     func(ctx context.Context, txID string) (*ledger.PendingStatus, error)

	mu          sync.Mutex
	submitCalls int
	lastBudget  int
}

func (m *mockLedgerClient) SuggestedParams(ctx context.Context) (*ledger.NetworkParams, error) {
	if m.suggestedParamsFunc != nil {
		return m.suggestedParamsFunc(ctx)
	}
	return &ledger.NetworkParams{MinFee: 1000, FirstValid: 100, LastValid: 1100, LastRound: 100}, nil
}

func (m *mockLedgerClient) GetBalance(ctx context.Context, address vo.Address) (vo.Microunits, error) {
	if m.getBalanceFunc != nil {
		return m.getBalanceFunc(ctx, address)
	}
	return 0, nil
}

func (m *mockLedgerClient) SubmitPayment(ctx context.Context, order ledger.PaymentOrder) (*ledger.PendingHandle, error) {
	m.mu.Lock()
	m.submitCalls++
	m.mu.Unlock()
	if m.submitPaymentFunc != nil {
		return m.submitPaymentFunc(ctx, order)
	}
	return &ledger.PendingHandle{TxID: "TX1", SubmittedRound: 100}, nil
}

func (m *mockLedgerClient) AwaitConfirmation(ctx context.Context, handle *ledger.PendingHandle, maxRounds int) (*ledger.ConfirmedRound, error) {
	m.mu.Lock()
	m.lastBudget = maxRounds
	m.mu.Unlock()
	if m.awaitConfirmationFunc != nil {
		return m.awaitConfirmationFunc(ctx, handle, maxRounds)
	}
	return &ledger.ConfirmedRound{Round: handle.SubmittedRound + 2, RoundsWaited: 2}, nil
}

func (m *mockLedgerClient) PendingStatus(ctx context.Context, txID string) (*ledger.PendingStatus, error) {
	if m.pendingStatusFunc != nil {
		return m.pendingStatusFunc(ctx, txID)
	}
	return &ledger.PendingStatus{}, nil
}

func (m *mockLedgerClient) submits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submitCalls
}

// =====================================================================
// In-memory idempotency store
// =====================================================================

type memoryIdempotencyStore struct {
	mu      sync.Mutex
	records map[string]*idempotency.Record
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{records: make(map[string]*idempotency.Record)}
}

func (s *memoryIdempotencyStore) Begin(_ context.Context, key string) (*idempotency.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.records[key]; ok {
		c := *r
		return &c, false, nil
	}
	s.records[key] = &idempotency.Record{Status: idempotency.StatusInFlight}
	return nil, true, nil
}

func (s *memoryIdempotencyStore) MarkSubmitted(_ context.Context, key, reference string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = &idempotency.Record{Status: idempotency.StatusSubmitted, Reference: reference}
	return nil
}

func (s *memoryIdempotencyStore) Complete(_ context.Context, key, reference string, round uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = &idempotency.Record{Status: idempotency.StatusCompleted, Reference: reference, ConfirmedRound: round}
	return nil
}

func (s *memoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

func (s *memoryIdempotencyStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[key]
	return ok
}

// =====================================================================
// Recording metrics
// =====================================================================

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes []string
	rounds   []int
}

func (m *recordingMetrics) RecordOutcome(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

func (m *recordingMetrics) ObserveConfirmationRounds(rounds int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds = append(m.rounds, rounds)
}

// =====================================================================
// Helpers
// =====================================================================

func testAddress(seed byte) string {
	var pub [32]byte
	for i := range pub {
		pub[i] = seed ^ byte(i*31)
	}
	return vo.AddressFromPublicKey(pub).String()
}

func newTestLogger() logger.Interface {
	return logger.NewNopLogger()
}
