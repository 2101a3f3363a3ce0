package usecases

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/orris-inc/fundtrail/internal/application/settlement/ledger"
	settlementUsecases "github.com/orris-inc/fundtrail/internal/application/settlement/usecases"
	"github.com/orris-inc/fundtrail/internal/domain/funding"
	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

// =====================================================================
// In-memory donation repository with version checks
// =====================================================================

type memoryDonationRepo struct {
	mu    sync.Mutex
	items map[string]*funding.Donation

	replaceCalls  int
	beforeReplace func(d *funding.Donation)
}

func newMemoryDonationRepo() *memoryDonationRepo {
	return &memoryDonationRepo{items: make(map[string]*funding.Donation)}
}

func snapshot(d *funding.Donation) *funding.Donation {
	c, err := funding.ReconstructDonationWithParams(funding.DonationReconstructParams{
		ID:                   d.ID(),
		DonorIdentity:        d.DonorIdentity(),
		OrganizationIdentity: d.OrganizationIdentity(),
		Amount:               d.Amount(),
		Reason:               d.Reason(),
		SettlementReference:  d.SettlementReference(),
		Allocations:          d.Allocations(),
		Version:              d.Version(),
		CreatedAt:            d.CreatedAt(),
		UpdatedAt:            d.UpdatedAt(),
	})
	if err != nil {
		panic(err)
	}
	return c
}

func (r *memoryDonationRepo) Create(_ context.Context, d *funding.Donation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.SettlementReference() == d.SettlementReference() {
			return funding.ErrDuplicateSettlementReference
		}
	}
	r.items[d.ID()] = snapshot(d)
	return nil
}

func (r *memoryDonationRepo) GetByID(_ context.Context, id string) (*funding.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.items[id]
	if !ok {
		return nil, funding.ErrDonationNotFound
	}
	return snapshot(d), nil
}

func (r *memoryDonationRepo) GetBySettlementReference(_ context.Context, reference string) (*funding.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.items {
		if d.SettlementReference() == reference {
			return snapshot(d), nil
		}
	}
	return nil, funding.ErrDonationNotFound
}

func (r *memoryDonationRepo) Replace(_ context.Context, d *funding.Donation) error {
	if r.beforeReplace != nil {
		r.beforeReplace(d)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaceCalls++
	stored, ok := r.items[d.ID()]
	if !ok {
		return funding.ErrDonationNotFound
	}
	if stored.Version() != d.Version() {
		return funding.ErrVersionConflict
	}
	d.SetVersion(d.Version() + 1)
	r.items[d.ID()] = snapshot(d)
	return nil
}

func (r *memoryDonationRepo) ListAvailable(ctx context.Context, org string) ([]*funding.Donation, error) {
	all, _ := r.ListByOrganization(ctx, org)
	out := all[:0]
	for _, d := range all {
		if d.Remaining() > 0 {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memoryDonationRepo) ListByOrganization(_ context.Context, org string) ([]*funding.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*funding.Donation
	for _, d := range r.items {
		if d.OrganizationIdentity() == org {
			out = append(out, snapshot(d))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].CreatedAt().Before(out[j].CreatedAt())
		}
		return out[i].ID() < out[j].ID()
	})
	return out, nil
}

// put stores a donation with a fixed creation time.
func (r *memoryDonationRepo) put(id, org string, amount vo.Microunits, createdAt time.Time, allocations ...*funding.Allocation) {
	d, err := funding.ReconstructDonationWithParams(funding.DonationReconstructParams{
		ID:                   id,
		DonorIdentity:        "donor",
		OrganizationIdentity: org,
		Amount:               amount,
		SettlementReference:  "TX-" + id,
		Allocations:          allocations,
		Version:              1,
		CreatedAt:            createdAt,
		UpdatedAt:            createdAt,
	})
	if err != nil {
		panic(err)
	}
	r.mu.Lock()
	r.items[id] = d
	r.mu.Unlock()
}

// =====================================================================
// In-memory project repository
// =====================================================================

type memoryProjectRepo struct {
	mu    sync.Mutex
	items map[string]*funding.Project
}

func newMemoryProjectRepo(projects ...*funding.Project) *memoryProjectRepo {
	r := &memoryProjectRepo{items: make(map[string]*funding.Project)}
	for _, p := range projects {
		r.items[p.ID()] = p
	}
	return r
}

func (r *memoryProjectRepo) Create(_ context.Context, p *funding.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[p.ID()] = p
	return nil
}

func (r *memoryProjectRepo) GetByID(_ context.Context, id string) (*funding.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, funding.ErrProjectNotFound
	}
	return p, nil
}

func (r *memoryProjectRepo) ListByOrganization(_ context.Context, org string) ([]*funding.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*funding.Project
	for _, p := range r.items {
		if p.OrganizationIdentity() == org {
			out = append(out, p)
		}
	}
	return out, nil
}

// =====================================================================
// Mock settler and verifier
// =====================================================================

type mockSettler struct {
	executeFunc func(ctx context.Context, req settlementUsecases.SettlementRequest, budget int) (*settlementUsecases.SettlementResult, error)

	mu       sync.Mutex
	requests []settlementUsecases.SettlementRequest
}

func (m *mockSettler) Execute(ctx context.Context, req settlementUsecases.SettlementRequest, budget int) (*settlementUsecases.SettlementResult, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.executeFunc != nil {
		return m.executeFunc(ctx, req, budget)
	}
	return &settlementUsecases.SettlementResult{Reference: "TXSETTLED", ConfirmedRound: 42}, nil
}

func (m *mockSettler) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

type mockVerifier struct {
	pendingStatusFunc func(ctx context.Context, txID string) (*ledger.PendingStatus, error)
}

func (m *mockVerifier) PendingStatus(ctx context.Context, txID string) (*ledger.PendingStatus, error) {
	return m.pendingStatusFunc(ctx, txID)
}

// =====================================================================
// Helpers
// =====================================================================

func testAddress(seed byte) string {
	var pub [32]byte
	for i := range pub {
		pub[i] = seed + byte(i)*3
	}
	return vo.AddressFromPublicKey(pub).String()
}

func newTestLogger() logger.Interface {
	return logger.NewNopLogger()
}
