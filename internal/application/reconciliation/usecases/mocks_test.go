package usecases

import (
	"context"
	"sync"

	"github.com/orris-inc/fundtrail/internal/domain/funding"
	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

type mockBalanceReader struct {
	getBalanceFunc func(ctx context.Context, address vo.Address) (vo.Microunits, error)
}

func (m *mockBalanceReader) GetBalance(ctx context.Context, address vo.Address) (vo.Microunits, error) {
	return m.getBalanceFunc(ctx, address)
}

// mockDonationRepo serves fixed donations; only the read methods are exercised here.
type mockDonationRepo struct {
	funding.DonationRepository

	mu        sync.Mutex
	donations []*funding.Donation
}

func (m *mockDonationRepo) ListByOrganization(_ context.Context, org string) ([]*funding.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*funding.Donation
	for _, d := range m.donations {
		if d.OrganizationIdentity() == org {
			out = append(out, d)
		}
	}
	return out, nil
}

type mockProjectRepo struct {
	funding.ProjectRepository

	projects map[string]*funding.Project
}

func (m *mockProjectRepo) GetByID(_ context.Context, id string) (*funding.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, funding.ErrProjectNotFound
	}
	return p, nil
}

func testAddress(seed byte) string {
	var pub [32]byte
	for i := range pub {
		pub[i] = seed * byte(i+1)
	}
	return vo.AddressFromPublicKey(pub).String()
}

func newTestLogger() logger.Interface {
	return logger.NewNopLogger()
}
