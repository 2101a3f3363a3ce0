package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orris-inc/fundtrail/internal/application/allocation/usecases"
	reconciliation "github.com/orris-inc/fundtrail/internal/application/reconciliation/usecases"
	"github.com/orris-inc/fundtrail/internal/domain/funding"
	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
	"github.com/orris-inc/fundtrail/internal/interfaces/http/handlers/testutil"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockDonateUC struct {
	fn func(ctx context.Context, cmd usecases.DonateCommand) (*funding.Donation, error)
}

func (m *mockDonateUC) Execute(ctx context.Context, cmd usecases.DonateCommand) (*funding.Donation, error) {
	return m.fn(ctx, cmd)
}

type mockRecordDonationUC struct {
	fn func(ctx context.Context, cmd usecases.RecordDonationCommand) (*funding.Donation, error)
}

func (m *mockRecordDonationUC) Execute(ctx context.Context, cmd usecases.RecordDonationCommand) (*funding.Donation, error) {
	return m.fn(ctx, cmd)
}

type mockGetDonationUC struct {
	fn func(ctx context.Context, id string) (*funding.Donation, error)
}

func (m *mockGetDonationUC) Execute(ctx context.Context, id string) (*funding.Donation, error) {
	return m.fn(ctx, id)
}

type mockListDonationsUC struct {
	fn func(ctx context.Context, org string) ([]*funding.Donation, error)
}

func (m *mockListDonationsUC) Execute(ctx context.Context, org string) ([]*funding.Donation, error) {
	return m.fn(ctx, org)
}

type mockAllocateUC struct {
	fn func(ctx context.Context, cmd usecases.AllocateToProjectCommand) (*usecases.AllocateToProjectResult, error)
}

func (m *mockAllocateUC) Execute(ctx context.Context, cmd usecases.AllocateToProjectCommand) (*usecases.AllocateToProjectResult, error) {
	return m.fn(ctx, cmd)
}

type mockAppendUC struct {
	fn func(ctx context.Context, cmd usecases.AppendAllocationCommand) (*funding.Allocation, error)
}

func (m *mockAppendUC) Execute(ctx context.Context, cmd usecases.AppendAllocationCommand) (*funding.Allocation, error) {
	return m.fn(ctx, cmd)
}

type mockMarkSettledUC struct {
	fn func(ctx context.Context, cmd usecases.MarkAllocationSettledCommand) (*funding.Allocation, error)
}

func (m *mockMarkSettledUC) Execute(ctx context.Context, cmd usecases.MarkAllocationSettledCommand) (*funding.Allocation, error) {
	return m.fn(ctx, cmd)
}

type mockAbandonUC struct {
	fn func(ctx context.Context, cmd usecases.AbandonAllocationCommand) (*funding.Allocation, error)
}

func (m *mockAbandonUC) Execute(ctx context.Context, cmd usecases.AbandonAllocationCommand) (*funding.Allocation, error) {
	return m.fn(ctx, cmd)
}

type mockCreateProjectUC struct {
	fn func(ctx context.Context, cmd usecases.CreateProjectCommand) (*funding.Project, error)
}

func (m *mockCreateProjectUC) Execute(ctx context.Context, cmd usecases.CreateProjectCommand) (*funding.Project, error) {
	return m.fn(ctx, cmd)
}

type mockGetProjectUC struct {
	fn func(ctx context.Context, id string) (*funding.Project, error)
}

func (m *mockGetProjectUC) Execute(ctx context.Context, id string) (*funding.Project, error) {
	return m.fn(ctx, id)
}

type mockFundedUC struct {
	fn func(ctx context.Context, id string) (vo.Microunits, error)
}

func (m *mockFundedUC) Execute(ctx context.Context, id string) (vo.Microunits, error) {
	return m.fn(ctx, id)
}

type mockProjectSummaryUC struct {
	fn func(ctx context.Context, id string) (*reconciliation.ProjectSummary, error)
}

func (m *mockProjectSummaryUC) Execute(ctx context.Context, id string) (*reconciliation.ProjectSummary, error) {
	return m.fn(ctx, id)
}

type mockFundingSummaryUC struct {
	fn func(ctx context.Context, org string) (*reconciliation.FundingSummary, error)
}

func (m *mockFundingSummaryUC) Execute(ctx context.Context, org string) (*reconciliation.FundingSummary, error) {
	return m.fn(ctx, org)
}

// =====================================================================
// Fixtures
// =====================================================================

func newTestDonation(t *testing.T, amount vo.Microunits) *funding.Donation {
	t.Helper()
	d, err := funding.NewDonation(testutil.Address(1), testutil.Address(2), amount, "general", "TXREF")
	require.NoError(t, err)
	return d
}

func newTestProject(t *testing.T) *funding.Project {
	t.Helper()
	p, err := funding.NewProject("Wells", testutil.Address(2), vo.Microunits(5_000_000), testutil.Address(3), "water")
	require.NoError(t, err)
	return p
}
