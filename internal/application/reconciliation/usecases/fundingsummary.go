package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/fundtrail/internal/domain/funding"
	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

// BalanceReader is the slice of the ledger client the read side needs.
type BalanceReader interface {
	GetBalance(ctx context.Context, address vo.Address) (vo.Microunits, error)
}

// FundingSummary compares the on-chain custody balance with the off-chain records.
type FundingSummary struct {
	Organization          string
	OnChainBalance        vo.Microunits
	TotalDonated          vo.Microunits
	TotalAllocated        vo.Microunits
	TotalSettledAllocated vo.Microunits
	TotalPending          vo.Microunits
	Unallocated           vo.Microunits
	DonationCount         int
	// Partial is set when the balance could not be fetched; OnChainBalance is then zero.
	Partial      bool
	BalanceError string
}

// FundingSummaryUseCase recomputes totals on every call. It never holds a lock the write
// path waits on, so a slow balance query cannot stall allocations.
type FundingSummaryUseCase struct {
	donationRepo funding.DonationRepository
	balances     BalanceReader
	logger       logger.Interface
}

func NewFundingSummaryUseCase(
	donationRepo funding.DonationRepository,
	balances BalanceReader,
	logger logger.Interface,
) *FundingSummaryUseCase {
	return &FundingSummaryUseCase{
		donationRepo: donationRepo,
		balances:     balances,
		logger:       logger,
	}
}

func (uc *FundingSummaryUseCase) Execute(ctx context.Context, organization string) (*FundingSummary, error) {
	donations, err := uc.donationRepo.ListByOrganization(ctx, organization)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}

	summary := &FundingSummary{Organization: organization, DonationCount: len(donations)}
	for _, d := range donations {
		if summary.TotalDonated, err = summary.TotalDonated.Add(d.Amount()); err != nil {
			return nil, err
		}
		if summary.TotalAllocated, err = summary.TotalAllocated.Add(d.AllocatedAmount()); err != nil {
			return nil, err
		}
		if summary.TotalSettledAllocated, err = summary.TotalSettledAllocated.Add(d.SettledAmount()); err != nil {
			return nil, err
		}
	}
	summary.TotalPending = summary.TotalAllocated - summary.TotalSettledAllocated
	summary.Unallocated = summary.TotalDonated - summary.TotalAllocated

	balance, err := uc.fetchBalance(ctx, organization)
	if err != nil {
		uc.logger.Warnw("funding summary is partial", "organization", organization, "error", err)
		summary.Partial = true
		summary.BalanceError = err.Error()
		return summary, nil
	}
	summary.OnChainBalance = balance

	return summary, nil
}

func (uc *FundingSummaryUseCase) fetchBalance(ctx context.Context, address string) (vo.Microunits, error) {
	addr, err := vo.ParseAddress(address)
	if err != nil {
		return 0, err
	}
	return uc.balances.GetBalance(ctx, addr)
}
