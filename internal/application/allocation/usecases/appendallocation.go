package usecases

import (
	"context"

	"github.com/orris-inc/fundtrail/internal/domain/funding"
	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

type AppendAllocationCommand struct {
	DonationID string
	ProjectID  string
	Amount     vo.Microunits
}

type AppendAllocationUseCase struct {
	donationRepo funding.DonationRepository
	maxAttempts  int
	logger       logger.Interface
}

func NewAppendAllocationUseCase(
	donationRepo funding.DonationRepository,
	maxAttempts int,
	logger logger.Interface,
) *AppendAllocationUseCase {
	return &AppendAllocationUseCase{
		donationRepo: donationRepo,
		maxAttempts:  normalizeAttempts(maxAttempts),
		logger:       logger,
	}
}

// Execute appends a pending allocation. The remaining amount is recomputed from a fresh
// read on every attempt, so two racing appends can never overdraw the donation.
func (uc *AppendAllocationUseCase) Execute(ctx context.Context, cmd AppendAllocationCommand) (*funding.Allocation, error) {
	if cmd.Amount.IsZero() {
		return nil, funding.ErrInvalidAmount
	}

	var appended *funding.Allocation
	d, err := mutateDonation(ctx, uc.donationRepo, cmd.DonationID, uc.maxAttempts, func(d *funding.Donation) (bool, error) {
		a, err := d.AppendAllocation(cmd.ProjectID, cmd.Amount)
		if err != nil {
			return false, err
		}
		appended = a
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("allocation appended",
		"donation_id", cmd.DonationID,
		"allocation_id", appended.ID(),
		"project_id", cmd.ProjectID,
		"amount", cmd.Amount,
	)

	a, _ := d.Allocation(appended.ID())
	return a, nil
}
