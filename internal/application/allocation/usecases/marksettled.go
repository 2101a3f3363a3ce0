package usecases

import (
	"context"

	"github.com/orris-inc/fundtrail/internal/domain/funding"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

type MarkAllocationSettledCommand struct {
	DonationID   string
	AllocationID string
	Reference    string
}

type MarkAllocationSettledUseCase struct {
	donationRepo funding.DonationRepository
	maxAttempts  int
	logger       logger.Interface
}

func NewMarkAllocationSettledUseCase(
	donationRepo funding.DonationRepository,
	maxAttempts int,
	logger logger.Interface,
) *MarkAllocationSettledUseCase {
	return &MarkAllocationSettledUseCase{
		donationRepo: donationRepo,
		maxAttempts:  normalizeAttempts(maxAttempts),
		logger:       logger,
	}
}

// Execute is idempotent for the same reference and fails with ErrConflictingSettlement
// for a different one.
func (uc *MarkAllocationSettledUseCase) Execute(ctx context.Context, cmd MarkAllocationSettledCommand) (*funding.Allocation, error) {
	var changed bool
	d, err := mutateDonation(ctx, uc.donationRepo, cmd.DonationID, uc.maxAttempts, func(d *funding.Donation) (bool, error) {
		c, err := d.MarkAllocationSettled(cmd.AllocationID, cmd.Reference)
		changed = c
		return c, err
	})
	if err != nil {
		return nil, err
	}

	if changed {
		uc.logger.Infow("allocation settled",
			"donation_id", cmd.DonationID,
			"allocation_id", cmd.AllocationID,
			"settlement_reference", cmd.Reference,
		)
	}

	a, _ := d.Allocation(cmd.AllocationID)
	return a, nil
}
