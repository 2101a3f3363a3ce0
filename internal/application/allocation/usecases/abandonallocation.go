package usecases

import (
	"context"

	"github.com/orris-inc/fundtrail/internal/domain/funding"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

type AbandonAllocationCommand struct {
	DonationID   string
	AllocationID string
	Reason       string
}

type AbandonAllocationUseCase struct {
	donationRepo funding.DonationRepository
	maxAttempts  int
	logger       logger.Interface
}

func NewAbandonAllocationUseCase(
	donationRepo funding.DonationRepository,
	maxAttempts int,
	logger logger.Interface,
) *AbandonAllocationUseCase {
	return &AbandonAllocationUseCase{
		donationRepo: donationRepo,
		maxAttempts:  normalizeAttempts(maxAttempts),
		logger:       logger,
	}
}

// Execute releases a pending allocation. Only call it once the settlement is known not to
// have confirmed, otherwise funds that did move lose their bookkeeping.
func (uc *AbandonAllocationUseCase) Execute(ctx context.Context, cmd AbandonAllocationCommand) (*funding.Allocation, error) {
	var changed bool
	d, err := mutateDonation(ctx, uc.donationRepo, cmd.DonationID, uc.maxAttempts, func(d *funding.Donation) (bool, error) {
		c, err := d.AbandonAllocation(cmd.AllocationID, cmd.Reason)
		changed = c
		return c, err
	})
	if err != nil {
		return nil, err
	}

	if changed {
		uc.logger.Warnw("allocation abandoned",
			"donation_id", cmd.DonationID,
			"allocation_id", cmd.AllocationID,
			"reason", cmd.Reason,
		)
	}

	a, _ := d.Allocation(cmd.AllocationID)
	return a, nil
}
