package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/fundtrail/internal/application/settlement/ledger"
	"github.com/orris-inc/fundtrail/internal/domain/funding"
	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

type RecordDonationCommand struct {
	DonorIdentity        string
	OrganizationIdentity string
	Amount               vo.Microunits
	Reason               string
	SettlementReference  string
}

// SettlementVerifier looks a funding transaction up on the ledger network.
type SettlementVerifier interface {
	PendingStatus(ctx context.Context, txID string) (*ledger.PendingStatus, error)
}

type RecordDonationUseCase struct {
	donationRepo funding.DonationRepository
	verifier     SettlementVerifier
	logger       logger.Interface
}

// NewRecordDonationUseCase trusts the caller's settlement reference when verifier is nil.
func NewRecordDonationUseCase(
	donationRepo funding.DonationRepository,
	verifier SettlementVerifier,
	logger logger.Interface,
) *RecordDonationUseCase {
	return &RecordDonationUseCase{
		donationRepo: donationRepo,
		verifier:     verifier,
		logger:       logger,
	}
}

func (uc *RecordDonationUseCase) Execute(ctx context.Context, cmd RecordDonationCommand) (*funding.Donation, error) {
	donation, err := funding.NewDonation(
		cmd.DonorIdentity,
		cmd.OrganizationIdentity,
		cmd.Amount,
		cmd.Reason,
		cmd.SettlementReference,
	)
	if err != nil {
		return nil, err
	}

	if uc.verifier != nil {
		status, err := uc.verifier.PendingStatus(ctx, cmd.SettlementReference)
		if err != nil {
			return nil, fmt.Errorf("failed to verify settlement %s: %w", cmd.SettlementReference, err)
		}
		if !status.IsConfirmed() {
			uc.logger.Warnw("refusing donation with unconfirmed settlement",
				"settlement_reference", cmd.SettlementReference,
				"pool_error", status.PoolError,
			)
			return nil, fmt.Errorf("%w: %s", funding.ErrUnverifiedSettlement, cmd.SettlementReference)
		}
	}

	if err := uc.donationRepo.Create(ctx, donation); err != nil {
		return nil, err
	}

	uc.logger.Infow("donation recorded",
		"donation_id", donation.ID(),
		"organization", donation.OrganizationIdentity(),
		"amount", donation.Amount(),
		"settlement_reference", donation.SettlementReference(),
	)

	return donation, nil
}
