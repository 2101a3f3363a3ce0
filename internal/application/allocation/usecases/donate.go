package usecases

import (
	"context"
	"errors"
	"fmt"

	settlementUsecases "github.com/orris-inc/fundtrail/internal/application/settlement/usecases"
	"github.com/orris-inc/fundtrail/internal/domain/funding"
	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

// Settler moves funds on the ledger network and waits for confirmation.
type Settler interface {
	Execute(ctx context.Context, req settlementUsecases.SettlementRequest, confirmationBudget int) (*settlementUsecases.SettlementResult, error)
}

type DonateCommand struct {
	DonorAddress string
	// OrganizationIdentity is the organization's custody address.
	OrganizationIdentity string
	Amount               vo.Microunits
	Reason               string
	IdempotencyKey       string
	ConfirmationBudget   int
}

// DonateUseCase settles donor to organization and records the donation once confirmed.
type DonateUseCase struct {
	settler      Settler
	recorder     *RecordDonationUseCase
	donationRepo funding.DonationRepository
	logger       logger.Interface
}

func NewDonateUseCase(
	settler Settler,
	recorder *RecordDonationUseCase,
	donationRepo funding.DonationRepository,
	logger logger.Interface,
) *DonateUseCase {
	return &DonateUseCase{
		settler:      settler,
		recorder:     recorder,
		donationRepo: donationRepo,
		logger:       logger,
	}
}

func (uc *DonateUseCase) Execute(ctx context.Context, cmd DonateCommand) (*funding.Donation, error) {
	result, err := uc.settler.Execute(ctx, settlementUsecases.SettlementRequest{
		FromIdentity:   cmd.DonorAddress,
		ToAddress:      cmd.OrganizationIdentity,
		Amount:         cmd.Amount,
		Note:           cmd.Reason,
		IdempotencyKey: cmd.IdempotencyKey,
	}, cmd.ConfirmationBudget)
	if err != nil {
		return nil, fmt.Errorf("donation settlement failed: %w", err)
	}

	donation, err := uc.recorder.Execute(ctx, RecordDonationCommand{
		DonorIdentity:        cmd.DonorAddress,
		OrganizationIdentity: cmd.OrganizationIdentity,
		Amount:               cmd.Amount,
		Reason:               cmd.Reason,
		SettlementReference:  result.Reference,
	})
	if err == nil {
		return donation, nil
	}

	// A replayed settlement was recorded by the first request.
	if result.Replayed && errors.Is(err, funding.ErrDuplicateSettlementReference) {
		return uc.donationRepo.GetBySettlementReference(ctx, result.Reference)
	}

	uc.logger.Errorw("funds moved but donation was not recorded",
		"settlement_reference", result.Reference,
		"donor", cmd.DonorAddress,
		"organization", cmd.OrganizationIdentity,
		"error", err,
	)
	return nil, err
}
