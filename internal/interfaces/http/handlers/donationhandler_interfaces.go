package handlers

import (
	"context"

	"github.com/orris-inc/fundtrail/internal/application/allocation/usecases"
	"github.com/orris-inc/fundtrail/internal/domain/funding"
)

// Use case interfaces for DonationHandler

type donateUseCase interface {
	Execute(ctx context.Context, cmd usecases.DonateCommand) (*funding.Donation, error)
}

type recordDonationUseCase interface {
	Execute(ctx context.Context, cmd usecases.RecordDonationCommand) (*funding.Donation, error)
}

type getDonationUseCase interface {
	Execute(ctx context.Context, donationID string) (*funding.Donation, error)
}

type listDonationsUseCase interface {
	Execute(ctx context.Context, organization string) ([]*funding.Donation, error)
}
