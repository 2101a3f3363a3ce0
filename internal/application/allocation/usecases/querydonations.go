package usecases

import (
	"context"
	"strings"

	"github.com/orris-inc/fundtrail/internal/domain/funding"
)

// ListAvailableDonationsUseCase returns donations with remaining capacity, oldest first.
type ListAvailableDonationsUseCase struct {
	donationRepo funding.DonationRepository
}

func NewListAvailableDonationsUseCase(donationRepo funding.DonationRepository) *ListAvailableDonationsUseCase {
	return &ListAvailableDonationsUseCase{donationRepo: donationRepo}
}

func (uc *ListAvailableDonationsUseCase) Execute(ctx context.Context, organization string) ([]*funding.Donation, error) {
	if strings.TrimSpace(organization) == "" {
		return nil, nil
	}
	return uc.donationRepo.ListAvailable(ctx, organization)
}

type GetDonationUseCase struct {
	donationRepo funding.DonationRepository
}

func NewGetDonationUseCase(donationRepo funding.DonationRepository) *GetDonationUseCase {
	return &GetDonationUseCase{donationRepo: donationRepo}
}

func (uc *GetDonationUseCase) Execute(ctx context.Context, donationID string) (*funding.Donation, error) {
	return uc.donationRepo.GetByID(ctx, donationID)
}

type ListDonationsUseCase struct {
	donationRepo funding.DonationRepository
}

func NewListDonationsUseCase(donationRepo funding.DonationRepository) *ListDonationsUseCase {
	return &ListDonationsUseCase{donationRepo: donationRepo}
}

func (uc *ListDonationsUseCase) Execute(ctx context.Context, organization string) ([]*funding.Donation, error) {
	return uc.donationRepo.ListByOrganization(ctx, organization)
}
