package dto

import (
	"github.com/orris-inc/fundtrail/internal/application/allocation/usecases"
	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
)

// Amounts in requests are display-unit decimal strings such as "12.5".

// DonateRequest settles a donation on the ledger network and records it once confirmed.
type DonateRequest struct {
	DonorAddress        string `json:"donor_address" validate:"required,ledger_address"`
	OrganizationAddress string `json:"organization_address" validate:"required,ledger_address"`
	Amount              string `json:"amount" validate:"required,display_amount"`
	Reason              string `json:"reason" validate:"max=512"`
	IdempotencyKey      string `json:"idempotency_key" validate:"max=128"`
	ConfirmationBudget  int    `json:"confirmation_budget" validate:"gte=0,lte=1000"`
}

func (r *DonateRequest) ToCommand() (usecases.DonateCommand, error) {
	amount, err := vo.ParseDisplayAmount(r.Amount)
	if err != nil {
		return usecases.DonateCommand{}, err
	}
	return usecases.DonateCommand{
		DonorAddress:         r.DonorAddress,
		OrganizationIdentity: r.OrganizationAddress,
		Amount:               amount,
		Reason:               r.Reason,
		IdempotencyKey:       r.IdempotencyKey,
		ConfirmationBudget:   r.ConfirmationBudget,
	}, nil
}

// RecordDonationRequest records a donation whose funding transaction was settled elsewhere.
type RecordDonationRequest struct {
	DonorIdentity        string `json:"donor_identity" validate:"required,max=128"`
	OrganizationIdentity string `json:"organization_identity" validate:"required,max=128"`
	Amount               string `json:"amount" validate:"required,display_amount"`
	Reason               string `json:"reason" validate:"max=512"`
	SettlementReference  string `json:"settlement_reference" validate:"required,max=128"`
}

func (r *RecordDonationRequest) ToCommand() (usecases.RecordDonationCommand, error) {
	amount, err := vo.ParseDisplayAmount(r.Amount)
	if err != nil {
		return usecases.RecordDonationCommand{}, err
	}
	return usecases.RecordDonationCommand{
		DonorIdentity:        r.DonorIdentity,
		OrganizationIdentity: r.OrganizationIdentity,
		Amount:               amount,
		Reason:               r.Reason,
		SettlementReference:  r.SettlementReference,
	}, nil
}

type AllocateRequest struct {
	ProjectID          string `json:"project_id" validate:"required"`
	Amount             string `json:"amount" validate:"required,display_amount"`
	ConfirmationBudget int    `json:"confirmation_budget" validate:"gte=0,lte=1000"`
}

func (r *AllocateRequest) ToCommand() (usecases.AllocateToProjectCommand, error) {
	amount, err := vo.ParseDisplayAmount(r.Amount)
	if err != nil {
		return usecases.AllocateToProjectCommand{}, err
	}
	return usecases.AllocateToProjectCommand{
		ProjectID:          r.ProjectID,
		Amount:             amount,
		ConfirmationBudget: r.ConfirmationBudget,
	}, nil
}

// AppendAllocationRequest reserves capacity on one specific donation without moving funds.
type AppendAllocationRequest struct {
	ProjectID string `json:"project_id" validate:"required"`
	Amount    string `json:"amount" validate:"required,display_amount"`
}

type SettleAllocationRequest struct {
	SettlementReference string `json:"settlement_reference" validate:"required,max=128"`
}

type AbandonAllocationRequest struct {
	Reason string `json:"reason" validate:"required,max=255"`
}

type CreateProjectRequest struct {
	Title                string `json:"title" validate:"required,max=255"`
	OrganizationIdentity string `json:"organization_identity" validate:"required,max=128"`
	TargetAmount         string `json:"target_amount" validate:"omitempty,display_amount"`
	CustodyAddress       string `json:"custody_address" validate:"required,ledger_address"`
	Category             string `json:"category" validate:"max=64"`
}

func (r *CreateProjectRequest) ToCommand() (usecases.CreateProjectCommand, error) {
	var target vo.Microunits
	if r.TargetAmount != "" {
		parsed, err := vo.ParseDisplayAmount(r.TargetAmount)
		if err != nil {
			return usecases.CreateProjectCommand{}, err
		}
		target = parsed
	}
	return usecases.CreateProjectCommand{
		Title:                r.Title,
		OrganizationIdentity: r.OrganizationIdentity,
		TargetAmount:         target,
		CustodyAddress:       r.CustodyAddress,
		Category:             r.Category,
	}, nil
}
