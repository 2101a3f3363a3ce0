package dto

import (
	"time"

	"github.com/orris-inc/fundtrail/internal/application/allocation/usecases"
	reconciliation "github.com/orris-inc/fundtrail/internal/application/reconciliation/usecases"
	"github.com/orris-inc/fundtrail/internal/domain/funding"
	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
)

// AmountDTO carries both the exact microunit count and its display form.
type AmountDTO struct {
	Microunits uint64 `json:"microunits"`
	Display    string `json:"display"`
}

func NewAmountDTO(m vo.Microunits) AmountDTO {
	return AmountDTO{Microunits: m.Uint64(), Display: m.Display()}
}

type AllocationDTO struct {
	ID                  string     `json:"id"`
	DonationID          string     `json:"donation_id"`
	ProjectID           string     `json:"project_id"`
	Amount              AmountDTO  `json:"amount"`
	Status              string     `json:"status"`
	SettlementReference string     `json:"settlement_reference,omitempty"`
	AbandonReason       string     `json:"abandon_reason,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	SettledAt           *time.Time `json:"settled_at,omitempty"`
}

func ToAllocationDTO(a *funding.Allocation) *AllocationDTO {
	if a == nil {
		return nil
	}
	return &AllocationDTO{
		ID:                  a.ID(),
		DonationID:          a.DonationID(),
		ProjectID:           a.ProjectID(),
		Amount:              NewAmountDTO(a.Amount()),
		Status:              a.Status().String(),
		SettlementReference: a.SettlementReference(),
		AbandonReason:       a.AbandonReason(),
		CreatedAt:           a.CreatedAt(),
		SettledAt:           a.SettledAt(),
	}
}

type DonationDTO struct {
	ID                   string           `json:"id"`
	DonorIdentity        string           `json:"donor_identity"`
	OrganizationIdentity string           `json:"organization_identity"`
	Amount               AmountDTO        `json:"amount"`
	Allocated            AmountDTO        `json:"allocated"`
	Remaining            AmountDTO        `json:"remaining"`
	Reason               string           `json:"reason,omitempty"`
	SettlementReference  string           `json:"settlement_reference"`
	Allocations          []*AllocationDTO `json:"allocations"`
	Version              int              `json:"version"`
	CreatedAt            time.Time        `json:"created_at"`
}

func ToDonationDTO(d *funding.Donation) *DonationDTO {
	allocations := d.Allocations()
	out := make([]*AllocationDTO, 0, len(allocations))
	for _, a := range allocations {
		out = append(out, ToAllocationDTO(a))
	}
	return &DonationDTO{
		ID:                   d.ID(),
		DonorIdentity:        d.DonorIdentity(),
		OrganizationIdentity: d.OrganizationIdentity(),
		Amount:               NewAmountDTO(d.Amount()),
		Allocated:            NewAmountDTO(d.AllocatedAmount()),
		Remaining:            NewAmountDTO(d.Remaining()),
		Reason:               d.Reason(),
		SettlementReference:  d.SettlementReference(),
		Allocations:          out,
		Version:              d.Version(),
		CreatedAt:            d.CreatedAt(),
	}
}

func ToDonationDTOs(ds []*funding.Donation) []*DonationDTO {
	out := make([]*DonationDTO, 0, len(ds))
	for _, d := range ds {
		out = append(out, ToDonationDTO(d))
	}
	return out
}

type AllocateResultDTO struct {
	DonationID string         `json:"donation_id,omitempty"`
	Allocation *AllocationDTO `json:"allocation,omitempty"`
	Reference  string         `json:"settlement_reference,omitempty"`
}

func ToAllocateResultDTO(r *usecases.AllocateToProjectResult) *AllocateResultDTO {
	return &AllocateResultDTO{
		DonationID: r.DonationID,
		Allocation: ToAllocationDTO(r.Allocation),
		Reference:  r.Reference,
	}
}

type ProjectDTO struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	OrganizationIdentity string    `json:"organization_identity"`
	TargetAmount         AmountDTO `json:"target_amount"`
	CustodyAddress       string    `json:"custody_address"`
	Category             string    `json:"category,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}

func ToProjectDTO(p *funding.Project) *ProjectDTO {
	return &ProjectDTO{
		ID:                   p.ID(),
		Title:                p.Title(),
		OrganizationIdentity: p.OrganizationIdentity(),
		TargetAmount:         NewAmountDTO(p.TargetAmount()),
		CustodyAddress:       p.CustodyAddress().String(),
		Category:             p.Category(),
		CreatedAt:            p.CreatedAt(),
	}
}

type FundingSummaryDTO struct {
	Organization          string    `json:"organization"`
	OnChainBalance        AmountDTO `json:"on_chain_balance"`
	TotalDonated          AmountDTO `json:"total_donated"`
	TotalAllocated        AmountDTO `json:"total_allocated"`
	TotalSettledAllocated AmountDTO `json:"total_settled_allocated"`
	TotalPending          AmountDTO `json:"total_pending"`
	Unallocated           AmountDTO `json:"unallocated"`
	DonationCount         int       `json:"donation_count"`
	Partial               bool      `json:"partial"`
	BalanceError          string    `json:"balance_error,omitempty"`
}

func ToFundingSummaryDTO(s *reconciliation.FundingSummary) *FundingSummaryDTO {
	return &FundingSummaryDTO{
		Organization:          s.Organization,
		OnChainBalance:        NewAmountDTO(s.OnChainBalance),
		TotalDonated:          NewAmountDTO(s.TotalDonated),
		TotalAllocated:        NewAmountDTO(s.TotalAllocated),
		TotalSettledAllocated: NewAmountDTO(s.TotalSettledAllocated),
		TotalPending:          NewAmountDTO(s.TotalPending),
		Unallocated:           NewAmountDTO(s.Unallocated),
		DonationCount:         s.DonationCount,
		Partial:               s.Partial,
		BalanceError:          s.BalanceError,
	}
}

type ProjectSummaryDTO struct {
	ProjectID        string    `json:"project_id"`
	Title            string    `json:"title"`
	CustodyAddress   string    `json:"custody_address"`
	TargetAmount     AmountDTO `json:"target_amount"`
	OnChainFunded    AmountDTO `json:"on_chain_funded"`
	SettledAllocated AmountDTO `json:"settled_allocated"`
	PendingAllocated AmountDTO `json:"pending_allocated"`
	Partial          bool      `json:"partial"`
	BalanceError     string    `json:"balance_error,omitempty"`
}

func ToProjectSummaryDTO(s *reconciliation.ProjectSummary) *ProjectSummaryDTO {
	return &ProjectSummaryDTO{
		ProjectID:        s.ProjectID,
		Title:            s.Title,
		CustodyAddress:   s.CustodyAddress,
		TargetAmount:     NewAmountDTO(s.TargetAmount),
		OnChainFunded:    NewAmountDTO(s.OnChainFunded),
		SettledAllocated: NewAmountDTO(s.SettledAllocated),
		PendingAllocated: NewAmountDTO(s.PendingAllocated),
		Partial:          s.Partial,
		BalanceError:     s.BalanceError,
	}
}
