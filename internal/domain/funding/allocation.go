package funding

import (
	"fmt"
	"time"

	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
	"github.com/orris-inc/fundtrail/internal/shared/biztime"
	"github.com/orris-inc/fundtrail/internal/shared/id"
)

// Allocation earmarks part of a donation for a project. It only changes through its Donation.
type Allocation struct {
	id                  string
	donationID          string
	projectID           string
	amount              vo.Microunits
	status              vo.AllocationStatus
	settlementReference string
	abandonReason       string
	createdAt           time.Time
	settledAt           *time.Time
}

type AllocationReconstructParams struct {
	ID                  string
	DonationID          string
	ProjectID           string
	Amount              vo.Microunits
	Status              vo.AllocationStatus
	SettlementReference string
	AbandonReason       string
	CreatedAt           time.Time
	SettledAt           *time.Time
}

func newAllocation(donationID, projectID string, amount vo.Microunits) (*Allocation, error) {
	allocationID, err := id.NewAllocationID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate allocation ID: %w", err)
	}
	return &Allocation{
		id:         allocationID,
		donationID: donationID,
		projectID:  projectID,
		amount:     amount,
		status:     vo.AllocationStatusPending,
		createdAt:  biztime.NowUTC(),
	}, nil
}

func ReconstructAllocationWithParams(p AllocationReconstructParams) (*Allocation, error) {
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("allocation %s: unknown status %q", p.ID, p.Status)
	}
	return &Allocation{
		id:                  p.ID,
		donationID:          p.DonationID,
		projectID:           p.ProjectID,
		amount:              p.Amount,
		status:              p.Status,
		settlementReference: p.SettlementReference,
		abandonReason:       p.AbandonReason,
		createdAt:           p.CreatedAt,
		settledAt:           p.SettledAt,
	}, nil
}

// markSettled reports whether anything changed. Settling twice with the same reference is a no-op.
func (a *Allocation) markSettled(reference string) (bool, error) {
	switch a.status {
	case vo.AllocationStatusCompleted:
		if a.settlementReference == reference {
			return false, nil
		}
		return false, fmt.Errorf("%w: allocation %s has %s, got %s",
			ErrConflictingSettlement, a.id, a.settlementReference, reference)
	case vo.AllocationStatusAbandoned:
		return false, fmt.Errorf("%w: allocation %s is abandoned", ErrInvalidAllocationState, a.id)
	}

	now := biztime.NowUTC()
	a.status = vo.AllocationStatusCompleted
	a.settlementReference = reference
	a.settledAt = &now
	return true, nil
}

func (a *Allocation) abandon(reason string) (bool, error) {
	switch a.status {
	case vo.AllocationStatusAbandoned:
		return false, nil
	case vo.AllocationStatusCompleted:
		return false, fmt.Errorf("%w: allocation %s is already settled", ErrInvalidAllocationState, a.id)
	}

	a.status = vo.AllocationStatusAbandoned
	a.abandonReason = reason
	return true, nil
}

func (a *Allocation) clone() *Allocation {
	c := *a
	if a.settledAt != nil {
		t := *a.settledAt
		c.settledAt = &t
	}
	return &c
}

func (a *Allocation) ID() string                  { return a.id }
func (a *Allocation) DonationID() string          { return a.donationID }
func (a *Allocation) ProjectID() string           { return a.projectID }
func (a *Allocation) Amount() vo.Microunits       { return a.amount }
func (a *Allocation) Status() vo.AllocationStatus { return a.status }
func (a *Allocation) SettlementReference() string { return a.settlementReference }
func (a *Allocation) AbandonReason() string       { return a.abandonReason }
func (a *Allocation) CreatedAt() time.Time        { return a.createdAt }
func (a *Allocation) SettledAt() *time.Time       { return a.settledAt }
