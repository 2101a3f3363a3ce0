package funding

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
	"github.com/orris-inc/fundtrail/internal/shared/biztime"
	"github.com/orris-inc/fundtrail/internal/shared/id"
)

// Donation is a confirmed transfer from a donor to an organization, together with the
// allocations carved out of it. The donation and its allocations are stored and replaced
// as one unit; the sum of capacity-reserving allocations never exceeds amount.
type Donation struct {
	id                   string
	donorIdentity        string
	organizationIdentity string
	amount               vo.Microunits
	reason               string
	settlementReference  string
	allocations          []*Allocation
	version              int
	createdAt            time.Time
	updatedAt            time.Time
}

type DonationReconstructParams struct {
	ID                   string
	DonorIdentity        string
	OrganizationIdentity string
	Amount               vo.Microunits
	Reason               string
	SettlementReference  string
	Allocations          []*Allocation
	Version              int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewDonation builds an unallocated donation. The caller guarantees settlementReference
// is a confirmed funding transaction.
func NewDonation(donor, organization string, amount vo.Microunits, reason, settlementReference string) (*Donation, error) {
	if strings.TrimSpace(donor) == "" {
		return nil, fmt.Errorf("donor identity is required")
	}
	if strings.TrimSpace(organization) == "" {
		return nil, fmt.Errorf("organization identity is required")
	}
	if amount.IsZero() {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(settlementReference) == "" {
		return nil, fmt.Errorf("settlement reference is required")
	}

	donationID, err := id.NewDonationID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donation ID: %w", err)
	}

	now := biztime.NowUTC()
	return &Donation{
		id:                   donationID,
		donorIdentity:        donor,
		organizationIdentity: organization,
		amount:               amount,
		reason:               reason,
		settlementReference:  settlementReference,
		version:              1,
		createdAt:            now,
		updatedAt:            now,
	}, nil
}

// ReconstructDonationWithParams rebuilds a donation from storage and rejects rows that break the capacity invariant.
func ReconstructDonationWithParams(p DonationReconstructParams) (*Donation, error) {
	d := &Donation{
		id:                   p.ID,
		donorIdentity:        p.DonorIdentity,
		organizationIdentity: p.OrganizationIdentity,
		amount:               p.Amount,
		reason:               p.Reason,
		settlementReference:  p.SettlementReference,
		allocations:          p.Allocations,
		version:              p.Version,
		createdAt:            p.CreatedAt,
		updatedAt:            p.UpdatedAt,
	}
	if allocated := d.AllocatedAmount(); allocated > d.amount {
		return nil, fmt.Errorf("donation %s: stored allocations %d exceed amount %d", d.id, allocated, d.amount)
	}
	return d, nil
}

// AllocatedAmount sums pending and completed allocations.
func (d *Donation) AllocatedAmount() vo.Microunits {
	var total vo.Microunits
	for _, a := range d.allocations {
		if a.status.ReservesCapacity() {
			total += a.amount
		}
	}
	return total
}

// SettledAmount sums completed allocations only.
func (d *Donation) SettledAmount() vo.Microunits {
	var total vo.Microunits
	for _, a := range d.allocations {
		if a.status.IsCompleted() {
			total += a.amount
		}
	}
	return total
}

func (d *Donation) Remaining() vo.Microunits {
	return d.amount.Sub(d.AllocatedAmount())
}

// AppendAllocation adds a pending allocation for projectID if the remaining amount covers it.
func (d *Donation) AppendAllocation(projectID string, amount vo.Microunits) (*Allocation, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, fmt.Errorf("project identity is required")
	}
	if amount.IsZero() {
		return nil, ErrInvalidAmount
	}
	if remaining := d.Remaining(); amount > remaining {
		return nil, fmt.Errorf("%w: donation %s requested %d, remaining %d",
			ErrOverAllocation, d.id, amount, remaining)
	}

	a, err := newAllocation(d.id, projectID, amount)
	if err != nil {
		return nil, err
	}
	d.allocations = append(d.allocations, a)
	d.updatedAt = biztime.NowUTC()
	return a, nil
}

// MarkAllocationSettled moves a pending allocation to completed. It reports false when the
// allocation was already completed with the same reference.
func (d *Donation) MarkAllocationSettled(allocationID, reference string) (bool, error) {
	if strings.TrimSpace(reference) == "" {
		return false, fmt.Errorf("settlement reference is required")
	}
	a := d.find(allocationID)
	if a == nil {
		return false, fmt.Errorf("%w: %s in donation %s", ErrAllocationNotFound, allocationID, d.id)
	}
	changed, err := a.markSettled(reference)
	if changed {
		d.updatedAt = biztime.NowUTC()
	}
	return changed, err
}

// AbandonAllocation releases a pending allocation whose settlement will not happen.
func (d *Donation) AbandonAllocation(allocationID, reason string) (bool, error) {
	a := d.find(allocationID)
	if a == nil {
		return false, fmt.Errorf("%w: %s in donation %s", ErrAllocationNotFound, allocationID, d.id)
	}
	changed, err := a.abandon(reason)
	if changed {
		d.updatedAt = biztime.NowUTC()
	}
	return changed, err
}

func (d *Donation) find(allocationID string) *Allocation {
	for _, a := range d.allocations {
		if a.id == allocationID {
			return a
		}
	}
	return nil
}

// Allocation returns a copy of the allocation with the given id.
func (d *Donation) Allocation(allocationID string) (*Allocation, bool) {
	a := d.find(allocationID)
	if a == nil {
		return nil, false
	}
	return a.clone(), true
}

// Allocations returns copies in append order.
func (d *Donation) Allocations() []*Allocation {
	out := make([]*Allocation, len(d.allocations))
	for i, a := range d.allocations {
		out[i] = a.clone()
	}
	return out
}

func (d *Donation) ID() string                   { return d.id }
func (d *Donation) DonorIdentity() string        { return d.donorIdentity }
func (d *Donation) OrganizationIdentity() string { return d.organizationIdentity }
func (d *Donation) Amount() vo.Microunits        { return d.amount }
func (d *Donation) Reason() string               { return d.reason }
func (d *Donation) SettlementReference() string  { return d.settlementReference }
func (d *Donation) Version() int                 { return d.version }
func (d *Donation) CreatedAt() time.Time         { return d.createdAt }
func (d *Donation) UpdatedAt() time.Time         { return d.updatedAt }

// SetVersion is used by the store after a successful conditional replace.
func (d *Donation) SetVersion(version int) {
	d.version = version
}
