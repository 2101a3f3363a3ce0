package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/orris-inc/fundtrail/internal/application/settlement/ledger"
	settlementUsecases "github.com/orris-inc/fundtrail/internal/application/settlement/usecases"
	"github.com/orris-inc/fundtrail/internal/domain/funding"
	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

type AllocateToProjectCommand struct {
	ProjectID          string
	Amount             vo.Microunits
	ConfirmationBudget int
}

type AllocateToProjectResult struct {
	DonationID string
	Allocation *funding.Allocation
	// Reference is empty unless the settlement confirmed.
	Reference string
}

// AllocateToProjectUseCase earmarks part of the oldest donation that can cover the amount
// and moves the funds from the organization's custody to the project's.
type AllocateToProjectUseCase struct {
	donationRepo funding.DonationRepository
	projectRepo  funding.ProjectRepository
	settler      Settler
	markSettled  *MarkAllocationSettledUseCase
	abandon      *AbandonAllocationUseCase
	maxAttempts  int
	logger       logger.Interface
}

func NewAllocateToProjectUseCase(
	donationRepo funding.DonationRepository,
	projectRepo funding.ProjectRepository,
	settler Settler,
	maxAttempts int,
	logger logger.Interface,
) *AllocateToProjectUseCase {
	return &AllocateToProjectUseCase{
		donationRepo: donationRepo,
		projectRepo:  projectRepo,
		settler:      settler,
		markSettled:  NewMarkAllocationSettledUseCase(donationRepo, maxAttempts, logger),
		abandon:      NewAbandonAllocationUseCase(donationRepo, maxAttempts, logger),
		maxAttempts:  normalizeAttempts(maxAttempts),
		logger:       logger,
	}
}

// Execute returns a non-nil result together with the error when the settlement outcome is
// unknown; the allocation then stays pending until reconciled.
func (uc *AllocateToProjectUseCase) Execute(ctx context.Context, cmd AllocateToProjectCommand) (*AllocateToProjectResult, error) {
	if cmd.Amount.IsZero() {
		return nil, funding.ErrInvalidAmount
	}

	project, err := uc.projectRepo.GetByID(ctx, cmd.ProjectID)
	if err != nil {
		return nil, err
	}
	if _, err := vo.ParseAddress(project.CustodyAddress().String()); err != nil {
		return nil, fmt.Errorf("project %s custody address: %w", project.ID(), err)
	}

	donation, allocation, err := uc.reserve(ctx, project, cmd.Amount)
	if err != nil {
		return nil, err
	}

	log := uc.logger.With(
		"donation_id", donation.ID(),
		"allocation_id", allocation.ID(),
		"project_id", project.ID(),
	)
	log.Infow("allocation reserved, settling", "amount", cmd.Amount)

	result := &AllocateToProjectResult{DonationID: donation.ID(), Allocation: allocation}

	settled, err := uc.settler.Execute(ctx, settlementUsecases.SettlementRequest{
		FromIdentity: project.OrganizationIdentity(),
		ToAddress:    project.CustodyAddress().String(),
		Amount:       cmd.Amount,
		Note:         "allocation " + allocation.ID(),
		// one allocation never pays twice
		IdempotencyKey: allocation.ID(),
	}, cmd.ConfirmationBudget)
	if err != nil {
		if fundsDidNotMove(err) {
			if _, abandonErr := uc.abandon.Execute(ctx, AbandonAllocationCommand{
				DonationID:   donation.ID(),
				AllocationID: allocation.ID(),
				Reason:       err.Error(),
			}); abandonErr != nil {
				log.Errorw("failed to abandon allocation after settlement failure", "error", abandonErr)
			}
			return nil, err
		}

		log.Warnw("allocation left pending, settlement outcome unknown", "error", err)
		return result, err
	}

	updated, err := uc.markSettled.Execute(ctx, MarkAllocationSettledCommand{
		DonationID:   donation.ID(),
		AllocationID: allocation.ID(),
		Reference:    settled.Reference,
	})
	if err != nil {
		log.Errorw("settlement confirmed but allocation not marked",
			"settlement_reference", settled.Reference,
			"error", err,
		)
		result.Reference = settled.Reference
		return result, err
	}

	result.Allocation = updated
	result.Reference = settled.Reference
	return result, nil
}

// reserve picks the oldest donation with enough remaining and appends a pending allocation,
// re-reading the candidates whenever another writer got there first.
func (uc *AllocateToProjectUseCase) reserve(ctx context.Context, project *funding.Project, amount vo.Microunits) (*funding.Donation, *funding.Allocation, error) {
	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		available, err := uc.donationRepo.ListAvailable(ctx, project.OrganizationIdentity())
		if err != nil {
			return nil, nil, err
		}

		var candidate *funding.Donation
		for _, d := range available {
			if d.Remaining() >= amount {
				candidate = d
				break
			}
		}
		if candidate == nil {
			return nil, nil, fmt.Errorf("%w: no donation to %s has %d remaining",
				funding.ErrOverAllocation, project.OrganizationIdentity(), amount)
		}

		a, err := candidate.AppendAllocation(project.ID(), amount)
		if err != nil {
			return nil, nil, err
		}

		err = uc.donationRepo.Replace(ctx, candidate)
		if err == nil {
			allocation, _ := candidate.Allocation(a.ID())
			return candidate, allocation, nil
		}
		if !errors.Is(err, funding.ErrVersionConflict) {
			return nil, nil, err
		}
	}

	return nil, nil, fmt.Errorf("%w: organization %s after %d attempts",
		funding.ErrConcurrentModification, project.OrganizationIdentity(), uc.maxAttempts)
}

func fundsDidNotMove(err error) bool {
	if errors.Is(err, vo.ErrInvalidAddress) || errors.Is(err, funding.ErrInvalidAmount) {
		return true
	}
	var se *ledger.SettlementError
	if errors.As(err, &se) {
		return se.Retryable || ledger.IsDefinite(se)
	}
	return false
}
