package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/fundtrail/internal/domain/funding"
	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

// PerProjectFundedUseCase reads the project's custody balance straight from the network.
type PerProjectFundedUseCase struct {
	projectRepo funding.ProjectRepository
	balances    BalanceReader
}

func NewPerProjectFundedUseCase(projectRepo funding.ProjectRepository, balances BalanceReader) *PerProjectFundedUseCase {
	return &PerProjectFundedUseCase{projectRepo: projectRepo, balances: balances}
}

func (uc *PerProjectFundedUseCase) Execute(ctx context.Context, projectID string) (vo.Microunits, error) {
	project, err := uc.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return 0, err
	}
	return uc.balances.GetBalance(ctx, project.CustodyAddress())
}

type ProjectSummary struct {
	ProjectID      string
	Title          string
	CustodyAddress string
	TargetAmount   vo.Microunits
	// OnChainFunded is the custody balance; zero when Partial.
	OnChainFunded    vo.Microunits
	SettledAllocated vo.Microunits
	PendingAllocated vo.Microunits
	Partial          bool
	BalanceError     string
}

// ProjectSummaryUseCase puts the project's on-chain balance next to the allocation intent
// recorded against it.
type ProjectSummaryUseCase struct {
	projectRepo  funding.ProjectRepository
	donationRepo funding.DonationRepository
	balances     BalanceReader
	logger       logger.Interface
}

func NewProjectSummaryUseCase(
	projectRepo funding.ProjectRepository,
	donationRepo funding.DonationRepository,
	balances BalanceReader,
	logger logger.Interface,
) *ProjectSummaryUseCase {
	return &ProjectSummaryUseCase{
		projectRepo:  projectRepo,
		donationRepo: donationRepo,
		balances:     balances,
		logger:       logger,
	}
}

func (uc *ProjectSummaryUseCase) Execute(ctx context.Context, projectID string) (*ProjectSummary, error) {
	project, err := uc.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	donations, err := uc.donationRepo.ListByOrganization(ctx, project.OrganizationIdentity())
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}

	summary := &ProjectSummary{
		ProjectID:      project.ID(),
		Title:          project.Title(),
		CustodyAddress: project.CustodyAddress().String(),
		TargetAmount:   project.TargetAmount(),
	}
	for _, d := range donations {
		for _, a := range d.Allocations() {
			if a.ProjectID() != project.ID() {
				continue
			}
			switch {
			case a.Status().IsCompleted():
				summary.SettledAllocated += a.Amount()
			case a.Status().IsPending():
				summary.PendingAllocated += a.Amount()
			}
		}
	}

	balance, err := uc.balances.GetBalance(ctx, project.CustodyAddress())
	if err != nil {
		uc.logger.Warnw("project summary is partial", "project_id", project.ID(), "error", err)
		summary.Partial = true
		summary.BalanceError = err.Error()
		return summary, nil
	}
	summary.OnChainFunded = balance

	return summary, nil
}
