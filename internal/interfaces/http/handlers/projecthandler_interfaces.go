package handlers

import (
	"context"

	"github.com/orris-inc/fundtrail/internal/application/allocation/usecases"
	reconciliation "github.com/orris-inc/fundtrail/internal/application/reconciliation/usecases"
	"github.com/orris-inc/fundtrail/internal/domain/funding"
	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
)

// Use case interfaces for ProjectHandler and SummaryHandler

type createProjectUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateProjectCommand) (*funding.Project, error)
}

type getProjectUseCase interface {
	Execute(ctx context.Context, projectID string) (*funding.Project, error)
}

type projectFundedUseCase interface {
	Execute(ctx context.Context, projectID string) (vo.Microunits, error)
}

type projectSummaryUseCase interface {
	Execute(ctx context.Context, projectID string) (*reconciliation.ProjectSummary, error)
}

type fundingSummaryUseCase interface {
	Execute(ctx context.Context, organization string) (*reconciliation.FundingSummary, error)
}
