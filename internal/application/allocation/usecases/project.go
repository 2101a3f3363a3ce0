package usecases

import (
	"context"

	"github.com/orris-inc/fundtrail/internal/domain/funding"
	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

type CreateProjectCommand struct {
	Title                string
	OrganizationIdentity string
	TargetAmount         vo.Microunits
	CustodyAddress       string
	Category             string
}

type CreateProjectUseCase struct {
	projectRepo funding.ProjectRepository
	logger      logger.Interface
}

func NewCreateProjectUseCase(projectRepo funding.ProjectRepository, logger logger.Interface) *CreateProjectUseCase {
	return &CreateProjectUseCase{projectRepo: projectRepo, logger: logger}
}

func (uc *CreateProjectUseCase) Execute(ctx context.Context, cmd CreateProjectCommand) (*funding.Project, error) {
	project, err := funding.NewProject(cmd.Title, cmd.OrganizationIdentity, cmd.TargetAmount, cmd.CustodyAddress, cmd.Category)
	if err != nil {
		return nil, err
	}
	if err := uc.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	uc.logger.Infow("project created",
		"project_id", project.ID(),
		"organization", project.OrganizationIdentity(),
		"custody_address", project.CustodyAddress(),
	)
	return project, nil
}

type GetProjectUseCase struct {
	projectRepo funding.ProjectRepository
}

func NewGetProjectUseCase(projectRepo funding.ProjectRepository) *GetProjectUseCase {
	return &GetProjectUseCase{projectRepo: projectRepo}
}

func (uc *GetProjectUseCase) Execute(ctx context.Context, projectID string) (*funding.Project, error) {
	return uc.projectRepo.GetByID(ctx, projectID)
}
