package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/fundtrail/internal/domain/funding"
	"github.com/orris-inc/fundtrail/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/fundtrail/internal/infrastructure/persistence/models"
	"github.com/orris-inc/fundtrail/internal/shared/db"
	apperrors "github.com/orris-inc/fundtrail/internal/shared/errors"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

type ProjectRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewProjectRepository(db *gorm.DB, logger logger.Interface) funding.ProjectRepository {
	return &ProjectRepositoryImpl{db: db, logger: logger}
}

func (r *ProjectRepositoryImpl) Create(ctx context.Context, project *funding.Project) error {
	model := mappers.ProjectToModel(project)
	if err := db.Conn(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("project already exists", model.ID)
		}
		r.logger.Errorw("failed to create project", "id", model.ID, "error", err)
		return fmt.Errorf("failed to create project: %w", err)
	}
	r.logger.Infow("project created", "id", model.ID, "organization", model.OrganizationIdentity)
	return nil
}

func (r *ProjectRepositoryImpl) GetByID(ctx context.Context, id string) (*funding.Project, error) {
	var model models.ProjectModel
	if err := db.Conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, funding.ErrProjectNotFound
		}
		r.logger.Errorw("failed to get project", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return mappers.ProjectToDomain(&model), nil
}

func (r *ProjectRepositoryImpl) ListByOrganization(ctx context.Context, organization string) ([]*funding.Project, error) {
	var ms []models.ProjectModel
	if err := db.Conn(ctx, r.db).
		Where("organization_identity = ?", organization).
		Order("created_at ASC, id ASC").
		Find(&ms).Error; err != nil {
		r.logger.Errorw("failed to list projects", "organization", organization, "error", err)
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := make([]*funding.Project, 0, len(ms))
	for i := range ms {
		projects = append(projects, mappers.ProjectToDomain(&ms[i]))
	}
	return projects, nil
}
