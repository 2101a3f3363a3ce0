package mappers

import (
	"github.com/orris-inc/fundtrail/internal/domain/funding"
	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
	"github.com/orris-inc/fundtrail/internal/infrastructure/persistence/models"
)

func ProjectToModel(p *funding.Project) *models.ProjectModel {
	return &models.ProjectModel{
		ID:                   p.ID(),
		Title:                p.Title(),
		OrganizationIdentity: p.OrganizationIdentity(),
		TargetAmount:         p.TargetAmount().Uint64(),
		CustodyAddress:       p.CustodyAddress().String(),
		Category:             p.Category(),
		CreatedAt:            p.CreatedAt(),
		UpdatedAt:            p.CreatedAt(),
	}
}

func ProjectToDomain(m *models.ProjectModel) *funding.Project {
	return funding.ReconstructProjectWithParams(funding.ProjectReconstructParams{
		ID:                   m.ID,
		Title:                m.Title,
		OrganizationIdentity: m.OrganizationIdentity,
		TargetAmount:         vo.Microunits(m.TargetAmount),
		CustodyAddress:       m.CustodyAddress,
		Category:             m.Category,
		CreatedAt:            m.CreatedAt,
	})
}
