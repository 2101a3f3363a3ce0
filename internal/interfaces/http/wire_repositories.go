package http

import (
	"gorm.io/gorm"

	"github.com/orris-inc/fundtrail/internal/domain/funding"
	"github.com/orris-inc/fundtrail/internal/infrastructure/repository"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	donationRepo funding.DonationRepository
	projectRepo  funding.ProjectRepository
}

func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		donationRepo: repository.NewDonationRepository(db, log),
		projectRepo:  repository.NewProjectRepository(db, log),
	}
}
