package migration

import (
	"github.com/orris-inc/fundtrail/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.DonationModel{},
		&models.ProjectModel{},
	}
}
