package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/fundtrail/internal/shared/config"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

// Manager runs the strategy picked for the environment.
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager uses gorm auto-migration for SQLite in debug mode and the goose scripts everywhere else.
func NewManager(cfg *config.DatabaseConfig, mode string, log logger.Interface) *Manager {
	var strategy Strategy
	if cfg.IsSQLite() && mode == "debug" {
		strategy = NewGormAutoMigrateStrategy(log)
	} else {
		strategy = NewGooseStrategy(DialectFor(cfg.Driver), log)
	}
	return NewManagerWithStrategy(strategy, log)
}

func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}
