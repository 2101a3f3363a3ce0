package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/fundtrail/internal/domain/funding"
	"github.com/orris-inc/fundtrail/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/fundtrail/internal/infrastructure/persistence/models"
	"github.com/orris-inc/fundtrail/internal/shared/biztime"
	"github.com/orris-inc/fundtrail/internal/shared/db"
	apperrors "github.com/orris-inc/fundtrail/internal/shared/errors"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

// DonationRepositoryImpl implements funding.DonationRepository with gorm.
type DonationRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.DonationMapper
	logger logger.Interface
}

func NewDonationRepository(db *gorm.DB, logger logger.Interface) funding.DonationRepository {
	return &DonationRepositoryImpl{
		db:     db,
		mapper: mappers.NewDonationMapper(),
		logger: logger,
	}
}

func (r *DonationRepositoryImpl) Create(ctx context.Context, donation *funding.Donation) error {
	model, err := r.mapper.ToModel(donation)
	if err != nil {
		r.logger.Errorw("failed to map donation entity to model", "error", err)
		return fmt.Errorf("failed to map donation entity: %w", err)
	}

	if err := db.Conn(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return fmt.Errorf("%w: %s", funding.ErrDuplicateSettlementReference, donation.SettlementReference())
		}
		r.logger.Errorw("failed to create donation", "id", model.ID, "error", err)
		return fmt.Errorf("failed to create donation: %w", err)
	}

	r.logger.Infow("donation recorded",
		"id", model.ID,
		"organization", model.OrganizationIdentity,
		"amount", model.Amount,
		"reference", model.SettlementReference,
	)
	return nil
}

func (r *DonationRepositoryImpl) GetByID(ctx context.Context, id string) (*funding.Donation, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *DonationRepositoryImpl) GetBySettlementReference(ctx context.Context, reference string) (*funding.Donation, error) {
	return r.first(ctx, "settlement_reference = ?", reference)
}

func (r *DonationRepositoryImpl) first(ctx context.Context, query string, arg any) (*funding.Donation, error) {
	var model models.DonationModel
	if err := db.Conn(ctx, r.db).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, funding.ErrDonationNotFound
		}
		r.logger.Errorw("failed to load donation", "query", query, "arg", arg, "error", err)
		return nil, fmt.Errorf("failed to load donation: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

// Replace is a compare-and-swap on the version column.
func (r *DonationRepositoryImpl) Replace(ctx context.Context, donation *funding.Donation) error {
	model, err := r.mapper.ToModel(donation)
	if err != nil {
		r.logger.Errorw("failed to map donation entity to model", "error", err)
		return fmt.Errorf("failed to map donation entity: %w", err)
	}

	tx := db.Conn(ctx, r.db)
	result := tx.Model(&models.DonationModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version).
		Updates(map[string]any{
			"allocations":      model.Allocations,
			"allocated_amount": model.AllocatedAmount,
			"version":          model.Version + 1,
			"updated_at":       biztime.NowUTC(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to replace donation", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to replace donation: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.DonationModel{}).Where("id = ?", model.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check donation existence: %w", err)
		}
		if count == 0 {
			return funding.ErrDonationNotFound
		}
		r.logger.Debugw("donation version moved", "id", model.ID, "expected_version", model.Version)
		return funding.ErrVersionConflict
	}

	donation.SetVersion(model.Version + 1)
	return nil
}

func (r *DonationRepositoryImpl) ListAvailable(ctx context.Context, organization string) ([]*funding.Donation, error) {
	var ms []*models.DonationModel
	err := db.Conn(ctx, r.db).
		Where("organization_identity = ? AND allocated_amount < amount", organization).
		Order("created_at ASC, id ASC").
		Find(&ms).Error
	if err != nil {
		r.logger.Errorw("failed to list available donations", "organization", organization, "error", err)
		return nil, fmt.Errorf("failed to list available donations: %w", err)
	}
	return r.mapper.ToEntities(ms)
}

func (r *DonationRepositoryImpl) ListByOrganization(ctx context.Context, organization string) ([]*funding.Donation, error) {
	var ms []*models.DonationModel
	err := db.Conn(ctx, r.db).
		Where("organization_identity = ?", organization).
		Order("created_at ASC, id ASC").
		Find(&ms).Error
	if err != nil {
		r.logger.Errorw("failed to list donations", "organization", organization, "error", err)
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	return r.mapper.ToEntities(ms)
}
