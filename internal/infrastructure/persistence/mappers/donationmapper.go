package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/orris-inc/fundtrail/internal/domain/funding"
	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
	"github.com/orris-inc/fundtrail/internal/infrastructure/persistence/models"
)

// DonationMapper converts between the donation aggregate and its row.
type DonationMapper interface {
	ToModel(d *funding.Donation) (*models.DonationModel, error)
	ToEntity(m *models.DonationModel) (*funding.Donation, error)
	ToEntities(ms []*models.DonationModel) ([]*funding.Donation, error)
}

type donationMapper struct{}

func NewDonationMapper() DonationMapper {
	return &donationMapper{}
}

func (m *donationMapper) ToModel(d *funding.Donation) (*models.DonationModel, error) {
	allocations := d.Allocations()
	docs := make([]models.AllocationDocument, 0, len(allocations))
	for _, a := range allocations {
		docs = append(docs, models.AllocationDocument{
			ID:                  a.ID(),
			ProjectID:           a.ProjectID(),
			Amount:              a.Amount().Uint64(),
			Status:              a.Status().String(),
			SettlementReference: a.SettlementReference(),
			AbandonReason:       a.AbandonReason(),
			CreatedAt:           a.CreatedAt(),
			SettledAt:           a.SettledAt(),
		})
	}

	raw, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal allocations: %w", err)
	}

	return &models.DonationModel{
		ID:                   d.ID(),
		DonorIdentity:        d.DonorIdentity(),
		OrganizationIdentity: d.OrganizationIdentity(),
		Amount:               d.Amount().Uint64(),
		AllocatedAmount:      d.AllocatedAmount().Uint64(),
		Reason:               d.Reason(),
		SettlementReference:  d.SettlementReference(),
		Allocations:          datatypes.JSON(raw),
		Version:              d.Version(),
		CreatedAt:            d.CreatedAt(),
		UpdatedAt:            d.UpdatedAt(),
	}, nil
}

func (m *donationMapper) ToEntity(model *models.DonationModel) (*funding.Donation, error) {
	var docs []models.AllocationDocument
	if len(model.Allocations) > 0 {
		if err := json.Unmarshal(model.Allocations, &docs); err != nil {
			return nil, fmt.Errorf("donation %s: failed to unmarshal allocations: %w", model.ID, err)
		}
	}

	allocations := make([]*funding.Allocation, 0, len(docs))
	for _, doc := range docs {
		a, err := funding.ReconstructAllocationWithParams(funding.AllocationReconstructParams{
			ID:                  doc.ID,
			DonationID:          model.ID,
			ProjectID:           doc.ProjectID,
			Amount:              vo.Microunits(doc.Amount),
			Status:              vo.AllocationStatus(doc.Status),
			SettlementReference: doc.SettlementReference,
			AbandonReason:       doc.AbandonReason,
			CreatedAt:           doc.CreatedAt,
			SettledAt:           doc.SettledAt,
		})
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, a)
	}

	return funding.ReconstructDonationWithParams(funding.DonationReconstructParams{
		ID:                   model.ID,
		DonorIdentity:        model.DonorIdentity,
		OrganizationIdentity: model.OrganizationIdentity,
		Amount:               vo.Microunits(model.Amount),
		Reason:               model.Reason,
		SettlementReference:  model.SettlementReference,
		Allocations:          allocations,
		Version:              model.Version,
		CreatedAt:            model.CreatedAt,
		UpdatedAt:            model.UpdatedAt,
	})
}

func (m *donationMapper) ToEntities(ms []*models.DonationModel) ([]*funding.Donation, error) {
	out := make([]*funding.Donation, 0, len(ms))
	for _, model := range ms {
		d, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
