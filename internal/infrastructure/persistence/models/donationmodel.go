package models

import (
	"time"

	"gorm.io/datatypes"
)

// DonationModel stores a donation together with its allocations. AllocatedAmount mirrors
// the sum of pending and completed allocations so the availability query stays in SQL.
type DonationModel struct {
	ID                   string         `gorm:"primaryKey;size:32"`
	DonorIdentity        string         `gorm:"size:128;not null"`
	OrganizationIdentity string         `gorm:"size:128;not null;index:idx_donations_org_created,priority:1"`
	Amount               uint64         `gorm:"not null"`
	AllocatedAmount      uint64         `gorm:"not null;default:0"`
	Reason               string         `gorm:"size:512"`
	SettlementReference  string         `gorm:"size:128;not null;uniqueIndex:uk_donations_settlement_reference"`
	Allocations          datatypes.JSON `gorm:"not null"`
	Version              int            `gorm:"not null;default:1"`
	CreatedAt            time.Time      `gorm:"not null;index:idx_donations_org_created,priority:2"`
	UpdatedAt            time.Time
}

func (DonationModel) TableName() string {
	return "donations"
}

// AllocationDocument is one element of DonationModel.Allocations.
type AllocationDocument struct {
	ID                  string     `json:"id"`
	ProjectID           string     `json:"project_id"`
	Amount              uint64     `json:"amount"`
	Status              string     `json:"status"`
	SettlementReference string     `json:"settlement_reference,omitempty"`
	AbandonReason       string     `json:"abandon_reason,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	SettledAt           *time.Time `json:"settled_at,omitempty"`
}
