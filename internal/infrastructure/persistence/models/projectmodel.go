package models

import "time"

type ProjectModel struct {
	ID                   string `gorm:"primaryKey;size:32"`
	Title                string `gorm:"size:255;not null"`
	OrganizationIdentity string `gorm:"size:128;not null;index"`
	TargetAmount         uint64 `gorm:"not null;default:0"`
	CustodyAddress       string `gorm:"size:58;not null"`
	Category             string `gorm:"size:64"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (ProjectModel) TableName() string {
	return "projects"
}
