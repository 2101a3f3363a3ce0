package funding

import "context"

// DonationRepository persists a donation and its allocations as one unit.
type DonationRepository interface {
	// Create fails with ErrDuplicateSettlementReference when the funding reference is already recorded.
	Create(ctx context.Context, donation *Donation) error
	GetByID(ctx context.Context, id string) (*Donation, error)
	GetBySettlementReference(ctx context.Context, reference string) (*Donation, error)
	// Replace writes the donation only if the stored version still equals donation.Version(),
	// otherwise it returns ErrVersionConflict. On success the donation carries the new version.
	Replace(ctx context.Context, donation *Donation) error
	// ListAvailable returns donations of org with remaining > 0, oldest first, ties broken by id.
	ListAvailable(ctx context.Context, organization string) ([]*Donation, error)
	ListByOrganization(ctx context.Context, organization string) ([]*Donation, error)
}

type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, id string) (*Project, error)
	ListByOrganization(ctx context.Context, organization string) ([]*Project, error)
}
