package funding

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
	"github.com/orris-inc/fundtrail/internal/shared/biztime"
	"github.com/orris-inc/fundtrail/internal/shared/id"
)

type Project struct {
	id                   string
	title                string
	organizationIdentity string
	targetAmount         vo.Microunits
	custodyAddress       vo.Address
	category             string
	createdAt            time.Time
}

type ProjectReconstructParams struct {
	ID                   string
	Title                string
	OrganizationIdentity string
	TargetAmount         vo.Microunits
	CustodyAddress       string
	Category             string
	CreatedAt            time.Time
}

// NewProject requires a syntactically valid custody address so no settlement is ever aimed at garbage.
func NewProject(title, organization string, target vo.Microunits, custodyAddress, category string) (*Project, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("project title is required")
	}
	if strings.TrimSpace(organization) == "" {
		return nil, fmt.Errorf("organization identity is required")
	}
	addr, err := vo.ParseAddress(custodyAddress)
	if err != nil {
		return nil, err
	}

	projectID, err := id.NewProjectID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate project ID: %w", err)
	}

	return &Project{
		id:                   projectID,
		title:                title,
		organizationIdentity: organization,
		targetAmount:         target,
		custodyAddress:       addr,
		category:             category,
		createdAt:            biztime.NowUTC(),
	}, nil
}

func ReconstructProjectWithParams(p ProjectReconstructParams) *Project {
	return &Project{
		id:                   p.ID,
		title:                p.Title,
		organizationIdentity: p.OrganizationIdentity,
		targetAmount:         p.TargetAmount,
		custodyAddress:       vo.Address(p.CustodyAddress),
		category:             p.Category,
		createdAt:            p.CreatedAt,
	}
}

func (p *Project) ID() string                   { return p.id }
func (p *Project) Title() string                { return p.title }
func (p *Project) OrganizationIdentity() string { return p.organizationIdentity }
func (p *Project) TargetAmount() vo.Microunits  { return p.targetAmount }
func (p *Project) CustodyAddress() vo.Address   { return p.custodyAddress }
func (p *Project) Category() string             { return p.category }
func (p *Project) CreatedAt() time.Time         { return p.createdAt }
