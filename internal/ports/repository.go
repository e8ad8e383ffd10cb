package ports

import (
	"context"

	"whatsapp-campaign-engine/internal/domain"

	"github.com/google/uuid"
)

// CampaignRepository defines persistence operations for campaigns, their
// contact lists, and executed runs.
type CampaignRepository interface {
	// SaveCampaign persists a new Campaign.
	SaveCampaign(ctx context.Context, c domain.Campaign) error

	// GetCampaign retrieves a campaign by ID.
	GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)

	// GetCampaignByName retrieves a campaign by its identifying name, used
	// when an inbound message triggers a campaign workflow.
	GetCampaignByName(ctx context.Context, name string) (*domain.Campaign, error)

	// SaveContacts persists the raw contact list of a campaign.
	SaveContacts(ctx context.Context, campaignID uuid.UUID, raw []string) error

	// GetContacts returns the raw contact list of a campaign, in insertion order.
	GetContacts(ctx context.Context, campaignID uuid.UUID) ([]string, error)

	// ListCampaignNames returns the names of all known campaigns, used by the
	// inbound router's campaign-trigger rule.
	ListCampaignNames(ctx context.Context) ([]string, error)

	// SaveRun records the final tallies of a completed run.
	SaveRun(ctx context.Context, run domain.CampaignRun) error
}

// OwnerDirectory resolves property owners for the owner-lookup handler.
type OwnerDirectory interface {
	// GetOwnerByProperty returns the owner of the given property reference.
	GetOwnerByProperty(ctx context.Context, propertyRef string) (domain.Owner, error)
}
