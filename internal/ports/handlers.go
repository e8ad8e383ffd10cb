package ports

import (
	"context"

	"whatsapp-campaign-engine/internal/domain"
)

// InboundHandlers is the registry of business handlers the inbound router
// dispatches to. Implementations live outside the routing core and are
// injected at construction.
type InboundHandlers interface {
	// OwnerLookup resolves and shares a property owner's contact details.
	OwnerLookup(ctx context.Context, msg domain.InboundMessage) error

	// ShareContact handles a contact card quoted against a property message.
	ShareContact(ctx context.Context, msg domain.InboundMessage) error

	// StartOnboarding begins the client registration workflow.
	StartOnboarding(ctx context.Context, msg domain.InboundMessage) error

	// TriggerCampaign starts the workflow of the named campaign.
	TriggerCampaign(ctx context.Context, msg domain.InboundMessage, campaign string) error
}

// ProgressSink receives one structured progress record per processed contact.
// The sink owns presentation; the dispatcher only produces the record.
type ProgressSink interface {
	Record(ctx context.Context, p domain.Progress)
}
