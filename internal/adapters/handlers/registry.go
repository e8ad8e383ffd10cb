// Package handlers implements the business handlers the inbound router
// dispatches to: owner lookup, contact sharing, onboarding, and campaign
// triggering.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"whatsapp-campaign-engine/internal/domain"
	"whatsapp-campaign-engine/internal/ports"

	"github.com/google/uuid"
)

// propertyRefPattern matches listing references like "REF-10234" in message
// text.
var propertyRefPattern = regexp.MustCompile(`\bREF-\d+\b`)

// Registry implements ports.InboundHandlers.
type Registry struct {
	responder ports.Responder
	owners    ports.OwnerDirectory
	repo      ports.CampaignRepository
	publisher ports.RunPublisher
	log       *slog.Logger
}

// New wires the registry with its collaborators.
func New(
	responder ports.Responder,
	owners ports.OwnerDirectory,
	repo ports.CampaignRepository,
	publisher ports.RunPublisher,
	log *slog.Logger,
) *Registry {
	return &Registry{
		responder: responder,
		owners:    owners,
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// OwnerLookup resolves the owner of the property referenced in the quoted
// message and replies with the owner's contact details.
func (r *Registry) OwnerLookup(ctx context.Context, msg domain.InboundMessage) error {
	ref := propertyRefPattern.FindString(msg.QuotedBody)
	if ref == "" {
		ref = propertyRefPattern.FindString(msg.Body)
	}
	if ref == "" {
		return r.responder.Reply(ctx, msg.Sender,
			"Please quote the property listing you are asking about.")
	}

	owner, err := r.owners.GetOwnerByProperty(ctx, ref)
	if errors.Is(err, domain.ErrOwnerNotFound) {
		r.log.Info("owner lookup missed", "property_ref", ref, "sender", msg.Sender)
		return r.responder.Reply(ctx, msg.Sender,
			fmt.Sprintf("No owner on record for %s.", ref))
	}
	if err != nil {
		return fmt.Errorf("lookup owner %s: %w", ref, err)
	}

	reply := fmt.Sprintf("Owner of %s: %s, +%s", owner.PropertyRef, owner.Name, owner.Phone)
	return r.responder.Reply(ctx, msg.Sender, reply)
}

// ShareContact acknowledges a contact card quoted against a property message.
func (r *Registry) ShareContact(ctx context.Context, msg domain.InboundMessage) error {
	r.log.Info("contact card received", "sender", msg.Sender)
	return r.responder.Reply(ctx, msg.Sender,
		"Thank you, we received the contact details and will follow up.")
}

// StartOnboarding begins the client registration workflow.
func (r *Registry) StartOnboarding(ctx context.Context, msg domain.InboundMessage) error {
	r.log.Info("onboarding requested", "sender", msg.Sender)
	return r.responder.Reply(ctx, msg.Sender,
		"Welcome! Please reply with your full name and the areas you are interested in.")
}

// TriggerCampaign enqueues a run of the named campaign, targeting new
// contacts only so repeat triggers don't re-message existing threads.
func (r *Registry) TriggerCampaign(ctx context.Context, msg domain.InboundMessage, campaign string) error {
	c, err := r.repo.GetCampaignByName(ctx, campaign)
	if err != nil {
		return fmt.Errorf("resolve campaign %q: %w", campaign, err)
	}

	req := domain.RunRequest{
		RunID:      uuid.New(),
		CampaignID: c.ID,
		Mode:       domain.ModeNewContactsOnly,
	}
	if err := r.publisher.Publish(ctx, req); err != nil {
		return fmt.Errorf("enqueue run for campaign %q: %w", campaign, err)
	}

	r.log.Info("campaign run triggered by inbound message",
		"campaign", campaign, "run_id", req.RunID, "sender", msg.Sender)
	return r.responder.Reply(ctx, msg.Sender,
		fmt.Sprintf("Campaign %q has been queued.", campaign))
}
