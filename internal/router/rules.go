package router

import (
	"context"
	"log/slog"
	"strings"

	"whatsapp-campaign-engine/internal/domain"
	"whatsapp-campaign-engine/internal/ports"
)

// Phrases are the trigger strings the rule table matches against.
type Phrases struct {
	OwnerRequest      string // exact body requesting an owner's contact
	ContactCardMarker string // substring identifying a shared contact card
	Onboarding        string // exact body starting client registration
}

// DefaultPhrases are the triggers the production bot ships with.
func DefaultPhrases() Phrases {
	return Phrases{
		OwnerRequest:      "request owner contact",
		ContactCardMarker: "BEGIN:VCARD",
		Onboarding:        "register as client",
	}
}

// Rules builds the production rule table in priority order. Order is load
// bearing: the broad campaign-name rule sits below the exact FAQ match so it
// cannot shadow it.
func Rules(
	reg ports.InboundHandlers,
	responder ports.Responder,
	faq domain.FAQ,
	campaignNames func(ctx context.Context) []string,
	phrases Phrases,
	log *slog.Logger,
) []Rule {
	return []Rule{
		{
			Name: "unhandled-type",
			Match: func(_ context.Context, m domain.InboundMessage) bool {
				return m.Kind != domain.KindText
			},
			Handle: func(_ context.Context, m domain.InboundMessage) error {
				log.Info("ignoring non-text message", "kind", m.Kind, "sender", m.Sender)
				return nil
			},
		},
		{
			Name: "owner-lookup",
			Match: func(_ context.Context, m domain.InboundMessage) bool {
				return strings.TrimSpace(m.Body) == phrases.OwnerRequest
			},
			Handle: reg.OwnerLookup,
		},
		{
			Name: "contact-share",
			Match: func(_ context.Context, m domain.InboundMessage) bool {
				return m.HasQuotedReply && strings.Contains(m.Body, phrases.ContactCardMarker)
			},
			Handle: reg.ShareContact,
		},
		{
			Name: "faq",
			Match: func(_ context.Context, m domain.InboundMessage) bool {
				_, ok := faq.AnswerFor(strings.TrimSpace(m.Body))
				return ok
			},
			Handle: func(ctx context.Context, m domain.InboundMessage) error {
				answer, _ := faq.AnswerFor(strings.TrimSpace(m.Body))
				return responder.Reply(ctx, m.Sender, answer)
			},
		},
		{
			Name: "onboarding",
			Match: func(_ context.Context, m domain.InboundMessage) bool {
				return strings.TrimSpace(m.Body) == phrases.Onboarding
			},
			Handle: reg.StartOnboarding,
		},
		{
			Name: "campaign-trigger",
			Match: func(ctx context.Context, m domain.InboundMessage) bool {
				body := strings.TrimSpace(m.Body)
				for _, name := range campaignNames(ctx) {
					if body == name {
						return true
					}
				}
				return false
			},
			Handle: func(ctx context.Context, m domain.InboundMessage) error {
				return reg.TriggerCampaign(ctx, m, strings.TrimSpace(m.Body))
			},
		},
		{
			Name: "default",
			Match: func(context.Context, domain.InboundMessage) bool {
				return true
			},
			Handle: func(_ context.Context, m domain.InboundMessage) error {
				log.Debug("no rule matched, dropping message", "sender", m.Sender)
				return nil
			},
		},
	}
}
