package ports

import (
	"context"
	"time"

	"whatsapp-campaign-engine/internal/domain"
)

// DeliveryReceipt is the gateway's acknowledgment of an accepted message.
type DeliveryReceipt struct {
	MessageID string // External ID assigned by the gateway
	Timestamp time.Time
}

// Session is one authenticated send channel on the messaging gateway.
// Sessions are shared read-only across runs; callers borrow a session for a
// single operation and never mutate its authentication state.
type Session interface {
	// ID identifies the session for logging.
	ID() string

	// SendText transmits a text message and returns the gateway receipt.
	SendText(ctx context.Context, to domain.CanonicalNumber, body string) (DeliveryReceipt, error)

	// LookupConversation reports whether a conversation thread with the
	// contact exists. A not-found result is (ProbeResult{Found: false}, nil);
	// an error means the probe itself could not be performed.
	LookupConversation(ctx context.Context, with domain.CanonicalNumber) (domain.ProbeResult, error)
}

// Responder sends a reply back to the sender of an inbound message.
type Responder interface {
	Reply(ctx context.Context, to domain.CanonicalNumber, body string) error
}
