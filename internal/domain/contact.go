package domain

import "time"

// CanonicalNumber is a contact identifier in canonical international format:
// country calling code followed by the subscriber number, digits only, no
// leading plus. Two raw inputs that differ only in formatting normalize to
// the same CanonicalNumber.
type CanonicalNumber string

func (n CanonicalNumber) String() string { return string(n) }

// JID is the gateway address form of the number.
func (n CanonicalNumber) JID() string { return string(n) + "@s.whatsapp.net" }

// ProbeResult is the outcome of a conversation-history lookup. It is a pure
// read: nothing retains it past the send/skip decision it informs.
type ProbeResult struct {
	Found        bool
	LastActivity time.Time
}
