package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// RunMode controls how the dispatcher treats contacts that already have a
// conversation thread.
type RunMode string

const (
	// ModeAllContacts sends to every valid contact in the list.
	ModeAllContacts RunMode = "all"
	// ModeNewContactsOnly skips contacts with an existing conversation.
	ModeNewContactsOnly RunMode = "new-only"
)

// Campaign is an outbound message template plus the list it targets.
type Campaign struct {
	ID        uuid.UUID
	Name      string
	Body      string
	CreatedAt time.Time
}

// NewCampaign creates a Campaign with a generated ID.
func NewCampaign(name, body string) Campaign {
	return Campaign{
		ID:        uuid.New(),
		Name:      name,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
}

// RunRequest asks the dispatch worker to execute one pass over a campaign's
// contact list. It is what travels over the queue between API and worker.
type RunRequest struct {
	RunID      uuid.UUID `json:"run_id"`
	CampaignID uuid.UUID `json:"campaign_id"`
	Mode       RunMode   `json:"mode"`
}

// RunStats are the tallies accumulated over one campaign run. They are owned
// by the dispatcher for the run's duration and only returned at the end.
type RunStats struct {
	Sent    int
	Failed  int
	Skipped int
}

// Total is the number of contacts accounted for so far.
func (s RunStats) Total() int { return s.Sent + s.Failed + s.Skipped }

// CampaignRun is the persisted record of one executed run.
type CampaignRun struct {
	ID         uuid.UUID
	CampaignID uuid.UUID
	Mode       RunMode
	StartedAt  time.Time
	FinishedAt time.Time
	Stats      RunStats
}

// Progress is the per-contact observation emitted after every processed
// contact. The reporting collaborator decides how to present it.
type Progress struct {
	RunID     uuid.UUID
	Index     int
	Sent      int
	Failed    int
	Skipped   int
	Remaining int
}

// Domain errors
var (
	ErrInvalidNumber    = errors.New("invalid phone number")
	ErrNoSessions       = errors.New("session pool is empty")
	ErrNoContacts       = errors.New("contact list is empty")
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrOwnerNotFound    = errors.New("owner not found")
)
