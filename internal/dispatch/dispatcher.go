// Package dispatch implements the campaign send loop: one strictly
// sequential pass over a shuffled contact list, spreading sends across the
// session pool and accounting every contact as sent, skipped, or failed.
package dispatch

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"whatsapp-campaign-engine/internal/domain"
	"whatsapp-campaign-engine/internal/phone"
	"whatsapp-campaign-engine/internal/ports"
	"whatsapp-campaign-engine/internal/sessions"
	"whatsapp-campaign-engine/internal/throttle"

	"github.com/google/uuid"
)

// Run is the input for one campaign pass.
type Run struct {
	ID         uuid.UUID
	CampaignID uuid.UUID
	Contacts   []string // raw contact identifiers, consumed once
	Body       string
	Mode       domain.RunMode
}

// Dispatcher executes campaign runs. It is safe to share across concurrent
// runs: all per-run state lives in the Run value and local tallies.
type Dispatcher struct {
	pool      *sessions.Pool
	validator *phone.Validator
	throttle  *throttle.Throttle
	sink      ports.ProgressSink
	log       *slog.Logger

	now func() time.Time
}

// New wires a Dispatcher with its collaborators.
func New(
	pool *sessions.Pool,
	validator *phone.Validator,
	th *throttle.Throttle,
	sink ports.ProgressSink,
	log *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		pool:      pool,
		validator: validator,
		throttle:  th,
		sink:      sink,
		log:       log,
		now:       time.Now,
	}
}

type outcome int

const (
	outcomeSent outcome = iota
	outcomeSkipped
	outcomeFailed
)

// Execute runs one pass over the run's contact list. Contacts are shuffled,
// then processed strictly in sequence; the progress record for contact i is
// emitted before contact i+1 is touched. Per-contact errors are counted and
// the run continues; only configuration errors abort before any contact is
// processed. On completion Sent+Failed+Skipped equals the list length.
func (d *Dispatcher) Execute(ctx context.Context, run Run) (domain.RunStats, error) {
	var stats domain.RunStats

	if d.pool == nil || d.pool.Size() == 0 {
		return stats, domain.ErrNoSessions
	}
	if len(run.Contacts) == 0 {
		return stats, domain.ErrNoContacts
	}

	contacts := append([]string(nil), run.Contacts...)
	rand.Shuffle(len(contacts), func(i, j int) {
		contacts[i], contacts[j] = contacts[j], contacts[i]
	})

	total := len(contacts)
	d.log.Info("run started",
		"run_id", run.ID, "campaign_id", run.CampaignID,
		"contacts", total, "mode", run.Mode, "sessions", d.pool.Size(),
	)

	for i, raw := range contacts {
		// Clean stop point: between contacts only.
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if !d.throttle.PermittedAt(d.now()) {
			// Outside the send window the remainder of the run is deferred,
			// not busy-waited. The untouched contacts count as skips so the
			// tallies still cover the whole list.
			stats.Skipped += total - i
			d.log.Info("send window closed, deferring remainder",
				"run_id", run.ID, "remaining", total-i)
			break
		}

		session := d.pool.Next(i)

		switch d.process(ctx, session, run, raw) {
		case outcomeSent:
			stats.Sent++
		case outcomeSkipped:
			stats.Skipped++
		case outcomeFailed:
			stats.Failed++
		}

		d.sink.Record(ctx, domain.Progress{
			RunID:     run.ID,
			Index:     i,
			Sent:      stats.Sent,
			Failed:    stats.Failed,
			Skipped:   stats.Skipped,
			Remaining: total - (i + 1),
		})

		// The delay fires after every contact, win or lose, so timing does
		// not reveal which contacts were skipped.
		if err := d.throttle.Wait(ctx); err != nil {
			return stats, err
		}
	}

	d.log.Info("run finished",
		"run_id", run.ID,
		"sent", stats.Sent, "failed", stats.Failed, "skipped", stats.Skipped,
	)
	return stats, nil
}

// process handles a single contact: validate, probe, send.
func (d *Dispatcher) process(ctx context.Context, session ports.Session, run Run, raw string) outcome {
	number, err := d.validator.Normalize(raw)
	if err != nil {
		d.log.Warn("invalid contact", "run_id", run.ID, "raw", raw, "err", err)
		return outcomeFailed
	}

	if run.Mode == domain.ModeNewContactsOnly {
		probe, err := session.LookupConversation(ctx, number)
		switch {
		case err != nil:
			// Policy: a failed probe is treated as "no conversation found"
			// and we proceed to send. Not being able to prove a contact was
			// already messaged must not block reachable contacts.
			d.log.Warn("history probe failed, sending anyway",
				"run_id", run.ID, "to", number, "session", session.ID(), "err", err)
		case probe.Found:
			d.log.Info("contact already has a conversation, skipping",
				"run_id", run.ID, "to", number, "last_activity", probe.LastActivity)
			return outcomeSkipped
		}
	}

	receipt, err := session.SendText(ctx, number, run.Body)
	if err != nil {
		d.log.Error("send failed", "run_id", run.ID, "to", number,
			"session", session.ID(), "err", err)
		return outcomeFailed
	}

	d.log.Info("message sent", "run_id", run.ID, "to", number,
		"session", session.ID(), "gateway_id", receipt.MessageID)
	return outcomeSent
}
