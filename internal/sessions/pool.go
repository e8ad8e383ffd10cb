package sessions

import (
	"whatsapp-campaign-engine/internal/domain"
	"whatsapp-campaign-engine/internal/ports"
)

// Pool holds the authenticated gateway sessions a run distributes load
// across. Composition is fixed for the pool's lifetime; sessions are shared
// read-only references and safe to hand out to concurrent runs.
type Pool struct {
	sessions []ports.Session
}

// NewPool creates a Pool. An empty session list is a configuration error.
func NewPool(sessions []ports.Session) (*Pool, error) {
	if len(sessions) == 0 {
		return nil, domain.ErrNoSessions
	}
	return &Pool{sessions: sessions}, nil
}

// Next returns the session for iteration i, round-robin: Next(i) == Next(i+p)
// for pool size p. Load spreads evenly across sessions regardless of run
// length.
func (p *Pool) Next(i int) ports.Session {
	return p.sessions[i%len(p.sessions)]
}

// Size returns the number of sessions in the pool.
func (p *Pool) Size() int { return len(p.sessions) }
