// Package router classifies inbound message events. An ordered rule table is
// evaluated top to bottom; the first predicate that matches decides the
// handler, and exactly one handler fires per event.
package router

import (
	"context"
	"fmt"
	"log/slog"

	"whatsapp-campaign-engine/internal/domain"
)

// Handler processes an event that matched a rule.
type Handler func(ctx context.Context, msg domain.InboundMessage) error

// Rule pairs a predicate with the handler it selects. Rules are created once
// at startup and never mutated afterwards.
type Rule struct {
	Name   string
	Match  func(ctx context.Context, msg domain.InboundMessage) bool
	Handle Handler
}

// Router is a stateless classifier over a fixed, ordered rule table.
type Router struct {
	rules []Rule
	log   *slog.Logger
}

// New creates a Router over the given rules. Rule order is significant:
// earlier rules shadow later ones.
func New(log *slog.Logger, rules []Rule) *Router {
	return &Router{rules: rules, log: log}
}

// Route evaluates the rules in order and invokes the first matching handler.
// Events matching no rule are dropped. Handler errors and panics are caught
// here and logged; one malformed message must never take the router down.
// The name of the matched rule is returned for observability.
func (r *Router) Route(ctx context.Context, msg domain.InboundMessage) string {
	for _, rule := range r.rules {
		if !rule.Match(ctx, msg) {
			continue
		}

		if err := r.invoke(ctx, rule, msg); err != nil {
			r.log.Error("inbound handler failed",
				"rule", rule.Name, "sender", msg.Sender, "err", err)
		}
		return rule.Name
	}

	r.log.Debug("inbound message matched no rule", "sender", msg.Sender)
	return ""
}

func (r *Router) invoke(ctx context.Context, rule Rule, msg domain.InboundMessage) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panic: %v", rec)
		}
	}()
	return rule.Handle(ctx, msg)
}
