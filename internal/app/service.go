package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"whatsapp-campaign-engine/internal/dispatch"
	"whatsapp-campaign-engine/internal/domain"
	"whatsapp-campaign-engine/internal/ports"
	"whatsapp-campaign-engine/internal/router"

	"github.com/google/uuid"
)

// CampaignService is the central application service: it creates campaigns,
// enqueues and executes runs, and routes inbound messages.
type CampaignService struct {
	repo       ports.CampaignRepository
	publisher  ports.RunPublisher
	dispatcher *dispatch.Dispatcher
	router     *router.Router
	log        *slog.Logger
}

// NewCampaignService wires the service with its dependencies. Binaries that
// only need a slice of the surface may pass nil for the rest.
func NewCampaignService(
	repo ports.CampaignRepository,
	publisher ports.RunPublisher,
	dispatcher *dispatch.Dispatcher,
	rt *router.Router,
	log *slog.Logger,
) *CampaignService {
	return &CampaignService{
		repo:       repo,
		publisher:  publisher,
		dispatcher: dispatcher,
		router:     rt,
		log:        log,
	}
}

// CreateCampaignRequest is the input for creating a new campaign.
type CreateCampaignRequest struct {
	Name     string
	Body     string
	Contacts []string
}

// CreateCampaign persists a Campaign and its raw contact list.
func (s *CampaignService) CreateCampaign(ctx context.Context, req CreateCampaignRequest) (domain.Campaign, error) {
	campaign := domain.NewCampaign(req.Name, req.Body)

	if err := s.repo.SaveCampaign(ctx, campaign); err != nil {
		return domain.Campaign{}, fmt.Errorf("save campaign: %w", err)
	}

	if err := s.repo.SaveContacts(ctx, campaign.ID, req.Contacts); err != nil {
		return domain.Campaign{}, fmt.Errorf("save contacts: %w", err)
	}

	s.log.Info("campaign created",
		"campaign_id", campaign.ID, "name", campaign.Name, "contacts", len(req.Contacts))
	return campaign, nil
}

// GetCampaign retrieves a campaign by ID.
func (s *CampaignService) GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	return s.repo.GetCampaign(ctx, id)
}

// EnqueueRun publishes a run request for the campaign to the queue. The
// dispatch worker picks it up and executes the pass.
func (s *CampaignService) EnqueueRun(ctx context.Context, campaignID uuid.UUID, mode domain.RunMode) (domain.RunRequest, error) {
	if _, err := s.repo.GetCampaign(ctx, campaignID); err != nil {
		return domain.RunRequest{}, fmt.Errorf("resolve campaign: %w", err)
	}

	req := domain.RunRequest{
		RunID:      uuid.New(),
		CampaignID: campaignID,
		Mode:       mode,
	}
	if err := s.publisher.Publish(ctx, req); err != nil {
		return domain.RunRequest{}, fmt.Errorf("publish run request: %w", err)
	}

	s.log.Info("run enqueued", "run_id", req.RunID, "campaign_id", campaignID, "mode", mode)
	return req, nil
}

// ExecuteRun loads the campaign and its contacts, executes the dispatch
// loop, and records the final tallies. Called by the dispatch worker for
// each run request it dequeues. A nil return acknowledges the request;
// returning an error requeues it.
func (s *CampaignService) ExecuteRun(ctx context.Context, req domain.RunRequest) error {
	campaign, err := s.repo.GetCampaign(ctx, req.CampaignID)
	if errors.Is(err, domain.ErrCampaignNotFound) {
		// Requeueing cannot resurrect a deleted campaign.
		s.log.Warn("run request for unknown campaign, dropping",
			"run_id", req.RunID, "campaign_id", req.CampaignID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get campaign: %w", err)
	}

	contacts, err := s.repo.GetContacts(ctx, req.CampaignID)
	if err != nil {
		return fmt.Errorf("get contacts: %w", err)
	}

	started := time.Now().UTC()
	stats, err := s.dispatcher.Execute(ctx, dispatch.Run{
		ID:         req.RunID,
		CampaignID: req.CampaignID,
		Contacts:   contacts,
		Body:       campaign.Body,
		Mode:       req.Mode,
	})
	switch {
	case errors.Is(err, domain.ErrNoContacts):
		// Permanent: an empty list stays empty on retry.
		s.log.Warn("run request for campaign without contacts, dropping",
			"run_id", req.RunID, "campaign_id", req.CampaignID)
		return nil
	case err != nil:
		return fmt.Errorf("execute run: %w", err)
	}

	run := domain.CampaignRun{
		ID:         req.RunID,
		CampaignID: req.CampaignID,
		Mode:       req.Mode,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		Stats:      stats,
	}
	if err := s.repo.SaveRun(ctx, run); err != nil {
		// The pass itself completed; losing the record is not worth
		// re-sending every message.
		s.log.Error("save run record failed", "run_id", req.RunID, "err", err)
	}

	return nil
}

// HandleInbound routes one inbound message event. The router guarantees at
// most one handler fires and that handler failures never propagate.
// The matched rule name is returned for request logging.
func (s *CampaignService) HandleInbound(ctx context.Context, msg domain.InboundMessage) string {
	return s.router.Route(ctx, msg)
}
