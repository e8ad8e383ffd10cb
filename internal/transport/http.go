package transport

import (
	"errors"
	"log/slog"

	"whatsapp-campaign-engine/internal/app"
	"whatsapp-campaign-engine/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handler holds all HTTP handlers for the campaign engine.
type Handler struct {
	svc *app.CampaignService
	log *slog.Logger
}

// NewHandler wires up a Handler with its dependencies.
func NewHandler(svc *app.CampaignService, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register mounts the campaign API routes onto the given Fiber router.
func (h *Handler) Register(router fiber.Router) {
	router.Post("/campaigns", h.CreateCampaign)
	router.Get("/campaigns/:id", h.GetCampaign)
	router.Post("/campaigns/:id/runs", h.EnqueueRun)
}

// RegisterWebhook mounts the inbound message webhook.
func (h *Handler) RegisterWebhook(router fiber.Router) {
	router.Post("/inbound", h.HandleInbound)
}

// ── Campaign API ──────────────────────────────────────────────────────────────

type createCampaignRequest struct {
	Name     string   `json:"name"`
	Body     string   `json:"body"`
	Contacts []string `json:"contacts"`
}

type createCampaignResponse struct {
	CampaignID string `json:"campaign_id"`
	Contacts   int    `json:"contacts"`
}

// CreateCampaign accepts a campaign definition and its contact list.
//
// POST /campaigns
// Body: { "name": "...", "body": "...", "contacts": ["...", ...] }
func (h *Handler) CreateCampaign(c *fiber.Ctx) error {
	var req createCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Name == "" || req.Body == "" || len(req.Contacts) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name, body and contacts are required"})
	}

	campaign, err := h.svc.CreateCampaign(c.Context(), app.CreateCampaignRequest{
		Name:     req.Name,
		Body:     req.Body,
		Contacts: req.Contacts,
	})
	if err != nil {
		h.log.Error("create campaign", "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(createCampaignResponse{
		CampaignID: campaign.ID.String(),
		Contacts:   len(req.Contacts),
	})
}

// GetCampaign returns one campaign.
//
// GET /campaigns/:id
func (h *Handler) GetCampaign(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id must be a valid UUID"})
	}

	campaign, err := h.svc.GetCampaign(c.Context(), id)
	if errors.Is(err, domain.ErrCampaignNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "campaign not found"})
	}
	if err != nil {
		h.log.Error("get campaign", "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(fiber.Map{
		"campaign_id": campaign.ID.String(),
		"name":        campaign.Name,
		"body":        campaign.Body,
		"created_at":  campaign.CreatedAt,
	})
}

type enqueueRunRequest struct {
	Mode string `json:"mode"`
}

type enqueueRunResponse struct {
	RunID string `json:"run_id"`
	Mode  string `json:"mode"`
}

// EnqueueRun queues one pass over the campaign's contact list.
//
// POST /campaigns/:id/runs
// Body: { "mode": "all"|"new-only" }
func (h *Handler) EnqueueRun(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id must be a valid UUID"})
	}

	var req enqueueRunRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	mode := domain.RunMode(req.Mode)
	switch mode {
	case "":
		mode = domain.ModeAllContacts
	case domain.ModeAllContacts, domain.ModeNewContactsOnly:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "mode must be 'all' or 'new-only'"})
	}

	runReq, err := h.svc.EnqueueRun(c.Context(), id, mode)
	if errors.Is(err, domain.ErrCampaignNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "campaign not found"})
	}
	if err != nil {
		h.log.Error("enqueue run", "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusAccepted).JSON(enqueueRunResponse{
		RunID: runReq.RunID.String(),
		Mode:  string(runReq.Mode),
	})
}

// ── Inbound Webhook ───────────────────────────────────────────────────────────

type inboundRequest struct {
	Kind           string `json:"kind"`
	Body           string `json:"body"`
	HasQuotedReply bool   `json:"has_quoted_reply"`
	QuotedBody     string `json:"quoted_body"`
	Sender         string `json:"sender"`
}

// HandleInbound receives inbound message events from the gateway and routes
// each through the rule table.
//
// POST /inbound
// Body: { "kind": "text"|"media"|..., "body": "...", "has_quoted_reply": bool,
//         "quoted_body": "...", "sender": "9715..." }
func (h *Handler) HandleInbound(c *fiber.Ctx) error {
	var req inboundRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Sender == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "sender is required"})
	}

	msg := domain.InboundMessage{
		Kind:           kindFromString(req.Kind),
		Body:           req.Body,
		HasQuotedReply: req.HasQuotedReply,
		QuotedBody:     req.QuotedBody,
		Sender:         domain.CanonicalNumber(req.Sender),
	}

	rule := h.svc.HandleInbound(c.Context(), msg)
	h.log.Info("inbound message routed", "rule", rule, "sender", msg.Sender)

	return c.SendStatus(fiber.StatusNoContent)
}

// kindFromString maps the gateway's message type onto the closed MessageKind
// set. Anything not text or a known media type is KindOther.
func kindFromString(s string) domain.MessageKind {
	switch s {
	case "text", "chat":
		return domain.KindText
	case "image", "video", "audio", "document", "sticker":
		return domain.KindMedia
	default:
		return domain.KindOther
	}
}
