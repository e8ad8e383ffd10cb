package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// mockSendRequest mirrors what httpwa.Client posts to /send.
type mockSendRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

type mockSendResponse struct {
	MessageID string    `json:"message_id"`
	Timestamp time.Time `json:"timestamp"`
}

// gateway keeps an in-memory conversation log so history probes against the
// mock behave like the real thing: once a number has been messaged, later
// lookups find the thread.
type gateway struct {
	mu            sync.Mutex
	conversations map[string]time.Time
}

func (g *gateway) record(number string) time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := time.Now().UTC()
	g.conversations[number] = now
	return now
}

func (g *gateway) lookup(number string) (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	t, ok := g.conversations[number]
	return t, ok
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	addr := getenv("HTTP_ADDR", ":9090")
	webhookURL := getenv("INBOUND_WEBHOOK_URL", "http://localhost:8081/webhook/inbound")

	gw := &gateway{conversations: make(map[string]time.Time)}

	fiberApp := fiber.New(fiber.Config{AppName: "mock-gateway"})

	// POST /send — accepts a message and echoes back a generated receipt.
	fiberApp.Post("/send", func(c *fiber.Ctx) error {
		var req mockSendRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}

		number := strings.TrimSuffix(req.To, "@s.whatsapp.net")
		ts := gw.record(number)

		messageID := uuid.New().String()
		log.Info("mock gateway accepted message",
			"to", number, "message_id", messageID,
		)

		go simulateReply(webhookURL, number, log)

		return c.Status(fiber.StatusAccepted).JSON(mockSendResponse{
			MessageID: messageID,
			Timestamp: ts,
		})
	})

	// GET /conversations/:number — 200 with last activity, or 404.
	fiberApp.Get("/conversations/:number", func(c *fiber.Ctx) error {
		last, ok := gw.lookup(c.Params("number"))
		if !ok {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.JSON(fiber.Map{"last_activity": last})
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("mock-gateway listening", "addr", addr)
		if err := fiberApp.Listen(addr); err != nil {
			log.Error("fiber listen", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down mock-gateway")
	_ = fiberApp.Shutdown()
}

// simulateReply posts a fake inbound message to the webhook after a short
// delay, as a real recipient might.
func simulateReply(webhookURL, number string, log *slog.Logger) {
	time.Sleep(500 * time.Millisecond)

	payload := map[string]any{
		"kind":   "text",
		"body":   "thanks for the update",
		"sender": number,
	}
	body, _ := json.Marshal(payload)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		log.Error("create webhook request", "err", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Error("webhook call failed", "sender", number, "err", err)
		return
	}
	defer resp.Body.Close()
	log.Info("simulated inbound reply", "sender", number, "status", resp.StatusCode)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
