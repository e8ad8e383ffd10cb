package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"whatsapp-campaign-engine/internal/adapters/db/postgres"
	"whatsapp-campaign-engine/internal/adapters/gateway/httpwa"
	"whatsapp-campaign-engine/internal/adapters/handlers"
	"whatsapp-campaign-engine/internal/adapters/queue/rabbitmq"
	"whatsapp-campaign-engine/internal/app"
	"whatsapp-campaign-engine/internal/config"
	"whatsapp-campaign-engine/internal/middleware"
	"whatsapp-campaign-engine/internal/router"
	"whatsapp-campaign-engine/internal/transport"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true}))
	if err := run(log); err != nil {
		log.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	conf := config.FromEnv()

	repo, err := postgres.New(conf.DatabaseURL)
	if err != nil {
		return errors.New("failed to connect to postgres: " + err.Error())
	}
	defer repo.Close()

	publisher, err := rabbitmq.NewPublisher(conf.AMQPURL)
	if err != nil {
		return errors.New("failed to connect to rabbitmq: " + err.Error())
	}
	defer publisher.Close()

	if len(conf.GatewayURLs) == 0 {
		return errors.New("at least one gateway URL is required")
	}
	// Replies to inbound messages go out through the first gateway session.
	responder := httpwa.New("webhook-responder", conf.GatewayURLs[0], conf.GatewayToken)

	faq, err := config.LoadFAQ(conf.FAQPath)
	if err != nil {
		return errors.New("failed to load FAQ: " + err.Error())
	}

	registry := handlers.New(responder, repo, repo, publisher, log)
	rules := router.Rules(registry, responder, faq, func(ctx context.Context) []string {
		names, err := repo.ListCampaignNames(ctx)
		if err != nil {
			log.Error("list campaign names", "err", err)
			return nil
		}
		return names
	}, router.DefaultPhrases(), log)

	svc := app.NewCampaignService(repo, publisher, nil, router.New(log, rules), log)

	fiberApp := fiber.New(fiber.Config{
		AppName:               "inbound-webhook",
		DisableStartupMessage: true,
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          5 * time.Second,
		IdleTimeout:           60 * time.Second,
		ServerHeader:          "",
		BodyLimit:             512 * 1024, // webhook payloads are small
	})

	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())
	fiberApp.Use(middleware.RequestID())
	fiberApp.Use(middleware.SecurityHeaders())

	rateLimiter := middleware.NewRateLimiter(200, 1*time.Minute)
	fiberApp.Use(rateLimiter.Middleware())

	fiberApp.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	handler := transport.NewHandler(svc, log)
	webhook := fiberApp.Group("/webhook")
	handler.RegisterWebhook(webhook)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		log.Info("inbound-webhook started", "addr", conf.WebhookAddr)
		if err := fiberApp.Listen(conf.WebhookAddr); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil {
		return errors.New("failed to shutdown gracefully: " + err.Error())
	}

	log.Info("inbound-webhook stopped gracefully")
	return nil
}
