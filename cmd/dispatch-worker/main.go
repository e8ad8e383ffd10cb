package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"whatsapp-campaign-engine/internal/adapters/db/postgres"
	"whatsapp-campaign-engine/internal/adapters/gateway/httpwa"
	"whatsapp-campaign-engine/internal/adapters/queue/rabbitmq"
	"whatsapp-campaign-engine/internal/app"
	"whatsapp-campaign-engine/internal/config"
	"whatsapp-campaign-engine/internal/dispatch"
	"whatsapp-campaign-engine/internal/domain"
	"whatsapp-campaign-engine/internal/phone"
	"whatsapp-campaign-engine/internal/ports"
	"whatsapp-campaign-engine/internal/sessions"
	"whatsapp-campaign-engine/internal/throttle"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	conf := config.FromEnv()

	// ── Adapters ─────────────────────────────────────────────────────────────
	repo, err := postgres.New(conf.DatabaseURL)
	if err != nil {
		log.Error("connect postgres", "err", err)
		os.Exit(1)
	}
	defer repo.Close()

	consumer, err := rabbitmq.NewConsumer(conf.AMQPURL, log)
	if err != nil {
		log.Error("connect rabbitmq consumer", "err", err)
		os.Exit(1)
	}
	defer consumer.Close()

	// One session handle per configured gateway endpoint.
	var handles []ports.Session
	for i, u := range conf.GatewayURLs {
		handles = append(handles, httpwa.New(fmt.Sprintf("agent-%d", i), u, conf.GatewayToken))
	}
	pool, err := sessions.NewPool(handles)
	if err != nil {
		log.Error("build session pool", "err", err)
		os.Exit(1)
	}

	// ── Dispatch pipeline ────────────────────────────────────────────────────
	validator := phone.NewValidator(conf.DefaultCountryCode)
	th := throttle.New(conf.SendWindowStart, conf.SendWindowEnd, conf.MinSendDelay, conf.MaxSendDelay)
	dispatcher := dispatch.New(pool, validator, th, app.NewLogSink(log), log)

	svc := app.NewCampaignService(repo, nil, dispatcher, nil, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("dispatch-worker started",
		"sessions", pool.Size(),
		"window_start", conf.SendWindowStart,
		"window_end", conf.SendWindowEnd,
	)

	if err := consumer.Consume(ctx, func(ctx context.Context, req domain.RunRequest) error {
		return svc.ExecuteRun(ctx, req)
	}); err != nil && ctx.Err() == nil {
		log.Error("consumer error", "err", err)
		os.Exit(1)
	}

	log.Info("shutting down dispatch-worker")
}
