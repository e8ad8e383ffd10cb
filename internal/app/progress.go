package app

import (
	"context"
	"log/slog"

	"whatsapp-campaign-engine/internal/domain"
)

// LogSink implements ports.ProgressSink by emitting one structured log line
// per processed contact. Dashboards and files hang off the log pipeline.
type LogSink struct {
	log *slog.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log}
}

// Record logs the progress observation.
func (s *LogSink) Record(ctx context.Context, p domain.Progress) {
	s.log.Info("run progress",
		"run_id", p.RunID,
		"index", p.Index,
		"sent", p.Sent,
		"failed", p.Failed,
		"skipped", p.Skipped,
		"remaining", p.Remaining,
	)
}
