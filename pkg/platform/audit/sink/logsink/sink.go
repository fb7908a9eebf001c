// Package logsink writes audit events to a structured logger. It is the
// fallback sink when no broker is configured.
package logsink

import (
	"context"
	"log/slog"

	audit "txguard/pkg/platform/audit"
)

type Sink struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{logger: logger}
}

func (s *Sink) Write(ctx context.Context, event audit.Event) error {
	level := slog.LevelInfo
	if event.Category == audit.CategorySecurity {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, event.Action,
		"log_type", "audit",
		"category", event.Category,
		"domain", event.Domain,
		"action_type", event.ActionType,
		"risk_tier", event.RiskTier,
		"detectors", event.Detectors,
		"degraded", event.Degraded,
		"reason", event.Reason,
		"subject_hash", event.SubjectHash,
		"request_id", event.RequestID,
		"client_ip", event.ClientIP,
		"client_agent", event.ClientAgent,
		"timestamp", event.Timestamp,
	)
	return nil
}
