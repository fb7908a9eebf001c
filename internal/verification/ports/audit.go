package ports

import (
	"context"

	audit "txguard/pkg/platform/audit"
)

// AuditPublisher receives one event per verification outcome.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
