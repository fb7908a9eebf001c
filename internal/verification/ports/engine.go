package ports

import (
	"context"

	"txguard/internal/verification/models"
)

// DetectionEngine scores a transaction descriptor with the requested
// detectors. The verdict is opaque apart from its overall_risk field.
//
// Implementations should honour ctx cancellation. Errors are surfaced to
// callers unchanged.
type DetectionEngine interface {
	Analyze(ctx context.Context, descriptor models.Descriptor, detectors []models.DetectorID) (models.Verdict, error)
}
