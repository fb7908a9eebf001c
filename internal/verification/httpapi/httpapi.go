// Package httpapi holds the request and response handling shared by the
// escrow and voting handlers.
package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"txguard/internal/verification/models"
	dErrors "txguard/pkg/domain-errors"
	"txguard/pkg/platform/httputil"
	"txguard/pkg/requestcontext"
)

// DegradedKey is added to the response body when the verdict carried no
// usable overall_risk.
const DegradedKey = "degraded_confidence"

// VerifyFunc is one verification entry point.
type VerifyFunc func(ctx context.Context, rec models.Record) (*models.Result, error)

// DecodeRecord reads the request body as a raw record. Oversized bodies
// (see the bodylimit middleware) fail with CodePayloadTooBig.
func DecodeRecord(r *http.Request) (models.Record, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, dErrors.New(dErrors.CodePayloadTooBig, "request body too large")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "failed to read request body")
	}
	return models.ParseRecord(data)
}

// Render builds the response body: the augmented verdict, plus
// degraded_confidence when set.
func Render(result *models.Result) map[string]any {
	body := make(map[string]any, len(result.Verdict)+1)
	for k, v := range result.Verdict {
		body[k] = v
	}
	if result.Degraded {
		body[DegradedKey] = true
	}
	return body
}

// Serve decodes, verifies and writes the result or error.
func Serve(w http.ResponseWriter, r *http.Request, logger *slog.Logger, name string, verify VerifyFunc) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	rec, err := DecodeRecord(r)
	if err != nil {
		logger.WarnContext(ctx, "invalid verification request",
			"request_id", requestID,
			"operation", name,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	result, err := verify(ctx, rec)
	if err != nil {
		logger.ErrorContext(ctx, "verification request failed",
			"request_id", requestID,
			"operation", name,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	logger.InfoContext(ctx, "verification request served",
		"request_id", requestID,
		"operation", name,
		"risk_tier", result.RiskTier,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, Render(result))
}
