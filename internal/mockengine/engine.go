// Package mockengine is a stand-in detection engine for local runs and
// tests. Its verdicts come from a few descriptor heuristics and carry no
// risk model.
package mockengine

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"txguard/internal/verification/models"
	dErrors "txguard/pkg/domain-errors"
	"txguard/pkg/platform/httputil"
)

// Engine implements ports.DetectionEngine in process. Latency simulates a
// remote call and honours ctx cancellation.
type Engine struct {
	Latency time.Duration
}

// Analyze returns overall_risk high when the multisig detector runs on a
// descriptor with fewer provided signatures than required, medium when
// either address is missing, and low otherwise.
func (e Engine) Analyze(ctx context.Context, d models.Descriptor, detectors []models.DetectorID) (models.Verdict, error) {
	if e.Latency > 0 {
		timer := time.NewTimer(e.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	findings := []any{}
	risk := models.RiskLow

	ran := make([]any, 0, len(detectors))
	for _, id := range detectors {
		ran = append(ran, string(id))
		if id == models.DetectorMultisig && len(d.ProvidedSignatures) < d.RequiredSignatures {
			risk = models.RiskHigh
			findings = append(findings, map[string]any{
				"detector": string(id),
				"issue":    "insufficient_signatures",
				"provided": len(d.ProvidedSignatures),
				"required": d.RequiredSignatures,
			})
		}
	}

	if risk == models.RiskLow && (d.OriginAddress == "" || d.DestinationAddress == "") {
		risk = models.RiskMedium
		findings = append(findings, map[string]any{"issue": "missing_address"})
	}

	return models.Verdict{
		models.OverallRiskKey: string(risk),
		"detectors_run":       ran,
		"findings":            findings,
		"engine":              "mock",
	}, nil
}

type analyzeRequest struct {
	Transaction models.Descriptor   `json:"transaction"`
	DetectorIDs []models.DetectorID `json:"detector_ids"`
}

// Handler serves the engine over HTTP at POST /v1/analyze, the contract the
// httpengine adapter speaks.
func (e Engine) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/analyze", func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid analyze request"))
			return
		}
		verdict, err := e.Analyze(r.Context(), req.Transaction, req.DetectorIDs)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, verdict)
	})
	return mux
}
