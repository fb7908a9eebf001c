package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txguard/internal/escrow"
	escrowhandler "txguard/internal/escrow/handler"
	"txguard/internal/mockengine"
	"txguard/internal/platform/metrics"
	"txguard/internal/verification"
	"txguard/pkg/testutil"
)

type fixedCircuit string

func (f fixedCircuit) CircuitState() string { return string(f) }

func newRouter(t *testing.T, maxBody int64) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pipeline, err := verification.NewPipeline(mockengine.Engine{}, verification.WithLogger(logger))
	require.NoError(t, err)
	svc, err := escrow.NewService(pipeline)
	require.NoError(t, err)

	return NewRouter(Deps{
		Modules:      []Registrar{escrowhandler.New(svc, logger)},
		Metrics:      metrics.New().Handler(),
		Circuit:      fixedCircuit("open"),
		MaxBodyBytes: maxBody,
	})
}

func TestRouter_Health(t *testing.T) {
	rr := testutil.DoRequest(newRouter(t, 1024), testutil.NewRequest(t, http.MethodGet, "/healthz"))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "engine_circuit_state", "open")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestRouter_Metrics(t *testing.T) {
	rr := testutil.DoRequest(newRouter(t, 1024), testutil.NewRequest(t, http.MethodGet, "/metrics"))
	testutil.AssertStatusOK(t, rr)
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}

func TestRouter_VerifyEchoesRequestID(t *testing.T) {
	req := testutil.NewRequestWithBody(t, http.MethodPost, "/escrow/verify/creation",
		`{"client_address":"0xA","escrow_contract_address":"0xB"}`)
	req.Header.Set("X-Request-ID", "caller-supplied")

	rr := testutil.DoRequest(newRouter(t, 1024), req)
	testutil.AssertStatusOK(t, rr)
	assert.Equal(t, "caller-supplied", rr.Header().Get("X-Request-ID"))
	testutil.AssertJSONContains(t, rr, "overall_risk", "low")
}

func TestRouter_BodyLimit(t *testing.T) {
	body := `{"client_address":"` + strings.Repeat("a", 200) + `"}`
	rr := testutil.DoRequest(newRouter(t, 64),
		testutil.NewRequestWithBody(t, http.MethodPost, "/escrow/verify/creation", body))
	testutil.AssertStatusAndError(t, rr, http.StatusRequestEntityTooLarge, "payload_too_large")
}
