package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"txguard/pkg/platform/httputil"
	"txguard/pkg/platform/middleware/bodylimit"
	"txguard/pkg/platform/middleware/metadata"
	"txguard/pkg/platform/middleware/requestid"
	"txguard/pkg/platform/middleware/requesttime"
)

// Registrar mounts a module's routes.
type Registrar interface {
	Register(r chi.Router)
}

// CircuitReporter exposes the detection engine breaker position.
type CircuitReporter interface {
	CircuitState() string
}

// Deps are the pieces the router needs. Metrics and Circuit may be nil.
type Deps struct {
	Modules      []Registrar
	Metrics      http.Handler
	Circuit      CircuitReporter
	MaxBodyBytes int64
}

// NewRouter wires middleware, module routes, health and metrics.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)

	r.Get("/healthz", healthHandler(d.Circuit))
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	r.Group(func(r chi.Router) {
		if d.MaxBodyBytes > 0 {
			r.Use(bodylimit.Middleware(d.MaxBodyBytes))
		}
		for _, m := range d.Modules {
			m.Register(r)
		}
	})
	return r
}

func healthHandler(circuit CircuitReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		state := "closed"
		if circuit != nil {
			state = circuit.CircuitState()
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{
			"status":               "ok",
			"engine_circuit_state": state,
		})
	}
}
