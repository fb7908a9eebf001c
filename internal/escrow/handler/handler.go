package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"txguard/internal/verification/httpapi"
	"txguard/internal/verification/models"
)

//go:generate mockgen -source=handler.go -destination=mocks/mock_service.go -package=mocks Service

// Service defines the escrow verification operations.
type Service interface {
	VerifyCreation(ctx context.Context, rec models.Record) (*models.Result, error)
	VerifyRelease(ctx context.Context, rec models.Record) (*models.Result, error)
}

// Handler wires escrow endpoints to the escrow service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts escrow endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/escrow/verify/creation", h.HandleVerifyCreation)
	r.Post("/escrow/verify/release", h.HandleVerifyRelease)
}

// HandleVerifyCreation handles POST /escrow/verify/creation.
func (h *Handler) HandleVerifyCreation(w http.ResponseWriter, r *http.Request) {
	httpapi.Serve(w, r, h.logger, "escrow.verify_creation", h.service.VerifyCreation)
}

// HandleVerifyRelease handles POST /escrow/verify/release.
func (h *Handler) HandleVerifyRelease(w http.ResponseWriter, r *http.Request) {
	httpapi.Serve(w, r, h.logger, "escrow.verify_release", h.service.VerifyRelease)
}
