package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"txguard/internal/verification/httpapi"
	"txguard/internal/verification/models"
)

// Service defines the governance verification operations.
type Service interface {
	VerifyProposalCreation(ctx context.Context, rec models.Record) (*models.Result, error)
	VerifyVoteSubmission(ctx context.Context, rec models.Record) (*models.Result, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/voting/verify/proposal", h.HandleVerifyProposal)
	r.Post("/voting/verify/vote", h.HandleVerifyVote)
}

// HandleVerifyProposal handles POST /voting/verify/proposal.
func (h *Handler) HandleVerifyProposal(w http.ResponseWriter, r *http.Request) {
	httpapi.Serve(w, r, h.logger, "voting.verify_proposal", h.service.VerifyProposalCreation)
}

// HandleVerifyVote handles POST /voting/verify/vote.
func (h *Handler) HandleVerifyVote(w http.ResponseWriter, r *http.Request) {
	httpapi.Serve(w, r, h.logger, "voting.verify_vote", h.service.VerifyVoteSubmission)
}
