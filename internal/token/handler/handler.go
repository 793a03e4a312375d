package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"upcheck/internal/token/models"
	"upcheck/pkg/platform/httputil"
	"upcheck/pkg/requestcontext"
)

// Service defines the interface for token operations.
type Service interface {
	Issue(ctx context.Context, phone, password string) (*models.Token, error)
	Get(ctx context.Context, id string) (*models.Token, error)
	Renew(ctx context.Context, id string) (*models.Token, error)
	Revoke(ctx context.Context, id string) error
}

// Handler wires token endpoints to the token service. Token endpoints take
// the id in the path rather than a bearer header; possession of the id is
// the credential.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a token handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts token endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/tokens", func(r chi.Router) {
		r.Post("/", h.HandleIssue)
		r.Get("/{id}", h.HandleGet)
		r.Put("/{id}/renew", h.HandleRenew)
		r.Delete("/{id}", h.HandleRevoke)
	})
}

// HandleIssue handles POST /tokens requests (login).
func (h *Handler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[IssueRequest](w, r, h.logger)
	if !ok {
		return
	}

	token, err := h.service.Issue(ctx, req.Phone, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "token issue refused",
			"request_id", requestID,
			"phone", req.Phone,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, token)
}

// HandleGet handles GET /tokens/{id} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	token, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, token)
}

// HandleRenew handles PUT /tokens/{id}/renew requests.
func (h *Handler) HandleRenew(w http.ResponseWriter, r *http.Request) {
	token, err := h.service.Renew(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, token)
}

// HandleRevoke handles DELETE /tokens/{id} requests (logout).
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Revoke(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
