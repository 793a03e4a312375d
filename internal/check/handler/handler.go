package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"upcheck/internal/check/models"
	"upcheck/internal/check/service"
	dErrors "upcheck/pkg/domain-errors"
	"upcheck/pkg/platform/httputil"
	"upcheck/pkg/requestcontext"
)

// Service defines the interface for check operations.
type Service interface {
	Create(ctx context.Context, tokenID string, p service.CreateParams) (*models.Check, error)
	Get(ctx context.Context, id, tokenID string) (*models.Check, error)
	Update(ctx context.Context, id, tokenID string, p service.UpdateParams) (*models.Check, error)
	Delete(ctx context.Context, id, tokenID string) error
}

// Handler wires check endpoints to the check service. Every check endpoint
// requires a bearer token; ownership is resolved by the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a check handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts check endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/checks", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/{id}", h.HandleGet)
		r.Put("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
}

// HandleCreate handles POST /checks requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	tokenID, ok := h.bearer(w, ctx)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[CreateRequest](w, r, h.logger)
	if !ok {
		return
	}

	check, err := h.service.Create(ctx, tokenID, service.CreateParams{
		Protocol:       req.ParsedProtocol(),
		URL:            req.URL,
		Method:         req.ParsedMethod(),
		SuccessCodes:   req.SuccessCodes,
		TimeoutSeconds: req.TimeoutSeconds,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "check creation failed",
			"request_id", requestID,
			"url", req.URL,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, check)
}

// HandleGet handles GET /checks/{id} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tokenID, ok := h.bearer(w, ctx)
	if !ok {
		return
	}

	check, err := h.service.Get(ctx, chi.URLParam(r, "id"), tokenID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, check)
}

// HandleUpdate handles PUT /checks/{id} requests.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tokenID, ok := h.bearer(w, ctx)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateRequest](w, r, h.logger)
	if !ok {
		return
	}

	check, err := h.service.Update(ctx, chi.URLParam(r, "id"), tokenID, service.UpdateParams{
		Protocol:       models.Protocol(req.Protocol),
		URL:            req.URL,
		Method:         models.Method(req.Method),
		SuccessCodes:   req.SuccessCodes,
		TimeoutSeconds: req.TimeoutSeconds,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, check)
}

// HandleDelete handles DELETE /checks/{id} requests.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tokenID, ok := h.bearer(w, ctx)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, chi.URLParam(r, "id"), tokenID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// bearer extracts the caller's token, writing 401 when none was sent.
func (h *Handler) bearer(w http.ResponseWriter, ctx context.Context) (string, bool) {
	tokenID := requestcontext.BearerToken(ctx)
	if tokenID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return "", false
	}
	return tokenID, true
}
