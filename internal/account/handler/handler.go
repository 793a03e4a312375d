package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"upcheck/internal/account/models"
	"upcheck/internal/account/service"
	dErrors "upcheck/pkg/domain-errors"
	"upcheck/pkg/platform/httputil"
	"upcheck/pkg/requestcontext"
)

// Service defines the interface for account operations.
type Service interface {
	Create(ctx context.Context, p service.CreateParams) (*models.View, error)
	Get(ctx context.Context, phone, tokenID string) (*models.View, error)
	Update(ctx context.Context, phone, tokenID string, p service.UpdateParams) (*models.View, error)
	Delete(ctx context.Context, phone, tokenID string) error
}

// Handler wires account endpoints to the account service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an account handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts account endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/{phone}", h.HandleGet)
		r.Put("/{phone}", h.HandleUpdate)
		r.Delete("/{phone}", h.HandleDelete)
	})
}

// HandleCreate handles POST /users requests. Signup is the one account
// endpoint that requires no token.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateRequest](w, r, h.logger)
	if !ok {
		return
	}

	view, err := h.service.Create(ctx, service.CreateParams{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Password:     req.Password,
		TOSAgreement: req.TOSAgreement,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "account creation failed",
			"request_id", requestID,
			"phone", req.Phone,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, view)
}

// HandleGet handles GET /users/{phone} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tokenID, ok := h.bearer(w, ctx)
	if !ok {
		return
	}

	view, err := h.service.Get(ctx, chi.URLParam(r, "phone"), tokenID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleUpdate handles PUT /users/{phone} requests.
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

	view, err := h.service.Update(ctx, chi.URLParam(r, "phone"), tokenID, service.UpdateParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleDelete handles DELETE /users/{phone} requests.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tokenID, ok := h.bearer(w, ctx)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, chi.URLParam(r, "phone"), tokenID); err != nil {
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
