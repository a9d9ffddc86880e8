package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pidstore/internal/person/models"
	"pidstore/pkg/domain"
	"pidstore/pkg/platform/httputil"
	"pidstore/pkg/requestcontext"
)

// Service defines the person operations the HTTP layer needs.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	Save(ctx context.Context, person *models.Person) (*models.SaveResult, error)
	Get(ctx context.Context, id domain.ExternalID) (*models.Person, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts the person routes. The fetch route is a catch-all single
// segment, so it must be registered after any other top-level GET routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/save", h.HandleSave)
	r.Get("/{external_id}", h.HandleGet)
}

// HandleSave stores a person record if none exists for its external id.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.SaveRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	person, err := req.ToPerson()
	if err != nil {
		h.logger.WarnContext(ctx, "invalid person payload", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Save(ctx, person)
	if err != nil {
		h.logger.ErrorContext(ctx, "save person failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toSaveResponse(result))
}

// HandleGet returns the stored record for the external id in the path.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, err := domain.ParseExternalID(chi.URLParam(r, "external_id"))
	if err != nil {
		h.logger.WarnContext(ctx, err.Error(), "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	person, err := h.service.Get(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toPersonResponse(person))
}
