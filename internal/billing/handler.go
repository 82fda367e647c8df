package billing

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medbill/medbill/internal/platform/httpx"
	"github.com/medbill/medbill/internal/shared"
)

// Handler exposes bill endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers bill routes. Callers must mount behind authentication.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{id}", h.handleShow)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateBillRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	actor, _ := shared.ActorFromContext(r.Context())
	id, err := h.service.Create(r.Context(), actor, req)
	if err != nil {
		h.logger.Warn("create bill failed", slog.Int64("actor_id", actor.ID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("bill created", slog.Int64("bill_id", id), slog.Int64("actor_id", actor.ID))
	httpx.Success(w, http.StatusCreated, "Invoice created successfully!", map[string]int64{"billId": id})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.ActorFromContext(r.Context())
	bills, page, err := h.service.List(r.Context(), actor, httpx.ListFilters(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if bills == nil {
		bills = []Bill{}
	}
	httpx.Paginated(w, "Invoices fetched successfully!", bills, page)
}

func (h *Handler) handleShow(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	actor, _ := shared.ActorFromContext(r.Context())
	detail, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, "Invoice fetched successfully!", detail)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req UpdateBillRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	actor, _ := shared.ActorFromContext(r.Context())
	bill, err := h.service.Update(r.Context(), actor, id, req)
	if err != nil {
		h.logger.Warn("update bill failed", slog.Int64("bill_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, "Invoice updated successfully!", map[string]Bill{"bill": bill})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	actor, _ := shared.ActorFromContext(r.Context())
	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, "Invoice deleted successfully!", nil)
}
