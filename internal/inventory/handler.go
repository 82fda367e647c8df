package inventory

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/medbill/medbill/internal/platform/httpx"
	"github.com/medbill/medbill/internal/rbac"
	"github.com/medbill/medbill/internal/shared"
)

// Handler wires HTTP endpoints for stock administration.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs inventory handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers inventory routes. Everything here is admin only.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(rbac.RequireRole(shared.RoleAdmin))
		r.Get("/products/{id}/movements", h.handleMovements)
		r.Post("/products/{id}/adjust", h.handleAdjust)
	})
}

func (h *Handler) handleMovements(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	moves, err := h.service.Movements(r.Context(), id, limit)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, "Stock movements fetched successfully!", moves)
}

func (h *Handler) handleAdjust(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var input AdjustInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	input.ProductID = id
	actor, _ := shared.ActorFromContext(r.Context())
	move, err := h.service.Adjust(r.Context(), actor, input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("stock adjusted", slog.Int64("product_id", id), slog.Int("delta", input.Delta))
	httpx.Success(w, http.StatusOK, "Stock updated successfully!", move)
}
