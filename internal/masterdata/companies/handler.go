package companies

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medbill/medbill/internal/masterdata/shared"
	"github.com/medbill/medbill/internal/platform/httpx"
	common "github.com/medbill/medbill/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers company routes. Callers must mount behind authentication.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := common.ActorFromContext(r.Context())
	items, page, err := h.service.List(r.Context(), actor, shared.FiltersFromRequest(r))
	if err != nil {
		h.logger.Error("list companies failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.Paginated(w, "Companies fetched successfully!", items, page)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	actor, _ := common.ActorFromContext(r.Context())
	company, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, "Company fetched successfully!", company)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var form CompanyForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, err)
		return
	}
	actor, _ := common.ActorFromContext(r.Context())
	created, err := h.service.Create(r.Context(), actor, form)
	if err != nil {
		h.logger.Error("create company failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusCreated, "Company created successfully!", created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var form UpdateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, err)
		return
	}
	actor, _ := common.ActorFromContext(r.Context())
	company, err := h.service.Update(r.Context(), actor, id, form)
	if err != nil {
		h.logger.Error("update company failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, "Company updated successfully!", company)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	actor, _ := common.ActorFromContext(r.Context())
	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		h.logger.Error("delete company failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, "Company deleted successfully!", nil)
}
