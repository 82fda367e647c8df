package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/medbill/medbill/internal/auth"
	"github.com/medbill/medbill/internal/billing"
	"github.com/medbill/medbill/internal/inventory"
	"github.com/medbill/medbill/internal/masterdata/categories"
	"github.com/medbill/medbill/internal/masterdata/companies"
	"github.com/medbill/medbill/internal/masterdata/products"
	"github.com/medbill/medbill/internal/observability"
	"github.com/medbill/medbill/internal/platform/httpx"
	"github.com/medbill/medbill/internal/users"
	"github.com/medbill/medbill/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	Tokens            *auth.TokenIssuer
	AuthHandler       *auth.Handler
	UsersHandler      *users.Handler
	CompaniesHandler  *companies.Handler
	CategoriesHandler *categories.Handler
	ProductsHandler   *products.Handler
	BillingHandler    *billing.Handler
	InventoryHandler  *inventory.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with MedBill defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.Success(w, http.StatusOK, "ok", map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.AuthHandler != nil {
		r.Route("/auth", params.AuthHandler.MountRoutes)
	}

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(params.Tokens))
		if params.UsersHandler != nil {
			r.Route("/users", params.UsersHandler.MountRoutes)
		}
		if params.CompaniesHandler != nil {
			r.Route("/companies", params.CompaniesHandler.MountRoutes)
		}
		if params.CategoriesHandler != nil {
			r.Route("/categories", params.CategoriesHandler.MountRoutes)
		}
		if params.ProductsHandler != nil {
			r.Route("/products", params.ProductsHandler.MountRoutes)
		}
		r.Route("/bills", params.BillingHandler.MountRoutes)
		if params.InventoryHandler != nil {
			r.Route("/inventory", params.InventoryHandler.MountRoutes)
		}
	})

	return r
}
