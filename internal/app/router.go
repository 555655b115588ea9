package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mrawais006/autoworkx/internal/billing"
	"github.com/mrawais006/autoworkx/internal/bookings"
	"github.com/mrawais006/autoworkx/internal/insights"
	"github.com/mrawais006/autoworkx/internal/masterdata"
	"github.com/mrawais006/autoworkx/internal/observability"
	"github.com/mrawais006/autoworkx/internal/reminders"
	"github.com/mrawais006/autoworkx/internal/settings"
	"github.com/mrawais006/autoworkx/internal/visits"
	"github.com/mrawais006/autoworkx/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	BillingHandler    *billing.Handler
	VisitsHandler     *visits.Handler
	MasterDataHandler *masterdata.Handler
	SettingsHandler   *settings.Handler
	InsightsHandler   *insights.Handler
	BookingsHandler   *bookings.Handler
	RemindersHandler  *reminders.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
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

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.BillingHandler != nil {
		r.Route("/invoices", params.BillingHandler.MountRoutes)
	}
	if params.VisitsHandler != nil {
		r.Route("/visits", params.VisitsHandler.MountRoutes)
	}
	if params.MasterDataHandler != nil {
		params.MasterDataHandler.Routes(r)
	}
	if params.SettingsHandler != nil {
		r.Route("/settings", params.SettingsHandler.Routes)
	}
	if params.InsightsHandler != nil {
		r.Route("/insights", params.InsightsHandler.Routes)
	}
	if params.BookingsHandler != nil {
		r.Route("/bookings", params.BookingsHandler.Routes)
	}
	if params.RemindersHandler != nil {
		r.Route("/reminders", params.RemindersHandler.Routes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
