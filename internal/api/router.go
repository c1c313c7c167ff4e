package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"quartermaster/internal/api/handlers"
	"quartermaster/internal/api/middleware"
	"quartermaster/internal/api/response"
	"quartermaster/internal/auth"
	"quartermaster/internal/config"
)

type RouterDeps struct {
	Auth        *handlers.AuthHandler
	Devices     *handlers.DeviceHandler
	Maintenance *handlers.MaintenanceHandler
	Reports     *handlers.ReportHandler
	Exports     *handlers.ExportHandler
	Users       *handlers.UserHandler
	JWT         *auth.JWTManager
	CORS        config.CORSConfig
	Log         *slog.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	metrics := middleware.NewMetrics()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger(deps.Log))
	r.Use(metrics.Middleware())
	r.Use(middleware.RateLimit(50, 100))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(deps.CORS.AllowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", deps.Auth.Login)
		r.Post("/auth/refresh", deps.Auth.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(deps.JWT))

			r.Route("/devices", func(r chi.Router) {
				r.Get("/", deps.Devices.List)
				r.Post("/", deps.Devices.Create)
				r.Get("/count", deps.Devices.Count)
				r.Get("/{id}", deps.Devices.Get)
				r.Put("/{id}", deps.Devices.Update)
				r.Delete("/{id}", deps.Devices.Delete)
				r.Get("/{id}/history", deps.Devices.History)
				r.Get("/{id}/ownership", deps.Devices.Ownership)
				r.Post("/{id}/maintenance", deps.Maintenance.Create)
			})

			r.Route("/maintenance", func(r chi.Router) {
				r.Get("/", deps.Maintenance.List)
				r.Get("/{id}", deps.Maintenance.Get)
				r.Put("/{id}", deps.Maintenance.Update)
				r.Delete("/{id}", deps.Maintenance.Delete)
				r.Get("/{id}/report.pdf", deps.Exports.MaintenanceReportPDF)
			})

			r.Get("/reports/summary", deps.Reports.Summary)
			r.Get("/reports/summary/pdf", deps.Exports.SummaryPDF)

			r.Route("/export", func(r chi.Router) {
				r.Get("/devices.xlsx", deps.Exports.DevicesXLSX)
				r.Get("/maintenance.xlsx", deps.Exports.MaintenanceXLSX)
				r.Get("/ownership.xlsx", deps.Exports.OwnershipXLSX)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", deps.Users.NotImplemented)
				r.Post("/", deps.Users.NotImplemented)
				r.Put("/{id}", deps.Users.NotImplemented)
				r.Delete("/{id}", deps.Users.NotImplemented)
			})
		})
	})

	return r
}
