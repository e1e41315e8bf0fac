package handlers

import (
	"log/slog"
	"net/http"

	"overtime-audit/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig, overtime *OvertimeHandler, wizard *WizardHandler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestLogger(cfg.Logger, cfg.LogLevel))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(chimiddleware.CleanPath)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Heartbeat("/"))

	router.Route("/entries", func(r chi.Router) {
		r.Get("/", overtime.ListEntries)
		r.Post("/", overtime.CreateEntry)
		r.Post("/import", overtime.ImportCSV)
		r.Get("/export.csv", overtime.ExportCSV)
		r.Patch("/{id}/audit-status", overtime.UpdateAuditStatus)
		r.Delete("/{id}", overtime.DeleteEntry)
	})

	router.Route("/reports", func(r chi.Router) {
		r.Get("/summary", overtime.Summary)
		r.Get("/export.xlsx", overtime.ExportXLSX)
	})

	router.Route("/wizard", func(r chi.Router) {
		r.Post("/", wizard.Start)
		r.Get("/{id}", wizard.Get)
		r.Post("/{id}/next", wizard.Next)
		r.Post("/{id}/back", wizard.Back)
		r.Post("/{id}/submit", wizard.Submit)
		r.Delete("/{id}", wizard.Cancel)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		fail(w, http.StatusNotFound, "NOT_FOUND", "Route not found")
	})
	return router
}
