package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"overtime-audit/wizard"

	"github.com/go-chi/chi/v5"
)

// WizardHandler drives the two-page submission form. Only the final submit
// reaches the record store.
type WizardHandler struct {
	wizard  *wizard.Manager
	maxIdle time.Duration
	logger  *slog.Logger
}

func NewWizardHandler(manager *wizard.Manager, maxIdle time.Duration, logger *slog.Logger) *WizardHandler {
	return &WizardHandler{
		wizard:  manager,
		maxIdle: maxIdle,
		logger:  logger,
	}
}

func (h *WizardHandler) Start(w http.ResponseWriter, r *http.Request) {
	if n := h.wizard.Prune(h.maxIdle); n > 0 {
		h.logger.Debug("pruned idle wizard sessions", slog.Int("count", n))
	}
	created(w, "Wizard started", h.wizard.Start())
}

func (h *WizardHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.wizard.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	success(w, session)
}

func (h *WizardHandler) Next(w http.ResponseWriter, r *http.Request) {
	var page wizard.Page1
	if err := json.NewDecoder(r.Body).Decode(&page); err != nil {
		fail(w, http.StatusBadRequest, "INVALID_BODY", "Invalid JSON body")
		return
	}

	session, err := h.wizard.Next(chi.URLParam(r, "id"), page)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	success(w, session)
}

func (h *WizardHandler) Back(w http.ResponseWriter, r *http.Request) {
	session, err := h.wizard.Back(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	success(w, session)
}

func (h *WizardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var page wizard.Page2
	if err := json.NewDecoder(r.Body).Decode(&page); err != nil {
		fail(w, http.StatusBadRequest, "INVALID_BODY", "Invalid JSON body")
		return
	}

	id, err := h.wizard.Submit(r.Context(), chi.URLParam(r, "id"), page)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	created(w, "Overtime entry submitted", map[string]uint{"entry_id": id})
}

func (h *WizardHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.wizard.Cancel(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}
