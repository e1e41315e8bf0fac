package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"overtime-audit/models"
	"overtime-audit/report"

	"github.com/go-chi/chi/v5"
)

const maxImportBytes = 10 << 20

// EntryStore is the record store as seen by the HTTP layer.
type EntryStore interface {
	Insert(ctx context.Context, entry models.OvertimeEntry) (uint, error)
	FetchAll(ctx context.Context, department string) ([]models.OvertimeEntry, error)
	UpdateAuditStatus(ctx context.Context, id uint, status models.AuditStatus) error
	DeleteByID(ctx context.Context, id uint) error
}

// BulkTransfer imports and exports the record set.
type BulkTransfer interface {
	ImportCSV(ctx context.Context, r io.Reader) (int, error)
	ExportCSV(ctx context.Context) ([]byte, error)
	ExportXLSX(ctx context.Context, w io.Writer, department string) error
}

type OvertimeHandler struct {
	store    EntryStore
	transfer BulkTransfer
	logger   *slog.Logger
}

func NewOvertimeHandler(store EntryStore, transfer BulkTransfer, logger *slog.Logger) *OvertimeHandler {
	return &OvertimeHandler{
		store:    store,
		transfer: transfer,
		logger:   logger,
	}
}

func (h *OvertimeHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.FetchAll(r.Context(), r.URL.Query().Get("department"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	success(w, entries)
}

func (h *OvertimeHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var entry models.OvertimeEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		fail(w, http.StatusBadRequest, "INVALID_BODY", "Invalid JSON body")
		return
	}

	id, err := h.store.Insert(r.Context(), entry)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	created(w, "Overtime entry created", map[string]uint{"entry_id": id})
}

type auditStatusRequest struct {
	AuditStatus models.AuditStatus `json:"audit_status"`
}

func (h *OvertimeHandler) UpdateAuditStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}

	var req auditStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "INVALID_BODY", "Invalid JSON body")
		return
	}

	if err := h.store.UpdateAuditStatus(r.Context(), id, req.AuditStatus); err != nil {
		handleError(w, h.logger, err)
		return
	}
	success(w, map[string]interface{}{"entry_id": id, "audit_status": req.AuditStatus})
}

func (h *OvertimeHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteByID(r.Context(), id); err != nil {
		handleError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportCSV accepts either a multipart upload in the "file" field or a raw
// CSV request body.
func (h *OvertimeHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handleError(w, h.logger, err)
			return
		}
		if err != nil {
			fail(w, http.StatusBadRequest, "INVALID_UPLOAD", "Missing CSV file in field \"file\"")
			return
		}
		defer file.Close()
		src = file
	}

	count, err := h.transfer.ImportCSV(r.Context(), src)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	h.logger.Info("csv import", slog.Int("rows", count))
	success(w, map[string]int{"imported": count})
}

func (h *OvertimeHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.transfer.ExportCSV(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	filename := fmt.Sprintf("overtime_entries_%s.csv", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	_, _ = w.Write(data)
}

func (h *OvertimeHandler) Summary(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.FetchAll(r.Context(), r.URL.Query().Get("department"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	success(w, report.Aggregate(entries))
}

func (h *OvertimeHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	department := r.URL.Query().Get("department")

	var buf bytes.Buffer
	if err := h.transfer.ExportXLSX(r.Context(), &buf, department); err != nil {
		handleError(w, h.logger, err)
		return
	}

	filename := fmt.Sprintf("overtime_report_%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	_, _ = w.Write(buf.Bytes())
}

func entryID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		fail(w, http.StatusBadRequest, "INVALID_ID", "Invalid entry ID")
		return 0, false
	}
	return uint(id), true
}
