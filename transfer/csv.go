// Package transfer moves the whole record set in and out of the store as CSV
// and renders XLSX report workbooks.
package transfer

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"overtime-audit/models"
)

// Store is the slice of the record store bulk transfer needs.
type Store interface {
	FetchAll(ctx context.Context, department string) ([]models.OvertimeEntry, error)
	InsertAll(ctx context.Context, entries []models.OvertimeEntry) (int, error)
}

type Transfer struct {
	store Store
}

func New(store Store) *Transfer {
	return &Transfer{store: store}
}

// ImportCSV parses r and appends every row. The whole file is validated
// before anything is written and rows are inserted in one transaction, so a
// failure leaves the store unchanged.
func (t *Transfer) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	entries, err := ParseCSV(r)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}
	return t.store.InsertAll(ctx, entries)
}

// ExportCSV serialises every stored entry.
func (t *Transfer) ExportCSV(ctx context.Context) ([]byte, error) {
	entries, err := t.store.FetchAll(ctx, "")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCSV writes a header row followed by one row per entry, in table column
// order.
func WriteCSV(w io.Writer, entries []models.OvertimeEntry) error {
	columns := models.Columns()
	writer := csv.NewWriter(w)

	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(columns))
	for i := range entries {
		for j, col := range columns {
			record[j] = entries[i].Field(col)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ParseCSV reads entries from CSV with a header row naming entry columns.
// entry_id may be present and is ignored. Columns missing from the header are
// left empty.
func ParseCSV(r io.Reader) ([]models.OvertimeEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &models.ValidationError{Line: 1, Reason: "missing header row"}
	}
	if err != nil {
		return nil, csvError(err)
	}

	columns, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	var entries []models.OvertimeEntry
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}
		line, _ := reader.FieldPos(0)

		var entry models.OvertimeEntry
		for i, col := range columns {
			if err := entry.SetField(col, record[i]); err != nil {
				return nil, atLine(err, line)
			}
		}
		if err := entry.Validate(); err != nil {
			return nil, atLine(err, line)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseHeader(header []string) ([]string, error) {
	known := map[string]bool{}
	for _, col := range models.Columns() {
		known[col] = true
	}

	seen := map[string]bool{}
	columns := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		col := normalizeHeader(h)
		if !known[col] {
			return nil, &models.ValidationError{Line: 1, Field: h, Reason: "unknown column"}
		}
		if seen[col] {
			return nil, &models.ValidationError{Line: 1, Field: col, Reason: "duplicate column"}
		}
		seen[col] = true
		columns[i] = col
	}
	return columns, nil
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

func atLine(err error, line int) error {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		out := *verr
		out.Line = line
		return &out
	}
	return err
}

func csvError(err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return &models.ValidationError{Line: perr.Line, Reason: perr.Err.Error()}
	}
	return fmt.Errorf("read csv: %w", err)
}
