package transfer

import (
	"context"
	"fmt"
	"io"

	"overtime-audit/models"
	"overtime-audit/report"

	"github.com/xuri/excelize/v2"
)

const (
	SheetEntries      = "Entries"
	SheetByDepartment = "By Department"
	SheetByDate       = "By Date"
	SheetStatus       = "Audit Status"
	SheetPivot        = "Department x Status"
)

// ExportXLSX writes a workbook with the entries (optionally restricted to one
// department) and one sheet per summary view.
func (t *Transfer) ExportXLSX(ctx context.Context, w io.Writer, department string) error {
	entries, err := t.store.FetchAll(ctx, department)
	if err != nil {
		return err
	}
	return WriteXLSX(w, entries)
}

func WriteXLSX(w io.Writer, entries []models.OvertimeEntry) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx style: %w", err)
	}
	if err := f.SetSheetName("Sheet1", SheetEntries); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	summary := report.Aggregate(entries)
	sheets := []struct {
		name string
		rows [][]interface{}
	}{
		{SheetEntries, entryRows(entries)},
		{SheetByDepartment, departmentRows(summary.ByDepartment)},
		{SheetByDate, dateRows(summary.ByDate)},
		{SheetStatus, statusRows(summary.StatusCounts)},
		{SheetPivot, pivotRows(summary.Pivot)},
	}

	for _, sheet := range sheets {
		if sheet.name != SheetEntries {
			if _, err := f.NewSheet(sheet.name); err != nil {
				return fmt.Errorf("xlsx sheet %s: %w", sheet.name, err)
			}
		}
		if err := writeRows(f, sheet.name, sheet.rows); err != nil {
			return err
		}
		if len(sheet.rows) > 0 {
			last, err := excelize.CoordinatesToCellName(len(sheet.rows[0]), 1)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet.name, "A1", last, header); err != nil {
				return fmt.Errorf("xlsx header style: %w", err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func entryRows(entries []models.OvertimeEntry) [][]interface{} {
	columns := models.Columns()
	rows := make([][]interface{}, 0, len(entries)+1)

	head := make([]interface{}, len(columns))
	for i, col := range columns {
		head[i] = col
	}
	rows = append(rows, head)

	for i := range entries {
		row := make([]interface{}, len(columns))
		for j, col := range columns {
			switch col {
			case models.ColEntryID:
				row[j] = entries[i].ID
			case models.ColHours:
				row[j] = entries[i].Hours
			default:
				row[j] = entries[i].Field(col)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func departmentRows(totals []report.DepartmentTotal) [][]interface{} {
	rows := [][]interface{}{{"department", "hours"}}
	for _, d := range totals {
		rows = append(rows, []interface{}{d.Department, d.Hours})
	}
	return rows
}

func dateRows(totals []report.DateTotal) [][]interface{} {
	rows := [][]interface{}{{"date", "hours"}}
	for _, d := range totals {
		rows = append(rows, []interface{}{d.Date, d.Hours})
	}
	return rows
}

func statusRows(counts []report.StatusCount) [][]interface{} {
	rows := [][]interface{}{{"audit_status", "count"}}
	for _, c := range counts {
		rows = append(rows, []interface{}{string(c.Status), c.Count})
	}
	return rows
}

func pivotRows(p report.Pivot) [][]interface{} {
	head := []interface{}{"department"}
	for _, s := range p.Statuses {
		label := string(s)
		if label == "" {
			label = "(unset)"
		}
		head = append(head, label)
	}
	rows := [][]interface{}{head}
	for _, dept := range p.Departments {
		row := []interface{}{dept}
		for _, s := range p.Statuses {
			row = append(row, p.Hours(dept, s))
		}
		rows = append(rows, row)
	}
	return rows
}
