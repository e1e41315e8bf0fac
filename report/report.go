// Package report derives the summary views shown on the review screens. All
// functions are pure transforms of the entries they are given.
package report

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"overtime-audit/models"

	"github.com/shopspring/decimal"
)

type DepartmentTotal struct {
	Department string  `json:"department"`
	Hours      float64 `json:"hours"`
}

type DateTotal struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

type StatusCount struct {
	Status models.AuditStatus `json:"audit_status"`
	Count  int                `json:"count"`
}

// Pivot is hours by department (rows) and audit status (columns). Every
// department/status pair has a cell; pairs without entries hold 0.
type Pivot struct {
	Departments []string                                  `json:"departments"`
	Statuses    []models.AuditStatus                      `json:"statuses"`
	Cells       map[string]map[models.AuditStatus]float64 `json:"cells"`
}

// Hours returns the cell for department and status.
func (p Pivot) Hours(department string, status models.AuditStatus) float64 {
	return p.Cells[department][status]
}

type Summary struct {
	TotalHours   float64           `json:"total_hours"`
	EntryCount   int               `json:"entry_count"`
	ByDepartment []DepartmentTotal `json:"by_department"`
	ByDate       []DateTotal       `json:"by_date"`
	StatusCounts []StatusCount     `json:"status_counts"`
	Pivot        Pivot             `json:"pivot"`
}

// Aggregate computes every view over entries.
func Aggregate(entries []models.OvertimeEntry) Summary {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(decimal.NewFromFloat(e.Hours))
	}
	return Summary{
		TotalHours:   total.InexactFloat64(),
		EntryCount:   len(entries),
		ByDepartment: SumByDepartment(entries),
		ByDate:       SumByDate(entries),
		StatusCounts: StatusCounts(entries),
		Pivot:        PivotByDepartmentStatus(entries),
	}
}

// SumByDepartment totals hours per department, sorted by department. Only
// departments that appear in entries are returned.
func SumByDepartment(entries []models.OvertimeEntry) []DepartmentTotal {
	sums := map[string]decimal.Decimal{}
	for _, e := range entries {
		sums[e.Department] = sums[e.Department].Add(decimal.NewFromFloat(e.Hours))
	}

	out := make([]DepartmentTotal, 0, len(sums))
	for dept, sum := range sums {
		out = append(out, DepartmentTotal{Department: dept, Hours: sum.InexactFloat64()})
	}
	slices.SortFunc(out, func(a, b DepartmentTotal) int {
		return strings.Compare(a.Department, b.Department)
	})
	return out
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseDate parses the date formats entries are stored with.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// SumByDate totals hours per calendar date in ascending order. Entries whose
// date does not parse are left out.
func SumByDate(entries []models.OvertimeEntry) []DateTotal {
	sums := map[time.Time]decimal.Decimal{}
	for _, e := range entries {
		day, ok := ParseDate(e.Date)
		if !ok {
			continue
		}
		sums[day] = sums[day].Add(decimal.NewFromFloat(e.Hours))
	}

	days := make([]time.Time, 0, len(sums))
	for day := range sums {
		days = append(days, day)
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })

	out := make([]DateTotal, 0, len(days))
	for _, day := range days {
		out = append(out, DateTotal{Date: day.Format("2006-01-02"), Hours: sums[day].InexactFloat64()})
	}
	return out
}

// StatusCounts counts entries per audit status, the unset status included,
// most frequent first.
func StatusCounts(entries []models.OvertimeEntry) []StatusCount {
	counts := map[models.AuditStatus]int{}
	for _, e := range entries {
		counts[e.AuditStatus]++
	}

	out := make([]StatusCount, 0, len(counts))
	for status, n := range counts {
		out = append(out, StatusCount{Status: status, Count: n})
	}
	slices.SortFunc(out, func(a, b StatusCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(string(a.Status), string(b.Status))
	})
	return out
}

// PivotByDepartmentStatus sums hours for each department and status pair.
func PivotByDepartmentStatus(entries []models.OvertimeEntry) Pivot {
	sums := map[string]map[models.AuditStatus]decimal.Decimal{}
	statusSet := map[models.AuditStatus]struct{}{}
	for _, e := range entries {
		row, ok := sums[e.Department]
		if !ok {
			row = map[models.AuditStatus]decimal.Decimal{}
			sums[e.Department] = row
		}
		row[e.AuditStatus] = row[e.AuditStatus].Add(decimal.NewFromFloat(e.Hours))
		statusSet[e.AuditStatus] = struct{}{}
	}

	p := Pivot{
		Departments: make([]string, 0, len(sums)),
		Statuses:    make([]models.AuditStatus, 0, len(statusSet)),
		Cells:       make(map[string]map[models.AuditStatus]float64, len(sums)),
	}
	for dept := range sums {
		p.Departments = append(p.Departments, dept)
	}
	for status := range statusSet {
		p.Statuses = append(p.Statuses, status)
	}
	slices.Sort(p.Departments)
	slices.Sort(p.Statuses)

	for _, dept := range p.Departments {
		row := make(map[models.AuditStatus]float64, len(p.Statuses))
		for _, status := range p.Statuses {
			row[status] = sums[dept][status].InexactFloat64()
		}
		p.Cells[dept] = row
	}
	return p
}
