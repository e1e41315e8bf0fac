package models

import (
	"fmt"
	"math"
	"strings"
)

type AuditStatus string

const (
	AuditStatusUnset    AuditStatus = ""
	AuditStatusPending  AuditStatus = "Pending"
	AuditStatusApproved AuditStatus = "Approved"
	AuditStatusRejected AuditStatus = "Rejected"
)

func (s AuditStatus) IsValid() bool {
	switch s {
	case AuditStatusUnset, AuditStatusPending, AuditStatusApproved, AuditStatusRejected:
		return true
	}
	return false
}

const (
	OvertimeTypePlanned   = "Planned"
	OvertimeTypeUnplanned = "Unplanned"
)

// OvertimeEntry is one submitted overtime record. Field order matches the
// table and CSV column order.
type OvertimeEntry struct {
	ID                  uint        `gorm:"column:entry_id;primaryKey;autoIncrement" json:"entry_id"`
	Date                string      `gorm:"column:date" json:"date"`
	WeekStart           string      `gorm:"column:week_start" json:"week_start"`
	WeekEnd             string      `gorm:"column:week_end" json:"week_end"`
	EmployeeID          string      `gorm:"column:employee_id" json:"employee_id"`
	Name                string      `gorm:"column:name" json:"name"`
	Department          string      `gorm:"column:department" json:"department"`
	RosterGroup         string      `gorm:"column:roster_group" json:"roster_group"`
	OvertimeType        string      `gorm:"column:overtime_type" json:"overtime_type"`
	Hours               float64     `gorm:"column:hours;not null;check:hours >= 0" json:"hours"`
	Depot               string      `gorm:"column:depot" json:"depot"`
	Notes               string      `gorm:"column:notes" json:"notes"`
	ReviewedBy          string      `gorm:"column:reviewed_by" json:"reviewed_by"`
	AuditStatus         AuditStatus `gorm:"column:audit_status" json:"audit_status"`
	DiscrepancyComments string      `gorm:"column:discrepancy_comments" json:"discrepancy_comments"`
}

// Column names in table order.
const (
	ColEntryID             = "entry_id"
	ColDate                = "date"
	ColWeekStart           = "week_start"
	ColWeekEnd             = "week_end"
	ColEmployeeID          = "employee_id"
	ColName                = "name"
	ColDepartment          = "department"
	ColRosterGroup         = "roster_group"
	ColOvertimeType        = "overtime_type"
	ColHours               = "hours"
	ColDepot               = "depot"
	ColNotes               = "notes"
	ColReviewedBy          = "reviewed_by"
	ColAuditStatus         = "audit_status"
	ColDiscrepancyComments = "discrepancy_comments"
)

// Columns returns the persisted column layout, entry_id first.
func Columns() []string {
	return []string{
		ColEntryID, ColDate, ColWeekStart, ColWeekEnd, ColEmployeeID, ColName,
		ColDepartment, ColRosterGroup, ColOvertimeType, ColHours, ColDepot,
		ColNotes, ColReviewedBy, ColAuditStatus, ColDiscrepancyComments,
	}
}

// Validate checks the invariants that hold for every stored entry.
func (e *OvertimeEntry) Validate() error {
	if math.IsNaN(e.Hours) || math.IsInf(e.Hours, 0) {
		return &ValidationError{Field: ColHours, Reason: "must be a finite number"}
	}
	if e.Hours < 0 {
		return &ValidationError{Field: ColHours, Reason: fmt.Sprintf("must not be negative, got %v", e.Hours)}
	}
	if !e.AuditStatus.IsValid() {
		return &ValidationError{Field: ColAuditStatus, Reason: fmt.Sprintf("unknown status %q", e.AuditStatus)}
	}
	return nil
}

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// NormalizeLineEndings rewrites CRLF and lone CR in every text field to LF.
// Stored entries only ever carry LF, which CSV reads back unchanged.
func (e *OvertimeEntry) NormalizeLineEndings() {
	for _, f := range []*string{
		&e.Date, &e.WeekStart, &e.WeekEnd, &e.EmployeeID, &e.Name,
		&e.Department, &e.RosterGroup, &e.OvertimeType, &e.Depot,
		&e.Notes, &e.ReviewedBy, &e.DiscrepancyComments,
	} {
		*f = lineEndings.Replace(*f)
	}
}

// Field returns the text form of the named column, as written to CSV.
func (e *OvertimeEntry) Field(column string) string {
	switch column {
	case ColEntryID:
		return fmt.Sprint(e.ID)
	case ColDate:
		return e.Date
	case ColWeekStart:
		return e.WeekStart
	case ColWeekEnd:
		return e.WeekEnd
	case ColEmployeeID:
		return e.EmployeeID
	case ColName:
		return e.Name
	case ColDepartment:
		return e.Department
	case ColRosterGroup:
		return e.RosterGroup
	case ColOvertimeType:
		return e.OvertimeType
	case ColHours:
		return FormatHours(e.Hours)
	case ColDepot:
		return e.Depot
	case ColNotes:
		return e.Notes
	case ColReviewedBy:
		return e.ReviewedBy
	case ColAuditStatus:
		return string(e.AuditStatus)
	case ColDiscrepancyComments:
		return e.DiscrepancyComments
	}
	return ""
}

// SetField assigns a text value to the named column, coercing hours and
// audit status. entry_id is ignored.
func (e *OvertimeEntry) SetField(column, value string) error {
	switch column {
	case ColEntryID:
	case ColDate:
		e.Date = value
	case ColWeekStart:
		e.WeekStart = value
	case ColWeekEnd:
		e.WeekEnd = value
	case ColEmployeeID:
		e.EmployeeID = value
	case ColName:
		e.Name = value
	case ColDepartment:
		e.Department = value
	case ColRosterGroup:
		e.RosterGroup = value
	case ColOvertimeType:
		e.OvertimeType = value
	case ColHours:
		hours, err := ParseHours(value)
		if err != nil {
			return err
		}
		e.Hours = hours
	case ColDepot:
		e.Depot = value
	case ColNotes:
		e.Notes = value
	case ColReviewedBy:
		e.ReviewedBy = value
	case ColAuditStatus:
		e.AuditStatus = AuditStatus(value)
	case ColDiscrepancyComments:
		e.DiscrepancyComments = value
	default:
		return &ValidationError{Field: column, Reason: "unknown column"}
	}
	return nil
}
