package models

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditStatus_IsValid(t *testing.T) {
	for _, s := range []AuditStatus{"", "Pending", "Approved", "Rejected"} {
		assert.True(t, s.IsValid(), "status %q", s)
	}
	for _, s := range []AuditStatus{"approved", "Done", " Pending"} {
		assert.False(t, s.IsValid(), "status %q", s)
	}
}

func TestOvertimeEntry_Validate(t *testing.T) {
	tests := []struct {
		name  string
		entry OvertimeEntry
		field string
	}{
		{"zero hours ok", OvertimeEntry{}, ""},
		{"approved ok", OvertimeEntry{Hours: 2.5, AuditStatus: AuditStatusApproved}, ""},
		{"negative hours", OvertimeEntry{Hours: -1}, ColHours},
		{"nan hours", OvertimeEntry{Hours: math.NaN()}, ColHours},
		{"bad status", OvertimeEntry{AuditStatus: "Maybe"}, ColAuditStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestOvertimeEntry_FieldRoundTrip(t *testing.T) {
	src := OvertimeEntry{
		ID:                  7,
		Date:                "2024-03-01",
		WeekStart:           "2024-02-26",
		WeekEnd:             "2024-03-03",
		EmployeeID:          "E042",
		Name:                "Sam Lee",
		Department:          "Ops",
		RosterGroup:         "B",
		OvertimeType:        OvertimeTypePlanned,
		Hours:               0.1,
		Depot:               "North",
		Notes:               "late train",
		ReviewedBy:          "Kim",
		AuditStatus:         AuditStatusPending,
		DiscrepancyComments: "none",
	}

	var dst OvertimeEntry
	for _, col := range Columns() {
		require.NoError(t, dst.SetField(col, src.Field(col)))
	}

	want := src
	want.ID = 0
	assert.Equal(t, want, dst)
}

func TestOvertimeEntry_SetFieldUnknownColumn(t *testing.T) {
	var e OvertimeEntry
	err := e.SetField("overtime_rate", "1.5")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "overtime_rate", verr.Field)
}

func TestParseHours(t *testing.T) {
	h, err := ParseHours(" 3.25 ")
	require.NoError(t, err)
	assert.Equal(t, 3.25, h)

	for _, bad := range []string{"", "abc", "-0.5", "NaN", "Inf"} {
		_, err := ParseHours(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestErrors(t *testing.T) {
	cause := errors.New("database is locked")
	err := error(&StorageError{Op: "insert", Err: cause})
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "storage: insert: database is locked", err.Error())

	verr := &ValidationError{Line: 3, Field: ColHours, Reason: "is required"}
	assert.Equal(t, "validation: line 3: hours: is required", verr.Error())
}

func TestOvertimeEntry_NormalizeLineEndings(t *testing.T) {
	e := OvertimeEntry{
		Notes:               "line1\r\nline2",
		DiscrepancyComments: "a\rb\nc",
		Name:                "plain",
	}
	e.NormalizeLineEndings()
	assert.Equal(t, "line1\nline2", e.Notes)
	assert.Equal(t, "a\nb\nc", e.DiscrepancyComments)
	assert.Equal(t, "plain", e.Name)
}
