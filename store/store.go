// Package store persists overtime entries in a single table and owns its
// schema.
package store

import (
	"context"
	"fmt"

	"overtime-audit/models"

	"gorm.io/gorm"
)

type Store struct {
	db    *gorm.DB
	table string
}

// New returns a Store over the given table. The table name comes from
// configuration and is never taken from user input.
func New(db *gorm.DB, table string) *Store {
	return &Store{db: db, table: table}
}

// Table returns the configured table name.
func (s *Store) Table() string {
	return s.table
}

func (s *Store) entries(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table(s.table)
}

// EnsureSchema creates the entries table when it does not exist yet. Safe to
// call on every start.
func (s *Store) EnsureSchema(ctx context.Context) error {
	m := s.entries(ctx).Migrator()
	if m.HasTable(s.table) {
		return nil
	}
	if err := m.CreateTable(&models.OvertimeEntry{}); err != nil {
		return &models.StorageError{Op: "ensure schema", Err: err}
	}
	return nil
}

// Insert appends entry and returns its newly assigned entry_id. Any ID set on
// the argument is ignored. Line endings in text fields are stored as LF.
func (s *Store) Insert(ctx context.Context, entry models.OvertimeEntry) (uint, error) {
	return insert(s.entries(ctx), entry)
}

func insert(tx *gorm.DB, entry models.OvertimeEntry) (uint, error) {
	entry.ID = 0
	entry.NormalizeLineEndings()
	if err := entry.Validate(); err != nil {
		return 0, err
	}
	if err := tx.Create(&entry).Error; err != nil {
		return 0, &models.StorageError{Op: "insert", Err: err}
	}
	return entry.ID, nil
}

// InsertAll appends every entry inside one transaction. Either all rows are
// stored or none are.
func (s *Store) InsertAll(ctx context.Context, entries []models.OvertimeEntry) (int, error) {
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return 0, err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, entry := range entries {
			if _, err := insert(tx.Table(s.table), entry); err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// FetchAll returns every entry in insertion order. A non-empty department
// restricts the result to rows with exactly that department. An empty
// department means no filter, so rows with an empty department cannot be
// selected on their own.
func (s *Store) FetchAll(ctx context.Context, department string) ([]models.OvertimeEntry, error) {
	query := s.entries(ctx)
	if department != "" {
		query = query.Where(models.ColDepartment+" = ?", department)
	}

	entries := []models.OvertimeEntry{}
	if err := query.Order(models.ColEntryID + " asc").Find(&entries).Error; err != nil {
		return nil, &models.StorageError{Op: "fetch", Err: err}
	}
	return entries, nil
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.entries(ctx).Count(&n).Error; err != nil {
		return 0, &models.StorageError{Op: "count", Err: err}
	}
	return n, nil
}

// UpdateAuditStatus sets audit_status on the entry with the given id. An id
// that does not exist is silently ignored.
func (s *Store) UpdateAuditStatus(ctx context.Context, id uint, status models.AuditStatus) error {
	if !status.IsValid() {
		return &models.ValidationError{Field: models.ColAuditStatus, Reason: fmt.Sprintf("unknown status %q", status)}
	}
	err := s.entries(ctx).
		Where(models.ColEntryID+" = ?", id).
		Update(models.ColAuditStatus, string(status)).Error
	if err != nil {
		return &models.StorageError{Op: "update audit status", Err: err}
	}
	return nil
}

// DeleteByID removes the entry with the given id. An id that does not exist
// is silently ignored.
func (s *Store) DeleteByID(ctx context.Context, id uint) error {
	err := s.entries(ctx).
		Where(models.ColEntryID+" = ?", id).
		Delete(&models.OvertimeEntry{}).Error
	if err != nil {
		return &models.StorageError{Op: "delete", Err: err}
	}
	return nil
}
