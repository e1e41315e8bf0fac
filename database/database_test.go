package database

import (
	"path/filepath"
	"testing"

	"overtime-audit/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overtime.db")
	db, err := Open(&config.Config{DatabasePath: path, EntriesTable: "overtime_entries"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
	assert.FileExists(t, path)
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "file:data/ot.db?_busy_timeout=5000&_foreign_keys=on", sqliteDSN("data/ot.db"))
}
