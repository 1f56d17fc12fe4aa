package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-billing-api/pkg/config"
)

func TestOpenSQLiteFileAndEnsureSchemaTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "schools.db")
	db, err := Open(config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: path})
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, EnsureSchema(ctx, db))
	require.NoError(t, EnsureSchema(ctx, db))

	var tables []string
	require.NoError(t, db.SelectContext(ctx, &tables, "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"))
	assert.Equal(t, []string{"invoices", "payments", "school_students", "schools", "students"}, tables)

	var fk int
	require.NoError(t, db.GetContext(ctx, &fk, "PRAGMA foreign_keys"))
	assert.Equal(t, 1, fk)
}

func TestRebindUsesQuestionMarksForSQLite(t *testing.T) {
	db, err := NewSQLite(config.DatabaseConfig{SQLitePath: ":memory:"})
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, "SELECT 1 WHERE 1 = ?", db.Rebind("SELECT 1 WHERE 1 = ?"))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "mysql"})
	require.Error(t, err)

	_, err = NewSQLite(config.DatabaseConfig{})
	require.Error(t, err)
}
