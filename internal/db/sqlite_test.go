package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenSQLite_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")

	database, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	defer database.Close()

	require.FileExists(t, path)
}

func TestMigrateSQLite(t *testing.T) {
	database, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, MigrateSQLite(database))
	// Segunda corrida: sin cambios, sin error.
	require.NoError(t, MigrateSQLite(database))

	_, err = database.Exec(
		`INSERT INTO item (short_description, category, value, incoming, date_event) VALUES (?, ?, ?, ?, ?)`,
		"Coffee", 1, 450, false, int64(1709625600000),
	)
	require.NoError(t, err)

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM item`).Scan(&count))
	require.Equal(t, 1, count)
}

func TestMigrateSQLite_DescriptionBound(t *testing.T) {
	database, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	defer database.Close()
	require.NoError(t, MigrateSQLite(database))

	long := make([]byte, 129)
	for i := range long {
		long[i] = 'x'
	}

	_, err = database.Exec(
		`INSERT INTO item (short_description, category, value, date_event) VALUES (?, ?, ?, ?)`,
		string(long), 1, 1, int64(0),
	)
	require.Error(t, err)
}
