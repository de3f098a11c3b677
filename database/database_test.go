package database

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dbConn, err := sqlx.Connect("sqlite3", SQLiteDSN(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbConn.Close() })
	return dbConn
}

func countRows(t *testing.T, dbConn *sqlx.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, dbConn.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

func TestMigrate_CreatesSchema(t *testing.T) {
	dbConn := openTestDB(t)

	require.NoError(t, Migrate(context.Background(), dbConn))

	var tables []string
	require.NoError(t, dbConn.Select(&tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'settings') ORDER BY name`))
	assert.Equal(t, []string{"settings", "users"}, tables)
}

func TestMigrate_IsIdempotent(t *testing.T) {
	dbConn := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, dbConn))
	_, err := dbConn.Exec(`INSERT INTO users (username, email, password) VALUES ('a', 'a@x.com', 'h')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(ctx, dbConn))
	assert.Equal(t, 1, countRows(t, dbConn, "users"), "second run must not touch data")
}

func TestMigrate_SettingsUserIDIsUnique(t *testing.T) {
	dbConn := openTestDB(t)
	require.NoError(t, Migrate(context.Background(), dbConn))

	_, err := dbConn.Exec(`INSERT INTO users (username, email, password) VALUES ('a', 'a@x.com', 'h')`)
	require.NoError(t, err)
	_, err = dbConn.Exec(`INSERT INTO settings (user_id) VALUES (1)`)
	require.NoError(t, err)
	_, err = dbConn.Exec(`INSERT INTO settings (user_id) VALUES (1)`)
	require.Error(t, err)
}

func TestMigrate_WrapsGooseError(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })
	gooseUpContext = func(ctx context.Context, _ *sql.DB, _ string, _ ...goose.OptionsFunc) error {
		return errors.New("boom")
	}

	err := Migrate(context.Background(), openTestDB(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to apply migrations")
}

func TestCreateMigration_WritesSQLFile(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, CreateMigration("add_feedback", dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), "_add_feedback.sql"))
}

func TestCreateMigration_RequiresName(t *testing.T) {
	require.Error(t, CreateMigration("", t.TempDir()))
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	dbConn := openTestDB(t)
	require.NoError(t, Migrate(context.Background(), dbConn))

	err := WithTx(context.Background(), dbConn, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO users (username, email, password) VALUES ('ok', 'ok@x.com', 'h')`)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 1, countRows(t, dbConn, "users"), "must commit on success")
}

func TestWithTx_RollbackOnFnError(t *testing.T) {
	dbConn := openTestDB(t)
	require.NoError(t, Migrate(context.Background(), dbConn))

	err := WithTx(context.Background(), dbConn, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO users (username, email, password) VALUES ('fail', 'fail@x.com', 'h')`)
		require.NoError(t, e)
		return errors.New("boom")
	})
	require.Error(t, err)
	require.Equal(t, 0, countRows(t, dbConn, "users"), "must rollback when fn returns error")
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	dbConn := openTestDB(t)
	require.NoError(t, Migrate(context.Background(), dbConn))

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		require.Equal(t, 0, countRows(t, dbConn, "users"), "must rollback on panic")
	}()

	_ = WithTx(context.Background(), dbConn, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO users (username, email, password) VALUES ('p', 'p@x.com', 'h')`)
		require.NoError(t, e)
		panic("kaput")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	dbConn := openTestDB(t)
	require.NoError(t, dbConn.Close())

	err := WithTx(context.Background(), dbConn, func(ctx context.Context, tx DBTX) error {
		return nil
	})
	require.Error(t, err, "begin should fail when DB is closed")
}
