package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateRunsFilesInOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"users", "seats", "reservations", "sessions"} {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS " + table).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateStopsOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnError(errors.New("boom"))

	err = Migrate(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "001_users.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDSN(t *testing.T) {
	dsn := DSN("app", "secret", "db", "3306", "seats")
	assert.Contains(t, dsn, "app:secret@tcp(db:3306)/seats")
	assert.Contains(t, dsn, "parseTime=true")
}

func TestNormalizeDSNForcesTimeParsing(t *testing.T) {
	cases := []string{
		"u:p@tcp(h:3306)/db",
		"u:p@tcp(h:3306)/db?parseTime=false&loc=Local",
		"u:p@tcp(h:3306)/db?timeout=3s",
	}
	for _, in := range cases {
		out, err := NormalizeDSN(in)
		require.NoError(t, err, in)

		cfg, err := mysql.ParseDSN(out)
		require.NoError(t, err, out)
		assert.True(t, cfg.ParseTime, in)
		assert.Equal(t, time.UTC, cfg.Loc, in)
		assert.Equal(t, "h:3306", cfg.Addr, in)
		assert.Equal(t, "db", cfg.DBName, in)
	}

	out, err := NormalizeDSN("u:p@tcp(h:3306)/db?timeout=3s")
	require.NoError(t, err)
	cfg, err := mysql.ParseDSN(out)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.Timeout, "other options survive")
}

func TestNormalizeDSNRejectsGarbage(t *testing.T) {
	_, err := NormalizeDSN("not a dsn")
	assert.Error(t, err)
}
