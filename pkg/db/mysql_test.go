package db

import (
	"context"
	"errors"
	"testing"

	"github.com/ahwlsqja/ts-pass-claims/internal/repository/db"
	"github.com/ahwlsqja/ts-pass-claims/internal/repository/db/schema"
	"github.com/stretchr/testify/require"
)

func TestMySQLDSN(t *testing.T) {
	cfg := Config{Driver: "mysql", Host: "db", Port: 3306, User: "app", Password: "pw", Name: "claims"}
	require.Equal(t, "app:pw@tcp(db:3306)/claims?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true", cfg.DSN())
}

func TestSQLiteDSN(t *testing.T) {
	require.Equal(t, ":memory:", Config{Driver: schema.DriverSQLite}.DSN())
	require.Equal(t, "/tmp/c.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)",
		Config{Driver: schema.DriverSQLite, SQLitePath: "/tmp/c.db"}.DSN())
}

func TestTxRunnerCommitsAndRollsBack(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := New(ctx, Config{Driver: schema.DriverSQLite})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, Ping(ctx, sqlDB))

	runner := NewTxRunner(sqlDB)

	err = runner.WithTx(ctx, func(q *db.Queries) error {
		return q.InsertClaimNonce(ctx, db.InsertClaimNonceParams{WalletAddress: "0xa", CreatedAt: 1, UpdatedAt: 1})
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = runner.WithTx(ctx, func(q *db.Queries) error {
		if err := q.InsertClaimNonce(ctx, db.InsertClaimNonceParams{WalletAddress: "0xb", CreatedAt: 1, UpdatedAt: 1}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = runner.Queries().GetClaimByWallet(ctx, "0xa")
	require.NoError(t, err)
	_, err = runner.Queries().GetClaimByWallet(ctx, "0xb")
	require.Error(t, err, "rolled back insert must not be visible")
}
