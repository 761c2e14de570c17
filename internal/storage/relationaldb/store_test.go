package relationaldb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), Config{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "history.db"),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLedgerRows(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	closeTime := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rec := LedgerRecord{Seq: 2, Hash: "AA", ParentHash: "BB", CloseTime: closeTime, TxCount: 3}
	require.NoError(t, s.SaveLedger(ctx, rec))

	got, err := s.GetLedgerBySeq(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, rec, *got)

	rec.Hash = "CC"
	require.NoError(t, s.SaveLedger(ctx, rec))
	got, err = s.GetLedgerBySeq(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "CC", got.Hash)

	_, err = s.GetLedgerBySeq(ctx, 9)
	assert.ErrorIs(t, err, ErrLedgerNotFound)
}

func TestTransactionRows(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	recs := []TxRecord{
		{Hash: "01", LedgerSeq: 2, TxIndex: 0, TxType: "IssueCredits", Account: "alice", Result: "tesSUCCESS", TxJSON: "{}", MetaJSON: "{}"},
		{Hash: "02", LedgerSeq: 2, TxIndex: 1, TxType: "RetireCredits", Account: "alice", Result: "tesSUCCESS", TxJSON: "{}", MetaJSON: "{}"},
		{Hash: "03", LedgerSeq: 3, TxIndex: 0, TxType: "TransferCredits", Account: "bob", Result: "tesSUCCESS", TxJSON: "{}", MetaJSON: "{}"},
	}
	require.NoError(t, s.SaveTransactions(ctx, recs))
	// re-saving is a no-op
	require.NoError(t, s.SaveTransactions(ctx, recs[:1]))

	got, err := s.GetTransaction(ctx, "02")
	require.NoError(t, err)
	assert.Equal(t, recs[1], *got)

	_, err = s.GetTransaction(ctx, "FF")
	assert.ErrorIs(t, err, ErrTransactionNotFound)

	list, err := s.GetAccountTransactions(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "02", list[0].Hash)
	assert.Equal(t, "01", list[1].Hash)

	list, err = s.GetAccountTransactions(ctx, "alice", 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestClosedStore(t *testing.T) {
	s := openSQLite(t)
	require.NoError(t, s.Close())
	_, err := s.GetTransaction(context.Background(), "01")
	assert.ErrorIs(t, err, ErrDatabaseClosed)
}

func TestRebind(t *testing.T) {
	pg := &Store{driver: DriverPostgres}
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2", pg.rebind("SELECT a FROM t WHERE x = ? AND y = ?"))

	lite := &Store{driver: DriverSQLite}
	assert.Equal(t, "x = ?", lite.rebind("x = ?"))
}

func TestConfig(t *testing.T) {
	assert.ErrorIs(t, Config{Driver: "mysql"}.Validate(), ErrInvalidDriver)
	assert.ErrorIs(t, Config{Driver: "sqlite"}.Validate(), ErrMissingDatabase)
	assert.ErrorIs(t, Config{Driver: "postgres", Name: "carbon"}.Validate(), ErrMissingHost)
	assert.NoError(t, Config{Driver: "postgres", DSN: "postgres://x"}.Validate())
	assert.False(t, Config{}.Enabled())

	dsn, err := Config{Driver: "postgresql", Host: "db", Port: 5433, Name: "carbon", User: "u", Password: "p"}.ConnectionString()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5433/carbon?application_name=carbond&sslmode=disable", dsn)
}
