// Package relationaldb keeps queryable ledger and transaction history in
// SQLite or PostgreSQL.
package relationaldb

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	_ "modernc.org/sqlite"
)

// LedgerRecord is one row of the ledgers table.
type LedgerRecord struct {
	Seq        uint32
	Hash       string
	ParentHash string
	CloseTime  time.Time
	TxCount    uint32
}

// TxRecord is one row of the transactions table.
type TxRecord struct {
	Hash      string
	LedgerSeq uint32
	TxIndex   uint32
	TxType    string
	Account   string
	Result    string
	TxJSON    string
	MetaJSON  string
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS ledgers (
		seq         BIGINT PRIMARY KEY,
		hash        TEXT NOT NULL,
		parent_hash TEXT NOT NULL,
		close_time  BIGINT NOT NULL,
		tx_count    INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		hash       TEXT PRIMARY KEY,
		ledger_seq BIGINT NOT NULL,
		tx_index   INTEGER NOT NULL,
		tx_type    TEXT NOT NULL,
		account    TEXT NOT NULL,
		result     TEXT NOT NULL,
		tx_json    TEXT NOT NULL,
		meta_json  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions (account, ledger_seq)`,
}

// Store is the SQL-backed history store shared by both drivers.
type Store struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
}

// Open connects, pings and creates the schema if needed.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, wrap("open", err)
	}
	driver, _ := cfg.normalizedDriver()
	dsn, err := cfg.ConnectionString()
	if err != nil {
		return nil, wrap("open", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, wrap("open", err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, wrap("ping", err)
	}

	s := &Store{db: db, driver: driver, logger: logger.With("component", "relationaldb", "driver", driver)}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, wrap("init schema", err)
		}
	}
	s.logger.Info("history database ready")
	return s, nil
}

// rebind rewrites ? placeholders as $1, $2... for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) handle() (*sql.DB, error) {
	if s.db == nil {
		return nil, ErrDatabaseClosed
	}
	return s.db, nil
}

// SaveLedger inserts or replaces a ledger row.
func (s *Store) SaveLedger(ctx context.Context, rec LedgerRecord) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, s.rebind(`
		INSERT INTO ledgers (seq, hash, parent_hash, close_time, tx_count)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (seq) DO UPDATE SET
			hash = excluded.hash,
			parent_hash = excluded.parent_hash,
			close_time = excluded.close_time,
			tx_count = excluded.tx_count`),
		int64(rec.Seq), rec.Hash, rec.ParentHash, rec.CloseTime.Unix(), int64(rec.TxCount))
	return wrap("save ledger", err)
}

// SaveTransactions writes all records in one SQL transaction.
func (s *Store) SaveTransactions(ctx context.Context, recs []TxRecord) error {
	if len(recs) == 0 {
		return nil
	}
	db, err := s.handle()
	if err != nil {
		return err
	}

	sqlTx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return wrap("begin", err)
	}
	defer sqlTx.Rollback()

	stmt, err := sqlTx.PrepareContext(ctx, s.rebind(`
		INSERT INTO transactions (hash, ledger_seq, tx_index, tx_type, account, result, tx_json, meta_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (hash) DO NOTHING`))
	if err != nil {
		return wrap("prepare", err)
	}
	defer stmt.Close()

	for _, r := range recs {
		if _, err := stmt.ExecContext(ctx, r.Hash, int64(r.LedgerSeq), int64(r.TxIndex),
			r.TxType, r.Account, r.Result, r.TxJSON, r.MetaJSON); err != nil {
			return wrap("save transaction", err)
		}
	}
	return wrap("commit", sqlTx.Commit())
}

const txColumns = `hash, ledger_seq, tx_index, tx_type, account, result, tx_json, meta_json`

func scanTx(row interface{ Scan(...any) error }) (*TxRecord, error) {
	var (
		r        TxRecord
		seq, idx int64
	)
	if err := row.Scan(&r.Hash, &seq, &idx, &r.TxType, &r.Account, &r.Result, &r.TxJSON, &r.MetaJSON); err != nil {
		return nil, err
	}
	r.LedgerSeq = uint32(seq)
	r.TxIndex = uint32(idx)
	return &r, nil
}

// GetTransaction looks a transaction up by upper-case hex hash.
func (s *Store) GetTransaction(ctx context.Context, hash string) (*TxRecord, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}
	row := db.QueryRowContext(ctx, s.rebind(`SELECT `+txColumns+` FROM transactions WHERE hash = ?`), hash)
	rec, err := scanTx(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, wrap("get transaction", err)
	}
	return rec, nil
}

// GetAccountTransactions returns the newest transactions sent by account.
func (s *Store) GetAccountTransactions(ctx context.Context, account string, limit int) ([]TxRecord, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 200
	}
	rows, err := db.QueryContext(ctx, s.rebind(`SELECT `+txColumns+` FROM transactions
		WHERE account = ? ORDER BY ledger_seq DESC, tx_index DESC LIMIT ?`), account, limit)
	if err != nil {
		return nil, wrap("account transactions", err)
	}
	defer rows.Close()

	var out []TxRecord
	for rows.Next() {
		rec, err := scanTx(rows)
		if err != nil {
			return nil, wrap("account transactions", err)
		}
		out = append(out, *rec)
	}
	return out, wrap("account transactions", rows.Err())
}

// GetLedgerBySeq returns the ledger row with the given sequence.
func (s *Store) GetLedgerBySeq(ctx context.Context, seq uint32) (*LedgerRecord, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}
	var (
		rec           LedgerRecord
		rowSeq, count int64
		closeTime     int64
	)
	err = db.QueryRowContext(ctx, s.rebind(`SELECT seq, hash, parent_hash, close_time, tx_count FROM ledgers WHERE seq = ?`), int64(seq)).
		Scan(&rowSeq, &rec.Hash, &rec.ParentHash, &closeTime, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLedgerNotFound
	}
	if err != nil {
		return nil, wrap("get ledger", err)
	}
	rec.Seq = uint32(rowSeq)
	rec.TxCount = uint32(count)
	rec.CloseTime = time.Unix(closeTime, 0).UTC()
	return &rec, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return wrap("close", err)
}
