// Package service owns the ledger lifecycle: the open ledger that accepts
// transactions, the closed and validated history, persistence, and the
// credit queries served to RPC and gRPC.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/LeJamon/carbond/internal/core/ledger"
	"github.com/LeJamon/carbond/internal/core/ledger/entry"
	"github.com/LeJamon/carbond/internal/core/ledger/manager"
	"github.com/LeJamon/carbond/internal/core/principal"
	"github.com/LeJamon/carbond/internal/core/tx"
	_ "github.com/LeJamon/carbond/internal/core/tx/all"
	"github.com/LeJamon/carbond/internal/storage/relationaldb"
)

// Common errors
var (
	ErrNotStandalone   = errors.New("operation only valid in standalone mode")
	ErrNotStarted      = errors.New("ledger service not started")
	ErrAlreadyStarted  = errors.New("ledger service already started")
	ErrLedgerNotFound  = errors.New("ledger not found")
	ErrTxNotFound      = errors.New("transaction not found")
	ErrNoHistory       = errors.New("transaction history not available (no database configured)")
	ErrInvalidAdmin    = errors.New("admin principal is invalid")
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned by GetCreditPrice for an issuer with no record.
	ErrNotFound = fmt.Errorf("issuance record: %w", tx.ErrNotFound)
)

// Clock supplies ledger close times.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// LedgerStore persists closed ledgers and rebuilds them on demand.
type LedgerStore interface {
	StoreLedger(ctx context.Context, l *ledger.Ledger) error
	FetchLedger(ctx context.Context, seq uint32) (*ledger.Ledger, error)

	// LatestLedgerSeq reports the highest stored sequence; ok is false for
	// an empty store.
	LatestLedgerSeq(ctx context.Context) (seq uint32, ok bool, err error)
}

// HistoryStore indexes ledgers and transactions for lookup.
type HistoryStore interface {
	SaveLedger(ctx context.Context, rec relationaldb.LedgerRecord) error
	SaveTransactions(ctx context.Context, recs []relationaldb.TxRecord) error
	GetTransaction(ctx context.Context, hash string) (*relationaldb.TxRecord, error)
	GetAccountTransactions(ctx context.Context, account string, limit int) ([]relationaldb.TxRecord, error)
}

// Recorder receives ledger activity counters.
type Recorder interface {
	TransactionApplied(txType, result string)
	LedgerClosed(seq uint32, totals entry.Totals)
}

// Config holds configuration for the ledger service
type Config struct {
	// Admin may add issuers and validators
	Admin principal.Principal

	// Standalone allows manual ledger_accept
	Standalone bool

	RequireSignatures  bool
	DefaultCreditPrice uint64
	MaxLabelLength     int

	// HistorySize is the number of closed ledgers kept in memory
	HistorySize int

	// NodeStore and RelationalDB are optional
	NodeStore    LedgerStore
	RelationalDB HistoryStore

	Clock Clock
}

// DefaultConfig returns a standalone, in-memory configuration.
// Admin must still be set.
func DefaultConfig() Config {
	return Config{
		Standalone:     true,
		MaxLabelLength: tx.DefaultMaxLabelLength,
		HistorySize:    manager.DefaultCacheSize,
	}
}

type options struct {
	logger   *slog.Logger
	recorder Recorder
}

// Option configures a Service.
type Option func(*options)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(o *options) { o.recorder = r }
}

type txLocation struct {
	LedgerSeq uint32
	Index     uint32
}

// Service manages the ledger lifecycle. A single write lock serializes all
// transaction application and ledger closes.
type Service struct {
	mu sync.RWMutex

	config   Config
	logger   *slog.Logger
	recorder Recorder
	clock    Clock

	cache     *manager.LedgerCache
	publisher *EventPublisher

	genesisLedger   *ledger.Ledger
	openLedger      *ledger.Ledger
	closedLedger    *ledger.Ledger
	validatedLedger *ledger.Ledger

	// tx hash -> location, for ledgers closed by this process and the open one
	txIndex map[[32]byte]txLocation

	startedAt time.Time
}

// New creates a new ledger service. Call Start before use.
func New(cfg Config, opts ...Option) (*Service, error) {
	if err := cfg.Admin.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAdmin, err)
	}

	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	cache, err := manager.NewLedgerCache(manager.LedgerCacheConfig{MaxRecentLedgers: cfg.HistorySize})
	if err != nil {
		return nil, err
	}

	clock := cfg.Clock
	if clock == nil {
		clock = systemClock{}
	}

	return &Service{
		config:    cfg,
		logger:    o.logger.With("component", "ledger"),
		recorder:  o.recorder,
		clock:     clock,
		cache:     cache,
		publisher: NewEventPublisher(),
		txIndex:   make(map[[32]byte]txLocation),
	}, nil
}

// Start opens the ledger after the last one in the node store. With no
// stored ledger it creates genesis and opens ledger 2.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.openLedger != nil {
		return ErrAlreadyStarted
	}

	now := s.clock.Now()
	last, restored, err := s.loadLastLedger()
	if err != nil {
		return err
	}
	if !restored {
		last, err = ledger.NewGenesis(now)
		if err != nil {
			return fmt.Errorf("failed to create genesis ledger: %w", err)
		}
		if err := s.persistLedger(last); err != nil {
			s.logger.Warn("genesis ledger not persisted", "error", err)
		}
	}
	if last.Sequence() == ledger.GenesisSequence {
		s.genesisLedger = last
	}

	s.closedLedger = last
	s.validatedLedger = last
	s.cache.Put(last)

	openLedger, err := ledger.NewOpen(last, now)
	if err != nil {
		return fmt.Errorf("failed to create open ledger: %w", err)
	}
	s.openLedger = openLedger
	s.startedAt = now

	s.logger.Info("ledger service started",
		"restored", restored,
		"last_closed", last.Sequence(),
		"last_hash", formatHash(last.Hash()),
		"open_ledger", openLedger.Sequence(),
		"admin", s.config.Admin,
		"standalone", s.config.Standalone,
	)
	return nil
}

// loadLastLedger rebuilds the highest ledger held by the node store. A store
// that has ledgers but cannot produce the last one is an error, so the node
// never starts a new chain over persisted history.
func (s *Service) loadLastLedger() (*ledger.Ledger, bool, error) {
	if s.config.NodeStore == nil {
		return nil, false, nil
	}
	ctx := context.Background()

	seq, ok, err := s.config.NodeStore.LatestLedgerSeq(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read ledger index: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	l, err := s.config.NodeStore.FetchLedger(ctx, seq)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load ledger %d: %w", seq, err)
	}
	if seq != ledger.GenesisSequence {
		if g, err := s.config.NodeStore.FetchLedger(ctx, ledger.GenesisSequence); err == nil {
			s.genesisLedger = g
		}
	}
	return l, true, nil
}

// SetEventHooks installs the callbacks used to publish ledger events.
func (s *Service) SetEventHooks(hooks *EventHooks) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publisher.SetEventHooks(hooks)
}

func (s *Service) IsStandalone() bool {
	return s.config.Standalone
}

// RequiresSignatures reports whether transactions must be signed by their
// account. When false the Account field is taken as given.
func (s *Service) RequiresSignatures() bool {
	return s.config.RequireSignatures
}

// Admin returns the configured admin principal.
func (s *Service) Admin() principal.Principal {
	return s.config.Admin
}

func (s *Service) engineConfig() tx.EngineConfig {
	return tx.EngineConfig{
		Admin:              s.config.Admin,
		RequireSignatures:  s.config.RequireSignatures,
		DefaultCreditPrice: s.config.DefaultCreditPrice,
		MaxLabelLength:     s.config.MaxLabelLength,
		LedgerSequence:     s.openLedger.Sequence(),
	}
}

// GetOpenLedger returns the current open ledger
func (s *Service) GetOpenLedger() *ledger.Ledger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.openLedger
}

// GetClosedLedger returns the last closed ledger
func (s *Service) GetClosedLedger() *ledger.Ledger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closedLedger
}

// GetValidatedLedger returns the highest validated ledger
func (s *Service) GetValidatedLedger() *ledger.Ledger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validatedLedger
}

// GetCurrentLedgerIndex returns the open ledger sequence, or 0 before Start.
func (s *Service) GetCurrentLedgerIndex() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.openLedger == nil {
		return 0
	}
	return s.openLedger.Sequence()
}

// GetValidatedLedgerIndex returns the highest validated sequence, or 0 before Start.
func (s *Service) GetValidatedLedgerIndex() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.validatedLedger == nil {
		return 0
	}
	return s.validatedLedger.Sequence()
}

// AcceptLedger closes the open ledger and opens the next one, like the
// ledger_accept admin command. Only valid in standalone mode.
func (s *Service) AcceptLedger() (uint32, error) {
	if !s.config.Standalone {
		return 0, ErrNotStandalone
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acceptLocked()
}

// RunCloseLoop closes a ledger every interval until ctx is done. It is how
// a non-standalone node makes progress.
func (s *Service) RunCloseLoop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.mu.Lock()
			_, err := s.acceptLocked()
			s.mu.Unlock()
			if err != nil {
				s.logger.Error("ledger close failed", "error", err)
			}
		}
	}
}

func (s *Service) acceptLocked() (uint32, error) {
	if s.openLedger == nil {
		return 0, ErrNotStarted
	}

	closing := s.openLedger
	closeTime := s.clock.Now()
	if err := closing.Close(closeTime); err != nil {
		return 0, fmt.Errorf("failed to close ledger: %w", err)
	}
	// standalone: a closed ledger is immediately validated
	if err := closing.SetValidated(); err != nil {
		return 0, fmt.Errorf("failed to validate ledger: %w", err)
	}

	newOpen, err := ledger.NewOpen(closing, closeTime)
	if err != nil {
		return 0, fmt.Errorf("failed to create new open ledger: %w", err)
	}

	seq := closing.Sequence()
	s.closedLedger = closing
	s.validatedLedger = closing
	s.openLedger = newOpen
	s.cache.Put(closing)

	totals, _ := readTotals(closing)
	if s.recorder != nil {
		s.recorder.LedgerClosed(seq, totals)
	}

	s.logger.Info("ledger closed",
		"seq", seq,
		"hash", formatHash(closing.Hash()),
		"tx_count", closing.TxCount(),
		"issued", totals.Issued,
		"retired", totals.Retired,
	)

	s.publishClosed(closing)

	if err := s.persistLedger(closing); err != nil {
		s.logger.Error("ledger persistence failed", "seq", seq, "error", err)
		return seq, fmt.Errorf("ledger %d accepted but not persisted: %w", seq, err)
	}
	return seq, nil
}

func (s *Service) publishClosed(l *ledger.Ledger) {
	if !s.publisher.HasSubscribers() {
		return
	}
	info := ledgerInfo(l)
	txs := l.Transactions()
	s.publisher.PublishLedgerClosed(info, len(txs), s.cache.CompleteLedgers())
	for _, txe := range txs {
		s.publisher.PublishTransaction(TransactionInfo{
			Hash:            txe.Hash,
			TransactionType: txe.Type,
			Account:         txe.Account,
			TxJSON:          txe.Blob,
		}, TxResult{
			ResultCode: txe.Result,
			Metadata:   txe.Meta,
			TxIndex:    txe.Index,
		}, info.Sequence, info.Hash, info.CloseTime)
	}
}

// ServerInfo contains basic server status information
type ServerInfo struct {
	Standalone          bool
	RequireSignatures   bool
	Admin               principal.Principal
	OpenLedgerSeq       uint32
	ClosedLedgerSeq     uint32
	ClosedLedgerHash    [32]byte
	ValidatedLedgerSeq  uint32
	ValidatedLedgerHash [32]byte
	CompleteLedgers     string
	Uptime              time.Duration
	Cache               manager.CacheStats
}

// GetServerInfo returns basic server information
func (s *Service) GetServerInfo() ServerInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info := ServerInfo{
		Standalone:        s.config.Standalone,
		RequireSignatures: s.config.RequireSignatures,
		Admin:             s.config.Admin,
		CompleteLedgers:   s.cache.CompleteLedgers(),
		Cache:             s.cache.Stats(),
	}
	if s.openLedger != nil {
		info.OpenLedgerSeq = s.openLedger.Sequence()
		info.Uptime = s.clock.Now().Sub(s.startedAt)
	}
	if s.closedLedger != nil {
		info.ClosedLedgerSeq = s.closedLedger.Sequence()
		info.ClosedLedgerHash = s.closedLedger.Hash()
	}
	if s.validatedLedger != nil {
		info.ValidatedLedgerSeq = s.validatedLedger.Sequence()
		info.ValidatedLedgerHash = s.validatedLedger.Hash()
	}
	return info
}
