package testing

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/LeJamon/carbond/internal/core/ledger/service"
	"github.com/LeJamon/carbond/internal/core/principal"
	"github.com/LeJamon/carbond/internal/core/tx"
)

// closeInterval is how far Close moves the clock, matching a default node.
const closeInterval = 5 * time.Second

// TestEnv manages a test ledger environment for transaction testing.
// It runs a real ledger service over in-memory state, with an admin account,
// deterministic wallets and a manual clock.
type TestEnv struct {
	t        *testing.T
	svc      *service.Service
	clock    *ManualClock
	admin    *Account
	accounts map[string]*Account
	byAddr   map[principal.Principal]*Account
	signed   bool
}

// Option customizes a TestEnv.
type Option func(*envConfig)

type envConfig struct {
	svc    service.Config
	logger *slog.Logger
	opts   []service.Option
}

// WithSignatures makes the ledger require signed, sequenced transactions.
// The env signs everything it submits with the key of the caller's account.
func WithSignatures() Option {
	return func(c *envConfig) { c.svc.RequireSignatures = true }
}

// WithDefaultCreditPrice sets the price of an issuance that declares none.
func WithDefaultCreditPrice(price uint64) Option {
	return func(c *envConfig) { c.svc.DefaultCreditPrice = price }
}

// WithMaxLabelLength bounds project labels.
func WithMaxLabelLength(n int) Option {
	return func(c *envConfig) { c.svc.MaxLabelLength = n }
}

// WithLedgerStore persists closed ledgers to store.
func WithLedgerStore(store service.LedgerStore) Option {
	return func(c *envConfig) { c.svc.NodeStore = store }
}

// WithLogger routes service logs to logger. Logs are discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *envConfig) { c.logger = logger }
}

// WithRecorder attaches a metrics recorder to the service.
func WithRecorder(r service.Recorder) Option {
	return func(c *envConfig) { c.opts = append(c.opts, service.WithRecorder(r)) }
}

// NewTestEnv creates a started standalone ledger whose admin is AdminAccount.
func NewTestEnv(t *testing.T, opts ...Option) *TestEnv {
	t.Helper()

	admin := AdminAccount()
	clock := NewManualClock()

	cfg := envConfig{
		svc:    service.DefaultConfig(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	cfg.svc.Admin = admin.Principal
	cfg.svc.Clock = clock
	for _, opt := range opts {
		opt(&cfg)
	}

	svcOpts := append([]service.Option{service.WithLogger(cfg.logger)}, cfg.opts...)
	svc, err := service.New(cfg.svc, svcOpts...)
	if err != nil {
		t.Fatalf("Failed to create ledger service: %v", err)
	}
	if err := svc.Start(); err != nil {
		t.Fatalf("Failed to start ledger service: %v", err)
	}

	env := &TestEnv{
		t:        t,
		svc:      svc,
		clock:    clock,
		admin:    admin,
		accounts: make(map[string]*Account),
		byAddr:   make(map[principal.Principal]*Account),
		signed:   cfg.svc.RequireSignatures,
	}
	env.register(admin)
	return env
}

func (e *TestEnv) register(acc *Account) *Account {
	e.accounts[acc.Name] = acc
	e.byAddr[acc.Principal] = acc
	return acc
}

// Service returns the ledger service under test.
func (e *TestEnv) Service() *service.Service {
	return e.svc
}

// Deployer returns the admin account the ledger was started with.
func (e *TestEnv) Deployer() *Account {
	return e.admin
}

// Account returns the named account, creating it on first use.
func (e *TestEnv) Account(name string) *Account {
	if acc, ok := e.accounts[name]; ok {
		return acc
	}
	return e.register(NewAccount(name))
}

// Wallet returns the n-th anonymous test account.
func (e *TestEnv) Wallet(n int) *Account {
	return e.Account(fmt.Sprintf("wallet%d", n))
}

// Submit applies a transaction to the open ledger and returns its result.
// Infrastructure errors fail the test.
func (e *TestEnv) Submit(t tx.Transaction) TxResult {
	e.t.Helper()

	if e.signed {
		e.sign(t)
	}
	r, err := e.svc.Submit(t)
	if err != nil {
		e.t.Fatalf("Submit %s: %v", t.TxType(), err)
	}
	return newTxResult(r)
}

// sign fills the next sequence and signs with the caller's key. Calls from
// principals the env does not know go out unsigned.
func (e *TestEnv) sign(t tx.Transaction) {
	e.t.Helper()

	common := t.GetCommon()
	acc, ok := e.byAddr[common.Account]
	if !ok {
		return
	}
	if common.Sequence == 0 {
		common.Sequence = e.Sequence(acc)
	}
	if err := acc.Sign(t); err != nil {
		e.t.Fatalf("Sign %s: %v", t.TxType(), err)
	}
}

// Block is the outcome of MineBlock.
type Block struct {
	Index   uint32
	Hash    [32]byte
	Results []TxResult
}

// Applied returns the number of successful calls in the block.
func (b Block) Applied() int {
	n := 0
	for _, r := range b.Results {
		if r.Success {
			n++
		}
	}
	return n
}

// MineBlock applies txs in order, each seeing the effects of the ones before
// it, then closes the ledger holding them.
func (e *TestEnv) MineBlock(txs ...tx.Transaction) Block {
	e.t.Helper()

	if e.signed {
		// the ledger only advances a sequence once the previous call applies,
		// so sign per caller in submission order
		next := make(map[principal.Principal]uint32)
		for _, t := range txs {
			common := t.GetCommon()
			acc, ok := e.byAddr[common.Account]
			if !ok {
				continue
			}
			if common.Sequence == 0 {
				seq, seen := next[acc.Principal]
				if !seen {
					seq = e.Sequence(acc)
				}
				common.Sequence = seq
				next[acc.Principal] = seq + 1
			}
			if err := acc.Sign(t); err != nil {
				e.t.Fatalf("Sign %s: %v", t.TxType(), err)
			}
		}
	}

	e.clock.Advance(closeInterval)
	out, err := e.svc.SubmitBatch(txs)
	if err != nil {
		e.t.Fatalf("SubmitBatch: %v", err)
	}

	block := Block{Index: out.LedgerIndex, Hash: out.LedgerHash}
	for _, r := range out.Results {
		block.Results = append(block.Results, newTxResult(r))
	}
	return block
}

// Close closes the open ledger and returns its index.
func (e *TestEnv) Close() uint32 {
	e.t.Helper()

	e.clock.Advance(closeInterval)
	seq, err := e.svc.AcceptLedger()
	if err != nil {
		e.t.Fatalf("Failed to close ledger: %v", err)
	}
	return seq
}

// LedgerIndex returns the index of the open ledger.
func (e *TestEnv) LedgerIndex() uint32 {
	return e.svc.GetCurrentLedgerIndex()
}

// ValidatedIndex returns the index of the last validated ledger.
func (e *TestEnv) ValidatedIndex() uint32 {
	return e.svc.GetValidatedLedgerIndex()
}

// Balance returns the credit balance of acc.
func (e *TestEnv) Balance(acc *Account) uint64 {
	e.t.Helper()

	b, err := e.svc.GetCreditBalance(acc.Principal)
	if err != nil {
		e.t.Fatalf("Failed to read balance of %s: %v", acc.Name, err)
	}
	return b
}

// Retired returns the total of credits retired so far.
func (e *TestEnv) Retired() uint64 {
	e.t.Helper()

	r, err := e.svc.GetTotalCreditsRetired()
	if err != nil {
		e.t.Fatalf("Failed to read retired total: %v", err)
	}
	return r
}

// Issued returns the total of credits ever issued.
func (e *TestEnv) Issued() uint64 {
	e.t.Helper()

	totals, err := e.svc.GetTotals()
	if err != nil {
		e.t.Fatalf("Failed to read totals: %v", err)
	}
	return totals.Issued
}

// IssuerData returns the issuance record of acc, nil if it has none.
func (e *TestEnv) IssuerData(acc *Account) *service.IssuerData {
	e.t.Helper()

	data, err := e.svc.GetIssuerData(acc.Principal)
	if err != nil {
		e.t.Fatalf("Failed to read issuer data of %s: %v", acc.Name, err)
	}
	return data
}

// Price returns the credit price of acc's issuance. ok is false when acc
// has no issuance record.
func (e *TestEnv) Price(acc *Account) (price uint64, ok bool) {
	e.t.Helper()

	price, err := e.svc.GetCreditPrice(acc.Principal)
	if errors.Is(err, tx.ErrNotFound) {
		return 0, false
	}
	if err != nil {
		e.t.Fatalf("Failed to read price of %s: %v", acc.Name, err)
	}
	return price, true
}

// Info returns the account summary of acc.
func (e *TestEnv) Info(acc *Account) *service.AccountInfo {
	e.t.Helper()

	info, err := e.svc.GetAccountInfo(acc.Principal)
	if err != nil {
		e.t.Fatalf("Failed to read account info of %s: %v", acc.Name, err)
	}
	return info
}

// Sequence returns the next sequence acc must use.
func (e *TestEnv) Sequence(acc *Account) uint32 {
	return e.Info(acc).Sequence
}

// IsIssuer reports whether acc is in the issuer registry.
func (e *TestEnv) IsIssuer(acc *Account) bool {
	return e.Info(acc).IsIssuer
}

// IsValidator reports whether acc is in the validator registry.
func (e *TestEnv) IsValidator(acc *Account) bool {
	return e.Info(acc).IsValidator
}

// Now returns the current test time.
func (e *TestEnv) Now() time.Time {
	return e.clock.Now()
}

// AdvanceTime moves the test clock forward.
func (e *TestEnv) AdvanceTime(d time.Duration) {
	e.clock.Advance(d)
}
