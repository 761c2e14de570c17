package service

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/LeJamon/carbond/internal/core/ledger"
)

// EventHooks allows external systems to subscribe to ledger events without
// the ledger service depending on their types.
type EventHooks struct {
	// OnLedgerClosed is called when a ledger is closed and validated.
	// validatedLedgers is the complete range, e.g. "1-100".
	OnLedgerClosed func(info *LedgerInfo, txCount int, validatedLedgers string)

	// OnTransaction is called for each transaction of a closed ledger.
	OnTransaction func(tx TransactionInfo, result TxResult, ledgerSeq uint32, ledgerHash [32]byte, closeTime time.Time)
}

// TransactionInfo contains transaction details for event broadcasting.
type TransactionInfo struct {
	Hash            [32]byte
	TransactionType string
	Account         string
	TxJSON          []byte
}

// TxResult contains the outcome of a published transaction.
type TxResult struct {
	ResultCode string
	Metadata   []byte
	TxIndex    uint32
}

// LedgerInfo contains information about a ledger
type LedgerInfo struct {
	Sequence   uint32
	Hash       [32]byte
	ParentHash [32]byte
	StateHash  [32]byte
	TxHash     [32]byte
	CloseTime  time.Time
	TxCount    uint32
	Closed     bool
	Validated  bool
}

func ledgerInfo(l *ledger.Ledger) *LedgerInfo {
	h := l.Header()
	return &LedgerInfo{
		Sequence:   h.LedgerIndex,
		Hash:       h.Hash,
		ParentHash: h.ParentHash,
		StateHash:  h.StateHash,
		TxHash:     h.TxHash,
		CloseTime:  h.CloseTime,
		TxCount:    uint32(l.TxCount()),
		Closed:     l.IsClosed(),
		Validated:  l.IsValidated(),
	}
}

// EventPublisher dispatches events to hooks on their own goroutines so a
// slow subscriber never holds the ledger lock.
type EventPublisher struct {
	hooks *EventHooks
}

func NewEventPublisher() *EventPublisher {
	return &EventPublisher{}
}

func (p *EventPublisher) SetEventHooks(hooks *EventHooks) {
	p.hooks = hooks
}

// HasSubscribers returns true if any hook is installed.
func (p *EventPublisher) HasSubscribers() bool {
	return p.hooks != nil && (p.hooks.OnLedgerClosed != nil || p.hooks.OnTransaction != nil)
}

func (p *EventPublisher) PublishLedgerClosed(info *LedgerInfo, txCount int, validatedLedgers string) {
	if p.hooks != nil && p.hooks.OnLedgerClosed != nil {
		go p.hooks.OnLedgerClosed(info, txCount, validatedLedgers)
	}
}

func (p *EventPublisher) PublishTransaction(info TransactionInfo, result TxResult, ledgerSeq uint32, ledgerHash [32]byte, closeTime time.Time) {
	if p.hooks != nil && p.hooks.OnTransaction != nil {
		go p.hooks.OnTransaction(info, result, ledgerSeq, ledgerHash, closeTime)
	}
}

func formatHash(hash [32]byte) string {
	return strings.ToUpper(hex.EncodeToString(hash[:]))
}
