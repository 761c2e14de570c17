package rpc

import (
	"encoding/json"
	"time"

	"github.com/LeJamon/carbond/internal/core/ledger/service"
	"github.com/LeJamon/carbond/internal/core/tx"
)

// LedgerCloseEvent is sent to "ledger" stream subscribers
type LedgerCloseEvent struct {
	Type             string `json:"type"` // always "ledgerClosed"
	LedgerHash       string `json:"ledger_hash"`
	LedgerIndex      uint32 `json:"ledger_index"`
	LedgerTime       int64  `json:"ledger_time"` // unix seconds
	TxnCount         int    `json:"txn_count"`
	ValidatedLedgers string `json:"validated_ledgers"`
	Validated        bool   `json:"validated"`
}

// NewLedgerCloseEvent builds a stream message from a closed ledger
func NewLedgerCloseEvent(info *service.LedgerInfo, txnCount int, validatedLedgers string) *LedgerCloseEvent {
	return &LedgerCloseEvent{
		Type:             "ledgerClosed",
		LedgerHash:       service.FormatHash(info.Hash),
		LedgerIndex:      info.Sequence,
		LedgerTime:       info.CloseTime.Unix(),
		TxnCount:         txnCount,
		ValidatedLedgers: validatedLedgers,
		Validated:        info.Validated,
	}
}

// TransactionEvent is sent to "transactions" stream subscribers
type TransactionEvent struct {
	Type                string          `json:"type"` // always "transaction"
	EngineResult        string          `json:"engine_result"`
	EngineResultCode    int             `json:"engine_result_code"`
	EngineResultMessage string          `json:"engine_result_message"`
	LedgerHash          string          `json:"ledger_hash"`
	LedgerIndex         uint32          `json:"ledger_index"`
	CloseTime           int64           `json:"close_time"`
	Meta                json.RawMessage `json:"meta,omitempty"`
	Transaction         json.RawMessage `json:"transaction"`
	Hash                string          `json:"hash"`
	Validated           bool            `json:"validated"`
}

// NewTransactionEvent builds a stream message for one ledger transaction
func NewTransactionEvent(info service.TransactionInfo, result service.TxResult, ledgerSeq uint32, ledgerHash [32]byte, closeTime time.Time) *TransactionEvent {
	ev := &TransactionEvent{
		Type:         "transaction",
		EngineResult: result.ResultCode,
		LedgerHash:   service.FormatHash(ledgerHash),
		LedgerIndex:  ledgerSeq,
		CloseTime:    closeTime.Unix(),
		Hash:         service.FormatHash(info.Hash),
		Validated:    true,
		Transaction:  json.RawMessage(info.TxJSON),
	}
	if len(ev.Transaction) == 0 {
		ev.Transaction = json.RawMessage("null")
	}
	if len(result.Metadata) > 0 {
		ev.Meta = json.RawMessage(result.Metadata)
	}
	if r, ok := tx.ResultFromString(result.ResultCode); ok {
		ev.EngineResultCode = int(r)
		ev.EngineResultMessage = r.Message()
	}
	return ev
}
