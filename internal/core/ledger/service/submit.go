package service

import (
	"fmt"

	"github.com/LeJamon/carbond/internal/core/ledger"
	"github.com/LeJamon/carbond/internal/core/ledger/entry"
	"github.com/LeJamon/carbond/internal/core/ledger/keylet"
	"github.com/LeJamon/carbond/internal/core/principal"
	"github.com/LeJamon/carbond/internal/core/tx"
)

// SubmitResult contains the result of submitting a transaction
type SubmitResult struct {
	Result  tx.Result
	Applied bool
	Hash    [32]byte
	Message string

	// Metadata is set for applied transactions only
	Metadata *tx.Metadata

	// LedgerIndex is the open ledger the transaction was applied to
	LedgerIndex uint32

	// TxIndex is the position within that ledger, for applied transactions
	TxIndex uint32

	TxJSON   []byte
	MetaJSON []byte
}

// Err returns the domain error of a rejected transaction, nil on success.
func (r *SubmitResult) Err() error {
	return r.Result.Err()
}

// BatchResult is the outcome of SubmitBatch: per-call results plus the
// ledger that was closed over them.
type BatchResult struct {
	Results      []*SubmitResult
	AppliedCount int
	FailedCount  int
	LedgerIndex  uint32
	LedgerHash   [32]byte
}

// Submit applies a transaction to the open ledger. A rejected transaction
// leaves the ledger untouched; its result code says why.
func (s *Service) Submit(t tx.Transaction) (*SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.openLedger == nil {
		return nil, ErrNotStarted
	}
	return s.submitLocked(t)
}

// SubmitBatch applies txs in order to the open ledger, each seeing the
// effects of the ones before it, then closes the ledger. A failed call does
// not abort the batch. Closing on demand is a standalone operation, like
// AcceptLedger.
//
// If a call cannot be processed at all, the batch stops there: the calls
// before it stay in the open ledger, the ledger is not closed, and the
// returned BatchResult holds their results alongside the error.
func (s *Service) SubmitBatch(txs []tx.Transaction) (*BatchResult, error) {
	if !s.config.Standalone {
		return nil, ErrNotStandalone
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.openLedger == nil {
		return nil, ErrNotStarted
	}

	out := &BatchResult{Results: make([]*SubmitResult, 0, len(txs))}
	for i, t := range txs {
		r, err := s.submitLocked(t)
		if err != nil {
			return out, fmt.Errorf("batch call %d (%s): %w", i, t.TxType(), err)
		}
		out.Results = append(out.Results, r)
		if r.Applied {
			out.AppliedCount++
		} else {
			out.FailedCount++
		}
	}

	closing := s.openLedger
	seq, err := s.acceptLocked()
	if seq != 0 {
		out.LedgerIndex = seq
		out.LedgerHash = closing.Hash()
	}
	return out, err
}

func (s *Service) submitLocked(t tx.Transaction) (*SubmitResult, error) {
	seq := s.openLedger.Sequence()
	s.autofillSequence(t)
	engine := tx.NewEngine(s.openLedger, s.engineConfig())
	bp := tx.NewBlockProcessorAt(engine, uint32(s.openLedger.TxCount()))

	r, err := bp.ApplyTransaction(t)
	if err != nil {
		return nil, err
	}

	res := &SubmitResult{
		Result:      r.ApplyResult.Result,
		Applied:     r.ApplyResult.Applied,
		Hash:        r.Hash,
		Message:     r.ApplyResult.Message,
		Metadata:    r.ApplyResult.Metadata,
		LedgerIndex: seq,
		TxJSON:      r.TxJSON,
		MetaJSON:    r.MetaJSON,
	}

	txType := t.TxType().String()
	if s.recorder != nil {
		s.recorder.TransactionApplied(txType, res.Result.String())
	}

	if !res.Applied {
		s.logger.Debug("transaction rejected",
			"type", txType,
			"account", t.GetCommon().Account,
			"result", res.Result.String(),
		)
		return res, nil
	}

	res.TxIndex = r.Index
	if err := s.openLedger.AddTransaction(ledger.TxEntry{
		Hash:    r.Hash,
		Type:    txType,
		Account: string(t.GetCommon().Account),
		Result:  res.Result.String(),
		Blob:    r.TxJSON,
		Meta:    r.MetaJSON,
	}); err != nil {
		return nil, err
	}
	s.txIndex[r.Hash] = txLocation{LedgerSeq: seq, Index: r.Index}

	s.logger.Debug("transaction applied",
		"type", txType,
		"account", t.GetCommon().Account,
		"hash", formatHash(r.Hash),
		"ledger", seq,
	)
	return res, nil
}

// autofillSequence gives an unsigned transaction without a sequence the
// caller's next one, so repeated identical calls hash differently.
func (s *Service) autofillSequence(t tx.Transaction) {
	common := t.GetCommon()
	if s.config.RequireSignatures || common.Sequence != 0 {
		return
	}
	id, err := principal.Decode(common.Account)
	if err != nil {
		return
	}
	acct, err := tx.ReadEntry[entry.AccountRoot](s.openLedger, keylet.Account(id))
	if err != nil {
		return
	}
	common.Sequence = 1
	if acct != nil {
		common.Sequence = acct.Sequence
	}
}
