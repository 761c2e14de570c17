package service

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/LeJamon/carbond/internal/core/ledger"
	"github.com/LeJamon/carbond/internal/core/principal"
	"github.com/LeJamon/carbond/internal/storage/relationaldb"
)

// GetLedgerBySequence returns the open ledger, a cached closed ledger, or one
// rebuilt from the node store, in that order.
func (s *Service) GetLedgerBySequence(seq uint32) (*ledger.Ledger, error) {
	s.mu.RLock()
	open := s.openLedger
	s.mu.RUnlock()

	if open == nil {
		return nil, ErrNotStarted
	}
	if seq == open.Sequence() {
		return open, nil
	}
	if seq > open.Sequence() || seq == 0 {
		return nil, ErrLedgerNotFound
	}

	if l, ok := s.cache.Get(seq); ok {
		return l, nil
	}
	if s.config.NodeStore == nil {
		return nil, ErrLedgerNotFound
	}

	l, err := s.config.NodeStore.FetchLedger(context.Background(), seq)
	if err != nil {
		s.logger.Debug("ledger not in node store", "seq", seq, "error", err)
		return nil, ErrLedgerNotFound
	}
	s.cache.Put(l)
	return l, nil
}

// GetLedgerByHash returns a cached closed ledger by hash.
func (s *Service) GetLedgerByHash(hash [32]byte) (*ledger.Ledger, error) {
	if l, ok := s.cache.GetByHash(hash); ok {
		return l, nil
	}
	return nil, ErrLedgerNotFound
}

// GetLedgerInfo returns header information for a ledger.
func (s *Service) GetLedgerInfo(seq uint32) (*LedgerInfo, error) {
	l, err := s.GetLedgerBySequence(seq)
	if err != nil {
		return nil, err
	}
	return ledgerInfo(l), nil
}

// TransactionResult contains a transaction and its metadata
type TransactionResult struct {
	Hash        [32]byte
	LedgerIndex uint32
	TxIndex     uint32
	Type        string
	Account     string
	Result      string
	TxJSON      []byte
	MetaJSON    []byte
	Validated   bool
}

// GetTransaction looks a transaction up in the in-memory index first and
// then in the history database.
func (s *Service) GetTransaction(hash [32]byte) (*TransactionResult, error) {
	s.mu.RLock()
	loc, found := s.txIndex[hash]
	openSeq := uint32(0)
	if s.openLedger != nil {
		openSeq = s.openLedger.Sequence()
	}
	s.mu.RUnlock()

	if found {
		l, err := s.GetLedgerBySequence(loc.LedgerSeq)
		if err == nil {
			for _, txe := range l.Transactions() {
				if txe.Hash == hash {
					return &TransactionResult{
						Hash:        hash,
						LedgerIndex: loc.LedgerSeq,
						TxIndex:     txe.Index,
						Type:        txe.Type,
						Account:     txe.Account,
						Result:      txe.Result,
						TxJSON:      txe.Blob,
						MetaJSON:    txe.Meta,
						Validated:   loc.LedgerSeq < openSeq,
					}, nil
				}
			}
		}
	}

	if s.config.RelationalDB == nil {
		return nil, ErrTxNotFound
	}
	rec, err := s.config.RelationalDB.GetTransaction(context.Background(), formatHash(hash))
	if errors.Is(err, relationaldb.ErrTransactionNotFound) {
		return nil, ErrTxNotFound
	}
	if err != nil {
		return nil, err
	}
	return txResultFromRecord(rec), nil
}

func txResultFromRecord(rec *relationaldb.TxRecord) *TransactionResult {
	r := &TransactionResult{
		LedgerIndex: rec.LedgerSeq,
		TxIndex:     rec.TxIndex,
		Type:        rec.TxType,
		Account:     rec.Account,
		Result:      rec.Result,
		TxJSON:      []byte(rec.TxJSON),
		MetaJSON:    []byte(rec.MetaJSON),
		Validated:   true,
	}
	if raw, err := hex.DecodeString(rec.Hash); err == nil && len(raw) == 32 {
		copy(r.Hash[:], raw)
	}
	return r
}

// GetAccountTransactions returns the newest transactions sent by account,
// from the history database.
func (s *Service) GetAccountTransactions(account principal.Principal, limit int) ([]*TransactionResult, error) {
	if _, err := decodePrincipal(account); err != nil {
		return nil, err
	}
	if s.config.RelationalDB == nil {
		return nil, ErrNoHistory
	}
	recs, err := s.config.RelationalDB.GetAccountTransactions(context.Background(), string(account), limit)
	if err != nil {
		return nil, err
	}
	out := make([]*TransactionResult, len(recs))
	for i := range recs {
		out[i] = txResultFromRecord(&recs[i])
	}
	return out, nil
}

// ParseHash decodes a 64-character hex hash.
func ParseHash(s string) ([32]byte, error) {
	var h [32]byte
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil || len(raw) != len(h) {
		return h, ErrInvalidArgument
	}
	copy(h[:], raw)
	return h, nil
}

// FormatHash renders a hash as upper-case hex.
func FormatHash(h [32]byte) string {
	return formatHash(h)
}
