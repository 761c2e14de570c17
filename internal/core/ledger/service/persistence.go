package service

import (
	"context"
	"fmt"

	"github.com/LeJamon/carbond/internal/core/ledger"
	"github.com/LeJamon/carbond/internal/storage/relationaldb"
)

// persistLedger writes a closed ledger to the configured storage backends.
func (s *Service) persistLedger(l *ledger.Ledger) error {
	ctx := context.Background()

	if s.config.NodeStore != nil {
		if err := s.config.NodeStore.StoreLedger(ctx, l); err != nil {
			return fmt.Errorf("node store: %w", err)
		}
	}

	if s.config.RelationalDB != nil {
		if err := s.persistToRelationalDB(ctx, l); err != nil {
			return fmt.Errorf("relational db: %w", err)
		}
	}
	return nil
}

func (s *Service) persistToRelationalDB(ctx context.Context, l *ledger.Ledger) error {
	h := l.Header()
	if err := s.config.RelationalDB.SaveLedger(ctx, relationaldb.LedgerRecord{
		Seq:        h.LedgerIndex,
		Hash:       formatHash(h.Hash),
		ParentHash: formatHash(h.ParentHash),
		CloseTime:  h.CloseTime,
		TxCount:    h.TxCount,
	}); err != nil {
		return err
	}

	txs := l.Transactions()
	recs := make([]relationaldb.TxRecord, len(txs))
	for i, txe := range txs {
		recs[i] = relationaldb.TxRecord{
			Hash:      formatHash(txe.Hash),
			LedgerSeq: h.LedgerIndex,
			TxIndex:   txe.Index,
			TxType:    txe.Type,
			Account:   txe.Account,
			Result:    txe.Result,
			TxJSON:    string(txe.Blob),
			MetaJSON:  string(txe.Meta),
		}
	}
	return s.config.RelationalDB.SaveTransactions(ctx, recs)
}
