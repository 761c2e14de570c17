package nodestore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/LeJamon/carbond/internal/core/ledger"
	"github.com/LeJamon/carbond/internal/core/ledger/entry"
	"github.com/LeJamon/carbond/internal/core/ledger/header"
	"github.com/LeJamon/carbond/internal/storage/keyValueDb"
)

var ErrLedgerNotClosed = errors.New("only closed ledgers can be stored")

type stateRef struct {
	Key  [32]byte `codec:"k"`
	Hash [32]byte `codec:"h"`
}

type ledgerNode struct {
	Header []byte     `codec:"header"`
	State  []stateRef `codec:"state"`
	Txs    [][32]byte `codec:"txs"`
}

type txNode struct {
	Index   uint32 `codec:"index"`
	Type    string `codec:"type"`
	Account string `codec:"account"`
	Result  string `codec:"result"`
	Blob    []byte `codec:"blob"`
	Meta    []byte `codec:"meta"`
}

// StoreLedger writes a closed ledger: one node per state entry and
// transaction, the ledger node, and the sequence index, in one batch.
func (d *DatabaseImpl) StoreLedger(ctx context.Context, l *ledger.Ledger) error {
	if !l.IsClosed() {
		return ErrLedgerNotClosed
	}
	h := l.Header()

	var nodes []*Node
	ln := ledgerNode{Header: h.Serialize()}

	if err := l.ForEach(func(key [32]byte, data []byte) bool {
		n := NewStateNode(data, h.LedgerIndex)
		nodes = append(nodes, n)
		ln.State = append(ln.State, stateRef{Key: key, Hash: n.Hash})
		return true
	}); err != nil {
		return err
	}

	for _, txe := range l.Transactions() {
		data, err := entry.Marshal(&txNode{
			Index:   txe.Index,
			Type:    txe.Type,
			Account: txe.Account,
			Result:  txe.Result,
			Blob:    txe.Blob,
			Meta:    txe.Meta,
		})
		if err != nil {
			return err
		}
		nodes = append(nodes, &Node{Type: NodeTransaction, Hash: txe.Hash, Data: data, LedgerSeq: h.LedgerIndex})
		ln.Txs = append(ln.Txs, txe.Hash)
	}

	data, err := entry.Marshal(&ln)
	if err != nil {
		return err
	}
	nodes = append(nodes, &Node{Type: NodeLedger, Hash: h.Hash, Data: data, LedgerSeq: h.LedgerIndex})

	return d.writeBatch(ctx, nodes, []keyValueDb.BatchOperation{
		keyValueDb.Put(indexKey(h.LedgerIndex), h.Hash[:]),
	})
}

// LedgerHash returns the hash of the stored ledger with the given sequence.
func (d *DatabaseImpl) LedgerHash(ctx context.Context, seq uint32) ([32]byte, error) {
	var hash [32]byte
	raw, err := d.backend.Read(ctx, indexKey(seq))
	if err != nil {
		if errors.Is(err, keyValueDb.ErrKeyNotFound) {
			return hash, ErrNotFound
		}
		return hash, err
	}
	if len(raw) != len(hash) {
		return hash, ErrDataCorrupt
	}
	copy(hash[:], raw)
	return hash, nil
}

// LatestLedgerSeq returns the highest sequence in the ledger index. ok is
// false when no ledger has been stored.
func (d *DatabaseImpl) LatestLedgerSeq(ctx context.Context) (seq uint32, ok bool, err error) {
	it, err := d.backend.Iterator(ctx, []byte{indexPrefix}, []byte{indexPrefix + 1})
	if err != nil {
		return 0, false, err
	}
	defer it.Close()

	for it.Next() {
		key := it.Key()
		if len(key) != 1+4 {
			return 0, false, fmt.Errorf("%w: ledger index key of length %d", ErrDataCorrupt, len(key))
		}
		if s := binary.BigEndian.Uint32(key[1:]); s >= seq {
			seq, ok = s, true
		}
	}
	if err := it.Error(); err != nil {
		return 0, false, err
	}
	return seq, ok, nil
}

// FetchLedger rebuilds a stored ledger by sequence.
func (d *DatabaseImpl) FetchLedger(ctx context.Context, seq uint32) (*ledger.Ledger, error) {
	hash, err := d.LedgerHash(ctx, seq)
	if err != nil {
		return nil, err
	}
	return d.FetchLedgerByHash(ctx, hash)
}

// FetchLedgerByHash rebuilds a stored ledger and verifies its header hash.
func (d *DatabaseImpl) FetchLedgerByHash(ctx context.Context, hash [32]byte) (*ledger.Ledger, error) {
	node, err := d.Fetch(ctx, hash)
	if err != nil {
		return nil, err
	}
	if node.Type != NodeLedger {
		return nil, fmt.Errorf("%w: %s is not a ledger node", ErrDataCorrupt, node.Type)
	}

	var ln ledgerNode
	if err := entry.Unmarshal(node.Data, &ln); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataCorrupt, err)
	}
	h, err := header.DeserializeHeader(ln.Header)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataCorrupt, err)
	}
	if h.Hash != hash {
		return nil, fmt.Errorf("%w: header hash mismatch", ErrDataCorrupt)
	}

	state := make(map[[32]byte][]byte, len(ln.State))
	for _, ref := range ln.State {
		sn, err := d.Fetch(ctx, ref.Hash)
		if err != nil {
			return nil, fmt.Errorf("state node: %w", err)
		}
		state[ref.Key] = sn.Data
	}

	txs := make([]ledger.TxEntry, 0, len(ln.Txs))
	for _, th := range ln.Txs {
		tn, err := d.Fetch(ctx, th)
		if err != nil {
			return nil, fmt.Errorf("transaction node: %w", err)
		}
		var t txNode
		if err := entry.Unmarshal(tn.Data, &t); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDataCorrupt, err)
		}
		txs = append(txs, ledger.TxEntry{
			Hash:    th,
			Index:   t.Index,
			Type:    t.Type,
			Account: t.Account,
			Result:  t.Result,
			Blob:    t.Blob,
			Meta:    t.Meta,
		})
	}

	return ledger.FromStorage(h, state, txs), nil
}
