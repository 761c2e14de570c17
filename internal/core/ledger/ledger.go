package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/LeJamon/carbond/internal/core/ledger/entry"
	"github.com/LeJamon/carbond/internal/core/ledger/header"
	"github.com/LeJamon/carbond/internal/core/ledger/keylet"
	crypto "github.com/LeJamon/carbond/internal/crypto/common"
)

var (
	ErrLedgerImmutable = errors.New("ledger is closed and cannot be modified")
	ErrLedgerNotClosed = errors.New("ledger is not closed")
	ErrEntryExists     = errors.New("ledger entry already exists")
	ErrEntryNotFound   = errors.New("ledger entry not found")
)

// GenesisSequence is the sequence number of the first ledger.
const GenesisSequence uint32 = 1

// TxEntry is a transaction recorded in a ledger together with its outcome.
type TxEntry struct {
	Hash    [32]byte
	Index   uint32
	Type    string
	Account string
	Result  string
	Blob    []byte // canonical JSON of the transaction
	Meta    []byte // JSON metadata
}

// Ledger is one version of the credit ledger state.
// An open ledger accepts modifications; a closed ledger is immutable.
type Ledger struct {
	mu sync.RWMutex

	header    header.LedgerHeader
	state     map[[32]byte][]byte
	txs       []TxEntry
	closed    bool
	validated bool
}

// NewGenesis creates the closed genesis ledger holding an empty Totals entry.
func NewGenesis(closeTime time.Time) (*Ledger, error) {
	l := &Ledger{
		header: header.LedgerHeader{LedgerIndex: GenesisSequence},
		state:  make(map[[32]byte][]byte),
	}
	data, err := entry.Marshal(&entry.Totals{})
	if err != nil {
		return nil, err
	}
	l.state[keylet.Totals().Key] = data
	if err := l.Close(closeTime); err != nil {
		return nil, err
	}
	l.validated = true
	return l, nil
}

// NewOpen creates an open ledger that succeeds the given closed parent.
func NewOpen(parent *Ledger, now time.Time) (*Ledger, error) {
	parent.mu.RLock()
	defer parent.mu.RUnlock()

	if !parent.closed {
		return nil, ErrLedgerNotClosed
	}

	state := make(map[[32]byte][]byte, len(parent.state))
	for k, v := range parent.state {
		state[k] = v
	}

	return &Ledger{
		header: header.LedgerHeader{
			LedgerIndex:     parent.header.LedgerIndex + 1,
			ParentHash:      parent.header.Hash,
			ParentCloseTime: parent.header.CloseTime,
			CloseTime:       now.UTC().Truncate(time.Second),
		},
		state: state,
	}, nil
}

// FromStorage rebuilds a closed ledger from persisted parts.
func FromStorage(h *header.LedgerHeader, state map[[32]byte][]byte, txs []TxEntry) *Ledger {
	return &Ledger{
		header:    *h,
		state:     state,
		txs:       txs,
		closed:    true,
		validated: true,
	}
}

// Read returns the entry stored under k, or nil if absent.
func (l *Ledger) Read(k keylet.Keylet) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state[k.Key], nil
}

// Exists reports whether an entry is stored under k.
func (l *Ledger) Exists(k keylet.Keylet) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.state[k.Key]
	return ok, nil
}

// Insert adds a new entry.
func (l *Ledger) Insert(k keylet.Keylet, data []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrLedgerImmutable
	}
	if _, ok := l.state[k.Key]; ok {
		return ErrEntryExists
	}
	l.state[k.Key] = data
	return nil
}

// Update replaces an existing entry.
func (l *Ledger) Update(k keylet.Keylet, data []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrLedgerImmutable
	}
	if _, ok := l.state[k.Key]; !ok {
		return ErrEntryNotFound
	}
	l.state[k.Key] = data
	return nil
}

// Erase removes an entry.
func (l *Ledger) Erase(k keylet.Keylet) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrLedgerImmutable
	}
	if _, ok := l.state[k.Key]; !ok {
		return ErrEntryNotFound
	}
	delete(l.state, k.Key)
	return nil
}

// ForEach visits every state entry in ascending key order.
// If fn returns false, iteration stops early.
func (l *Ledger) ForEach(fn func(key [32]byte, data []byte) bool) error {
	l.mu.RLock()
	keys := l.sortedKeys()
	snapshot := make([][]byte, len(keys))
	for i, k := range keys {
		snapshot[i] = l.state[k]
	}
	l.mu.RUnlock()

	for i, k := range keys {
		if !fn(k, snapshot[i]) {
			break
		}
	}
	return nil
}

// AddTransaction records an applied transaction in the open ledger.
func (l *Ledger) AddTransaction(txe TxEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrLedgerImmutable
	}
	txe.Index = uint32(len(l.txs))
	l.txs = append(l.txs, txe)
	return nil
}

// Close freezes the ledger and computes its state, transaction and header hashes.
func (l *Ledger) Close(closeTime time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrLedgerImmutable
	}

	l.header.CloseTime = closeTime.UTC().Truncate(time.Second)
	l.header.StateHash = l.stateHash()
	l.header.TxHash = l.txHash()
	l.header.TxCount = uint32(len(l.txs))
	l.header.Hash = l.header.ComputeHash()
	l.closed = true
	return nil
}

// SetValidated marks a closed ledger as validated.
func (l *Ledger) SetValidated() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.closed {
		return ErrLedgerNotClosed
	}
	l.validated = true
	return nil
}

func (l *Ledger) sortedKeys() [][32]byte {
	keys := make([][32]byte, 0, len(l.state))
	for k := range l.state {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})
	return keys
}

func (l *Ledger) stateHash() [32]byte {
	keys := l.sortedKeys()
	parts := make([][]byte, 0, 1+2*len(keys))
	parts = append(parts, crypto.PrefixStateTree)
	for _, k := range keys {
		key := k
		parts = append(parts, key[:], l.state[k])
	}
	return crypto.Sha512Half(parts...)
}

func (l *Ledger) txHash() [32]byte {
	parts := make([][]byte, 0, 1+len(l.txs))
	parts = append(parts, crypto.PrefixTxTree)
	for i := range l.txs {
		parts = append(parts, l.txs[i].Hash[:])
	}
	return crypto.Sha512Half(parts...)
}

// Sequence returns the ledger sequence number.
func (l *Ledger) Sequence() uint32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.header.LedgerIndex
}

// Hash returns the ledger hash. It is zero until the ledger is closed.
func (l *Ledger) Hash() [32]byte {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.header.Hash
}

// ParentHash returns the hash of the parent ledger.
func (l *Ledger) ParentHash() [32]byte {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.header.ParentHash
}

// CloseTime returns the ledger close time.
func (l *Ledger) CloseTime() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.header.CloseTime
}

// Header returns a copy of the ledger header.
func (l *Ledger) Header() header.LedgerHeader {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.header
}

func (l *Ledger) IsClosed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.closed
}

func (l *Ledger) IsValidated() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.validated
}

// Transactions returns the transactions recorded in this ledger, in apply order.
func (l *Ledger) Transactions() []TxEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]TxEntry, len(l.txs))
	copy(out, l.txs)
	return out
}

// TxCount returns the number of recorded transactions.
func (l *Ledger) TxCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.txs)
}

// StateSize returns the number of state entries.
func (l *Ledger) StateSize() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.state)
}

func (l *Ledger) String() string {
	return fmt.Sprintf("ledger #%d (%d entries, %d txs)", l.Sequence(), l.StateSize(), l.TxCount())
}
