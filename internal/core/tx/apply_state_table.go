package tx

import (
	"bytes"
	"errors"
	"sort"

	"github.com/LeJamon/carbond/internal/core/ledger/entry"
	"github.com/LeJamon/carbond/internal/core/ledger/keylet"
)

var (
	errEntryExists   = errors.New("entry already exists")
	errEntryNotFound = errors.New("entry not found")
)

// Action represents the type of modification to a ledger entry
type Action int

const (
	// ActionCache means the entry was read but not modified
	ActionCache Action = iota
	// ActionInsert means a new entry was created
	ActionInsert
	// ActionModify means an existing entry was modified
	ActionModify
	// ActionErase means an entry was deleted
	ActionErase
)

// TrackedEntry represents a ledger entry being tracked for changes
type TrackedEntry struct {
	Type     entry.Type
	Action   Action
	Original []byte // nil for inserts
	Current  []byte // state before deletion for erases
}

// ApplyStateTable wraps a LedgerView and buffers every modification made
// by one transaction. Nothing reaches the base view until Apply is called,
// so a rejected transaction is discarded by dropping the table.
type ApplyStateTable struct {
	base   LedgerView
	items  map[[32]byte]*TrackedEntry
	txHash [32]byte
	txSeq  uint32
}

// NewApplyStateTable creates a new ApplyStateTable wrapping the given base view
func NewApplyStateTable(base LedgerView, txHash [32]byte, txSeq uint32) *ApplyStateTable {
	return &ApplyStateTable{
		base:   base,
		items:  make(map[[32]byte]*TrackedEntry),
		txHash: txHash,
		txSeq:  txSeq,
	}
}

// Read reads a ledger entry, tracking it as cached
func (t *ApplyStateTable) Read(k keylet.Keylet) ([]byte, error) {
	if e, ok := t.items[k.Key]; ok {
		if e.Action == ActionErase {
			return nil, nil
		}
		return e.Current, nil
	}

	data, err := t.base.Read(k)
	if err != nil {
		return nil, err
	}
	if data != nil {
		t.items[k.Key] = &TrackedEntry{
			Type:     k.Type,
			Action:   ActionCache,
			Original: data,
			Current:  data,
		}
	}
	return data, nil
}

// Exists checks if an entry exists
func (t *ApplyStateTable) Exists(k keylet.Keylet) (bool, error) {
	if e, ok := t.items[k.Key]; ok {
		return e.Action != ActionErase, nil
	}
	return t.base.Exists(k)
}

// Insert adds a new entry
func (t *ApplyStateTable) Insert(k keylet.Keylet, data []byte) error {
	if e, ok := t.items[k.Key]; ok {
		if e.Action != ActionErase {
			return errEntryExists
		}
		// re-inserting a deleted entry becomes a modify
		e.Action = ActionModify
		e.Current = data
		return nil
	}

	exists, err := t.base.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return errEntryExists
	}

	t.items[k.Key] = &TrackedEntry{
		Type:    k.Type,
		Action:  ActionInsert,
		Current: data,
	}
	return nil
}

// Update modifies an existing entry
func (t *ApplyStateTable) Update(k keylet.Keylet, data []byte) error {
	if e, ok := t.items[k.Key]; ok {
		if e.Action == ActionErase {
			return errEntryNotFound
		}
		if e.Action == ActionCache {
			e.Action = ActionModify
		}
		e.Current = data
		return nil
	}

	original, err := t.base.Read(k)
	if err != nil {
		return err
	}
	if original == nil {
		return errEntryNotFound
	}

	t.items[k.Key] = &TrackedEntry{
		Type:     k.Type,
		Action:   ActionModify,
		Original: original,
		Current:  data,
	}
	return nil
}

// Erase removes an entry
func (t *ApplyStateTable) Erase(k keylet.Keylet) error {
	if e, ok := t.items[k.Key]; ok {
		switch e.Action {
		case ActionErase:
			return errEntryNotFound
		case ActionInsert:
			delete(t.items, k.Key)
		default:
			e.Action = ActionErase
		}
		return nil
	}

	original, err := t.base.Read(k)
	if err != nil {
		return err
	}
	if original == nil {
		return errEntryNotFound
	}

	t.items[k.Key] = &TrackedEntry{
		Type:     k.Type,
		Action:   ActionErase,
		Original: original,
		Current:  original,
	}
	return nil
}

// ForEach iterates over the base view merged with pending changes
func (t *ApplyStateTable) ForEach(fn func(key [32]byte, data []byte) bool) error {
	seen := make(map[[32]byte]struct{}, len(t.items))
	stopped := false
	err := t.base.ForEach(func(key [32]byte, data []byte) bool {
		if e, ok := t.items[key]; ok {
			seen[key] = struct{}{}
			if e.Action == ActionErase {
				return true
			}
			data = e.Current
		}
		if !fn(key, data) {
			stopped = true
			return false
		}
		return true
	})
	if err != nil || stopped {
		return err
	}
	for _, key := range t.sortedKeys() {
		if _, ok := seen[key]; ok {
			continue
		}
		e := t.items[key]
		if e.Action == ActionErase {
			continue
		}
		if !fn(key, e.Current) {
			break
		}
	}
	return nil
}

// Entries returns the tracked entries that differ from the base view.
func (t *ApplyStateTable) Entries() map[[32]byte]*TrackedEntry {
	out := make(map[[32]byte]*TrackedEntry)
	for k, e := range t.items {
		if e.Action == ActionCache {
			continue
		}
		if e.Action == ActionModify && bytes.Equal(e.Original, e.Current) {
			continue
		}
		out[k] = e
	}
	return out
}

// Apply commits all changes to the base view and returns generated metadata.
// Entries are written in key order so the resulting metadata is deterministic.
func (t *ApplyStateTable) Apply() (*Metadata, error) {
	metadata := &Metadata{AffectedNodes: make([]AffectedNode, 0)}

	for _, key := range t.sortedKeys() {
		e := t.items[key]
		k := keylet.Keylet{Type: e.Type, Key: key}

		switch e.Action {
		case ActionCache:
			continue

		case ActionInsert:
			metadata.AffectedNodes = append(metadata.AffectedNodes, buildCreatedNode(k, e.Current))
			if err := t.base.Insert(k, e.Current); err != nil {
				return nil, err
			}

		case ActionModify:
			if bytes.Equal(e.Original, e.Current) {
				continue
			}
			metadata.AffectedNodes = append(metadata.AffectedNodes, buildModifiedNode(k, e.Original, e.Current))
			if err := t.base.Update(k, e.Current); err != nil {
				return nil, err
			}

		case ActionErase:
			metadata.AffectedNodes = append(metadata.AffectedNodes, buildDeletedNode(k, e.Current))
			if err := t.base.Erase(k); err != nil {
				return nil, err
			}
		}
	}

	return metadata, nil
}

// Discard drops all pending changes.
func (t *ApplyStateTable) Discard() {
	t.items = make(map[[32]byte]*TrackedEntry)
}

func (t *ApplyStateTable) sortedKeys() [][32]byte {
	keys := make([][32]byte, 0, len(t.items))
	for k := range t.items {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})
	return keys
}
