package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/carbond/internal/core/ledger/entry"
	"github.com/LeJamon/carbond/internal/core/ledger/keylet"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestGenesis(t *testing.T) {
	g, err := NewGenesis(t0)
	require.NoError(t, err)

	assert.Equal(t, GenesisSequence, g.Sequence())
	assert.True(t, g.IsClosed())
	assert.True(t, g.IsValidated())
	assert.NotEqual(t, [32]byte{}, g.Hash())

	data, err := g.Read(keylet.Totals())
	require.NoError(t, err)
	var totals entry.Totals
	require.NoError(t, entry.Unmarshal(data, &totals))
	assert.Zero(t, totals.Issued)

	require.ErrorIs(t, g.Insert(keylet.Account([20]byte{1}), []byte{1}), ErrLedgerImmutable)
}

func TestOpenLedgerLifecycle(t *testing.T) {
	g, err := NewGenesis(t0)
	require.NoError(t, err)

	open, err := NewOpen(g, t0.Add(10*time.Second))
	require.NoError(t, err)
	assert.Equal(t, uint32(2), open.Sequence())
	assert.Equal(t, g.Hash(), open.ParentHash())

	k := keylet.Account([20]byte{7})
	require.NoError(t, open.Insert(k, []byte("a")))
	require.ErrorIs(t, open.Insert(k, []byte("b")), ErrEntryExists)
	require.NoError(t, open.Update(k, []byte("c")))
	require.ErrorIs(t, open.Update(keylet.Account([20]byte{8}), []byte("x")), ErrEntryNotFound)

	got, err := open.Read(k)
	require.NoError(t, err)
	assert.Equal(t, []byte("c"), got)

	// parent state is untouched
	exists, err := g.Exists(k)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, open.AddTransaction(TxEntry{Hash: [32]byte{9}}))
	require.NoError(t, open.Close(t0.Add(10*time.Second)))
	assert.Equal(t, 1, open.TxCount())
	assert.Equal(t, uint32(1), open.Header().TxCount)
	require.ErrorIs(t, open.Close(t0), ErrLedgerImmutable)

	_, err = NewOpen(open, t0)
	require.NoError(t, err)
}

func TestNewOpenRequiresClosedParent(t *testing.T) {
	g, err := NewGenesis(t0)
	require.NoError(t, err)
	open, err := NewOpen(g, t0)
	require.NoError(t, err)

	_, err = NewOpen(open, t0)
	require.ErrorIs(t, err, ErrLedgerNotClosed)
}

func TestForEachSortedAndStateHashDeterministic(t *testing.T) {
	build := func(order []byte) *Ledger {
		g, err := NewGenesis(t0)
		require.NoError(t, err)
		l, err := NewOpen(g, t0)
		require.NoError(t, err)
		for _, b := range order {
			require.NoError(t, l.Insert(keylet.Account([20]byte{b}), []byte{b}))
		}
		require.NoError(t, l.Close(t0))
		return l
	}

	a := build([]byte{3, 1, 2})
	b := build([]byte{2, 3, 1})
	assert.Equal(t, a.Header().StateHash, b.Header().StateHash)

	var prev [32]byte
	count := 0
	require.NoError(t, a.ForEach(func(key [32]byte, _ []byte) bool {
		if count > 0 {
			assert.True(t, string(prev[:]) < string(key[:]))
		}
		prev = key
		count++
		return true
	}))
	assert.Equal(t, 4, count)
}
